package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyam/numsense/internal/screening"
)

func TestMapQuestion_FullPayload(t *testing.T) {
	raw := `{
		"question_id": "nc-1",
		"test_type": "number-comparison",
		"story": "Rabbit has 3 carrots, Bear has 7. Who has more?",
		"visual_object": "carrot",
		"left_value": 3,
		"right_value": 7,
		"options": ["Rabbit", "Bear"],
		"correct_answer": "Bear",
		"emoji": "🥕",
		"left_emoji": "🐰",
		"right_emoji": "🐻",
		"left_label": "Rabbit",
		"right_label": "Bear"
	}`

	var w wireQuestion
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	q, err := mapQuestion(w)
	require.NoError(t, err)

	assert.Equal(t, "nc-1", q.ID)
	assert.Equal(t, screening.TestNumberComparison, q.TestType)
	require.NotNil(t, q.LeftValue)
	require.NotNil(t, q.RightValue)
	assert.Equal(t, 3, *q.LeftValue)
	assert.Equal(t, 7, *q.RightValue)
	assert.Equal(t, "Bear", q.CorrectAnswer)
	assert.Equal(t, "🐰", q.Visuals.LeftEmoji)
	assert.Equal(t, "carrot", q.Visuals.Object)
	assert.Nil(t, q.MemorySequence)
}

func TestMapQuestion_OptionalFieldsAbsent(t *testing.T) {
	raw := `{
		"question_id": "mr-1",
		"test_type": "memory-recall",
		"story": "Remember these numbers!",
		"memory_sequence": ["3", "7", "1"],
		"options": ["3 7 1", "1 7 3", "3 1 7"],
		"correct_answer": "3 7 1"
	}`

	var w wireQuestion
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	q, err := mapQuestion(w)
	require.NoError(t, err)

	assert.Nil(t, q.LeftValue)
	assert.Nil(t, q.RightValue)
	assert.Equal(t, []string{"3", "7", "1"}, q.MemorySequence)
	assert.Empty(t, q.Visuals.Emoji)
}

func TestMapQuestion_Rejections(t *testing.T) {
	tests := []struct {
		name string
		w    wireQuestion
	}{
		{"missing id", wireQuestion{Options: []string{"a"}, CorrectAnswer: "a"}},
		{"no options", wireQuestion{QuestionID: "q1", CorrectAnswer: "a"}},
		{"answer not an option", wireQuestion{QuestionID: "q1", Options: []string{"a", "b"}, CorrectAnswer: "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapQuestion(tt.w)
			require.Error(t, err)
		})
	}
}

func TestMapRisk(t *testing.T) {
	ra, err := mapRisk(riskResponse{
		RiskLevel:       "medium",
		Confidence:      0.72,
		Explanation:     "Some areas may benefit from support.",
		Recommendations: []string{"Use visual learning materials"},
	})
	require.NoError(t, err)
	assert.Equal(t, screening.RiskMedium, ra.Level)
	assert.Equal(t, 0.72, ra.Confidence)
	assert.Len(t, ra.Recommendations, 1)
}

func TestMapRisk_Rejections(t *testing.T) {
	_, err := mapRisk(riskResponse{RiskLevel: "catastrophic", Confidence: 0.5})
	require.Error(t, err)

	_, err = mapRisk(riskResponse{RiskLevel: "low", Confidence: 1.5})
	require.Error(t, err)
}

func TestFallbackEncouragement_Deterministic(t *testing.T) {
	a := FallbackEncouragement(true, 2)
	b := FallbackEncouragement(true, 2)
	assert.Equal(t, a, b)

	assert.NotEqual(t, FallbackEncouragement(true, 0), FallbackEncouragement(false, 0))
}
