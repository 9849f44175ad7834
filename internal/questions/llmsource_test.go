package questions

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyam/numsense/internal/llm"
	"github.com/priyam/numsense/internal/screening"
)

func generatedPayload(t *testing.T, qs []generatedQuestion) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(generatedSet{Questions: qs})
	require.NoError(t, err)
	return raw
}

func comparisonItem(id string, left, right int, correct string) generatedQuestion {
	return generatedQuestion{
		QuestionID:    id,
		Story:         "🐰 Rabbit has carrots. 🐻 Bear has carrots. Who has more?",
		LeftValue:     &left,
		RightValue:    &right,
		Options:       []string{"Rabbit", "Bear", "Same"},
		CorrectAnswer: correct,
		LeftLabel:     "Rabbit",
		RightLabel:    "Bear",
		LeftEmoji:     "🐰",
		RightEmoji:    "🐻",
		Emoji:         "🥕",
	}
}

func TestLLMSourceMapsGeneratedQuestions(t *testing.T) {
	payload := generatedPayload(t, []generatedQuestion{
		comparisonItem("nc_1", 5, 8, "Bear"),
		comparisonItem("nc_2", 9, 9, "Same"),
	})
	mock := llm.NewMockProvider(llm.MockOutput{Content: payload})

	qs, err := NewLLMSource(mock).Fetch(context.Background(), Request{
		TestType: screening.TestNumberComparison,
		AgeGroup: screening.Age7to8,
		Count:    2,
	})
	require.NoError(t, err)
	require.Len(t, qs, 2)

	assert.Equal(t, "nc_1", qs[0].ID)
	assert.Equal(t, screening.TestNumberComparison, qs[0].TestType)
	assert.Equal(t, "Bear", qs[0].CorrectAnswer)
	assert.Equal(t, 5, *qs[0].LeftValue)
	assert.Equal(t, "🐻", qs[0].Visuals.RightEmoji)
	assert.Equal(t, "Same", qs[1].CorrectAnswer)

	// The prompt carries the cognitive template and the schema.
	require.Len(t, mock.Prompts, 1)
	assert.Equal(t, questionSetSchema, mock.Prompts[0].Schema)
	assert.Contains(t, mock.Prompts[0].User, "compare exactly two quantities")
}

func TestLLMSourceDropsOutOfTemplateQuestions(t *testing.T) {
	bad := comparisonItem("nc_bad", 5, 500, "Bear") // out of the 7-8 range
	missing := comparisonItem("nc_missing", 5, 8, "Wolf")
	good := comparisonItem("nc_good", 5, 8, "Bear")

	payload := generatedPayload(t, []generatedQuestion{bad, missing, good})
	mock := llm.NewMockProvider(llm.MockOutput{Content: payload})

	qs, err := NewLLMSource(mock).Fetch(context.Background(), Request{
		TestType: screening.TestNumberComparison,
		AgeGroup: screening.Age7to8,
		Count:    3,
	})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "nc_good", qs[0].ID)
}

func TestLLMSourceRejectsWrongSequenceLength(t *testing.T) {
	payload := generatedPayload(t, []generatedQuestion{{
		QuestionID:     "mr_1",
		Story:          "What was the second item?",
		MemorySequence: []string{"Red", "Blue"}, // age 7-8 expects 4
		Options:        []string{"Red", "Blue", "Green", "Yellow"},
		CorrectAnswer:  "Blue",
	}})
	mock := llm.NewMockProvider(llm.MockOutput{Content: payload})

	_, err := NewLLMSource(mock).Fetch(context.Background(), Request{
		TestType: screening.TestMemoryRecall,
		AgeGroup: screening.Age7to8,
	})
	assert.Error(t, err)
}

func TestLLMSourceProviderErrorSurfaces(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue: provider unavailable

	_, err := NewLLMSource(mock).Fetch(context.Background(), Request{
		TestType: screening.TestMentalArithmetic,
		AgeGroup: screening.Age5to6,
	})
	require.Error(t, err)

	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
}

func TestLLMSourceChainsWithStaticFallback(t *testing.T) {
	chain := Chain{
		NewLLMSource(llm.NewMockProvider()),
		NewStaticSource(7),
	}

	qs, err := chain.Fetch(context.Background(), Request{
		TestType: screening.TestMentalArithmetic,
		AgeGroup: screening.Age9to10,
	})
	require.NoError(t, err)
	assert.Len(t, qs, DefaultCount)
}
