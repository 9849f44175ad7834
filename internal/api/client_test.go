package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyam/numsense/internal/screening"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Retry.InitialWait = time.Millisecond
	cfg.Retry.MaxWait = 5 * time.Millisecond

	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestStartSession(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/session", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "7-8", req["age_group"])

		json.NewEncoder(w).Encode(sessionResponse{SessionID: "abc-123", AgeGroup: "7-8"})
	}))

	id, err := c.StartSession(context.Background(), screening.Age7to8)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
}

func TestFetchQuestions_MapsWirePayload(t *testing.T) {
	three := 3
	seven := 7
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/questions/number-comparison", r.URL.Path)
		assert.Equal(t, "sess-1", r.URL.Query().Get("session_id"))
		assert.Equal(t, "5-6", r.URL.Query().Get("age_group"))

		json.NewEncoder(w).Encode(questionSetResponse{
			TestType:       "number-comparison",
			TotalQuestions: 1,
			Questions: []wireQuestion{{
				QuestionID:    "nc-1",
				TestType:      "number-comparison",
				Story:         "Who has more stars?",
				LeftValue:     &three,
				RightValue:    &seven,
				Options:       []string{"Left", "Right"},
				CorrectAnswer: "Right",
			}},
		})
	}))

	qs, err := c.FetchQuestions(context.Background(), screening.TestNumberComparison, "sess-1", screening.Age5to6)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Right", qs[0].CorrectAnswer)
}

func TestFetchQuestions_BadPayloadNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(questionSetResponse{
			Questions: []wireQuestion{{QuestionID: "q1", Options: []string{"a"}, CorrectAnswer: "missing"}},
		})
	}))

	_, err := c.FetchQuestions(context.Background(), screening.TestMemoryRecall, "s", screening.Age9to10)
	require.Error(t, err)
	var bad *ErrBadPayload
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, int32(1), calls.Load(), "payload errors must not be retried")
}

func TestDoJSON_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))

	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoJSON_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	err := c.Health(context.Background())
	require.Error(t, err)
	var unavail *ErrUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSubmitAnswer_ReturnsEncouragement(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sub answerSubmission
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.Equal(t, "nc-1", sub.QuestionID)
		assert.Equal(t, int64(2500), sub.ResponseTimeMs)

		json.NewEncoder(w).Encode(answerResponse{Correct: true, Message: "Great job!"})
	}))

	msg, err := c.SubmitAnswer(context.Background(), AnswerReport{
		SessionID:      "sess-1",
		QuestionID:     "nc-1",
		SelectedAnswer: "Right",
		ResponseTimeMs: 2500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Great job!", msg)
}

func TestClassifyRisk(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req riskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sess-1", req.SessionID)
		assert.InDelta(t, 73.33, req.Features.AccuracyPercent, 0.01)

		json.NewEncoder(w).Encode(riskResponse{
			RiskLevel:       "low",
			Confidence:      0.9,
			Explanation:     "Strong number sense.",
			Recommendations: []string{"Keep playing number games"},
		})
	}))

	ra, err := c.ClassifyRisk(context.Background(), "sess-1", FeatureVector{AccuracyPercent: 73.33})
	require.NoError(t, err)
	assert.Equal(t, screening.RiskLow, ra.Level)
	assert.Equal(t, 0.9, ra.Confidence)
}

func TestLocalSessionID(t *testing.T) {
	id := NewLocalSessionID(func() string { return "uuid-1" })
	assert.True(t, LocalSessionID(id))
	assert.False(t, LocalSessionID("abc-123"))
}
