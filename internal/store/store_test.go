package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyam/numsense/internal/screening"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(sessionID string, accuracy float64, completedAt time.Time) ScreeningRecord {
	return ScreeningRecord{
		SessionID:      sessionID,
		AgeGroup:       screening.Age7to8,
		Accuracy:       accuracy,
		AvgResponseMs:  2500,
		RiskLevel:      string(screening.RiskLow),
		RiskConfidence: 0.85,
		CompletedAt:    completedAt,
		Modules: []ModuleRecord{
			{TestType: screening.TestNumberComparison, TotalQuestions: 5, CorrectAnswers: 4, AvgResponseMs: 2100},
			{TestType: screening.TestMentalArithmetic, TotalQuestions: 5, CorrectAnswers: 3, AvgResponseMs: 3200},
			{TestType: screening.TestMemoryRecall, TotalQuestions: 5, CorrectAnswers: 5, AvgResponseMs: 2200},
		},
	}
}

func TestSaveAndListRoundTrip(t *testing.T) {
	repo := openTestStore(t).Screenings()
	ctx := context.Background()

	rec := sampleRecord("sess-1", 80, time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, &rec))
	assert.NotZero(t, rec.ID)

	recs, err := repo.List(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, recs, 1)

	got := recs[0]
	assert.Equal(t, "sess-1", got.SessionID)
	assert.Equal(t, screening.Age7to8, got.AgeGroup)
	assert.Equal(t, 80.0, got.Accuracy)
	assert.Equal(t, string(screening.RiskLow), got.RiskLevel)

	require.Len(t, got.Modules, 3)
	assert.Equal(t, screening.TestNumberComparison, got.Modules[0].TestType)
	assert.Equal(t, 4, got.Modules[0].CorrectAnswers)
	assert.InDelta(t, 80.0, got.Modules[0].Accuracy(), 0.01)
	assert.Equal(t, screening.TestMemoryRecall, got.Modules[2].TestType)
}

func TestListNewestFirstWithLimit(t *testing.T) {
	repo := openTestStore(t).Screenings()
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		rec := sampleRecord(id, 60, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Save(ctx, &rec))
	}

	recs, err := repo.List(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "new", recs[0].SessionID)
	assert.Equal(t, "mid", recs[1].SessionID)
}

func TestStatsAggregatesHistory(t *testing.T) {
	repo := openTestStore(t).Screenings()
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	low := sampleRecord("a", 90, base)
	require.NoError(t, repo.Save(ctx, &low))

	high := sampleRecord("b", 30, base.Add(time.Hour))
	high.RiskLevel = string(screening.RiskHigh)
	require.NoError(t, repo.Save(ctx, &high))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalScreenings)
	assert.InDelta(t, 60.0, stats.AvgAccuracy, 0.01)
	assert.Equal(t, 1, stats.ByRiskLevel[string(screening.RiskLow)])
	assert.Equal(t, 1, stats.ByRiskLevel[string(screening.RiskHigh)])
}

func TestStatsEmptyHistory(t *testing.T) {
	repo := openTestStore(t).Screenings()

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalScreenings)
	assert.Zero(t, stats.AvgAccuracy)
	assert.Empty(t, stats.ByRiskLevel)
	assert.True(t, stats.LastCompletedAt.IsZero())
}

func TestClearEmptiesHistory(t *testing.T) {
	repo := openTestStore(t).Screenings()
	ctx := context.Background()

	rec := sampleRecord("sess-1", 80, time.Now().UTC())
	require.NoError(t, repo.Save(ctx, &rec))
	require.NoError(t, repo.Clear(ctx))

	recs, err := repo.List(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestLatestReturnsMostRecent(t *testing.T) {
	repo := openTestStore(t).Screenings()
	ctx := context.Background()

	_, err := Latest(ctx, repo)
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	first := sampleRecord("first", 70, base)
	require.NoError(t, repo.Save(ctx, &first))
	second := sampleRecord("second", 75, base.Add(time.Minute))
	require.NoError(t, repo.Save(ctx, &second))

	latest, err := Latest(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, "second", latest.SessionID)
}

func TestRecordFromSession(t *testing.T) {
	s := screening.NewSession()
	s.SetAgeGroup(screening.Age9to10)
	s.StartTest(screening.TestNumberComparison, []screening.Question{
		{ID: "q1", Options: []string{"a", "b"}, CorrectAnswer: "a"},
		{ID: "q2", Options: []string{"a", "b"}, CorrectAnswer: "b"},
	})
	s.SubmitAnswer("a", 0)
	s.NextQuestion()
	s.SubmitAnswer("a", 1)
	s.CompleteTest()
	s.SetRiskAssessment(screening.RiskAssessment{
		Level:      screening.RiskLow,
		Confidence: 0.85,
	})

	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	rec := RecordFromSession(s, at)

	assert.Equal(t, screening.Age9to10, rec.AgeGroup)
	assert.InDelta(t, 50.0, rec.Accuracy, 0.01)
	assert.Equal(t, string(screening.RiskLow), rec.RiskLevel)
	assert.Equal(t, at, rec.CompletedAt)
	require.Len(t, rec.Modules, 1)
	assert.Equal(t, 2, rec.Modules[0].TotalQuestions)
	assert.Equal(t, 1, rec.Modules[0].CorrectAnswers)
}
