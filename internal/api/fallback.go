package api

import "github.com/priyam/numsense/internal/screening"

// Local encouragement lines for when the feedback service is unreachable.
// Deterministic on purpose: the same question position always yields the
// same line, so the fallback carries no state of its own.

var correctLines = []string{
	"Great job! You got it!",
	"Wonderful! That's right!",
	"You're doing amazing!",
	"Super! Keep it up!",
}

var incorrectLines = []string{
	"Good try! Let's do the next one.",
	"Nice effort! You're learning!",
	"Almost! Let's keep going.",
	"That was tricky — on to the next!",
}

// FallbackEncouragement returns a canned line for the answer at the given
// question index.
func FallbackEncouragement(correct bool, questionIndex int) string {
	if questionIndex < 0 {
		questionIndex = 0
	}
	if correct {
		return correctLines[questionIndex%len(correctLines)]
	}
	return incorrectLines[questionIndex%len(incorrectLines)]
}

// LocalSessionID reports whether an id was issued locally rather than by
// the session service.
func LocalSessionID(id string) bool {
	return len(id) > len(localIDPrefix) && id[:len(localIDPrefix)] == localIDPrefix
}

const localIDPrefix = "local-"

// NewLocalSessionID issues a session id without the backend. Used when the
// session service is unreachable; the screening still runs, with local
// fallbacks for questions and risk scoring.
func NewLocalSessionID(gen func() string) string {
	return localIDPrefix + gen()
}

// FeaturesFromSession builds the wire feature vector from the session's
// aggregate queries, using the exact definitions the dashboard displays
// (including the mean-of-means response time).
func FeaturesFromSession(s *screening.Session) FeatureVector {
	accuracy := s.OverallAccuracy()
	errorRate := 0.0
	if s.TotalQuestions() > 0 {
		errorRate = 100 - accuracy
	}
	return FeatureVector{
		AccuracyPercent:  accuracy,
		AvgResponseTime:  s.OverallAvgResponseTime(),
		MaxDelay:         float64(s.MaxDelay()),
		ErrorRate:        errorRate,
		SkippedQuestions: s.SkippedQuestions(),
		AnswerChanges:    s.TotalAnswerChanges(),
	}
}
