package test

import (
	"time"

	"github.com/priyam/numsense/internal/screening"
)

// questionsReadyMsg is sent when a module's question set has been fetched.
type questionsReadyMsg struct {
	TestType  screening.TestType
	Questions []screening.Question
	Err       error
}

// memorizeTickMsg counts down the memorize phase, once per second.
type memorizeTickMsg time.Time

// encouragementMsg carries the feedback line for the answer just given.
type encouragementMsg struct {
	Text string
}

// riskReadyMsg is sent when the risk classification finished.
type riskReadyMsg struct {
	Assessment screening.RiskAssessment
}

// recordSavedMsg is sent after the screening was written to history.
type recordSavedMsg struct {
	Err error
}
