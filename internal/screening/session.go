package screening

import "time"

// Session is the state machine for one screening attempt. It owns the
// in-progress test (question list, cursor, answer log), the completed-test
// history, and the latest risk assessment.
//
// A Session is an explicit handle: construct one per screening attempt and
// thread it through the screens driving the flow. It is single-writer by
// contract: all mutations are synchronous and the UI layer is the only
// caller, so no locking is done here.
//
// Mutating calls made without their prerequisite state (no active test, no
// current question) are silent no-ops rather than errors; the UI fires
// redundant events and every call site would otherwise need a guard.
type Session struct {
	now func() time.Time

	sessionID string
	ageGroup  AgeGroup

	currentTestType      TestType // empty when no test is in progress
	questions            []Question
	currentQuestionIndex int
	answers              []Answer
	questionStartTime    time.Time // zero when no question is being timed

	testResults    []TestResult
	riskAssessment *RiskAssessment
}

// NewSession creates a pristine session using the wall clock.
func NewSession() *Session {
	return NewSessionWithClock(time.Now)
}

// NewSessionWithClock creates a session with an injected clock, for tests.
func NewSessionWithClock(now func() time.Time) *Session {
	return &Session{now: now}
}

// SetSessionID assigns a new session identifier and discards all test
// state belonging to the previous session: the in-progress test, the
// completed-test history, and the risk assessment. This is the only
// isolation mechanism between sessions, so the wipe is unconditional.
// The age group is set separately and survives.
func (s *Session) SetSessionID(id string) {
	s.sessionID = id
	s.currentTestType = ""
	s.questions = nil
	s.currentQuestionIndex = 0
	s.answers = nil
	s.testResults = nil
	s.riskAssessment = nil
	s.questionStartTime = time.Time{}
}

// SetAgeGroup records the child's age bracket. No other state is touched.
func (s *Session) SetAgeGroup(age AgeGroup) {
	s.ageGroup = age
}

// StartTest begins a test module with the complete ordered question list.
// Starting while another test is in progress abandons it without recording
// a result; callers must not rely on partial-test recovery. The
// per-question timer is stamped with the current time.
func (s *Session) StartTest(testType TestType, questions []Question) {
	s.currentTestType = testType
	s.questions = questions
	s.currentQuestionIndex = 0
	s.answers = nil
	s.questionStartTime = s.now()
}

// SubmitAnswer records a response to the current question. The response
// time is measured from the last timer stamp and clamped at zero against
// clock skew; correctness is exact string equality with the question's
// correct answer, derived once here. The cursor is not advanced.
//
// Submitting twice for one question appends two Answer records for the
// same question id; the log grows append-only and never deduplicates.
// No-op when there is no current question or no timer stamp.
func (s *Session) SubmitAnswer(selectedAnswer string, answerChanges int) {
	q, ok := s.CurrentQuestion()
	if !ok || s.questionStartTime.IsZero() {
		return
	}

	elapsed := s.now().Sub(s.questionStartTime).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	if answerChanges < 0 {
		answerChanges = 0
	}

	s.answers = append(s.answers, Answer{
		QuestionID:     q.ID,
		SelectedAnswer: selectedAnswer,
		ResponseTimeMs: elapsed,
		AnswerChanges:  answerChanges,
		Correct:        selectedAnswer == q.CorrectAnswer,
	})
}

// NextQuestion advances the cursor and restarts the per-question timing
// window. No-op when the cursor is already on the last question.
func (s *Session) NextQuestion() {
	if s.currentQuestionIndex >= len(s.questions)-1 {
		return
	}
	s.currentQuestionIndex++
	s.questionStartTime = s.now()
}

// CompleteTest finalizes the in-progress module: it appends a TestResult
// summarizing the answer log and resets the machine to the no-test
// baseline. Results accumulate across modules (completing is always an
// append, never an overwrite) and the risk assessment survives.
// No-op when no test is in progress.
func (s *Session) CompleteTest() {
	if s.currentTestType == "" {
		return
	}

	correct := 0
	var totalMs int64
	for _, a := range s.answers {
		if a.Correct {
			correct++
		}
		totalMs += a.ResponseTimeMs
	}
	var avg float64
	if len(s.answers) > 0 {
		avg = float64(totalMs) / float64(len(s.answers))
	}

	s.testResults = append(s.testResults, TestResult{
		TestType:        s.currentTestType,
		TotalQuestions:  len(s.questions),
		CorrectAnswers:  correct,
		AvgResponseTime: avg,
		Answers:         s.answers,
	})

	s.currentTestType = ""
	s.questions = nil
	s.currentQuestionIndex = 0
	s.answers = nil
	s.questionStartTime = time.Time{}
}

// SetRiskAssessment replaces the current assessment wholesale.
func (s *Session) SetRiskAssessment(assessment RiskAssessment) {
	s.riskAssessment = &assessment
}

// Reset wipes every field, including the session id and age group,
// returning the machine to its pristine initial state.
func (s *Session) Reset() {
	s.sessionID = ""
	s.ageGroup = ""
	s.currentTestType = ""
	s.questions = nil
	s.currentQuestionIndex = 0
	s.answers = nil
	s.testResults = nil
	s.riskAssessment = nil
	s.questionStartTime = time.Time{}
}

// SessionID returns the current session identifier ("" until assigned).
func (s *Session) SessionID() string {
	return s.sessionID
}

// AgeGroup returns the recorded age bracket ("" until set).
func (s *Session) AgeGroup() AgeGroup {
	return s.ageGroup
}

// ActiveTest reports the in-progress module, if any.
func (s *Session) ActiveTest() (TestType, bool) {
	return s.currentTestType, s.currentTestType != ""
}

// CurrentQuestion returns the question under the cursor. The second return
// is false when the cursor is out of range, including the no-test state.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.currentQuestionIndex < 0 || s.currentQuestionIndex >= len(s.questions) {
		return Question{}, false
	}
	return s.questions[s.currentQuestionIndex], true
}

// CurrentQuestionIndex returns the zero-based cursor position.
func (s *Session) CurrentQuestionIndex() int {
	return s.currentQuestionIndex
}

// QuestionCount returns the number of questions in the active test.
func (s *Session) QuestionCount() int {
	return len(s.questions)
}

// Progress returns how far through the active test the child is, as a
// percentage in (0, 100]. Zero when no test is loaded.
func (s *Session) Progress() float64 {
	if len(s.questions) == 0 {
		return 0
	}
	return float64(s.currentQuestionIndex+1) / float64(len(s.questions)) * 100
}

// IsTestComplete reports whether every question slot has an answer
// recorded. This is a count check, not a position check: duplicate
// submissions for one question can satisfy it while another question has
// no answer at all.
func (s *Session) IsTestComplete() bool {
	return len(s.questions) > 0 && len(s.answers) == len(s.questions)
}

// Answers returns a copy of the in-progress answer log.
func (s *Session) Answers() []Answer {
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// TestResults returns a copy of the completed-module results, in
// completion order.
func (s *Session) TestResults() []TestResult {
	out := make([]TestResult, len(s.testResults))
	copy(out, s.testResults)
	return out
}

// RiskAssessment returns the latest assessment, if one has been set.
func (s *Session) RiskAssessment() (RiskAssessment, bool) {
	if s.riskAssessment == nil {
		return RiskAssessment{}, false
	}
	return *s.riskAssessment, true
}

// QuestionStartTime returns the current timing-window stamp (zero when no
// question is being timed). Exposed for the UI's elapsed-time display.
func (s *Session) QuestionStartTime() time.Time {
	return s.questionStartTime
}
