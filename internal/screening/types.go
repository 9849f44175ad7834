package screening

// AgeGroup is the child's age bracket. It influences question content
// (selected by the question source) and the age-calibrated thresholds used
// by the behavioral feature extractor.
type AgeGroup string

const (
	Age5to6  AgeGroup = "5-6"
	Age7to8  AgeGroup = "7-8"
	Age9to10 AgeGroup = "9-10"
)

// AgeGroups lists all supported age brackets in menu order.
func AgeGroups() []AgeGroup {
	return []AgeGroup{Age5to6, Age7to8, Age9to10}
}

// TestType identifies one of the three cognitive sub-tests.
type TestType string

const (
	TestNumberComparison TestType = "number-comparison"
	TestMentalArithmetic TestType = "mental-arithmetic"
	TestMemoryRecall     TestType = "memory-recall"
)

// TestOrder is the canonical sequence of modules within one screening.
func TestOrder() []TestType {
	return []TestType{TestNumberComparison, TestMentalArithmetic, TestMemoryRecall}
}

// DisplayName returns the human-readable module name.
func (t TestType) DisplayName() string {
	switch t {
	case TestNumberComparison:
		return "Number Comparison"
	case TestMentalArithmetic:
		return "Mental Arithmetic"
	case TestMemoryRecall:
		return "Memory Recall"
	}
	return string(t)
}

// RiskLevel is the screening verdict tier.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Visuals carries the optional presentation metadata attached to a
// question: the counted object and the characters on each side of a
// comparison. All fields may be empty.
type Visuals struct {
	Object     string
	Emoji      string
	LeftEmoji  string
	RightEmoji string
	LeftLabel  string
	RightLabel string
}

// Question is one presented item within a test module. Immutable once
// handed to the session; produced by a question source and mapped from the
// wire shape at the boundary (internal/api).
type Question struct {
	// ID is unique within a single test run.
	ID string

	// TestType is the module this question belongs to.
	TestType TestType

	// Story is the narrative prompt read to the child.
	Story string

	// LeftValue and RightValue are the compared quantities.
	// Set only for number-comparison questions.
	LeftValue  *int
	RightValue *int

	// MemorySequence is the ordered sequence of items to memorize.
	// Set only for memory-recall questions.
	MemorySequence []string

	// Options are the answer choices. CorrectAnswer is always a member.
	Options []string

	// CorrectAnswer is the single designated correct option text.
	CorrectAnswer string

	// Visuals holds optional emoji/label presentation metadata.
	Visuals Visuals
}

// Answer records one response to one question. Correct is derived once at
// submission time and never recomputed.
type Answer struct {
	QuestionID     string
	SelectedAnswer string

	// ResponseTimeMs is the elapsed time from question presentation to
	// submission. Never negative.
	ResponseTimeMs int64

	// AnswerChanges counts how many times the child switched their
	// selection before submitting.
	AnswerChanges int

	Correct bool
}

// TestResult is the immutable summary of one completed test module.
type TestResult struct {
	TestType       TestType
	TotalQuestions int
	CorrectAnswers int

	// AvgResponseTime is the arithmetic mean of ResponseTimeMs over the
	// recorded answers, in milliseconds. Zero when no answers were recorded.
	AvgResponseTime float64

	Answers []Answer
}

// Accuracy returns the module accuracy as a percentage (0 if no questions).
func (r TestResult) Accuracy() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(r.TotalQuestions) * 100
}

// RiskAssessment is the externally computed screening verdict. At most one
// per session; a new assessment replaces the previous one wholesale.
type RiskAssessment struct {
	Level           RiskLevel
	Confidence      float64
	Explanation     string
	Recommendations []string
}
