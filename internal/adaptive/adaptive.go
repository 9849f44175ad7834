package adaptive

import "github.com/priyam/numsense/internal/screening"

// Level is a question difficulty tier. Normal is age-appropriate; the
// outer tiers build confidence for struggling children or stretch
// children performing above age level.
type Level int

const (
	VeryEasy Level = iota + 1
	Easy
	Normal
	Challenging
	Advanced
)

func (l Level) String() string {
	switch l {
	case VeryEasy:
		return "very-easy"
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Challenging:
		return "challenging"
	case Advanced:
		return "advanced"
	}
	return "unknown"
}

// Decision is the outcome of recording one answer.
type Decision string

const (
	Raise Decision = "raise"
	Lower Decision = "lower"
	Hold  Decision = "hold"
)

// windowSize is how many recent answers the stability check looks at.
const windowSize = 5

// Metrics is the rolling performance window driving level decisions.
type Metrics struct {
	Answered           int
	Correct            int
	TotalResponseMs    int64
	AnswerChanges      int
	ConsecutiveCorrect int
	ConsecutiveWrong   int

	window []bool
}

// Record folds one answer into the window.
func (m *Metrics) Record(correct bool, responseMs int64, changes int) {
	m.Answered++
	m.TotalResponseMs += responseMs
	m.AnswerChanges += changes

	if correct {
		m.Correct++
		m.ConsecutiveCorrect++
		m.ConsecutiveWrong = 0
	} else {
		m.ConsecutiveWrong++
		m.ConsecutiveCorrect = 0
	}

	m.window = append(m.window, correct)
	if len(m.window) > windowSize {
		m.window = m.window[len(m.window)-windowSize:]
	}
}

// Accuracy returns the window accuracy as a percentage.
func (m *Metrics) Accuracy() float64 {
	if m.Answered == 0 {
		return 0
	}
	return float64(m.Correct) / float64(m.Answered) * 100
}

// AvgResponseMs returns the mean response time over the window.
func (m *Metrics) AvgResponseMs() float64 {
	if m.Answered == 0 {
		return 0
	}
	return float64(m.TotalResponseMs) / float64(m.Answered)
}

// performingWell: high accuracy with a streak, after enough evidence.
func (m *Metrics) performingWell() bool {
	return m.Accuracy() >= 70 && m.ConsecutiveCorrect >= 2 && m.Answered >= 3
}

// struggling: low accuracy after enough evidence, or a wrong streak.
func (m *Metrics) struggling() bool {
	return (m.Answered >= 3 && m.Accuracy() < 40) || m.ConsecutiveWrong >= 2
}

// unstable: the recent window alternates between correct and wrong.
func (m *Metrics) unstable() bool {
	if len(m.window) < 3 {
		return false
	}
	flips := 0
	for i := 1; i < len(m.window); i++ {
		if m.window[i] != m.window[i-1] {
			flips++
		}
	}
	return flips >= 2
}

// Change records one level transition, for the report screen.
type Change struct {
	From     Level
	To       Level
	Decision Decision
	AtAnswer int
}

// Tracker holds the current difficulty for one session and adjusts it as
// answers come in.
type Tracker struct {
	age     screening.AgeGroup
	level   Level
	metrics Metrics
	changes []Change
}

// NewTracker starts at the age-appropriate Normal level.
func NewTracker(age screening.AgeGroup) *Tracker {
	return &Tracker{age: age, level: Normal}
}

// Record folds one answer in and returns the resulting decision. The
// rolling window resets after a level change so one adjustment cannot
// immediately cascade into another.
func (t *Tracker) Record(correct bool, responseMs int64, changes int) Decision {
	t.metrics.Record(correct, responseMs, changes)

	switch {
	case t.metrics.struggling() && t.level > VeryEasy:
		t.shift(t.level-1, Lower)
		return Lower
	case t.metrics.unstable():
		return Hold
	case t.metrics.performingWell() && t.level < Advanced:
		t.shift(t.level+1, Raise)
		return Raise
	}
	return Hold
}

func (t *Tracker) shift(to Level, d Decision) {
	t.changes = append(t.changes, Change{
		From:     t.level,
		To:       to,
		Decision: d,
		AtAnswer: t.metrics.Answered,
	})
	t.level = to
	t.metrics = Metrics{}
}

// Level returns the current difficulty.
func (t *Tracker) Level() Level {
	return t.level
}

// Changes returns the transition history.
func (t *Tracker) Changes() []Change {
	out := make([]Change, len(t.changes))
	copy(out, t.changes)
	return out
}

// Metrics returns a copy of the current rolling window.
func (t *Tracker) Metrics() Metrics {
	return t.metrics
}
