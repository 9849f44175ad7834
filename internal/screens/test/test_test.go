package test

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyam/numsense/internal/adaptive"
	"github.com/priyam/numsense/internal/questions"
	"github.com/priyam/numsense/internal/screen"
	"github.com/priyam/numsense/internal/screening"
)

// stubSource serves canned questions per module.
type stubSource struct {
	byType map[screening.TestType][]screening.Question
	err    error
}

func (s *stubSource) Fetch(_ context.Context, req questions.Request) ([]screening.Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byType[req.TestType], nil
}

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "report" }
func (s *stubScreen) Title() string                           { return "Report" }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func intPtr(n int) *int { return &n }

func comparisonQuestions() []screening.Question {
	return []screening.Question{
		{
			ID:            "nc_1",
			TestType:      screening.TestNumberComparison,
			Story:         "Rabbit has 3 carrots. Bear has 7 carrots. Who has more?",
			LeftValue:     intPtr(3),
			RightValue:    intPtr(7),
			Options:       []string{"Rabbit", "Bear", "Same"},
			CorrectAnswer: "Bear",
		},
		{
			ID:            "nc_2",
			TestType:      screening.TestNumberComparison,
			Story:         "Fox has 5 apples. Owl has 2 apples. Who has more?",
			LeftValue:     intPtr(5),
			RightValue:    intPtr(2),
			Options:       []string{"Fox", "Owl", "Same"},
			CorrectAnswer: "Fox",
		},
	}
}

func memoryQuestions() []screening.Question {
	return []screening.Question{
		{
			ID:             "mr_1",
			TestType:       screening.TestMemoryRecall,
			Story:          "Which color came second?",
			MemorySequence: []string{"Red", "Blue", "Green"},
			Options:        []string{"Blue", "Red", "Green", "Yellow"},
			CorrectAnswer:  "Blue",
		},
	}
}

func newTestScreen() (*TestScreen, *screening.Session) {
	sess := screening.NewSession()
	sess.SetAgeGroup(screening.Age7to8)
	sess.SetSessionID("local-test")

	source := &stubSource{byType: map[screening.TestType][]screening.Question{
		screening.TestNumberComparison: comparisonQuestions(),
		screening.TestMemoryRecall:     memoryQuestions(),
	}}

	s := New(Config{
		Session: sess,
		Source:  source,
		Tracker: adaptive.NewTracker(screening.Age7to8),
		Report:  func() screen.Screen { return &stubScreen{} },
	})
	return s, sess
}

func TestQuestionsReadyOpensIntro(t *testing.T) {
	s, _ := newTestScreen()

	s.Update(questionsReadyMsg{
		TestType:  screening.TestNumberComparison,
		Questions: comparisonQuestions(),
	})

	assert.Equal(t, phaseIntro, s.phase)
	assert.Len(t, s.pending, 2)
}

func TestStaleQuestionsIgnored(t *testing.T) {
	s, _ := newTestScreen()

	// A late arrival for a module that is not current must not disturb
	// the loading state.
	s.Update(questionsReadyMsg{
		TestType:  screening.TestMemoryRecall,
		Questions: memoryQuestions(),
	})

	assert.Equal(t, phaseLoading, s.phase)
	assert.Empty(t, s.pending)
}

func TestFetchErrorShowsMessageThenQuits(t *testing.T) {
	s, _ := newTestScreen()

	s.Update(questionsReadyMsg{
		TestType: screening.TestNumberComparison,
		Err:      errors.New("backend down"),
	})
	require.NotEmpty(t, s.errMsg)

	_, cmd := s.Update(keyPress(' '))
	require.NotNil(t, cmd)
	assert.IsType(t, screen.QuitMsg{}, cmd())
}

func TestComparisonModuleStartsOnKey(t *testing.T) {
	s, sess := newTestScreen()

	s.Update(questionsReadyMsg{
		TestType:  screening.TestNumberComparison,
		Questions: comparisonQuestions(),
	})
	s.Update(keyPress(' '))

	assert.Equal(t, phaseQuestion, s.phase)
	tt, active := sess.ActiveTest()
	require.True(t, active)
	assert.Equal(t, screening.TestNumberComparison, tt)

	q, ok := sess.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, q.Options, s.picker.Options)
}

func TestAnswerRecordsAndShowsFeedback(t *testing.T) {
	s, sess := newTestScreen()

	s.Update(questionsReadyMsg{
		TestType:  screening.TestNumberComparison,
		Questions: comparisonQuestions(),
	})
	s.Update(keyPress(' '))

	// Option 2 is "Bear", the correct answer.
	s.Update(keyPress('2'))

	assert.Equal(t, phaseFeedback, s.phase)
	assert.True(t, s.lastCorrect)
	assert.NotEmpty(t, s.encouragement)

	answers := sess.Answers()
	require.Len(t, answers, 1)
	assert.Equal(t, "Bear", answers[0].SelectedAnswer)
	assert.True(t, answers[0].Correct)
}

func TestAdvanceMovesThroughModule(t *testing.T) {
	s, sess := newTestScreen()

	s.Update(questionsReadyMsg{
		TestType:  screening.TestNumberComparison,
		Questions: comparisonQuestions(),
	})
	s.Update(keyPress(' '))

	s.Update(keyPress('1'))
	s.Update(keyPress(' ')) // past feedback
	assert.Equal(t, phaseQuestion, s.phase)
	assert.Equal(t, 1, sess.CurrentQuestionIndex())

	s.Update(keyPress('1'))
	_, cmd := s.Update(keyPress(' '))

	// Module done: the result is sealed and the next fetch is underway.
	require.NotNil(t, cmd)
	assert.Equal(t, phaseLoading, s.phase)
	assert.Equal(t, 1, s.moduleIdx)
	require.Len(t, sess.TestResults(), 1)
	assert.Equal(t, 2, sess.TestResults()[0].TotalQuestions)
}

func TestMemoryStudyDelaysResponseTimer(t *testing.T) {
	s, sess := newTestScreen()
	s.moduleIdx = 2

	s.Update(questionsReadyMsg{
		TestType:  screening.TestMemoryRecall,
		Questions: memoryQuestions(),
	})
	s.Update(keyPress(' '))

	// Study phase first; the response timer must not be running yet.
	assert.Equal(t, phaseMemorize, s.phase)
	_, active := sess.ActiveTest()
	assert.False(t, active)
	assert.Equal(t, 6, s.memorizeTotal) // 2s per sequence item

	for i := 0; i < s.memorizeTotal; i++ {
		s.Update(memorizeTickMsg(time.Now()))
	}

	assert.Equal(t, phaseQuestion, s.phase)
	_, active = sess.ActiveTest()
	assert.True(t, active)
}

func TestLastModuleFinishes(t *testing.T) {
	s, _ := newTestScreen()
	s.moduleIdx = 2

	s.Update(questionsReadyMsg{
		TestType:  screening.TestMemoryRecall,
		Questions: memoryQuestions(),
	})
	s.Update(keyPress(' '))
	for i := 0; i < s.memorizeTotal; i++ {
		s.Update(memorizeTickMsg(time.Now()))
	}
	s.Update(keyPress('1'))
	_, cmd := s.Update(keyPress(' '))

	assert.Equal(t, phaseFinishing, s.phase)
	require.NotNil(t, cmd)
}

func TestRiskReadyOpensReport(t *testing.T) {
	s, sess := newTestScreen()

	ra := screening.RiskAssessment{Level: screening.RiskLow, Confidence: 0.9}
	_, cmd := s.Update(riskReadyMsg{Assessment: ra})

	got, ok := sess.RiskAssessment()
	require.True(t, ok)
	assert.Equal(t, screening.RiskLow, got.Level)

	// No history repo configured, so the report opens directly.
	require.NotNil(t, cmd)
	msg := cmd()
	replace, ok := msg.(screen.ReplaceMsg)
	require.True(t, ok)
	assert.Equal(t, "Report", replace.Screen.Title())
}

func TestViewNeverEmpty(t *testing.T) {
	s, _ := newTestScreen()

	assert.NotEmpty(t, s.View(80, 24)) // loading

	s.Update(questionsReadyMsg{
		TestType:  screening.TestNumberComparison,
		Questions: comparisonQuestions(),
	})
	assert.NotEmpty(t, s.View(80, 24)) // intro

	s.Update(keyPress(' '))
	view := s.View(80, 24)
	assert.Contains(t, view, "Who has more?")
}
