// Package test drives the three screening modules in order: it fetches
// each module's question set, presents the questions, records answers
// into the session, and hands the finalized session to the report screen.
package test

import (
	"context"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/priyam/numsense/internal/adaptive"
	"github.com/priyam/numsense/internal/api"
	"github.com/priyam/numsense/internal/questions"
	"github.com/priyam/numsense/internal/risk"
	"github.com/priyam/numsense/internal/screen"
	"github.com/priyam/numsense/internal/screening"
	"github.com/priyam/numsense/internal/store"
	"github.com/priyam/numsense/internal/ui/components"
	"github.com/priyam/numsense/internal/ui/layout"
)

// secondsPerItem is the study time granted per memory sequence item.
const secondsPerItem = 2

type phase int

const (
	phaseLoading phase = iota
	phaseIntro
	phaseMemorize
	phaseQuestion
	phaseFeedback
	phaseFinishing
)

// Config carries the test screen's dependencies. Client and Repo are
// optional; everything else is required.
type Config struct {
	Session *screening.Session
	Source  questions.Source
	Tracker *adaptive.Tracker

	// Client reports answers and requests the risk classification from
	// the backend. When nil (or on failure) local fallbacks take over.
	Client *api.Client

	// Repo records the finalized screening in history.
	Repo store.ScreeningRepo

	// Report builds the report screen once the session is finalized.
	Report func() screen.Screen

	// FetchTimeout bounds each backend call.
	FetchTimeout time.Duration
}

// TestScreen implements screen.Screen for the active screening.
type TestScreen struct {
	cfg Config

	phase     phase
	moduleIdx int
	pending   []screening.Question

	picker        components.OptionPicker
	spin          components.Spinner
	encouragement string
	lastCorrect   bool

	memorizeLeft  int
	memorizeTotal int

	errMsg string
}

var _ screen.Screen = (*TestScreen)(nil)
var _ screen.KeyHintProvider = (*TestScreen)(nil)

// New creates a TestScreen for the given dependencies.
func New(cfg Config) *TestScreen {
	if cfg.FetchTimeout == 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	return &TestScreen{
		cfg:  cfg,
		spin: components.NewSpinner("Preparing questions..."),
	}
}

func (s *TestScreen) Init() tea.Cmd {
	return tea.Batch(s.fetchModule(), s.spin.Init())
}

func (s *TestScreen) Title() string {
	return s.currentModule().DisplayName()
}

func (s *TestScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseIntro, phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case phaseQuestion:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "1-4", Description: "Pick"},
			{Key: "Enter", Description: "Answer"},
		}
	}
	return nil
}

func (s *TestScreen) currentModule() screening.TestType {
	order := screening.TestOrder()
	if s.moduleIdx >= len(order) {
		return order[len(order)-1]
	}
	return order[s.moduleIdx]
}

func (s *TestScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsReadyMsg:
		return s.handleQuestionsReady(msg)

	case memorizeTickMsg:
		return s.handleMemorizeTick()

	case spinner.TickMsg:
		if s.phase != phaseLoading && s.phase != phaseFinishing {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case encouragementMsg:
		if s.phase == phaseFeedback {
			s.encouragement = msg.Text
		}
		return s, nil

	case riskReadyMsg:
		s.cfg.Session.SetRiskAssessment(msg.Assessment)
		if s.cfg.Repo == nil {
			return s, screen.Replace(s.cfg.Report())
		}
		return s, s.saveRecord()

	case recordSavedMsg:
		// History is best effort; a write failure never blocks the report.
		return s, screen.Replace(s.cfg.Report())

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *TestScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.errMsg != "" {
		return s, func() tea.Msg { return screen.QuitMsg{} }
	}

	switch s.phase {
	case phaseIntro:
		return s.beginModule()

	case phaseQuestion:
		var cmd tea.Cmd
		s.picker, cmd = s.picker.Update(msg)
		if s.picker.Submitted {
			return s.submitAnswer()
		}
		return s, cmd

	case phaseFeedback:
		return s.advance()
	}

	return s, nil
}

// fetchModule loads the question set for the current module.
func (s *TestScreen) fetchModule() tea.Cmd {
	s.phase = phaseLoading
	s.spin.Label = "Preparing questions..."
	tt := s.currentModule()
	req := questions.Request{
		TestType:  tt,
		AgeGroup:  s.cfg.Session.AgeGroup(),
		Level:     s.cfg.Tracker.Level(),
		SessionID: s.cfg.Session.SessionID(),
	}
	source := s.cfg.Source
	timeout := s.cfg.FetchTimeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		qs, err := source.Fetch(ctx, req)
		return questionsReadyMsg{TestType: tt, Questions: qs, Err: err}
	}
}

func (s *TestScreen) handleQuestionsReady(msg questionsReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.TestType != s.currentModule() {
		return s, nil
	}
	if msg.Err != nil || len(msg.Questions) == 0 {
		s.errMsg = "Could not load questions. Please try again later."
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}

	s.pending = msg.Questions
	s.phase = phaseIntro
	return s, nil
}

// beginModule starts the fetched module. Memory questions get their
// study phase before the response timer starts.
func (s *TestScreen) beginModule() (screen.Screen, tea.Cmd) {
	if s.currentModule() == screening.TestMemoryRecall {
		return s.startMemorize(s.pending[0])
	}
	s.cfg.Session.StartTest(s.currentModule(), s.pending)
	s.showQuestion()
	return s, nil
}

func (s *TestScreen) startMemorize(q screening.Question) (screen.Screen, tea.Cmd) {
	s.phase = phaseMemorize
	s.memorizeTotal = secondsPerItem * len(q.MemorySequence)
	if s.memorizeTotal < secondsPerItem {
		s.memorizeTotal = secondsPerItem
	}
	s.memorizeLeft = s.memorizeTotal
	return s, memorizeTick()
}

func (s *TestScreen) handleMemorizeTick() (screen.Screen, tea.Cmd) {
	if s.phase != phaseMemorize {
		return s, nil
	}
	s.memorizeLeft--
	if s.memorizeLeft > 0 {
		return s, memorizeTick()
	}

	// The study phase is over; only now does the response timer start.
	if _, active := s.cfg.Session.ActiveTest(); !active {
		s.cfg.Session.StartTest(s.currentModule(), s.pending)
	} else {
		s.cfg.Session.NextQuestion()
	}
	s.showQuestion()
	return s, nil
}

func (s *TestScreen) showQuestion() {
	q, ok := s.cfg.Session.CurrentQuestion()
	if !ok {
		return
	}
	s.picker = components.NewOptionPicker(q.Options)
	s.encouragement = ""
	s.phase = phaseQuestion
}

func (s *TestScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	q, ok := s.cfg.Session.CurrentQuestion()
	if !ok {
		return s, nil
	}

	selected := s.picker.Value()
	changes := s.picker.Changes()
	s.cfg.Session.SubmitAnswer(selected, changes)

	answers := s.cfg.Session.Answers()
	last := answers[len(answers)-1]
	s.lastCorrect = last.Correct
	s.cfg.Tracker.Record(last.Correct, last.ResponseTimeMs, changes)

	s.encouragement = api.FallbackEncouragement(last.Correct, s.cfg.Session.CurrentQuestionIndex())
	s.phase = phaseFeedback

	if s.cfg.Client == nil {
		return s, nil
	}
	return s, s.reportAnswer(q, last)
}

// reportAnswer sends the answer to the backend and brings back its
// encouragement line. Failures keep the local line.
func (s *TestScreen) reportAnswer(q screening.Question, a screening.Answer) tea.Cmd {
	client := s.cfg.Client
	report := api.AnswerReport{
		SessionID:      s.cfg.Session.SessionID(),
		QuestionID:     q.ID,
		SelectedAnswer: a.SelectedAnswer,
		ResponseTimeMs: a.ResponseTimeMs,
		AnswerChanges:  a.AnswerChanges,
	}
	timeout := s.cfg.FetchTimeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		text, err := client.SubmitAnswer(ctx, report)
		if err != nil || text == "" {
			return nil
		}
		return encouragementMsg{Text: text}
	}
}

// advance moves past the feedback overlay.
func (s *TestScreen) advance() (screen.Screen, tea.Cmd) {
	sess := s.cfg.Session

	if sess.CurrentQuestionIndex() >= sess.QuestionCount()-1 {
		sess.CompleteTest()
		s.moduleIdx++
		if s.moduleIdx >= len(screening.TestOrder()) {
			return s.finish()
		}
		return s, s.fetchModule()
	}

	if s.currentModule() == screening.TestMemoryRecall {
		next := s.pending[sess.CurrentQuestionIndex()+1]
		return s.startMemorize(next)
	}

	sess.NextQuestion()
	s.showQuestion()
	return s, nil
}

// finish classifies risk, records history, and opens the report.
func (s *TestScreen) finish() (screen.Screen, tea.Cmd) {
	s.phase = phaseFinishing
	s.spin.Label = "Putting your results together..."

	sess := s.cfg.Session
	client := s.cfg.Client
	timeout := s.cfg.FetchTimeout

	classify := func() tea.Msg {
		if client != nil {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			features := api.FeaturesFromSession(sess)
			if ra, err := client.ClassifyRisk(ctx, sess.SessionID(), features); err == nil {
				return riskReadyMsg{Assessment: ra}
			}
		}
		return riskReadyMsg{Assessment: risk.Classify(sess)}
	}
	return s, tea.Batch(classify, s.spin.Init())
}

func (s *TestScreen) saveRecord() tea.Cmd {
	repo := s.cfg.Repo
	rec := store.RecordFromSession(s.cfg.Session, time.Now())

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return recordSavedMsg{Err: repo.Save(ctx, &rec)}
	}
}

func memorizeTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return memorizeTickMsg(t)
	})
}
