package api

import (
	"fmt"

	"github.com/priyam/numsense/internal/screening"
)

// Wire payload shapes for the screening backend. Field names are
// snake_case and optional fields are pointers or omitted slices, matching
// the service's loose schema. Mapping into the core's types happens here,
// in one place, so ad hoc field lookups never reach core logic.

type sessionRequest struct {
	AgeGroup string `json:"age_group"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	AgeGroup  string `json:"age_group"`
	Message   string `json:"message,omitempty"`
}

// wireQuestion is the question record as the service sends it.
type wireQuestion struct {
	QuestionID     string   `json:"question_id"`
	TestType       string   `json:"test_type"`
	Story          string   `json:"story"`
	VisualObject   string   `json:"visual_object,omitempty"`
	LeftValue      *int     `json:"left_value,omitempty"`
	RightValue     *int     `json:"right_value,omitempty"`
	MemorySequence []string `json:"memory_sequence,omitempty"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correct_answer"`

	// Contextual visual metadata; every field optional.
	Emoji      string `json:"emoji,omitempty"`
	LeftEmoji  string `json:"left_emoji,omitempty"`
	RightEmoji string `json:"right_emoji,omitempty"`
	LeftLabel  string `json:"left_label,omitempty"`
	RightLabel string `json:"right_label,omitempty"`
}

type questionSetResponse struct {
	Questions      []wireQuestion `json:"questions"`
	TestType       string         `json:"test_type"`
	TotalQuestions int            `json:"total_questions"`
}

type answerSubmission struct {
	SessionID      string `json:"session_id"`
	QuestionID     string `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	AnswerChanges  int    `json:"answer_changes"`
}

type answerResponse struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
}

// FeatureVector is the aggregated behavioral metrics sent to the
// risk-scoring service, exactly as the service expects them.
type FeatureVector struct {
	AccuracyPercent  float64 `json:"accuracy_percent"`
	AvgResponseTime  float64 `json:"avg_response_time"`
	MaxDelay         float64 `json:"max_delay"`
	ErrorRate        float64 `json:"error_rate"`
	SkippedQuestions int     `json:"skipped_questions"`
	AnswerChanges    int     `json:"answer_changes"`
}

type riskRequest struct {
	SessionID string        `json:"session_id"`
	Features  FeatureVector `json:"features"`
}

type riskResponse struct {
	RiskLevel       string   `json:"risk_level"`
	Confidence      float64  `json:"confidence"`
	Explanation     string   `json:"explanation"`
	Recommendations []string `json:"recommendations"`
}

// mapQuestion projects a wire question into the core shape, validating the
// invariants the core relies on. The core only ever receives well-formed
// questions; anything else is rejected here as ErrBadPayload.
func mapQuestion(w wireQuestion) (screening.Question, error) {
	if w.QuestionID == "" {
		return screening.Question{}, fmt.Errorf("question missing question_id")
	}
	if len(w.Options) == 0 {
		return screening.Question{}, fmt.Errorf("question %s has no options", w.QuestionID)
	}
	member := false
	for _, opt := range w.Options {
		if opt == w.CorrectAnswer {
			member = true
			break
		}
	}
	if !member {
		return screening.Question{}, fmt.Errorf("question %s: correct_answer %q not among options", w.QuestionID, w.CorrectAnswer)
	}

	return screening.Question{
		ID:             w.QuestionID,
		TestType:       screening.TestType(w.TestType),
		Story:          w.Story,
		LeftValue:      w.LeftValue,
		RightValue:     w.RightValue,
		MemorySequence: w.MemorySequence,
		Options:        w.Options,
		CorrectAnswer:  w.CorrectAnswer,
		Visuals: screening.Visuals{
			Object:     w.VisualObject,
			Emoji:      w.Emoji,
			LeftEmoji:  w.LeftEmoji,
			RightEmoji: w.RightEmoji,
			LeftLabel:  w.LeftLabel,
			RightLabel: w.RightLabel,
		},
	}, nil
}

// mapQuestionSet maps a full response, failing on the first bad record.
func mapQuestionSet(resp questionSetResponse) ([]screening.Question, error) {
	out := make([]screening.Question, 0, len(resp.Questions))
	for _, w := range resp.Questions {
		q, err := mapQuestion(w)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// mapRisk projects a wire risk verdict into the core shape.
func mapRisk(resp riskResponse) (screening.RiskAssessment, error) {
	switch screening.RiskLevel(resp.RiskLevel) {
	case screening.RiskLow, screening.RiskMedium, screening.RiskHigh:
	default:
		return screening.RiskAssessment{}, fmt.Errorf("unknown risk_level %q", resp.RiskLevel)
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		return screening.RiskAssessment{}, fmt.Errorf("confidence %v outside [0,1]", resp.Confidence)
	}
	return screening.RiskAssessment{
		Level:           screening.RiskLevel(resp.RiskLevel),
		Confidence:      resp.Confidence,
		Explanation:     resp.Explanation,
		Recommendations: resp.Recommendations,
	}, nil
}
