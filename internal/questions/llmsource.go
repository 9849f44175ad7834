package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/priyam/numsense/internal/adaptive"
	"github.com/priyam/numsense/internal/llm"
	"github.com/priyam/numsense/internal/screening"
)

// LLMSource generates question sets through an LLM provider with a strict
// JSON schema. The cognitive template is fixed per test type; the model
// only varies the story wrapper.
type LLMSource struct {
	provider llm.Provider
}

// NewLLMSource creates an LLMSource over the given provider.
func NewLLMSource(provider llm.Provider) *LLMSource {
	return &LLMSource{provider: provider}
}

const generatorSystem = "You are a cognitive assessment specialist generating " +
	"dyscalculia screening tasks for children. Follow the task template exactly. " +
	"Vary themes, characters, and emoji between questions. Output only JSON."

// generatedQuestion is the raw model output shape for one question.
type generatedQuestion struct {
	QuestionID     string   `json:"question_id"`
	Story          string   `json:"story"`
	LeftValue      *int     `json:"left_value,omitempty"`
	RightValue     *int     `json:"right_value,omitempty"`
	MemorySequence []string `json:"memory_sequence,omitempty"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correct_answer"`
	Emoji          string   `json:"emoji,omitempty"`
	LeftEmoji      string   `json:"left_emoji,omitempty"`
	RightEmoji     string   `json:"right_emoji,omitempty"`
	LeftLabel      string   `json:"left_label,omitempty"`
	RightLabel     string   `json:"right_label,omitempty"`
	Object         string   `json:"visual_object,omitempty"`
}

type generatedSet struct {
	Questions []generatedQuestion `json:"questions"`
}

// questionSetSchema constrains the model output to the wire shape above.
var questionSetSchema = &llm.Schema{
	Name: "screening-question-set",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question_id":     map[string]any{"type": "string"},
						"story":           map[string]any{"type": "string"},
						"left_value":      map[string]any{"type": "integer"},
						"right_value":     map[string]any{"type": "integer"},
						"memory_sequence": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"options":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"correct_answer":  map[string]any{"type": "string"},
						"emoji":           map[string]any{"type": "string"},
						"left_emoji":      map[string]any{"type": "string"},
						"right_emoji":     map[string]any{"type": "string"},
						"left_label":      map[string]any{"type": "string"},
						"right_label":     map[string]any{"type": "string"},
						"visual_object":   map[string]any{"type": "string"},
					},
					"required": []any{"question_id", "story", "options", "correct_answer"},
				},
			},
		},
		"required": []any{"questions"},
	},
}

func (s *LLMSource) Fetch(ctx context.Context, req Request) ([]screening.Question, error) {
	out, err := s.provider.Complete(ctx, llm.Prompt{
		System:      generatorSystem,
		User:        buildGeneratorPrompt(req),
		Schema:      questionSetSchema,
		MaxTokens:   4000,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("generate %s questions: %w", req.TestType, err)
	}

	var set generatedSet
	if err := json.Unmarshal(out, &set); err != nil {
		return nil, fmt.Errorf("parse generated questions: %w", err)
	}

	questions := make([]screening.Question, 0, req.count())
	for _, g := range set.Questions {
		if err := checkGenerated(g, req); err != nil {
			continue
		}
		questions = append(questions, mapGenerated(g, req.TestType))
		if len(questions) == req.count() {
			break
		}
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("generate %s questions: no valid questions in model output", req.TestType)
	}
	return questions, nil
}

func buildGeneratorPrompt(req Request) string {
	nr := adaptive.RangeFor(req.AgeGroup, req.level())

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d %s questions for a child aged %s, difficulty %s.\n\n",
		req.count(), req.TestType, req.AgeGroup, req.level())

	switch req.TestType {
	case screening.TestNumberComparison:
		fmt.Fprintf(&b, "Template: compare exactly two quantities between %d and %d; the child judges which side has more (or Same). No calculation steps, no patterns.\n", nr.Min, nr.Max)
		b.WriteString("Set left_value and right_value, left_label/right_label to the character names, left_emoji/right_emoji, and emoji to the counted object. Options are the two character names plus \"Same\".\n")
	case screening.TestMentalArithmetic:
		spec := arithmeticSpecs[req.AgeGroup]
		if spec.maxIncrement == 0 {
			spec = arithmeticSpecs[screening.Age7to8]
		}
		fmt.Fprintf(&b, "Template: one mental calculation chain, addition or subtraction only, increments at most %d, starting value between %d and %d. No written math notation in the story.\n", spec.maxIncrement, nr.Min, nr.Max)
		b.WriteString("Set left_value to the starting value and right_value to the increment. Options are four plausible numbers including the correct result.\n")
	case screening.TestMemoryRecall:
		length := memorySequenceLength[req.AgeGroup]
		if length == 0 {
			length = memorySequenceLength[screening.Age7to8]
		}
		fmt.Fprintf(&b, "Template: present an ordered memory_sequence of exactly %d items, then ask for the item at a position (first, second, last). The story field holds ONLY the question, never the sequence itself.\n", length)
		b.WriteString("Options are four items including the correct one.\n")
	}

	b.WriteString("\nThe story must be one or two short sentences a young child can follow, with an emoji. correct_answer must exactly match one entry in options.")
	return b.String()
}

// checkGenerated enforces the cognitive template the prompt asked for.
// Out-of-template questions are dropped rather than repaired.
func checkGenerated(g generatedQuestion, req Request) error {
	if g.Story == "" || len(g.Options) == 0 {
		return fmt.Errorf("missing story or options")
	}
	if !slices.Contains(g.Options, g.CorrectAnswer) {
		return fmt.Errorf("correct answer not among options")
	}

	switch req.TestType {
	case screening.TestNumberComparison:
		if g.LeftValue == nil || g.RightValue == nil {
			return fmt.Errorf("comparison question missing quantities")
		}
		nr := adaptive.RangeFor(req.AgeGroup, req.level())
		if !inRange(*g.LeftValue, nr) || !inRange(*g.RightValue, nr) {
			return fmt.Errorf("quantities outside age range")
		}
	case screening.TestMemoryRecall:
		want := memorySequenceLength[req.AgeGroup]
		if want == 0 {
			want = memorySequenceLength[screening.Age7to8]
		}
		if len(g.MemorySequence) != want {
			return fmt.Errorf("sequence length %d, want %d", len(g.MemorySequence), want)
		}
	}
	return nil
}

func inRange(v int, nr adaptive.NumberRange) bool {
	return v >= nr.Min && v <= nr.Max
}

func mapGenerated(g generatedQuestion, testType screening.TestType) screening.Question {
	return screening.Question{
		ID:             g.QuestionID,
		TestType:       testType,
		Story:          g.Story,
		LeftValue:      g.LeftValue,
		RightValue:     g.RightValue,
		MemorySequence: g.MemorySequence,
		Options:        g.Options,
		CorrectAnswer:  g.CorrectAnswer,
		Visuals: screening.Visuals{
			Object:     g.Object,
			Emoji:      g.Emoji,
			LeftEmoji:  g.LeftEmoji,
			RightEmoji: g.RightEmoji,
			LeftLabel:  g.LeftLabel,
			RightLabel: g.RightLabel,
		},
	}
}
