package questions

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"github.com/priyam/numsense/internal/adaptive"
	"github.com/priyam/numsense/internal/screening"
)

// StaticSource generates question sets from built-in templates. It never
// fails and needs no network, so it sits last in every source chain. The
// same seed and request always produce the same set.
type StaticSource struct {
	seed uint64
}

// NewStaticSource creates a StaticSource. Pass a varying seed (for example
// the current time) for variety across runs, or a fixed one for
// reproducible sets.
func NewStaticSource(seed uint64) *StaticSource {
	return &StaticSource{seed: seed}
}

type character struct {
	name  string
	emoji string
}

type countable struct {
	object string
	emoji  string
}

var comparisonCharacters = []character{
	{"Rabbit", "🐰"}, {"Bear", "🐻"}, {"Fox", "🦊"}, {"Owl", "🦉"},
	{"Penguin", "🐧"}, {"Tiger", "🐯"}, {"Panda", "🐼"}, {"Frog", "🐸"},
}

var countables = []countable{
	{"carrots", "🥕"}, {"apples", "🍎"}, {"stars", "⭐"}, {"fish", "🐟"},
	{"balloons", "🎈"}, {"cookies", "🍪"}, {"shells", "🐚"}, {"flowers", "🌸"},
}

var childNames = []string{"Emma", "Leo", "Maya", "Sam", "Noah", "Ava", "Omar", "Lily"}

type memoryTheme struct {
	emoji string
	items []string
}

var memoryThemes = []memoryTheme{
	{"🎨", []string{"Red", "Blue", "Green", "Yellow", "Purple", "Orange"}},
	{"🍎", []string{"Apple", "Banana", "Grape", "Cherry", "Pear", "Peach"}},
	{"🐾", []string{"Dog", "Cat", "Bird", "Fish", "Lion", "Mouse"}},
	{"🚗", []string{"Car", "Boat", "Plane", "Train", "Bike", "Bus"}},
}

// arithmeticSpec holds the per-age calculation constraints.
type arithmeticSpec struct {
	maxIncrement int
	steps        int
}

var arithmeticSpecs = map[screening.AgeGroup]arithmeticSpec{
	screening.Age5to6:  {maxIncrement: 5, steps: 1},
	screening.Age7to8:  {maxIncrement: 20, steps: 1},
	screening.Age9to10: {maxIncrement: 50, steps: 2},
}

var memorySequenceLength = map[screening.AgeGroup]int{
	screening.Age5to6:  3,
	screening.Age7to8:  4,
	screening.Age9to10: 6,
}

func (s *StaticSource) Fetch(_ context.Context, req Request) ([]screening.Question, error) {
	rng := s.rng(req)

	out := make([]screening.Question, 0, req.count())
	for i := 0; i < req.count(); i++ {
		switch req.TestType {
		case screening.TestMentalArithmetic:
			out = append(out, arithmeticQuestion(rng, req, i))
		case screening.TestMemoryRecall:
			out = append(out, memoryQuestion(rng, req, i))
		default:
			out = append(out, comparisonQuestion(rng, req, i))
		}
	}
	return out, nil
}

// rng derives a PRNG from the source seed and the request, so identical
// requests yield identical sets.
func (s *StaticSource) rng(req Request) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d|%d", req.TestType, req.AgeGroup, req.level(), req.count())
	return rand.New(rand.NewPCG(s.seed, h.Sum64()))
}

func comparisonQuestion(rng *rand.Rand, req Request, idx int) screening.Question {
	nr := adaptive.RangeFor(req.AgeGroup, req.level())

	left := nr.Min + rng.IntN(nr.Max-nr.Min+1)
	right := nr.Min + rng.IntN(nr.Max-nr.Min+1)
	// Force the occasional tie so "Same" stays a live option.
	if rng.IntN(6) == 0 {
		right = left
	}

	ci := rng.IntN(len(comparisonCharacters))
	cj := (ci + 1 + rng.IntN(len(comparisonCharacters)-1)) % len(comparisonCharacters)
	lc, rc := comparisonCharacters[ci], comparisonCharacters[cj]
	obj := countables[rng.IntN(len(countables))]

	correct := "Same"
	switch {
	case left > right:
		correct = lc.name
	case right > left:
		correct = rc.name
	}

	return screening.Question{
		ID:       fmt.Sprintf("nc_%s_%d", req.AgeGroup, idx+1),
		TestType: screening.TestNumberComparison,
		Story: fmt.Sprintf("%s %s has %d %s. %s %s has %d %s. Who has more?",
			lc.emoji, lc.name, left, obj.object, rc.emoji, rc.name, right, obj.object),
		LeftValue:     &left,
		RightValue:    &right,
		Options:       []string{lc.name, rc.name, "Same"},
		CorrectAnswer: correct,
		Visuals: screening.Visuals{
			Object:     obj.object,
			Emoji:      obj.emoji,
			LeftEmoji:  lc.emoji,
			RightEmoji: rc.emoji,
			LeftLabel:  lc.name,
			RightLabel: rc.name,
		},
	}
}

func arithmeticQuestion(rng *rand.Rand, req Request, idx int) screening.Question {
	nr := adaptive.RangeFor(req.AgeGroup, req.level())
	spec := arithmeticSpecs[req.AgeGroup]
	if spec.maxIncrement == 0 {
		spec = arithmeticSpecs[screening.Age7to8]
	}

	name := childNames[rng.IntN(len(childNames))]
	obj := countables[rng.IntN(len(countables))]

	start := nr.Min + rng.IntN(nr.Max-nr.Min+1)
	operand := 1 + rng.IntN(spec.maxIncrement)

	var story string
	var result int

	subtract := rng.IntN(2) == 0 && start > operand
	twoStep := spec.steps > 1 && req.level() >= adaptive.Normal

	switch {
	case twoStep && !subtract:
		second := 1 + rng.IntN(spec.maxIncrement)
		result = start + operand + second
		story = fmt.Sprintf("%s %s has %d %s. They find %d more, then %d more. How many now?",
			obj.emoji, name, start, obj.object, operand, second)
	case subtract:
		result = start - operand
		story = fmt.Sprintf("%s %s has %d %s. They give away %d. How many left?",
			obj.emoji, name, start, obj.object, operand)
	default:
		result = start + operand
		story = fmt.Sprintf("%s %s has %d %s. They get %d more. How many now?",
			obj.emoji, name, start, obj.object, operand)
	}

	lv, rv := start, operand

	return screening.Question{
		ID:            fmt.Sprintf("ma_%s_%d", req.AgeGroup, idx+1),
		TestType:      screening.TestMentalArithmetic,
		Story:         story,
		LeftValue:     &lv,
		RightValue:    &rv,
		Options:       numericOptions(rng, result),
		CorrectAnswer: fmt.Sprintf("%d", result),
		Visuals: screening.Visuals{
			Object: obj.object,
			Emoji:  obj.emoji,
		},
	}
}

// numericOptions builds four answer choices around the correct result.
func numericOptions(rng *rand.Rand, result int) []string {
	seen := map[int]bool{result: true}
	values := []int{result}

	offsets := []int{-2, -1, 1, 2, 3}
	rng.Shuffle(len(offsets), func(i, j int) { offsets[i], offsets[j] = offsets[j], offsets[i] })
	for _, off := range offsets {
		v := result + off
		if v < 0 || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
		if len(values) == 4 {
			break
		}
	}
	for next := result + 4; len(values) < 4; next++ {
		if !seen[next] {
			seen[next] = true
			values = append(values, next)
		}
	}

	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%d", v)
	}
	return out
}

func memoryQuestion(rng *rand.Rand, req Request, idx int) screening.Question {
	length := memorySequenceLength[req.AgeGroup]
	if length == 0 {
		length = memorySequenceLength[screening.Age7to8]
	}
	switch {
	case req.level() <= adaptive.VeryEasy && length > 2:
		length--
	case req.level() >= adaptive.Advanced:
		length++
	}

	theme := memoryThemes[rng.IntN(len(memoryThemes))]
	pool := append([]string(nil), theme.items...)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if length > len(pool) {
		length = len(pool)
	}
	sequence := append([]string(nil), pool[:length]...)

	pos := rng.IntN(length)
	correct := sequence[pos]

	options := []string{correct}
	for _, item := range pool {
		if item == correct {
			continue
		}
		options = append(options, item)
		if len(options) == 4 {
			break
		}
	}
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	return screening.Question{
		ID:             fmt.Sprintf("mr_%s_%d", req.AgeGroup, idx+1),
		TestType:       screening.TestMemoryRecall,
		Story:          fmt.Sprintf("What was the %s item?", ordinal(pos, length)),
		MemorySequence: sequence,
		Options:        options,
		CorrectAnswer:  correct,
		Visuals:        screening.Visuals{Emoji: theme.emoji},
	}
}

func ordinal(pos, length int) string {
	if pos == length-1 {
		return "last"
	}
	switch pos {
	case 0:
		return "first"
	case 1:
		return "second"
	case 2:
		return "third"
	case 3:
		return "fourth"
	case 4:
		return "fifth"
	}
	return fmt.Sprintf("%dth", pos+1)
}
