// Package questions produces the question sets presented during a
// screening. Three sources share one interface: the backend API, a local
// LLM generator, and deterministic built-in banks. Callers chain them so
// a screening always gets questions even fully offline.
package questions

import (
	"context"

	"github.com/priyam/numsense/internal/adaptive"
	"github.com/priyam/numsense/internal/screening"
)

// DefaultCount is the number of questions per test module.
const DefaultCount = 5

// Request describes one question-set fetch.
type Request struct {
	TestType screening.TestType
	AgeGroup screening.AgeGroup

	// Level selects the difficulty tier. Zero means adaptive.Normal.
	Level adaptive.Level

	// Count is the number of questions wanted. Zero means DefaultCount.
	Count int

	// SessionID lets the backend tie the set to its adaptive state.
	// Ignored by local sources.
	SessionID string
}

func (r Request) level() adaptive.Level {
	if r.Level == 0 {
		return adaptive.Normal
	}
	return r.Level
}

func (r Request) count() int {
	if r.Count <= 0 {
		return DefaultCount
	}
	return r.Count
}

// Source produces a question set for one test module.
type Source interface {
	Fetch(ctx context.Context, req Request) ([]screening.Question, error)
}

// Chain tries each source in order and returns the first non-empty set.
// The last source's error is returned when every source fails.
type Chain []Source

func (c Chain) Fetch(ctx context.Context, req Request) ([]screening.Question, error) {
	var lastErr error
	for _, s := range c {
		qs, err := s.Fetch(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		if len(qs) > 0 {
			return qs, nil
		}
	}
	return nil, lastErr
}
