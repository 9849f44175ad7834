package questions

import (
	"context"

	"github.com/priyam/numsense/internal/api"
	"github.com/priyam/numsense/internal/screening"
)

// APISource fetches question sets from the screening backend, which runs
// its own adaptive generation keyed by session id.
type APISource struct {
	client *api.Client
}

// NewAPISource creates an APISource over the given client.
func NewAPISource(client *api.Client) *APISource {
	return &APISource{client: client}
}

func (s *APISource) Fetch(ctx context.Context, req Request) ([]screening.Question, error) {
	return s.client.FetchQuestions(ctx, req.TestType, req.SessionID, req.AgeGroup)
}
