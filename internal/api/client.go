package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/priyam/numsense/internal/screening"
)

// Client talks to the screening backend: session issuing, question sets,
// answer encouragement, and risk classification. Every method is a
// fallible network call; callers are expected to catch failures and fall
// back to local data before touching the session state machine.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Client after validating the config.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// AnswerReport is one submitted answer, forwarded to the backend so it can
// log behavior and return a short encouragement line.
type AnswerReport struct {
	SessionID      string
	QuestionID     string
	SelectedAnswer string
	ResponseTimeMs int64
	AnswerChanges  int
}

// Health pings the backend.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.doJSON(ctx, http.MethodGet, "/health", nil, &out)
}

// StartSession asks the backend to issue a session id for the age group.
// The id is opaque to us.
func (c *Client) StartSession(ctx context.Context, age screening.AgeGroup) (string, error) {
	var out sessionResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/session", sessionRequest{AgeGroup: string(age)}, &out)
	if err != nil {
		return "", err
	}
	if out.SessionID == "" {
		return "", &ErrBadPayload{Err: fmt.Errorf("empty session_id")}
	}
	return out.SessionID, nil
}

// FetchQuestions retrieves the complete ordered question list for one test
// module, mapped and validated into the core shape.
func (c *Client) FetchQuestions(ctx context.Context, testType screening.TestType, sessionID string, age screening.AgeGroup) ([]screening.Question, error) {
	path := fmt.Sprintf("/api/questions/%s?session_id=%s&age_group=%s", testType, sessionID, age)
	var out questionSetResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	qs, err := mapQuestionSet(out)
	if err != nil {
		return nil, &ErrBadPayload{Err: err}
	}
	return qs, nil
}

// SubmitAnswer forwards one answer and returns the backend's encouragement
// line. Purely advisory: the caller already derived correctness locally
// and must not let this call affect state transitions.
func (c *Client) SubmitAnswer(ctx context.Context, report AnswerReport) (string, error) {
	in := answerSubmission{
		SessionID:      report.SessionID,
		QuestionID:     report.QuestionID,
		SelectedAnswer: report.SelectedAnswer,
		ResponseTimeMs: report.ResponseTimeMs,
		AnswerChanges:  report.AnswerChanges,
	}
	var out answerResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/answer", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ClassifyRisk sends the aggregated feature vector and returns the
// backend's screening verdict.
func (c *Client) ClassifyRisk(ctx context.Context, sessionID string, features FeatureVector) (screening.RiskAssessment, error) {
	var out riskResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/risk/classify", riskRequest{SessionID: sessionID, Features: features}, &out)
	if err != nil {
		return screening.RiskAssessment{}, err
	}
	ra, err := mapRisk(out)
	if err != nil {
		return screening.RiskAssessment{}, &ErrBadPayload{Err: err}
	}
	return ra, nil
}

// doJSON performs one JSON round trip with retries on transient failures.
// Rate limits and 5xx responses are retried with exponential backoff and
// jitter; decode failures and other 4xx responses are not.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var lastErr error

	for attempt := range c.cfg.Retry.MaxAttempts {
		err := c.once(ctx, method, path, in, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}
		if attempt == c.cfg.Retry.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff(attempt, err)):
		}
	}

	return lastErr
}

func (c *Client) once(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: parseRetryAfter(resp), Err: fmt.Errorf("%s %s: 429", method, path)}
	case resp.StatusCode >= 500:
		return &ErrUnavailable{Err: fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)}
	case resp.StatusCode >= 400:
		return &ErrBadPayload{Err: fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ErrBadPayload{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var bad *ErrBadPayload
	if errors.As(err, &bad) {
		return false
	}
	return true
}

// backoff computes the wait for the given attempt, respecting Retry-After
// on rate limits and adding ±20% jitter otherwise.
func (c *Client) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(c.cfg.Retry.InitialWait) * math.Pow(c.cfg.Retry.Multiplier, float64(attempt))
	if wait > float64(c.cfg.Retry.MaxWait) {
		wait = float64(c.cfg.Retry.MaxWait)
	}
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

func parseRetryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}
