package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/autosci-lab/discovery-core/pkg/logger"
	"github.com/autosci-lab/discovery-core/pkg/utils"
)

const uploadAttempts = 3

// HTTPEngine submits experiments to a remote collection service and polls for
// completed results. The service contract is small: POST /experiments accepts
// a submission, GET /results/{id} answers pending or complete. Polling is
// bounded by the configured timeout; a hung service does not hang the caller
// forever, it under-delivers.
type HTTPEngine struct {
	baseURL      string
	client       *http.Client
	timeout      time.Duration
	pollInterval time.Duration
	backoff      utils.BackoffStrategy
	logger       *slog.Logger
}

// NewHTTPEngine creates a remote execution engine. Upload retries back off
// exponentially with jitter drawn from the study's random source.
func NewHTTPEngine(baseURL string, timeout, pollInterval time.Duration, rs *utils.RandSource) *HTTPEngine {
	return &HTTPEngine{
		baseURL:      baseURL,
		client:       &http.Client{Timeout: 30 * time.Second},
		timeout:      timeout,
		pollInterval: pollInterval,
		backoff:      utils.NewExponentialBackoff(500*time.Millisecond, 5*time.Second, 2.0).WithJitter(rs),
		logger:       logger.Default,
	}
}

// SetLogger sets the engine's logger
func (e *HTTPEngine) SetLogger(l *slog.Logger) {
	e.logger = l
}

type uploadRequest struct {
	SubmissionID string          `json:"submission_id"`
	Payload      json.RawMessage `json:"payload"`
}

type resultResponse struct {
	Status string          `json:"status"` // pending | complete
	Data   json.RawMessage `json:"data,omitempty"`
}

// Execute uploads every submission, then polls until all results arrived or
// the timeout elapsed. On timeout the results collected so far are returned;
// zero collected results is an error.
func (e *HTTPEngine) Execute(ctx context.Context, subs []Submission) ([][]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	for _, sub := range subs {
		if err := e.upload(ctx, sub); err != nil {
			return nil, fmt.Errorf("upload submission %s: %w", sub.ID, err)
		}
	}
	e.logger.Info("experiments uploaded", "count", len(subs))

	pending := make(map[string]bool, len(subs))
	order := make([]string, 0, len(subs))
	for _, sub := range subs {
		pending[sub.ID] = true
		order = append(order, sub.ID)
	}
	collected := make(map[string][]byte, len(subs))

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			return e.partial(order, collected, len(pending), ctx.Err())
		case <-ticker.C:
			for id := range pending {
				blob, done, err := e.pollOne(ctx, id)
				if err != nil {
					// A deadline can fire while a poll request is in flight;
					// results already collected still count.
					if ctx.Err() != nil {
						return e.partial(order, collected, len(pending), ctx.Err())
					}
					return nil, fmt.Errorf("poll submission %s: %w", id, err)
				}
				if done {
					collected[id] = blob
					delete(pending, id)
				}
			}
		}
	}
	return e.inOrder(order, collected), nil
}

func (e *HTTPEngine) partial(order []string, collected map[string][]byte, pending int, cause error) ([][]byte, error) {
	results := e.inOrder(order, collected)
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoResults, cause)
	}
	e.logger.Warn("execution timed out with partial results",
		"collected", len(results),
		"pending", pending)
	return results, nil
}

func (e *HTTPEngine) upload(ctx context.Context, sub Submission) error {
	body, err := json.Marshal(uploadRequest{
		SubmissionID: sub.ID,
		Payload:      sub.Payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode upload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < uploadAttempts; attempt++ {
		if attempt > 0 {
			delay := e.backoff.NextDelay(attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		lastErr = e.postOnce(ctx, body)
		if lastErr == nil {
			return nil
		}
		e.logger.Warn("experiment upload failed, retrying",
			"submission_id", sub.ID,
			"attempt", attempt+1,
			"error", lastErr)
	}
	return lastErr
}

func (e *HTTPEngine) postOnce(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/experiments", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

func (e *HTTPEngine) pollOne(ctx context.Context, id string) (blob []byte, done bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/results/"+id, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		// Result not materialized yet
		return nil, false, nil
	}
	if resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	var rr resultResponse
	if err := json.Unmarshal(data, &rr); err != nil {
		return nil, false, fmt.Errorf("malformed result response: %w", err)
	}
	if rr.Status != "complete" {
		return nil, false, nil
	}
	return rr.Data, true, nil
}

func (e *HTTPEngine) inOrder(order []string, collected map[string][]byte) [][]byte {
	results := make([][]byte, 0, len(collected))
	for _, id := range order {
		if blob, ok := collected[id]; ok {
			results = append(results, blob)
		}
	}
	return results
}
