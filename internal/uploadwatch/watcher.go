// Package uploadwatch tracks an asset upload through the external
// transcoding pipeline: submit a file, poll its status URL, receive the
// final CDN URL. The poll loop is an explicit bounded state machine so
// the terminal states are enumerable and the timing is injectable.
package uploadwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// State is one phase of a watched upload.
type State string

const (
	StatePending   State = "pending"
	StateProbing   State = "probing"
	StateSucceeded State = "succeeded"
	StateTimedOut  State = "timed_out"
)

// StatusProber checks one status URL. It returns the final asset URL once
// the pipeline has produced it, or "" while processing continues.
type StatusProber interface {
	Probe(ctx context.Context, statusURL string) (finalURL string, err error)
}

// Options bounds the poll loop. Sleep is injectable for tests; nil uses a
// context-aware timer.
type Options struct {
	PollInterval time.Duration
	MaxAttempts  int
	Sleep        func(ctx context.Context, d time.Duration) error
}

// Result is the terminal outcome of one watch.
type Result struct {
	State    State
	FinalURL string
	Attempts int
}

// Watcher drives upload status polling to a terminal state.
type Watcher struct {
	prober StatusProber
	opts   Options
	logger *logrus.Entry
}

// New creates a Watcher. MaxAttempts and PollInterval fall back to 30
// attempts at 2s when unset.
func New(prober StatusProber, opts Options, logger *logrus.Entry) *Watcher {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 30
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Watcher{
		prober: prober,
		opts:   opts,
		logger: logger.WithField("component", "upload-watcher"),
	}
}

// Wait polls statusURL until the final URL appears, attempts run out, or
// ctx is cancelled. The state advances pending → probing on the first
// probe and reaches exactly one of succeeded or timed_out; context
// cancellation surfaces as an error with the watch still in probing.
func (w *Watcher) Wait(ctx context.Context, statusURL string) (*Result, error) {
	res := &Result{State: StatePending}

	for res.Attempts < w.opts.MaxAttempts {
		res.State = StateProbing
		res.Attempts++

		finalURL, err := w.prober.Probe(ctx, statusURL)
		if err != nil {
			// Transient pipeline errors burn an attempt but keep probing.
			w.logger.WithError(err).WithField("attempt", res.Attempts).Warn("status probe failed")
		} else if finalURL != "" {
			res.State = StateSucceeded
			res.FinalURL = finalURL
			return res, nil
		}

		if res.Attempts >= w.opts.MaxAttempts {
			break
		}
		if err := w.opts.Sleep(ctx, w.opts.PollInterval); err != nil {
			return res, err
		}
	}

	res.State = StateTimedOut
	return res, fmt.Errorf("upload not ready after %d attempts", res.Attempts)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// HTTPProber polls a JSON status endpoint of the transcoding pipeline.
// The endpoint reports {"status": "...", "url": "..."}; url is set once
// status is "complete".
type HTTPProber struct {
	Client *http.Client
}

// NewHTTPProber returns a prober with a 10s request timeout.
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{Client: &http.Client{Timeout: 10 * time.Second}}
}

func (p *HTTPProber) Probe(ctx context.Context, statusURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	var status struct {
		Status string `json:"status"`
		URL    string `json:"url"`
	}
	if err := json.Unmarshal(data, &status); err != nil {
		return "", fmt.Errorf("decode status response: %w", err)
	}
	if status.Status == "failed" {
		return "", fmt.Errorf("pipeline reported failure")
	}
	if status.Status == "complete" && status.URL != "" {
		return status.URL, nil
	}
	return "", nil
}
