package uploadwatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type scriptedProber struct {
	// results[i] is returned on attempt i+1; past the end, keeps returning
	// the last entry.
	results []probeResult
	calls   int
}

type probeResult struct {
	url string
	err error
}

func (p *scriptedProber) Probe(ctx context.Context, statusURL string) (string, error) {
	i := p.calls
	if i >= len(p.results) {
		i = len(p.results) - 1
	}
	p.calls++
	r := p.results[i]
	return r.url, r.err
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func TestWaitSucceedsWhenURLAppears(t *testing.T) {
	prober := &scriptedProber{results: []probeResult{
		{url: ""},
		{url: ""},
		{url: "https://cdn.test/assets/img-1.jpg"},
	}}
	w := New(prober, Options{MaxAttempts: 10, Sleep: noSleep}, testLogger())

	res, err := w.Wait(context.Background(), "https://uploads.test/status/1")
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if res.State != StateSucceeded {
		t.Errorf("state = %s, want succeeded", res.State)
	}
	if res.FinalURL != "https://cdn.test/assets/img-1.jpg" {
		t.Errorf("final url = %q", res.FinalURL)
	}
	if res.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", res.Attempts)
	}
}

func TestWaitTimesOutAfterMaxAttempts(t *testing.T) {
	prober := &scriptedProber{results: []probeResult{{url: ""}}}
	w := New(prober, Options{MaxAttempts: 4, Sleep: noSleep}, testLogger())

	res, err := w.Wait(context.Background(), "https://uploads.test/status/1")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if res.State != StateTimedOut {
		t.Errorf("state = %s, want timed_out", res.State)
	}
	if res.Attempts != 4 {
		t.Errorf("attempts = %d, want exactly MaxAttempts", res.Attempts)
	}
	if prober.calls != 4 {
		t.Errorf("probe calls = %d, want 4", prober.calls)
	}
}

func TestWaitProbeErrorsBurnAttemptsButContinue(t *testing.T) {
	prober := &scriptedProber{results: []probeResult{
		{err: errors.New("503")},
		{url: "https://cdn.test/assets/img-2.jpg"},
	}}
	w := New(prober, Options{MaxAttempts: 5, Sleep: noSleep}, testLogger())

	res, err := w.Wait(context.Background(), "https://uploads.test/status/2")
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if res.State != StateSucceeded || res.Attempts != 2 {
		t.Errorf("state = %s attempts = %d, want succeeded after 2", res.State, res.Attempts)
	}
}

func TestWaitStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	prober := &scriptedProber{results: []probeResult{{url: ""}}}
	w := New(prober, Options{MaxAttempts: 100, Sleep: func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}}, testLogger())

	res, err := w.Wait(ctx, "https://uploads.test/status/3")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res.State != StateProbing {
		t.Errorf("state = %s, want probing at cancellation", res.State)
	}
}

func TestDefaultsApplied(t *testing.T) {
	w := New(&scriptedProber{results: []probeResult{{url: "u"}}}, Options{}, testLogger())
	if w.opts.MaxAttempts != 30 {
		t.Errorf("default MaxAttempts = %d", w.opts.MaxAttempts)
	}
	if w.opts.PollInterval != 2*time.Second {
		t.Errorf("default PollInterval = %s", w.opts.PollInterval)
	}
}
