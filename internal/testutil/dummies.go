// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── Classifier ────────────────────────────────────────────────────────

// DummyClassifier implements classifier.Client with scripted responses.
// By default it answers 200 with a shape A legitimate body. Responses can be
// overridden per URL; Err forces a transport-level failure for every call.
type DummyClassifier struct {
	// ResponseDelay is applied before answering (cancellable via ctx).
	ResponseDelay time.Duration

	// Delays overrides ResponseDelay per URL.
	Delays map[string]time.Duration

	// Bodies maps url -> response body. Missing entries use DefaultBody.
	Bodies map[string]string

	// DefaultBody is used when Bodies has no entry. Empty means
	// `{"label": 0, "score": 0.1}`.
	DefaultBody string

	// StatusCode overrides the 200 default when non-zero.
	StatusCode int

	// Err, when set, is returned for every Predict call.
	Err error

	mu       sync.Mutex
	Requests []string
}

func (d *DummyClassifier) Predict(ctx context.Context, url string) (*classifier.Response, error) {
	delay := d.ResponseDelay
	if d.Delays != nil {
		if dl, ok := d.Delays[url]; ok {
			delay = dl
		}
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	d.mu.Lock()
	d.Requests = append(d.Requests, url)
	d.mu.Unlock()

	if d.Err != nil {
		return nil, d.Err
	}

	body := d.DefaultBody
	if d.Bodies != nil {
		if b, ok := d.Bodies[url]; ok {
			body = b
		}
	}
	if body == "" {
		body = `{"label": 0, "score": 0.1}`
	}

	status := d.StatusCode
	if status == 0 {
		status = 200
	}

	return &classifier.Response{
		URL:        url,
		Body:       []byte(body),
		StatusCode: status,
		ReceivedAt: time.Now(),
	}, nil
}

func (d *DummyClassifier) Close() error { return nil }

// RequestURLs returns a copy of the URLs seen so far.
func (d *DummyClassifier) RequestURLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Requests...)
}

// ─── Recorder ──────────────────────────────────────────────────────────

// DummyRecorder records terminal scans in memory.
type DummyRecorder struct {
	mu      sync.Mutex
	Records []model.ScanRecord
	Err     error
}

func (r *DummyRecorder) Record(_ context.Context, rec model.ScanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Records = append(r.Records, rec)
	return r.Err
}

// Recorded returns a copy of the records seen so far.
func (r *DummyRecorder) Recorded() []model.ScanRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.ScanRecord(nil), r.Records...)
}
