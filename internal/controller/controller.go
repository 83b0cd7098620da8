// Package controller owns the scan lifecycle: input normalization, transport
// invocation, response interpretation, and the idle → checking →
// resolved/failed state machine.
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/interpreter"
	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/model"
	"github.com/phishguard/phishguard/internal/utils"
)

// maxDiagnosticBytes bounds the response-body excerpt carried in error
// messages.
const maxDiagnosticBytes = 256

// Recorder persists terminal scans. The history store implements it; a nil
// Recorder disables persistence entirely.
type Recorder interface {
	Record(ctx context.Context, rec model.ScanRecord) error
}

// Controller drives scans against a classifier. Exactly one ScanState exists
// per controller; it is replaced wholesale on every transition. Submissions
// carry a monotonically increasing sequence number and resolution is
// last-submission-wins: a result whose sequence number is stale by the time
// it arrives is discarded.
type Controller struct {
	client   classifier.Client
	recorder Recorder
	logger   logging.Logger

	mu    sync.Mutex
	state model.ScanState
	seq   uint64

	events chan model.ScanState
	closed bool
}

// NewController creates a controller in the idle phase. recorder may be nil.
func NewController(client classifier.Client, recorder Recorder, logger logging.Logger) *Controller {
	return &Controller{
		client:   client,
		recorder: recorder,
		logger:   logger.With(logging.Field{Key: "component", Value: "controller"}),
		state:    model.ScanState{Phase: model.PhaseIdle},
		events:   make(chan model.ScanState, 16),
	}
}

// State returns the current scan state.
func (c *Controller) State() model.ScanState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Events streams every applied state transition. Emission is non-blocking:
// a slow consumer misses intermediate states, it never stalls the
// controller.
func (c *Controller) Events() <-chan model.ScanState {
	return c.events
}

// Submit runs a scan for raw user input and returns the state the
// submission transitioned to. Validation failures resolve synchronously
// without touching the transport; everything else resolves asynchronously
// through Events()/State(). Submit may be called at any time, in any phase:
// the newest submission is authoritative.
func (c *Controller) Submit(ctx context.Context, raw string) model.ScanState {
	now := time.Now().UTC()

	normalized, err := utils.NormalizeInput(raw)
	if err != nil {
		state := c.apply(model.ScanState{
			Phase:      model.PhaseFailed,
			Err:        &model.ScanError{Kind: model.ErrorValidation, Message: err.Error()},
			StartedAt:  now,
			ResolvedAt: now,
		})
		c.logger.Debug("rejected submission", logging.Field{Key: "error", Value: err.Error()})
		return state
	}

	state := c.apply(model.ScanState{
		Phase:     model.PhaseChecking,
		URL:       normalized,
		StartedAt: now,
	})

	c.logger.Info("submitted url",
		logging.Field{Key: "url", Value: normalized},
		logging.Field{Key: "seq", Value: state.Seq})

	go c.resolve(ctx, normalized, state.Seq, now)
	return state
}

// apply installs next as the current state under a fresh sequence number
// and emits it.
func (c *Controller) apply(next model.ScanState) model.ScanState {
	c.mu.Lock()
	c.seq++
	next.Seq = c.seq
	c.state = next
	c.mu.Unlock()

	c.emit(next)
	return next
}

// resolve performs the transport call and installs the terminal state,
// unless a newer submission has superseded this one in the meantime.
func (c *Controller) resolve(ctx context.Context, url string, seq uint64, started time.Time) {
	resp, err := c.client.Predict(ctx, url)

	next := model.ScanState{
		URL:        url,
		Seq:        seq,
		StartedAt:  started,
		ResolvedAt: time.Now().UTC(),
	}

	switch {
	case err != nil:
		next.Phase = model.PhaseFailed
		next.Err = &model.ScanError{
			Kind:    model.ErrorNetwork,
			Message: "classifier unreachable: " + err.Error(),
		}

	case !resp.OK():
		next.Phase = model.PhaseFailed
		next.Err = &model.ScanError{
			Kind:       model.ErrorServer,
			Message:    serverErrorMessage(resp),
			StatusCode: resp.StatusCode,
		}

	case !json.Valid(resp.Body):
		next.Phase = model.PhaseFailed
		next.Err = &model.ScanError{
			Kind:    model.ErrorMalformedResponse,
			Message: "classifier returned invalid JSON: " + utils.Excerpt(string(resp.Body), maxDiagnosticBytes),
		}

	default:
		verdict, interpretErr := interpreter.Interpret(resp.Body)
		var shapeErr *interpreter.UnrecognizedShapeError
		if errors.As(interpretErr, &shapeErr) {
			next.Phase = model.PhaseFailed
			next.Err = &model.ScanError{
				Kind:    model.ErrorUnrecognizedShape,
				Message: shapeErr.Error(),
			}
		} else {
			next.Phase = model.PhaseResolved
			next.Verdict = verdict
		}
	}

	c.mu.Lock()
	if c.seq != seq {
		c.mu.Unlock()
		c.logger.Debug("discarding stale scan result",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "seq", Value: seq})
		return
	}
	c.state = next
	c.mu.Unlock()

	c.emit(next)

	if next.Phase == model.PhaseResolved {
		c.logger.Info("scan resolved",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "is_phishing", Value: next.Verdict.IsPhishing})
	} else {
		c.logger.Warn("scan failed",
			logging.Field{Key: "url", Value: url},
			logging.Field{Key: "kind", Value: string(next.Err.Kind)},
			logging.Field{Key: "error", Value: next.Err.Message})
	}

	c.record(next)
}

// record persists a dispatched terminal state. Validation failures never get
// here: nothing was scanned. Recording failures are logged, never surfaced.
func (c *Controller) record(state model.ScanState) {
	if c.recorder == nil {
		return
	}

	rec := model.ScanRecord{
		URL:         state.URL,
		Phase:       state.Phase,
		SubmittedAt: state.StartedAt,
		ResolvedAt:  state.ResolvedAt,
	}
	if state.Verdict != nil {
		rec.IsPhishing = state.Verdict.IsPhishing
		rec.Confidence = state.Verdict.Confidence
		rec.Reasons = state.Verdict.Reasons
	}
	if state.Err != nil {
		rec.ErrorKind = state.Err.Kind
		rec.ErrorMessage = state.Err.Message
	}

	// The submission's context may already be canceled; recording uses its
	// own.
	if err := c.recorder.Record(context.Background(), rec); err != nil {
		c.logger.Warn("failed to record scan",
			logging.Field{Key: "url", Value: state.URL},
			logging.Field{Key: "error", Value: err.Error()})
	}
}

func (c *Controller) emit(state model.ScanState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	// Non-blocking send; drop if buffer is full.
	select {
	case c.events <- state:
	default:
	}
}

// Close stops event delivery. In-flight resolutions still update State()
// but no longer emit.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}

func serverErrorMessage(resp *classifier.Response) string {
	body := utils.Excerpt(string(resp.Body), maxDiagnosticBytes)
	if body == "" {
		return "classifier returned a non-2xx status"
	}
	return body
}
