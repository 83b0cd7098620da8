package controller_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/phishguard/phishguard/internal/controller"
	"github.com/phishguard/phishguard/internal/model"
	"github.com/phishguard/phishguard/internal/testutil"
)

// waitForSeq reads controller events until the submission with the given
// sequence number reaches a terminal phase.
func waitForSeq(t *testing.T, events <-chan model.ScanState, seq uint64) model.ScanState {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case state := <-events:
			if state.Seq == seq && state.Terminal() {
				return state
			}
		case <-deadline:
			t.Fatal("timed out waiting for terminal state")
		}
	}
}

// ─── Validation ────────────────────────────────────────────────────────

func TestSubmit_EmptyInput_FailsSynchronously(t *testing.T) {
	t.Parallel()
	client := &testutil.DummyClassifier{}
	c := controller.NewController(client, nil, &testutil.DummyLogger{})
	defer c.Close()

	for _, in := range []string{"", "   ", "\t\n"} {
		state := c.Submit(context.Background(), in)
		if state.Phase != model.PhaseFailed {
			t.Fatalf("Submit(%q): expected failed phase, got %s", in, state.Phase)
		}
		if state.Err == nil || state.Err.Kind != model.ErrorValidation {
			t.Errorf("Submit(%q): expected validation error, got %+v", in, state.Err)
		}
	}

	if got := client.RequestURLs(); len(got) != 0 {
		t.Errorf("expected transport never invoked, got requests %v", got)
	}
}

// ─── Happy path ────────────────────────────────────────────────────────

func TestSubmit_TrimsURLAndIssuesOnePost(t *testing.T) {
	t.Parallel()
	client := &testutil.DummyClassifier{
		Bodies: map[string]string{
			"http://evil.example/login": `{"label": 1, "score": 0.93, "reasons": ["ip-literal-host"]}`,
		},
	}
	c := controller.NewController(client, nil, &testutil.DummyLogger{})
	defer c.Close()

	submitted := c.Submit(context.Background(), "  http://evil.example/login  ")
	if submitted.Phase != model.PhaseChecking {
		t.Fatalf("expected checking phase, got %s", submitted.Phase)
	}

	state := waitForSeq(t, c.Events(), submitted.Seq)
	if state.Phase != model.PhaseResolved {
		t.Fatalf("expected resolved, got %s (%+v)", state.Phase, state.Err)
	}
	if !state.Verdict.IsPhishing {
		t.Error("expected phishing verdict")
	}
	if state.Verdict.Confidence == nil || *state.Verdict.Confidence != 0.93 {
		t.Errorf("expected confidence 0.93, got %v", state.Verdict.Confidence)
	}
	if len(state.Verdict.Reasons) != 1 || state.Verdict.Reasons[0] != "ip-literal-host" {
		t.Errorf("unexpected reasons %v", state.Verdict.Reasons)
	}

	reqs := client.RequestURLs()
	if len(reqs) != 1 || reqs[0] != "http://evil.example/login" {
		t.Errorf("expected exactly one request with trimmed URL, got %v", reqs)
	}
}

// ─── Failure taxonomy ──────────────────────────────────────────────────

func TestSubmit_TransportFailure_YieldsNetworkError(t *testing.T) {
	t.Parallel()
	client := &testutil.DummyClassifier{Err: errors.New("connection refused")}
	c := controller.NewController(client, nil, &testutil.DummyLogger{})
	defer c.Close()

	submitted := c.Submit(context.Background(), "http://example.com")
	state := waitForSeq(t, c.Events(), submitted.Seq)

	if state.Err == nil || state.Err.Kind != model.ErrorNetwork {
		t.Fatalf("expected network error, got %+v", state.Err)
	}
	if !strings.Contains(state.Err.Message, "connection refused") {
		t.Errorf("expected cause in message, got %q", state.Err.Message)
	}
}

func TestSubmit_NonOKStatus_YieldsServerError(t *testing.T) {
	t.Parallel()
	client := &testutil.DummyClassifier{StatusCode: 503, DefaultBody: "service melting"}
	c := controller.NewController(client, nil, &testutil.DummyLogger{})
	defer c.Close()

	submitted := c.Submit(context.Background(), "http://example.com")
	state := waitForSeq(t, c.Events(), submitted.Seq)

	if state.Err == nil || state.Err.Kind != model.ErrorServer {
		t.Fatalf("expected server error, got %+v", state.Err)
	}
	if state.Err.StatusCode != 503 {
		t.Errorf("expected status 503, got %d", state.Err.StatusCode)
	}
	if !strings.Contains(state.Err.Message, "service melting") {
		t.Errorf("expected body as diagnostic text, got %q", state.Err.Message)
	}
}

func TestSubmit_InvalidJSONBody_YieldsMalformedResponse(t *testing.T) {
	t.Parallel()
	client := &testutil.DummyClassifier{DefaultBody: "<html>definitely not json</html>"}
	c := controller.NewController(client, nil, &testutil.DummyLogger{})
	defer c.Close()

	submitted := c.Submit(context.Background(), "http://example.com")
	state := waitForSeq(t, c.Events(), submitted.Seq)

	if state.Err == nil || state.Err.Kind != model.ErrorMalformedResponse {
		t.Fatalf("expected malformed_response, got %+v", state.Err)
	}
}

func TestSubmit_UnknownSchema_YieldsUnrecognizedShape(t *testing.T) {
	t.Parallel()
	client := &testutil.DummyClassifier{DefaultBody: `{"weird": true}`}
	c := controller.NewController(client, nil, &testutil.DummyLogger{})
	defer c.Close()

	submitted := c.Submit(context.Background(), "http://example.com")
	state := waitForSeq(t, c.Events(), submitted.Seq)

	if state.Err == nil || state.Err.Kind != model.ErrorUnrecognizedShape {
		t.Fatalf("expected unrecognized_shape, got %+v", state.Err)
	}
}

func TestSubmit_FailureClearsPriorVerdict(t *testing.T) {
	t.Parallel()
	client := &testutil.DummyClassifier{
		Bodies: map[string]string{"http://good.example": `{"label": 0, "score": 0.2}`},
	}
	c := controller.NewController(client, nil, &testutil.DummyLogger{})
	defer c.Close()

	first := c.Submit(context.Background(), "http://good.example")
	state := waitForSeq(t, c.Events(), first.Seq)
	if state.Verdict == nil {
		t.Fatalf("expected verdict, got %+v", state)
	}

	client.Err = errors.New("connection refused")
	second := c.Submit(context.Background(), "http://good.example")
	state = waitForSeq(t, c.Events(), second.Seq)

	if state.Err == nil || state.Err.Kind != model.ErrorNetwork {
		t.Fatalf("expected network error, got %+v", state.Err)
	}
	if state.Verdict != nil {
		t.Error("expected prior verdict cleared, not retained")
	}
	if got := c.State().Verdict; got != nil {
		t.Error("expected State() to carry no stale verdict")
	}
}

// ─── Last-submission-wins ──────────────────────────────────────────────

func TestSubmit_LastSubmissionWins(t *testing.T) {
	t.Parallel()
	client := &testutil.DummyClassifier{
		Delays: map[string]time.Duration{"http://slow.example": 300 * time.Millisecond},
		Bodies: map[string]string{
			"http://slow.example": `{"label": 1, "score": 0.99}`,
			"http://fast.example": `{"label": 0, "score": 0.05}`,
		},
	}
	c := controller.NewController(client, nil, &testutil.DummyLogger{})
	defer c.Close()

	c.Submit(context.Background(), "http://slow.example")
	second := c.Submit(context.Background(), "http://fast.example")

	state := waitForSeq(t, c.Events(), second.Seq)
	if state.URL != "http://fast.example" || state.Verdict == nil || state.Verdict.IsPhishing {
		t.Fatalf("expected fast submission's verdict, got %+v", state)
	}

	// Give the slow resolution time to arrive (and be discarded).
	time.Sleep(400 * time.Millisecond)

	final := c.State()
	if final.URL != "http://fast.example" {
		t.Errorf("expected final state for fast submission, got %q", final.URL)
	}
	if final.Seq != second.Seq {
		t.Errorf("expected seq %d, got %d", second.Seq, final.Seq)
	}
	if final.Verdict == nil || final.Verdict.IsPhishing {
		t.Errorf("stale slow result leaked into visible state: %+v", final)
	}
}

// ─── Recovery and recording ────────────────────────────────────────────

func TestController_UsableAfterEveryFailure(t *testing.T) {
	t.Parallel()
	client := &testutil.DummyClassifier{Err: errors.New("down")}
	c := controller.NewController(client, nil, &testutil.DummyLogger{})
	defer c.Close()

	submitted := c.Submit(context.Background(), "http://example.com")
	waitForSeq(t, c.Events(), submitted.Seq)

	client.Err = nil
	submitted = c.Submit(context.Background(), "http://example.com")
	state := waitForSeq(t, c.Events(), submitted.Seq)

	if state.Phase != model.PhaseResolved {
		t.Fatalf("expected recovery on resubmission, got %s (%+v)", state.Phase, state.Err)
	}
}

func TestController_RecordsDispatchedTerminalStates(t *testing.T) {
	t.Parallel()
	client := &testutil.DummyClassifier{
		Bodies: map[string]string{"http://example.com": `{"label": 1, "score": 0.8, "reasons": ["r"]}`},
	}
	recorder := &testutil.DummyRecorder{}
	c := controller.NewController(client, recorder, &testutil.DummyLogger{})
	defer c.Close()

	// Validation failures are not scans; they are not recorded.
	c.Submit(context.Background(), "   ")

	submitted := c.Submit(context.Background(), "http://example.com")
	waitForSeq(t, c.Events(), submitted.Seq)

	deadline := time.Now().Add(2 * time.Second)
	for len(recorder.Recorded()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	recs := recorder.Recorded()
	if len(recs) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.URL != "http://example.com" || rec.Phase != model.PhaseResolved || !rec.IsPhishing {
		t.Errorf("unexpected record %+v", rec)
	}
}
