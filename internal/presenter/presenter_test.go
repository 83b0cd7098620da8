package presenter_test

import (
	"strings"
	"testing"

	"github.com/phishguard/phishguard/internal/model"
	"github.com/phishguard/phishguard/internal/presenter"
)

func floatPtr(f float64) *float64 { return &f }

func TestRender_Idle(t *testing.T) {
	t.Parallel()
	view := presenter.Render(model.ScanState{Phase: model.PhaseIdle})

	if view.Phase != "idle" || view.Busy || view.Label != "" || view.Message != "" {
		t.Errorf("expected neutral idle view, got %+v", view)
	}
	if view.Reasons == nil {
		t.Error("expected non-nil reasons")
	}
}

func TestRender_Checking(t *testing.T) {
	t.Parallel()
	view := presenter.Render(model.ScanState{
		Phase: model.PhaseChecking,
		URL:   "http://example.com",
	})

	if !view.Busy {
		t.Error("expected busy flag while checking")
	}
	if view.URL != "http://example.com" {
		t.Errorf("unexpected url %q", view.URL)
	}
}

func TestRender_Resolved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		verdict        *model.Verdict
		wantLabel      string
		wantConfidence string
		wantReasons    int
	}{
		{
			name: "phishing with confidence and reasons",
			verdict: &model.Verdict{
				IsPhishing: true,
				Confidence: floatPtr(0.93),
				Reasons:    []string{"ip-literal-host", "brand-in-subdomain"},
			},
			wantLabel:      presenter.LabelPhishing,
			wantConfidence: "93%",
			wantReasons:    2,
		},
		{
			name:      "safe without confidence",
			verdict:   &model.Verdict{IsPhishing: false, Reasons: []string{}},
			wantLabel: presenter.LabelSafe,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			view := presenter.Render(model.ScanState{
				Phase:   model.PhaseResolved,
				URL:     "http://example.com",
				Verdict: tc.verdict,
			})

			if view.Label != tc.wantLabel {
				t.Errorf("expected label %q, got %q", tc.wantLabel, view.Label)
			}
			if view.Confidence != tc.wantConfidence {
				t.Errorf("expected confidence %q, got %q", tc.wantConfidence, view.Confidence)
			}
			if len(view.Reasons) != tc.wantReasons {
				t.Errorf("expected %d reasons, got %v", tc.wantReasons, view.Reasons)
			}
			if view.Message != "" {
				t.Errorf("resolved view should carry no failure message, got %q", view.Message)
			}
		})
	}
}

func TestRender_FailureMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind model.ErrorKind
		err  *model.ScanError
		want string
	}{
		{model.ErrorValidation, &model.ScanError{Kind: model.ErrorValidation}, "Enter a URL"},
		{model.ErrorNetwork, &model.ScanError{Kind: model.ErrorNetwork}, "unreachable"},
		{model.ErrorServer, &model.ScanError{Kind: model.ErrorServer, StatusCode: 503}, "status 503"},
		{model.ErrorMalformedResponse, &model.ScanError{Kind: model.ErrorMalformedResponse}, "unexpected response"},
		{model.ErrorUnrecognizedShape, &model.ScanError{Kind: model.ErrorUnrecognizedShape}, "unexpected response"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(string(tc.kind), func(t *testing.T) {
			t.Parallel()
			view := presenter.Render(model.ScanState{
				Phase: model.PhaseFailed,
				Err:   tc.err,
			})

			if !strings.Contains(view.Message, tc.want) {
				t.Errorf("expected message containing %q, got %q", tc.want, view.Message)
			}
			if view.ErrorKind != string(tc.kind) {
				t.Errorf("expected error kind %q, got %q", tc.kind, view.ErrorKind)
			}
			if view.Label != "" {
				t.Errorf("failed view should carry no verdict label, got %q", view.Label)
			}
		})
	}
}

func TestRender_RawDiagnosticNotLeaked(t *testing.T) {
	t.Parallel()
	view := presenter.Render(model.ScanState{
		Phase: model.PhaseFailed,
		Err: &model.ScanError{
			Kind:    model.ErrorMalformedResponse,
			Message: "classifier returned invalid JSON: <html>stack trace</html>",
		},
	})

	if strings.Contains(view.Message, "stack trace") {
		t.Errorf("raw diagnostics leaked into user-facing message: %q", view.Message)
	}
}
