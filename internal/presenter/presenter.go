// Package presenter maps scan states to display models. It holds no
// decision logic; everything it shows was decided upstream.
package presenter

import (
	"fmt"

	"github.com/phishguard/phishguard/internal/model"
)

// Display labels for resolved verdicts.
const (
	LabelPhishing = "phishing"
	LabelSafe     = "safe"
)

// View is the render-ready projection of a ScanState.
type View struct {
	Phase string `json:"phase"`
	URL   string `json:"url,omitempty"`

	// Busy is true while a submission is in flight.
	Busy bool `json:"busy"`

	// Label is "phishing" or "safe" once resolved, empty otherwise.
	Label string `json:"label,omitempty"`

	// Confidence is a formatted percentage ("93%") when the service
	// reported one, empty otherwise.
	Confidence string `json:"confidence,omitempty"`

	// Reasons holds the verdict's rationale tags. Never nil.
	Reasons []string `json:"reasons"`

	// Message is a human-readable summary for failed states.
	Message string `json:"message,omitempty"`

	// ErrorKind is the machine-readable failure kind for failed states.
	ErrorKind string `json:"error_kind,omitempty"`
}

// Render projects state into a View.
func Render(state model.ScanState) View {
	view := View{
		Phase:   string(state.Phase),
		URL:     state.URL,
		Reasons: []string{},
	}

	switch state.Phase {
	case model.PhaseChecking:
		view.Busy = true

	case model.PhaseResolved:
		if state.Verdict == nil {
			break
		}
		if state.Verdict.IsPhishing {
			view.Label = LabelPhishing
		} else {
			view.Label = LabelSafe
		}
		if state.Verdict.Confidence != nil {
			view.Confidence = fmt.Sprintf("%.0f%%", *state.Verdict.Confidence*100)
		}
		if state.Verdict.Reasons != nil {
			view.Reasons = state.Verdict.Reasons
		}

	case model.PhaseFailed:
		if state.Err == nil {
			break
		}
		view.ErrorKind = string(state.Err.Kind)
		view.Message = failureMessage(state.Err)
	}

	return view
}

// failureMessage translates an error kind into user-facing text. The raw
// diagnostic stays in the state; the view carries only what a person needs.
func failureMessage(scanErr *model.ScanError) string {
	switch scanErr.Kind {
	case model.ErrorValidation:
		return "Enter a URL to scan."
	case model.ErrorNetwork:
		return "The scan service is unreachable. Check your connection and try again."
	case model.ErrorServer:
		if scanErr.StatusCode != 0 {
			return fmt.Sprintf("The scan service reported an error (status %d). Try again later.", scanErr.StatusCode)
		}
		return "The scan service reported an error. Try again later."
	case model.ErrorMalformedResponse, model.ErrorUnrecognizedShape:
		return "The scan service returned an unexpected response."
	default:
		return scanErr.Message
	}
}
