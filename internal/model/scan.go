package model

import "time"

// ScanRequest is the wire payload sent to the classifier service.
type ScanRequest struct {
	// URL is the target URL to classify. Non-empty after trimming;
	// the controller never dispatches an empty URL.
	URL string `json:"url"`
}

// Phase is the lifecycle phase of a scan.
type Phase string

const (
	// PhaseIdle means no submission has been made yet.
	PhaseIdle Phase = "idle"

	// PhaseChecking means a submission is in flight.
	PhaseChecking Phase = "checking"

	// PhaseResolved means the latest submission produced a verdict.
	PhaseResolved Phase = "resolved"

	// PhaseFailed means the latest submission failed (see Err for the kind).
	PhaseFailed Phase = "failed"
)

// ScanState is the single lifecycle value owned by a controller. It is
// replaced wholesale on every transition, never mutated in place.
type ScanState struct {
	Phase Phase `json:"phase"`

	// URL is the normalized URL of the submission this state belongs to.
	// Empty while idle.
	URL string `json:"url,omitempty"`

	// Seq is the submission sequence number. Results carrying a stale
	// sequence number are discarded (last-submission-wins).
	Seq uint64 `json:"seq"`

	// Verdict is set when Phase == PhaseResolved.
	Verdict *Verdict `json:"verdict,omitempty"`

	// Err is set when Phase == PhaseFailed.
	Err *ScanError `json:"error,omitempty"`

	// StartedAt is when the submission was accepted.
	StartedAt time.Time `json:"started_at,omitzero"`

	// ResolvedAt is when the scan reached a terminal phase.
	ResolvedAt time.Time `json:"resolved_at,omitzero"`
}

// Terminal reports whether the state is resolved or failed.
func (s ScanState) Terminal() bool {
	return s.Phase == PhaseResolved || s.Phase == PhaseFailed
}
