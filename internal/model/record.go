package model

import "time"

// ScanRecord is the persisted form of a terminal scan, as stored in the
// history database.
type ScanRecord struct {
	// ID is a UUID assigned by the history store.
	ID string `json:"id"`

	// URL is the normalized URL that was scanned.
	URL string `json:"url"`

	// Phase is the terminal phase ("resolved" or "failed").
	Phase Phase `json:"phase"`

	// IsPhishing / Confidence / Reasons mirror the verdict for resolved scans.
	IsPhishing bool     `json:"is_phishing,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Reasons    []string `json:"reasons,omitempty"`

	// ErrorKind / ErrorMessage mirror the failure for failed scans.
	ErrorKind    ErrorKind `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`

	// SubmittedAt / ResolvedAt bound the scan's lifetime.
	SubmittedAt time.Time `json:"submitted_at"`
	ResolvedAt  time.Time `json:"resolved_at"`
}
