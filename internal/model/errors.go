package model

import "fmt"

// ErrorKind classifies scan failures. All kinds are recoverable: the
// controller stays usable for subsequent submissions after any of them.
type ErrorKind string

const (
	// ErrorValidation means the input was empty after trimming. Corrected
	// by the user; transport is never invoked.
	ErrorValidation ErrorKind = "validation"

	// ErrorNetwork means the transport produced no response at all.
	ErrorNetwork ErrorKind = "network"

	// ErrorServer means the service answered with a non-2xx status.
	ErrorServer ErrorKind = "server"

	// ErrorMalformedResponse means a 2xx body was not valid JSON.
	ErrorMalformedResponse ErrorKind = "malformed_response"

	// ErrorUnrecognizedShape means valid JSON matched no known schema.
	ErrorUnrecognizedShape ErrorKind = "unrecognized_shape"
)

// ScanError is the failure surfaced in a failed ScanState.
type ScanError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`

	// StatusCode is set for server errors (non-2xx responses).
	StatusCode int `json:"status_code,omitempty"`
}

func (e *ScanError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
