package model

import "encoding/json"

// Verdict is the normalized judgment derived from a raw classifier response.
// It is the only shape the rest of the system ever sees; the interpreter is
// the single place that knows about the service's divergent schemas.
type Verdict struct {
	// IsPhishing is true when the classifier judged the URL as phishing.
	IsPhishing bool `json:"is_phishing"`

	// Confidence is in [0,1] when the service reported one, nil otherwise.
	Confidence *float64 `json:"confidence"`

	// Reasons holds the classifier's rationale tags. Never nil; empty
	// when the service provided none.
	Reasons []string `json:"reasons"`

	// Raw retains the service payload for diagnostic display.
	Raw json.RawMessage `json:"raw,omitempty"`
}
