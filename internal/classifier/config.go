package classifier

import "time"

type Backend string

const (
	// BackendNetHTTP talks to a remote classifier over HTTP.
	BackendNetHTTP Backend = "nethttp"

	// BackendLocal runs the built-in heuristics engine in-process.
	BackendLocal Backend = "local"
)

// Config selects and parameterizes a classifier backend.
type Config struct {
	Backend Backend

	// BaseURL is the classifier service base URL (nethttp backend).
	// The predict endpoint is BaseURL + "/predict_url".
	BaseURL string

	// Timeout bounds a single prediction round-trip (nethttp backend).
	// Zero disables the timeout, matching deployments that let a hung
	// request sit in "checking" indefinitely.
	Timeout time.Duration
}

// DefaultConfig returns the development defaults: a remote classifier on the
// original backend's address with a 30s timeout.
func DefaultConfig() Config {
	return Config{
		Backend: BackendNetHTTP,
		BaseURL: "http://127.0.0.1:5000",
		Timeout: 30 * time.Second,
	}
}
