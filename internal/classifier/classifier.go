package classifier

import "context"

// Client is the transport seam between the scan controller and a
// phishing-classification service. Implementations return an error only for
// transport-level failures (no response received); HTTP-level failures are
// reported through Response.StatusCode so the controller can distinguish
// them.
type Client interface {
	// Predict submits a URL to the classifier and returns the raw
	// response. The URL must already be normalized (non-empty, trimmed).
	Predict(ctx context.Context, url string) (*Response, error)

	Close() error
}
