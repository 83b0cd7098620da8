package classifier

import (
	"net/http"
	"time"
)

// Response is the raw classifier answer as seen by the transport.
type Response struct {
	// URL is the submitted URL.
	URL string

	// Body is the full response body.
	Body []byte

	Headers    http.Header
	StatusCode int

	// ReceivedAt is when the response finished arriving.
	ReceivedAt time.Time
}

// OK reports whether the status code indicates success.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
