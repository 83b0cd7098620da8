package server

// SubmitScanRequest is the payload for starting a scan.
type SubmitScanRequest struct {
	URL string `json:"url" example:"http://paypal.secure-login.example/verify"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
