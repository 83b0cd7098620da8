package heuristics

// Config holds the rule tables and thresholds for the heuristics engine.
type Config struct {
	// SuspiciousWords are tokens often found in phishing hosts and paths.
	SuspiciousWords []string

	// TrustedBrands maps a brand token to its official registered domain.
	// A brand token appearing under any other registered domain is a
	// strong phishing signal.
	TrustedBrands map[string]string

	// BaseScore is the score assigned when no rule fires.
	BaseScore float64

	// LongSubdomainLen is the label-length threshold for the
	// has_long_subdomain feature.
	LongSubdomainLen int

	// LongTLDLen is the suffix-length threshold for the has_long_tld
	// feature.
	LongTLDLen int
}

// DefaultConfig returns the rule tables used by the original PhishGuard
// backend.
func DefaultConfig() *Config {
	return &Config{
		SuspiciousWords: []string{
			"login", "secure", "verify", "update", "free", "claim",
			"password", "signin", "bank", "account", "confirm", "ebayisapi",
			"webscr", "paypal", "security", "support", "reset",
		},
		TrustedBrands: map[string]string{
			"facebook":      "facebook.com",
			"google":        "google.com",
			"paypal":        "paypal.com",
			"amazon":        "amazon.com",
			"apple":         "apple.com",
			"bankofamerica": "bankofamerica.com",
			"microsoft":     "microsoft.com",
		},
		BaseScore:        0.1,
		LongSubdomainLen: 20,
		LongTLDLen:       6,
	}
}
