package predictserver

import "github.com/phishguard/phishguard/internal/heuristics"

// Config holds configuration for the built-in classifier service.
type Config struct {
	// Port is the port on which the service listens.
	Port int

	// LegacyShape makes every prediction answer in the older
	// {"prediction": ...} schema. Individual requests can also opt in
	// with ?shape=b.
	LegacyShape bool

	// InspectPage enables static HTML inspection: requests may carry a
	// page body alongside the URL and its signals join the verdict.
	InspectPage bool

	// Heuristics configures the rule engine. Nil means defaults.
	Heuristics *heuristics.Config
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port: 5000,
	}
}
