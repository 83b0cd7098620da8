package classifier

import (
	"github.com/phishguard/phishguard/internal/heuristics"
	"github.com/phishguard/phishguard/internal/logging"
)

// RegisterDefaultBackends registers the default nethttp and local backends.
// Call this from init() or early in main() to make backends available to
// NewClient.
func RegisterDefaultBackends() {
	// Remote classifier over HTTP
	RegisterBackend("nethttp", func(cfg Config, logger logging.Logger) (Client, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})

	// In-process heuristics engine
	RegisterBackend("local", func(cfg Config, logger logging.Logger) (Client, error) {
		engine := heuristics.NewEngine(nil, logger)
		return NewLocalClient(engine, logger)
	})
}
