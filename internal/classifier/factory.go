package classifier

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/phishguard/phishguard/internal/logging"
)

// BackendConstructor constructs a Client given the config and logger.
type BackendConstructor func(cfg Config, logger logging.Logger) (Client, error)

var (
	mu       sync.RWMutex
	registry = map[string]BackendConstructor{}
)

// RegisterBackend registers a named backend constructor. Name is lower-cased
// internally. Calling RegisterBackend with the same name overwrites the
// previous constructor.
func RegisterBackend(name string, ctor BackendConstructor) {
	if name == "" || ctor == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(name)] = ctor
}

// NewClient constructs the configured classifier backend. It returns an
// error if the named backend has not been registered.
func NewClient(cfg Config, logger logging.Logger) (Client, error) {
	backend := strings.ToLower(strings.TrimSpace(string(cfg.Backend)))
	if backend == "" {
		backend = string(BackendNetHTTP)
	}

	mu.RLock()
	ctor, ok := registry[backend]
	mu.RUnlock()
	if !ok || ctor == nil {
		return nil, fmt.Errorf("classifier backend %q not registered: available backends=%v", backend, ListBackends())
	}

	c, err := ctor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to construct classifier backend %q: %w", backend, err)
	}
	if c == nil {
		return nil, errors.New("classifier constructor returned nil")
	}
	return c, nil
}

// ListBackends returns the list of registered backend names.
func ListBackends() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}
