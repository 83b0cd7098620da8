package server

import (
	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/logging"
)

// Config holds configuration for the API server.
type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// StorageRoot is the directory holding history.db. Defaults to
	// ~/.phishguard.
	StorageRoot string

	// Classifier selects the prediction backend. Nil means defaults
	// (remote classifier over HTTP).
	Classifier *classifier.Config

	// Logger is optional; a stdout logger is used when nil.
	Logger logging.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr:  ":8080",
		StorageRoot: "~/.phishguard",
	}
}
