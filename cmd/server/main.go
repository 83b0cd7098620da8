// Command server runs the PhishGuard API server.
// Configuration comes from the environment (a .env file is honored):
//
//	PHISHGUARD_LISTEN_ADDR   HTTP listen address (default :8080)
//	PHISHGUARD_STORAGE_ROOT  directory for history.db (default ~/.phishguard)
//	PHISHGUARD_BACKEND       classifier backend: nethttp|local (default nethttp)
//	PHISHGUARD_CLASSIFIER    classifier service base URL
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/server"
)

func main() {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	logger := logging.NewStdoutLogger("Server")

	cfg := server.DefaultConfig()
	cfg.Logger = logger
	if v := os.Getenv("PHISHGUARD_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("PHISHGUARD_STORAGE_ROOT"); v != "" {
		cfg.StorageRoot = v
	}

	classifierCfg := classifier.DefaultConfig()
	if v := os.Getenv("PHISHGUARD_BACKEND"); v != "" {
		classifierCfg.Backend = classifier.Backend(v)
	}
	if v := os.Getenv("PHISHGUARD_CLASSIFIER"); v != "" {
		classifierCfg.BaseURL = v
	}
	cfg.Classifier = &classifierCfg

	s, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Creating server: %v", err)
	}
	defer s.Close()

	logger.Info("api server listening", logging.Field{Key: "addr", Value: cfg.ListenAddr})
	if err := s.HTTPServer().ListenAndServe(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
