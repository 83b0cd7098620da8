// Command predictserver starts the built-in classifier service.
// Usage: go run ./cmd/predictserver [port]
// Default port: 5000
package main

import (
	"log"
	"os"
	"strconv"

	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/predictserver"
)

func main() {
	cfg := predictserver.DefaultConfig()

	// Optional: custom port from command line
	if len(os.Args) > 1 {
		port, err := strconv.Atoi(os.Args[1])
		if err != nil || port < 1 || port > 65535 {
			log.Fatalf("Invalid port: %s", os.Args[1])
		}
		cfg.Port = port
	}

	s := predictserver.NewServer(cfg, logging.NewStdoutLogger("PredictServer"))
	if err := s.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
