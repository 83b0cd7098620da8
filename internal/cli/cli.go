package cli

import (
	"flag"
	"fmt"
	"strings"
	"time"
)

// CLIArgs are the command-line arguments for a one-shot scan.
type CLIArgs struct {
	// URL is the URL to scan.
	URL string

	// ServerURL is the classifier service base URL (nethttp backend).
	ServerURL string

	// Backend selects the classifier backend: nethttp or local.
	Backend string

	// Timeout bounds the prediction round-trip; 0 disables it.
	Timeout time.Duration

	// JSONOutput prints the raw terminal state instead of the rendered view.
	JSONOutput bool

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by
// passing arbitrary slices. The function is deterministic and does not read
// os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("phishguard", flag.ContinueOnError)
	var (
		url     = fs.String("url", "", "URL to scan (required)")
		server  = fs.String("server", "http://127.0.0.1:5000", "Classifier service base URL")
		backend = fs.String("backend", "nethttp", "Classifier backend: nethttp|local")
		timeout = fs.Duration("timeout", 30*time.Second, "Prediction timeout (0 disables)")
		asJSON  = fs.Bool("json", false, "Print the raw scan state as JSON")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(nil)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if strings.TrimSpace(*url) == "" {
		return nil, fmt.Errorf("missing required -url argument")
	}

	switch *backend {
	case "nethttp", "local":
	default:
		return nil, fmt.Errorf("unknown backend %q (want nethttp or local)", *backend)
	}

	return &CLIArgs{
		URL:        *url,
		ServerURL:  *server,
		Backend:    *backend,
		Timeout:    *timeout,
		JSONOutput: *asJSON,
		RawArgs:    args,
	}, nil
}
