// Command phishguard runs a one-shot URL scan.
// Usage: go run ./cmd/phishguard -url <url> [-server <base-url>] [-backend nethttp|local] [-timeout 30s] [-json]
// Exit codes: 0 safe, 1 scan failure, 2 phishing verdict.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/cli"
	"github.com/phishguard/phishguard/internal/controller"
	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/model"
	"github.com/phishguard/phishguard/internal/presenter"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	classifier.RegisterDefaultBackends()
	client, err := classifier.NewClient(classifier.Config{
		Backend: classifier.Backend(args.Backend),
		BaseURL: args.ServerURL,
		Timeout: args.Timeout,
	}, logging.NopLogger{})
	if err != nil {
		log.Fatalf("Creating classifier client: %v", err)
	}
	defer client.Close()

	ctrl := controller.NewController(client, nil, logging.NopLogger{})
	defer ctrl.Close()

	state := ctrl.Submit(context.Background(), args.URL)
	state = waitTerminal(ctrl, state)

	if args.JSONOutput {
		out, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			log.Fatalf("Encoding scan state: %v", err)
		}
		fmt.Println(string(out))
		os.Exit(exitCode(state))
	}

	view := presenter.Render(state)
	if state.Phase == model.PhaseFailed {
		fmt.Fprintln(os.Stderr, view.Message)
		os.Exit(1)
	}

	fmt.Printf("%s  %s\n", view.Label, state.URL)
	if view.Confidence != "" {
		fmt.Printf("confidence: %s\n", view.Confidence)
	}
	if len(view.Reasons) > 0 {
		fmt.Printf("reasons: %s\n", strings.Join(view.Reasons, ", "))
	}
	os.Exit(exitCode(state))
}

// waitTerminal blocks until the submission reaches a terminal phase.
func waitTerminal(ctrl *controller.Controller, submitted model.ScanState) model.ScanState {
	if submitted.Terminal() {
		return submitted
	}
	for {
		select {
		case state := <-ctrl.Events():
			if state.Seq == submitted.Seq && state.Terminal() {
				return state
			}
		case <-time.After(5 * time.Minute):
			log.Fatal("Timed out waiting for scan to finish")
		}
	}
}

func exitCode(state model.ScanState) int {
	switch {
	case state.Phase == model.PhaseFailed:
		return 1
	case state.Verdict != nil && state.Verdict.IsPhishing:
		return 2
	default:
		return 0
	}
}
