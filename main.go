package main

import (
	"context"
	"fmt"
	"net/http/httptest"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/controller"
	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/predictserver"
	"github.com/phishguard/phishguard/internal/presenter"
)

func setupPredictServer() *httptest.Server {
	ps := predictserver.NewServer(predictserver.DefaultConfig(), logging.NopLogger{})
	return httptest.NewServer(ps)
}

func main() {
	service := setupPredictServer()
	defer service.Close() // Close AFTER scanning

	classifier.RegisterDefaultBackends()
	client, err := classifier.NewClient(classifier.Config{
		Backend: classifier.BackendNetHTTP,
		BaseURL: service.URL,
	}, logging.NopLogger{})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer client.Close()

	ctrl := controller.NewController(client, nil, logging.NopLogger{})
	defer ctrl.Close()

	submitted := ctrl.Submit(context.Background(), "http://paypal.secure-login.example/verify")
	for state := range ctrl.Events() {
		if state.Seq != submitted.Seq || !state.Terminal() {
			continue
		}
		fmt.Printf("got: %+v\n", presenter.Render(state))
		return
	}
}
