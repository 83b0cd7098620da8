package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/model"
)

// PredictPath is the classifier service's prediction endpoint.
const PredictPath = "/predict_url"

// net/http backed implementation of Client.
type NetHTTPClient struct {
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

// NewNetHTTPClient creates a classifier client for the service at
// cfg.BaseURL. If httpClient is nil, a default is constructed from
// cfg.Timeout (zero means no timeout).
func NewNetHTTPClient(cfg Config, logger logging.Logger, httpClient *http.Client) (*NetHTTPClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("classifier base URL is required")
	}

	// Create component-scoped logger
	componentLogger := logger.With(logging.Field{Key: "backend", Value: "nethttp"})

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	componentLogger.Info("created nethttp classifier client",
		logging.Field{Key: "base_url", Value: base},
		logging.Field{Key: "timeout", Value: httpClient.Timeout.String()})

	return &NetHTTPClient{
		baseURL: base,
		client:  httpClient,
		logger:  componentLogger,
	}, nil
}

// Predict POSTs {"url": "..."} to the predict endpoint and returns the raw
// response. Only transport-level failures produce an error; non-2xx
// responses come back with their status and body intact.
func (c *NetHTTPClient) Predict(ctx context.Context, url string) (*Response, error) {
	payload, err := json.Marshal(model.ScanRequest{URL: url})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + PredictPath

	c.logger.Debug("sending predict request",
		logging.Field{Key: "endpoint", Value: endpoint},
		logging.Field{Key: "url", Value: url})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("predict request failed",
			logging.Field{Key: "endpoint", Value: endpoint},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("http do: %w", err)
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("failed to read response body",
			logging.Field{Key: "endpoint", Value: endpoint},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		URL:        url,
		Body:       body,
		Headers:    resp.Header,
		StatusCode: resp.StatusCode,
		ReceivedAt: time.Now(),
	}, nil
}

func (c *NetHTTPClient) Close() error {
	c.logger.Info("closing nethttp classifier client")
	return nil
}

// HTTPClient returns the underlying *http.Client.
func (c *NetHTTPClient) HTTPClient() *http.Client {
	return c.client
}
