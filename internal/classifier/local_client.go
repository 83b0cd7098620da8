package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/phishguard/phishguard/internal/heuristics"
	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/model"
)

// LocalClient runs the built-in heuristics engine in-process and synthesizes
// shape A responses. It makes the CLI usable without a running classifier
// service and keeps controller tests free of network I/O.
type LocalClient struct {
	engine *heuristics.Engine
	logger logging.Logger
}

// NewLocalClient creates a classifier backed by the heuristics engine.
func NewLocalClient(engine *heuristics.Engine, logger logging.Logger) (*LocalClient, error) {
	if engine == nil {
		return nil, fmt.Errorf("nil heuristics engine")
	}
	componentLogger := logger.With(logging.Field{Key: "backend", Value: "local"})
	componentLogger.Info("created local classifier client")
	return &LocalClient{
		engine: engine,
		logger: componentLogger,
	}, nil
}

func (c *LocalClient) Predict(ctx context.Context, url string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := c.engine.Evaluate(url)
	body, err := json.Marshal(model.PredictResponse{
		Label:   a.Label,
		Score:   a.Score,
		Reasons: a.Reasons,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal local verdict: %w", err)
	}

	return &Response{
		URL:        url,
		Body:       body,
		StatusCode: http.StatusOK,
		ReceivedAt: time.Now(),
	}, nil
}

func (c *LocalClient) Close() error {
	c.logger.Info("closing local classifier client")
	return nil
}
