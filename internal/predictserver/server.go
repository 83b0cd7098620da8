// Package predictserver is the built-in classifier service: the heuristics
// engine exposed over the same HTTP contract the controller's nethttp
// backend speaks. It doubles as a stand-in for the real model service in
// development and tests.
package predictserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/heuristics"
	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/model"
)

// Server serves URL predictions from the heuristics engine.
type Server struct {
	cfg    Config
	engine *heuristics.Engine
	router chi.Router
	logger logging.Logger
}

// NewServer creates a prediction server around a fresh heuristics engine.
func NewServer(cfg Config, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewStdoutLogger("PredictServer")
	}

	s := &Server{
		cfg:    cfg,
		engine: heuristics.NewEngine(cfg.Heuristics, logger),
		router: chi.NewRouter(),
		logger: logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Post(classifier.PredictPath, s.handlePredictURL)
	r.Post("/features", s.handleFeatures)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("http_request",
		logging.Field{Key: "method", Value: r.Method},
		logging.Field{Key: "path", Value: r.URL.Path})
	s.router.ServeHTTP(w, r)
}

// Start runs the service until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("prediction service listening", logging.Field{Key: "addr", Value: addr})
	return http.ListenAndServe(addr, s)
}

// pageSignalScore is the confidence assigned when page inspection finds
// credential-harvesting signals and the URL rules alone did not.
const pageSignalScore = 0.85

func (s *Server) handlePredictURL(w http.ResponseWriter, r *http.Request) {
	url, html, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	assessment := s.engine.Evaluate(url)
	if s.cfg.InspectPage && html != "" {
		if signals := s.engine.InspectPage([]byte(html), url); len(signals) > 0 {
			assessment.Label = 1
			assessment.Score = max(assessment.Score, pageSignalScore)
			assessment.Reasons = append(assessment.Reasons, signals...)
		}
	}
	s.logger.Info("predicted url",
		logging.Field{Key: "url", Value: url},
		logging.Field{Key: "label", Value: assessment.Label},
		logging.Field{Key: "score", Value: assessment.Score})

	if s.legacyShape(r) {
		prediction := model.PredictionLegitimate
		if assessment.Label == 1 {
			prediction = model.PredictionPhishing
		}
		writeJSON(w, http.StatusOK, model.LegacyPredictResponse{Prediction: prediction})
		return
	}

	writeJSON(w, http.StatusOK, model.PredictResponse{
		Label:   assessment.Label,
		Score:   assessment.Score,
		Reasons: assessment.Reasons,
	})
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	url, _, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"features": s.engine.ComputeFeatures(url),
	})
}

// decodeRequest extracts a non-empty URL (and optional page HTML) from the
// request body, answering the error response itself when there is none.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (url, html string, ok bool) {
	var body struct {
		URL  string `json:"url"`
		HTML string `json:"html,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("decoding request body", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadRequest, "no url provided")
		return "", "", false
	}

	url = strings.TrimSpace(body.URL)
	if url == "" {
		writeError(w, http.StatusBadRequest, "no url provided")
		return "", "", false
	}
	return url, body.HTML, true
}

func (s *Server) legacyShape(r *http.Request) bool {
	if s.cfg.LegacyShape {
		return true
	}
	return r.URL.Query().Get("shape") == "b"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
