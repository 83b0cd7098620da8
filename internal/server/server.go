// Package server is the HTTP + WebSocket API surface for PhishGuard. It
// owns one controller per instance and streams its state transitions.
package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/controller"
	"github.com/phishguard/phishguard/internal/history"
	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/model"
	"github.com/phishguard/phishguard/internal/presenter"

	_ "modernc.org/sqlite" // SQLite driver
)

// Server is the HTTP + WebSocket API surface for PhishGuard.
type Server struct {
	cfg        Config
	controller *controller.Controller
	store      *history.Store
	client     classifier.Client
	router     chi.Router
	upgrader   websocket.Upgrader
	logger     logging.Logger
	historyDB  *sql.DB
}

// NewServer creates a new Server with its own controller and history store.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	classifierCfg := classifier.DefaultConfig()
	if cfg.Classifier != nil {
		classifierCfg = *cfg.Classifier
	}
	classifier.RegisterDefaultBackends()
	client, err := classifier.NewClient(classifierCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating classifier client: %w", err)
	}

	// Make sure storage root exists
	if cfg.StorageRoot == "" {
		cfg.StorageRoot = DefaultConfig().StorageRoot
	}
	storageRoot, err := expandPath(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("expanding storage root path: %w", err)
	}
	cfg.StorageRoot = storageRoot
	err = os.MkdirAll(cfg.StorageRoot, 0755)
	if err != nil {
		logger.Warn("creating storage root directory", logging.Field{Key: "path", Value: cfg.StorageRoot}, logging.Field{Key: "error", Value: err.Error()})
	}

	// Set up history DB
	db, err := sql.Open("sqlite", filepath.Join(cfg.StorageRoot, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	store, err := history.NewStore(db, logger)
	if err != nil {
		return nil, fmt.Errorf("creating history store: %w", err)
	}

	ctrl := controller.NewController(client, store, logger)

	r := chi.NewRouter()
	s := &Server{
		cfg:        cfg,
		controller: ctrl,
		store:      store,
		client:     client,
		router:     r,
		logger:     logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
		historyDB: db,
	}

	s.routes()
	return s, nil
}

// Controller returns the underlying controller for advanced use (tests, etc.).
func (s *Server) Controller() *controller.Controller {
	return s.controller
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/scan", s.optionsHandler("GET, POST"))
	r.Options("/scans", s.optionsHandler("GET"))
	r.Options("/scans/{scanID}", s.optionsHandler("GET"))
	r.Options("/ws/scan", s.optionsHandler("GET"))

	// Scan lifecycle
	r.Post("/scan", s.handleSubmitScan)
	r.Get("/scan", s.handleGetScan)

	// History
	r.Get("/scans", s.handleListScans)
	r.Get("/scans/{scanID}", s.handleGetScanRecord)

	// WebSocket for scan progress
	r.Get("/ws/scan", s.handleScanWS)

	r.Get("/healthz", s.handleHealthz)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, logging.Field{Key: "body", Value: string(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the controller and underlying resources.
func (s *Server) Close() {
	if s.controller != nil {
		s.controller.Close()
	}
	if s.client != nil {
		s.client.Close()
	}
	if s.historyDB != nil {
		s.historyDB.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

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

// --- HTTP handlers ---

func (s *Server) handleSubmitScan(w http.ResponseWriter, r *http.Request) {
	var body SubmitScanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// The scan outlives this request; resolution must not die with its
	// context.
	state := s.controller.Submit(context.Background(), body.URL)
	s.logger.Info("submitted scan",
		logging.Field{Key: "url", Value: state.URL},
		logging.Field{Key: "phase", Value: string(state.Phase)})
	writeJSON(w, http.StatusAccepted, state)
}

func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presenter.Render(s.controller.State()))
}

func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	recs, err := s.store.ListScans(r.Context(), limit)
	if err != nil {
		s.logger.Warn("listing scans", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []model.ScanRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetScanRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scanID")

	rec, err := s.store.GetScan(r.Context(), id)
	if errors.Is(err, history.ErrScanNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		s.logger.Warn("getting scan", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleScanWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	// Send the current view first so clients need no separate GET.
	_ = conn.WriteJSON(presenter.Render(s.controller.State()))

	for state := range s.controller.Events() {
		if err := conn.WriteJSON(presenter.Render(state)); err != nil {
			// Assume client disconnected
			return
		}
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func expandPath(p string) (string, error) {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}
