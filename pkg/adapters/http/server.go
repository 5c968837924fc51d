package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/vending/internal/presentation/graph"
	"github.com/aretw0/vending/pkg/domain"
	"github.com/aretw0/vending/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes one engine over HTTP.
type Server struct {
	Engine  ports.Engine
	Logger  *slog.Logger
	Name    string
	Version string
	Metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithMetricsHandler mounts h (usually promhttp) on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithInfo sets the name and version reported by GET /info.
func WithInfo(name, version string) Option {
	return func(s *Server) {
		s.Name = name
		s.Version = version
	}
}

// InsertCoinRequest is the body of POST /coins.
type InsertCoinRequest struct {
	Coin int `json:"coin"`
}

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error    string        `json:"error"`
	Alphabet []domain.Coin `json:"alphabet,omitempty"`
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Engine, opts ...Option) (http.Handler, error) {
	server := &Server{
		Engine: engine,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Name:   "vending",
	}
	for _, opt := range opts {
		opt(server)
	}

	doc, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	validate, err := validateRequests(doc, server.Logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if server.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(validate)

		r.Get("/info", server.Info)
		r.Get("/state", server.GetState)
		r.Post("/coins", server.InsertCoin)
		r.Post("/dispense", server.Dispense)
		r.Post("/reset", server.Reset)
		r.Get("/machine", server.GetMachine)
		r.Get("/graph", server.GetGraph)
		r.Get("/events", server.SubscribeEvents)
	})

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"name":    s.Name,
		"version": s.Version,
	})
}

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Snapshot())
}

// InsertCoin handles POST /coins.
func (s *Server) InsertCoin(w http.ResponseWriter, r *http.Request) {
	var body InsertCoinRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		s.Logger.Warn("InsertCoin: Invalid request body", "err", err)
		return
	}

	state, err := s.Engine.InsertCoin(r.Context(), domain.Coin(body.Coin))
	if err != nil {
		var symErr *domain.InvalidSymbolError
		if errors.As(err, &symErr) {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), symErr.Alphabet)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		s.Logger.Error("InsertCoin failed", "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// Dispense handles POST /dispense.
func (s *Server) Dispense(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Dispense(r.Context()))
}

// Reset handles POST /reset.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Reset(r.Context()))
}

// GetMachine handles GET /machine.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Machine().Summary())
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	overlay := graph.OverlayFromRun(s.Engine.Snapshot())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.GenerateMermaid(s.Engine.Machine(), overlay)))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, alphabet []domain.Coin) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Alphabet: alphabet})
}
