// Package server exposes the summarization HTTP API the viewer talks to:
// POST /api/summarize accepts an exported chat transcript with an optional
// date range, GET /api/guide returns the export walkthrough.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/areeb-coder/whatsapp-summarizer/internal/llm"
)

// Server holds the router and the completion provider behind it.
type Server struct {
	cfg        Config
	provider   llm.Provider
	router     chi.Router
	httpServer *http.Server
}

// New creates a server around the given provider.
func New(cfg Config, provider llm.Provider) *Server {
	s := &Server{
		cfg:      cfg,
		provider: provider,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/summarize", s.handleSummarize)
	r.Get("/api/guide", s.handleGuide)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("summarizerd listening on %s (provider=%s model=%s)", addr, s.provider.Name(), s.cfg.Model)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
