// Package http exposes the consultation processing API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog/log"

	"medical-conversation-processor/internal/config"
	"medical-conversation-processor/internal/service/llm"
	"medical-conversation-processor/internal/service/pipeline"
)

// Server serves the consultation API over HTTP.
type Server struct {
	server    *http.Server
	addr      string
	pipeline  *pipeline.Pipeline
	completer llm.Completer
	upload    config.UploadConfig
	sttName   string
	model     string
}

// New creates the API server. The completer is only used for the health
// endpoint's model listing; processing goes through the pipeline.
func New(cfg *config.Config, p *pipeline.Pipeline, completer llm.Completer, sttName string) *Server {
	s := &Server{
		addr:      ":" + cfg.Service.HTTPPort,
		pipeline:  p,
		completer: completer,
		upload:    cfg.Upload,
		sttName:   sttName,
		model:     cfg.LLM.Model,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/liveness", s.handleLiveness)
		r.Get("/readiness", s.handleReadiness)

		r.Group(func(r chi.Router) {
			if cfg.Upload.RateLimitPerMin > 0 {
				r.Use(httprate.LimitByIP(cfg.Upload.RateLimitPerMin, time.Minute))
			}
			r.Post("/consultations", s.handleConsultation)
			r.Post("/consultations/sample", s.handleSampleConsultation)
		})
	})

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      r,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}
	return s
}

// Handler returns the underlying handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the API server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Info().Str("addr", s.addr).Msg("Starting API server")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("API server error")
		}
	}()
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down API server")
	return s.server.Shutdown(ctx)
}
