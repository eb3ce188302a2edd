package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ReturnLens/internal/model"
	"ReturnLens/internal/plan"
	"ReturnLens/internal/strategy"

	rlmiddleware "ReturnLens/internal/server/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Analyzer compares strategies for a symbol.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string, w strategy.Window, p *plan.Plan) (*model.Comparison, error)
}

// WebAPI is the HTTP server exposing strategy comparisons.
type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
	config Config
}

// Dependencies are the components the handlers need.
type Dependencies struct {
	Analyzer  Analyzer
	Watchlist []string
	Plan      *plan.Plan
	Currency  string
	Logger    zerolog.Logger
}

// Config configures the listen address and shutdown deadline of a WebAPI.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter builds the API routes.
func ConfigureRouter(config Config) *chi.Mux {
	h := NewHandler(config.Dependencies)
	logger := config.Dependencies.Logger

	router := chi.NewRouter()
	router.Use(rlmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", h.Health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/symbols", h.ListSymbols)
		r.Get("/compare/{symbol}", h.Compare)
	})
	return router
}

// NewWebAPI builds the server. A zero ShutdownTimeout defaults to 10s.
func NewWebAPI(config Config) *WebAPI {
	logger := config.Dependencies.Logger
	router := ConfigureRouter(config)
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		config: config,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.config.ShutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		return err
	}
}
