// Package api serves the scoring service over HTTP with a chi router.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ne3mer/supplychainweb/core"
	"github.com/ne3mer/supplychainweb/internal/contract"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop signal.
const shutdownTimeout = 10 * time.Second

// Server exposes a core.Service as a JSON API.
type Server struct {
	svc    *core.Service
	cfg    *contract.Config
	router chi.Router
}

// NewServer builds the router. cfg is cloned so later changes by the caller are not observed.
func NewServer(svc *core.Service, cfg *contract.Config) *Server {
	s := &Server{svc: svc, cfg: cfg.Clone()}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(rateLimit(s.cfg.Server.RateLimit, s.cfg.Server.RateBurst))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.storeStatus)
		r.Get("/dashboard", s.dashboard)
		r.Get("/top", s.topSuppliers)
		r.Get("/weights", s.weights)

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", s.listSuppliers)
			r.Post("/", s.createSupplier)
			r.Post("/evaluate", s.evaluate)
			r.Post("/rescore", s.rescoreAll)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getSupplier)
				r.Put("/", s.updateSupplier)
				r.Delete("/", s.deleteSupplier)
				r.Post("/rescore", s.rescore)
				r.Get("/analysis", s.analysis)
				r.Get("/recommendations", s.recommendations)
				r.Get("/explanation", s.explanation)
				r.Post("/simulate", s.simulate)
				r.Get("/reports", s.reports)
				r.Get("/controversies", s.listControversies)
				r.Post("/controversies", s.addControversy)
				r.Get("/media", s.listMedia)
				r.Post("/media", s.addMedia)
			})
		})

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", s.listPresets)
			r.Post("/", s.savePreset)
			r.Get("/{name}", s.getPreset)
			r.Delete("/{name}", s.deletePreset)
			r.Put("/{name}/default", s.setDefaultPreset)
		})

		r.Route("/cluster", func(r chi.Router) {
			r.Get("/", s.clusterStatus)
			r.Post("/train", s.trainClusters)
		})
	})
	return r
}

// ListenAndServe serves on the configured port until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.Int("port", s.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- eris.Wrap(err, "server listen")
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server shutdown")
	}
	return <-errCh
}
