// Package dashboard is the interactive front end: a small web page plus a
// JSON API that re-runs the analysis over an arbitrary date window.
package dashboard

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"QuantMarketLab/internal/model"
	"QuantMarketLab/internal/pipeline"
)

// Server hosts the dashboard and its API.
type Server struct {
	pipeline *pipeline.Pipeline
	assets   []model.Asset
	http     *http.Server
}

// NewServer builds a dashboard server listening on addr.
func NewServer(addr string, p *pipeline.Pipeline, assets []model.Asset) *Server {
	s := &Server{pipeline: p, assets: assets}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", s.handleHealth)
		r.Get("/assets", s.handleAssets)
		r.Get("/analyze", s.handleAnalyze)
	})
	return r
}

// ListenAndServe blocks until the context is canceled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] dashboard listening on %s", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
