package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/patagonfinance/vault-service/log"
)

const shutdownTimeout = 5 * time.Second

// NewRouter mounts the service routes. Write routes sit behind the operator token.
func NewRouter(cfg Config, s *vaultService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(traceIDMiddleware)
	r.Use(requestLogMiddleware)
	r.Use(requestMetricsMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Healthz)
	r.Get("/version", s.GetVersion)
	r.Get("/vault", s.GetVault)
	r.Get("/accounts/{address}", s.GetAccount)
	r.Get("/roles/{role}/{address}", s.GetRole)
	r.Get("/events", s.GetEvents)

	r.Group(func(r chi.Router) {
		r.Use(operatorAuth(cfg.OperatorToken))
		r.Post("/phase", s.AdvancePhase)
		r.Post("/deposits/finalize", s.FinalizeDeposit)
		r.Post("/bridge/fund", s.FundBridge)
		r.Post("/pause", s.Pause)
		r.Post("/unpause", s.Unpause)
	})
	return allowCORS(r)
}

// RunServer serves handler until ctx is done, then shuts the server down.
func RunServer(ctx context.Context, cfg Config, handler http.Handler) error {
	if len(cfg.HTTPPort) == 0 {
		return fmt.Errorf("invalid TCP port for HTTP server: '%s'", cfg.HTTPPort)
	}
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("http server started on port %s", cfg.HTTPPort)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http server shutdown error: %v", err)
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("http server stopped")
	return nil
}
