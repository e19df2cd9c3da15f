// Package app wires the Agrigate server runtime: config, logging, database
// pool, metrics, and HTTP routes.
//
// It is intentionally small and deterministic to keep CI gates strict and
// behavior predictable.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agrigate/cmd/identity"
	"agrigate/cmd/internal/advisor"
	"agrigate/cmd/internal/agro"
	api "agrigate/cmd/internal/auth/api"
	"agrigate/cmd/internal/auth/token"
	"agrigate/cmd/internal/detect"
)

// App is the Agrigate server runtime: it owns the HTTP server wiring and
// the database pool lifecycle.
type App struct {
	cfg Config
	log Logger

	dbPool  *pgxpool.Pool
	metrics *Metrics

	auth     *api.Handler
	agro     *agro.Handler
	advisor  *advisor.Handler
	detector *detect.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := identity.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	tokens, err := token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		pool.Close()
		return nil, err
	}

	gemini, err := advisor.NewClient(advisor.Config{
		URL:     cfg.Gemini.URL,
		APIKey:  cfg.Gemini.APIKey,
		Timeout: cfg.Gemini.Timeout,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &App{
		cfg:      cfg,
		log:      log,
		dbPool:   pool,
		metrics:  NewMetrics(),
		auth:     api.NewHandler(log, store, tokens, api.Config{MaxBodyBytes: cfg.MaxBodyBytes}),
		agro:     agro.NewHandler(log, cfg.MaxBodyBytes),
		advisor:  advisor.NewHandler(log, gemini, cfg.MaxBodyBytes),
		detector: detect.NewHandler(log, detect.StubClassifier{}),
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.dbPool, a.metrics, a.auth, a.agro, a.advisor, a.detector)

	handler := WithRequestID(a.metrics.Middleware(WithRequestLogging(WithCORS(mux, a.cfg, a.log), a.log)))

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 60*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	a.dbPool.Close()

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
