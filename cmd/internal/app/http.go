package app

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agrigate/cmd/internal/advisor"
	"agrigate/cmd/internal/agro"
	api "agrigate/cmd/internal/auth/api"
	"agrigate/cmd/internal/detect"
)

func registerHTTP(
	mux *http.ServeMux,
	log Logger,
	dbPool *pgxpool.Pool,
	metrics *Metrics,
	auth *api.Handler,
	agroHandler *agro.Handler,
	advisorHandler *advisor.Handler,
	detectHandler *detect.Handler,
) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := PingDB(r.Context(), dbPool, 2*time.Second); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			log.Info("readyz.db.not_ready", "err", err)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready\n"))
	})

	mux.Handle("/metrics", metrics.Handler())

	auth.Register(mux)
	agroHandler.Register(mux)
	advisorHandler.Register(mux)
	detectHandler.Register(mux)
}
