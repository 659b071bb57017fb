package controllers

import (
	"context"
	"net/http"

	"github.com/kunalsaini/authline-backend/api/responses"
	"github.com/kunalsaini/authline-backend/pkg/config"
	pkgerrors "github.com/kunalsaini/authline-backend/pkg/errors"
	"github.com/kunalsaini/authline-backend/pkg/logger"
)

// Pinger is implemented by the database and Redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Authline-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady answers ok only when every backing store responds.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps ...Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Authline-Env", cfg.App.Env)

		for _, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "dependency unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
