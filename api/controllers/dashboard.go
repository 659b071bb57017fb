package controllers

import (
	"net/http"

	"github.com/kunalsaini/authline-backend/api/responses"
	"github.com/kunalsaini/authline-backend/internal/users"
	pkgerrors "github.com/kunalsaini/authline-backend/pkg/errors"
	"github.com/kunalsaini/authline-backend/pkg/logger"
)

// Dashboard reports the total user count plus this year's monthly
// registration series.
func Dashboard(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		stats, err := svc.DashboardStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
