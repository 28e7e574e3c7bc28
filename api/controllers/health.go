package controllers

import (
	"net/http"

	"github.com/aromaten/aromaten-backend/api/responses"
	"github.com/aromaten/aromaten-backend/pkg/config"
	"github.com/aromaten/aromaten-backend/pkg/db"
	pkgerrors "github.com/aromaten/aromaten-backend/pkg/errors"
	"github.com/aromaten/aromaten-backend/pkg/logger"
	"github.com/aromaten/aromaten-backend/pkg/types"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Aromaten-Env", cfg.App.Env)
		responses.WriteSuccess(w, types.Status("live"))
	}
}

// HealthReady reports whether the backing stores answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, database, cache db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Aromaten-Env", cfg.App.Env)

		checks := map[string]db.Pinger{"database": database, "redis": cache}
		for name, dep := range checks {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, types.Status("ready"))
	}
}
