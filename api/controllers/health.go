package controllers

import (
	"net/http"

	"github.com/avelinelabs/giftnest-backend/api/responses"
	"github.com/avelinelabs/giftnest-backend/pkg/config"
	pkgerrors "github.com/avelinelabs/giftnest-backend/pkg/errors"
	"github.com/avelinelabs/giftnest-backend/pkg/logger"
	"github.com/avelinelabs/giftnest-backend/pkg/snapshot"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GiftNest-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the snapshot backend; losing it degrades persistence
// but the process keeps serving, so readiness is where it surfaces.
func HealthReady(cfg *config.Config, snapshots snapshot.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GiftNest-Env", cfg.App.Env)

		if snapshots != nil {
			if err := snapshots.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "snapshot store unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
