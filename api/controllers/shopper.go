package controllers

import (
	"net/http"

	"github.com/avelinelabs/giftnest-backend/api/middleware"
	"github.com/avelinelabs/giftnest-backend/api/responses"
	"github.com/avelinelabs/giftnest-backend/internal/shopper"
	pkgerrors "github.com/avelinelabs/giftnest-backend/pkg/errors"
	"github.com/avelinelabs/giftnest-backend/pkg/logger"
)

// resolveShopper looks up the per-session stores for the current request.
// It writes the error response itself; callers bail out when ok is false.
func resolveShopper(mgr *shopper.Manager, logg *logger.Logger, w http.ResponseWriter, r *http.Request) (*shopper.Shopper, bool) {
	if mgr == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session manager unavailable"))
		return nil, false
	}

	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
		return nil, false
	}

	s, err := mgr.ForSession(r.Context(), sessionID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving shopper session"))
		return nil, false
	}
	return s, true
}
