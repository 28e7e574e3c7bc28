package controllers

import (
	"net/http"

	"github.com/aromaten/aromaten-backend/api/middleware"
	"github.com/aromaten/aromaten-backend/api/responses"
	"github.com/aromaten/aromaten-backend/api/validators"
	"github.com/aromaten/aromaten-backend/internal/auth"
	"github.com/aromaten/aromaten-backend/pkg/config"
	pkgerrors "github.com/aromaten/aromaten-backend/pkg/errors"
	"github.com/aromaten/aromaten-backend/pkg/logger"
	"github.com/aromaten/aromaten-backend/pkg/types"
)

// AuthLogin exchanges admin credentials for a session token. The token is
// returned in the body and mirrored into the admin cookie for browser clients.
func AuthLogin(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    result.Token,
			Path:     "/",
			MaxAge:   int(cfg.AccessTokenTTL().Seconds()),
			HttpOnly: true,
			Secure:   cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		responses.WriteSuccess(w, result)
	}
}

// AuthLogout revokes the current session and clears the admin cookie.
func AuthLogout(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cfg.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cfg.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		})

		responses.WriteSuccess(w, types.Status("logged_out"))
	}
}
