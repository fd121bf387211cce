package controllers

import (
	"net/http"

	"github.com/neevdiamonds/storefront-backend/api/responses"
	"github.com/neevdiamonds/storefront-backend/api/validators"
	adminsvc "github.com/neevdiamonds/storefront-backend/internal/adminauth"
	"github.com/neevdiamonds/storefront-backend/pkg/auth/adminsession"
	"github.com/neevdiamonds/storefront-backend/pkg/config"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

func setAdminCookie(w http.ResponseWriter, cfg config.SessionConfig, sessions *adminsession.Manager, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.AdminCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearAdminCookie(w http.ResponseWriter, cfg config.SessionConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

type adminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

type adminLoginResponse struct {
	LoggedIn bool             `json:"logged_in"`
	Status   *adminsvc.Status `json:"status"`
}

// AdminLogin checks the dashboard password, subject to the lockout
// window, and sets the admin session cookie on success.
func AdminLogin(svc adminsvc.Service, sessions *adminsession.Manager, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload adminLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, status, err := svc.Login(r.Context(), payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setAdminCookie(w, cfg, sessions, token)
		responses.WriteSuccess(w, adminLoginResponse{LoggedIn: true, Status: status})
	}
}

// AdminLogout clears the admin session cookie.
func AdminLogout(cfg config.SessionConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clearAdminCookie(w, cfg)
		responses.WriteSuccess(w, map[string]bool{"logged_in": false})
	}
}

// AdminStatus exposes the lockout state to the login page.
func AdminStatus(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.Status(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=4"`
}

// AdminChangePassword rotates the dashboard password.
func AdminChangePassword(svc adminsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload changePasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangePassword(r.Context(), payload.CurrentPassword, payload.NewPassword); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"changed": true})
	}
}
