package middleware

import (
	"net/http"

	"github.com/neevdiamonds/storefront-backend/api/responses"
	"github.com/neevdiamonds/storefront-backend/pkg/auth/adminsession"
	"github.com/neevdiamonds/storefront-backend/pkg/config"
	pkgerrors "github.com/neevdiamonds/storefront-backend/pkg/errors"
	"github.com/neevdiamonds/storefront-backend/pkg/logger"
)

// RequireAdmin gates the dashboard routes behind a valid admin session
// cookie.
func RequireAdmin(sessions *adminsession.Manager, cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.AdminCookieName)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "admin login required"))
				return
			}
			if err := sessions.Verify(cookie.Value); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "admin session invalid or expired"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
