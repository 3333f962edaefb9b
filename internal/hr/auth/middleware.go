package auth

import (
	"net/http"
	"strings"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
	"github.com/rh-insights/rh-insights-backend/pkg/httputil"
	"github.com/rh-insights/rh-insights-backend/pkg/i18n"
)

// Middleware authenticates requests with a Bearer token and resolves
// the claims against the live user list, so a deleted account (or a
// delete-all reset) invalidates every outstanding token immediately.
func Middleware(manager *Manager, st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, r)
				return
			}

			claims, err := manager.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				httputil.ErrorLocalized(w, r, err)
				return
			}

			var current *domain.User
			st.View(func(snap *domain.Snapshot) {
				for i := range snap.Users {
					if snap.Users[i].Email == claims.Email {
						u := snap.Users[i]
						current = &u
						return
					}
				}
			})
			if current == nil {
				unauthorized(w, r)
				return
			}

			// The live role wins over the one baked into the token.
			ctx := httputil.WithUserContext(r.Context(), current.Email, current.Name, current.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireManager rejects requests from membre accounts. Personnel and
// position writes, movements, settings and the blob overwrite all sit
// behind this gate.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := httputil.GetUserRole(r.Context())
		if role != domain.RoleSuperadmin && role != domain.RoleAdmin {
			httputil.ErrorLocalized(w, r, errors.Forbidden("insufficient role"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	localizer := i18n.LocalizerFromContext(r.Context())
	httputil.ErrorLocalized(w, r, errors.Unauthorized(localizer.T("errors.unauthorized")))
}
