// Package handler wires the HTTP surface of the HR service.
package handler

import (
	"net/http"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/pkg/httputil"
)

// actor rebuilds the acting user from the request context set by the
// auth middleware.
func actor(r *http.Request) domain.User {
	ctx := r.Context()
	return domain.User{
		Email: httputil.GetUserEmail(ctx),
		Name:  httputil.GetUserName(ctx),
		Role:  httputil.GetUserRole(ctx),
	}
}
