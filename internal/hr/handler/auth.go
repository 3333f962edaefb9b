package handler

import (
	"net/http"

	"github.com/rh-insights/rh-insights-backend/internal/hr/service"
	"github.com/rh-insights/rh-insights-backend/pkg/httputil"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// AuthHandler handles login, logout and first-run bootstrap.
type AuthHandler struct {
	service *service.AuthService
	logger  *logger.Logger
}

func NewAuthHandler(svc *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: log}
}

// Login authenticates with email and password and returns a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// Logout ends the session. Tokens are stateless so this is a no-op on
// the server, the client drops its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	httputil.NoContent(w)
}

// Me returns the authenticated user's identity.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, actor(r))
}

// Bootstrap creates the first superadmin account on an empty install.
func (h *AuthHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	var req service.BootstrapRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	resp, err := h.service.Bootstrap(&req)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.Created(w, resp)
}

// HasUsers tells the login screen whether to offer bootstrap.
func (h *AuthHandler) HasUsers(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]bool{"hasUsers": h.service.HasUsers()})
}
