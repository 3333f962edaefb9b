package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rh-insights/rh-insights-backend/internal/hr/auth"
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/handler"
	"github.com/rh-insights/rh-insights-backend/internal/hr/service"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/config"
	"github.com/rh-insights/rh-insights-backend/pkg/i18n"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

type nullPersister struct{}

func (nullPersister) Load(context.Context) (domain.Snapshot, bool, error) {
	return domain.Empty(), false, nil
}

func (nullPersister) Save(context.Context, domain.Snapshot) error { return nil }

// testApp wires a minimal copy of the real router.
type testApp struct {
	router *chi.Mux
	store  *store.Store
	jwt    *auth.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	log := logger.Nop()
	st := store.New(nullPersister{}, time.Hour, log)
	jwtManager := auth.NewManager(&config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: time.Hour,
		Issuer:       "test",
	})

	authHandler := handler.NewAuthHandler(service.NewAuthService(st, jwtManager, log), log)
	employeeHandler := handler.NewEmployeeHandler(service.NewEmployeeService(st, log), log)
	userHandler := handler.NewUserHandler(service.NewUserService(st, log), log)
	movementHandler := handler.NewMovementHandler(service.NewMovementService(st, log), log)
	reportHandler := handler.NewReportHandler(service.NewReportService(st, log), log)
	dataHandler := handler.NewDataHandler(st, log)

	r := chi.NewRouter()
	r.Use(i18n.Middleware)
	r.Get("/health", handler.Health)
	r.Post("/api/v1/auth/login", authHandler.Login)
	r.Post("/api/v1/auth/bootstrap", authHandler.Bootstrap)
	r.Get("/api/v1/auth/has-users", authHandler.HasUsers)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(jwtManager, st))
		r.Get("/api/v1/auth/me", authHandler.Me)
		r.Get("/api/v1/employees", employeeHandler.List)
		r.Get("/api/v1/dashboard", reportHandler.Dashboard)
		r.Get("/api/v1/data", dataHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireManager)
			r.Post("/api/v1/employees", employeeHandler.Create)
			r.Post("/api/v1/movements/salary", movementHandler.RecordSalary)
			r.Get("/api/v1/movements-export", movementHandler.ExportCSV)
			r.Get("/api/v1/users", userHandler.List)
		})
	})

	return &testApp{router: r, store: st, jwt: jwtManager}
}

func (a *testApp) seedUser(t *testing.T, name, email, role, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, a.store.Update(func(snap *domain.Snapshot) error {
		snap.Users = append(snap.Users, domain.User{
			Name: name, Email: email, Role: role, Password: string(hash),
		})
		return nil
	}))
}

func (a *testApp) token(t *testing.T, email, name, role string) string {
	t.Helper()
	tok, err := a.jwt.Generate(&domain.User{Email: email, Name: name, Role: role})
	require.NoError(t, err)
	return tok.AccessToken
}

func (a *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)
	rec := app.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Root", "root@example.com", domain.RoleSuperadmin, "secret123")

	rec := app.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "root@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string      `json:"access_token"`
		User        domain.User `json:"user"`
	}
	decodeData(t, rec, &resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, domain.RoleSuperadmin, resp.User.Role)

	// The issued token opens the protected surface.
	me := app.request(t, http.MethodGet, "/api/v1/auth/me", resp.AccessToken, nil)
	assert.Equal(t, http.StatusOK, me.Code)
}

func TestLogin_BadPasswordLocalizedFrench(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Root", "root@example.com", domain.RoleSuperadmin, "secret123")

	rec := app.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "root@example.com", "password": "faux",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "incorrect")
}

func TestProtectedRoute_RequiresToken(t *testing.T) {
	app := newTestApp(t)
	rec := app.request(t, http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeletedUserTokenRejected(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Root", "root@example.com", domain.RoleSuperadmin, "secret123")
	token := app.token(t, "root@example.com", "Root", domain.RoleSuperadmin)

	// Token works while the account exists.
	rec := app.request(t, http.MethodGet, "/api/v1/employees", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Wiping the accounts invalidates it immediately.
	require.NoError(t, app.store.Update(func(snap *domain.Snapshot) error {
		snap.Users = []domain.User{}
		return nil
	}))
	rec = app.request(t, http.MethodGet, "/api/v1/employees", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMembreBlockedFromWrites(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Membre", "membre@example.com", domain.RoleMembre, "secret123")
	token := app.token(t, "membre@example.com", "Membre", domain.RoleMembre)

	// Reads are allowed.
	rec := app.request(t, http.MethodGet, "/api/v1/employees", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Writes are not.
	rec = app.request(t, http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"matricule": "M001", "noms": "X", "poste": "Y",
		"dateEmbauche": "01/01/2024", "status": "Actif",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLiveRoleWinsOverTokenRole(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Demoted", "demoted@example.com", domain.RoleMembre, "secret123")
	// Token still claims admin.
	token := app.token(t, "demoted@example.com", "Demoted", domain.RoleAdmin)

	rec := app.request(t, http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"matricule": "M001", "noms": "X", "poste": "Y",
		"dateEmbauche": "01/01/2024", "status": "Actif",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEmployeeCreateAndList(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin, "secret123")
	token := app.token(t, "admin@example.com", "Admin", domain.RoleAdmin)

	rec := app.request(t, http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"matricule":    "M001",
		"noms":         "KOUAM Jean",
		"poste":        "Comptable",
		"sexe":         "homme",
		"salaire":      500000,
		"dateEmbauche": "15/01/2024",
		"status":       "Actif",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.request(t, http.MethodGet, "/api/v1/employees", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var employees []domain.Employee
	decodeData(t, rec, &employees)
	require.Len(t, employees, 1)
	assert.Equal(t, "Homme", employees[0].Sexe)
}

func TestEmployeeCreate_ValidationFailure(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin, "secret123")
	token := app.token(t, "admin@example.com", "Admin", domain.RoleAdmin)

	rec := app.request(t, http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"matricule": "M001",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMovementExportCSV(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin, "secret123")
	token := app.token(t, "admin@example.com", "Admin", domain.RoleAdmin)

	rec := app.request(t, http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"matricule": "M001", "noms": "KOUAM Jean", "poste": "Comptable",
		"salaire": 500000, "dateEmbauche": "15/01/2024", "status": "Actif",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = app.request(t, http.MethodPost, "/api/v1/movements/salary", token, map[string]interface{}{
		"matricule": "M001", "nouvelleValeur": 550000, "motif": "Augmentation", "date": "01/06/2024",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.request(t, http.MethodGet, "/api/v1/movements-export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Changement de Salaire")
}

func TestDataEndpointStripsSession(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Root", "root@example.com", domain.RoleSuperadmin, "secret123")
	token := app.token(t, "root@example.com", "Root", domain.RoleSuperadmin)

	rec := app.request(t, http.MethodGet, "/api/v1/data", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap map[string]json.RawMessage
	decodeData(t, rec, &snap)
	assert.Equal(t, "null", string(snap["currentUser"]))

	// Passwords stay in the blob: the export is a full backup.
	var users []domain.User
	require.NoError(t, json.Unmarshal(snap["users"], &users))
	require.Len(t, users, 1)
	assert.NotEmpty(t, users[0].Password)
}

func TestDashboardEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Root", "root@example.com", domain.RoleSuperadmin, "secret123")
	token := app.token(t, "root@example.com", "Root", domain.RoleSuperadmin)

	require.NoError(t, app.store.Update(func(snap *domain.Snapshot) error {
		snap.Employees = append(snap.Employees, domain.Employee{
			Matricule: "M001", Noms: "X", Status: domain.StatusActif, DateEmbauche: "01/01/2020",
		})
		return nil
	}))

	rec := app.request(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dash struct {
		TotalActive int `json:"totalActive"`
	}
	decodeData(t, rec, &dash)
	assert.Equal(t, 1, dash.TotalActive)
}

func TestUsersEndpoint_AdminVisibility(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "Root", "root@example.com", domain.RoleSuperadmin, "secret123")
	app.seedUser(t, "Admin", "admin@example.com", domain.RoleAdmin, "secret123")
	token := app.token(t, "admin@example.com", "Admin", domain.RoleAdmin)

	rec := app.request(t, http.MethodGet, "/api/v1/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []domain.User
	decodeData(t, rec, &users)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@example.com", users[0].Email)
}

func TestBootstrapThenHasUsers(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodGet, "/api/v1/auth/has-users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hasUsers":false`)

	rec = app.request(t, http.MethodPost, "/api/v1/auth/bootstrap", "", map[string]string{
		"name": "Root", "email": "root@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.request(t, http.MethodPost, "/api/v1/auth/bootstrap", "", map[string]string{
		"name": "Again", "email": "again@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
