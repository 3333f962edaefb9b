package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

func TestLogin_Success(t *testing.T) {
	st := newStore(t)
	seedUser(t, st, domain.User{
		Name:     "Root",
		Email:    "root@example.com",
		Role:     domain.RoleSuperadmin,
		Password: mustHash(t, "secret123"),
	})
	svc := NewAuthService(st, newJWTManager(), logger.Nop())

	resp, err := svc.Login(&LoginRequest{Email: "root@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, domain.RoleSuperadmin, resp.User.Role)
	assert.Empty(t, resp.User.Password, "password never leaves the service")
}

func TestLogin_WrongPassword(t *testing.T) {
	st := newStore(t)
	seedUser(t, st, domain.User{
		Email:    "root@example.com",
		Password: mustHash(t, "secret123"),
	})
	svc := NewAuthService(st, newJWTManager(), logger.Nop())

	_, err := svc.Login(&LoginRequest{Email: "root@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	st := newStore(t)
	svc := NewAuthService(st, newJWTManager(), logger.Nop())

	_, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestLogin_UpgradesLegacyPlaintextPassword(t *testing.T) {
	st := newStore(t)
	seedUser(t, st, domain.User{
		Email:    "legacy@example.com",
		Role:     domain.RoleMembre,
		Password: "motdepasse",
	})
	svc := NewAuthService(st, newJWTManager(), logger.Nop())

	_, err := svc.Login(&LoginRequest{Email: "legacy@example.com", Password: "motdepasse"})
	require.NoError(t, err)

	var stored string
	st.View(func(snap *domain.Snapshot) { stored = snap.Users[0].Password })
	assert.True(t, strings.HasPrefix(stored, "$2"), "plaintext must be rehashed after login")

	// Second login works against the new hash.
	_, err = svc.Login(&LoginRequest{Email: "legacy@example.com", Password: "motdepasse"})
	assert.NoError(t, err)
}

func TestBootstrap_CreatesFirstSuperadmin(t *testing.T) {
	st := newStore(t)
	svc := NewAuthService(st, newJWTManager(), logger.Nop())
	require.False(t, svc.HasUsers())

	resp, err := svc.Bootstrap(&BootstrapRequest{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperadmin, resp.User.Role)
	assert.True(t, svc.HasUsers())
}

func TestBootstrap_RefusedWhenUsersExist(t *testing.T) {
	st := newStore(t)
	seedUser(t, st, domain.User{Email: "root@example.com"})
	svc := NewAuthService(st, newJWTManager(), logger.Nop())

	_, err := svc.Bootstrap(&BootstrapRequest{
		Name:     "Intruder",
		Email:    "intruder@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, errors.ErrConflict)
}
