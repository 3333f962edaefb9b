package service

import (
	"crypto/subtle"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/rh-insights/rh-insights-backend/internal/hr/auth"
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// AuthService handles login, logout and first-run provisioning.
type AuthService struct {
	store      *store.Store
	jwtManager *auth.Manager
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(st *store.Store, jwtManager *auth.Manager, log *logger.Logger) *AuthService {
	return &AuthService{
		store:      st,
		jwtManager: jwtManager,
		logger:     log.WithComponent("auth"),
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

// BootstrapRequest creates the first superadmin account. Only valid
// while the user list is empty.
type BootstrapRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Login authenticates a user and returns a token. The legacy
// application stored passwords in clear text; blobs imported from it
// are accepted through a constant-time plaintext comparison and the
// record is upgraded to a bcrypt hash on the spot.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	var user *domain.User
	upgraded := false

	err := s.store.Update(func(snap *domain.Snapshot) error {
		for i := range snap.Users {
			if snap.Users[i].Email != req.Email {
				continue
			}
			if !checkPassword(snap.Users[i].Password, req.Password) {
				return errors.InvalidCredentials()
			}
			if !isBcryptHash(snap.Users[i].Password) {
				if hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost); err == nil {
					snap.Users[i].Password = string(hash)
					upgraded = true
				}
			}
			u := snap.Users[i]
			user = &u
			return nil
		}
		return errors.InvalidCredentials()
	})
	if err != nil {
		return nil, err
	}

	if upgraded {
		s.logger.Info().Str("user", user.Email).Msg("legacy plaintext password upgraded to bcrypt hash")
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, errors.Internal("failed to generate token")
	}

	return &LoginResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User:        user.Sanitized(),
	}, nil
}

// Bootstrap provisions the first superadmin. Refused once any user
// exists.
func (s *AuthService) Bootstrap(req *BootstrapRequest) (*LoginResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	user := domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     domain.RoleSuperadmin,
		Password: string(hash),
	}

	err = s.store.Update(func(snap *domain.Snapshot) error {
		if len(snap.Users) > 0 {
			return errors.ConflictWithKey("errors.users_exist")
		}
		snap.Users = append(snap.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", user.Email).Msg("initial superadmin created")

	token, err := s.jwtManager.Generate(&user)
	if err != nil {
		return nil, errors.Internal("failed to generate token")
	}

	return &LoginResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User:        user.Sanitized(),
	}, nil
}

// HasUsers reports whether any account exists, so the SPA can decide
// between the login form and the first-run setup form.
func (s *AuthService) HasUsers() bool {
	has := false
	s.store.View(func(snap *domain.Snapshot) {
		has = len(snap.Users) > 0
	})
	return has
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

func checkPassword(stored, supplied string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	// Legacy plaintext comparison, constant time.
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
