package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rh-insights/rh-insights-backend/internal/hr/access"
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/errors"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// UserService manages application accounts and enforces the role
// hierarchy rules between superadmins, admins and members.
type UserService struct {
	store  *store.Store
	logger *logger.Logger
}

func NewUserService(st *store.Store, log *logger.Logger) *UserService {
	return &UserService{
		store:  st,
		logger: log.WithComponent("user-service"),
	}
}

// CreateUserRequest carries the fields needed to provision an account.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"required"`
}

// UpdateUserRequest carries a partial account update. The password is
// only re-hashed when a new one is supplied.
type UpdateUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=4"`
	Role     string `json:"role" validate:"required"`
}

// List returns the accounts visible to the acting user, passwords
// stripped. Admins never see superadmin accounts.
func (s *UserService) List(ctx context.Context, actor domain.User) ([]domain.User, error) {
	if !access.CanManageUsers(actor.Role) {
		return nil, errors.Forbidden("insufficient permissions")
	}
	var out []domain.User
	s.store.View(func(snap *domain.Snapshot) {
		for _, u := range access.VisibleUsers(&actor, snap.Users) {
			out = append(out, u.Sanitized())
		}
	})
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

// Create provisions a new account. Only superadmins may hand out the
// admin and superadmin roles.
func (s *UserService) Create(ctx context.Context, actor domain.User, req CreateUserRequest) (*domain.User, error) {
	if !access.CanManageUsers(actor.Role) {
		return nil, errors.Forbidden("insufficient permissions")
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !domain.ValidRole(role) {
		return nil, errors.NewWithKey("BAD_REQUEST", "errors.invalid_role", 400)
	}
	if !access.CanAssignRole(actor.Role, role) {
		return nil, errors.Forbidden("insufficient permissions")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	user := domain.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Role:     role,
		Password: string(hash),
	}

	err = s.store.Update(func(snap *domain.Snapshot) error {
		for _, u := range snap.Users {
			if strings.EqualFold(u.Email, email) {
				return errors.ConflictWithKey("errors.duplicate_email")
			}
		}
		snap.Users = append(snap.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", email).Str("role", role).Msg("user created")
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Update edits an existing account identified by email. The rules: a
// superadmin can edit anyone but themselves, an admin can only edit
// members, and role escalation stays gated by CanAssignRole.
func (s *UserService) Update(ctx context.Context, actor domain.User, email string, req UpdateUserRequest) (*domain.User, error) {
	if !access.CanManageUsers(actor.Role) {
		return nil, errors.Forbidden("insufficient permissions")
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !domain.ValidRole(role) {
		return nil, errors.NewWithKey("BAD_REQUEST", "errors.invalid_role", 400)
	}
	newEmail := strings.ToLower(strings.TrimSpace(req.Email))

	var hash string
	if req.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Internal("failed to hash password")
		}
		hash = string(h)
	}

	var updated domain.User
	err := s.store.Update(func(snap *domain.Snapshot) error {
		idx := -1
		for i, u := range snap.Users {
			if strings.EqualFold(u.Email, email) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errors.NotFound("user")
		}
		target := snap.Users[idx]
		if strings.EqualFold(actor.Email, target.Email) {
			return errors.ForbiddenWithKey("errors.cannot_edit_self")
		}
		if !access.CanEditUser(&actor, &target) {
			return errors.ForbiddenWithKey("errors.cannot_edit_user")
		}
		if role != target.Role && !access.CanAssignRole(actor.Role, role) {
			return errors.Forbidden("insufficient permissions")
		}
		if !strings.EqualFold(newEmail, target.Email) {
			for i, u := range snap.Users {
				if i != idx && strings.EqualFold(u.Email, newEmail) {
					return errors.ConflictWithKey("errors.duplicate_email")
				}
			}
		}

		target.Name = strings.TrimSpace(req.Name)
		target.Email = newEmail
		target.Role = role
		if hash != "" {
			target.Password = hash
		}
		snap.Users[idx] = target
		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", updated.Email).Msg("user updated")
	sanitized := updated.Sanitized()
	return &sanitized, nil
}

// Delete removes an account. Removing the last superadmin is refused
// so the system can never lock itself out.
func (s *UserService) Delete(ctx context.Context, actor domain.User, email string) error {
	if !access.CanManageUsers(actor.Role) {
		return errors.Forbidden("insufficient permissions")
	}
	err := s.store.Update(func(snap *domain.Snapshot) error {
		idx := -1
		for i, u := range snap.Users {
			if strings.EqualFold(u.Email, email) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errors.NotFound("user")
		}
		target := snap.Users[idx]
		if strings.EqualFold(actor.Email, target.Email) {
			return errors.ForbiddenWithKey("errors.cannot_edit_self")
		}
		if !access.CanEditUser(&actor, &target) {
			return errors.ForbiddenWithKey("errors.cannot_edit_user")
		}
		if !access.CanDeleteUser(&target, snap.Users) {
			return errors.ForbiddenWithKey("errors.last_superadmin")
		}
		snap.Users = append(snap.Users[:idx], snap.Users[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info().Str("email", email).Msg("user deleted")
	return nil
}

// DeleteAll wipes every account, forcing the first-run bootstrap flow
// again. Superadmin only.
func (s *UserService) DeleteAll(ctx context.Context, actor domain.User) error {
	if actor.Role != domain.RoleSuperadmin {
		return errors.Forbidden("insufficient permissions")
	}
	err := s.store.Update(func(snap *domain.Snapshot) error {
		snap.Users = []domain.User{}
		snap.CurrentUser = nil
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Warn().Str("actor", actor.Email).Msg("all users deleted")
	return nil
}
