// Package access implements the role rules gating user management and
// personnel operations. Roles form a total order:
// superadmin > admin > membre.
package access

import (
	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
)

// CanManagePersonnel reports whether the actor may add, import, edit
// or delete employees and positions. membre is read-only.
func CanManagePersonnel(role string) bool {
	return role == domain.RoleSuperadmin || role == domain.RoleAdmin
}

// CanManageUsers reports whether the actor may open the admin panel at
// all.
func CanManageUsers(role string) bool {
	return role == domain.RoleSuperadmin || role == domain.RoleAdmin
}

// VisibleUsers filters the user list for the actor. An admin never
// sees superadmin accounts; a superadmin sees everyone.
func VisibleUsers(actor *domain.User, users []domain.User) []domain.User {
	if actor == nil || !CanManageUsers(actor.Role) {
		return []domain.User{}
	}

	out := []domain.User{}
	for _, u := range users {
		if actor.Role == domain.RoleAdmin && u.Role == domain.RoleSuperadmin {
			continue
		}
		out = append(out, u)
	}
	return out
}

// CanEditUser reports whether the actor may edit the target account
// through the admin panel. A superadmin may edit anyone, an admin only
// membre accounts, and nobody edits their own account here.
func CanEditUser(actor, target *domain.User) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.Email == target.Email {
		return false
	}
	switch actor.Role {
	case domain.RoleSuperadmin:
		return true
	case domain.RoleAdmin:
		return target.Role == domain.RoleMembre
	}
	return false
}

// CanAssignRole reports whether the actor may grant the given role.
// Only a superadmin hands out admin or superadmin.
func CanAssignRole(actorRole, role string) bool {
	if !CanManageUsers(actorRole) || !domain.ValidRole(role) {
		return false
	}
	if role == domain.RoleMembre {
		return true
	}
	return actorRole == domain.RoleSuperadmin
}

// CanDeleteUser checks the delete-protection rule: removing the sole
// remaining superadmin is refused. The destructive delete-all bulk
// operation is the only path past this rule.
func CanDeleteUser(target *domain.User, users []domain.User) bool {
	if target == nil {
		return false
	}
	if target.Role != domain.RoleSuperadmin {
		return true
	}
	remaining := 0
	for _, u := range users {
		if u.Role == domain.RoleSuperadmin {
			remaining++
		}
	}
	return remaining > 1
}
