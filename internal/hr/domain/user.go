package domain

import "strings"

// Roles, ordered superadmin > admin > membre.
const (
	RoleSuperadmin = "superadmin"
	RoleAdmin      = "admin"
	RoleMembre     = "membre"
)

var roleRank = map[string]int{
	RoleSuperadmin: 3,
	RoleAdmin:      2,
	RoleMembre:     1,
}

// RoleRank returns the position of a role in the hierarchy, 0 for
// unknown roles.
func RoleRank(role string) int {
	return roleRank[role]
}

// ValidRole reports whether the role name is one of the three known roles.
func ValidRole(role string) bool {
	return roleRank[role] != 0
}

// User is an application account. Password holds a bcrypt hash for
// accounts created by this backend; blobs imported from the legacy
// application may still carry plaintext values (see service.AuthService).
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// Sanitized returns a copy safe to send to clients.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// NormalizeSexe maps free-text CSV values onto the three canonical
// sexe values. Unrecognized input becomes N/A.
func NormalizeSexe(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "femme", "f", "féminin":
		return SexeFemme
	case "homme", "h", "m", "masculin", "mascilin":
		return SexeHomme
	default:
		return SexeNA
	}
}
