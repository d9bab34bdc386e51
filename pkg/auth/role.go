package auth

// Role is the closed set of account roles. Anything outside the set is
// rejected at parse time so downstream code never branches on free text.
type Role string

const (
	RoleStudent Role = "Student"
	RoleAdmin   Role = "Admin"
)

// ParseRole maps a stored or submitted string onto a known Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// IsAdmin reports whether the role grants admin-only operations.
func (r Role) IsAdmin() bool { return r == RoleAdmin }
