package entity

// Role is the authorization level of a user.
// Extend with new constants rather than free-form strings.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid checks if the role is a known value
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r Role) String() string { return string(r) }
