package models

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// CanSeeMargins reports whether selling prices and margins may be shown.
func (r UserRole) CanSeeMargins() bool {
	return r != RoleUser
}

// Actor is the authenticated caller, taken from the bearer token.
type Actor struct {
	UserID   string
	UserName string
	Role     UserRole
}
