package domain

// Caller is the verified identity carried by an access token.
type Caller struct {
	UserID string
	Email  string
	Role   Role
}

// IsAdmin reports whether the caller holds the ADMIN role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
