package model

// Session is the authenticated context of a caller.  It is produced by a
// successful credential check, carried inside the access token and placed
// on the request context by the JWT middleware.
type Session struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the session belongs to an admin account.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }
