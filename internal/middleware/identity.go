package middleware

// identity.go holds the helpers that read the authenticated caller back out
// of the Echo context.

import (
	"github.com/labstack/echo/v4"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

const sessionKey = "session"

// SessionFrom returns the session stored by JWTAuth.  ok is false on routes
// that are not behind JWTAuth.
func SessionFrom(c echo.Context) (model.Session, bool) {
	s, ok := c.Get(sessionKey).(model.Session)
	return s, ok && s.Username != ""
}

// WithSession stores s the way JWTAuth does.  Used by tests and by
// handlers that authenticate a caller inline.
func WithSession(c echo.Context, s model.Session) {
	c.Set(sessionKey, s)
	c.Set("user_id", s.Username)
	c.Set("role", s.Role)
}

// currentUserID returns the username of the caller, or "anon".
func currentUserID(c echo.Context) string {
	if s, ok := SessionFrom(c); ok {
		return s.Username
	}
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v
	}
	return "anon"
}
