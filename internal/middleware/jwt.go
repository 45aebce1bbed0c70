package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/MollahHamza/TRASHCANPRO/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the session it carries into the request context.  The provided
// secret must match the one used when issuing tokens.  Handlers read the
// caller with SessionFrom(c); "user_id" and "role" are also set for the
// rate limiter and RequireRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header is "Bearer <jwt>".
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			sess, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(sessionKey, sess)
			c.Set("user_id", sess.Username)
			c.Set("role", sess.Role)
			return next(c)
		}
	}
}
