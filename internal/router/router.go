package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/MollahHamza/TRASHCANPRO/internal/handler"    // HTTP handlers
	"github.com/MollahHamza/TRASHCANPRO/internal/middleware" // JWT authentication and role enforcement
	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

// RegisterRoutes registers routes that do not require authentication: the
// health check and the uploaded images under /images.
func RegisterRoutes(e *echo.Echo, imageDir string) {
	e.GET("/healthz", handler.Health)
	if imageDir != "" {
		e.Static("/images", imageDir)
	}
}

// RegisterAuth registers all authentication-related routes.  Token
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Logout does not require JWTAuth: the handler accepts either a bearer
	// token (ends every session) or a refresh_token body (ends one).
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleAdmin, model.RoleStandard))
	auth.GET("/me", a.Me)
}

// RegisterAdmin registers account management routes.  All routes require
// a valid JWT and the admin role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/users", h.ListUsers)
	g.POST("/users", h.CreateUser)
	g.GET("/logs", h.Logs)
}
