package router

import (
	"github.com/labstack/echo/v4"

	"github.com/MollahHamza/TRASHCANPRO/internal/handler"
	"github.com/MollahHamza/TRASHCANPRO/internal/middleware"
	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

// ReportRoutes groups the handlers and extra middleware of the report
// endpoints.  Nil middleware is skipped.
type ReportRoutes struct {
	Reports *handler.ReportHandler
	Map     *handler.MapHandler
	Stats   *handler.StatsHandler
	Rewards *handler.RewardsHandler

	UploadLimit echo.MiddlewareFunc // token bucket in front of POST /v1/reports
	MarkerCache echo.MiddlewareFunc // response cache in front of GET /v1/map/markers
}

// RegisterReports registers the report, map, stats and rewards endpoints.
// All routes require a valid JWT with either role.
func RegisterReports(e *echo.Echo, r ReportRoutes, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleStandard),
	)

	g.POST("/reports", r.Reports.Submit, optional(r.UploadLimit)...)
	g.GET("/reports", r.Reports.List)
	g.GET("/map/markers", r.Map.Markers, optional(r.MarkerCache)...)
	g.GET("/stats", r.Stats.Get)

	g.GET("/rewards", r.Rewards.List)
	g.POST("/rewards/redeem", r.Rewards.Redeem)
	g.GET("/challenges", r.Rewards.Challenges)
	g.POST("/challenges/join", r.Rewards.Join)
}

func optional(mw echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if mw == nil {
		return nil
	}
	return []echo.MiddlewareFunc{mw}
}
