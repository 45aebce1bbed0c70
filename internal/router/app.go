package router

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/MollahHamza/TRASHCANPRO/internal/config"
	"github.com/MollahHamza/TRASHCANPRO/internal/handler"
	"github.com/MollahHamza/TRASHCANPRO/internal/logger"
	"github.com/MollahHamza/TRASHCANPRO/internal/middleware"
	"github.com/MollahHamza/TRASHCANPRO/internal/repository"
	queue_publisher "github.com/MollahHamza/TRASHCANPRO/internal/service"
	"github.com/MollahHamza/TRASHCANPRO/internal/store"
)

// App carries everything the HTTP surface needs.  Redis may be nil, in
// which case rate limiting and caching are skipped.
type App struct {
	Cfg       config.Config
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig

	Users     *store.CredentialStore
	Reports   *store.ReportStore
	Sessions  repository.SessionRepository
	Publisher queue_publisher.Publisher
	Redis     *redis.Client
}

// MaxUploadBytes bounds request bodies, which in practice means images.
const MaxUploadBytes = "20M"

// New builds the Echo instance with every route registered.
func New(app App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = JSONSerializer{}

	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(MaxUploadBytes))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warningf("%s %s -> %d (%s): %v", v.Method, v.URI, v.Status, v.Latency.Round(time.Microsecond), v.Error)
				return nil
			}
			logger.Debugf("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency.Round(time.Microsecond))
			return nil
		},
	}))

	RegisterRoutes(e, app.Reports.ImageDir())
	RegisterAuth(e, handler.NewAuthHandler(app.Cfg, app.Users, app.Sessions), app.Cfg.JWTSecret)

	rh := handler.NewReportHandler(app.Reports, app.Publisher)
	routes := ReportRoutes{
		Reports: rh,
		Map:     &handler.MapHandler{Reports: app.Reports},
		Stats:   &handler.StatsHandler{Users: app.Users, Reports: app.Reports},
		Rewards: &handler.RewardsHandler{Users: app.Users},
	}
	if app.Redis != nil {
		routes.UploadLimit = middleware.NewTokenBucket(app.RateLimit, app.Redis)
		routes.MarkerCache = middleware.NewRedisCache(app.Cache, app.Redis)
		if app.Cache.Enabled {
			rdb, prefix := app.Redis, app.Cache.Prefix
			rh.OnSubmitted = func(ctx context.Context) {
				if err := middleware.InvalidatePrefix(ctx, rdb, prefix); err != nil {
					logger.Warningf("cache: invalidate %s: %v", prefix, err)
				}
			}
		}
	}
	RegisterReports(e, routes, app.Cfg.JWTSecret)
	RegisterAdmin(e, &handler.AdminHandler{Users: app.Users}, app.Cfg.JWTSecret)
	return e
}
