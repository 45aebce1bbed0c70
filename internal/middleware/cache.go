package middleware

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/MollahHamza/TRASHCANPRO/internal/config"
	"github.com/MollahHamza/TRASHCANPRO/internal/logger"
)

// captureWriter copies up to limit bytes of the response body while
// forwarding everything to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if room := cw.limit - cw.size; cw.limit <= 0 || int64(len(b)) <= room {
		cw.buf.Write(b)
	} else if room > 0 {
		cw.buf.Write(b[:room])
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// truncated reports whether the body outgrew the capture limit.
func (cw *captureWriter) truncated() bool {
	return cw.limit > 0 && cw.size > cw.limit
}

// cachedMarkers is what a marker response looks like in Redis.
type cachedMarkers struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// markerCacheKey keys an entry by route and the waste type filter, the only
// query parameter the marker endpoint reads.
func markerCacheKey(prefix string, c echo.Context) string {
	typ := c.QueryParam("type")
	if typ == "" {
		typ = "*all"
	}
	return prefix + ":" + c.Path() + ":type=" + typ
}

// NewRedisCache caches 200 responses of the marker endpoint in Redis.  A
// response over cfg.MaxBodyBytes reaches the client but is not stored.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := markerCacheKey(cfg.Prefix, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var hit cachedMarkers
				if err := json.Unmarshal(raw, &hit); err == nil {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(http.StatusOK, hit.ContentType, hit.Body)
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated() {
				return nil
			}

			raw, err := json.Marshal(cachedMarkers{
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        cw.buf.Bytes(),
			})
			if err == nil {
				err = rdb.SetEx(context.Background(), key, raw, ttl).Err()
			}
			if err != nil {
				logger.Warningf("cache: store %s: %v", key, err)
			}
			return nil
		}
	}
}

// InvalidatePrefix drops every cached entry under prefix.  Called after a
// report is stored so the map shows it without waiting for the TTL.
func InvalidatePrefix(ctx context.Context, rdb *redis.Client, prefix string) error {
	if rdb == nil {
		return nil
	}
	iter := rdb.Scan(ctx, 0, prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	logger.Debugf("cache: dropped %d entries under %s", len(keys), prefix)
	return nil
}
