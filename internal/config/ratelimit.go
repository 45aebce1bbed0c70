package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig parameterizes the Redis token bucket that guards report
// uploads.  Every user has one bucket; each accepted upload costs one token
// and RefillTokens are added every RefillInterval up to Capacity.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
	Debug          bool
}

func LoadRateLimitConfig() RateLimitConfig {
	loadDotenv()
	def := RateLimitConfig{
		Enabled:        envBool("UPLOAD_RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("UPLOAD_RATE_LIMIT_CAPACITY", 10),
		RefillTokens:   envInt("UPLOAD_RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("UPLOAD_RATE_LIMIT_REFILL_INTERVAL", 30*time.Second),
		TTL:            envDur("UPLOAD_RATE_LIMIT_TTL", 30*time.Minute),
		Prefix:         envStr("UPLOAD_RATE_LIMIT_PREFIX", "rl:upload"),
		Debug:          envBool("UPLOAD_RATE_LIMIT_DEBUG", false),
	}
	if def.Capacity < 1 {
		def.Capacity = 1
	}
	if def.RefillTokens < 1 {
		def.RefillTokens = 1
	}
	if def.RefillInterval <= 0 {
		def.RefillInterval = time.Second
	}
	// A bucket must outlive a few refills or it resets to full.
	if minTTL := 5 * def.RefillInterval; def.TTL < minTTL {
		def.TTL = minTTL
	}
	return def
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}
