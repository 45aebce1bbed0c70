package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/MollahHamza/TRASHCANPRO/internal/model"
)

// RedisSessionRepo stores each refresh token under <prefix>:rt:<hash> with
// the token's remaining lifetime as TTL, and indexes the hashes of a user
// in the set <prefix>:user:<username> so logout can revoke them all.
type RedisSessionRepo struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisSessionRepo(rdb *redis.Client, prefix string) *RedisSessionRepo {
	if prefix == "" {
		prefix = "sess"
	}
	return &RedisSessionRepo{rdb: rdb, prefix: prefix}
}

func (r *RedisSessionRepo) tokenKey(hash string) string { return r.prefix + ":rt:" + hash }
func (r *RedisSessionRepo) userKey(name string) string  { return r.prefix + ":user:" + name }

func (r *RedisSessionRepo) StoreRefresh(ctx context.Context, tokenHash string, s model.Session, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	body, err := json.Marshal(s)
	if err != nil {
		return err
	}
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, r.tokenKey(tokenHash), body, ttl)
	pipe.SAdd(ctx, r.userKey(s.Username), tokenHash)
	pipe.Expire(ctx, r.userKey(s.Username), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store refresh: %w", err)
	}
	return nil
}

func (r *RedisSessionRepo) ValidateRefresh(ctx context.Context, tokenHash string) (model.Session, error) {
	body, err := r.rdb.Get(ctx, r.tokenKey(tokenHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Session{}, ErrInvalidRefresh
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("load refresh: %w", err)
	}
	var s model.Session
	if err := json.Unmarshal(body, &s); err != nil {
		return model.Session{}, ErrInvalidRefresh
	}
	return s, nil
}

func (r *RedisSessionRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	return r.rdb.Del(ctx, r.tokenKey(tokenHash)).Err()
}

func (r *RedisSessionRepo) RevokeAllForUser(ctx context.Context, username string) error {
	hashes, err := r.rdb.SMembers(ctx, r.userKey(username)).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	keys := make([]string, 0, len(hashes)+1)
	for _, h := range hashes {
		keys = append(keys, r.tokenKey(h))
	}
	keys = append(keys, r.userKey(username))
	return r.rdb.Del(ctx, keys...).Err()
}
