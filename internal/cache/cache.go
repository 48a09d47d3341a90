package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/garagedesk/shop-scheduler/internal/config"
)

// TokenDenylist backs logout: a revoked token's jti lives here until the
// token would have expired anyway.
type TokenDenylist struct {
	client *redis.Client
}

func NewTokenDenylist(cfg *config.Config) *TokenDenylist {
	return &TokenDenylist{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
		}),
	}
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denyKey(jti), "1", ttl).Err()
}

// IsRevoked fails open: if redis is unreachable the token is honored rather
// than locking every caller out.
func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) bool {
	n, err := d.client.Exists(ctx, denyKey(jti)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func (d *TokenDenylist) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

func denyKey(jti string) string {
	return "auth:denylist:" + jti
}
