package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-coffee-sync.git/internal/redisx"
	"github.com/ariefcatur/go-coffee-sync.git/internal/terminal"
	"github.com/ariefcatur/go-coffee-sync.git/internal/tokens"
)

// AccountSource fetches the remote facts that make up readiness.
type AccountSource interface {
	Addresses(ctx context.Context, token string) ([]terminal.Address, error)
	Cards(ctx context.Context, token string) ([]terminal.Card, error)
}

// Cache answers "does this token's account have a card and an address on
// file", memoized in redis with a TTL. The fact is recomputed on miss only,
// never invalidated on mutation, so it can go stale for up to the TTL.
// Accepted trade-off.
type Cache struct {
	Source AccountSource
	Links  *tokens.Links
	Redis  *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func NewCache(src AccountSource, links *tokens.Links, rdb *redis.Client, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{Source: src, Links: links, Redis: rdb, TTL: redisx.TTLReadiness, Logger: logger}
}

func (c *Cache) IsReady(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf(redisx.KeyReadiness, token)

	// fast path
	if v, err := c.Redis.Get(ctx, key).Result(); err == nil {
		return v == "1", nil
	} else if !errors.Is(err, redis.Nil) {
		return false, err
	}

	addresses, err := c.Source.Addresses(ctx, token)
	if err != nil {
		return false, err
	}
	cards, err := c.Source.Cards(ctx, token)
	if err != nil {
		return false, err
	}
	ready := len(addresses) > 0 && len(cards) > 0

	v := "0"
	if ready {
		v = "1"
	}
	if err := c.Redis.Set(ctx, key, v, c.TTL).Err(); err != nil {
		c.Logger.Warn("failed to cache readiness", zap.Error(err))
	}
	return ready, nil
}

// CanPlayerPurchase resolves the player's token first; unlinked players are
// simply not ready: no error, no remote call.
func (c *Cache) CanPlayerPurchase(ctx context.Context, playerID uint32) (bool, error) {
	token, err := c.Links.Get(ctx, playerID)
	if errors.Is(err, tokens.ErrNotLinked) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.IsReady(ctx, token)
}
