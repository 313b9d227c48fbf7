package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-coffee-sync.git/internal/redisx"
	"github.com/ariefcatur/go-coffee-sync.git/internal/terminal"
	"github.com/ariefcatur/go-coffee-sync.git/internal/tokens"
)

// ErrCustomerNotReady: no card or address on file at enqueue time. Callers
// should have checked readiness first, so this is a guard, not the main path.
var ErrCustomerNotReady = errors.New("player has no card or address on file")

// AccountSource resolves the card/address references the job payload needs.
type AccountSource interface {
	Addresses(ctx context.Context, token string) ([]terminal.Address, error)
	Cards(ctx context.Context, token string) ([]terminal.Card, error)
}

// Queue is the producer half of the order pipeline: it builds jobs and
// LPUSHes them; an external worker RPOPs (FIFO) and owns everything after.
type Queue struct {
	Source AccountSource
	Links  *tokens.Links
	Redis  *redis.Client
	Logger *zap.Logger
}

func NewQueue(src AccountSource, links *tokens.Links, rdb *redis.Client, logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{Source: src, Links: links, Redis: rdb, Logger: logger}
}

// Enqueue builds and pushes one order job for the player. Failures propagate
// synchronously so the in-world purchase action can fail immediately.
func (q *Queue) Enqueue(ctx context.Context, playerID uint32, variants map[string]int) (jobID string, err error) {
	token, err := q.Links.Get(ctx, playerID)
	if errors.Is(err, tokens.ErrNotLinked) {
		return "", fmt.Errorf("%w: no linked token", ErrCustomerNotReady)
	}
	if err != nil {
		return "", err
	}

	cards, err := q.Source.Cards(ctx, token)
	if err != nil {
		return "", err
	}
	addresses, err := q.Source.Addresses(ctx, token)
	if err != nil {
		return "", err
	}
	if len(cards) == 0 || len(addresses) == 0 {
		return "", ErrCustomerNotReady
	}

	// Intentionally only looking at the first card/address; multiple
	// payment methods are not disambiguated.
	job := NewJob(terminal.OrderRequest{
		CardID:    cards[0].ID,
		AddressID: addresses[0].ID,
		Variants:  variants,
	}, token, playerID)

	raw, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	if err := q.Redis.LPush(ctx, redisx.KeyOrderRequests, raw).Err(); err != nil {
		return "", err
	}

	q.Logger.Info("enqueued coffee order",
		zap.String("job_id", job.ID.String()), zap.Uint32("player_id", playerID),
		zap.Int("line_items", len(variants)))
	return job.ID.String(), nil
}
