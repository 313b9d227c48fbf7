package orders

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-coffee-sync.git/internal/redisx"
)

// Notifier delivers order outcomes to a player's session.
type Notifier interface {
	OrderSucceeded(ctx context.Context, playerID uint32, orderID string)
	OrderFailed(ctx context.Context, playerID uint32)
}

// Presence answers whether a player currently has a session.
type Presence interface {
	IsOnline(ctx context.Context, playerID uint32) (bool, error)
}

// Poller drains at most one success and one failure record per tick and
// notifies the originating player. Offline players get nothing, there is
// no redelivery. Same cooperative-loop contract as the reconciler.
type Poller struct {
	Redis    *redis.Client
	Notifier Notifier
	Presence Presence

	Interval time.Duration
	Logger   *zap.Logger

	lastRun time.Time
}

func NewPoller(rdb *redis.Client, notifier Notifier, presence Presence, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		Redis:    rdb,
		Notifier: notifier,
		Presence: presence,
		Interval: 15 * time.Second,
		Logger:   logger,
	}
}

func (p *Poller) Tick(ctx context.Context) {
	if time.Since(p.lastRun) < p.Interval {
		return
	}
	p.lastRun = time.Now()
	p.RunOnce(ctx)
}

// RunOnce: satu success + satu failure max, non-blocking. Bukan draining
// loop; sisa record nunggu tick berikutnya.
func (p *Poller) RunOnce(ctx context.Context) {
	if raw, ok := p.pop(ctx, redisx.KeyOrderSuccess); ok {
		var rec Success
		if err := json.Unmarshal(raw, &rec); err != nil {
			p.Logger.Warn("dropping malformed success record", zap.Error(err))
		} else {
			p.deliverSuccess(ctx, rec)
		}
	}

	if raw, ok := p.pop(ctx, redisx.KeyOrderFailure); ok {
		var rec Failure
		if err := json.Unmarshal(raw, &rec); err != nil {
			p.Logger.Warn("dropping malformed failure record", zap.Error(err))
		} else {
			p.deliverFailure(ctx, rec)
		}
	}
}

func (p *Poller) pop(ctx context.Context, key string) ([]byte, bool) {
	raw, err := p.Redis.RPop(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		p.Logger.Error("failed to pop order result", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return raw, true
}

func (p *Poller) deliverSuccess(ctx context.Context, rec Success) {
	online, err := p.Presence.IsOnline(ctx, rec.ForPlayerID)
	if err != nil {
		p.Logger.Error("presence check failed", zap.Uint32("player_id", rec.ForPlayerID), zap.Error(err))
		return
	}
	if !online {
		// dropped silently; accepted limitation
		p.Logger.Info("player offline, dropping success notification",
			zap.Uint32("player_id", rec.ForPlayerID), zap.String("order_id", rec.OrderID))
		return
	}
	p.Notifier.OrderSucceeded(ctx, rec.ForPlayerID, rec.OrderID)
}

func (p *Poller) deliverFailure(ctx context.Context, rec Failure) {
	online, err := p.Presence.IsOnline(ctx, rec.ForPlayerID)
	if err != nil {
		p.Logger.Error("presence check failed", zap.Uint32("player_id", rec.ForPlayerID), zap.Error(err))
		return
	}
	if !online {
		p.Logger.Info("player offline, dropping failure notification", zap.Uint32("player_id", rec.ForPlayerID))
		return
	}
	p.Notifier.OrderFailed(ctx, rec.ForPlayerID)
}
