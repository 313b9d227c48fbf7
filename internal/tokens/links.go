package tokens

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-coffee-sync.git/internal/redisx"
)

// ErrNotLinked: player has never registered a token.
var ErrNotLinked = errors.New("player has no linked token")

// Links is the permanent player -> terminal token mapping. Last write wins;
// links never expire.
type Links struct{ Redis *redis.Client }

func (l *Links) Set(ctx context.Context, playerID uint32, token string) error {
	return l.Redis.HSet(ctx, redisx.KeyPlayerTokens, formatPlayerID(playerID), token).Err()
}

func (l *Links) Get(ctx context.Context, playerID uint32) (string, error) {
	token, err := l.Redis.HGet(ctx, redisx.KeyPlayerTokens, formatPlayerID(playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotLinked
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func formatPlayerID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}
