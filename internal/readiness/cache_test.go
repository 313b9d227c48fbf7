package readiness

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-coffee-sync.git/internal/terminal"
	"github.com/ariefcatur/go-coffee-sync.git/internal/tokens"
)

type fakeAccounts struct {
	addresses []terminal.Address
	cards     []terminal.Card
	calls     int
}

func (f *fakeAccounts) Addresses(ctx context.Context, token string) ([]terminal.Address, error) {
	f.calls++
	return f.addresses, nil
}

func (f *fakeAccounts) Cards(ctx context.Context, token string) ([]terminal.Card, error) {
	return f.cards, nil
}

func newTestCache(t *testing.T, src *fakeAccounts) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	links := &tokens.Links{Redis: rdb}
	c := NewCache(src, links, rdb, nil)
	c.TTL = time.Hour
	return c, mr
}

func TestIsReadyCachesStaleFalse(t *testing.T) {
	src := &fakeAccounts{addresses: []terminal.Address{{ID: "a1"}}} // no cards
	c, mr := newTestCache(t, src)
	ctx := context.Background()

	ready, err := c.IsReady(ctx, "trm_test_x")
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Equal(t, 1, src.calls)

	// remote state changes, but the cached false holds until the TTL runs out
	src.cards = []terminal.Card{{ID: "c1"}}
	ready, err = c.IsReady(ctx, "trm_test_x")
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Equal(t, 1, src.calls) // no recompute

	mr.FastForward(2 * time.Hour)
	ready, err = c.IsReady(ctx, "trm_test_x")
	require.NoError(t, err)
	assert.True(t, ready)
	assert.Equal(t, 2, src.calls)
}

func TestIsReadyTrue(t *testing.T) {
	src := &fakeAccounts{
		addresses: []terminal.Address{{ID: "a1"}},
		cards:     []terminal.Card{{ID: "c1"}},
	}
	c, _ := newTestCache(t, src)

	ready, err := c.IsReady(context.Background(), "trm_test_y")
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestCanPlayerPurchaseUnlinked(t *testing.T) {
	src := &fakeAccounts{}
	c, _ := newTestCache(t, src)

	ready, err := c.CanPlayerPurchase(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Zero(t, src.calls) // unlinked -> no remote call
}

func TestCanPlayerPurchaseLinked(t *testing.T) {
	src := &fakeAccounts{
		addresses: []terminal.Address{{ID: "a1"}},
		cards:     []terminal.Card{{ID: "c1"}},
	}
	c, _ := newTestCache(t, src)
	ctx := context.Background()

	require.NoError(t, c.Links.Set(ctx, 42, "trm_live_z"))

	ready, err := c.CanPlayerPurchase(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ready)
}
