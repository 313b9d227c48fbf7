package orders

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-coffee-sync.git/internal/redisx"
	"github.com/ariefcatur/go-coffee-sync.git/internal/terminal"
	"github.com/ariefcatur/go-coffee-sync.git/internal/tokens"
)

type fakeAccounts struct {
	addresses []terminal.Address
	cards     []terminal.Card
}

func (f *fakeAccounts) Addresses(ctx context.Context, token string) ([]terminal.Address, error) {
	return f.addresses, nil
}

func (f *fakeAccounts) Cards(ctx context.Context, token string) ([]terminal.Card, error) {
	return f.cards, nil
}

func newTestQueue(t *testing.T, src *fakeAccounts) (*Queue, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	links := &tokens.Links{Redis: rdb}
	require.NoError(t, links.Set(context.Background(), 7, "trm_test_tok"))
	return NewQueue(src, links, rdb, nil), rdb
}

func TestEnqueueBuildsJob(t *testing.T) {
	src := &fakeAccounts{
		addresses: []terminal.Address{{ID: "a1"}, {ID: "a2"}},
		cards:     []terminal.Card{{ID: "c1"}, {ID: "c2"}},
	}
	q, rdb := newTestQueue(t, src)
	ctx := context.Background()

	jobID, err := q.Enqueue(ctx, 7, map[string]int{"v1": 2})
	require.NoError(t, err)
	assert.NotEmpty(t, jobID)

	n, err := rdb.LLen(ctx, redisx.KeyOrderRequests).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	raw, err := rdb.RPop(ctx, redisx.KeyOrderRequests).Bytes()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal(raw, &job))

	assert.Equal(t, jobID, job.ID.String())
	assert.Equal(t, JobTypeCreateOrder, job.Type)
	assert.Equal(t, "trm_test_tok", job.Token)
	assert.EqualValues(t, 7, job.ForPlayerID)
	assert.Zero(t, job.Retries)
	assert.True(t, job.NextAttempt.IsZero()) // sentinel: never attempted
	// first card/address of each list, no disambiguation
	assert.Equal(t, "c1", job.Payload.CardID)
	assert.Equal(t, "a1", job.Payload.AddressID)
	assert.Equal(t, map[string]int{"v1": 2}, job.Payload.Variants)
}

func TestEnqueueFIFO(t *testing.T) {
	src := &fakeAccounts{
		addresses: []terminal.Address{{ID: "a1"}},
		cards:     []terminal.Card{{ID: "c1"}},
	}
	q, rdb := newTestQueue(t, src)
	ctx := context.Background()

	first, err := q.Enqueue(ctx, 7, map[string]int{"v1": 1})
	require.NoError(t, err)
	second, err := q.Enqueue(ctx, 7, map[string]int{"v2": 1})
	require.NoError(t, err)

	// worker pops from the tail: first in, first out
	raw, err := rdb.RPop(ctx, redisx.KeyOrderRequests).Bytes()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal(raw, &job))
	assert.Equal(t, first, job.ID.String())

	raw, err = rdb.RPop(ctx, redisx.KeyOrderRequests).Bytes()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &job))
	assert.Equal(t, second, job.ID.String())
}

func TestEnqueueNotReady(t *testing.T) {
	src := &fakeAccounts{addresses: []terminal.Address{{ID: "a1"}}} // no cards
	q, rdb := newTestQueue(t, src)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, 7, map[string]int{"v1": 1})
	assert.ErrorIs(t, err, ErrCustomerNotReady)

	n, _ := rdb.LLen(ctx, redisx.KeyOrderRequests).Result()
	assert.Zero(t, n)
}

func TestEnqueueUnlinked(t *testing.T) {
	src := &fakeAccounts{
		addresses: []terminal.Address{{ID: "a1"}},
		cards:     []terminal.Card{{ID: "c1"}},
	}
	q, _ := newTestQueue(t, src)

	_, err := q.Enqueue(context.Background(), 99, map[string]int{"v1": 1})
	assert.ErrorIs(t, err, ErrCustomerNotReady)
}
