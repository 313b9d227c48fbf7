package tokens

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfile struct {
	calls int
	err   error
}

func (f *fakeProfile) CheckProfile(ctx context.Context, token string) error {
	f.calls++
	return f.err
}

type fakeNotices struct {
	verified, rejected int
}

func (f *fakeNotices) TokenVerified(ctx context.Context, playerID uint32) { f.verified++ }
func (f *fakeNotices) TokenRejected(ctx context.Context, playerID uint32, reason string) {
	f.rejected++
}

func newTestRegistration(t *testing.T, profile *fakeProfile) (*Registration, *fakeNotices, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	notices := &fakeNotices{}
	reg := NewRegistration(&Links{Redis: rdb}, profile, nil)
	reg.Notices = notices
	return reg, notices, rdb
}

func TestVerifyParchmentSuccess(t *testing.T) {
	profile := &fakeProfile{}
	reg, notices, _ := newTestRegistration(t, profile)
	ctx := context.Background()

	token, err := reg.VerifyParchment(ctx, 7, []string{"instructions", "  trm_test_abc123  "})
	require.NoError(t, err)
	assert.Equal(t, "trm_test_abc123", token)
	assert.Equal(t, 1, profile.calls)
	assert.Equal(t, 1, notices.verified)

	linked, err := reg.Links.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "trm_test_abc123", linked)
}

func TestVerifyParchmentPatternShortCircuits(t *testing.T) {
	profile := &fakeProfile{}
	reg, notices, _ := newTestRegistration(t, profile)

	_, err := reg.VerifyParchment(context.Background(), 7, []string{"x", "not-a-token"})
	assert.ErrorIs(t, err, ErrValidation)
	// pattern failure rejects without any remote call
	assert.Zero(t, profile.calls)
	assert.Equal(t, 1, notices.rejected)
}

func TestVerifyParchmentStructure(t *testing.T) {
	profile := &fakeProfile{}
	reg, _, _ := newTestRegistration(t, profile)
	ctx := context.Background()

	_, err := reg.VerifyParchment(ctx, 7, []string{"only one page"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = reg.VerifyParchment(ctx, 7, []string{"x", "   "})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Zero(t, profile.calls)
}

func TestVerifyParchmentRemoteRejects(t *testing.T) {
	profile := &fakeProfile{err: errors.New("401")}
	reg, notices, _ := newTestRegistration(t, profile)
	ctx := context.Background()

	_, err := reg.VerifyParchment(ctx, 7, []string{"x", "trm_live_deadbeef"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, profile.calls)
	assert.Equal(t, 1, notices.rejected)

	// no link stored
	_, err = reg.Links.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestVerifyParchmentStoreFailureRejects(t *testing.T) {
	profile := &fakeProfile{}
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	notices := &fakeNotices{}
	reg := NewRegistration(&Links{Redis: rdb}, profile, nil)
	reg.Notices = notices

	// redis mati sebelum link tersimpan
	mr.Close()

	_, err := reg.VerifyParchment(context.Background(), 7, []string{"x", "trm_test_abc123"})
	// tetap resolve sebagai rejection, bukan error mentah
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 1, profile.calls)
	assert.Equal(t, 1, notices.rejected)
	assert.Zero(t, notices.verified)
}

func TestLinksLastWriteWins(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	links := &Links{Redis: rdb}
	ctx := context.Background()

	require.NoError(t, links.Set(ctx, 9, "trm_test_old"))
	require.NoError(t, links.Set(ctx, 9, "trm_test_new"))

	got, err := links.Get(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "trm_test_new", got)
}
