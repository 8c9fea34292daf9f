package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiskov/guide-client/pkg/kv"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(now time.Time) (*Store, *kv.Memory) {
	mem := kv.NewMemory()
	return NewStore(mem, WithClock(func() time.Time { return now })), mem
}

func TestSaveThenIsValid(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(base)

	require.NoError(t, s.Save(ctx, "u1", base.Add(time.Hour)))
	assert.True(t, s.IsValid(ctx))

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.IsValid(ctx))
}

func TestClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(base)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.IsValid(ctx))
}

func TestIsValidBoundary(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(base)

	require.NoError(t, s.Save(ctx, "u1", base))
	assert.False(t, s.IsValid(ctx), "expiry equal to now is expired")
}

func TestPartialSessionIsInvalid(t *testing.T) {
	ctx := context.Background()

	s, mem := newTestStore(base)
	require.NoError(t, mem.Set(ctx, KeyUserID, "u1"))
	assert.False(t, s.IsValid(ctx))

	s, mem = newTestStore(base)
	require.NoError(t, mem.Set(ctx, KeyExpiresAt, base.Add(time.Hour).Format(time.RFC3339)))
	assert.False(t, s.IsValid(ctx))
}

func TestAuthHeaderValid(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(base)

	require.NoError(t, s.Save(ctx, "u1", base.Add(time.Hour)))
	require.True(t, s.IsValid(ctx))
	assert.Equal(t, map[string]string{"X-User-ID": "u1"}, s.AuthHeader(ctx))
}

func TestAuthHeaderExpiredClearsStore(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(base)

	require.NoError(t, s.Save(ctx, "u1", base.Add(-time.Second)))
	assert.Empty(t, s.AuthHeader(ctx))

	_, ok, _ := mem.Get(ctx, KeyUserID)
	assert.False(t, ok)
	_, ok, _ = mem.Get(ctx, KeyExpiresAt)
	assert.False(t, ok)
}

func TestSaveLoginKeepsServerFormat(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStore(time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local))

	require.NoError(t, s.SaveLogin(ctx, "7", "2026-03-01T13:00:00.123456"))
	v, _, _ := mem.Get(ctx, KeyExpiresAt)
	assert.Equal(t, "2026-03-01T13:00:00.123456", v)
	assert.True(t, s.IsValid(ctx))
}

func TestUnparseableExpiryIsExpired(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(base)

	require.NoError(t, s.SaveLogin(ctx, "u1", "tomorrow"))
	assert.False(t, s.IsValid(ctx))
	assert.Empty(t, s.AuthHeader(ctx))

	sess, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, sess.Present())
}

func TestParseExpiry(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-01T12:00:00Z", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{"2026-03-01T12:00:00.5+02:00", time.Date(2026, 3, 1, 10, 0, 0, 5e8, time.UTC)},
		{"2026-03-01T12:00:00", time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)},
		{"2026-03-01 12:00:00.25", time.Date(2026, 3, 1, 12, 0, 0, 25e7, time.Local)},
	}
	for _, c := range cases {
		got, err := ParseExpiry(c.in)
		require.NoError(t, err, c.in)
		assert.True(t, c.want.Equal(got), "%s: got %s", c.in, got)
	}

	_, err := ParseExpiry("")
	assert.ErrorIs(t, err, ErrBadExpiry)
}
