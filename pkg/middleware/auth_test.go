package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiskov/guide-client/pkg/kv"
	"github.com/amiskov/guide-client/pkg/notify"
	"github.com/amiskov/guide-client/pkg/session"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	events []notify.Event
}

func (r *recorder) Notify(e notify.Event) {
	r.events = append(r.events, e)
}

// countingStore counts session reads.
type countingStore struct {
	*session.Store
	loads int
}

func (c *countingStore) Load(ctx context.Context) (session.Session, error) {
	c.loads++
	return c.Store.Load(ctx)
}

func newAuth() (*Auth, *countingStore, *recorder) {
	store := &countingStore{Store: session.NewStore(kv.NewMemory(), session.WithClock(func() time.Time { return now }))}
	rec := &recorder{}
	return NewAuthMiddleware(store, rec, nil), store, rec
}

func TestExemptPathsSkipSession(t *testing.T) {
	ctx := context.Background()
	for _, path := range []string{"/auth/login", "/auth/register", "/health", "/api/health?x=1"} {
		a, store, rec := newAuth()
		h := http.Header{}

		require.NoError(t, a.Authorize(ctx, path, h), path)
		assert.Empty(t, h, path)
		assert.Zero(t, store.loads, path)
		assert.Empty(t, rec.events, path)

		require.NoError(t, store.Save(ctx, "u1", now.Add(-time.Hour)))
		require.NoError(t, a.Authorize(ctx, path, h), path)
		assert.Empty(t, h.Get(session.HeaderUserID), path)
	}
}

func TestNoSessionIsNotAuthenticated(t *testing.T) {
	a, _, rec := newAuth()

	err := a.Authorize(context.Background(), "/chat/send", http.Header{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	require.Len(t, rec.events, 1)
	assert.Equal(t, notify.Event{Kind: notify.KindAuthRequired, Message: MsgNotLoggedIn}, rec.events[0])
}

func TestPartialSessionIsNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	store := session.NewStore(mem, session.WithClock(func() time.Time { return now }))
	rec := &recorder{}
	a := NewAuthMiddleware(store, rec, nil)

	// An expiry in the past with no user id must not be reported as expired.
	require.NoError(t, mem.Set(ctx, session.KeyExpiresAt, now.Add(-time.Hour).Format(time.RFC3339)))
	err := a.Authorize(ctx, "/chat/history", http.Header{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	require.Len(t, rec.events, 1)
	assert.Equal(t, MsgNotLoggedIn, rec.events[0].Message)
}

func TestExpiredSessionIsCleared(t *testing.T) {
	ctx := context.Background()
	a, store, rec := newAuth()
	require.NoError(t, store.Save(ctx, "u1", now))

	h := http.Header{}
	err := a.Authorize(ctx, "/chat/history", h)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, h.Get(session.HeaderUserID))

	sess, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Session{}, sess)

	require.Len(t, rec.events, 1)
	assert.Equal(t, MsgSessionExpired, rec.events[0].Message)
}

func TestValidSessionInjectsHeader(t *testing.T) {
	ctx := context.Background()
	a, store, rec := newAuth()
	require.NoError(t, store.Save(ctx, "u1", now.Add(time.Hour)))

	h := http.Header{}
	require.NoError(t, a.Authorize(ctx, "/chat/send", h))
	assert.Equal(t, "u1", h.Get("X-User-ID"))
	assert.Empty(t, rec.events)
}

func TestNotificationFiresBeforeError(t *testing.T) {
	store := session.NewStore(kv.NewMemory())
	var seen bool
	a := NewAuthMiddleware(store, notify.NotifierFunc(func(notify.Event) { seen = true }), nil)

	err := a.Authorize(context.Background(), "/config", http.Header{})
	require.Error(t, err)
	assert.True(t, seen)
}

func TestCheckResponseUnauthorized(t *testing.T) {
	ctx := context.Background()
	a, store, rec := newAuth()
	require.NoError(t, store.Save(ctx, "u1", now.Add(time.Hour)))

	err := a.CheckResponse(ctx, http.StatusUnauthorized)
	assert.ErrorIs(t, err, ErrAuthorizationRejected)
	assert.False(t, store.IsValid(ctx))
	require.Len(t, rec.events, 1)
	assert.Equal(t, MsgAuthRejected, rec.events[0].Message)
}

func TestCheckResponseStatuses(t *testing.T) {
	a, store, rec := newAuth()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "u1", now.Add(time.Hour)))

	for _, status := range []int{400, 403, 404, 500, 503} {
		err := a.CheckResponse(ctx, status)
		var httpErr *HTTPError
		require.True(t, errors.As(err, &httpErr), status)
		assert.Equal(t, status, httpErr.Status)
		assert.Equal(t, status, StatusOf(err))
	}
	for _, status := range []int{200, 201, 204} {
		assert.NoError(t, a.CheckResponse(ctx, status))
	}

	assert.True(t, store.IsValid(ctx), "non-401 failures keep the session")
	assert.Empty(t, rec.events)
}

func TestHTTPErrorMessage(t *testing.T) {
	assert.Equal(t, "HTTP error! status: 502", (&HTTPError{Status: 502}).Error())
	assert.Zero(t, StatusOf(errors.New("boom")))
}

func TestAuthorizeNilHeader(t *testing.T) {
	ctx := context.Background()
	a, store, rec := newAuth()
	require.NoError(t, store.Save(ctx, "u1", now.Add(time.Hour)))

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, a.Authorize(ctx, "/chat/history", nil), ErrNilHeader)
	})
	assert.Empty(t, rec.events)
	assert.NoError(t, a.Authorize(ctx, "/health", nil))

	sess, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
}
