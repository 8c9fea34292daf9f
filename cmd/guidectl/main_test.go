package main

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiskov/guide-client/pkg/config"
	"github.com/amiskov/guide-client/pkg/fakeapi"
	"github.com/amiskov/guide-client/pkg/guide"
	"github.com/amiskov/guide-client/pkg/kv"
	"github.com/amiskov/guide-client/pkg/notify"
	"github.com/amiskov/guide-client/pkg/user"
)

func newTestClient(t *testing.T) (*guide.Client, *fakeapi.Server, *[]notify.Event) {
	t.Helper()
	api := fakeapi.New()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.BaseURL = srv.URL + "/api"
	cfg.SessionBackend = config.BackendMemory

	c, err := guide.New(context.Background(), &cfg, guide.WithStorage(kv.NewMemory()))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	events := &[]notify.Event{}
	c.OnAuthRequired(func(e notify.Event) { *events = append(*events, e) })
	return c, api, events
}

func TestWhoamiExpiredSession(t *testing.T) {
	ctx := context.Background()
	c, api, events := newTestClient(t)
	id := api.AddUser("ann", "ann@example.com", "secret1")
	require.NoError(t, c.Sessions.Save(ctx, id, time.Now().Add(-time.Minute)))

	out, err := whoami(ctx, c, nil)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, guide.ErrSessionExpired)
	require.Len(t, *events, 1)

	sess, err := c.Sessions.Load(ctx)
	require.NoError(t, err)
	assert.False(t, sess.Present())
}

func TestWhoamiNoSession(t *testing.T) {
	ctx := context.Background()
	c, _, events := newTestClient(t)

	_, err := whoami(ctx, c, nil)
	assert.ErrorIs(t, err, guide.ErrNotAuthenticated)
	assert.Len(t, *events, 1)
}

func TestWhoamiLoggedIn(t *testing.T) {
	ctx := context.Background()
	c, api, events := newTestClient(t)
	api.AddUser("bob", "bob@example.com", "secret1")
	_, err := c.Auth.Login(ctx, user.Credentials{Username: "bob", Password: "secret1"})
	require.NoError(t, err)

	out, err := whoami(ctx, c, nil)
	require.NoError(t, err)
	info, ok := out.(*user.Info)
	require.True(t, ok)
	assert.Equal(t, "bob", info.Username)
	assert.Empty(t, *events)
}

func TestUsageErrors(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestClient(t)

	_, err := login(ctx, c, []string{"only-user"})
	assert.ErrorIs(t, err, errUsage)
	_, err = chatCmd(ctx, c, []string{"nope"})
	assert.ErrorIs(t, err, errUsage)
}
