package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiskov/guide-client/pkg/kv"
	"github.com/amiskov/guide-client/pkg/middleware"
	"github.com/amiskov/guide-client/pkg/session"
)

func TestMiddlewareOrder(t *testing.T) {
	var gotUser, gotReqID string
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		gotUser = r.Header.Get(session.HeaderUserID)
		gotReqID = r.Header.Get(middleware.HeaderRequestID)
		if r.URL.Path == "/teapot" {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	store := session.NewStore(kv.NewMemory())
	auth := middleware.NewAuthMiddleware(store, nil, nil)
	c, err := New(Options{BaseURL: srv.URL, Timeout: time.Second}, auth)
	require.NoError(t, err)

	_, err = c.R().SetContext(ctx).Get("/chat/history")
	assert.ErrorIs(t, err, middleware.ErrNotAuthenticated)
	assert.Zero(t, hits)

	require.NoError(t, store.Save(ctx, "u1", time.Now().Add(time.Hour)))

	out := struct {
		OK bool `json:"ok"`
	}{}
	resp, err := c.R().SetContext(ctx).SetResult(&out).Get("/chat/history")
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "u1", gotUser)
	assert.NotEmpty(t, gotReqID)

	_, err = c.R().SetContext(ctx).SetHeader(middleware.HeaderRequestID, "fixed").Get("/teapot")
	var httpErr *middleware.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTeapot, httpErr.Status)
	assert.Equal(t, "fixed", gotReqID)
	assert.Equal(t, 2, hits)
}

func TestDefaultTimeout(t *testing.T) {
	auth := middleware.NewAuthMiddleware(session.NewStore(kv.NewMemory()), nil, nil)
	c, err := New(Options{BaseURL: "http://127.0.0.1:1"}, auth)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.GetClient().Timeout)
	assert.Zero(t, c.RetryCount)
}
