// Package guide wires the API services, the session store and the request
// authorizer into one client.
//
//	c, err := guide.New(ctx, cfg)
//	defer c.Close()
//	stop := c.OnAuthRequired(func(e notify.Event) { fmt.Println(e.Message) })
//	defer stop()
//	if _, err := c.Auth.Login(ctx, user.Credentials{Username: "u", Password: "p"}); err != nil { ... }
//	reply, err := c.Chat.Send(ctx, "hello", nil)
package guide

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/amiskov/guide-client/pkg/artifact"
	"github.com/amiskov/guide-client/pkg/chat"
	"github.com/amiskov/guide-client/pkg/config"
	"github.com/amiskov/guide-client/pkg/httpclient"
	"github.com/amiskov/guide-client/pkg/kv"
	"github.com/amiskov/guide-client/pkg/logger"
	"github.com/amiskov/guide-client/pkg/middleware"
	"github.com/amiskov/guide-client/pkg/notify"
	"github.com/amiskov/guide-client/pkg/session"
	"github.com/amiskov/guide-client/pkg/system"
	"github.com/amiskov/guide-client/pkg/upload"
	"github.com/amiskov/guide-client/pkg/user"
	"github.com/amiskov/guide-client/pkg/voice"
)

var (
	ErrNotAuthenticated      = middleware.ErrNotAuthenticated
	ErrSessionExpired        = middleware.ErrSessionExpired
	ErrAuthorizationRejected = middleware.ErrAuthorizationRejected
)

type HTTPError = middleware.HTTPError

type Client struct {
	Chat     *chat.Service
	Upload   *upload.Service
	Voice    *voice.Service
	Auth     *user.Service
	System   *system.Service
	Artifact *artifact.Service

	Sessions *session.Store
	Events   *notify.Bus

	closers []io.Closer
}

type options struct {
	storage   kv.Storage
	clock     func() time.Time
	transport http.RoundTripper
	logger    *zap.SugaredLogger
}

type Option func(*options)

// WithStorage overrides the session backend chosen by the config.
func WithStorage(s kv.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	c := &Client{
		Events: notify.NewBus(),
	}

	storage := o.storage
	if storage == nil {
		var closer io.Closer
		var err error
		storage, closer, err = openStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if closer != nil {
			c.closers = append(c.closers, closer)
		}
	}

	var storeOpts []session.Option
	if o.clock != nil {
		storeOpts = append(storeOpts, session.WithClock(o.clock))
	}
	c.Sessions = session.NewStore(storage, storeOpts...)

	auth := middleware.NewAuthMiddleware(c.Sessions, c.Events, middleware.DefaultNoAuthPaths)

	l := o.logger
	if l == nil {
		l = logger.Log(ctx)
	}
	httpClient, err := httpclient.New(httpclient.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Logger:    l,
		Transport: o.transport,
	}, auth)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Chat = chat.NewService(httpClient)
	c.Upload = upload.NewService(httpClient)
	c.Voice = voice.NewService(httpClient)
	c.Auth = user.NewService(httpClient, c.Sessions)
	c.System = system.NewService(httpClient)
	c.Artifact = artifact.NewService(httpClient)

	return c, nil
}

// OnAuthRequired subscribes fn to login prompts raised when a call is refused
// for lack of a valid session. The returned func unsubscribes.
func (c *Client) OnAuthRequired(fn func(notify.Event)) func() {
	return c.Events.Subscribe(func(e notify.Event) {
		if e.Kind == notify.KindAuthRequired {
			fn(e)
		}
	})
}

func (c *Client) LoggedIn(ctx context.Context) bool {
	return c.Sessions.IsValid(ctx)
}

func (c *Client) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func openStorage(ctx context.Context, cfg *config.Config) (kv.Storage, io.Closer, error) {
	switch cfg.SessionBackend {
	case config.BackendMemory:
		return kv.NewMemory(), nil, nil
	case config.BackendFile:
		f, err := kv.NewFile(cfg.SessionFile)
		if err != nil {
			return nil, nil, err
		}
		return f, nil, nil
	case config.BackendRedis:
		r, err := kv.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return r, r, nil
	case config.BackendSQL:
		s, err := kv.OpenSQL(ctx, cfg.DatabaseDriver, cfg.DatabaseURI)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("guide: unknown session backend `%s`", cfg.SessionBackend)
}
