// Package httpclient builds the resty client every API service shares.
package httpclient

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/amiskov/guide-client/pkg/middleware"
)

const DefaultTimeout = 30 * time.Second

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Logger    *zap.SugaredLogger
	Transport http.RoundTripper
}

// New returns a client with the authorizer attached before every request and
// the failure policy after every received response. Requests are never retried.
func New(opts Options, auth *middleware.Auth) (*resty.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: can't create cookie jar, %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetCookieJar(jar).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	if opts.Transport != nil {
		c.SetTransport(opts.Transport)
	}
	if opts.Logger != nil {
		c.SetLogger(opts.Logger)
	}

	c.OnBeforeRequest(middleware.SetupTracing)
	c.OnBeforeRequest(auth.BeforeRequest)
	c.OnAfterResponse(middleware.AccessLog)
	c.OnAfterResponse(auth.AfterResponse)

	return c, nil
}
