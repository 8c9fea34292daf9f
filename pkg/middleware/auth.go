// Package middleware holds the resty middleware attached to every API call:
// the session authorizer, the response failure policy and request logging.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/amiskov/guide-client/pkg/logger"
	"github.com/amiskov/guide-client/pkg/notify"
	"github.com/amiskov/guide-client/pkg/session"
)

// Notification texts sent with notify.KindAuthRequired.
const (
	MsgNotLoggedIn    = "you are not logged in, please log in first"
	MsgSessionExpired = "your session has expired, please log in again"
	MsgAuthRejected   = "authentication expired, please log in again"
)

// DefaultNoAuthPaths are reachable without a session. Matching is by substring.
var DefaultNoAuthPaths = []string{"/auth/login", "/auth/register", "/health"}

type (
	ISessionStore interface {
		Load(ctx context.Context) (session.Session, error)
		Clear(ctx context.Context) error
		Now() time.Time
	}

	Auth struct {
		Sessions   ISessionStore
		Notifier   notify.Notifier
		noAuthURLs []string
	}
)

func NewAuthMiddleware(s ISessionStore, n notify.Notifier, noAuthURLs []string) *Auth {
	if n == nil {
		n = notify.Nop
	}
	if noAuthURLs == nil {
		noAuthURLs = DefaultNoAuthPaths
	}
	return &Auth{
		Sessions:   s,
		Notifier:   n,
		noAuthURLs: noAuthURLs,
	}
}

func (auth *Auth) Exempt(path string) bool {
	for _, u := range auth.noAuthURLs {
		if strings.Contains(path, u) {
			return true
		}
	}
	return false
}

// Authorize decides whether a request to path may be sent. Exempt paths pass
// untouched without reading the session. Otherwise the stored user id is set
// as X-User-ID, or the request is refused with ErrNotAuthenticated or
// ErrSessionExpired after the notifier has been told. header must not be nil
// for non-exempt paths; a nil header is refused with ErrNilHeader.
func (auth *Auth) Authorize(ctx context.Context, path string, header http.Header) error {
	if auth.Exempt(path) {
		return nil
	}
	if header == nil {
		return ErrNilHeader
	}

	sess, err := auth.Sessions.Load(ctx)
	if err != nil {
		logger.Log(ctx).Errorf("auth: can't load session for `%s`, %v", path, err)
		sess = session.Session{}
	}

	if !sess.Present() {
		logger.Log(ctx).Infof("auth: no session, refusing `%s`", path)
		auth.notify(MsgNotLoggedIn)
		return ErrNotAuthenticated
	}

	if sess.ExpiredAt(auth.Sessions.Now()) {
		logger.Log(ctx).Infof("auth: session of user `%s` expired at `%s`, refusing `%s`",
			sess.UserID, sess.ExpiresAt, path)
		auth.clear(ctx)
		auth.notify(MsgSessionExpired)
		return ErrSessionExpired
	}

	header.Set(session.HeaderUserID, sess.UserID)
	return nil
}

// CheckResponse classifies a received status. 401 clears the session and
// notifies; any other non-2xx becomes an *HTTPError; 2xx passes.
func (auth *Auth) CheckResponse(ctx context.Context, status int) error {
	if status == http.StatusUnauthorized {
		logger.Log(ctx).Infof("auth: server rejected the session, logging out")
		auth.clear(ctx)
		auth.notify(MsgAuthRejected)
		return ErrAuthorizationRejected
	}
	if status < 200 || status > 299 {
		return &HTTPError{Status: status}
	}
	return nil
}

// BeforeRequest runs Authorize for a resty request. It must be registered
// with OnBeforeRequest, where req.URL is still the path the caller passed.
func (auth *Auth) BeforeRequest(_ *resty.Client, req *resty.Request) error {
	return auth.Authorize(req.Context(), req.URL, req.Header)
}

// AfterResponse runs CheckResponse. resty skips response middleware when the
// transport failed, so those errors reach the caller unchanged.
func (auth *Auth) AfterResponse(_ *resty.Client, resp *resty.Response) error {
	return auth.CheckResponse(resp.Request.Context(), resp.StatusCode())
}

func (auth *Auth) clear(ctx context.Context) {
	if err := auth.Sessions.Clear(ctx); err != nil {
		logger.Log(ctx).Errorf("auth: can't clear session, %v", err)
	}
}

func (auth *Auth) notify(msg string) {
	auth.Notifier.Notify(notify.Event{Kind: notify.KindAuthRequired, Message: msg})
}
