// Package session keeps the logged-in user's id and expiry in a kv.Storage.
//
// A session is valid when both values are stored and the current time is
// strictly before the expiry. There is no refresh: the expiry is fixed when
// the login response is saved.
package session

import (
	"context"
	"time"

	"github.com/amiskov/guide-client/pkg/kv"
	"github.com/amiskov/guide-client/pkg/logger"
)

type Store struct {
	repo *repo
	now  func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(storage kv.Storage, opts ...Option) *Store {
	s := &Store{
		repo: newRepo(storage),
		now:  time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Now() time.Time {
	return s.now()
}

// Save overwrites the stored session.
func (s *Store) Save(ctx context.Context, userID string, expiresAt time.Time) error {
	return s.repo.Add(ctx, userID, expiresAt.Format(time.RFC3339Nano))
}

// SaveLogin stores the expiry exactly as the server sent it. A value that
// can't be parsed is still stored and will read back as expired.
func (s *Store) SaveLogin(ctx context.Context, userID, expiresAt string) error {
	if _, err := ParseExpiry(expiresAt); err != nil {
		logger.Log(ctx).Warnf("session: storing unparseable expiry, %v", err)
	}
	return s.repo.Add(ctx, userID, expiresAt)
}

func (s *Store) Load(ctx context.Context) (Session, error) {
	return s.repo.Get(ctx)
}

func (s *Store) IsValid(ctx context.Context) bool {
	sess, err := s.repo.Get(ctx)
	if err != nil {
		logger.Log(ctx).Errorf("session: can't load session, %v", err)
		return false
	}
	return sess.Present() && !sess.ExpiredAt(s.now())
}

// Clear removes both values. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Destroy(ctx)
}

// AuthHeader returns the X-User-ID header for a valid session. When the
// session is not valid it clears the store before returning an empty map, so
// asking for headers can log the user out.
func (s *Store) AuthHeader(ctx context.Context) map[string]string {
	sess, err := s.repo.Get(ctx)
	if err == nil && sess.Present() && !sess.ExpiredAt(s.now()) {
		return map[string]string{HeaderUserID: sess.UserID}
	}
	if err != nil {
		logger.Log(ctx).Errorf("session: can't load session, %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		logger.Log(ctx).Errorf("session: can't clear session, %v", err)
	}
	return map[string]string{}
}
