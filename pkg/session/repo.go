package session

import (
	"context"
	"fmt"

	"github.com/amiskov/guide-client/pkg/kv"
)

type repo struct {
	storage kv.Storage
}

func newRepo(s kv.Storage) *repo {
	return &repo{
		storage: s,
	}
}

func (r *repo) Add(ctx context.Context, userID, expiresAt string) error {
	if err := r.storage.Set(ctx, KeyUserID, userID); err != nil {
		return fmt.Errorf("session/repo: can't store user id, %w", err)
	}
	if err := r.storage.Set(ctx, KeyExpiresAt, expiresAt); err != nil {
		return fmt.Errorf("session/repo: can't store expiry, %w", err)
	}
	return nil
}

func (r *repo) Get(ctx context.Context) (Session, error) {
	var s Session
	var err error
	if s.UserID, _, err = r.storage.Get(ctx, KeyUserID); err != nil {
		return Session{}, fmt.Errorf("session/repo: can't read user id, %w", err)
	}
	if s.ExpiresAt, _, err = r.storage.Get(ctx, KeyExpiresAt); err != nil {
		return Session{}, fmt.Errorf("session/repo: can't read expiry, %w", err)
	}
	return s, nil
}

func (r *repo) Destroy(ctx context.Context) error {
	if err := r.storage.Delete(ctx, KeyUserID, KeyExpiresAt); err != nil {
		return fmt.Errorf("session/repo: can't remove session, %w", err)
	}
	return nil
}
