// Package kv holds the string key-value backends the session store persists
// into. Every backend treats a missing key as (``, false, nil).
package kv

import "context"

type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
