package session

import (
	"errors"
	"fmt"
	"time"
)

// Storage keys. They match what the web front-end keeps in localStorage so a
// shared backend reads the same way from both.
const (
	KeyUserID    = "userid"
	KeyExpiresAt = "expires_at"
)

const HeaderUserID = "X-User-ID"

// Session is the raw stored pair. Either field may be empty.
type Session struct {
	UserID    string
	ExpiresAt string
}

// Present reports whether both fields are stored.
func (s Session) Present() bool {
	return s.UserID != `` && s.ExpiresAt != ``
}

// ExpiredAt reports whether the session is past its expiry at now. An expiry
// that can't be parsed counts as expired.
func (s Session) ExpiredAt(now time.Time) bool {
	exp, err := ParseExpiry(s.ExpiresAt)
	if err != nil {
		return true
	}
	return !now.Before(exp)
}

var ErrBadExpiry = errors.New("session: can't parse expiry")

var zonelessLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseExpiry accepts RFC 3339 and the zone-less ISO-8601 form the API
// returns; zone-less values are read as local time.
func ParseExpiry(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: `%s`", ErrBadExpiry, v)
}
