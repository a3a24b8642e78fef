package models

import "time"

// RefreshToken is a persisted refresh credential. Token holds the signed
// token string itself; rows are never updated, only created and deleted.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
