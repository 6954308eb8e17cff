package auth

import (
	"context"
	"strconv"
	"time"

	"libraryhub/internal/cache"
)

const (
	revokedSessionKeyPrefix = "revoked:session:"
	revokedUserKeyPrefix    = "revoked:user:"
)

// SessionRevoker records sessions ended before their natural expiry.
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) bool
	// RevokeUser ends every session of username issued up to now.
	RevokeUser(ctx context.Context, username string, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, username string, issuedAt time.Time) bool
}

// TokenStore keeps revoked session IDs in Redis until they would have expired anyway.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements SessionRevoker
var _ SessionRevoker = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// Revoke marks sessionID as logged out for ttl. Non-positive ttls are a no-op
// because the token is already expired.
func (s *TokenStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 || sessionID == "" {
		return nil
	}
	return s.cache.Set(ctx, revokedSessionKeyPrefix+sessionID, []byte("1"), ttl)
}

// IsRevoked reports whether sessionID was logged out. Redis errors read as not revoked
// so an outage does not lock every member out; the cookie is still cleared on logout.
func (s *TokenStore) IsRevoked(ctx context.Context, sessionID string) bool {
	data, _ := s.cache.Get(ctx, revokedSessionKeyPrefix+sessionID)
	return data != nil
}

// RevokeUser stores the revocation time for username for ttl, the longest a session
// issued before it can live.
func (s *TokenStore) RevokeUser(ctx context.Context, username string, ttl time.Duration) error {
	if ttl <= 0 || username == "" {
		return nil
	}
	at := strconv.FormatInt(time.Now().Unix(), 10)
	return s.cache.Set(ctx, revokedUserKeyPrefix+username, []byte(at), ttl)
}

// IsUserRevoked reports whether a session for username issued at issuedAt predates a
// RevokeUser call. Sessions carry whole seconds, so one issued in the revocation's
// second counts as revoked.
func (s *TokenStore) IsUserRevoked(ctx context.Context, username string, issuedAt time.Time) bool {
	data, _ := s.cache.Get(ctx, revokedUserKeyPrefix+username)
	if data == nil {
		return false
	}
	at, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return false
	}
	return issuedAt.Unix() <= at
}
