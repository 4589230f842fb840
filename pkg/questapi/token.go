package questapi

import (
	"context"
	"errors"
	"sync"
	"time"
)

// TokenSource supplies the bearer token attached to every API request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns the same token forever.
type StaticTokenSource struct {
	token string
}

// NewStaticTokenSource creates a TokenSource around a fixed API key.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

// Token returns the configured token.
func (s *StaticTokenSource) Token(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", errors.New("no API key configured")
	}
	return s.token, nil
}

// RenewFunc fetches a fresh token and its validity duration.
type RenewFunc func(ctx context.Context) (token string, ttl time.Duration, err error)

// CachedTokenSource caches a token until it expires and renews it lazily.
// When renewal fails but a previous token is still held, that token is
// returned so transient renewal outages do not break in-flight work.
type CachedTokenSource struct {
	renew RenewFunc

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewCachedTokenSource creates a caching TokenSource around renew.
func NewCachedTokenSource(renew RenewFunc) *CachedTokenSource {
	return &CachedTokenSource{renew: renew}
}

// Token returns the cached token, renewing it if expired.
func (s *CachedTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expiry) {
		return s.token, nil
	}

	token, ttl, err := s.renew(ctx)
	if err != nil {
		if s.token != "" {
			// Stale token beats no token; the server will reject it if
			// it has truly expired.
			return s.token, nil
		}
		return "", err
	}

	s.token = token
	s.expiry = time.Now().Add(ttl)
	return s.token, nil
}
