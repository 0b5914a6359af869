package entity

import "time"

// Session is a refresh session. ID is the opaque refresh token held in the client's cookie.
type Session struct {
	ID        string
	UserID    uint
	UserAgent string
	IPAddress string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// NewSession opens a session for userID that lives for ttl from now.
func NewSession(id string, userID uint, userAgent, ipAddress string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Revoked reports whether the session was revoked.
func (s *Session) Revoked() bool {
	return s.RevokedAt != nil
}

// Revoke stamps the revocation time. An earlier revocation is kept.
func (s *Session) Revoke(at time.Time) {
	if s.RevokedAt == nil {
		s.RevokedAt = &at
	}
}

// ExpiredAt reports whether the session is past its expiry at now.
// A session expires at ExpiresAt exactly.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ActiveAt reports whether the session can still be rotated at now.
func (s *Session) ActiveAt(now time.Time) bool {
	return !s.Revoked() && !s.ExpiredAt(now)
}

// RemainingTTL is the time left before expiry; it is never negative.
func (s *Session) RemainingTTL(now time.Time) time.Duration {
	return max(s.ExpiresAt.Sub(now), 0)
}
