// Package session stores refresh sessions in Redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"price_backend/internal/feature/auth/domain/entity"
	"price_backend/internal/feature/auth/usecase"
)

// scanBatch is the COUNT hint for index scans.
const scanBatch = 200

// record is the stored form of a session.
type record struct {
	ID        string     `json:"id"`
	UserID    uint       `json:"user_id"`
	UserAgent string     `json:"user_agent"`
	IPAddress string     `json:"ip_address"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func toRecord(s *entity.Session) record {
	return record(*s)
}

func (r record) toEntity() *entity.Session {
	s := entity.Session(r)
	return &s
}

// SessionRedis implements usecase.SessionRepository on Redis.
// Each session is a string key with a TTL; a per-user set indexes session ids.
type SessionRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a SessionRedis whose keys start with prefix.
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	return &SessionRedis{client: client, prefix: prefix}
}

func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

func (r *SessionRedis) userKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

// Create stores the session until its expiry and indexes it under its user.
func (r *SessionRedis) Create(ctx context.Context, s *entity.Session) error {
	ttl := s.RemainingTTL(time.Now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := json.Marshal(toRecord(s))
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(s.ID), data, ttl)
		pipe.SAdd(ctx, r.userKey(s.UserID), s.ID)
		return nil
	})
	return err
}

// FindByID returns the session or usecase.ErrSessionNotFound.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return rec.toEntity(), nil
}

// FindByUserID returns the active sessions of a user, oldest first.
// Ids whose keys have expired are pruned from the index.
func (r *SessionRedis) FindByUserID(ctx context.Context, userID uint) ([]*entity.Session, error) {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var sessions []*entity.Session
	for _, id := range ids {
		s, err := r.FindByID(ctx, id)
		if errors.Is(err, usecase.ErrSessionNotFound) {
			r.client.SRem(ctx, r.userKey(userID), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		if s.ActiveAt(now) {
			sessions = append(sessions, s)
		}
	}
	slices.SortFunc(sessions, func(a, b *entity.Session) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return sessions, nil
}

// Revoke stamps RevokedAt and keeps the remaining TTL.
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	s.Revoke(time.Now())

	data, err := json.Marshal(toRecord(s))
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.sessionKey(id), data, redis.KeepTTL).Err()
}

// RevokeAllByUserID revokes every indexed session of a user.
func (r *SessionRedis) RevokeAllByUserID(ctx context.Context, userID uint) error {
	ids, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.Revoke(ctx, id); err != nil && !errors.Is(err, usecase.ErrSessionNotFound) {
			return err
		}
	}
	return nil
}

// DeleteExpired drops index entries whose session keys Redis has already expired
// and reports how many went. Session keys carry their own TTL.
func (r *SessionRedis) DeleteExpired(ctx context.Context) (int64, error) {
	var (
		pruned int64
		cursor uint64
	)
	for {
		keys, cur, err := r.client.Scan(ctx, cursor, r.prefix+":user:*", scanBatch).Result()
		if err != nil {
			return pruned, err
		}
		for _, key := range keys {
			n, err := r.pruneIndex(ctx, key)
			if err != nil {
				return pruned, err
			}
			pruned += n
		}
		if cur == 0 {
			return pruned, nil
		}
		cursor = cur
	}
}

// pruneIndex removes the ids of a per-user set whose session keys no longer exist.
func (r *SessionRedis) pruneIndex(ctx context.Context, userKey string) (int64, error) {
	ids, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil || len(ids) == 0 {
		return 0, err
	}

	exists := make([]*redis.IntCmd, len(ids))
	if _, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			exists[i] = pipe.Exists(ctx, r.sessionKey(id))
		}
		return nil
	}); err != nil {
		return 0, err
	}

	var gone []any
	for i, cmd := range exists {
		if cmd.Val() == 0 {
			gone = append(gone, ids[i])
		}
	}
	if len(gone) == 0 {
		return 0, nil
	}
	return r.client.SRem(ctx, userKey, gone...).Result()
}

// CountByUserID returns the number of active sessions of a user.
func (r *SessionRedis) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	sessions, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(sessions)), nil
}

// DeleteOldestByUserID removes the oldest active session of a user, if any.
func (r *SessionRedis) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	sessions, err := r.FindByUserID(ctx, userID)
	if err != nil || len(sessions) == 0 {
		return err
	}
	oldest := sessions[0]

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(oldest.ID))
		pipe.SRem(ctx, r.userKey(userID), oldest.ID)
		return nil
	})
	return err
}
