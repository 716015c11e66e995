package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a session ID has no server-side record,
// either because it never existed or because its TTL elapsed.
var ErrNotFound = errors.New("session not found")

// Store persists identity payloads keyed by opaque session IDs. Keeping the
// store external to the process means restarts and horizontal scaling do not
// invalidate active sessions.
type Store interface {
	// Create stores the identity under a freshly generated session ID.
	Create(ctx context.Context, user *model.SessionUser) (string, error)
	// Get returns the identity for a session ID, or ErrNotFound.
	Get(ctx context.Context, sid string) (*model.SessionUser, error)
	// Refresh extends the session TTL (rolling expiry).
	Refresh(ctx context.Context, sid string) error
	// Destroy removes the session record. Destroying an unknown ID is a no-op.
	Destroy(ctx context.Context, sid string) error
}

// RedisStore is the Redis-backed Store used in production.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a RedisStore with the given session TTL.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// NewID generates a 256-bit random session ID rendered URL-safe. The ID is
// the only thing the client ever holds, so it must be unguessable; it does
// not need a signature on top.
func NewID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *RedisStore) Create(ctx context.Context, user *model.SessionUser) (string, error) {
	sid, err := NewID()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := s.rdb.Set(ctx, config.RedisKey.Session(sid), payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sid, nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*model.SessionUser, error) {
	raw, err := s.rdb.Get(ctx, config.RedisKey.Session(sid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	user := &model.SessionUser{}
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return user, nil
}

func (s *RedisStore) Refresh(ctx context.Context, sid string) error {
	return s.rdb.Expire(ctx, config.RedisKey.Session(sid), s.ttl).Err()
}

func (s *RedisStore) Destroy(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, config.RedisKey.Session(sid)).Err()
}
