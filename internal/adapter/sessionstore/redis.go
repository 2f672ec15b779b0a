// Package sessionstore persists interview sessions in Redis with a rolling
// expiry, mirroring the web layer's session-timeout semantics.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shreyansh100704/Multilingual-AI-Interview-Agent/internal/domain"
)

const keyPrefix = "interview:session:"

// Store implements domain.SessionStore on top of Redis. Every Get and Save
// refreshes the TTL so an active interview never expires mid-flight.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New constructs a Store with the given rolling TTL.
func New(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Save marshals the session and writes it with a fresh TTL.
func (s *Store) Save(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("%w: session id required", domain.ErrInvalidArgument)
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: marshal session: %v", domain.ErrInternal, err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+sess.ID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: save session: %v", domain.ErrInternal, err)
	}
	return nil
}

// Get loads a session and refreshes its TTL. Missing or expired sessions
// return domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: session id required", domain.ErrInvalidArgument)
	}
	b, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %v", domain.ErrInternal, err)
	}

	var sess domain.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("%w: unmarshal session: %v", domain.ErrInternal, err)
	}

	// Rolling expiry: any access keeps the session alive.
	if err := s.rdb.Expire(ctx, keyPrefix+id, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("%w: refresh ttl: %v", domain.ErrInternal, err)
	}
	return &sess, nil
}

// Delete removes the session unconditionally; deleting a missing session is
// not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: session id required", domain.ErrInvalidArgument)
	}
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%w: delete session: %v", domain.ErrInternal, err)
	}
	return nil
}

// Ping verifies the Redis connection for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
