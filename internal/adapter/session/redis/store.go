// Package redis backs the session store with Redis.
//
// Sessions are stored as JSON under "session:<id>" with a TTL, giving the
// store an eviction policy without touching the orchestrator. Enabled by
// setting REDIS_URL; the in-memory store remains the default.
package redis

import (
	"encoding/json"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	goredis "github.com/redis/go-redis/v9"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
)

const keyPrefix = "session:"

// Store implements domain.SessionStore on Redis.
type Store struct {
	rdb *goredis.Client
	ttl time.Duration
}

// New connects to Redis and verifies the connection with a short
// exponential-backoff ping so a slow container start does not fail boot.
func New(ctx domain.Context, url string, ttl time.Duration) (*Store, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=redis.New: %w", err)
	}
	rdb := goredis.NewClient(opts)

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 200 * time.Millisecond
	expo.MaxElapsedTime = 10 * time.Second
	ping := func() error { return rdb.Ping(ctx).Err() }
	if err := backoff.Retry(ping, backoff.WithContext(expo, ctx)); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("op=redis.New: ping: %w", err)
	}
	return &Store{rdb: rdb, ttl: ttl}, nil
}

// NewWithClient wraps an existing client; used by tests.
func NewWithClient(rdb *goredis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Get returns the session with the given id.
func (s *Store) Get(ctx domain.Context, id string) (domain.Session, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err == goredis.Nil {
		return domain.Session{}, fmt.Errorf("%w: session %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: redis get: %v", domain.ErrInternal, err)
	}
	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return domain.Session{}, fmt.Errorf("%w: corrupt session %q: %v", domain.ErrInternal, id, err)
	}
	return sess, nil
}

// Upsert stores the session and refreshes its TTL.
func (s *Store) Upsert(ctx domain.Context, sess domain.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("%w: empty session id", domain.ErrInvalidArgument)
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: marshal session: %v", domain.ErrInternal, err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+sess.ID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %v", domain.ErrInternal, err)
	}
	return nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx domain.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %v", domain.ErrInternal, err)
	}
	return nil
}

// Ping reports store health; used by the readiness probe.
func (s *Store) Ping(ctx domain.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error { return s.rdb.Close() }
