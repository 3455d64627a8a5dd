package resultstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore records verdicts in Redis, namespaced by run ID. All keys
// live under synth:{run}:*, so several runs can share one server. The
// store is safe for concurrent use by the worker pool.
type RedisStore struct {
	rdb   *redis.Client
	runID string
	ctx   context.Context
}

// NewRedisStore connects a verdict store for the given run. The run ID
// must not be empty; it namespaces every key the store touches.
func NewRedisStore(opts *redis.Options, runID string) (*RedisStore, error) {
	if runID == "" {
		return nil, fmt.Errorf("run ID cannot be empty")
	}
	return &RedisStore{
		rdb:   redis.NewClient(opts),
		runID: runID,
		ctx:   context.Background(),
	}, nil
}

// OpenRedisStore parses a redis:// URL and connects a verdict store.
func OpenRedisStore(url, runID string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return NewRedisStore(opts, runID)
}

// verdictsKey is the hash holding code -> verdict for the run.
func (s *RedisStore) verdictsKey() string {
	return fmt.Sprintf("synth:%s:verdicts", s.runID)
}

// paramsKey is the hash holding the run's model parameters.
func (s *RedisStore) paramsKey() string {
	return fmt.Sprintf("synth:%s:params", s.runID)
}

// Ping verifies connectivity. Useful before starting a long search.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// SetParams records the run's parameters once, before results arrive.
func (s *RedisStore) SetParams(ctx context.Context, params map[string]string) error {
	if err := s.rdb.HSet(ctx, s.paramsKey(), params).Err(); err != nil {
		return fmt.Errorf("failed to write run params to Redis: %w", err)
	}
	return nil
}

// Record stores one verdict. Implements Sink; recording the same code
// twice is idempotent.
func (s *RedisStore) Record(res Result) error {
	if err := s.rdb.HSet(s.ctx, s.verdictsKey(), res.Code, res.Verdict).Err(); err != nil {
		return fmt.Errorf("failed to write verdict to Redis: %w", err)
	}
	return nil
}

// Verdicts returns every recorded (code, verdict) pair for the run.
func (s *RedisStore) Verdicts(ctx context.Context) (map[string]string, error) {
	out, err := s.rdb.HGetAll(ctx, s.verdictsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read verdicts from Redis: %w", err)
	}
	return out, nil
}

// Count returns the number of recorded verdicts.
func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	n, err := s.rdb.HLen(ctx, s.verdictsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count verdicts: %w", err)
	}
	return n, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
