package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrMirrorMiss is returned when no snapshot has been mirrored yet.
var ErrMirrorMiss = errors.New("mirror: snapshot not found")

// MirrorRepository keeps a read-only copy of the committed snapshot in Redis.
type MirrorRepository struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewMirrorRepository constructs a mirror repository. A nil client turns
// every call into a no-op.
func NewMirrorRepository(client redis.UniversalClient, logger *zap.Logger) *MirrorRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MirrorRepository{client: client, logger: logger}
}

func revisionKey(key string) string {
	return key + ":revision"
}

// Save writes the document and its revision atomically.
func (r *MirrorRepository) Save(ctx context.Context, key string, revision uint64, document []byte) error {
	if r.client == nil {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, document, 0)
		pipe.Set(ctx, revisionKey(key), strconv.FormatUint(revision, 10), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis mirror %s: %w", key, err)
	}
	r.logger.Debug("snapshot mirrored", zap.String("key", key), zap.Uint64("revision", revision))
	return nil
}

// Load returns the mirrored document and revision.
func (r *MirrorRepository) Load(ctx context.Context, key string) (uint64, []byte, error) {
	if r.client == nil {
		return 0, nil, ErrMirrorMiss
	}
	doc, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil, ErrMirrorMiss
		}
		return 0, nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	revision, err := r.client.Get(ctx, revisionKey(key)).Uint64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, nil, fmt.Errorf("redis get %s: %w", revisionKey(key), err)
	}
	return revision, doc, nil
}

// Close releases the Redis connection if present.
func (r *MirrorRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
