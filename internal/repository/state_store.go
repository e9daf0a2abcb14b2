package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/signup-sheets-api/internal/models"
	"github.com/noah-isme/signup-sheets-api/pkg/storage"
)

// CommitHook is invoked under the write lock after a snapshot has been
// flushed. It must not block.
type CommitHook func(revision uint64)

// FlushObserver receives timing for every durable write.
type FlushObserver interface {
	ObserveSnapshotFlush(duration time.Duration, err error)
}

// StateStore is the authoritative in-memory copy of the scheduling state.
// Writers are serialised; each Update works on a private clone that only
// replaces the live state once the durable flush succeeded.
type StateStore struct {
	mu       sync.RWMutex
	state    *models.State
	document []byte
	revision uint64

	blob     storage.Blob
	logger   *zap.Logger
	observer FlushObserver
	hooks    []CommitHook
	nowFn    func() time.Time
}

// StateStoreOption customises a StateStore.
type StateStoreOption func(*StateStore)

// WithFlushObserver reports flush latency, typically to Prometheus.
func WithFlushObserver(o FlushObserver) StateStoreOption {
	return func(s *StateStore) { s.observer = o }
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) StateStoreOption {
	return func(s *StateStore) { s.nowFn = now }
}

// NewStateStore wraps a durable blob. Call Load before serving requests.
func NewStateStore(blob storage.Blob, logger *zap.Logger, opts ...StateStoreOption) *StateStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &StateStore{
		state:  models.NewState(),
		blob:   blob,
		logger: logger,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted document, or initialises and writes an empty one.
func (s *StateStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.blob.Read(ctx)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		state := models.NewState()
		doc, err := s.flush(ctx, state)
		if err != nil {
			return fmt.Errorf("initialise snapshot: %w", err)
		}
		s.state, s.document = state, doc
		s.logger.Info("snapshot initialised")
		return nil
	case err != nil:
		return fmt.Errorf("load snapshot: %w", err)
	}

	state := &models.State{}
	if err := json.Unmarshal(raw, state); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	state.Normalize()
	s.state, s.document = state, raw
	s.logger.Info("snapshot loaded",
		zap.Int("courses", len(state.Courses)),
		zap.Int("sheets", len(state.Sheets)),
		zap.Int("grades", len(state.Grades)),
	)
	return nil
}

// Update applies fn as one read-modify-write transaction. If fn or the flush
// fails the live state is left untouched.
func (s *StateStore) Update(ctx context.Context, fn func(*models.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.Clone()
	if err := fn(working); err != nil {
		return err
	}

	doc, err := s.flush(ctx, working)
	if err != nil {
		return err
	}

	s.state = working
	s.document = doc
	s.revision++
	for _, hook := range s.hooks {
		hook(s.revision)
	}
	return nil
}

// View runs fn against a consistent copy of the state.
func (s *StateStore) View(_ context.Context, fn func(*models.State) error) error {
	s.mu.RLock()
	snapshot := s.state.Clone()
	s.mu.RUnlock()
	return fn(snapshot)
}

// OnCommit registers a hook fired after each successful Update.
func (s *StateStore) OnCommit(hook CommitHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Latest returns the most recently committed document and its revision.
func (s *StateStore) Latest() (uint64, []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision, s.document
}

// Now returns the store clock.
func (s *StateStore) Now() time.Time {
	return s.nowFn()
}

// Close releases the durable backend.
func (s *StateStore) Close() error {
	return s.blob.Close()
}

func (s *StateStore) flush(ctx context.Context, state *models.State) ([]byte, error) {
	start := time.Now()
	doc, err := json.MarshalIndent(state, "", "  ")
	if err == nil {
		err = s.blob.Write(ctx, doc)
	}
	if s.observer != nil {
		s.observer.ObserveSnapshotFlush(time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("snapshot flush failed", zap.Error(err))
		return nil, fmt.Errorf("flush snapshot: %w", err)
	}
	return doc, nil
}
