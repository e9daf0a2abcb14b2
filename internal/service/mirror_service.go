package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/signup-sheets-api/pkg/jobs"
)

const mirrorJobType = "snapshot.mirror"

type snapshotSource interface {
	Latest() (uint64, []byte)
}

type snapshotMirror interface {
	Save(ctx context.Context, key string, revision uint64, document []byte) error
}

type mirrorObserver interface {
	ObserveMirrorSync(err error)
}

// MirrorConfig tunes the mirror worker pool.
type MirrorConfig struct {
	Key        string
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// MirrorService copies committed snapshots to Redis in the background.
// Every job writes whatever revision is newest when it runs, so coalesced,
// dropped or retried jobs never leave the mirror behind a later commit.
type MirrorService struct {
	source   snapshotSource
	mirror   snapshotMirror
	observer mirrorObserver
	key      string
	queue    *jobs.Queue
	logger   *zap.Logger

	mu     sync.Mutex
	synced uint64
	primed bool
}

// NewMirrorService constructs the mirror. observer may be nil.
func NewMirrorService(source snapshotSource, mirror snapshotMirror, cfg MirrorConfig, observer mirrorObserver, logger *zap.Logger) *MirrorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MirrorService{
		source:   source,
		mirror:   mirror,
		observer: observer,
		key:      cfg.Key,
		logger:   logger,
	}
	s.queue = jobs.NewQueue("snapshot-mirror", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: 16,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the workers and schedules an initial sync.
func (s *MirrorService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	rev, _ := s.source.Latest()
	s.Notify(rev)
}

// Stop waits for in-flight syncs to finish.
func (s *MirrorService) Stop() {
	s.queue.Stop()
}

// Notify schedules a sync. It never blocks and is safe to call while the
// state store holds its write lock.
func (s *MirrorService) Notify(revision uint64) {
	err := s.queue.TryEnqueue(jobs.Job{
		ID:   strconv.FormatUint(revision, 10),
		Type: mirrorJobType,
	})
	switch {
	case err == nil:
	case errors.Is(err, jobs.ErrQueueFull):
		// a queued job will pick this revision up
		s.logger.Debug("mirror queue saturated", zap.Uint64("revision", revision))
	default:
		s.logger.Warn("mirror notify failed", zap.Uint64("revision", revision), zap.Error(err))
	}
}

// Sync writes the latest snapshot unless it has already been mirrored.
func (s *MirrorService) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	revision, document := s.source.Latest()
	if s.primed && revision <= s.synced {
		return nil
	}
	err := s.mirror.Save(ctx, s.key, revision, document)
	if s.observer != nil {
		s.observer.ObserveMirrorSync(err)
	}
	if err != nil {
		return err
	}
	s.synced, s.primed = revision, true
	return nil
}

// Synced reports the last mirrored revision.
func (s *MirrorService) Synced() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.synced, s.primed
}

func (s *MirrorService) handle(ctx context.Context, _ jobs.Job) error {
	return s.Sync(ctx)
}
