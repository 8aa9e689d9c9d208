package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/domdex"
)

// Ensure LoggingSnapshotService implements domdex.SnapshotService.
var _ domdex.SnapshotService = (*LoggingSnapshotService)(nil)

// LoggingSnapshotService wraps a SnapshotService with logging of writes
// and keyword lookups.
type LoggingSnapshotService struct {
	next   domdex.SnapshotService
	logger *slog.Logger
}

// NewLoggingSnapshotService creates a new LoggingSnapshotService.
func NewLoggingSnapshotService(next domdex.SnapshotService, logger *slog.Logger) *LoggingSnapshotService {
	return &LoggingSnapshotService{next: next, logger: logger}
}

// CreateSnapshot delegates to the wrapped service and logs the new ID.
func (s *LoggingSnapshotService) CreateSnapshot(ctx context.Context, snapshot *domdex.Snapshot) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create snapshot",
			"name", snapshot.Name,
			"id", snapshot.ID,
			"bytes", len(snapshot.Markup),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateSnapshot(ctx, snapshot)
}

// FindSnapshotByID delegates to the wrapped service.
func (s *LoggingSnapshotService) FindSnapshotByID(ctx context.Context, id string) (*domdex.Snapshot, error) {
	return s.next.FindSnapshotByID(ctx, id)
}

// FindSnapshots delegates to the wrapped service and logs the result count.
func (s *LoggingSnapshotService) FindSnapshots(ctx context.Context, filter domdex.SnapshotFilter) (snaps []*domdex.Snapshot, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find snapshots",
			"keywords", filter.Keywords,
			"count", len(snaps),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindSnapshots(ctx, filter)
}

// DeleteSnapshot delegates to the wrapped service and logs the ID.
func (s *LoggingSnapshotService) DeleteSnapshot(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete snapshot",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteSnapshot(ctx, id)
}
