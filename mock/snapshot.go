package mock

import (
	"context"
	"io"

	"github.com/fwojciec/domdex"
)

var _ domdex.SnapshotService = (*SnapshotService)(nil)

// SnapshotService is a mock implementation of domdex.SnapshotService.
type SnapshotService struct {
	CreateSnapshotFn   func(ctx context.Context, snapshot *domdex.Snapshot) error
	FindSnapshotByIDFn func(ctx context.Context, id string) (*domdex.Snapshot, error)
	FindSnapshotsFn    func(ctx context.Context, filter domdex.SnapshotFilter) ([]*domdex.Snapshot, error)
	DeleteSnapshotFn   func(ctx context.Context, id string) error
}

func (s *SnapshotService) CreateSnapshot(ctx context.Context, snapshot *domdex.Snapshot) error {
	return s.CreateSnapshotFn(ctx, snapshot)
}

func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*domdex.Snapshot, error) {
	return s.FindSnapshotByIDFn(ctx, id)
}

func (s *SnapshotService) FindSnapshots(ctx context.Context, filter domdex.SnapshotFilter) ([]*domdex.Snapshot, error) {
	return s.FindSnapshotsFn(ctx, filter)
}

func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	return s.DeleteSnapshotFn(ctx, id)
}

var _ domdex.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of domdex.Exporter.
type Exporter struct {
	ExportFn func(w io.Writer, t *domdex.Tree) error
	NameFn   func() string
}

func (e *Exporter) Export(w io.Writer, t *domdex.Tree) error {
	return e.ExportFn(w, t)
}

func (e *Exporter) Name() string {
	return e.NameFn()
}
