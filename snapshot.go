package domdex

import (
	"context"
	"time"
)

// Snapshot is a stored simplified document. Markup is the rendered
// simplified tree; re-parsing and re-simplifying it yields the same tree.
type Snapshot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	Markup      string    `json:"markup"`
	ContentHash string    `json:"contentHash"`
	Stats       Stats     `json:"stats"`
	Tokens      []byte    `json:"-"` // serialized token filter
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "snapshot name required")
	}
	if s.Markup == "" {
		return Errorf(EINVALID, "snapshot markup required")
	}
	return nil
}

// SnapshotService represents a service for managing snapshots.
type SnapshotService interface {
	// CreateSnapshot stores a new snapshot and assigns its ID.
	CreateSnapshot(ctx context.Context, snapshot *Snapshot) error

	// FindSnapshotByID retrieves a snapshot by ID.
	// Returns ENOTFOUND if the snapshot does not exist.
	FindSnapshotByID(ctx context.Context, id string) (*Snapshot, error)

	// FindSnapshots retrieves snapshots matching the filter, newest first.
	FindSnapshots(ctx context.Context, filter SnapshotFilter) ([]*Snapshot, error)

	// DeleteSnapshot permanently removes a snapshot.
	// Returns ENOTFOUND if the snapshot does not exist.
	DeleteSnapshot(ctx context.Context, id string) error
}

// SnapshotFilter represents a filter for FindSnapshots.
type SnapshotFilter struct {
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	ContentHash *string `json:"contentHash"`

	// Keywords keeps only snapshots whose token filter may contain every
	// keyword, or at least one keyword when AnyKeyword is set. Snapshots
	// stored without a filter are always kept.
	Keywords   []string `json:"keywords"`
	AnyKeyword bool     `json:"anyKeyword"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
