package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/bloom"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ domdex.SnapshotService = (*SnapshotService)(nil)

// SnapshotService implements domdex.SnapshotService using SQLite.
type SnapshotService struct {
	db *DB

	// Now returns the creation time of new snapshots.
	Now func() time.Time
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{
		db:  db,
		Now: func() time.Time { return time.Now().UTC() },
	}
}

// HashContent computes the xxHash of content as a hex string.
func HashContent(content string) string {
	var b [8]byte
	h := xxhash.Sum64String(content)
	for i := 7; i >= 0; i-- {
		b[i] = byte(h)
		h >>= 8
	}
	return hex.EncodeToString(b[:])
}

// CreateSnapshot stores a new snapshot and assigns its ID, content hash and
// creation time.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *domdex.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	stats, err := json.Marshal(snap.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	snap.ID = uuid.New().String()
	snap.CreatedAt = s.Now().Truncate(time.Second)
	snap.ContentHash = HashContent(snap.Markup)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (`+snapshotColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Name, snap.Source, snap.Markup, snap.ContentHash, string(stats),
		snap.Tokens, snap.CreatedAt.Format(time.RFC3339))

	return err
}

// FindSnapshotByID retrieves a snapshot by ID.
func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*domdex.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+snapshotColumns+" FROM snapshots WHERE id = ?", id)
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return nil, domdex.Errorf(domdex.ENOTFOUND, "snapshot not found")
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// FindSnapshots retrieves snapshots matching the filter, newest first.
// With Keywords set, pagination applies to the snapshots that pass the
// token filters.
func (s *SnapshotService) FindSnapshots(ctx context.Context, filter domdex.SnapshotFilter) ([]*domdex.Snapshot, error) {
	prune := len(filter.Keywords) > 0
	query, args := findQuery(filter, !prune)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snaps := []*domdex.Snapshot{}
	skipped := 0
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		if prune {
			ok, err := mayContain(snap, filter)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if skipped < filter.Offset {
				skipped++
				continue
			}
		}
		snaps = append(snaps, snap)
		if prune && filter.Limit > 0 && len(snaps) == filter.Limit {
			break
		}
	}

	return snaps, rows.Err()
}

// DeleteSnapshot permanently removes a snapshot.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domdex.Errorf(domdex.ENOTFOUND, "snapshot not found")
	}

	return nil
}

// mayContain reports whether the snapshot's token filter may hold every
// keyword of the filter, or any of them when AnyKeyword is set.
func mayContain(snap *domdex.Snapshot, filter domdex.SnapshotFilter) (bool, error) {
	if len(snap.Tokens) == 0 {
		return true, nil
	}
	f, err := bloom.Decode(snap.Tokens)
	if err != nil {
		return false, fmt.Errorf("snapshot %s: %w", snap.ID, err)
	}
	if filter.AnyKeyword {
		return f.TestAny(filter.Keywords), nil
	}
	return f.TestAll(filter.Keywords), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*domdex.Snapshot, error) {
	var snap domdex.Snapshot
	var stats, createdAt string

	if err := row.Scan(&snap.ID, &snap.Name, &snap.Source, &snap.Markup, &snap.ContentHash,
		&stats, &snap.Tokens, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(stats), &snap.Stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}

	var err error
	snap.CreatedAt, err = parseTime(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &snap, nil
}
