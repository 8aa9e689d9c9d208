package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/domdex"
)

const snapshotColumns = "id, name, source, markup, content_hash, stats, tokens, created_at"

// findQuery builds the snapshot lookup for filter, newest first. LIMIT and
// OFFSET are added only when paginate is set.
func findQuery(filter domdex.SnapshotFilter, paginate bool) (string, []any) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + snapshotColumns + " FROM snapshots WHERE 1=1")
	for _, c := range []struct {
		column string
		value  *string
	}{
		{"id", filter.ID},
		{"name", filter.Name},
		{"content_hash", filter.ContentHash},
	} {
		if c.value != nil {
			query.WriteString(" AND " + c.column + " = ?")
			args = append(args, *c.value)
		}
	}
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	if paginate {
		if filter.Limit > 0 {
			query.WriteString(" LIMIT ?")
			args = append(args, filter.Limit)
		}
		if filter.Offset > 0 {
			// SQLite accepts OFFSET only after LIMIT.
			if filter.Limit <= 0 {
				query.WriteString(" LIMIT -1")
			}
			query.WriteString(" OFFSET ?")
			args = append(args, filter.Offset)
		}
	}
	return query.String(), args
}

// parseTime parses a stored RFC3339 timestamp of the named column.
func parseTime(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}
