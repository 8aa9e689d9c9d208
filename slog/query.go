package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/domdex"
)

// Ensure LoggingResolver implements domdex.Resolver.
var _ domdex.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver with logging.
type LoggingResolver struct {
	next   domdex.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next domdex.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the match count.
func (r *LoggingResolver) Resolve(t *domdex.Tree, idx *domdex.Index, selector string) (matches []domdex.MatchResult, err error) {
	defer func(begin time.Time) {
		r.logger.Info("resolve",
			"selector", selector,
			"count", len(matches),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(t, idx, selector)
}

// Ensure LoggingSearcher implements domdex.Searcher.
var _ domdex.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with logging.
type LoggingSearcher struct {
	next   domdex.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next domdex.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the match count.
func (s *LoggingSearcher) Search(t *domdex.Tree, idx *domdex.Index, keywords []string, policy domdex.MatchPolicy) (matches []domdex.MatchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"keywords", keywords,
			"policy", policy.String(),
			"count", len(matches),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(t, idx, keywords, policy)
}

// Ensure LoggingDiffer implements domdex.Differ.
var _ domdex.Differ = (*LoggingDiffer)(nil)

// LoggingDiffer wraps a Differ with logging.
type LoggingDiffer struct {
	next   domdex.Differ
	logger *slog.Logger
}

// NewLoggingDiffer creates a new LoggingDiffer.
func NewLoggingDiffer(next domdex.Differ, logger *slog.Logger) *LoggingDiffer {
	return &LoggingDiffer{next: next, logger: logger}
}

// Diff delegates to the wrapped differ and logs the summary counts.
func (d *LoggingDiffer) Diff(before, after *domdex.Tree) (res *domdex.DiffResult, err error) {
	defer func(begin time.Time) {
		var sum domdex.DiffSummary
		if res != nil {
			sum = res.Summary
		}
		d.logger.Info("diff",
			"added", sum.Added,
			"removed", sum.Removed,
			"modified", sum.Modified,
			"moved", sum.Moved,
			"identical", res != nil && res.Empty(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Diff(before, after)
}
