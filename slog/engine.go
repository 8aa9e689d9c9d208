// Package slog provides logging decorators for the domdex engine.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/domdex"
)

// Ensure LoggingParser implements domdex.Parser.
var _ domdex.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with logging.
type LoggingParser struct {
	next   domdex.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next domdex.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the node count.
func (p *LoggingParser) Parse(src []byte) (t *domdex.Tree, err error) {
	defer func(begin time.Time) {
		nodes := 0
		if t != nil {
			nodes = t.Len()
		}
		p.logger.Info("parse",
			"bytes", len(src),
			"nodes", nodes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(src)
}

// Ensure LoggingSimplifier implements domdex.Simplifier.
var _ domdex.Simplifier = (*LoggingSimplifier)(nil)

// LoggingSimplifier wraps a Simplifier with logging.
type LoggingSimplifier struct {
	next   domdex.Simplifier
	logger *slog.Logger
}

// NewLoggingSimplifier creates a new LoggingSimplifier.
func NewLoggingSimplifier(next domdex.Simplifier, logger *slog.Logger) *LoggingSimplifier {
	return &LoggingSimplifier{next: next, logger: logger}
}

// Simplify delegates to the wrapped simplifier and logs the reduction.
func (s *LoggingSimplifier) Simplify(t *domdex.Tree, rules *domdex.Ruleset) (res *domdex.Simplified, err error) {
	defer func(begin time.Time) {
		var stats domdex.Stats
		if res != nil {
			stats = res.Stats
		}
		s.logger.Info("simplify",
			"original_nodes", stats.OriginalNodes,
			"retained_nodes", stats.RetainedNodes,
			"original_bytes", stats.OriginalBytes,
			"simplified_bytes", stats.SimplifiedBytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Simplify(t, rules)
}

// Ensure LoggingIndexer implements domdex.Indexer.
var _ domdex.Indexer = (*LoggingIndexer)(nil)

// LoggingIndexer wraps an Indexer with logging.
type LoggingIndexer struct {
	next   domdex.Indexer
	logger *slog.Logger
}

// NewLoggingIndexer creates a new LoggingIndexer.
func NewLoggingIndexer(next domdex.Indexer, logger *slog.Logger) *LoggingIndexer {
	return &LoggingIndexer{next: next, logger: logger}
}

// BuildIndex delegates to the wrapped indexer and logs the table sizes.
func (i *LoggingIndexer) BuildIndex(t *domdex.Tree) (idx *domdex.Index, err error) {
	defer func(begin time.Time) {
		tokens, keys := 0, 0
		if idx != nil {
			tokens, keys = len(idx.Tokens()), len(idx.Keys())
		}
		i.logger.Info("build index",
			"tokens", tokens,
			"keys", keys,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.BuildIndex(t)
}
