// Package pipeline runs parse, simplify and index over documents.
package pipeline

import (
	"context"
	"fmt"

	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/html"
	"github.com/fwojciec/domdex/index"
	"github.com/fwojciec/domdex/simplify"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds ProcessAll when no limit is given.
const DefaultConcurrency = 4

// Pipeline turns raw markup into indexed documents.
type Pipeline struct {
	Parser     domdex.Parser
	Simplifier domdex.Simplifier
	Indexer    domdex.Indexer

	// Rules configures simplification. Nil means domdex.DefaultRuleset.
	Rules *domdex.Ruleset
}

// New creates a Pipeline using the native engine components.
func New() *Pipeline {
	return &Pipeline{
		Parser:     html.NewParser(),
		Simplifier: simplify.NewSimplifier(),
		Indexer:    index.NewBuilder(),
	}
}

// Process parses, simplifies and indexes one document.
func (p *Pipeline) Process(src []byte) (*domdex.Document, error) {
	orig, err := p.Parser.Parse(src)
	if err != nil {
		return nil, err
	}
	s, err := p.Simplifier.Simplify(orig, p.Rules)
	if err != nil {
		return nil, err
	}
	idx, err := p.Indexer.BuildIndex(s.Tree)
	if err != nil {
		return nil, err
	}
	return &domdex.Document{
		Original:   orig,
		Simplified: s.Tree,
		Mapping:    s.Mapping,
		Stats:      s.Stats,
		Index:      idx,
	}, nil
}

// ProcessAll processes independent documents concurrently, at most limit
// at a time. Results keep the order of sources. The first failure cancels
// the remaining work and is returned with the position of its source.
func (p *Pipeline) ProcessAll(ctx context.Context, sources [][]byte, limit int) ([]*domdex.Document, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	docs := make([]*domdex.Document, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := p.Process(src)
			if err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
