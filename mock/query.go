package mock

import "github.com/fwojciec/domdex"

var _ domdex.Resolver = (*Resolver)(nil)

// Resolver is a mock implementation of domdex.Resolver.
type Resolver struct {
	ResolveFn func(t *domdex.Tree, idx *domdex.Index, selector string) ([]domdex.MatchResult, error)
}

func (r *Resolver) Resolve(t *domdex.Tree, idx *domdex.Index, selector string) ([]domdex.MatchResult, error) {
	return r.ResolveFn(t, idx, selector)
}

var _ domdex.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of domdex.Searcher.
type Searcher struct {
	SearchFn func(t *domdex.Tree, idx *domdex.Index, keywords []string, policy domdex.MatchPolicy) ([]domdex.MatchResult, error)
}

func (s *Searcher) Search(t *domdex.Tree, idx *domdex.Index, keywords []string, policy domdex.MatchPolicy) ([]domdex.MatchResult, error) {
	return s.SearchFn(t, idx, keywords, policy)
}

var _ domdex.Differ = (*Differ)(nil)

// Differ is a mock implementation of domdex.Differ.
type Differ struct {
	DiffFn func(before, after *domdex.Tree) (*domdex.DiffResult, error)
}

func (d *Differ) Diff(before, after *domdex.Tree) (*domdex.DiffResult, error) {
	return d.DiffFn(before, after)
}
