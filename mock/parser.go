package mock

import "github.com/fwojciec/domdex"

var _ domdex.Parser = (*Parser)(nil)

// Parser is a mock implementation of domdex.Parser.
type Parser struct {
	ParseFn func(src []byte) (*domdex.Tree, error)
}

func (p *Parser) Parse(src []byte) (*domdex.Tree, error) {
	return p.ParseFn(src)
}

var _ domdex.Simplifier = (*Simplifier)(nil)

// Simplifier is a mock implementation of domdex.Simplifier.
type Simplifier struct {
	SimplifyFn func(t *domdex.Tree, rules *domdex.Ruleset) (*domdex.Simplified, error)
}

func (s *Simplifier) Simplify(t *domdex.Tree, rules *domdex.Ruleset) (*domdex.Simplified, error) {
	return s.SimplifyFn(t, rules)
}

var _ domdex.Indexer = (*Indexer)(nil)

// Indexer is a mock implementation of domdex.Indexer.
type Indexer struct {
	BuildIndexFn func(t *domdex.Tree) (*domdex.Index, error)
}

func (i *Indexer) BuildIndex(t *domdex.Tree) (*domdex.Index, error) {
	return i.BuildIndexFn(t)
}
