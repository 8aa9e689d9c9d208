// Package search ranks elements against keyword queries using the text
// index.
package search

import (
	"sort"

	"github.com/fwojciec/domdex"
)

// Ensure Engine implements domdex.Searcher at compile time.
var _ domdex.Searcher = (*Engine)(nil)

// Engine resolves keyword queries.
type Engine struct {
	// SnippetWidth bounds the snippet window in runes.
	SnippetWidth int

	// Limit caps the number of results. Zero means unlimited.
	Limit int
}

// NewEngine creates a new Engine with the default snippet width.
func NewEngine() *Engine {
	return &Engine{SnippetWidth: domdex.DefaultSnippetWidth}
}

// Search tokenizes keywords the way the index does, looks every term up
// and ranks the elements by the number of distinct terms they contain,
// then by depth, then by document order. No keywords is an empty result.
func (e *Engine) Search(t *domdex.Tree, idx *domdex.Index, keywords []string, policy domdex.MatchPolicy) ([]domdex.MatchResult, error) {
	if err := domdex.CheckIndex(idx, t); err != nil {
		return nil, err
	}

	terms := Terms(keywords)
	results := []domdex.MatchResult{}
	if len(terms) == 0 {
		return results, nil
	}

	scores := make(map[domdex.NodeID]int)
	for _, term := range terms {
		for _, id := range idx.Text(term) {
			scores[id]++
		}
	}

	hits := make([]domdex.NodeID, 0, len(scores))
	for id, score := range scores {
		if policy == domdex.MatchAll && score < len(terms) {
			continue
		}
		hits = append(hits, id)
	}
	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		if da, db := t.Depth(a), t.Depth(b); da != db {
			return da < db
		}
		return a < b
	})
	if e.Limit > 0 && len(hits) > e.Limit {
		hits = hits[:e.Limit]
	}

	termSet := make(map[string]bool, len(terms))
	for _, term := range terms {
		termSet[term] = true
	}
	for _, id := range hits {
		r := domdex.NewMatchResult(t, id, e.snippet(t.OwnText(id), termSet))
		r.Score = scores[id]
		results = append(results, r)
	}
	return results, nil
}

// snippet centers a window on the first occurrence of a query term.
func (e *Engine) snippet(text string, terms map[string]bool) string {
	for _, tok := range domdex.Tokens(text) {
		if terms[tok.Text] {
			return domdex.Window(text, tok.Start, tok.End, e.SnippetWidth)
		}
	}
	return domdex.Snippet(text, e.SnippetWidth)
}

// Terms tokenizes keywords and returns the distinct tokens in first-seen
// order.
func Terms(keywords []string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, k := range keywords {
		for _, tok := range domdex.Tokenize(k) {
			if !seen[tok] {
				seen[tok] = true
				terms = append(terms, tok)
			}
		}
	}
	return terms
}
