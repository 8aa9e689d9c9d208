// Package xpath resolves full XPath 1.0 expressions with antchfx/xpath.
package xpath

import (
	"sort"

	"github.com/antchfx/xpath"
	"github.com/fwojciec/domdex"
)

// Ensure Resolver implements domdex.Resolver at compile time.
var _ domdex.Resolver = (*Resolver)(nil)

// Resolver evaluates XPath 1.0 expressions, including axes and functions
// the native engine lacks. Selected text nodes and attributes resolve to
// their element.
type Resolver struct {
	// SnippetWidth bounds result snippets in runes.
	SnippetWidth int
}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{SnippetWidth: domdex.DefaultSnippetWidth}
}

// Resolve returns the elements selected by expr in document order.
func (r *Resolver) Resolve(t *domdex.Tree, idx *domdex.Index, expr string) ([]domdex.MatchResult, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, domdex.Errorf(domdex.ESELECTOR, "xpath %q: %v", expr, err)
	}
	if err := domdex.CheckIndex(idx, t); err != nil {
		return nil, err
	}

	seen := make(map[domdex.NodeID]bool)
	var matched []domdex.NodeID
	iter := compiled.Select(newNavigator(t))
	for iter.MoveNext() {
		nav, ok := iter.Current().(*navigator)
		if !ok {
			continue
		}
		id := nav.cur
		if n := t.Node(id); n.Kind == domdex.TextNode || n.Kind == domdex.CommentNode {
			id = n.Parent
		}
		if t.Node(id).Kind != domdex.ElementNode || seen[id] {
			continue
		}
		seen[id] = true
		matched = append(matched, id)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i] < matched[j] })

	results := make([]domdex.MatchResult, 0, len(matched))
	for _, id := range matched {
		snippet := domdex.Snippet(t.InnerText(id), r.SnippetWidth)
		results = append(results, domdex.NewMatchResult(t, id, snippet))
	}
	return results, nil
}
