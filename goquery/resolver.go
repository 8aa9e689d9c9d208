// Package goquery resolves full CSS selectors with goquery and cascadia.
package goquery

import (
	"sort"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/html"
)

// Ensure Resolver implements domdex.Resolver at compile time.
var _ domdex.Resolver = (*Resolver)(nil)

// Resolver evaluates any selector group cascadia accepts, including
// pseudo-classes and attribute operators the native engine lacks.
type Resolver struct {
	// SnippetWidth bounds result snippets in runes.
	SnippetWidth int
}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{SnippetWidth: domdex.DefaultSnippetWidth}
}

// Resolve returns matching elements in document order.
func (r *Resolver) Resolve(t *domdex.Tree, idx *domdex.Index, selector string) ([]domdex.MatchResult, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, domdex.Errorf(domdex.ESELECTOR, "css selector %q: %v", selector, err)
	}
	if err := domdex.CheckIndex(idx, t); err != nil {
		return nil, err
	}

	root, ids := html.NodeTree(t)
	doc := goquery.NewDocumentFromNode(root)

	var matched []domdex.NodeID
	doc.FindMatcher(m).Each(func(_ int, sel *goquery.Selection) {
		if id, ok := ids[sel.Get(0)]; ok {
			matched = append(matched, id)
		}
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i] < matched[j] })

	results := make([]domdex.MatchResult, 0, len(matched))
	for _, id := range matched {
		snippet := domdex.Snippet(t.InnerText(id), r.SnippetWidth)
		results = append(results, domdex.NewMatchResult(t, id, snippet))
	}
	return results, nil
}
