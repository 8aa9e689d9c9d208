// Package selector compiles and evaluates CSS and XPath subsets against
// simplified trees, pruning candidates with the attribute index.
package selector

import (
	"sort"
	"strings"

	"github.com/fwojciec/domdex"
)

// Ensure Resolver implements domdex.Resolver at compile time.
var _ domdex.Resolver = (*Resolver)(nil)

// DetectSyntax returns SyntaxXPath for selectors starting with "/" and
// SyntaxCSS otherwise.
func DetectSyntax(src string) domdex.Syntax {
	if strings.HasPrefix(strings.TrimSpace(src), "/") {
		return domdex.SyntaxXPath
	}
	return domdex.SyntaxCSS
}

// Compile compiles selector text into a step chain. Returns ESELECTOR if
// the text is empty or outside the supported subsets.
func Compile(src string) (*domdex.Selector, error) {
	if strings.TrimSpace(src) == "" {
		return nil, domdex.Errorf(domdex.ESELECTOR, "empty selector")
	}
	if DetectSyntax(src) == domdex.SyntaxXPath {
		return compileXPath(strings.TrimSpace(src))
	}
	return compileCSS(strings.TrimSpace(src))
}

// Resolver evaluates selectors with the native engine.
type Resolver struct {
	// SnippetWidth bounds result snippets in runes.
	SnippetWidth int
}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{SnippetWidth: domdex.DefaultSnippetWidth}
}

// Resolve returns the elements of t matching selector in document order.
// Each snippet is the element's inner text.
func (r *Resolver) Resolve(t *domdex.Tree, idx *domdex.Index, selector string) ([]domdex.MatchResult, error) {
	sel, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	if err := domdex.CheckIndex(idx, t); err != nil {
		return nil, err
	}

	ids := Match(t, idx, sel)
	results := make([]domdex.MatchResult, 0, len(ids))
	for _, id := range ids {
		snippet := domdex.Snippet(t.InnerText(id), r.SnippetWidth)
		results = append(results, domdex.NewMatchResult(t, id, snippet))
	}
	return results, nil
}

// Match returns the elements of t matching sel, sorted and unique. When idx
// is non-nil its attribute table seeds the candidates for the subject step;
// otherwise every element is a candidate.
func Match(t *domdex.Tree, idx *domdex.Index, sel *domdex.Selector) []domdex.NodeID {
	if t == nil || sel == nil || len(sel.Steps) == 0 {
		return nil
	}

	candidates, ok := seed(idx, sel.Subject())
	if !ok {
		candidates = t.Elements()
	}

	m := &matcher{tree: t, steps: sel.Steps, failed: make(map[visit]bool)}
	last := len(sel.Steps) - 1
	var out []domdex.NodeID
	for _, id := range candidates {
		if m.matchAt(last, id) {
			out = append(out, id)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return dedupe(out)
}

// seed picks the narrowest index list that every subject match must appear
// in: an id, then the rarest class, then the tag.
func seed(idx *domdex.Index, s *domdex.Step) ([]domdex.NodeID, bool) {
	if idx == nil {
		return nil, false
	}
	if s.ID != "" {
		return idx.Attr("#" + s.ID), true
	}

	var best []domdex.NodeID
	found := false
	consider := func(key string) {
		ids := idx.Attr(key)
		if !found || len(ids) < len(best) {
			best, found = ids, true
		}
	}
	for _, c := range s.Classes {
		consider("." + c)
	}
	for _, a := range s.Attrs {
		if a.Op != domdex.AttrEquals {
			continue
		}
		switch a.Name {
		case "id":
			if a.Value != "" {
				consider("#" + a.Value)
			}
		case "class":
			if tokens := strings.Fields(a.Value); len(tokens) > 0 {
				consider("." + tokens[0])
			}
		}
	}
	if found {
		return best, true
	}
	if s.Tag != "" {
		return idx.Attr(s.Tag), true
	}
	return nil, false
}

type visit struct {
	step int
	id   domdex.NodeID
}

// matcher verifies steps right to left, walking up the tree. Failed
// (step, node) pairs are remembered so descendant backtracking stays
// linear in practice.
type matcher struct {
	tree   *domdex.Tree
	steps  []domdex.Step
	failed map[visit]bool
}

func (m *matcher) matchAt(i int, id domdex.NodeID) bool {
	v := visit{i, id}
	if m.failed[v] {
		return false
	}
	ok := m.matchChain(i, id)
	if !ok {
		m.failed[v] = true
	}
	return ok
}

func (m *matcher) matchChain(i int, id domdex.NodeID) bool {
	t := m.tree
	s := &m.steps[i]
	if !matchStep(t, s, id) {
		return false
	}

	parent := t.Node(id).Parent
	if i == 0 {
		if s.Combinator == domdex.Child {
			return parent == t.Root()
		}
		return true
	}

	switch s.Combinator {
	case domdex.Child:
		return parent != t.Root() && m.matchAt(i-1, parent)
	default:
		for a := parent; a != t.Root() && a != domdex.NoNode; a = t.Node(a).Parent {
			if m.matchAt(i-1, a) {
				return true
			}
		}
		return false
	}
}

// matchStep reports whether element id satisfies every constraint of s.
func matchStep(t *domdex.Tree, s *domdex.Step, id domdex.NodeID) bool {
	n := t.Node(id)
	if n == nil || n.Kind != domdex.ElementNode {
		return false
	}
	if s.Tag != "" && n.Tag != s.Tag {
		return false
	}
	if s.ID != "" {
		if v, ok := n.Attr("id"); !ok || v != s.ID {
			return false
		}
	}
	for _, c := range s.Classes {
		if !n.HasClass(c) {
			return false
		}
	}
	for _, a := range s.Attrs {
		v, ok := n.Attr(a.Name)
		if !ok || (a.Op == domdex.AttrEquals && v != a.Value) {
			return false
		}
	}
	if s.Root && n.Parent != t.Root() {
		return false
	}
	if s.NthChild > 0 && t.ChildPosition(id) != s.NthChild {
		return false
	}
	if s.Position > 0 {
		pos := t.TypePosition(id)
		if s.Tag == "" {
			pos = t.ChildPosition(id)
		}
		if pos != s.Position {
			return false
		}
	}
	if s.HasText && !hasTextChild(t, n, s.Text) {
		return false
	}
	return true
}

func hasTextChild(t *domdex.Tree, n *domdex.Node, text string) bool {
	for _, c := range n.Children {
		if cn := t.Node(c); cn.Kind == domdex.TextNode && cn.Text == text {
			return true
		}
	}
	return false
}

func dedupe(ids []domdex.NodeID) []domdex.NodeID {
	if len(ids) < 2 {
		return ids
	}
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
