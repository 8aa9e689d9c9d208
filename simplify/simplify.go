// Package simplify prunes noise from parsed trees.
package simplify

import (
	"strings"
	"unicode"

	"github.com/fwojciec/domdex"
)

// Ensure Simplifier implements domdex.Simplifier at compile time.
var _ domdex.Simplifier = (*Simplifier)(nil)

// Simplifier removes code, media, comment and out-of-content metadata
// subtrees, drops whitespace-only text and normalizes the remaining text.
// Attributes are never rewritten, so every retained element carries the
// same tag and attributes as the original node it maps to.
type Simplifier struct{}

// NewSimplifier creates a new Simplifier.
func NewSimplifier() *Simplifier {
	return &Simplifier{}
}

// Simplify returns a new reduced tree and its mapping back to t.
func (s *Simplifier) Simplify(t *domdex.Tree, rules *domdex.Ruleset) (*domdex.Simplified, error) {
	if t == nil {
		return nil, domdex.Errorf(domdex.EINVALID, "tree required")
	}
	if rules == nil {
		rules = domdex.DefaultRuleset()
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	p := &planner{tree: t, rules: rules}
	kept := p.children(t.Root(), false)

	b := domdex.NewTreeBuilder()
	e := &emitter{tree: t, builder: b, mapping: domdex.Mapping{t.Root()}}
	for _, it := range kept {
		e.emit(b.Root(), it)
	}
	out := b.Tree()

	return &domdex.Simplified{
		Tree:    out,
		Mapping: e.mapping,
		Stats: domdex.Stats{
			OriginalNodes:   t.Len(),
			RetainedNodes:   out.Len(),
			OriginalBytes:   t.MarkupSize(),
			SimplifiedBytes: out.MarkupSize(),
			Removed:         p.removed,
		},
	}, nil
}

// item is a retained node with its effective children. Merged text items
// carry the normalized text and the byte range of the merged run.
type item struct {
	id       domdex.NodeID
	text     string
	end      int
	children []item
}

// planner decides, bottom-up, which nodes survive.
type planner struct {
	tree    *domdex.Tree
	rules   *domdex.Ruleset
	removed domdex.Removals
}

func (p *planner) children(id domdex.NodeID, inRoot bool) []item {
	var out []item
	for _, c := range p.tree.Node(id).Children {
		n := p.tree.Node(c)
		switch n.Kind {
		case domdex.ElementNode:
			if p.prune(n.Tag, inRoot) {
				continue
			}
			it := item{
				id:       c,
				children: p.children(c, inRoot || p.rules.IsContentRoot(n.Tag)),
			}
			if p.collapsible(n, it.children) {
				p.removed.Collapsed++
				it = it.children[0]
			}
			out = append(out, it)

		case domdex.TextNode:
			text := normalizeSpace(n.Text)
			if text == "" {
				p.removed.Whitespace++
				continue
			}
			if last := len(out) - 1; last >= 0 && p.isText(out[last]) {
				out[last].text += " " + text
				out[last].end = n.End
				p.removed.Merged++
				continue
			}
			out = append(out, item{id: c, text: text, end: n.End})

		case domdex.CommentNode:
			if !p.rules.KeepComments {
				p.removed.Comments++
				continue
			}
			out = append(out, item{id: c})
		}
	}
	return out
}

// prune reports whether an element subtree is removed and counts it.
func (p *planner) prune(tag string, inRoot bool) bool {
	switch p.rules.Category(tag) {
	case domdex.RemoveCode:
		p.removed.Code++
		return true
	case domdex.RemoveMedia:
		p.removed.Media++
		return true
	case domdex.RemoveMetadata:
		if inRoot {
			return false
		}
		p.removed.Metadata++
		return true
	}
	return false
}

// collapsible reports whether n is a wrapper around a single element.
func (p *planner) collapsible(n *domdex.Node, children []item) bool {
	if !p.rules.CollapseWrappers || len(children) != 1 {
		return false
	}
	if p.rules.IsWrapperExempt(n.Tag) || p.rules.IsContentRoot(n.Tag) {
		return false
	}
	if p.tree.Node(children[0].id).Kind != domdex.ElementNode {
		return false
	}
	for _, a := range n.Attrs {
		if !p.rules.IsIgnorableAttr(a.Name) {
			return false
		}
	}
	return true
}

func (p *planner) isText(it item) bool {
	return p.tree.Node(it.id).Kind == domdex.TextNode
}

// emitter writes planned items into a new tree in document order.
type emitter struct {
	tree    *domdex.Tree
	builder *domdex.TreeBuilder
	mapping domdex.Mapping
}

func (e *emitter) emit(parent domdex.NodeID, it item) {
	n := e.tree.Node(it.id)
	e.mapping = append(e.mapping, it.id)

	switch n.Kind {
	case domdex.TextNode:
		e.builder.AppendText(parent, it.text, n.Start, it.end)
	case domdex.CommentNode:
		e.builder.AppendComment(parent, n.Text, n.Start, n.End)
	case domdex.ElementNode:
		id := e.builder.AppendElement(parent, n.Tag, n.Attrs, n.Start)
		for _, c := range it.children {
			e.emit(id, c)
		}
		e.builder.SetEnd(id, n.End)
	}
}

// normalizeSpace trims s and collapses internal whitespace runs to a
// single space.
func normalizeSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
