package domdex

import (
	"strconv"
	"strings"
)

// PathStep is one step of a node's path from the root: a tag (or "text()"
// and "comment()" for character data) and its 1-based position among
// siblings of the same tag or kind.
type PathStep struct {
	Tag   string `json:"tag"`
	Index int    `json:"index"`
}

// Path returns the steps from the root to id. The root itself has an
// empty path.
func (t *Tree) Path(id NodeID) []PathStep {
	if !t.Valid(id) {
		return nil
	}
	steps := make([]PathStep, t.Depth(id))
	for cur, i := id, len(steps)-1; cur != t.Root(); cur, i = t.nodes[cur].Parent, i-1 {
		steps[i] = PathStep{Tag: stepName(&t.nodes[cur]), Index: t.typePos[cur]}
	}
	return steps
}

// XPath returns an absolute positional XPath for id, such as
// "/html[1]/body[1]/div[2]". The root is "/".
func (t *Tree) XPath(id NodeID) string {
	steps := t.Path(id)
	if len(steps) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range steps {
		b.WriteByte('/')
		b.WriteString(s.Tag)
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(s.Index))
		b.WriteByte(']')
	}
	return b.String()
}

// CSSPath returns a best-effort CSS selector for id. The chain is anchored
// at the nearest ancestor carrying an id that is unique in the tree; every
// other step is "tag.class:nth-child(k)", and an unanchored chain starts
// with a ":root" step. Character data resolves to its parent element.
func (t *Tree) CSSPath(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}
	for id != t.Root() && t.nodes[id].Kind != ElementNode {
		id = t.nodes[id].Parent
	}
	if id == t.Root() {
		return ""
	}

	var parts []string
	for cur := id; cur != t.Root(); cur = t.nodes[cur].Parent {
		n := &t.nodes[cur]
		if v, ok := n.Attr("id"); ok && isCSSIdent(v) && t.uniqueID(v) {
			parts = append(parts, n.Tag+"#"+v)
			break
		}
		var b strings.Builder
		b.WriteString(n.Tag)
		for _, c := range n.Classes() {
			if isCSSIdent(c) {
				b.WriteByte('.')
				b.WriteString(c)
			}
		}
		if n.Parent == t.Root() {
			b.WriteString(":root")
		}
		b.WriteString(":nth-child(")
		b.WriteString(strconv.Itoa(t.elemPos[cur]))
		b.WriteByte(')')
		parts = append(parts, b.String())
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func (t *Tree) uniqueID(v string) bool {
	count := 0
	for i := range t.nodes {
		if got, ok := t.nodes[i].Attr("id"); ok && got == v {
			count++
			if count > 1 {
				return false
			}
		}
	}
	return count == 1
}

func stepName(n *Node) string {
	switch n.Kind {
	case TextNode:
		return "text()"
	case CommentNode:
		return "comment()"
	default:
		return n.Tag
	}
}

// isCSSIdent reports whether s can be written as a CSS identifier without
// escaping.
func isCSSIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9', r == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
