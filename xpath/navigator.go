package xpath

import (
	"strings"

	"github.com/antchfx/xpath"
	"github.com/fwojciec/domdex"
)

// Ensure navigator implements xpath.NodeNavigator at compile time.
var _ xpath.NodeNavigator = (*navigator)(nil)

// navigator walks a domdex.Tree for the XPath engine. attr is -1 on a node
// and the attribute index while positioned on an attribute.
type navigator struct {
	tree    *domdex.Tree
	sibling []int // index of each node within its parent's children
	cur     domdex.NodeID
	attr    int
}

func newNavigator(t *domdex.Tree) *navigator {
	sibling := make([]int, t.Len())
	for i := 0; i < t.Len(); i++ {
		for k, c := range t.Node(domdex.NodeID(i)).Children {
			sibling[c] = k
		}
	}
	return &navigator{tree: t, sibling: sibling, cur: t.Root(), attr: -1}
}

func (n *navigator) node() *domdex.Node {
	return n.tree.Node(n.cur)
}

func (n *navigator) NodeType() xpath.NodeType {
	if n.attr != -1 {
		return xpath.AttributeNode
	}
	switch n.node().Kind {
	case domdex.ElementNode:
		return xpath.ElementNode
	case domdex.TextNode:
		return xpath.TextNode
	case domdex.CommentNode:
		return xpath.CommentNode
	default:
		return xpath.RootNode
	}
}

func (n *navigator) LocalName() string {
	if n.attr != -1 {
		return n.node().Attrs[n.attr].Name
	}
	return n.node().Tag
}

func (n *navigator) Prefix() string {
	return ""
}

// Value returns the XPath string value: attribute and character data
// values as-is, and the concatenated descendant text for elements.
func (n *navigator) Value() string {
	if n.attr != -1 {
		return n.node().Attrs[n.attr].Value
	}
	node := n.node()
	switch node.Kind {
	case domdex.TextNode, domdex.CommentNode:
		return node.Text
	}
	var b strings.Builder
	for id := n.cur + 1; id < n.tree.SubtreeEnd(n.cur); id++ {
		if d := n.tree.Node(id); d.Kind == domdex.TextNode {
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

func (n *navigator) Copy() xpath.NodeNavigator {
	cp := *n
	return &cp
}

func (n *navigator) MoveToRoot() {
	n.cur = n.tree.Root()
	n.attr = -1
}

func (n *navigator) MoveToParent() bool {
	if n.attr != -1 {
		n.attr = -1
		return true
	}
	parent := n.node().Parent
	if parent == domdex.NoNode {
		return false
	}
	n.cur = parent
	return true
}

func (n *navigator) MoveToNextAttribute() bool {
	if n.attr >= len(n.node().Attrs)-1 {
		return false
	}
	n.attr++
	return true
}

func (n *navigator) MoveToChild() bool {
	if n.attr != -1 {
		return false
	}
	children := n.node().Children
	if len(children) == 0 {
		return false
	}
	n.cur = children[0]
	return true
}

func (n *navigator) MoveToFirst() bool {
	siblings, k, ok := n.siblings()
	if !ok || k == 0 {
		return false
	}
	n.cur = siblings[0]
	return true
}

func (n *navigator) MoveToNext() bool {
	siblings, k, ok := n.siblings()
	if !ok || k+1 >= len(siblings) {
		return false
	}
	n.cur = siblings[k+1]
	return true
}

func (n *navigator) MoveToPrevious() bool {
	siblings, k, ok := n.siblings()
	if !ok || k == 0 {
		return false
	}
	n.cur = siblings[k-1]
	return true
}

func (n *navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*navigator)
	if !ok || o.tree != n.tree {
		return false
	}
	n.cur = o.cur
	n.attr = o.attr
	return true
}

// siblings returns the children of the current node's parent and the
// current node's index among them.
func (n *navigator) siblings() ([]domdex.NodeID, int, bool) {
	if n.attr != -1 {
		return nil, 0, false
	}
	parent := n.node().Parent
	if parent == domdex.NoNode {
		return nil, 0, false
	}
	return n.tree.Node(parent).Children, n.sibling[n.cur], true
}
