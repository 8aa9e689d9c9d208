package domdex

import (
	"strings"
)

// NodeID identifies a node within a single Tree. Identifiers are dense,
// start at 0 for the document root and increase in document (pre-order)
// order, so comparing two identifiers compares document position.
type NodeID int

// NoNode marks an absent node reference, such as the parent of the root.
const NoNode NodeID = -1

// NodeKind distinguishes the node types a Tree can hold.
type NodeKind int

// Node kinds.
const (
	DocumentNode NodeKind = iota
	ElementNode
	TextNode
	CommentNode
)

// String returns the lowercase kind name.
func (k NodeKind) String() string {
	switch k {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	default:
		return "unknown"
	}
}

// Attr is a single attribute. Attributes keep their source order.
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Node is a single node of a Tree. Nodes are owned by their Tree and must
// not be modified once the Tree is built.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Tag      string // empty for non-element nodes
	Attrs    []Attr
	Children []NodeID
	Parent   NodeID // NoNode for the root; a back-reference, not ownership
	Text     string // text and comment content
	Start    int    // byte offset of the node in the source text
	End      int
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Classes returns the whitespace-separated tokens of the class attribute.
func (n *Node) Classes() []string {
	v, ok := n.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// HasClass reports whether class is one of the node's class tokens.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes() {
		if c == class {
			return true
		}
	}
	return false
}

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool {
	return n.Kind == ElementNode
}

// Tree is an immutable, ordered node tree with exactly one root. Node
// identifiers are only meaningful for the Tree instance that issued them.
type Tree struct {
	nodes []Node

	// Derived once at build time.
	depth   []int
	elemPos []int    // 1-based position among element siblings
	typePos []int    // 1-based position among siblings of the same tag or kind
	last    []NodeID // last identifier in each node's subtree
}

// Root returns the identifier of the document root.
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of nodes in the tree, including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Valid reports whether id refers to a node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Node returns the node with the given identifier, or nil if there is none.
// The returned node is shared and must not be modified.
func (t *Tree) Node(id NodeID) *Node {
	if !t.Valid(id) {
		return nil
	}
	return &t.nodes[id]
}

// Depth returns the number of ancestors of id. The root has depth 0.
func (t *Tree) Depth(id NodeID) int {
	return t.depth[id]
}

// ChildPosition returns the 1-based position of an element among its
// element siblings, as used by :nth-child.
func (t *Tree) ChildPosition(id NodeID) int {
	return t.elemPos[id]
}

// TypePosition returns the 1-based position of a node among siblings with
// the same tag (elements) or the same kind (text and comments), as used by
// XPath positional steps.
func (t *Tree) TypePosition(id NodeID) int {
	return t.typePos[id]
}

// SubtreeEnd returns the identifier one past the last descendant of id.
// Descendants of id are exactly the identifiers in (id, SubtreeEnd(id)).
func (t *Tree) SubtreeEnd(id NodeID) NodeID {
	return t.last[id] + 1
}

// SubtreeSize returns the number of nodes in the subtree rooted at id.
func (t *Tree) SubtreeSize(id NodeID) int {
	return int(t.last[id]-id) + 1
}

// OwnText returns the text of the direct text children of id joined by
// single spaces.
func (t *Tree) OwnText(id NodeID) string {
	n := t.Node(id)
	if n == nil {
		return ""
	}
	if n.Kind == TextNode {
		return n.Text
	}
	var parts []string
	for _, c := range n.Children {
		if cn := &t.nodes[c]; cn.Kind == TextNode && cn.Text != "" {
			parts = append(parts, cn.Text)
		}
	}
	return strings.Join(parts, " ")
}

// InnerText returns the text of every text node in the subtree of id, in
// document order, joined by single spaces.
func (t *Tree) InnerText(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}
	var parts []string
	for i := id; i <= t.last[id]; i++ {
		if n := &t.nodes[i]; n.Kind == TextNode && n.Text != "" {
			parts = append(parts, n.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Elements returns the identifiers of all element nodes in document order.
func (t *Tree) Elements() []NodeID {
	var ids []NodeID
	for i := range t.nodes {
		if t.nodes[i].Kind == ElementNode {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

// MarkupSize approximates the size in bytes of the tree serialized as
// markup. It is computed identically for every tree so sizes of an original
// and a simplified tree are comparable.
func (t *Tree) MarkupSize() int {
	size := 0
	for i := range t.nodes {
		n := &t.nodes[i]
		switch n.Kind {
		case ElementNode:
			size += len(n.Tag) + 2 // <tag>
			for _, a := range n.Attrs {
				size += len(a.Name) + len(a.Value) + 4 // name="value"
			}
			if !IsVoidElement(n.Tag) {
				size += len(n.Tag) + 3 // </tag>
			}
		case TextNode:
			size += len(n.Text)
		case CommentNode:
			size += len(n.Text) + 7 // <!---->
		}
	}
	return size
}

// voidElements never have content or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsVoidElement reports whether tag is an HTML void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// TreeBuilder assembles a Tree in document order. Nodes must be appended in
// pre-order: the parent of every new node is the most recently appended node
// or one of its ancestors. This keeps identifiers a valid document order.
type TreeBuilder struct {
	nodes []Node
}

// NewTreeBuilder returns a builder holding only a document root.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{
		nodes: []Node{{ID: 0, Kind: DocumentNode, Parent: NoNode}},
	}
}

// Root returns the identifier of the document root.
func (b *TreeBuilder) Root() NodeID {
	return 0
}

// Len returns the number of nodes appended so far, including the root.
func (b *TreeBuilder) Len() int {
	return len(b.nodes)
}

// AppendElement appends an element under parent and returns its identifier.
func (b *TreeBuilder) AppendElement(parent NodeID, tag string, attrs []Attr, start int) NodeID {
	var cp []Attr
	if len(attrs) > 0 {
		cp = make([]Attr, len(attrs))
		copy(cp, attrs)
	}
	return b.append(parent, Node{Kind: ElementNode, Tag: tag, Attrs: cp, Start: start, End: start})
}

// AppendText appends a text node under parent and returns its identifier.
func (b *TreeBuilder) AppendText(parent NodeID, text string, start, end int) NodeID {
	return b.append(parent, Node{Kind: TextNode, Text: text, Start: start, End: end})
}

// AppendComment appends a comment node under parent and returns its identifier.
func (b *TreeBuilder) AppendComment(parent NodeID, text string, start, end int) NodeID {
	return b.append(parent, Node{Kind: CommentNode, Text: text, Start: start, End: end})
}

// LastChild returns the last child of parent, or NoNode.
func (b *TreeBuilder) LastChild(parent NodeID) NodeID {
	children := b.nodes[parent].Children
	if len(children) == 0 {
		return NoNode
	}
	return children[len(children)-1]
}

// ExtendText appends text to an existing text node and moves its end offset.
func (b *TreeBuilder) ExtendText(id NodeID, text string, end int) {
	n := &b.nodes[id]
	n.Text += text
	n.End = end
}

// SetEnd records the end offset of a node.
func (b *TreeBuilder) SetEnd(id NodeID, end int) {
	b.nodes[id].End = end
}

func (b *TreeBuilder) append(parent NodeID, n Node) NodeID {
	if parent < 0 || int(parent) >= len(b.nodes) || !b.onRightSpine(parent) {
		panic("domdex: node appended out of document order")
	}
	id := NodeID(len(b.nodes))
	n.ID = id
	n.Parent = parent
	b.nodes = append(b.nodes, n)
	b.nodes[parent].Children = append(b.nodes[parent].Children, id)
	return id
}

// onRightSpine reports whether id is the last node or one of its ancestors.
func (b *TreeBuilder) onRightSpine(id NodeID) bool {
	for cur := NodeID(len(b.nodes) - 1); cur != NoNode; cur = b.nodes[cur].Parent {
		if cur == id {
			return true
		}
	}
	return false
}

// Tree finalizes the builder. The builder must not be used afterwards.
func (b *TreeBuilder) Tree() *Tree {
	nodes := b.nodes
	b.nodes = nil

	n := len(nodes)
	t := &Tree{
		nodes:   nodes,
		depth:   make([]int, n),
		elemPos: make([]int, n),
		typePos: make([]int, n),
		last:    make([]NodeID, n),
	}

	for i := 1; i < n; i++ {
		t.depth[i] = t.depth[nodes[i].Parent] + 1
	}

	for i := range nodes {
		if len(nodes[i].Children) == 0 {
			continue
		}
		elem := 0
		seen := make(map[string]int)
		for _, c := range nodes[i].Children {
			cn := &nodes[c]
			key := cn.Tag
			if cn.Kind == ElementNode {
				elem++
				t.elemPos[c] = elem
			} else {
				key = "#" + cn.Kind.String()
			}
			seen[key]++
			t.typePos[c] = seen[key]
		}
	}

	for i := n - 1; i >= 0; i-- {
		children := nodes[i].Children
		if len(children) == 0 {
			t.last[i] = NodeID(i)
		} else {
			t.last[i] = t.last[children[len(children)-1]]
		}
	}

	return t
}
