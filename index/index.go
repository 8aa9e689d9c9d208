// Package index builds lookup tables over simplified trees.
package index

import (
	"github.com/fwojciec/domdex"
)

// Ensure Builder implements domdex.Indexer at compile time.
var _ domdex.Indexer = (*Builder)(nil)

// Builder builds a text index and an attribute index in one pass over a
// tree.
type Builder struct{}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildIndex indexes every element of t. An element is listed under each
// token of its own text, under its tag name, under "#"+id and under
// "."+class for each class token.
func (b *Builder) BuildIndex(t *domdex.Tree) (*domdex.Index, error) {
	if t == nil {
		return nil, domdex.Errorf(domdex.EINVALID, "tree required")
	}

	text := make(map[string][]domdex.NodeID)
	attr := make(map[string][]domdex.NodeID)

	for i := 0; i < t.Len(); i++ {
		id := domdex.NodeID(i)
		n := t.Node(id)
		if n.Kind != domdex.ElementNode {
			continue
		}

		add(attr, n.Tag, id)
		if v, ok := n.Attr("id"); ok && v != "" {
			add(attr, "#"+v, id)
		}
		for _, c := range n.Classes() {
			add(attr, "."+c, id)
		}

		for _, tok := range domdex.Tokenize(t.OwnText(id)) {
			add(text, tok, id)
		}
	}

	return domdex.NewIndex(t, text, attr), nil
}

// add appends id to m[key] once. Elements are visited in document order,
// so lists stay sorted.
func add(m map[string][]domdex.NodeID, key string, id domdex.NodeID) {
	ids := m[key]
	if n := len(ids); n > 0 && ids[n-1] == id {
		return
	}
	m[key] = append(ids, id)
}
