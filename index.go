package domdex

import "sort"

// Index is a token and attribute lookup table over one simplified tree.
//
// The text table maps a lowercase token to the elements whose own text
// contains it. The attribute table maps a tag name, "#"+id value or
// "."+class token to the elements carrying it. Identifier lists are sorted
// in document order. An Index is bound to the exact Tree it was built from;
// rebuilding is the only update path.
type Index struct {
	tree *Tree
	text map[string][]NodeID
	attr map[string][]NodeID
}

// NewIndex binds prepared lookup tables to t. The tables are owned by the
// Index afterwards.
func NewIndex(t *Tree, text, attr map[string][]NodeID) *Index {
	if text == nil {
		text = make(map[string][]NodeID)
	}
	if attr == nil {
		attr = make(map[string][]NodeID)
	}
	return &Index{tree: t, text: text, attr: attr}
}

// Tree returns the tree the index was built from.
func (idx *Index) Tree() *Tree {
	return idx.tree
}

// Text returns the elements whose own text contains token.
func (idx *Index) Text(token string) []NodeID {
	return idx.text[token]
}

// Attr returns the elements matching an attribute key: a tag name,
// "#"+id or "."+class.
func (idx *Index) Attr(key string) []NodeID {
	return idx.attr[key]
}

// Tokens returns every indexed text token in sorted order.
func (idx *Index) Tokens() []string {
	return sortedKeys(idx.text)
}

// Keys returns every attribute key in sorted order.
func (idx *Index) Keys() []string {
	return sortedKeys(idx.attr)
}

// CheckIndex returns ENOINDEX unless idx was built from t.
func CheckIndex(idx *Index, t *Tree) error {
	if idx == nil {
		return Errorf(ENOINDEX, "index not built")
	}
	if t == nil || idx.tree != t {
		return Errorf(ENOINDEX, "index was built for a different tree")
	}
	return nil
}

// Indexer builds an Index over a simplified tree.
type Indexer interface {
	BuildIndex(t *Tree) (*Index, error)
}

func sortedKeys(m map[string][]NodeID) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
