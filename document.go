package domdex

// Parser turns raw markup into a Tree.
type Parser interface {
	// Parse builds a tree from src. Malformed nesting is recovered.
	// Returns EPARSE if src is empty or cannot be decoded as text.
	Parse(src []byte) (*Tree, error)
}

// Mapping maps each simplified node identifier (the slice index) to the
// original node it was derived from.
type Mapping []NodeID

// Original returns the original node for a simplified node.
func (m Mapping) Original(id NodeID) (NodeID, bool) {
	if id < 0 || int(id) >= len(m) {
		return NoNode, false
	}
	return m[id], true
}

// Removals breaks down what simplification dropped.
type Removals struct {
	Code       int `json:"code"`       // code subtrees
	Media      int `json:"media"`      // media subtrees
	Metadata   int `json:"metadata"`   // metadata subtrees outside content roots
	Comments   int `json:"comments"`   // comment nodes
	Whitespace int `json:"whitespace"` // whitespace-only text nodes
	Collapsed  int `json:"collapsed"`  // wrapper elements collapsed into their child
	Merged     int `json:"merged"`     // text nodes merged into a preceding sibling
}

// Stats summarizes a simplification.
type Stats struct {
	OriginalNodes   int      `json:"originalNodeCount"`
	RetainedNodes   int      `json:"retainedNodeCount"`
	OriginalBytes   int      `json:"originalByteSize"`
	SimplifiedBytes int      `json:"simplifiedByteSize"`
	Removed         Removals `json:"removed"`
}

// Simplified is the result of a simplification.
type Simplified struct {
	Tree    *Tree
	Mapping Mapping
	Stats   Stats
}

// Simplifier prunes noise from a tree.
type Simplifier interface {
	// Simplify returns a new reduced tree and its mapping to t. A nil
	// ruleset means DefaultRuleset. Returns ERULESET for a malformed ruleset.
	Simplify(t *Tree, rules *Ruleset) (*Simplified, error)
}

// Document is one markup document carried through the whole pipeline.
type Document struct {
	Original   *Tree
	Simplified *Tree
	Mapping    Mapping
	Stats      Stats
	Index      *Index
}
