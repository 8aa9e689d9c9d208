package diff

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/domdex"
)

// hashes holds two structural hashes per node. content ignores the order
// of children (it combines the sorted child content hashes); order also
// covers child order. Equal order hashes mean identical subtrees; equal
// content hashes mean the subtrees differ at most by reordering.
type hashes struct {
	content []uint64
	order   []uint64
}

func hashTree(t *domdex.Tree) hashes {
	n := t.Len()
	h := hashes{
		content: make([]uint64, n),
		order:   make([]uint64, n),
	}

	var buf []byte
	var childHashes []uint64
	// Children always have larger identifiers than their parent.
	for i := n - 1; i >= 0; i-- {
		id := domdex.NodeID(i)
		node := t.Node(id)

		buf = header(buf[:0], node)
		if node.Kind == domdex.TextNode || node.Kind == domdex.CommentNode {
			sum := xxhash.Sum64(buf)
			h.content[i], h.order[i] = sum, sum
			continue
		}

		ordered := buf
		childHashes = childHashes[:0]
		for _, c := range node.Children {
			ordered = binary.LittleEndian.AppendUint64(ordered, h.order[c])
			childHashes = append(childHashes, h.content[c])
		}
		h.order[i] = xxhash.Sum64(ordered)
		buf = ordered

		sort.Slice(childHashes, func(a, b int) bool { return childHashes[a] < childHashes[b] })
		content := header(buf[:0], node)
		for _, c := range childHashes {
			content = binary.LittleEndian.AppendUint64(content, c)
		}
		h.content[i] = xxhash.Sum64(content)
		buf = content
	}
	return h
}

// header encodes what a node is apart from its children: its kind, tag
// and sorted attributes, or its text.
func header(buf []byte, n *domdex.Node) []byte {
	buf = append(buf, byte(n.Kind))
	switch n.Kind {
	case domdex.TextNode, domdex.CommentNode:
		return append(buf, n.Text...)
	}

	buf = append(buf, n.Tag...)
	buf = append(buf, 0)
	attrs := make([]domdex.Attr, len(n.Attrs))
	copy(attrs, n.Attrs)
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	for _, a := range attrs {
		buf = append(buf, a.Name...)
		buf = append(buf, '=')
		buf = append(buf, a.Value...)
		buf = append(buf, 0)
	}
	return append(buf, 1)
}
