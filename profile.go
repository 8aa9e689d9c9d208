package domdex

import "sort"

// Profile describes the shape of a tree.
type Profile struct {
	Elements      int            `json:"elements"`
	MaxDepth      int            `json:"maxDepth"`
	Tags          map[string]int `json:"tags"`
	Depths        map[int]int    `json:"depths"`
	Attributes    map[string]int `json:"attributes"`
	TopTags       []Count        `json:"topTags"`
	TopAttributes []Count        `json:"topAttributes"`
	TextNodes     int            `json:"textNodes"`
	CommentNodes  int            `json:"commentNodes"`
}

// Count is a named frequency.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// profileTop bounds TopTags and TopAttributes.
const profileTop = 10

// Describe computes the tag, depth and attribute distributions of the
// elements of t.
func Describe(t *Tree) Profile {
	p := Profile{
		Tags:       make(map[string]int),
		Depths:     make(map[int]int),
		Attributes: make(map[string]int),
	}
	for i := 0; i < t.Len(); i++ {
		id := NodeID(i)
		n := t.Node(id)
		switch n.Kind {
		case TextNode:
			p.TextNodes++
			continue
		case CommentNode:
			p.CommentNodes++
			continue
		case ElementNode:
		default:
			continue
		}
		p.Elements++
		p.Tags[n.Tag]++
		d := t.Depth(id)
		p.Depths[d]++
		if d > p.MaxDepth {
			p.MaxDepth = d
		}
		for _, a := range n.Attrs {
			p.Attributes[a.Name]++
		}
	}
	p.TopTags = topCounts(p.Tags, profileTop)
	p.TopAttributes = topCounts(p.Attributes, profileTop)
	return p
}

// topCounts returns the n largest counts, ties broken by name.
func topCounts(m map[string]int, n int) []Count {
	counts := make([]Count, 0, len(m))
	for k, v := range m {
		counts = append(counts, Count{Name: k, Count: v})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
