// Package diff computes edit scripts between two trees.
package diff

import (
	"sort"

	"github.com/fwojciec/domdex"
)

// Ensure Differ implements domdex.Differ at compile time.
var _ domdex.Differ = (*Differ)(nil)

// maxAlignCells bounds the alignment table of one parent. Larger child
// lists are paired by hash and key only.
const maxAlignCells = 1 << 22

// Differ compares trees with structural hashes.
//
// Children of a changed parent are paired in three passes: a longest common
// subsequence over content hashes, then any remaining children with equal
// content hashes in order, then remaining children with the same key (tag
// and id for elements, kind for text and comments) in order. Keyed pairs are
// compared recursively. Pairs from the common subsequence keep their
// position. Any other pair is Moved when its order relative to another pair
// differs between the two trees. Unpaired children are Removed or Added with
// their whole subtree.
type Differ struct{}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff returns the edit script turning before into after.
func (d *Differ) Diff(before, after *domdex.Tree) (*domdex.DiffResult, error) {
	if before == nil || after == nil {
		return nil, domdex.Errorf(domdex.EINVALID, "both trees required")
	}

	w := &walker{
		a:  before,
		b:  after,
		ha: hashTree(before),
		hb: hashTree(after),
	}
	w.node(before.Root(), after.Root())
	return domdex.NewDiffResult(w.changes), nil
}

type walker struct {
	a, b    *domdex.Tree
	ha, hb  hashes
	changes []domdex.ChangeRecord
}

func (w *walker) node(a, b domdex.NodeID) {
	if w.ha.order[a] == w.hb.order[b] {
		return
	}

	na, nb := w.a.Node(a), w.b.Node(b)
	switch na.Kind {
	case domdex.TextNode, domdex.CommentNode:
		if na.Text != nb.Text {
			w.changes = append(w.changes, domdex.ChangeRecord{
				Kind:       domdex.Modified,
				Before:     a,
				After:      b,
				BeforePath: w.a.XPath(a),
				AfterPath:  w.b.XPath(b),
				Text:       TextDiff(na.Text, nb.Text),
			})
		}
		return
	case domdex.ElementNode:
		if attrs := AttrChanges(na.Attrs, nb.Attrs); len(attrs) > 0 {
			w.changes = append(w.changes, domdex.ChangeRecord{
				Kind:       domdex.Modified,
				Before:     a,
				After:      b,
				Tag:        na.Tag,
				BeforePath: w.a.XPath(a),
				AfterPath:  w.b.XPath(b),
				Attrs:      attrs,
			})
		}
	}
	w.children(a, b)
}

type pair struct {
	i, j  int
	fixed bool // part of the common subsequence
}

func (w *walker) children(a, b domdex.NodeID) {
	ca, cb := w.a.Node(a).Children, w.b.Node(b).Children
	ka := make([]uint64, len(ca))
	for i, c := range ca {
		ka[i] = w.ha.content[c]
	}
	kb := make([]uint64, len(cb))
	for j, c := range cb {
		kb[j] = w.hb.content[c]
	}

	usedA := make([]bool, len(ca))
	usedB := make([]bool, len(cb))
	var pairs []pair
	link := func(i, j int) {
		usedA[i], usedB[j] = true, true
		pairs = append(pairs, pair{i: i, j: j})
	}

	for _, p := range align(ka, kb) {
		usedA[p.i], usedB[p.j] = true, true
		pairs = append(pairs, pair{i: p.i, j: p.j, fixed: true})
	}
	zip(ka, kb, usedA, usedB, link)

	keysA := make([]string, len(ca))
	for i, c := range ca {
		keysA[i] = key(w.a.Node(c))
	}
	keysB := make([]string, len(cb))
	for j, c := range cb {
		keysB[j] = key(w.b.Node(c))
	}
	zip(keysA, keysB, usedA, usedB, link)

	sort.Slice(pairs, func(x, y int) bool { return pairs[x].i < pairs[y].i })
	moved := crossing(pairs)

	for k, p := range pairs {
		x, y := ca[p.i], cb[p.j]
		if !p.fixed && moved[k] {
			w.changes = append(w.changes, domdex.ChangeRecord{
				Kind:       domdex.Moved,
				Before:     x,
				After:      y,
				Tag:        w.a.Node(x).Tag,
				BeforePath: w.a.XPath(x),
				AfterPath:  w.b.XPath(y),
				FromIndex:  p.i + 1,
				ToIndex:    p.j + 1,
			})
		}
		w.node(x, y)
	}

	for i, c := range ca {
		if !usedA[i] {
			w.changes = append(w.changes, domdex.ChangeRecord{
				Kind:       domdex.Removed,
				Before:     c,
				After:      domdex.NoNode,
				Tag:        w.a.Node(c).Tag,
				BeforePath: w.a.XPath(c),
				Size:       w.a.SubtreeSize(c),
			})
		}
	}
	for j, c := range cb {
		if !usedB[j] {
			w.changes = append(w.changes, domdex.ChangeRecord{
				Kind:      domdex.Added,
				Before:    domdex.NoNode,
				After:     c,
				Tag:       w.b.Node(c).Tag,
				AfterPath: w.b.XPath(c),
				Size:      w.b.SubtreeSize(c),
			})
		}
	}
}

// crossing reports, for pairs sorted by i, whether each pair is ordered
// differently from at least one other pair in the second sequence.
func crossing(pairs []pair) []bool {
	out := make([]bool, len(pairs))
	maxJ := -1
	for k, p := range pairs {
		if maxJ > p.j {
			out[k] = true
		}
		maxJ = max(maxJ, p.j)
	}
	minJ := -1
	for k := len(pairs) - 1; k >= 0; k-- {
		p := pairs[k]
		if minJ >= 0 && minJ < p.j {
			out[k] = true
		}
		if minJ < 0 || p.j < minJ {
			minJ = p.j
		}
	}
	return out
}

// key identifies children that may be compared with each other.
func key(n *domdex.Node) string {
	switch n.Kind {
	case domdex.TextNode:
		return "#text"
	case domdex.CommentNode:
		return "#comment"
	}
	id, _ := n.Attr("id")
	return n.Tag + "#" + id
}

// zip pairs unused elements with equal keys in order of appearance.
func zip[K comparable](ka, kb []K, usedA, usedB []bool, link func(i, j int)) {
	queues := make(map[K][]int)
	for i, k := range ka {
		if !usedA[i] {
			queues[k] = append(queues[k], i)
		}
	}
	for j, k := range kb {
		if usedB[j] {
			continue
		}
		if q := queues[k]; len(q) > 0 {
			queues[k] = q[1:]
			link(q[0], j)
		}
	}
}

// align returns a longest common subsequence of equal hashes. Common
// prefixes and suffixes are paired first. Ties are broken by skipping the
// element with the smaller hash, which makes the alignment of (b, a) the
// mirror image of the alignment of (a, b).
func align(a, b []uint64) []pair {
	var pairs []pair
	lo := 0
	for lo < len(a) && lo < len(b) && a[lo] == b[lo] {
		pairs = append(pairs, pair{i: lo, j: lo})
		lo++
	}
	hiA, hiB := len(a), len(b)
	var suffix []pair
	for hiA > lo && hiB > lo && a[hiA-1] == b[hiB-1] {
		hiA--
		hiB--
		suffix = append(suffix, pair{i: hiA, j: hiB})
	}

	n, m := hiA-lo, hiB-lo
	if n > 0 && m > 0 && (n+1)*(m+1) <= maxAlignCells {
		for _, p := range lcs(n, m,
			func(i, j int) bool { return a[lo+i] == b[lo+j] },
			func(i, j int) bool { return a[lo+i] < b[lo+j] },
		) {
			pairs = append(pairs, pair{i: lo + p.i, j: lo + p.j})
		}
	}

	for k := len(suffix) - 1; k >= 0; k-- {
		pairs = append(pairs, suffix[k])
	}
	return pairs
}

// lcs aligns sequences of length n and m. eq compares elements; skipA
// decides ties, returning true when the element of the first sequence
// should be dropped.
func lcs(n, m int, eq func(i, j int) bool, skipA func(i, j int) bool) []pair {
	width := m + 1
	table := make([]int32, (n+1)*width)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			switch {
			case eq(i, j):
				table[i*width+j] = table[(i+1)*width+j+1] + 1
			default:
				down, right := table[(i+1)*width+j], table[i*width+j+1]
				table[i*width+j] = max(down, right)
			}
		}
	}

	var pairs []pair
	i, j := 0, 0
	for i < n && j < m {
		if eq(i, j) {
			pairs = append(pairs, pair{i: i, j: j})
			i++
			j++
			continue
		}
		down, right := table[(i+1)*width+j], table[i*width+j+1]
		switch {
		case down > right:
			i++
		case right > down:
			j++
		case skipA(i, j):
			i++
		default:
			j++
		}
	}
	return pairs
}
