package diff

import (
	"sort"
	"strings"

	"github.com/fwojciec/domdex"
)

// TextDiff computes a word-level edit script between two texts. Runs of
// equal, deleted and inserted words are merged into single operations.
func TextDiff(before, after string) *domdex.TextDiff {
	a, b := strings.Fields(before), strings.Fields(after)
	d := &domdex.TextDiff{Before: before, After: after}

	var kinds []domdex.TextOpKind
	var words []string
	emit := func(k domdex.TextOpKind, w string) {
		kinds = append(kinds, k)
		words = append(words, w)
	}

	var pairs []pair
	if (len(a)+1)*(len(b)+1) <= maxAlignCells {
		pairs = lcs(len(a), len(b),
			func(i, j int) bool { return a[i] == b[j] },
			func(i, j int) bool { return a[i] < b[j] },
		)
	}

	i, j := 0, 0
	for _, p := range pairs {
		for ; i < p.i; i++ {
			emit(domdex.TextDelete, a[i])
		}
		for ; j < p.j; j++ {
			emit(domdex.TextInsert, b[j])
		}
		emit(domdex.TextEqual, a[i])
		i++
		j++
	}
	for ; i < len(a); i++ {
		emit(domdex.TextDelete, a[i])
	}
	for ; j < len(b); j++ {
		emit(domdex.TextInsert, b[j])
	}

	for k := 0; k < len(kinds); {
		end := k + 1
		for end < len(kinds) && kinds[end] == kinds[k] {
			end++
		}
		d.Ops = append(d.Ops, domdex.TextOp{Kind: kinds[k], Text: strings.Join(words[k:end], " ")})
		k = end
	}
	return d
}

// AttrChanges compares two attribute lists by name. Changes are sorted by
// attribute name.
func AttrChanges(before, after []domdex.Attr) []domdex.AttrChange {
	bm := attrMap(before)
	am := attrMap(after)

	var changes []domdex.AttrChange
	for name, bv := range bm {
		av, ok := am[name]
		switch {
		case !ok:
			changes = append(changes, domdex.AttrChange{Kind: domdex.AttrRemoved, Name: name, Before: bv})
		case av != bv:
			changes = append(changes, domdex.AttrChange{Kind: domdex.AttrChanged, Name: name, Before: bv, After: av})
		}
	}
	for name, av := range am {
		if _, ok := bm[name]; !ok {
			changes = append(changes, domdex.AttrChange{Kind: domdex.AttrAdded, Name: name, After: av})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
	return changes
}

func attrMap(attrs []domdex.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if _, ok := m[a.Name]; !ok {
			m[a.Name] = a.Value
		}
	}
	return m
}
