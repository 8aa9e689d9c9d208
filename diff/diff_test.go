package diff_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/diff"
	"github.com/fwojciec/domdex/html"
	"github.com/fwojciec/domdex/simplify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Differ implements domdex.Differ at compile time.
var _ domdex.Differ = (*diff.Differ)(nil)

func tree(t *testing.T, src string) *domdex.Tree {
	t.Helper()
	orig, err := html.NewParser().Parse([]byte(src))
	require.NoError(t, err)
	s, err := simplify.NewSimplifier().Simplify(orig, nil)
	require.NoError(t, err)
	return s.Tree
}

func run(t *testing.T, before, after string) *domdex.DiffResult {
	t.Helper()
	res, err := diff.NewDiffer().Diff(tree(t, before), tree(t, after))
	require.NoError(t, err)
	return res
}

func TestDiffer_Diff(t *testing.T) {
	t.Parallel()

	t.Run("finds nothing between a tree and itself", func(t *testing.T) {
		t.Parallel()

		tr := tree(t, `<html><body><div class="price">$10</div><ul><li>a</li><li>b</li></ul></body></html>`)

		res, err := diff.NewDiffer().Diff(tr, tr)

		require.NoError(t, err)
		assert.Equal(t, domdex.DiffSummary{}, res.Summary)
		assert.True(t, res.Empty())
		assert.NotNil(t, res.Changes)
	})

	t.Run("finds nothing between equal documents", func(t *testing.T) {
		t.Parallel()

		src := `<div id="a"><p>x <b>y</b></p><!-- c --></div>`
		res := run(t, src, src)

		assert.True(t, res.Empty())
	})

	t.Run("reports swapped siblings as moved only", func(t *testing.T) {
		t.Parallel()

		res := run(t, `<div><span>a</span><span>b</span></div>`, `<div><span>b</span><span>a</span></div>`)

		assert.Equal(t, domdex.DiffSummary{Moved: 1}, res.Summary)
		for _, c := range res.Changes {
			assert.Equal(t, domdex.Moved, c.Kind)
			assert.Equal(t, "span", c.Tag)
		}
	})

	t.Run("reports only the element moved to the end", func(t *testing.T) {
		t.Parallel()

		res := run(t,
			`<ul><li>x</li><li>y</li><li>z</li><li>w</li></ul>`,
			`<ul><li>y</li><li>z</li><li>w</li><li>x</li></ul>`)

		assert.Equal(t, domdex.DiffSummary{Moved: 1}, res.Summary)
		require.Len(t, res.Changes, 1)
		c := res.Changes[0]
		assert.Equal(t, "/ul[1]/li[1]", c.BeforePath)
		assert.Equal(t, "/ul[1]/li[4]", c.AfterPath)
		assert.Equal(t, 1, c.FromIndex)
		assert.Equal(t, 4, c.ToIndex)
	})

	t.Run("does not report a modified element in place as moved", func(t *testing.T) {
		t.Parallel()

		res := run(t,
			`<ul><li>a</li><li>b</li><li>c</li></ul>`,
			`<ul><li>a</li><li>B</li><li>c</li></ul>`)

		assert.Equal(t, domdex.DiffSummary{Modified: 1}, res.Summary)
	})

	t.Run("reports an appended subtree once", func(t *testing.T) {
		t.Parallel()

		res := run(t, `<ul><li>a</li></ul>`, `<ul><li>a</li><li>b</li></ul>`)

		require.Len(t, res.Changes, 1)
		c := res.Changes[0]
		assert.Equal(t, domdex.Added, c.Kind)
		assert.Equal(t, "li", c.Tag)
		assert.Equal(t, "/ul[1]/li[2]", c.AfterPath)
		assert.Equal(t, domdex.NoNode, c.Before)
		assert.Equal(t, 2, c.Size)
	})

	t.Run("reports a deleted subtree once", func(t *testing.T) {
		t.Parallel()

		res := run(t, `<div><p>a</p><p>b</p></div>`, `<div><p>b</p></div>`)

		require.Len(t, res.Changes, 1)
		c := res.Changes[0]
		assert.Equal(t, domdex.Removed, c.Kind)
		assert.Equal(t, "/div[1]/p[1]", c.BeforePath)
		assert.Equal(t, domdex.NoNode, c.After)
	})

	t.Run("does not report moves for an insertion at the front", func(t *testing.T) {
		t.Parallel()

		res := run(t, `<ul><li>a</li><li>b</li></ul>`, `<ul><li>z</li><li>a</li><li>b</li></ul>`)

		assert.Equal(t, domdex.DiffSummary{Added: 1}, res.Summary)
		assert.Equal(t, "/ul[1]/li[1]", res.Changes[0].AfterPath)
	})

	t.Run("reports changed text as modified with a word diff", func(t *testing.T) {
		t.Parallel()

		res := run(t, `<div><p>hello world</p></div>`, `<div><p>hello there world</p></div>`)

		require.Len(t, res.Changes, 1)
		c := res.Changes[0]
		assert.Equal(t, domdex.Modified, c.Kind)
		assert.Equal(t, "/div[1]/p[1]/text()[1]", c.BeforePath)
		require.NotNil(t, c.Text)
		assert.Equal(t, "hello world", c.Text.Before)
		assert.Equal(t, "hello there world", c.Text.After)
		assert.Equal(t, []domdex.TextOp{
			{Kind: domdex.TextEqual, Text: "hello"},
			{Kind: domdex.TextInsert, Text: "there"},
			{Kind: domdex.TextEqual, Text: "world"},
		}, c.Text.Ops)
	})

	t.Run("reports changed attributes as modified", func(t *testing.T) {
		t.Parallel()

		res := run(t, `<div class="a" id="x">t</div>`, `<div class="b" id="x" title="n">t</div>`)

		require.Len(t, res.Changes, 1)
		c := res.Changes[0]
		assert.Equal(t, domdex.Modified, c.Kind)
		assert.Equal(t, "div", c.Tag)
		assert.Equal(t, []domdex.AttrChange{
			{Kind: domdex.AttrChanged, Name: "class", Before: "a", After: "b"},
			{Kind: domdex.AttrAdded, Name: "title", After: "n"},
		}, c.Attrs)
		assert.Nil(t, c.Text)
	})

	t.Run("reports a renamed element as removed and added", func(t *testing.T) {
		t.Parallel()

		res := run(t, `<div><p>a</p></div>`, `<div><span>a</span></div>`)

		assert.Equal(t, domdex.DiffSummary{Added: 1, Removed: 1}, res.Summary)
		for _, c := range res.Changes {
			assert.Equal(t, 2, c.Size)
		}
	})

	t.Run("is symmetric", func(t *testing.T) {
		t.Parallel()

		cases := [][2]string{
			{`<div><span>a</span><span>b</span></div>`, `<div><span>b</span><span>a</span></div>`},
			{`<ul><li>x</li><li>y</li><li>z</li></ul>`, `<ul><li>z</li><li>y</li><li>x</li></ul>`},
			{`<div id="a"><p>one two</p><p>three</p></div>`, `<div id="a" class="c"><p>one 2</p><span>new</span></div>`},
			{`<body><h1>T</h1><p>a</p><p>b</p></body>`, `<body><p>b</p><h1>T</h1><p>c</p><p>a</p></body>`},
			{`<section><p>a b c</p></section><aside>x</aside>`, `<aside>x</aside><section><p>a c d</p><p>e</p></section>`},
			{`<ul><li>x</li><li>y</li><li>z</li><li>w</li></ul>`, `<ul><li>y</li><li>z</li><li>w</li><li>x</li></ul>`},
		}
		for _, tc := range cases {
			forward := run(t, tc[0], tc[1])
			backward := run(t, tc[1], tc[0])

			assert.Equal(t, forward.Summary.Added, backward.Summary.Removed, tc[0])
			assert.Equal(t, forward.Summary.Removed, backward.Summary.Added, tc[0])
			assert.Equal(t, forward.Summary.Modified, backward.Summary.Modified, tc[0])
			assert.Equal(t, forward.Summary.Moved, backward.Summary.Moved, tc[0])
			assert.Equal(t, describe(forward.Changes, false), describe(backward.Changes, true), tc[0])
		}
	})

	t.Run("returns EINVALID for nil trees", func(t *testing.T) {
		t.Parallel()

		_, err := diff.NewDiffer().Diff(nil, tree(t, `<p>x</p>`))

		assert.Equal(t, domdex.EINVALID, domdex.ErrorCode(err))
	})
}

// describe renders records as sorted strings; mirror swaps the sides so a
// reversed diff describes the same differences.
func describe(changes []domdex.ChangeRecord, mirror bool) []string {
	out := make([]string, 0, len(changes))
	for _, c := range changes {
		kind, before, after, from, to := c.Kind, c.BeforePath, c.AfterPath, c.FromIndex, c.ToIndex
		textBefore, textAfter := "", ""
		if c.Text != nil {
			textBefore, textAfter = c.Text.Before, c.Text.After
		}
		var attrs []string
		for _, a := range c.Attrs {
			ak, ab, aa := a.Kind, a.Before, a.After
			if mirror {
				ab, aa = aa, ab
				switch ak {
				case domdex.AttrAdded:
					ak = domdex.AttrRemoved
				case domdex.AttrRemoved:
					ak = domdex.AttrAdded
				}
			}
			attrs = append(attrs, fmt.Sprintf("%s:%s:%s:%s", ak, a.Name, ab, aa))
		}
		if mirror {
			before, after, from, to = after, before, to, from
			textBefore, textAfter = textAfter, textBefore
			switch kind {
			case domdex.Added:
				kind = domdex.Removed
			case domdex.Removed:
				kind = domdex.Added
			}
		}
		out = append(out, fmt.Sprintf("%s|%s|%s|%d|%d|%d|%v|%s|%s",
			kind, before, after, c.Size, from, to, attrs, textBefore, textAfter))
	}
	sort.Strings(out)
	return out
}

func TestTextDiff(t *testing.T) {
	t.Parallel()

	t.Run("merges runs", func(t *testing.T) {
		t.Parallel()

		d := diff.TextDiff("a b c d", "a x y d")

		assert.Equal(t, []domdex.TextOp{
			{Kind: domdex.TextEqual, Text: "a"},
			{Kind: domdex.TextDelete, Text: "b c"},
			{Kind: domdex.TextInsert, Text: "x y"},
			{Kind: domdex.TextEqual, Text: "d"},
		}, d.Ops)
	})

	t.Run("handles empty sides", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []domdex.TextOp{{Kind: domdex.TextInsert, Text: "new text"}}, diff.TextDiff("", "new text").Ops)
		assert.Equal(t, []domdex.TextOp{{Kind: domdex.TextDelete, Text: "old"}}, diff.TextDiff("old", "").Ops)
	})
}

func TestAttrChanges(t *testing.T) {
	t.Parallel()

	changes := diff.AttrChanges(
		[]domdex.Attr{{Name: "id", Value: "a"}, {Name: "rel", Value: "x"}},
		[]domdex.Attr{{Name: "id", Value: "a"}, {Name: "href", Value: "/"}},
	)

	assert.Equal(t, []domdex.AttrChange{
		{Kind: domdex.AttrAdded, Name: "href", After: "/"},
		{Kind: domdex.AttrRemoved, Name: "rel", Before: "x"},
	}, changes)
}
