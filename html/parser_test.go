package html_test

import (
	"testing"

	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Parser implements domdex.Parser at compile time.
var _ domdex.Parser = (*html.Parser)(nil)

func parse(t *testing.T, src string) *domdex.Tree {
	t.Helper()
	tree, err := html.NewParser().Parse([]byte(src))
	require.NoError(t, err)
	return tree
}

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("assigns identifiers in document order", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<div><h1>Title</h1><p>Body</p></div>`)

		require.Equal(t, 6, tree.Len())
		assert.Equal(t, domdex.DocumentNode, tree.Node(0).Kind)
		assert.Equal(t, "div", tree.Node(1).Tag)
		assert.Equal(t, "h1", tree.Node(2).Tag)
		assert.Equal(t, "Title", tree.Node(3).Text)
		assert.Equal(t, "p", tree.Node(4).Tag)
		assert.Equal(t, "Body", tree.Node(5).Text)
		assert.Equal(t, []domdex.NodeID{2, 4}, tree.Node(1).Children)
		assert.Equal(t, domdex.NodeID(1), tree.Node(4).Parent)
	})

	t.Run("records byte offsets", func(t *testing.T) {
		t.Parallel()

		src := `<div><p>a<p>b</div>`
		tree := parse(t, src)

		div := tree.Node(1)
		assert.Equal(t, 0, div.Start)
		assert.Equal(t, len(src), div.End)

		first := tree.Node(2)
		assert.Equal(t, "p", first.Tag)
		assert.Equal(t, 5, first.Start)
		assert.Equal(t, 9, first.End)

		second := tree.Node(4)
		assert.Equal(t, "p", second.Tag)
		assert.Equal(t, 9, second.Start)
		assert.Equal(t, 13, second.End)

		text := tree.Node(3)
		assert.Equal(t, "a", src[text.Start:text.End])
	})

	t.Run("closes paragraphs implicitly", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<p>one<div>two</div>`)

		assert.Equal(t, []domdex.NodeID{1, 3}, tree.Node(0).Children)
		assert.Equal(t, "div", tree.Node(3).Tag)
	})

	t.Run("closes list items implicitly", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<ul><li>one<li>two</ul>`)

		ul := tree.Node(1)
		require.Len(t, ul.Children, 2)
		assert.Equal(t, "one", tree.OwnText(ul.Children[0]))
		assert.Equal(t, "two", tree.OwnText(ul.Children[1]))
	})

	t.Run("closes table cells implicitly", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<table><tr><td>a<td>b<tr><td>c</table>`)

		table := tree.Node(1)
		require.Len(t, table.Children, 2)
		assert.Len(t, tree.Node(table.Children[0]).Children, 2)
		assert.Len(t, tree.Node(table.Children[1]).Children, 1)
	})

	t.Run("ignores stray end tags", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<div>a</span>b</div>`)

		div := tree.Node(1)
		require.Len(t, div.Children, 1)
		assert.Equal(t, "ab", tree.Node(div.Children[0]).Text)
	})

	t.Run("closes open elements at end of input", func(t *testing.T) {
		t.Parallel()

		src := `<div><span>x`
		tree := parse(t, src)

		assert.Equal(t, len(src), tree.Node(1).End)
		assert.Equal(t, len(src), tree.Node(2).End)
		assert.Equal(t, "x", tree.InnerText(1))
	})

	t.Run("keeps void elements childless", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<p>a<br>b<img src="x.png">c</p>`)

		p := tree.Node(1)
		require.Len(t, p.Children, 5)
		assert.Equal(t, "br", tree.Node(p.Children[1]).Tag)
		assert.Empty(t, tree.Node(p.Children[1]).Children)
		assert.Equal(t, "img", tree.Node(p.Children[3]).Tag)
	})

	t.Run("keeps the body of a self-closed script inside it", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<body><script src="x"/>code</script><p>x</p></body>`)

		assert.Equal(t, []domdex.NodeID{2, 4}, tree.Node(1).Children)
		assert.Equal(t, "script", tree.Node(2).Tag)
		assert.Equal(t, []domdex.NodeID{3}, tree.Node(2).Children)
		assert.Equal(t, "code", tree.Node(3).Text)
		assert.Equal(t, "p", tree.Node(4).Tag)
	})

	t.Run("ignores the trailing slash of non-void elements", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<body><div/><p>x</p></body>`)

		assert.Equal(t, "div", tree.Node(2).Tag)
		assert.Equal(t, "p", tree.Node(3).Tag)
		assert.Equal(t, domdex.NodeID(2), tree.Node(3).Parent)
	})

	t.Run("honors the trailing slash in svg", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<svg><path d="M0"/><circle r="1"/></svg><p>x</p>`)

		assert.Equal(t, []domdex.NodeID{2, 3}, tree.Node(1).Children)
		assert.Empty(t, tree.Node(2).Children)
		assert.Equal(t, domdex.NodeID(0), tree.Node(4).Parent)
	})

	t.Run("keeps unknown tags as elements", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<foo-bar data-x="1">y</foo-bar>`)

		n := tree.Node(1)
		assert.Equal(t, "foo-bar", n.Tag)
		v, ok := n.Attr("data-x")
		assert.True(t, ok)
		assert.Equal(t, "1", v)
	})

	t.Run("keeps comments and skips doctype", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<!DOCTYPE html><!-- note --><p>x</p>`)

		root := tree.Node(0)
		require.Len(t, root.Children, 2)
		assert.Equal(t, domdex.CommentNode, tree.Node(1).Kind)
		assert.Equal(t, " note ", tree.Node(1).Text)
		assert.Equal(t, "p", tree.Node(2).Tag)
	})

	t.Run("keeps first of duplicated attributes", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<a href="x" href="y" title="t">link</a>`)

		assert.Equal(t, []domdex.Attr{{Name: "href", Value: "x"}, {Name: "title", Value: "t"}}, tree.Node(1).Attrs)
	})

	t.Run("unescapes entities in text", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<p>a &amp; b</p>`)

		assert.Equal(t, "a & b", tree.Node(2).Text)
	})

	t.Run("keeps script content raw", func(t *testing.T) {
		t.Parallel()

		tree := parse(t, `<script>if (a < b) { x(); }</script>`)

		assert.Equal(t, "if (a < b) { x(); }", tree.Node(2).Text)
	})

	t.Run("decodes declared charset", func(t *testing.T) {
		t.Parallel()

		src := []byte("<meta charset=\"windows-1252\"><p>caf\xe9</p>")
		tree, err := html.NewParser().Parse(src)

		require.NoError(t, err)
		assert.Equal(t, "café", tree.InnerText(tree.Root()))
	})

	t.Run("decodes charset supplied by caller", func(t *testing.T) {
		t.Parallel()

		p := &html.Parser{Charset: "iso-8859-1"}
		tree, err := p.Parse([]byte("<p>na\xefve</p>"))

		require.NoError(t, err)
		assert.Equal(t, "naïve", tree.InnerText(tree.Root()))
	})

	t.Run("returns EPARSE for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := html.NewParser().Parse(nil)

		assert.Equal(t, domdex.EPARSE, domdex.ErrorCode(err))
	})

	t.Run("returns EPARSE for whitespace-only input", func(t *testing.T) {
		t.Parallel()

		_, err := html.NewParser().Parse([]byte(" \n\t "))

		assert.Equal(t, domdex.EPARSE, domdex.ErrorCode(err))
	})

	t.Run("returns EPARSE for undeclared non-UTF-8 input", func(t *testing.T) {
		t.Parallel()

		_, err := html.NewParser().Parse([]byte("<p>\xff\xfd</p>"))

		assert.Equal(t, domdex.EPARSE, domdex.ErrorCode(err))
	})

	t.Run("returns EPARSE for non-UTF-8 input that only mentions a charset", func(t *testing.T) {
		t.Parallel()

		_, err := html.NewParser().Parse([]byte("<p>charset is \xff</p>"))

		assert.Equal(t, domdex.EPARSE, domdex.ErrorCode(err))
	})

	t.Run("decodes charset declared with http-equiv", func(t *testing.T) {
		t.Parallel()

		src := []byte(`<meta http-equiv="Content-Type" content="text/html; charset=windows-1252"><p>caf` + "\xe9</p>")
		tree, err := html.NewParser().Parse(src)

		require.NoError(t, err)
		assert.Equal(t, "café", tree.InnerText(tree.Root()))
	})

	t.Run("returns EPARSE for unknown charset", func(t *testing.T) {
		t.Parallel()

		p := &html.Parser{Charset: "klingon"}
		_, err := p.Parse([]byte("<p>x</p>"))

		assert.Equal(t, domdex.EPARSE, domdex.ErrorCode(err))
	})
}
