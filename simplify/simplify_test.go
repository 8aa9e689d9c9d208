package simplify_test

import (
	"testing"

	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/html"
	"github.com/fwojciec/domdex/simplify"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Simplifier implements domdex.Simplifier at compile time.
var _ domdex.Simplifier = (*simplify.Simplifier)(nil)

func parse(t *testing.T, src string) *domdex.Tree {
	t.Helper()
	tree, err := html.NewParser().Parse([]byte(src))
	require.NoError(t, err)
	return tree
}

func run(t *testing.T, src string, rules *domdex.Ruleset) *domdex.Simplified {
	t.Helper()
	out, err := simplify.NewSimplifier().Simplify(parse(t, src), rules)
	require.NoError(t, err)
	return out
}

// nodes copies every node of a tree so trees can be compared.
func nodes(tree *domdex.Tree) []domdex.Node {
	out := make([]domdex.Node, tree.Len())
	for i := range out {
		out[i] = *tree.Node(domdex.NodeID(i))
	}
	return out
}

func tags(tree *domdex.Tree) []string {
	var out []string
	for i := 0; i < tree.Len(); i++ {
		n := tree.Node(domdex.NodeID(i))
		switch n.Kind {
		case domdex.ElementNode:
			out = append(out, n.Tag)
		case domdex.TextNode:
			out = append(out, "#"+n.Text)
		case domdex.CommentNode:
			out = append(out, "<!--"+n.Text+"-->")
		}
	}
	return out
}

func TestSimplifier_Simplify(t *testing.T) {
	t.Parallel()

	t.Run("removes script and head from a priced page", func(t *testing.T) {
		t.Parallel()

		src := `<html><head><script>x=1</script></head><body><div class="price">$10</div></body></html>`
		out := run(t, src, nil)

		assert.Equal(t, []string{"html", "body", "div", "#$10"}, tags(out.Tree))
		assert.Equal(t, 8, out.Stats.OriginalNodes)
		assert.Equal(t, 5, out.Stats.RetainedNodes)
		assert.Less(t, out.Stats.RetainedNodes, out.Stats.OriginalNodes)
		assert.Less(t, out.Stats.SimplifiedBytes, out.Stats.OriginalBytes)
		assert.Equal(t, 1, out.Stats.Removed.Metadata)
		assert.Equal(t, "price", out.Tree.Node(3).Classes()[0])
	})

	t.Run("counts removals per category", func(t *testing.T) {
		t.Parallel()

		src := `<body><style>p{}</style><img src="a.png"><!-- c --><video><source src="v"></video><p>x</p>  </body>`
		out := run(t, src, nil)

		assert.Equal(t, []string{"body", "p", "#x"}, tags(out.Tree))
		assert.Equal(t, domdex.Removals{Code: 1, Media: 2, Comments: 1, Whitespace: 1}, out.Stats.Removed)
	})

	t.Run("removes the body of a self-closed script", func(t *testing.T) {
		t.Parallel()

		out := run(t, `<body><script src="a.js"/>var secret=1;</script><p>x</p></body>`, nil)

		assert.Equal(t, []string{"body", "p", "#x"}, tags(out.Tree))
		assert.Equal(t, 1, out.Stats.Removed.Code)
	})

	t.Run("normalizes whitespace in text", func(t *testing.T) {
		t.Parallel()

		out := run(t, "<p>\n  Hello   \t brave\n new   world  </p>", nil)

		assert.Equal(t, []string{"p", "#Hello brave new world"}, tags(out.Tree))
	})

	t.Run("drops whitespace-only text", func(t *testing.T) {
		t.Parallel()

		out := run(t, "<ul>\n  <li>a</li>\n  <li>b</li>\n</ul>", nil)

		assert.Equal(t, []string{"ul", "li", "#a", "li", "#b"}, tags(out.Tree))
		assert.Equal(t, 3, out.Stats.Removed.Whitespace)
	})

	t.Run("merges text left adjacent by a removal", func(t *testing.T) {
		t.Parallel()

		out := run(t, `<p>Hello <script>x()</script> world</p>`, nil)

		assert.Equal(t, []string{"p", "#Hello world"}, tags(out.Tree))
		assert.Equal(t, 1, out.Stats.Removed.Merged)
		assert.Equal(t, 1, out.Stats.Removed.Code)
	})

	t.Run("keeps metadata inside content roots", func(t *testing.T) {
		t.Parallel()

		out := run(t, `<head><title>T</title></head><body><meta itemprop="price" content="10"><p>x</p></body>`, nil)

		assert.Equal(t, []string{"body", "meta", "p", "#x"}, tags(out.Tree))
		assert.Equal(t, 1, out.Stats.Removed.Metadata)
	})

	t.Run("keeps comments when configured", func(t *testing.T) {
		t.Parallel()

		rules := domdex.DefaultRuleset()
		rules.KeepComments = true
		out := run(t, `<p>a<!--note-->b</p>`, rules)

		assert.Equal(t, []string{"p", "#a", "<!--note-->", "#b"}, tags(out.Tree))
	})

	t.Run("does not collapse wrappers by default", func(t *testing.T) {
		t.Parallel()

		out := run(t, `<body><div><div><p>a</p></div></div></body>`, nil)

		assert.Equal(t, []string{"body", "div", "div", "p", "#a"}, tags(out.Tree))
	})

	t.Run("collapses wrapper chains when enabled", func(t *testing.T) {
		t.Parallel()

		rules := domdex.DefaultRuleset()
		rules.CollapseWrappers = true
		out := run(t, `<body><div style="x"><div><p>a</p></div></div><section id="s"><p>b</p></section></body>`, rules)

		assert.Equal(t, []string{"body", "p", "#a", "section", "p", "#b"}, tags(out.Tree))
		assert.Equal(t, 2, out.Stats.Removed.Collapsed)
	})

	t.Run("maps every node to an original with the same tag and attributes", func(t *testing.T) {
		t.Parallel()

		src := `<html><head><meta charset="utf-8"></head><body id="b"><div class="a b"><!--x--><span data-k="v">t</span> u</div><img src="i"></body></html>`
		orig := parse(t, src)
		rules := domdex.DefaultRuleset()
		rules.CollapseWrappers = true

		out, err := simplify.NewSimplifier().Simplify(orig, rules)
		require.NoError(t, err)

		require.Len(t, out.Mapping, out.Tree.Len())
		for i := 0; i < out.Tree.Len(); i++ {
			id := domdex.NodeID(i)
			o, ok := out.Mapping.Original(id)
			require.True(t, ok)
			require.True(t, orig.Valid(o))
			n, on := out.Tree.Node(id), orig.Node(o)
			assert.Equal(t, n.Kind, on.Kind)
			assert.Equal(t, n.Tag, on.Tag)
			assert.Equal(t, n.Attrs, on.Attrs)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		srcs := []string{
			`<html><head><script>x=1</script></head><body><div class="price">$10</div></body></html>`,
			`<body> a <b>b</b> c <!--x--> d <script>s</script> e </body>`,
			`<div><div><div><p>deep</p></div></div><meta name="m"></div>`,
			`<ul><li>one<li>two <img src="x"> three</ul>`,
		}
		for _, src := range srcs {
			for _, collapse := range []bool{false, true} {
				rules := domdex.DefaultRuleset()
				rules.CollapseWrappers = collapse
				rules.KeepComments = collapse

				once := run(t, src, rules)
				twice, err := simplify.NewSimplifier().Simplify(once.Tree, rules)
				require.NoError(t, err)

				if diff := cmp.Diff(nodes(once.Tree), nodes(twice.Tree)); diff != "" {
					t.Errorf("simplify not idempotent for %q (-once +twice):\n%s", src, diff)
				}
				for i, o := range twice.Mapping {
					assert.Equal(t, domdex.NodeID(i), o)
				}
			}
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		src := `<body><p>a <i>b</i></p><p>c</p></body>`
		first := run(t, src, nil)
		second := run(t, src, nil)

		assert.Empty(t, cmp.Diff(nodes(first.Tree), nodes(second.Tree)))
		assert.Equal(t, first.Mapping, second.Mapping)
		assert.Equal(t, first.Stats, second.Stats)
	})

	t.Run("does not modify the input tree", func(t *testing.T) {
		t.Parallel()

		orig := parse(t, `<body><script>x</script><p> a </p></body>`)
		before := nodes(orig)

		_, err := simplify.NewSimplifier().Simplify(orig, nil)
		require.NoError(t, err)

		assert.Empty(t, cmp.Diff(before, nodes(orig)))
	})

	t.Run("returns ERULESET for malformed ruleset", func(t *testing.T) {
		t.Parallel()

		rules := domdex.DefaultRuleset()
		rules.MediaTags = append(rules.MediaTags, "script")

		_, err := simplify.NewSimplifier().Simplify(parse(t, `<p>x</p>`), rules)

		assert.Equal(t, domdex.ERULESET, domdex.ErrorCode(err))
	})

	t.Run("returns EINVALID for nil tree", func(t *testing.T) {
		t.Parallel()

		_, err := simplify.NewSimplifier().Simplify(nil, nil)

		assert.Equal(t, domdex.EINVALID, domdex.ErrorCode(err))
	})
}
