package xpath_test

import (
	"testing"

	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/html"
	"github.com/fwojciec/domdex/index"
	"github.com/fwojciec/domdex/selector"
	"github.com/fwojciec/domdex/simplify"
	"github.com/fwojciec/domdex/xpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Resolver implements domdex.Resolver at compile time.
var _ domdex.Resolver = (*xpath.Resolver)(nil)

// catalog simplifies to:
//
//	0 root, 1 html, 2 body, 3 div#main.content, 4 ul.items,
//	5 li.item, 6 "One", 7 li.item.sale, 8 "Two", 9 li.item, 10 "Three",
//	11 p, 12 "Intro", 13 p.note, 14 "Note", 15 div.content, 16 span, 17 "Tail"
const catalog = `<html><head><title>Shop</title></head><body>
<div id="main" class="content">
  <ul class="items">
    <li class="item">One</li>
    <li class="item sale">Two</li>
    <li class="item">Three</li>
  </ul>
  <p>Intro</p>
  <p class="note" data-x="1">Note</p>
</div>
<div class="content"><span>Tail</span></div>
</body></html>`

func prepare(t *testing.T, src string) (*domdex.Tree, *domdex.Index) {
	t.Helper()
	orig, err := html.NewParser().Parse([]byte(src))
	require.NoError(t, err)
	s, err := simplify.NewSimplifier().Simplify(orig, nil)
	require.NoError(t, err)
	idx, err := index.NewBuilder().BuildIndex(s.Tree)
	require.NoError(t, err)
	return s.Tree, idx
}

func ids(results []domdex.MatchResult) []domdex.NodeID {
	out := []domdex.NodeID{}
	for _, r := range results {
		out = append(out, r.NodeID)
	}
	return out
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("evaluates full xpath expressions", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, catalog)
		r := xpath.NewResolver()

		cases := []struct {
			expr string
			want []domdex.NodeID
		}{
			{"//li[contains(@class, 'sale')]", []domdex.NodeID{7}},
			{"//li[last()]", []domdex.NodeID{9}},
			{"//ul/li[position() > 1]", []domdex.NodeID{7, 9}},
			{"//p/text()", []domdex.NodeID{11, 13}},
			{"//@data-x", []domdex.NodeID{13}},
			{"//li[normalize-space(.)='Three']", []domdex.NodeID{9}},
			{"//span/ancestor::div", []domdex.NodeID{15}},
			{"//li[2]/following-sibling::li", []domdex.NodeID{9}},
			{"//li[2]/preceding-sibling::li", []domdex.NodeID{5}},
			{"//table", []domdex.NodeID{}},
		}
		for _, tc := range cases {
			results, err := r.Resolve(tree, idx, tc.expr)
			require.NoError(t, err, tc.expr)
			assert.Equal(t, tc.want, ids(results), tc.expr)
		}
	})

	t.Run("resolves generated paths back to their node", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, catalog)
		r := xpath.NewResolver()

		for _, id := range tree.Elements() {
			results, err := r.Resolve(tree, idx, tree.XPath(id))
			require.NoError(t, err)
			assert.Equal(t, []domdex.NodeID{id}, ids(results), tree.XPath(id))
		}
	})

	t.Run("agrees with the native engine on the shared subset", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, catalog)
		native := selector.NewResolver()
		full := xpath.NewResolver()

		for _, expr := range []string{"/html/body/div", "//li[2]", "//li[@class='item']", "//div[@id='main']//p", "//li[text()='Three']"} {
			want, err := native.Resolve(tree, idx, expr)
			require.NoError(t, err)
			got, err := full.Resolve(tree, idx, expr)
			require.NoError(t, err)
			assert.Equal(t, want, got, expr)
		}
	})

	t.Run("returns ESELECTOR for malformed expressions", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, catalog)

		_, err := xpath.NewResolver().Resolve(tree, idx, "//div[")

		assert.Equal(t, domdex.ESELECTOR, domdex.ErrorCode(err))
	})

	t.Run("returns ENOINDEX without an index for the tree", func(t *testing.T) {
		t.Parallel()

		tree, _ := prepare(t, catalog)

		_, err := xpath.NewResolver().Resolve(tree, nil, "//li")

		assert.Equal(t, domdex.ENOINDEX, domdex.ErrorCode(err))
	})
}
