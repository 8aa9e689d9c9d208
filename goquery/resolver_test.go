package goquery_test

import (
	"testing"

	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/goquery"
	"github.com/fwojciec/domdex/html"
	"github.com/fwojciec/domdex/index"
	"github.com/fwojciec/domdex/selector"
	"github.com/fwojciec/domdex/simplify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Resolver implements domdex.Resolver at compile time.
var _ domdex.Resolver = (*goquery.Resolver)(nil)

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

	t.Run("matches full css selectors", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, catalog)
		r := goquery.NewResolver()

		cases := []struct {
			selector string
			want     []domdex.NodeID
		}{
			{"li.sale", []domdex.NodeID{7}},
			{"li:nth-child(odd)", []domdex.NodeID{5, 9}},
			{"ul > li:not(.sale)", []domdex.NodeID{5, 9}},
			{"li:contains('Two')", []domdex.NodeID{7}},
			{"p, li", []domdex.NodeID{5, 7, 9, 11, 13}},
			{"[class^='con']", []domdex.NodeID{3, 15}},
			{"ul ~ p", []domdex.NodeID{11, 13}},
			{".missing", []domdex.NodeID{}},
		}
		for _, tc := range cases {
			results, err := r.Resolve(tree, idx, tc.selector)
			require.NoError(t, err, tc.selector)
			assert.Equal(t, tc.want, ids(results), tc.selector)
		}
	})

	t.Run("agrees with the native engine on the shared subset", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, catalog)
		native := selector.NewResolver()
		full := goquery.NewResolver()

		for _, sel := range []string{"li", ".content", "#main > ul > li", "div li", "p[data-x='1']", "li:nth-child(2)", "*"} {
			want, err := native.Resolve(tree, idx, sel)
			require.NoError(t, err)
			got, err := full.Resolve(tree, idx, sel)
			require.NoError(t, err)
			assert.Equal(t, want, got, sel)
		}
	})

	t.Run("returns ESELECTOR for malformed selectors", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, catalog)

		_, err := goquery.NewResolver().Resolve(tree, idx, "div[")

		assert.Equal(t, domdex.ESELECTOR, domdex.ErrorCode(err))
	})

	t.Run("returns ENOINDEX without an index for the tree", func(t *testing.T) {
		t.Parallel()

		tree, _ := prepare(t, catalog)

		_, err := goquery.NewResolver().Resolve(tree, nil, "li")

		assert.Equal(t, domdex.ENOINDEX, domdex.ErrorCode(err))
	})
}
