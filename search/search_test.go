package search_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/html"
	"github.com/fwojciec/domdex/index"
	"github.com/fwojciec/domdex/search"
	"github.com/fwojciec/domdex/simplify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Engine implements domdex.Searcher at compile time.
var _ domdex.Searcher = (*search.Engine)(nil)

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

func tags(results []domdex.MatchResult) []string {
	out := []string{}
	for _, r := range results {
		out = append(out, r.Tag)
	}
	return out
}

func TestEngine_Search(t *testing.T) {
	t.Parallel()

	t.Run("ranks the price node first", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, `<html><body><h1>Shop</h1><div class="price">Price: $10</div></body></html>`)

		results, err := search.NewEngine().Search(tree, idx, []string{"price"}, domdex.MatchAny)

		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "div", results[0].Tag)
		assert.Equal(t, []domdex.Attr{{Name: "class", Value: "price"}}, results[0].Attributes)
		assert.Equal(t, "Price: $10", results[0].Snippet)
		assert.Equal(t, 1, results[0].Score)
	})

	t.Run("ranks by matched term count first", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, `<div><p>blue</p><section><span>blue widget</span></section></div>`)

		results, err := search.NewEngine().Search(tree, idx, []string{"blue", "widget"}, domdex.MatchAny)

		require.NoError(t, err)
		assert.Equal(t, []string{"span", "p"}, tags(results))
		assert.Equal(t, 2, results[0].Score)
		assert.Equal(t, 1, results[1].Score)
	})

	t.Run("ranks shallower nodes first on equal score", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, `<main><section><p>red</p></section>red</main>`)

		results, err := search.NewEngine().Search(tree, idx, []string{"red"}, domdex.MatchAny)

		require.NoError(t, err)
		assert.Equal(t, []string{"main", "p"}, tags(results))
	})

	t.Run("breaks remaining ties by document order", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, `<ul><li>green one</li><li>green two</li></ul>`)

		results, err := search.NewEngine().Search(tree, idx, []string{"green"}, domdex.MatchAny)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Less(t, results[0].NodeID, results[1].NodeID)
	})

	t.Run("intersects terms for MatchAll", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, `<div><p>blue</p><p>blue widget</p><p>widget</p></div>`)

		results, err := search.NewEngine().Search(tree, idx, []string{"Blue Widget"}, domdex.MatchAll)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "blue widget", results[0].Snippet)
	})

	t.Run("returns a superset for MatchAny", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, `<div><p>alpha beta</p><p>beta gamma</p><p>alpha gamma delta</p><span>alpha</span></div>`)
		e := search.NewEngine()

		for _, kw := range [][]string{{"alpha"}, {"alpha", "beta"}, {"gamma", "delta"}, {"alpha", "missing"}, {"beta", "gamma", "alpha"}} {
			anyRes, err := e.Search(tree, idx, kw, domdex.MatchAny)
			require.NoError(t, err)
			allRes, err := e.Search(tree, idx, kw, domdex.MatchAll)
			require.NoError(t, err)

			anyIDs := make(map[domdex.NodeID]bool)
			for _, r := range anyRes {
				anyIDs[r.NodeID] = true
			}
			for _, r := range allRes {
				assert.True(t, anyIDs[r.NodeID], "keywords %v: %d missing from MatchAny", kw, r.NodeID)
			}
		}
	})

	t.Run("centers snippets on the first match", func(t *testing.T) {
		t.Parallel()

		text := "aaaa bbbb cccc dddd eeee ffff gggg target hhhh iiii jjjj kkkk llll"
		tree, idx := prepare(t, "<p>"+text+"</p>")
		e := &search.Engine{SnippetWidth: 20}

		results, err := e.Search(tree, idx, []string{"target"}, domdex.MatchAny)

		require.NoError(t, err)
		require.Len(t, results, 1)
		snippet := results[0].Snippet
		assert.Contains(t, snippet, "target")
		assert.True(t, strings.HasPrefix(snippet, "..."))
		assert.True(t, strings.HasSuffix(snippet, "..."))
	})

	t.Run("applies the result limit", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, `<ul><li>x</li><li>x</li><li>x</li></ul>`)
		e := &search.Engine{Limit: 2}

		results, err := e.Search(tree, idx, []string{"x"}, domdex.MatchAny)

		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("returns empty result for empty keywords", func(t *testing.T) {
		t.Parallel()

		tree, idx := prepare(t, `<p>x</p>`)

		for _, kw := range [][]string{nil, {}, {"  "}, {"!!!"}} {
			results, err := search.NewEngine().Search(tree, idx, kw, domdex.MatchAll)
			require.NoError(t, err)
			assert.NotNil(t, results)
			assert.Empty(t, results)
		}
	})

	t.Run("returns ENOINDEX without an index for the tree", func(t *testing.T) {
		t.Parallel()

		tree, _ := prepare(t, `<p>x</p>`)
		_, other := prepare(t, `<p>x</p>`)

		_, err := search.NewEngine().Search(tree, nil, []string{"x"}, domdex.MatchAny)
		assert.Equal(t, domdex.ENOINDEX, domdex.ErrorCode(err))

		_, err = search.NewEngine().Search(tree, other, []string{"x"}, domdex.MatchAny)
		assert.Equal(t, domdex.ENOINDEX, domdex.ErrorCode(err))
	})
}

func TestTerms(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"blue", "widget", "10"}, search.Terms([]string{"Blue widget", "BLUE", "$10"}))
	assert.Nil(t, search.Terms(nil))
}
