package domdex

// MatchPolicy selects how keyword matches combine.
type MatchPolicy int

// Match policies.
const (
	// MatchAny returns elements containing at least one keyword.
	MatchAny MatchPolicy = iota

	// MatchAll returns elements containing every keyword.
	MatchAll
)

// String returns "any" or "all".
func (p MatchPolicy) String() string {
	if p == MatchAll {
		return "all"
	}
	return "any"
}

// Searcher resolves keyword queries against a text index.
type Searcher interface {
	// Search returns matching elements ranked by descending matched-term
	// count, then ascending depth, then document order.
	// Returns ENOINDEX if idx was not built from t.
	Search(t *Tree, idx *Index, keywords []string, policy MatchPolicy) ([]MatchResult, error)
}
