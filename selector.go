package domdex

// Syntax identifies the query language a selector was written in.
type Syntax int

// Selector syntaxes.
const (
	SyntaxCSS Syntax = iota
	SyntaxXPath
)

// String returns "css" or "xpath".
func (s Syntax) String() string {
	if s == SyntaxXPath {
		return "xpath"
	}
	return "css"
}

// Combinator relates a step to the step before it.
type Combinator int

// Combinators. The first step of a chain is related to the document root:
// Descendant for relative queries, Child for absolute XPath.
const (
	Descendant Combinator = iota
	Child
)

// AttrOp is the comparison of an attribute predicate.
type AttrOp int

// Attribute predicate operators.
const (
	AttrExists AttrOp = iota
	AttrEquals
)

// AttrPredicate constrains an attribute by presence or exact value.
type AttrPredicate struct {
	Name  string
	Op    AttrOp
	Value string
}

// Step is one compound predicate of a selector chain. Zero values mean
// "unconstrained".
type Step struct {
	Combinator Combinator

	Tag      string // "" matches any element
	ID       string
	Classes  []string
	Attrs    []AttrPredicate
	NthChild int  // CSS :nth-child, 1-based among element siblings
	Root     bool // CSS :root, a top-level element
	Position int  // XPath [n], 1-based among siblings with the same tag

	HasText bool // XPath text()='...'
	Text    string
}

// Selector is a compiled query: an ordered chain of steps from the outermost
// ancestor to the subject. It owns no tree data.
type Selector struct {
	Source string
	Syntax Syntax
	Steps  []Step
}

// Subject returns the last step, the one matched nodes must satisfy.
func (s *Selector) Subject() *Step {
	if len(s.Steps) == 0 {
		return nil
	}
	return &s.Steps[len(s.Steps)-1]
}

// Resolver evaluates selector text against a tree.
type Resolver interface {
	// Resolve returns the elements matching selector in document order.
	// Returns ESELECTOR if the selector cannot be compiled and ENOINDEX if
	// idx was not built from t. No match is an empty result, not an error.
	Resolve(t *Tree, idx *Index, selector string) ([]MatchResult, error)
}

// MatchResult describes one node returned by a query or a search.
type MatchResult struct {
	NodeID     NodeID     `json:"nodeId"`
	Tag        string     `json:"tag"`
	Path       []PathStep `json:"path"`
	XPath      string     `json:"xpath"`
	CSS        string     `json:"css"`
	Attributes []Attr     `json:"attributes,omitempty"`
	Snippet    string     `json:"snippet"`

	// Score is the number of distinct query terms a search result matched.
	Score int `json:"score,omitempty"`

	// Annotations carries opaque labels attached by external collaborators,
	// such as a content-type classification. The engine never sets it.
	Annotations map[string]string `json:"annotations,omitempty"`
}

// DefaultSnippetWidth bounds the length of MatchResult snippets in runes.
const DefaultSnippetWidth = 120

// NewMatchResult describes node id of t with the given snippet.
func NewMatchResult(t *Tree, id NodeID, snippet string) MatchResult {
	n := t.Node(id)
	var attrs []Attr
	if len(n.Attrs) > 0 {
		attrs = make([]Attr, len(n.Attrs))
		copy(attrs, n.Attrs)
	}
	return MatchResult{
		NodeID:     id,
		Tag:        n.Tag,
		Path:       t.Path(id),
		XPath:      t.XPath(id),
		CSS:        t.CSSPath(id),
		Attributes: attrs,
		Snippet:    snippet,
	}
}

// Snippet truncates text to at most width runes, marking a cut with "...".
func Snippet(text string, width int) string {
	if width <= 0 {
		width = DefaultSnippetWidth
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width]) + "..."
}
