package domdex

// ChangeKind classifies a ChangeRecord.
type ChangeKind string

// Change kinds.
const (
	Added    ChangeKind = "added"
	Removed  ChangeKind = "removed"
	Modified ChangeKind = "modified"
	Moved    ChangeKind = "moved"
)

// AttrChangeKind classifies an attribute difference.
type AttrChangeKind string

// Attribute change kinds.
const (
	AttrAdded   AttrChangeKind = "added"
	AttrRemoved AttrChangeKind = "removed"
	AttrChanged AttrChangeKind = "changed"
)

// AttrChange describes one attribute difference of a Modified element.
type AttrChange struct {
	Kind   AttrChangeKind `json:"kind"`
	Name   string         `json:"name"`
	Before string         `json:"before,omitempty"`
	After  string         `json:"after,omitempty"`
}

// TextOpKind classifies a word-level text edit.
type TextOpKind string

// Text edit kinds.
const (
	TextEqual  TextOpKind = "equal"
	TextInsert TextOpKind = "insert"
	TextDelete TextOpKind = "delete"
)

// TextOp is a run of words that is kept, inserted or deleted.
type TextOp struct {
	Kind TextOpKind `json:"kind"`
	Text string     `json:"text"`
}

// TextDiff describes how the text of a Modified text node changed.
type TextDiff struct {
	Before string   `json:"before"`
	After  string   `json:"after"`
	Ops    []TextOp `json:"ops"`
}

// ChangeRecord is one entry of an edit script between two trees.
//
// Before and After reference nodes of the "before" and "after" trees.
// Added records only have After, Removed records only have Before; the
// other is NoNode. Added and Removed are reported once per subtree root and
// Size counts the nodes of that subtree.
type ChangeRecord struct {
	Kind       ChangeKind `json:"kind"`
	Before     NodeID     `json:"before"`
	After      NodeID     `json:"after"`
	Tag        string     `json:"tag,omitempty"`
	BeforePath string     `json:"beforePath,omitempty"`
	AfterPath  string     `json:"afterPath,omitempty"`

	Size int `json:"size,omitempty"`

	// Moved: position among the parent's children in each tree.
	FromIndex int `json:"fromIndex,omitempty"`
	ToIndex   int `json:"toIndex,omitempty"`

	// Modified payloads.
	Attrs []AttrChange `json:"attrs,omitempty"`
	Text  *TextDiff    `json:"text,omitempty"`
}

// DiffSummary counts change records by kind.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Moved    int `json:"moved"`
}

// Total returns the number of records.
func (s DiffSummary) Total() int {
	return s.Added + s.Removed + s.Modified + s.Moved
}

// DiffResult is an ordered edit script plus summary counts.
type DiffResult struct {
	Changes []ChangeRecord `json:"changes"`
	Summary DiffSummary    `json:"summary"`

	// Stats is attached by callers that diff processed documents. The
	// Differ leaves it nil.
	Stats *StatsDelta `json:"stats,omitempty"`
}

// StatsDelta pairs the simplification statistics and element counts of
// the two documents of a diff.
type StatsDelta struct {
	Before         Stats `json:"before"`
	After          Stats `json:"after"`
	BeforeElements int   `json:"beforeElements"`
	AfterElements  int   `json:"afterElements"`
}

// NewStatsDelta compares the statistics of two simplifications and the
// element counts of their trees.
func NewStatsDelta(before Stats, beforeTree *Tree, after Stats, afterTree *Tree) *StatsDelta {
	return &StatsDelta{
		Before:         before,
		After:          after,
		BeforeElements: len(beforeTree.Elements()),
		AfterElements:  len(afterTree.Elements()),
	}
}

// NewDiffResult wraps changes and counts them.
func NewDiffResult(changes []ChangeRecord) *DiffResult {
	d := &DiffResult{Changes: changes}
	if d.Changes == nil {
		d.Changes = []ChangeRecord{}
	}
	for _, c := range changes {
		switch c.Kind {
		case Added:
			d.Summary.Added++
		case Removed:
			d.Summary.Removed++
		case Modified:
			d.Summary.Modified++
		case Moved:
			d.Summary.Moved++
		}
	}
	return d
}

// Filter returns the records of the given kind in script order.
func (d *DiffResult) Filter(kind ChangeKind) []ChangeRecord {
	var out []ChangeRecord
	for _, c := range d.Changes {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Empty reports whether the trees were found identical.
func (d *DiffResult) Empty() bool {
	return len(d.Changes) == 0
}

// Differ computes the edit script between two simplified trees.
type Differ interface {
	// Diff compares two snapshots of the same logical document.
	// diff(a, b) and diff(b, a) describe the same differences with Added
	// and Removed swapped.
	Diff(before, after *Tree) (*DiffResult, error)
}
