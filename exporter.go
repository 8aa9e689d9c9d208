package domdex

import "io"

// Exporter serializes a tree to an external format.
type Exporter interface {
	// Export writes t to w.
	Export(w io.Writer, t *Tree) error

	// Name returns the format name (e.g., "html", "xml", "markdown").
	Name() string
}
