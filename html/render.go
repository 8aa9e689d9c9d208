package html

import (
	"bufio"
	"bytes"
	"io"

	"github.com/fwojciec/domdex"
	"golang.org/x/net/html"
)

// Ensure Exporter implements domdex.Exporter at compile time.
var _ domdex.Exporter = (*Exporter)(nil)

// rawTextElements hold text that is written without escaping.
var rawTextElements = set("script", "style", "xmp", "iframe", "noembed", "noframes", "plaintext")

// Render writes t as markup. Attribute values and text are escaped, except
// inside raw text elements such as script and style.
func Render(w io.Writer, t *domdex.Tree) error {
	if t == nil {
		return domdex.Errorf(domdex.EINVALID, "tree required")
	}
	bw := bufio.NewWriter(w)
	for _, c := range t.Node(t.Root()).Children {
		renderNode(bw, t, c)
	}
	return bw.Flush()
}

// RenderString renders t to a string.
func RenderString(t *domdex.Tree) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, t); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderNode renders the subtree rooted at id.
func RenderNode(w io.Writer, t *domdex.Tree, id domdex.NodeID) error {
	if t == nil || !t.Valid(id) {
		return domdex.Errorf(domdex.EINVALID, "node %d not in tree", id)
	}
	bw := bufio.NewWriter(w)
	if id == t.Root() {
		for _, c := range t.Node(id).Children {
			renderNode(bw, t, c)
		}
	} else {
		renderNode(bw, t, id)
	}
	return bw.Flush()
}

// renderNode relies on bufio.Writer keeping the first write error and
// returning it from Flush.
func renderNode(w *bufio.Writer, t *domdex.Tree, id domdex.NodeID) {
	n := t.Node(id)
	switch n.Kind {
	case domdex.TextNode:
		if p := t.Node(n.Parent); p != nil && rawTextElements[p.Tag] {
			w.WriteString(n.Text)
			return
		}
		w.WriteString(html.EscapeString(n.Text))
	case domdex.CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Text)
		w.WriteString("-->")
	case domdex.ElementNode:
		w.WriteByte('<')
		w.WriteString(n.Tag)
		for _, a := range n.Attrs {
			w.WriteByte(' ')
			w.WriteString(a.Name)
			w.WriteString(`="`)
			w.WriteString(html.EscapeString(a.Value))
			w.WriteByte('"')
		}
		w.WriteByte('>')
		if domdex.IsVoidElement(n.Tag) {
			return
		}
		for _, c := range n.Children {
			renderNode(w, t, c)
		}
		w.WriteString("</")
		w.WriteString(n.Tag)
		w.WriteByte('>')
	}
}

// Exporter writes trees as markup.
type Exporter struct{}

// NewExporter creates a new markup Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Name returns "html".
func (e *Exporter) Name() string {
	return "html"
}

// Export writes t to w as markup.
func (e *Exporter) Export(w io.Writer, t *domdex.Tree) error {
	return Render(w, t)
}
