// Package etree exports trees as XML documents using beevik/etree.
package etree

import (
	"io"

	"github.com/beevik/etree"
	"github.com/fwojciec/domdex"
)

// Ensure Exporter implements domdex.Exporter at compile time.
var _ domdex.Exporter = (*Exporter)(nil)

// RootTag wraps the top-level nodes of an exported tree, since a tree may
// hold several top-level elements and XML allows only one.
const RootTag = "document"

// Exporter writes trees as XML.
type Exporter struct {
	// Indent is the number of spaces per nesting level. Zero writes the
	// document without added whitespace.
	Indent int
}

// NewExporter creates a new Exporter that indents by two spaces.
func NewExporter() *Exporter {
	return &Exporter{Indent: 2}
}

// Name returns "xml".
func (e *Exporter) Name() string {
	return "xml"
}

// Export writes t to w as an XML document.
func (e *Exporter) Export(w io.Writer, t *domdex.Tree) error {
	if t == nil {
		return domdex.Errorf(domdex.EINVALID, "tree required")
	}
	doc := Document(t)
	if e.Indent > 0 {
		doc.Indent(e.Indent)
	}
	_, err := doc.WriteTo(w)
	return err
}

// Document converts t into an etree document rooted at a RootTag element.
func Document(t *domdex.Tree) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(RootTag)
	for _, c := range t.Node(t.Root()).Children {
		appendNode(root, t, c)
	}
	return doc
}

func appendNode(parent *etree.Element, t *domdex.Tree, id domdex.NodeID) {
	n := t.Node(id)
	switch n.Kind {
	case domdex.TextNode:
		parent.CreateText(n.Text)
	case domdex.CommentNode:
		parent.CreateComment(n.Text)
	case domdex.ElementNode:
		el := parent.CreateElement(n.Tag)
		for _, a := range n.Attrs {
			el.CreateAttr(a.Name, a.Value)
		}
		for _, c := range n.Children {
			appendNode(el, t, c)
		}
	}
}
