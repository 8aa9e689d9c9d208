package main

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/fwojciec/domdex"
)

// jsonNode is the JSON shape of a tree node.
type jsonNode struct {
	ID       domdex.NodeID `json:"id"`
	Kind     string        `json:"kind"`
	Tag      string        `json:"tag,omitempty"`
	Attrs    []domdex.Attr `json:"attrs,omitempty"`
	Text     string        `json:"text,omitempty"`
	Children []*jsonNode   `json:"children,omitempty"`
}

func toJSONNode(t *domdex.Tree, id domdex.NodeID) *jsonNode {
	n := t.Node(id)
	out := &jsonNode{
		ID:    id,
		Kind:  n.Kind.String(),
		Tag:   n.Tag,
		Attrs: n.Attrs,
		Text:  n.Text,
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, toJSONNode(t, c))
	}
	return out
}

// jsonExporter writes trees as nested JSON nodes.
type jsonExporter struct{}

func (e *jsonExporter) Name() string {
	return "json"
}

func (e *jsonExporter) Export(w io.Writer, t *domdex.Tree) error {
	if t == nil {
		return domdex.Errorf(domdex.EINVALID, "tree required")
	}
	return writeJSON(w, toJSONNode(t, t.Root()))
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeLine writes s and terminates it with a newline unless it already
// ends with one.
func writeLine(w io.Writer, s []byte) error {
	if len(s) == 0 {
		return nil
	}
	if _, err := w.Write(s); err != nil {
		return err
	}
	if !bytes.HasSuffix(s, []byte("\n")) {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
