package html

import (
	"github.com/fwojciec/domdex"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeTree converts t into an x/net/html node tree so libraries built on
// *html.Node can operate on it. The returned map leads from every converted
// node back to its identifier in t.
func NodeTree(t *domdex.Tree) (*html.Node, map[*html.Node]domdex.NodeID) {
	ids := make(map[*html.Node]domdex.NodeID, t.Len())
	nodes := make([]*html.Node, t.Len())

	for i := 0; i < t.Len(); i++ {
		id := domdex.NodeID(i)
		n := t.Node(id)

		var hn *html.Node
		switch n.Kind {
		case domdex.DocumentNode:
			hn = &html.Node{Type: html.DocumentNode}
		case domdex.ElementNode:
			hn = &html.Node{
				Type:     html.ElementNode,
				Data:     n.Tag,
				DataAtom: atom.Lookup([]byte(n.Tag)),
			}
			for _, a := range n.Attrs {
				hn.Attr = append(hn.Attr, html.Attribute{Key: a.Name, Val: a.Value})
			}
		case domdex.TextNode:
			hn = &html.Node{Type: html.TextNode, Data: n.Text}
		case domdex.CommentNode:
			hn = &html.Node{Type: html.CommentNode, Data: n.Text}
		}

		nodes[i] = hn
		ids[hn] = id
		// Parents precede their children.
		if n.Parent != domdex.NoNode {
			nodes[n.Parent].AppendChild(hn)
		}
	}
	return nodes[t.Root()], ids
}
