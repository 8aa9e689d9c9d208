package html

import "github.com/fwojciec/domdex"

// frame is an open element on the parser stack.
type frame struct {
	id  domdex.NodeID
	tag string
}

// implicitClose lists, for an incoming start tag, which open elements it
// closes and which open elements stop the search.
type implicitClose struct {
	closes   map[string]bool
	boundary map[string]bool
}

func set(tags ...string) map[string]bool {
	m := make(map[string]bool, len(tags))
	for _, t := range tags {
		m[t] = true
	}
	return m
}

var (
	paragraphScope = set("td", "th", "table", "button", "caption", "template", "html", "body", "object", "marquee", "applet")

	closesParagraph = implicitClose{closes: set("p"), boundary: paragraphScope}
	closesListItem  = implicitClose{closes: set("li"), boundary: set("ul", "ol", "menu", "table", "template")}
	closesDefItem   = implicitClose{closes: set("dt", "dd"), boundary: set("dl", "table", "template")}
	closesOption    = implicitClose{closes: set("option"), boundary: set("select", "datalist", "optgroup")}
	closesOptgroup  = implicitClose{closes: set("option", "optgroup"), boundary: set("select")}
	closesCell      = implicitClose{closes: set("td", "th"), boundary: set("tr", "table", "template")}
	closesRow       = implicitClose{closes: set("tr", "td", "th"), boundary: set("tbody", "thead", "tfoot", "table", "template")}
	closesSection   = implicitClose{closes: set("tbody", "thead", "tfoot", "tr", "td", "th", "caption", "colgroup"), boundary: set("table", "template")}
	closesHead      = implicitClose{closes: set("head"), boundary: set("html")}
)

// blockStarters close an open paragraph.
var blockStarters = set(
	"address", "article", "aside", "blockquote", "center", "details", "dialog",
	"dir", "div", "dl", "fieldset", "figcaption", "figure", "footer", "form",
	"h1", "h2", "h3", "h4", "h5", "h6", "header", "hgroup", "hr", "li", "dd", "dt",
	"main", "menu", "nav", "ol", "p", "pre", "section", "summary", "table", "ul",
)

// rulesFor returns the implicit-close rules triggered by a start tag.
func rulesFor(tag string) []implicitClose {
	var rules []implicitClose
	if blockStarters[tag] {
		rules = append(rules, closesParagraph)
	}
	switch tag {
	case "li":
		rules = append(rules, closesListItem)
	case "dt", "dd":
		rules = append(rules, closesDefItem)
	case "option":
		rules = append(rules, closesOption)
	case "optgroup":
		rules = append(rules, closesOptgroup)
	case "td", "th":
		rules = append(rules, closesCell)
	case "tr":
		rules = append(rules, closesRow)
	case "tbody", "thead", "tfoot":
		rules = append(rules, closesSection)
	case "body":
		rules = append(rules, closesHead)
	}
	return rules
}

// closeImplied pops the elements an incoming start tag closes implicitly.
// Closed elements end where the incoming tag starts.
func closeImplied(b *domdex.TreeBuilder, stack []frame, tag string, at int) []frame {
	for _, rule := range rulesFor(tag) {
		for i := len(stack) - 1; i > 0; i-- {
			open := stack[i].tag
			if rule.closes[open] {
				stack = popTo(b, stack, i, at)
				break
			}
			if rule.boundary[open] {
				break
			}
		}
	}
	return stack
}

// closeExplicit handles an end tag. A matching open element is closed
// together with every element opened after it; an end tag with no matching
// open element is ignored.
func closeExplicit(b *domdex.TreeBuilder, stack []frame, tag string, start, end int) []frame {
	for i := len(stack) - 1; i > 0; i-- {
		if stack[i].tag == tag {
			stack = popTo(b, stack, i+1, start)
			b.SetEnd(stack[i].id, end)
			return stack[:i]
		}
	}
	return stack
}

// popTo closes stack[i:] at offset at and returns stack[:i].
func popTo(b *domdex.TreeBuilder, stack []frame, i, at int) []frame {
	for j := len(stack) - 1; j >= i; j-- {
		b.SetEnd(stack[j].id, at)
	}
	return stack[:i]
}
