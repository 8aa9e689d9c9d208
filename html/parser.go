// Package html parses and renders markup using golang.org/x/net/html.
package html

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/domdex"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Ensure Parser implements domdex.Parser at compile time.
var _ domdex.Parser = (*Parser)(nil)

// Parser builds domdex trees from markup with best-effort recovery:
// unclosed elements are closed implicitly, stray end tags are ignored and
// unknown tags are kept as ordinary elements. Byte offsets refer to the
// decoded text.
type Parser struct {
	// Charset is the declared encoding of the input (e.g., "iso-8859-1").
	// When empty, input must be UTF-8 or declare its encoding with a byte
	// order mark or a <meta charset>.
	Charset string
}

// NewParser creates a new Parser for UTF-8 input.
func NewParser() *Parser {
	return &Parser{}
}

// Parse builds a tree from src.
func (p *Parser) Parse(src []byte) (*domdex.Tree, error) {
	text, err := p.decode(src)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domdex.Errorf(domdex.EPARSE, "empty input")
	}

	b := domdex.NewTreeBuilder()
	z := html.NewTokenizer(strings.NewReader(text))
	stack := []frame{{id: b.Root()}}
	pendingText := domdex.NoNode
	offset := 0

	for {
		tt := z.Next()
		start := offset
		offset += len(z.Raw())
		end := offset
		top := stack[len(stack)-1]

		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return nil, domdex.Errorf(domdex.EPARSE, "tokenize: %v", z.Err())
			}
			for i := len(stack) - 1; i >= 0; i-- {
				b.SetEnd(stack[i].id, len(text))
			}
			return b.Tree(), nil

		case html.TextToken:
			data := string(z.Text())
			if pendingText != domdex.NoNode && b.LastChild(top.id) == pendingText {
				b.ExtendText(pendingText, data, end)
				continue
			}
			pendingText = b.AppendText(top.id, data, start, end)

		case html.CommentToken:
			b.AppendComment(top.id, string(z.Text()), start, end)
			pendingText = domdex.NoNode

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			attrs := readAttrs(z, hasAttr)

			stack = closeImplied(b, stack, tag, start)
			top = stack[len(stack)-1]

			id := b.AppendElement(top.id, tag, attrs, start)
			pendingText = domdex.NoNode
			if domdex.IsVoidElement(tag) || (tt == html.SelfClosingTagToken && inForeign(stack)) {
				b.SetEnd(id, end)
				continue
			}
			stack = append(stack, frame{id: id, tag: tag})

		case html.EndTagToken:
			name, _ := z.TagName()
			stack = closeExplicit(b, stack, string(name), start, end)

		case html.DoctypeToken:
			// Doctype declarations carry no content.
		}
	}
}

func (p *Parser) decode(src []byte) (string, error) {
	if len(src) == 0 {
		return "", domdex.Errorf(domdex.EPARSE, "empty input")
	}

	if p.Charset != "" {
		enc, _ := charset.Lookup(p.Charset)
		if enc == nil {
			return "", domdex.Errorf(domdex.EPARSE, "unknown charset %q", p.Charset)
		}
		out, err := enc.NewDecoder().Bytes(src)
		if err != nil {
			return "", domdex.Errorf(domdex.EPARSE, "decode %s: %v", p.Charset, err)
		}
		return strings.TrimPrefix(string(out), "\ufeff"), nil
	}

	if utf8.Valid(src) {
		return strings.TrimPrefix(string(src), "\ufeff"), nil
	}

	if !declaresCharset(src) {
		return "", domdex.Errorf(domdex.EPARSE, "input is not valid UTF-8 and declares no charset")
	}
	enc, name, _ := charset.DetermineEncoding(src, "")
	if name == "utf-8" {
		return "", domdex.Errorf(domdex.EPARSE, "input declares UTF-8 but is not valid UTF-8")
	}
	out, err := enc.NewDecoder().Bytes(src)
	if err != nil {
		return "", domdex.Errorf(domdex.EPARSE, "decode %s: %v", name, err)
	}
	return string(out), nil
}

// inForeign reports whether the innermost open element is inside svg or
// math content, where a trailing slash closes any element.
func inForeign(stack []frame) bool {
	for i := len(stack) - 1; i > 0; i-- {
		if stack[i].tag == "svg" || stack[i].tag == "math" {
			return true
		}
	}
	return false
}

// prescanLen matches the window browsers scan for an encoding declaration.
const prescanLen = 1024

// declaresCharset reports whether src starts with a byte order mark or
// declares its encoding in a <meta> element near its start.
func declaresCharset(src []byte) bool {
	if bytes.HasPrefix(src, []byte{0xFE, 0xFF}) || bytes.HasPrefix(src, []byte{0xFF, 0xFE}) {
		return true
	}
	head := src
	if len(head) > prescanLen {
		head = head[:prescanLen]
	}
	z := html.NewTokenizer(bytes.NewReader(head))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, more := z.TagName()
			if string(name) != "meta" {
				continue
			}
			for more {
				var key, val []byte
				key, val, more = z.TagAttr()
				switch string(key) {
				case "charset":
					if len(bytes.TrimSpace(val)) > 0 {
						return true
					}
				case "content":
					if bytes.Contains(bytes.ToLower(val), []byte("charset=")) {
						return true
					}
				}
			}
		}
	}
}

// readAttrs collects attributes in source order, keeping the first of
// duplicated names.
func readAttrs(z *html.Tokenizer, more bool) []domdex.Attr {
	var attrs []domdex.Attr
	for more {
		var key, val []byte
		key, val, more = z.TagAttr()
		name := string(key)
		dup := false
		for _, a := range attrs {
			if a.Name == name {
				dup = true
				break
			}
		}
		if !dup {
			attrs = append(attrs, domdex.Attr{Name: name, Value: string(val)})
		}
	}
	return attrs
}
