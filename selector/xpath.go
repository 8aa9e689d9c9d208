package selector

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/domdex"
)

// compileXPath compiles the supported XPath subset: absolute location paths
// of child ("/") and descendant ("//") steps over element names or "*",
// with predicates [n], [@attr], [@attr='v'] and [text()='v'] that may be
// joined with "and".
//
// A positional predicate counts among siblings with the same tag ("*"
// counts all element siblings) regardless of the other predicates.
func compileXPath(src string) (*domdex.Selector, error) {
	p := &scanner{src: src, lang: "xpath"}
	sel := &domdex.Selector{Source: src, Syntax: domdex.SyntaxXPath}

	p.skipSpace()
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		var comb domdex.Combinator
		switch {
		case p.consume("//"):
			comb = domdex.Descendant
		case p.consume("/"):
			comb = domdex.Child
		default:
			return nil, p.errorf("expected '/' or '//'")
		}
		step, err := p.xstep()
		if err != nil {
			return nil, err
		}
		step.Combinator = comb
		sel.Steps = append(sel.Steps, step)
	}
	if len(sel.Steps) == 0 {
		return nil, p.errorf("empty path")
	}
	return sel, nil
}

func (p *scanner) xstep() (domdex.Step, error) {
	var s domdex.Step
	p.skipSpace()
	if !p.eof() && p.peek() == '*' {
		p.pos++
	} else {
		name := p.xname()
		if name == "" {
			return s, p.errorf("expected element name")
		}
		if !p.eof() && p.peek() == '(' {
			return s, p.errorf("unsupported node test %s()", name)
		}
		s.Tag = strings.ToLower(name)
	}

	for {
		p.skipSpace()
		if p.eof() || p.peek() != '[' {
			return s, nil
		}
		p.pos++
		if err := p.predicate(&s); err != nil {
			return s, err
		}
	}
}

// predicate parses terms joined by "and" up to the closing bracket.
func (p *scanner) predicate(s *domdex.Step) error {
	for {
		p.skipSpace()
		if err := p.term(s); err != nil {
			return err
		}
		p.skipSpace()
		if p.consume("]") {
			return nil
		}
		if !p.consume("and") {
			return p.errorf("expected ']' or 'and'")
		}
	}
}

func (p *scanner) term(s *domdex.Step) error {
	if p.eof() {
		return p.errorf("unterminated predicate")
	}
	switch c := p.peek(); {
	case c >= '0' && c <= '9':
		n, err := p.integer()
		if err != nil {
			return err
		}
		s.Position = n
		return nil

	case c == '@':
		p.pos++
		name := strings.ToLower(p.xname())
		if name == "" {
			return p.errorf("expected attribute name after '@'")
		}
		p.skipSpace()
		if !p.consume("=") {
			s.Attrs = append(s.Attrs, domdex.AttrPredicate{Name: name, Op: domdex.AttrExists})
			return nil
		}
		p.skipSpace()
		v, err := p.literal()
		if err != nil {
			return err
		}
		if name == "id" && v != "" && s.ID == "" {
			s.ID = v
			return nil
		}
		s.Attrs = append(s.Attrs, domdex.AttrPredicate{Name: name, Op: domdex.AttrEquals, Value: v})
		return nil

	case p.consume("text()"):
		p.skipSpace()
		if !p.consume("=") {
			return p.errorf("expected '=' after text()")
		}
		p.skipSpace()
		v, err := p.literal()
		if err != nil {
			return err
		}
		if s.HasText && s.Text != v {
			return p.errorf("conflicting text() predicates")
		}
		s.HasText = true
		s.Text = v
		return nil
	}
	return p.errorf("unsupported predicate")
}

func (p *scanner) literal() (string, error) {
	if p.eof() || (p.peek() != '"' && p.peek() != '\'') {
		return "", p.errorf("expected string literal")
	}
	return p.quoted()
}

// xname reads an XML name.
func (p *scanner) xname() string {
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !(isIdentRune(r) || (p.pos > start && (r == '.' || r == ':'))) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}
