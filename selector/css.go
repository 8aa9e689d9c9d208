package selector

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/domdex"
)

// compileCSS compiles the supported CSS subset: type and universal
// selectors, #id, .class, [attr], [attr=value], :nth-child(n),
// :first-child, :root and the descendant and child combinators.
func compileCSS(src string) (*domdex.Selector, error) {
	p := &scanner{src: src, lang: "css"}
	sel := &domdex.Selector{Source: src, Syntax: domdex.SyntaxCSS}

	p.skipSpace()
	comb := domdex.Descendant
	for {
		step, err := p.compound()
		if err != nil {
			return nil, err
		}
		step.Combinator = comb
		sel.Steps = append(sel.Steps, step)

		spaced := p.skipSpace()
		if p.eof() {
			return sel, nil
		}
		switch {
		case p.peek() == '>':
			p.pos++
			p.skipSpace()
			if p.eof() {
				return nil, p.errorf("combinator without selector")
			}
			comb = domdex.Child
		case spaced:
			comb = domdex.Descendant
		default:
			return nil, p.errorf("unexpected %q", p.peek())
		}
	}
}

func (p *scanner) compound() (domdex.Step, error) {
	var s domdex.Step
	start := p.pos

	if !p.eof() && p.peek() == '*' {
		p.pos++
	} else if r, _ := utf8.DecodeRuneInString(p.src[p.pos:]); isIdentStart(r) {
		s.Tag = strings.ToLower(p.ident())
	}

	for !p.eof() {
		switch p.peek() {
		case '#':
			p.pos++
			id := p.ident()
			if id == "" {
				return s, p.errorf("expected id after '#'")
			}
			if s.ID == "" {
				s.ID = id
			} else {
				s.Attrs = append(s.Attrs, domdex.AttrPredicate{Name: "id", Op: domdex.AttrEquals, Value: id})
			}
		case '.':
			p.pos++
			class := p.ident()
			if class == "" {
				return s, p.errorf("expected class name after '.'")
			}
			s.Classes = append(s.Classes, class)
		case '[':
			a, err := p.attribute()
			if err != nil {
				return s, err
			}
			s.Attrs = append(s.Attrs, a)
		case ':':
			if err := p.pseudo(&s); err != nil {
				return s, err
			}
		default:
			if p.pos == start {
				return s, p.errorf("expected selector")
			}
			return s, nil
		}
	}
	if p.pos == start {
		return s, p.errorf("expected selector")
	}
	return s, nil
}

func (p *scanner) attribute() (domdex.AttrPredicate, error) {
	p.pos++ // [
	p.skipSpace()
	name := strings.ToLower(p.ident())
	if name == "" {
		return domdex.AttrPredicate{}, p.errorf("expected attribute name")
	}
	a := domdex.AttrPredicate{Name: name, Op: domdex.AttrExists}
	p.skipSpace()
	if !p.eof() && p.peek() == '=' {
		p.pos++
		p.skipSpace()
		v, err := p.value()
		if err != nil {
			return a, err
		}
		a.Op = domdex.AttrEquals
		a.Value = v
		p.skipSpace()
	}
	if p.eof() || p.peek() != ']' {
		return a, p.errorf("expected ']'")
	}
	p.pos++
	return a, nil
}

func (p *scanner) pseudo(s *domdex.Step) error {
	p.pos++ // :
	name := strings.ToLower(p.ident())
	switch name {
	case "root":
		s.Root = true
	case "first-child":
		s.NthChild = 1
	case "nth-child":
		if p.eof() || p.peek() != '(' {
			return p.errorf("expected '(' after :nth-child")
		}
		p.pos++
		p.skipSpace()
		n, err := p.integer()
		if err != nil {
			return err
		}
		p.skipSpace()
		if p.eof() || p.peek() != ')' {
			return p.errorf("expected ')'")
		}
		p.pos++
		s.NthChild = n
	case "":
		return p.errorf("expected pseudo-class name")
	default:
		return p.errorf("unsupported pseudo-class :%s", name)
	}
	return nil
}

// value reads a quoted string or a bare identifier.
func (p *scanner) value() (string, error) {
	if !p.eof() && (p.peek() == '"' || p.peek() == '\'') {
		return p.quoted()
	}
	v := p.ident()
	if v == "" {
		return "", p.errorf("expected attribute value")
	}
	return v, nil
}

// scanner holds the shared lexical state of both compilers.
type scanner struct {
	src  string
	pos  int
	lang string
}

func (p *scanner) eof() bool {
	return p.pos >= len(p.src)
}

func (p *scanner) peek() byte {
	return p.src[p.pos]
}

func (p *scanner) skipSpace() bool {
	start := p.pos
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r', '\f':
			p.pos++
		default:
			return p.pos > start
		}
	}
	return p.pos > start
}

func (p *scanner) consume(s string) bool {
	if strings.HasPrefix(p.src[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *scanner) ident() string {
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isIdentRune(r) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

func (p *scanner) quoted() (string, error) {
	q := p.peek()
	end := strings.IndexByte(p.src[p.pos+1:], q)
	if end < 0 {
		return "", p.errorf("unterminated string")
	}
	v := p.src[p.pos+1 : p.pos+1+end]
	p.pos += end + 2
	return v, nil
}

func (p *scanner) integer() (int, error) {
	start := p.pos
	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil || n < 1 {
		return 0, p.errorf("expected positive integer")
	}
	return n, nil
}

func (p *scanner) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return domdex.Errorf(domdex.ESELECTOR, "%s selector %q at offset %d: %s", p.lang, p.src, p.pos, msg)
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || r >= utf8.RuneSelf
}

func isIdentRune(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
