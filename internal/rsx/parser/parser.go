// Package parser turns rsx template text into markup trees.
//
// A template looks like
//
//	btfy2, doctype_html html {
//	    body {
//	        class: "page", hidden: false,
//	        h1 { {title} }
//	        ul { for item in items => { li { {upper(item)} } } }
//	        "plain text"
//	    }
//	}
//
// All expressions are resolved to strings while the tree is built; the
// resulting tree is rendered by package render and can never fail there.
package parser

import (
	"fmt"
	"strconv"

	"github.com/kilianc/rsx/internal/rsx/render"
)

const (
	keywordDoctype = "doctype_html"
	keywordFor     = "for"
	keywordIn      = "in"
)

// Template is a parsed, not yet evaluated template.
type Template struct {
	Name string
	// Mode is the mode named by the template prefix. It is only meaningful
	// when HasMode is set.
	Mode    render.Mode
	HasMode bool
	Doctype bool

	root *element
}

type parser struct {
	name string
	toks []token
	i    int
}

// Parse parses src. Syntax errors are reported as *Error wrapping ErrSyntax.
func Parse(name, src string) (*Template, error) {
	toks, err := lex(name, src)
	if err != nil {
		return nil, err
	}
	p := &parser{name: name, toks: toks}
	return p.template()
}

func (p *parser) peek() token { return p.peekN(0) }

func (p *parser) peekN(n int) token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) next() token {
	t := p.peek()
	if p.i < len(p.toks)-1 {
		p.i++
	}
	return t
}

func (p *parser) expect(kind tokenKind, context string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.unexpected(t, "expected %s %s", kind, context)
	}
	return t, nil
}

func (p *parser) unexpected(t token, format string, args ...any) error {
	return errorf(p.name, t.pos, ErrSyntax, "%s, found %s", fmt.Sprintf(format, args...), t.describe())
}

func (p *parser) template() (*Template, error) {
	t := &Template{Name: p.name}

	if first := p.peek(); first.kind == tokIdent && p.peekN(1).kind == tokComma {
		mode, err := render.ParseMode(first.text)
		if err != nil {
			return nil, errorf(p.name, first.pos, ErrSyntax, "unknown mode %q (want lined, btfy0, btfy2 or btfy4)", first.text)
		}
		t.Mode, t.HasMode = mode, true
		p.next()
		p.next()
	}

	if first := p.peek(); first.kind == tokIdent && first.text == keywordDoctype && p.peekN(1).kind == tokIdent {
		t.Doctype = true
		p.next()
	}

	tag, err := p.expect(tokIdent, "as root element tag")
	if err != nil {
		return nil, err
	}
	root, err := p.element(tag)
	if err != nil {
		return nil, err
	}
	t.root = root

	if end := p.peek(); end.kind != tokEOF {
		return nil, p.unexpected(end, "expected end of template after root element")
	}
	return t, nil
}

// element parses the body of tag; the tag token has been consumed.
func (p *parser) element(tag token) (*element, error) {
	if _, err := p.expect(tokLBrace, "after tag "+tag.text); err != nil {
		return nil, err
	}
	el := &element{pos: tag.pos, tag: tag.text}
	for {
		t := p.peek()
		switch t.kind {
		case tokRBrace:
			p.next()
			return el, nil
		case tokEOF:
			return nil, errorf(p.name, tag.pos, ErrSyntax, "unclosed element %s", tag.text)
		case tokComma:
			p.next()
		case tokLBrace:
			p.next()
			x, err := p.expr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRBrace, "to close expression"); err != nil {
				return nil, err
			}
			el.items = append(el.items, &textItem{pos: t.pos, value: x})
		case tokString:
			p.next()
			if p.peek().kind == tokColon {
				a, err := p.attr(t)
				if err != nil {
					return nil, err
				}
				el.items = append(el.items, a)
				continue
			}
			el.items = append(el.items, &textItem{pos: t.pos, value: &literalExpr{pos: t.pos, value: t.text}})
		case tokIdent:
			it, err := p.identItem()
			if err != nil {
				return nil, err
			}
			el.items = append(el.items, it)
		default:
			return nil, p.unexpected(t, "expected attribute, element, loop, text or '}' in %s", tag.text)
		}
	}
}

func (p *parser) identItem() (item, error) {
	t := p.next()
	switch next := p.peek(); {
	case next.kind == tokColon:
		return p.attr(t)
	case next.kind == tokLBrace:
		return p.element(t)
	case t.text == keywordFor && next.kind == tokIdent:
		return p.loop(t)
	default:
		return nil, p.unexpected(next, "expected ':' or '{' after %s", t.text)
	}
}

// attr parses the value of an attribute whose key token has been consumed.
func (p *parser) attr(key token) (*attrItem, error) {
	if _, err := p.expect(tokColon, "after attribute key"); err != nil {
		return nil, err
	}
	var (
		x   expr
		err error
	)
	if p.peek().kind == tokLBrace {
		p.next()
		if x, err = p.expr(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBrace, "to close attribute expression"); err != nil {
			return nil, err
		}
	} else if x, err = p.expr(); err != nil {
		return nil, err
	}
	return &attrItem{pos: key.pos, key: key.text, value: x}, nil
}

// loop parses `for name in seq => { element }`; the for keyword has been consumed.
func (p *parser) loop(kw token) (*loopItem, error) {
	name, err := p.expect(tokIdent, "as loop variable")
	if err != nil {
		return nil, err
	}
	in := p.next()
	if in.kind != tokIdent || in.text != keywordIn {
		return nil, p.unexpected(in, "expected 'in' after loop variable %s", name.text)
	}
	seq, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokArrow, "after loop sequence"); err != nil {
		return nil, err
	}
	open, err := p.expect(tokLBrace, "to open loop body")
	if err != nil {
		return nil, err
	}

	tag := p.next()
	if tag.kind != tokIdent || p.peek().kind != tokLBrace {
		return nil, errorf(p.name, open.pos, ErrSyntax, "loop body must be a single element")
	}
	body, err := p.element(tag)
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokComma {
		p.next()
	}
	if end := p.next(); end.kind != tokRBrace {
		return nil, errorf(p.name, end.pos, ErrSyntax, "loop body must be a single element")
	}
	return &loopItem{pos: kw.pos, name: name.text, seq: seq, body: body}, nil
}

func (p *parser) expr() (expr, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		return &literalExpr{pos: t.pos, value: t.text}, nil
	case tokNumber:
		if n, err := strconv.ParseInt(t.text, 10, 64); err == nil {
			return &literalExpr{pos: t.pos, value: n}, nil
		}
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, errorf(p.name, t.pos, ErrSyntax, "invalid number %s", t.text)
		}
		return &literalExpr{pos: t.pos, value: f}, nil
	case tokIdent:
		switch t.text {
		case "true":
			return &literalExpr{pos: t.pos, value: true}, nil
		case "false":
			return &literalExpr{pos: t.pos, value: false}, nil
		}
		if p.peek().kind == tokLParen {
			return p.call(t)
		}
		return p.path(t)
	}
	return nil, p.unexpected(t, "expected expression")
}

func (p *parser) path(first token) (*pathExpr, error) {
	x := &pathExpr{pos: first.pos, parts: []string{first.text}}
	for p.peek().kind == tokDot {
		p.next()
		seg, err := p.expect(tokIdent, "after '.'")
		if err != nil {
			return nil, err
		}
		x.parts = append(x.parts, seg.text)
	}
	return x, nil
}

func (p *parser) call(name token) (*callExpr, error) {
	p.next() // (
	x := &callExpr{pos: name.pos, name: name.text}
	if p.peek().kind == tokRParen {
		p.next()
		return x, nil
	}
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		x.args = append(x.args, arg)
		switch t := p.next(); t.kind {
		case tokComma:
		case tokRParen:
			return x, nil
		default:
			return nil, p.unexpected(t, "expected ',' or ')' in call to %s", name.text)
		}
	}
}
