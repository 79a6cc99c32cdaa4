package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokLBrace // {
	tokRBrace // }
	tokLParen // (
	tokRParen // )
	tokColon  // :
	tokComma  // ,
	tokDot    // .
	tokArrow  // =>
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokColon:
		return "':'"
	case tokComma:
		return "','"
	case tokDot:
		return "'.'"
	case tokArrow:
		return "'=>'"
	}
	return "unknown token"
}

type token struct {
	kind tokenKind
	pos  pos
	// text is the identifier or number source, or the decoded string value.
	text string
}

func (t token) describe() string {
	switch t.kind {
	case tokIdent, tokNumber:
		return t.kind.String() + " " + t.text
	case tokString:
		return "string " + strconv.Quote(t.text)
	}
	return t.kind.String()
}

type lexer struct {
	name string
	src  string
	off  int
	line int
	col  int
}

func lex(name, src string) ([]token, error) {
	l := &lexer{name: name, src: src, line: 1, col: 1}
	var toks []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peek() (rune, int) {
	if l.off >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.off:])
}

func (l *lexer) advance() rune {
	r, w := l.peek()
	l.off += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) pos() pos { return pos{line: l.line, col: l.col} }

func (l *lexer) skipSpaceAndComments() error {
	for l.off < len(l.src) {
		r, _ := l.peek()
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case strings.HasPrefix(l.src[l.off:], "//"):
			for l.off < len(l.src) {
				if r, _ := l.peek(); r == '\n' {
					break
				}
				l.advance()
			}
		case strings.HasPrefix(l.src[l.off:], "/*"):
			start := l.pos()
			end := strings.Index(l.src[l.off+2:], "*/")
			if end < 0 {
				return errorf(l.name, start, ErrSyntax, "unterminated comment")
			}
			for stop := l.off + 2 + end + 2; l.off < stop; {
				l.advance()
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	start := l.pos()
	if l.off >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	r, _ := l.peek()
	switch {
	case isIdentStart(r):
		begin := l.off
		for l.off < len(l.src) {
			if r, _ := l.peek(); !isIdentPart(r) {
				break
			}
			l.advance()
		}
		return token{kind: tokIdent, pos: start, text: l.src[begin:l.off]}, nil
	case r >= '0' && r <= '9', r == '-' && l.digitAt(l.off+1):
		return l.number(start), nil
	case r == '"':
		return l.quoted(start)
	case r == '`':
		return l.raw(start)
	}

	l.advance()
	switch r {
	case '{':
		return token{kind: tokLBrace, pos: start}, nil
	case '}':
		return token{kind: tokRBrace, pos: start}, nil
	case '(':
		return token{kind: tokLParen, pos: start}, nil
	case ')':
		return token{kind: tokRParen, pos: start}, nil
	case ':':
		return token{kind: tokColon, pos: start}, nil
	case ',':
		return token{kind: tokComma, pos: start}, nil
	case '.':
		return token{kind: tokDot, pos: start}, nil
	case '=':
		if r, _ := l.peek(); r == '>' {
			l.advance()
			return token{kind: tokArrow, pos: start}, nil
		}
	}
	return token{}, errorf(l.name, start, ErrSyntax, "unexpected character %q", r)
}

func (l *lexer) digitAt(off int) bool {
	return off < len(l.src) && l.src[off] >= '0' && l.src[off] <= '9'
}

func (l *lexer) number(start pos) token {
	begin := l.off
	if l.src[l.off] == '-' {
		l.advance()
	}
	seenDot := false
	for l.off < len(l.src) {
		c := l.src[l.off]
		if c == '.' && !seenDot && l.digitAt(l.off+1) {
			seenDot = true
		} else if c < '0' || c > '9' {
			break
		}
		l.advance()
	}
	return token{kind: tokNumber, pos: start, text: l.src[begin:l.off]}
}

func (l *lexer) quoted(start pos) (token, error) {
	begin := l.off
	l.advance()
	for {
		if l.off >= len(l.src) {
			return token{}, errorf(l.name, start, ErrSyntax, "unterminated string")
		}
		switch l.advance() {
		case '\\':
			if l.off < len(l.src) {
				l.advance()
			}
		case '"':
			value, err := strconv.Unquote(l.src[begin:l.off])
			if err != nil {
				return token{}, errorf(l.name, start, ErrSyntax, "invalid string %s", l.src[begin:l.off])
			}
			return token{kind: tokString, pos: start, text: value}, nil
		}
	}
}

func (l *lexer) raw(start pos) (token, error) {
	l.advance()
	begin := l.off
	end := strings.IndexByte(l.src[l.off:], '`')
	if end < 0 {
		return token{}, errorf(l.name, start, ErrSyntax, "unterminated raw string")
	}
	for stop := begin + end; l.off < stop; {
		l.advance()
	}
	l.advance()
	return token{kind: tokString, pos: start, text: l.src[begin : begin+end]}, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
