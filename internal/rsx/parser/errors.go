package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax classifies malformed template text.
	ErrSyntax = errors.New("syntax error")
	// ErrUndefined classifies references to unknown names and funcs.
	ErrUndefined = errors.New("undefined")
	// ErrValue classifies values that cannot be used where they appear,
	// such as ranging over a number.
	ErrValue = errors.New("invalid value")
)

type pos struct {
	line, col int
}

// Error is a construction-time failure with its source position.
type Error struct {
	Name string
	Line int
	Col  int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	name := e.Name
	if name == "" {
		name = "rsx"
	}
	return fmt.Sprintf("%s:%d:%d: %s", name, e.Line, e.Col, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(name string, p pos, kind error, format string, args ...any) *Error {
	return &Error{
		Name: name,
		Line: p.line,
		Col:  p.col,
		Msg:  fmt.Sprintf(format, args...),
		Err:  kind,
	}
}
