package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kilianc/rsx/internal/rsx/render"
)

// Func is a template function. Its result is stringified like any other value.
type Func func(args ...any) (any, error)

var builtins = map[string]Func{
	"char":   charFunc,
	"upper":  stringFunc(strings.ToUpper),
	"lower":  stringFunc(strings.ToLower),
	"trim":   stringFunc(strings.TrimSpace),
	"concat": concatFunc,
	"join":   joinFunc,
}

func stringFunc(f func(string) string) Func {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("want 1 argument, got %d", len(args))
		}
		s, err := Stringify(args[0])
		if err != nil {
			return nil, err
		}
		return f(s), nil
	}
}

// charFunc is char(s, n): the 1-based character n of s.
func charFunc(args ...any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("want 2 arguments, got %d", len(args))
	}
	s, err := Stringify(args[0])
	if err != nil {
		return nil, err
	}
	n, err := toInt(args[1])
	if err != nil {
		return nil, err
	}
	return render.CharAt(s, n), nil
}

func concatFunc(args ...any) (any, error) {
	var b strings.Builder
	for _, a := range args {
		s, err := Stringify(a)
		if err != nil {
			return nil, err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// joinFunc is join(list, sep).
func joinFunc(args ...any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("want 2 arguments, got %d", len(args))
	}
	items, ok := sequence(args[0])
	if !ok {
		return nil, fmt.Errorf("cannot join %T", args[0])
	}
	sep, err := Stringify(args[1])
	if err != nil {
		return nil, err
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		s, err := Stringify(it)
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep), nil
}

func toInt(v any) (int, error) {
	switch v := v.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%T is not an integer", v)
}
