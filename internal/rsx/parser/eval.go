package parser

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	g "maragu.dev/gomponents"

	"github.com/kilianc/rsx/internal/rsx/ast"
	"github.com/kilianc/rsx/internal/rsx/render"
)

// Scope maps top-level names to values.
type Scope map[string]any

// Options control how a Template is built into a tree.
type Options struct {
	// Mode is used when the template has no mode prefix.
	Mode  render.Mode
	Scope Scope
	// Funcs are merged over the builtin funcs.
	Funcs map[string]Func
	// Sanitize, when set, is applied to text produced by expressions.
	// String literals and attribute values are left alone.
	Sanitize func(string) string
}

// Document is a built tree ready to render.
type Document struct {
	ast.Document
	Mode render.Mode
}

func (d *Document) String() string {
	return render.Document(d.Document, d.Mode)
}

// Build parses and builds src in one step.
func Build(name, src string, opts Options) (*Document, error) {
	t, err := Parse(name, src)
	if err != nil {
		return nil, err
	}
	return t.Build(opts)
}

// Build evaluates every expression of t against opts and returns the tree.
func (t *Template) Build(opts Options) (*Document, error) {
	e := &evaluator{name: t.Name, opts: opts, funcs: builtins}
	if len(opts.Funcs) > 0 {
		e.funcs = make(map[string]Func, len(builtins)+len(opts.Funcs))
		for k, v := range builtins {
			e.funcs[k] = v
		}
		for k, v := range opts.Funcs {
			e.funcs[k] = v
		}
	}

	root, err := e.element(t.root)
	if err != nil {
		return nil, err
	}
	mode := opts.Mode
	if t.HasMode {
		mode = t.Mode
	}
	return &Document{
		Document: ast.Document{Root: root, Doctype: t.Doctype},
		Mode:     mode,
	}, nil
}

type binding struct {
	name  string
	value any
}

type evaluator struct {
	name  string
	opts  Options
	funcs map[string]Func
	// locals is a stack of loop variables, innermost last.
	locals []binding
}

func (e *evaluator) element(el *element) (*ast.Element, error) {
	out := &ast.Element{Tag: el.tag}
	for _, it := range el.items {
		switch it := it.(type) {
		case *attrItem:
			v, err := e.stringValue(it.value)
			if err != nil {
				return nil, err
			}
			out.Attrs = append(out.Attrs, ast.Attr{Key: it.key, Value: v})
		case *textItem:
			v, err := e.stringValue(it.value)
			if err != nil {
				return nil, err
			}
			if _, literal := it.value.(*literalExpr); !literal && e.opts.Sanitize != nil {
				v = e.opts.Sanitize(v)
			}
			out.Children = append(out.Children, ast.Text{Value: v})
		case *element:
			child, err := e.element(it)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, child)
		case *loopItem:
			frag, err := e.loop(it)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, frag)
		}
	}
	return out, nil
}

func (e *evaluator) loop(l *loopItem) (ast.Fragment, error) {
	seq, err := e.eval(l.seq)
	if err != nil {
		return ast.Fragment{}, err
	}
	items, ok := sequence(seq)
	if !ok {
		return ast.Fragment{}, errorf(e.name, l.seq.exprPos(), ErrValue, "cannot range over %T", seq)
	}

	var frag ast.Fragment
	e.locals = append(e.locals, binding{name: l.name})
	defer func() { e.locals = e.locals[:len(e.locals)-1] }()
	for _, v := range items {
		e.locals[len(e.locals)-1].value = v
		el, err := e.element(l.body)
		if err != nil {
			return ast.Fragment{}, err
		}
		frag.Elements = append(frag.Elements, el)
	}
	return frag, nil
}

func (e *evaluator) stringValue(x expr) (string, error) {
	v, err := e.eval(x)
	if err != nil {
		return "", err
	}
	s, err := Stringify(v)
	if err != nil {
		return "", errorf(e.name, x.exprPos(), ErrValue, "%v", err)
	}
	return s, nil
}

func (e *evaluator) eval(x expr) (any, error) {
	switch x := x.(type) {
	case *literalExpr:
		return x.value, nil
	case *pathExpr:
		return e.path(x)
	case *callExpr:
		fn, ok := e.funcs[x.name]
		if !ok {
			return nil, errorf(e.name, x.pos, ErrUndefined, "undefined func %s", x.name)
		}
		args := make([]any, 0, len(x.args))
		for _, a := range x.args {
			v, err := e.eval(a)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		v, err := fn(args...)
		if err != nil {
			return nil, errorf(e.name, x.pos, ErrValue, "%s: %v", x.name, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("parser: unknown expression %T", x)
}

func (e *evaluator) path(x *pathExpr) (any, error) {
	head := x.parts[0]
	v, ok := e.lookup(head)
	if !ok {
		return nil, errorf(e.name, x.pos, ErrUndefined, "undefined name %s", head)
	}
	for i, seg := range x.parts[1:] {
		next, ok := field(v, seg)
		if !ok {
			return nil, errorf(e.name, x.pos, ErrUndefined, "%s has no field %s", strings.Join(x.parts[:i+1], "."), seg)
		}
		v = next
	}
	return v, nil
}

func (e *evaluator) lookup(name string) (any, bool) {
	for i := len(e.locals) - 1; i >= 0; i-- {
		if e.locals[i].name == name {
			return e.locals[i].value, true
		}
	}
	v, ok := e.opts.Scope[name]
	return v, ok
}

// field selects name from a map with string keys or an exported struct field.
func field(v any, name string) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		sf, ok := rv.Type().FieldByName(name)
		if !ok || !sf.IsExported() {
			return nil, false
		}
		return rv.FieldByIndex(sf.Index).Interface(), true
	}
	return nil, false
}

// sequence returns the elements of a slice or array.
func sequence(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Stringify converts a scope value to the text inserted into the tree.
func Stringify(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	case g.Node:
		var b strings.Builder
		if err := v.Render(&b); err != nil {
			return "", fmt.Errorf("render component: %w", err)
		}
		return b.String(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}
	return fmt.Sprint(v), nil
}
