// Package rsx renders nested markup trees to HTML strings.
//
// Trees are built either in Go:
//
//	page := rsx.El("ul", rsx.Attr("class", "fruits"),
//		rsx.For(fruits, func(f string) *rsx.Element {
//			return rsx.El("li", rsx.Text(f))
//		}),
//	)
//	html := rsx.Render(page, rsx.Indent2)
//
// or from template text with Parse and Build. Every value is a string by
// the time the tree exists, so rendering never fails.
package rsx

import (
	"fmt"
	"strconv"

	g "maragu.dev/gomponents"

	"github.com/kilianc/rsx/internal/rsx/ast"
	"github.com/kilianc/rsx/internal/rsx/gomponents"
	"github.com/kilianc/rsx/internal/rsx/parser"
	"github.com/kilianc/rsx/internal/rsx/render"
)

type (
	Node      = ast.Node
	Child     = ast.Child
	Element   = ast.Element
	Attribute = ast.Attr
	TextNode  = ast.Text
	Fragment  = ast.Fragment
	Document  = ast.Document
	Mode      = render.Mode

	Template = parser.Template
	Options  = parser.Options
	Scope    = parser.Scope
	Func     = parser.Func
	// Built is a template evaluated against a scope.
	Built = parser.Document
	Error = parser.Error
)

var (
	Lined   = render.Lined
	Indent0 = render.Indent0
	Indent2 = render.Indent2
	Indent4 = render.Indent4
)

var (
	ErrSyntax    = parser.ErrSyntax
	ErrUndefined = parser.ErrUndefined
	ErrValue     = parser.ErrValue
)

// El builds an element. Attributes and nodes may be mixed; each keeps its
// declared position.
func El(tag string, children ...Child) *Element {
	return ast.NewElement(tag, children...)
}

// Attr is a key/value attribute. The values "true" and "false" are boolean.
func Attr(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// BoolAttr renders as the bare key when v is true and is dropped otherwise.
func BoolAttr(key string, v bool) Attribute {
	return Attribute{Key: key, Value: strconv.FormatBool(v)}
}

// Text is inserted as-is, without HTML escaping.
func Text(s string) TextNode {
	return TextNode{Value: s}
}

// Textf is Text with fmt.Sprintf formatting.
func Textf(format string, args ...any) TextNode {
	return TextNode{Value: fmt.Sprintf(format, args...)}
}

// For renders body once per item. The elements fill one child slot; a
// nil result skips the item.
func For[T any](items []T, body func(T) *Element) Fragment {
	f := Fragment{Elements: make([]*Element, 0, len(items))}
	for _, it := range items {
		if el := body(it); el != nil {
			f.Elements = append(f.Elements, el)
		}
	}
	return f
}

// If returns c when cond holds and nil otherwise; El skips nil children.
func If(cond bool, c Child) Child {
	if !cond {
		return nil
	}
	return c
}

// Doctype wraps root so it renders after a <!DOCTYPE html> line.
func Doctype(root *Element) Document {
	return Document{Root: root, Doctype: true}
}

// Render renders n at depth 0.
func Render(n Node, mode Mode) string {
	return render.Render(n, mode)
}

// RenderDocument renders doc.Root, prefixed with the doctype line when set.
func RenderDocument(doc Document, mode Mode) string {
	return render.Document(doc, mode)
}

// ParseMode maps lined, btfy0, btfy2 and btfy4 to a Mode.
func ParseMode(name string) (Mode, error) {
	return render.ParseMode(name)
}

// Parse parses template text without evaluating it.
func Parse(name, src string) (*Template, error) {
	return parser.Parse(name, src)
}

// Build parses src and evaluates it against opts.
func Build(name, src string, opts Options) (*Built, error) {
	return parser.Build(name, src, opts)
}

// CharAt returns the character at 1-based position n, or "" when n is
// out of range.
func CharAt(s string, n int) string {
	return render.CharAt(s, n)
}

// Lower converts n to a gomponents node.
func Lower(n Node) g.Node {
	return gomponents.Lower(n)
}

// LowerNodes converts a list of nodes to one gomponents node, or nil
// when nodes is empty.
func LowerNodes(nodes []Node) g.Node {
	return gomponents.LowerNodes(nodes)
}

// Component embeds the rendered document in a gomponents tree.
func Component(doc Document, mode Mode) g.Node {
	return gomponents.Component(doc, mode)
}
