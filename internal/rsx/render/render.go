// Package render serializes markup trees to HTML strings.
//
// Every element carries its own indentation prefix, computed from its
// depth, so already rendered children are joined as-is and never
// re-indented.
package render

import (
	"strings"

	"github.com/kilianc/rsx/internal/rsx/ast"
)

const doctypeHTML = "<!DOCTYPE html>\n"

var voidTags = map[string]struct{}{
	"area":   {},
	"base":   {},
	"br":     {},
	"col":    {},
	"embed":  {},
	"hr":     {},
	"img":    {},
	"input":  {},
	"link":   {},
	"meta":   {},
	"source": {},
	"track":  {},
	"wbr":    {},
}

// IsVoid reports whether tag never has children or a closing tag.
func IsVoid(tag string) bool {
	_, ok := voidTags[tag]
	return ok
}

// Render renders n as a root node at depth 0.
func Render(n ast.Node, mode Mode) string {
	return Node(n, mode, 0)
}

// Document renders the root of doc, prefixed with the doctype line when set.
func Document(doc ast.Document, mode Mode) string {
	var out string
	if doc.Root != nil {
		out = Element(doc.Root, mode, 0)
	}
	if doc.Doctype {
		return doctypeHTML + out
	}
	return out
}

// Node renders n as a child slot at the given depth.
func Node(n ast.Node, mode Mode, depth int) string {
	switch n := n.(type) {
	case *ast.Element:
		return Element(n, mode, depth)
	case ast.Fragment:
		return fragment(n, mode, depth)
	case ast.Text:
		return mode.indent(depth) + n.Value
	}
	return ""
}

// Element renders el with its indentation prefix for depth. A nil
// element renders as "".
func Element(el *ast.Element, mode Mode, depth int) string {
	if el == nil {
		return ""
	}
	indent := mode.indent(depth)

	var b strings.Builder
	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(el.Tag)
	for _, a := range el.Attrs {
		b.WriteString(Attr(a))
	}
	b.WriteByte('>')

	if IsVoid(el.Tag) {
		return b.String()
	}

	nl := mode.nl()
	inner := children(el.Children, mode, depth)
	if inner == "" {
		b.WriteString("</")
		b.WriteString(el.Tag)
		b.WriteByte('>')
		return b.String()
	}

	b.WriteString(nl)
	b.WriteString(inner)
	b.WriteString(nl)
	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(el.Tag)
	b.WriteByte('>')
	return b.String()
}

// children renders the child slots of an element at depth and joins
// them. Nil elements are not slots. The separator is only written once something has been emitted,
// so an empty loop in the first slot never opens a blank line.
func children(nodes []ast.Node, mode Mode, depth int) string {
	nl := mode.nl()
	var b strings.Builder
	for _, c := range nodes {
		if el, ok := c.(*ast.Element); ok && el == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(nl)
		}
		b.WriteString(Node(c, mode, depth+1))
	}
	return b.String()
}

func fragment(f ast.Fragment, mode Mode, depth int) string {
	nl := mode.nl()
	var b strings.Builder
	for _, el := range f.Elements {
		if el == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(nl)
		}
		b.WriteString(Element(el, mode, depth))
	}
	return b.String()
}
