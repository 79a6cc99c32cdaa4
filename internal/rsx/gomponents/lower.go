// Package gomponents bridges markup trees and maragu.dev/gomponents.
package gomponents

import (
	g "maragu.dev/gomponents"

	"github.com/kilianc/rsx/internal/rsx/ast"
	"github.com/kilianc/rsx/internal/rsx/render"
)

// LowerNodes lowers a list of nodes to a single gomponents node.
func LowerNodes(nodes []ast.Node) g.Node {
	if len(nodes) == 0 {
		return nil
	}
	if len(nodes) == 1 {
		return lowerNode(nodes[0])
	}
	out := make([]g.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, lowerNode(n))
	}
	return g.Group(out)
}

// Lower lowers one node. The result serializes the way gomponents does:
// on one line, with attribute values HTML-escaped and always double-quoted.
func Lower(n ast.Node) g.Node {
	return lowerNode(n)
}

func lowerNode(n ast.Node) g.Node {
	switch t := n.(type) {
	case ast.Text:
		// Text is inserted verbatim by the renderer, so it must not be escaped here either.
		return g.Raw(t.Value)
	case *ast.Element:
		if t == nil {
			return nil
		}
		return lowerElement(t)
	case ast.Fragment:
		out := make([]g.Node, 0, len(t.Elements))
		for _, el := range t.Elements {
			if el != nil {
				out = append(out, lowerElement(el))
			}
		}
		return g.Group(out)
	default:
		return nil
	}
}

func lowerElement(el *ast.Element) g.Node {
	var args []g.Node

	// attrs first
	for _, a := range el.Attrs {
		if ax := lowerAttr(a); ax != nil {
			args = append(args, ax)
		}
	}
	if !render.IsVoid(el.Tag) {
		for _, c := range el.Children {
			if cx := lowerNode(c); cx != nil {
				args = append(args, cx)
			}
		}
	}
	return g.El(el.Tag, args...)
}

func lowerAttr(a ast.Attr) g.Node {
	switch a.Value {
	case "true":
		return g.Attr(a.Key)
	case "false":
		return nil
	default:
		return g.Attr(a.Key, a.Value)
	}
}

// Component embeds the rendered document, byte for byte, in a gomponents tree.
func Component(doc ast.Document, mode render.Mode) g.Node {
	return g.Raw(render.Document(doc, mode))
}
