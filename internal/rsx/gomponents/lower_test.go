package gomponents

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	g "maragu.dev/gomponents"

	"github.com/kilianc/rsx/internal/rsx/ast"
	"github.com/kilianc/rsx/internal/rsx/render"
)

func renderNode(t *testing.T, n g.Node) string {
	t.Helper()
	var b strings.Builder
	if err := n.Render(&b); err != nil {
		t.Fatal(err)
	}
	return b.String()
}

func sampleTree() *ast.Element {
	return &ast.Element{
		Tag: "div",
		Attrs: []ast.Attr{
			{Key: "class", Value: "card"},
			{Key: "hidden", Value: "true"},
			{Key: "inert", Value: "false"},
		},
		Children: []ast.Node{
			ast.Text{Value: "<!-- raw -->"},
			&ast.Element{Tag: "br", Children: []ast.Node{ast.Text{Value: "dropped"}}},
			&ast.Element{Tag: "ul", Children: []ast.Node{
				ast.Fragment{Elements: []*ast.Element{
					{Tag: "li", Children: []ast.Node{ast.Text{Value: "1"}}},
					{Tag: "li", Children: []ast.Node{ast.Text{Value: "2"}}},
				}},
			}},
			&ast.Element{Tag: "p"},
		},
	}
}

func TestLowerMatchesLinedRender(t *testing.T) {
	tree := sampleTree()
	want := render.Render(tree, render.Lined)
	if diff := cmp.Diff(want, renderNode(t, Lower(tree))); diff != "" {
		t.Errorf("gomponents output mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerEscapesAttributeValues(t *testing.T) {
	tree := &ast.Element{Tag: "div", Attrs: []ast.Attr{{Key: "title", Value: `a "b"`}}}
	got := renderNode(t, Lower(tree))
	if got != `<div title="a &#34;b&#34;"></div>` {
		t.Errorf("got %q", got)
	}
}

func TestLowerNodes(t *testing.T) {
	if LowerNodes(nil) != nil {
		t.Error("LowerNodes(nil) is not nil")
	}
	got := renderNode(t, LowerNodes([]ast.Node{
		ast.Text{Value: "a"},
		&ast.Element{Tag: "b", Children: []ast.Node{ast.Text{Value: "c"}}},
	}))
	if got != "a<b>c</b>" {
		t.Errorf("got %q", got)
	}
}

func TestComponent(t *testing.T) {
	doc := ast.Document{Doctype: true, Root: sampleTree()}
	page := g.El("main", Component(doc, render.Indent2))
	want := "<main>" + render.Document(doc, render.Indent2) + "</main>"
	if diff := cmp.Diff(want, renderNode(t, page)); diff != "" {
		t.Errorf("component mismatch (-want +got):\n%s", diff)
	}
}

func TestLowerSkipsNilElements(t *testing.T) {
	var nilEl *ast.Element
	if Lower(nilEl) != nil {
		t.Error("Lower(nil element) is not nil")
	}
	tree := &ast.Element{Tag: "ul", Children: []ast.Node{
		nilEl,
		ast.Fragment{Elements: []*ast.Element{nil, {Tag: "li"}}},
	}}
	if got := renderNode(t, Lower(tree)); got != "<ul><li></li></ul>" {
		t.Errorf("got %q", got)
	}
}
