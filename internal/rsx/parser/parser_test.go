package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	g "maragu.dev/gomponents"

	"github.com/kilianc/rsx/internal/rsx/ast"
	"github.com/kilianc/rsx/internal/rsx/render"
)

func mustBuild(t *testing.T, src string, opts Options) string {
	t.Helper()
	doc, err := Build("test.rsx", src, opts)
	if err != nil {
		t.Fatalf("Build(%q): %v", src, err)
	}
	return doc.String()
}

func TestBuild(t *testing.T) {
	type user struct {
		Name string
	}

	cases := []struct {
		name string
		src  string
		opts Options
		want string
	}{
		{
			name: "empty p btfy2",
			src:  `btfy2, p { }`,
			want: "<p></p>",
		},
		{
			name: "p with text btfy2",
			src:  `btfy2, p {"..."}`,
			want: "<p>\n  ...\n</p>",
		},
		{
			name: "span btfy0",
			src:  `btfy0, span { "..." }`,
			want: "<span>\n...\n</span>",
		},
		{
			name: "mode from options",
			src:  `p { "..." }`,
			opts: Options{Mode: render.Indent4},
			want: "<p>\n    ...\n</p>",
		},
		{
			name: "prefix wins over options",
			src:  `lined, p { "..." }`,
			opts: Options{Mode: render.Indent4},
			want: "<p>...</p>",
		},
		{
			name: "attributes",
			src: `lined, div {
				class: "a", "x-show": open, disabled: false, checked: true,
				":class": "p-4"
				"..."
			}`,
			opts: Options{Scope: Scope{"open": "open"}},
			want: `<div class="a" x-show='open' checked :class='p-4'>...</div>`,
		},
		{
			name: "boolean attribute from scope",
			src:  `lined, script { defer: {lazy}, async: eager, src: "/app.js" }`,
			opts: Options{Scope: Scope{"lazy": true, "eager": false}},
			want: `<script defer src="/app.js"></script>`,
		},
		{
			name: "numbers and void tags",
			src:  `lined, input { maxlength: 10, step: 0.5, min: -2, "ignored" }`,
			want: `<input maxlength="10" step="0.5" min="-2">`,
		},
		{
			name: "quoted values",
			src:  "lined, div { title: \"say \\\"hi\\\"\", \"x-data\": `{ \"a\": 1 }` }",
			want: `<div title='say "hi"' x-data='{ "a": 1 }'></div>`,
		},
		{
			name: "duplicate keys",
			src:  `lined, div { class: "a", class: "b" }`,
			want: `<div class="a" class="b"></div>`,
		},
		{
			name: "comments",
			src: `// page header
			lined, header { /* brand */ "a" // trailing
			}`,
			want: "<header>a</header>",
		},
		{
			name: "struct and map fields",
			src:  `lined, p { {user.Name} " " {site.title} }`,
			opts: Options{Scope: Scope{
				"user": &user{Name: "Ada"},
				"site": map[string]any{"title": "Home"},
			}},
			want: "<p>Ada Home</p>",
		},
		{
			name: "funcs",
			src:  `lined, p { {upper(name)} {lower("MANGO")} {char(name, 1)} {concat(a, "-", 3)} {trim("  x ")} {join(list, ", ")} }`,
			opts: Options{Scope: Scope{"name": "orange", "a": "z", "list": []string{"1", "2"}}},
			want: "<p>ORANGEmangooz-3x1, 2</p>",
		},
		{
			name: "custom funcs",
			src:  `lined, p { {shout(name)} }`,
			opts: Options{
				Scope: Scope{"name": "hey"},
				Funcs: map[string]Func{"shout": func(args ...any) (any, error) { return args[0].(string) + "!", nil }},
			},
			want: "<p>hey!</p>",
		},
		{
			name: "nested loops",
			src:  `lined, ul { for row in rows => { li { for c in row.cells => { span { {c} } } } } }`,
			opts: Options{Scope: Scope{"rows": []map[string]any{
				{"cells": []any{"a", "b"}},
				{"cells": []any{}},
			}}},
			want: "<ul><li><span>a</span><span>b</span></li><li></li></ul>",
		},
		{
			name: "loop variable shadows scope",
			src:  `lined, ul { for x in xs => { li { {x} } } {x} }`,
			opts: Options{Scope: Scope{"x": "outer", "xs": []int{1, 2}}},
			want: "<ul><li>1</li><li>2</li>outer</ul>",
		},
		{
			name: "sanitize applies to expressions only",
			src:  `lined, p { "<b>lit</b>" {v} title: {v} }`,
			opts: Options{
				Scope:    Scope{"v": "x"},
				Sanitize: strings.ToUpper,
			},
			want: `<p title="x"><b>lit</b>X</p>`,
		},
		{
			name: "gomponents value",
			src:  `lined, p { {badge} }`,
			opts: Options{Scope: Scope{"badge": g.El("b", g.Text("new"))}},
			want: "<p><b>new</b></p>",
		},
		{
			name: "doctype",
			src:  `btfy2, doctype_html html { head {} body {} }`,
			want: "<!DOCTYPE html>\n<html>\n  <head></head>\n  <body></body>\n</html>",
		},
		{
			name: "element named like a keyword",
			src:  `lined, for { in {} }`,
			want: "<for><in></in></for>",
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, mustBuild(t, tt.src, tt.opts)); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildFruitSection(t *testing.T) {
	apple := mustBuild(t, `lined, span { {apple} }`, Options{Scope: Scope{"apple": "🍎 Apple"}})

	component, err := Build("apple.rsx", `lined, span { {apple} }`, Options{Scope: Scope{"apple": "🍎 Apple"}})
	if err != nil {
		t.Fatal(err)
	}

	src := `btfy4, section { div { ol {
		for fruit in fruits => {
			li {
				span {
					{fruit}
				}
			}
		}
		li {
			{"<!-- How to join RSX component -->"}
			{component}
			{char(apple, 1)}
		}
	} } }`
	got := mustBuild(t, src, Options{Scope: Scope{
		"fruits":    []string{"🍇 Grapes", "🥭 mango", "ORANGE"},
		"component": component,
		"apple":     "🍎 Apple",
	}})

	want := `<section>
    <div>
        <ol>
            <li>
                <span>
                    🍇 Grapes
                </span>
            </li>
            <li>
                <span>
                    🥭 mango
                </span>
            </li>
            <li>
                <span>
                    ORANGE
                </span>
            </li>
            <li>
                <!-- How to join RSX component -->
                ` + apple + `
                🍎
            </li>
        </ol>
    </div>
</section>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateBuildsAgainstManyScopes(t *testing.T) {
	tmpl, err := Parse("greet.rsx", `lined, p { {name} }`)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a", "b"} {
		doc, err := tmpl.Build(Options{Scope: Scope{"name": name}})
		if err != nil {
			t.Fatal(err)
		}
		if got, want := doc.String(), "<p>"+name+"</p>"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestBuildTree(t *testing.T) {
	doc, err := Build("tree.rsx", `btfy2, doctype_html ul { id: "x", for i in xs => { li { {i} } } "end" }`, Options{
		Scope: Scope{"xs": []string{"a"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := ast.Document{
		Doctype: true,
		Root: &ast.Element{
			Tag:   "ul",
			Attrs: []ast.Attr{{Key: "id", Value: "x"}},
			Children: []ast.Node{
				ast.Fragment{Elements: []*ast.Element{
					{Tag: "li", Children: []ast.Node{ast.Text{Value: "a"}}},
				}},
				ast.Text{Value: "end"},
			},
		},
	}
	if diff := cmp.Diff(want, doc.Document); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if doc.Mode != render.Indent2 {
		t.Errorf("mode = %v, want btfy2", doc.Mode)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		opts Options
		kind error
	}{
		{"unclosed element", `div {`, Options{}, ErrSyntax},
		{"bare identifier", `div { span }`, Options{}, ErrSyntax},
		{"unknown mode", `btfy3, div {}`, Options{}, ErrSyntax},
		{"missing root", `lined,`, Options{}, ErrSyntax},
		{"two roots", `div {} span {}`, Options{}, ErrSyntax},
		{"unterminated string", `div { "abc }`, Options{}, ErrSyntax},
		{"unterminated comment", `div { /* }`, Options{}, ErrSyntax},
		{"unexpected character", `div { @ }`, Options{}, ErrSyntax},
		{"unclosed expression", `div { {a }`, Options{Scope: Scope{"a": 1}}, ErrSyntax},
		{"loop body text", `ul { for x in xs => { "text" } }`, Options{Scope: Scope{"xs": []int{}}}, ErrSyntax},
		{"loop body two elements", `ul { for x in xs => { li {} li {} } }`, Options{Scope: Scope{"xs": []int{}}}, ErrSyntax},
		{"loop missing in", `ul { for x of xs => { li {} } }`, Options{}, ErrSyntax},
		{"loop missing arrow", `ul { for x in xs { li {} } }`, Options{}, ErrSyntax},
		{"undefined name", `div { {missing} }`, Options{}, ErrUndefined},
		{"undefined field", `div { {site.missing} }`, Options{Scope: Scope{"site": map[string]any{}}}, ErrUndefined},
		{"unexported field", `div { {u.secret} }`, Options{Scope: Scope{"u": struct{ secret string }{"s"}}}, ErrUndefined},
		{"undefined func", `div { {nope(1)} }`, Options{}, ErrUndefined},
		{"range over number", `ul { for x in n => { li {} } }`, Options{Scope: Scope{"n": 3}}, ErrValue},
		{"range over string", `ul { for x in s => { li {} } }`, Options{Scope: Scope{"s": "abc"}}, ErrValue},
		{"bad func args", `p { {char("abc")} }`, Options{}, ErrValue},
		{"undefined inside loop", `ul { for x in xs => { li { {y} } } }`, Options{Scope: Scope{"xs": []int{1}}}, ErrUndefined},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build("bad.rsx", tt.src, tt.opts)
			if err == nil {
				t.Fatalf("Build(%q) succeeded", tt.src)
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("Build(%q) error %v, want %v", tt.src, err, tt.kind)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *Error", err)
			}
			if !strings.HasPrefix(err.Error(), "bad.rsx:") {
				t.Errorf("error %q does not carry the template name", err)
			}
		})
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := Parse("pos.rsx", "div {\n  span\n}")
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *Error", err)
	}
	if perr.Line != 3 || perr.Col != 1 {
		t.Errorf("position = %d:%d, want 3:1", perr.Line, perr.Col)
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{int64(-7), "-7"},
		{uint8(255), "255"},
		{1.5, "1.5"},
		{float32(0.25), "0.25"},
		{[]int{1, 2}, "[1 2]"},
	}
	for _, tt := range cases {
		got, err := Stringify(tt.in)
		if err != nil {
			t.Fatalf("Stringify(%#v): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Stringify(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
