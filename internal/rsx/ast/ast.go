package ast

// Node is one entry in a markup tree: *Element, Text or Fragment.
type Node interface {
	node()
}

// Text is a literal or an already stringified expression value.
type Text struct {
	Value string
}

func (Text) node() {}

// Attr is a single attribute occurrence. Keys are not deduplicated.
type Attr struct {
	Key string
	// Value is the rendered value; "true" and "false" mark boolean attributes.
	Value string
}

// Element is a tag with its attributes and child slots in declared order.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

func (*Element) node() {}

// Fragment holds the elements produced by one loop. It fills a single
// child slot of its parent.
type Fragment struct {
	Elements []*Element
}

func (Fragment) node() {}

// Document is a root element plus the modifiers that apply to the whole output.
type Document struct {
	Root    *Element
	Doctype bool
}

// Child is an attribute or a node that can be placed inside an element.
type Child interface {
	applyTo(*Element)
}

func (a Attr) applyTo(e *Element)      { e.Attrs = append(e.Attrs, a) }
func (t Text) applyTo(e *Element)      { e.Children = append(e.Children, t) }
func (f Fragment) applyTo(e *Element)  { e.Children = append(e.Children, f) }
func (el *Element) applyTo(e *Element) { e.Children = append(e.Children, el) }

// NewElement builds an element from attributes and nodes in declared
// order. Nil children are skipped.
func NewElement(tag string, children ...Child) *Element {
	e := &Element{Tag: tag}
	for _, c := range children {
		if c == nil {
			continue
		}
		if el, ok := c.(*Element); ok && el == nil {
			continue
		}
		c.applyTo(e)
	}
	return e
}
