package parser

// The syntax tree keeps expressions unevaluated so one parsed template can
// be built against many scopes, and loop bodies can be re-evaluated per item.

type item interface {
	itemPos() pos
}

type element struct {
	pos   pos
	tag   string
	items []item
}

type attrItem struct {
	pos   pos
	key   string
	value expr
}

type textItem struct {
	pos   pos
	value expr
}

type loopItem struct {
	pos  pos
	name string
	seq  expr
	body *element
}

func (e *element) itemPos() pos  { return e.pos }
func (a *attrItem) itemPos() pos { return a.pos }
func (t *textItem) itemPos() pos { return t.pos }
func (l *loopItem) itemPos() pos { return l.pos }

type expr interface {
	exprPos() pos
}

// literalExpr holds a string, bool, int64 or float64.
type literalExpr struct {
	pos   pos
	value any
}

type pathExpr struct {
	pos   pos
	parts []string
}

type callExpr struct {
	pos  pos
	name string
	args []expr
}

func (e *literalExpr) exprPos() pos { return e.pos }
func (e *pathExpr) exprPos() pos    { return e.pos }
func (e *callExpr) exprPos() pos    { return e.pos }
