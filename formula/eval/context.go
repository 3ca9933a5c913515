package eval

import (
	"github.com/midbel/gnumeric/layout"
)

// state is shared by every cell evaluated during one top level call.
type state struct {
	visiting map[layout.Position]struct{}
	depth    int
	refs     CellSet
}

func newState() *state {
	return &state{
		visiting: make(map[layout.Position]struct{}),
		refs:     make(CellSet),
	}
}

func (s *state) enter(pos layout.Position) {
	s.visiting[pos] = struct{}{}
	s.depth++
}

func (s *state) leave(pos layout.Position) {
	delete(s.visiting, pos)
	s.depth--
}

func (s *state) isVisiting(pos layout.Position) bool {
	_, ok := s.visiting[pos]
	return ok
}

// EngineContext is the scope of one formula being evaluated: the cell it is
// evaluated for and the offset between this cell and the cell where the
// formula was written.
type EngineContext struct {
	*state

	anchor Cell
	offset layout.Position
	record bool
}

func topContext(anchor Cell, origin Origin) *EngineContext {
	return &EngineContext{
		state:  newState(),
		anchor: anchor,
		offset: origin.Offset(anchor.Position()),
		record: true,
	}
}

// enterContext creates the scope of a top level evaluation. Relative
// references are moved by the distance between the anchor and the cell where
// its formula was written, and the anchor itself is under evaluation until
// done is called.
func enterContext(anchor Cell) (*EngineContext, func()) {
	origin := Origin{Position: anchor.Position()}
	if o, ok := anchor.Formula(); ok {
		origin = o
	}
	var (
		ctx = topContext(anchor, origin)
		pos = anchor.Position()
	)
	ctx.enter(pos)
	return ctx, func() { ctx.leave(pos) }
}

// Sub creates the scope of a cell evaluated while evaluating the current
// formula. Only the cells read by the top level formula are recorded.
func (c *EngineContext) Sub(cell Cell, origin Origin) *EngineContext {
	return &EngineContext{
		state:  c.state,
		anchor: cell,
		offset: origin.Offset(cell.Position()),
	}
}

func (c *EngineContext) Anchor() Cell {
	return c.anchor
}

func (c *EngineContext) Offset() layout.Position {
	return c.offset
}

func (c *EngineContext) Depth() int {
	return c.depth
}

func (c *EngineContext) References() CellSet {
	return c.refs
}

func (c *EngineContext) Record(cell Cell) {
	if c.record {
		c.refs.Add(cell.Position())
	}
}
