package game

import (
	"github.com/vovakirdan/graveyard/internal/actor"
	"github.com/vovakirdan/graveyard/internal/core"
)

// Camera keeps its target centred in the viewport.
type Camera struct {
	target actor.Target
	focus  core.Point // last known target cell
}

// Follow binds the camera to target.
func (c *Camera) Follow(target actor.Target) {
	c.target = target
	if target != nil {
		c.focus = target.Cell()
	}
}

// Detach releases the target. The camera keeps looking at its last position.
func (c *Camera) Detach() {
	if c.target != nil {
		c.focus = c.target.Cell()
	}
	c.target = nil
}

// Following reports whether the camera has a target.
func (c *Camera) Following() bool {
	return c.target != nil
}

// Offset returns where level cell (0,0) lands in a view of viewW x viewH.
// A level smaller than the view is centred; a larger one scrolls with the
// target but never past its edges.
func (c *Camera) Offset(viewW, viewH, levelW, levelH int) core.Point {
	if c.target != nil {
		c.focus = c.target.Cell()
	}
	return core.Point{
		X: axisOffset(viewW, levelW, c.focus.X),
		Y: axisOffset(viewH, levelH, c.focus.Y),
	}
}

func axisOffset(view, level, focus int) int {
	if level <= view {
		return (view - level) / 2
	}
	return core.Clamp(view/2-focus, view-level, 0)
}
