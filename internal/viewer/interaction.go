package viewer

import (
	"io"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/meshkit/internal/engine/gizmo"
	"github.com/Faultbox/meshkit/internal/engine/input"
	"github.com/Faultbox/meshkit/internal/engine/picking"
	"github.com/Faultbox/meshkit/internal/engine/scene"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// dragScale converts pointer pixels into a fraction of the gizmo length.
const dragScale = 0.00005

// dragState tracks one pointer-down -> move -> up cycle.
type dragState struct {
	button input.Button
	down   mgl64.Vec2
	last   mgl64.Vec2
	axis   gizmo.Axis
	center mgl64.Vec3
}

// HandleEvent dispatches a queued input event.
func (c *Collection) HandleEvent(e input.Event) {
	switch e.Type {
	case input.EventPointerDown:
		c.PointerDown(e.Pos, e.Button)
	case input.EventPointerMove:
		c.PointerMove(e.Pos)
	case input.EventPointerUp:
		c.PointerUp(e.Pos, e.Button, e.Mods)
	case input.EventWheel:
		c.Dolly(e.Delta)
	case input.EventResize:
		c.Resize(e.Width, e.Height)
	}
}

// Ray unprojects a viewport pixel through the camera.
func (c *Collection) Ray(pos mgl64.Vec2) picking.Ray {
	return picking.UnprojectRay(pos, c.camera,
		float64(c.cfg.Viewport.Width), float64(c.cfg.Viewport.Height))
}

// PointerDown starts a drag. With the move tool, pressing the left button on
// a gizmo arm captures that axis and the selection center for the drag.
func (c *Collection) PointerDown(pos mgl64.Vec2, button input.Button) {
	if !c.loaded {
		return
	}
	c.drag = dragState{button: button, down: pos, last: pos}

	if c.tool != ToolMove || button != input.ButtonLeft || c.gizmo.Empty() {
		return
	}
	c.drag.axis = picking.HitAxis(c.scene, c.Ray(pos), c.gizmo.Arms())
	if c.drag.axis == gizmo.AxisNone {
		return
	}
	center, _, _, err := mesh.FindCenter(c.meshGeometries(c.Selected())...)
	if err != nil {
		c.drag.axis = gizmo.AxisNone
		return
	}
	c.drag.center = center
}

// PointerMove continues a drag. A left drag moves the selection along the
// captured axis, or orbits the camera when no axis was captured. Middle and
// right drags pan.
//
// Axis moves are measured from the pointer-down position, so holding the
// pointer away from the start keeps the selection moving.
func (c *Collection) PointerMove(pos mgl64.Vec2) {
	if !c.loaded {
		return
	}
	dx := c.drag.last.X() - pos.X()
	dy := c.drag.last.Y() - pos.Y()

	switch c.drag.button {
	case input.ButtonLeft:
		if c.tool == ToolMove && c.drag.axis != gizmo.AxisNone {
			c.MoveSelectionOnAxis(c.drag.axis, c.drag.center, dx, dy)
			return
		}
		c.camera.Orbit(&c.light, dx, dy)
	case input.ButtonMiddle, input.ButtonRight:
		c.camera.Pan(dx, dy)
	default:
		return
	}
	c.drag.last = pos
}

// PointerUp ends a drag. When the pointer did not move since it went down,
// the click picks the nearest visible model: a gizmo part is ignored, a mesh
// is selected (additively with Shift, Ctrl or the right button) and empty
// space clears the selection unless the click was additive. It returns the
// picked mesh, if any.
func (c *Collection) PointerUp(pos mgl64.Vec2, button input.Button, mods input.Mod) (scene.Handle, bool) {
	d := c.drag
	c.drag = dragState{}
	if !c.loaded || d.button == input.ButtonNone || pos != d.down {
		return 0, false
	}

	additive := mods.Additive() || button == input.ButtonRight

	hit, ok := picking.ClosestHit(c.scene, c.Ray(pos), c.IsHidden)
	if !ok {
		if !additive {
			c.UnselectAll()
		}
		return 0, false
	}
	if c.gizmo.Contains(hit.Handle) {
		return 0, false
	}
	if !c.SelectMesh(hit.Handle, additive) {
		return 0, false
	}
	return hit.Handle, true
}

// Pick returns the nearest visible mesh under a viewport pixel without
// changing any state.
func (c *Collection) Pick(pos mgl64.Vec2) (picking.Hit, bool) {
	hit, ok := picking.ClosestHit(c.scene, c.Ray(pos), func(h scene.Handle) bool {
		return c.IsHidden(h) || c.gizmo.Contains(h)
	})
	return hit, ok
}

// MoveSelectionOnAxis translates the selection and the gizmo along one world
// axis. X and Z follow horizontal pointer motion, Y vertical motion; the
// step is a fixed fraction of the gizmo length at center, and X and Z are
// flipped depending on which side of center the camera is on so screen
// direction stays consistent while orbiting. It returns the applied offset.
func (c *Collection) MoveSelectionOnAxis(axis gizmo.Axis, center mgl64.Vec3, dx, dy float64) mgl64.Vec3 {
	scale := gizmo.AxisLength(c.camera, center, c.gizmoFraction()) * dragScale

	var delta mgl64.Vec3
	switch axis {
	case gizmo.AxisX:
		delta[0] = dx * scale
	case gizmo.AxisY:
		delta[1] = dy * scale
	case gizmo.AxisZ:
		delta[2] = dx * scale
	default:
		return delta
	}

	pos := c.camera.Position
	if pos.Z()-center.Z() >= 0 {
		delta[0] = -delta[0]
	}
	if pos.X()-center.X() < 0 {
		delta[2] = -delta[2]
	}

	for _, g := range c.meshGeometries(c.Selected()) {
		mesh.Translate(g, delta)
	}
	c.gizmo.Translate(c.scene, delta)
	return delta
}

func (c *Collection) gizmoFraction() float64 {
	if f := c.cfg.Gizmo.ViewportFraction; f > 0 {
		return f
	}
	return gizmo.DefaultViewportFraction
}

// Dolly moves the camera toward or away from the origin by wheel ticks and
// resizes a drawn gizmo for the new distance.
func (c *Collection) Dolly(delta int) {
	c.camera.Dolly(delta)
	if c.tool == ToolMove && !c.gizmo.Empty() {
		c.DrawAxis()
	}
}

// Pan slides the camera by pointer pixels.
func (c *Collection) Pan(dx, dy float64) {
	c.camera.Pan(dx, dy)
}

// Orbit turns the camera about the origin by pointer pixels.
func (c *Collection) Orbit(dx, dy float64) {
	c.camera.Orbit(&c.light, dx, dy)
}

// ExportOBJ writes every loaded model, hidden ones included, as OBJ.
// Materials are not exported.
func (c *Collection) ExportOBJ(w io.Writer) error {
	return formats.WriteOBJ(w, c.scene.Models(scene.KindMesh))
}
