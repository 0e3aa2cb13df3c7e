// Package gizmo draws the three-axis move handle shown over a selection and
// tracks which scene entries belong to it.
package gizmo

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/meshkit/internal/engine/camera"
	"github.com/Faultbox/meshkit/internal/engine/scene"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// DefaultViewportFraction is the share of the near-plane width an axis spans.
const DefaultViewportFraction = 0.20

const (
	tipFraction       = 0.2
	thicknessFraction = 0.03
)

// Axis names a gizmo arm.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "none"
	}
}

// Direction returns the world unit vector of the axis.
func (a Axis) Direction() mgl64.Vec3 {
	switch a {
	case AxisX:
		return mgl64.Vec3{1, 0, 0}
	case AxisY:
		return mgl64.Vec3{0, 1, 0}
	case AxisZ:
		return mgl64.Vec3{0, 0, 1}
	default:
		return mgl64.Vec3{}
	}
}

var axisColors = map[Axis]mgl64.Vec3{
	AxisX: {1, 0, 0},
	AxisY: {0, 128.0 / 255.0, 0},
	AxisZ: {0, 0, 1},
}

// Gizmo holds the scene handles of each arm (shaft and tip).
type Gizmo struct {
	X, Y, Z []scene.Handle

	// Fraction overrides DefaultViewportFraction when positive.
	Fraction float64
}

// AxisLength returns the world length that makes an arm cover fraction of
// the viewport width when seen from cam at the given center.
func AxisLength(cam *camera.Camera, center mgl64.Vec3, fraction float64) float64 {
	if cam.NearPlaneDistance == 0 {
		return 0
	}
	dist := cam.Position.Sub(center).Len()
	return dist * (cam.NearPlaneWidth() * fraction) / cam.NearPlaneDistance
}

func (g *Gizmo) fraction() float64 {
	if g.Fraction > 0 {
		return g.Fraction
	}
	return DefaultViewportFraction
}

// Arm returns the handles tracked for axis a.
func (g *Gizmo) Arm(a Axis) []scene.Handle {
	switch a {
	case AxisX:
		return g.X
	case AxisY:
		return g.Y
	case AxisZ:
		return g.Z
	default:
		return nil
	}
}

// Arms returns the X, Y and Z handle lists in hit-test order.
func (g *Gizmo) Arms() [3][]scene.Handle {
	return [3][]scene.Handle{g.X, g.Y, g.Z}
}

// Clear removes every gizmo entry from scn and forgets the handles.
func (g *Gizmo) Clear(scn *scene.Scene) {
	for _, h := range g.Handles() {
		scn.Remove(h)
	}
	g.X, g.Y, g.Z = nil, nil, nil
}

// Draw replaces the gizmo with fresh arms centered on geoms. Nothing is drawn
// when geoms carry no vertices.
func (g *Gizmo) Draw(scn *scene.Scene, cam *camera.Camera, geoms []*mesh.Geometry) {
	g.Clear(scn)

	center, _, _, err := mesh.FindCenter(geoms...)
	if err != nil {
		return
	}

	length := AxisLength(cam, center, g.fraction())
	tip := length * tipFraction
	thickness := length * thicknessFraction

	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		dir := a.Direction()
		color := axisColors[a]
		shaftEnd := center.Add(dir.Mul(length))

		shaft := scn.Add(scene.KindGizmo, mesh.CreateLine(center, shaftEnd, thickness, color, false))
		point := scn.Add(scene.KindGizmo, mesh.CreateLine(shaftEnd, shaftEnd.Add(dir.Mul(tip)), thickness*2, color, true))

		switch a {
		case AxisX:
			g.X = append(g.X, shaft, point)
		case AxisY:
			g.Y = append(g.Y, shaft, point)
		case AxisZ:
			g.Z = append(g.Z, shaft, point)
		}
	}
}

// Translate moves every gizmo entry by delta.
func (g *Gizmo) Translate(scn *scene.Scene, delta mgl64.Vec3) {
	for _, h := range g.Handles() {
		if m := scn.Model(h); m.HasGeometry() {
			mesh.Translate(m.Geometry, delta)
		}
	}
}

// Contains reports whether h belongs to the gizmo.
func (g *Gizmo) Contains(h scene.Handle) bool {
	return slices.Contains(g.X, h) || slices.Contains(g.Y, h) || slices.Contains(g.Z, h)
}

// Handles returns all gizmo handles, X first.
func (g *Gizmo) Handles() []scene.Handle {
	out := make([]scene.Handle, 0, len(g.X)+len(g.Y)+len(g.Z))
	out = append(out, g.X...)
	out = append(out, g.Y...)
	return append(out, g.Z...)
}

// Empty reports whether no gizmo is drawn.
func (g *Gizmo) Empty() bool {
	return len(g.X) == 0 && len(g.Y) == 0 && len(g.Z) == 0
}
