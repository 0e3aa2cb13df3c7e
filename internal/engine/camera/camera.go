// Package camera provides the perspective camera used by the viewer and the
// orbit, pan and dolly navigation around the world origin.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Navigation defaults.
const (
	DefaultFieldOfView = 60.0  // Horizontal, degrees
	DefaultNearPlane   = 0.125 // World units
	Sensitivity        = 0.005 // Radians (orbit) or world units (pan) per pixel
	MinDollyDistance   = 0.5   // Closest approach to the origin
	DollyStep          = 0.1   // Fraction of the distance to the origin per wheel tick

	// Orbiting stops this many degrees short of either pole.
	MinPoleAngle = 4.0
	MaxPoleAngle = 176.0
)

var worldUp = mgl64.Vec3{0, 1, 0}

// Camera is a perspective camera. LookDirection need not be normalized.
type Camera struct {
	Position          mgl64.Vec3
	LookDirection     mgl64.Vec3
	UpDirection       mgl64.Vec3
	FieldOfView       float64 // Horizontal, degrees
	NearPlaneDistance float64

	// Tuning, overridable from config
	Sensitivity      float64
	MinDollyDistance float64
}

// Light is a directional light that follows the camera.
type Light struct {
	Direction mgl64.Vec3
}

// New creates a camera five units out on +Z looking at the origin.
func New() *Camera {
	return &Camera{
		Position:          mgl64.Vec3{0, 0, 5},
		LookDirection:     mgl64.Vec3{0, 0, -5},
		UpDirection:       worldUp,
		FieldOfView:       DefaultFieldOfView,
		NearPlaneDistance: DefaultNearPlane,
		Sensitivity:       Sensitivity,
		MinDollyDistance:  MinDollyDistance,
	}
}

// Look returns the normalized look direction.
func (c *Camera) Look() mgl64.Vec3 {
	return normalize(c.LookDirection)
}

// Right returns the normalized camera-space right axis (look x up).
func (c *Camera) Right() mgl64.Vec3 {
	return normalize(c.Look().Cross(c.UpDirection))
}

// TrueUp returns the camera-space up axis, orthogonal to look and right.
func (c *Camera) TrueUp() mgl64.Vec3 {
	return normalize(c.Right().Cross(c.Look()))
}

// NearPlaneWidth returns the full width of the near plane.
func (c *Camera) NearPlaneWidth() float64 {
	return 2 * math.Tan(mgl64.DegToRad(c.FieldOfView)/2) * c.NearPlaneDistance
}

// Orbit rotates the camera about the world origin. dx turns about the camera
// up axis; dy tilts about the camera right axis unless that would bring the
// camera within MinPoleAngle of a pole, in which case only the horizontal
// step is kept. The light, if any, is pointed along the new look direction.
func (c *Camera) Orbit(light *Light, dx, dy float64) {
	look := c.Look()
	up := c.TrueUp()

	h := mgl64.QuatRotate(dx*c.Sensitivity, up)
	c.Position = h.Rotate(c.Position)
	c.LookDirection = c.Position.Mul(-1)
	defer c.syncLight(light)

	right := normalize(look.Cross(up))
	if right.Len() == 0 {
		return
	}
	v := mgl64.QuatRotate(dy*c.Sensitivity, right)
	tilted := v.Rotate(c.Position)

	if angle := AngleFromUp(tilted); angle < MinPoleAngle || angle > MaxPoleAngle {
		return
	}
	c.Position = tilted
	c.LookDirection = c.Position.Mul(-1)
}

func (c *Camera) syncLight(light *Light) {
	if light != nil {
		light.Direction = c.LookDirection
	}
}

// AngleFromUp returns the angle in degrees between pos and the world +Y axis.
func AngleFromUp(pos mgl64.Vec3) float64 {
	l := pos.Len()
	if l == 0 {
		return 0
	}
	cos := mgl64.Clamp(pos.Dot(worldUp)/l, -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

// Pan slides the camera without turning it: dx moves it against the screen
// right axis, dy against the screen up axis (drag-the-world semantics).
func (c *Camera) Pan(dx, dy float64) {
	left := normalize(c.UpDirection.Cross(c.LookDirection))
	c.Position = c.Position.Sub(left.Mul(dx * c.Sensitivity))
	c.Position = c.Position.Sub(c.TrueUp().Mul(dy * c.Sensitivity))
}

// Dolly moves the camera along its look direction by DollyStep of its
// distance to the origin, forward for positive delta. A step that would end
// closer than MinDollyDistance is ignored.
func (c *Camera) Dolly(delta int) {
	if delta == 0 {
		return
	}
	step := DollyStep * c.Position.Len()
	if delta < 0 {
		step = -step
	}

	next := c.Position.Add(c.Look().Mul(step))
	if next.Len() > c.MinDollyDistance {
		c.Position = next
	}
}

// Frame places the camera on +Z at twice radius from the origin looking down
// -Z, resets the field of view and points the light along the view.
func (c *Camera) Frame(radius float64, light *Light) {
	if radius <= 0 {
		radius = 1
	}
	c.Position = mgl64.Vec3{0, 0, 2 * radius}
	c.LookDirection = mgl64.Vec3{0, 0, -1}
	c.UpDirection = worldUp
	c.FieldOfView = DefaultFieldOfView
	c.syncLight(light)
}

func normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}
