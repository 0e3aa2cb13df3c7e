// Package picking provides ray casting and object picking utilities.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/meshkit/internal/engine/camera"
	"github.com/Faultbox/meshkit/internal/engine/gizmo"
	"github.com/Faultbox/meshkit/internal/engine/scene"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

const epsilon = 1e-8

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// UnprojectRay converts a pixel position in a viewport of width w and height
// h into a world-space ray leaving the camera. The horizontal field of view
// sets the near-plane width; its height follows the viewport aspect ratio.
func UnprojectRay(pos mgl64.Vec2, cam *camera.Camera, w, h float64) Ray {
	look := cam.Look()
	near := cam.NearPlaneDistance

	halfWidth := math.Tan(mgl64.DegToRad(cam.FieldOfView)/2) * near
	wholeWidth := halfWidth * 2
	wholeHeight := wholeWidth * h / w
	halfHeight := wholeHeight / 2

	right := normalize(look.Cross(cam.UpDirection))
	up := normalize(right.Cross(look))

	leftRight := pos.X()/w*wholeWidth - halfWidth
	upDown := halfHeight - pos.Y()/h*wholeHeight

	onNear := cam.Position.Add(look.Mul(near)).Add(right.Mul(leftRight)).Add(up.Mul(upDown))
	return Ray{Origin: cam.Position, Direction: normalize(onNear.Sub(cam.Position))}
}

// RayTriangle intersects a ray with triangle v0 v1 v2 (Möller–Trumbore).
// Rays parallel to the triangle plane and hits behind the origin miss.
func RayTriangle(origin, dir, v0, v1, v2 mgl64.Vec3) (mgl64.Vec3, bool) {
	dir = normalize(dir)

	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	pvec := dir.Cross(edge2)
	det := edge1.Dot(pvec)
	if det > -epsilon && det < epsilon {
		return mgl64.Vec3{}, false
	}
	invDet := 1 / det

	tvec := origin.Sub(v0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return mgl64.Vec3{}, false
	}

	qvec := tvec.Cross(edge1)
	v := dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return mgl64.Vec3{}, false
	}

	t := edge2.Dot(qvec) * invDet
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return origin.Add(dir.Mul(t)), true
}

// ClosestHitOnModel returns the nearest triangle hit on model and its
// distance from the ray origin. Models without geometry never hit.
func ClosestHitOnModel(r Ray, model *mesh.Model) (point mgl64.Vec3, dist float64, hit bool) {
	if !model.HasGeometry() {
		return mgl64.Vec3{}, 0, false
	}
	g := model.Geometry

	if _, ok := r.IntersectAABB(BoundsOf(g)); !ok {
		return mgl64.Vec3{}, 0, false
	}

	for i := 0; i < g.TriangleCount(); i++ {
		v0, v1, v2, ok := g.Triangle(i)
		if !ok {
			continue
		}
		p, ok := RayTriangle(r.Origin, r.Direction, v0, v1, v2)
		if !ok {
			continue
		}
		d := p.Sub(r.Origin).Len()
		if !hit || d < dist {
			point, dist, hit = p, d, true
		}
	}
	return point, dist, hit
}

// Hit is the result of a scene pick.
type Hit struct {
	Handle   scene.Handle
	Point    mgl64.Vec3
	Distance float64
}

// ClosestHit casts r against every model in scn, newest entry first, and
// returns the nearest hit. Entries for which skip returns true are ignored;
// ties keep the newer entry.
func ClosestHit(scn *scene.Scene, r Ray, skip func(scene.Handle) bool) (Hit, bool) {
	var best Hit
	found := false

	handles := scn.Handles()
	for i := len(handles) - 1; i >= 0; i-- {
		h := handles[i]
		if skip != nil && skip(h) {
			continue
		}
		p, d, ok := ClosestHitOnModel(r, scn.Model(h))
		if !ok {
			continue
		}
		if !found || d < best.Distance {
			best = Hit{Handle: h, Point: p, Distance: d}
			found = true
		}
	}
	return best, found
}

// HitAxis reports which gizmo arm r passes through, testing X, then Y, then Z.
func HitAxis(scn *scene.Scene, r Ray, arms [3][]scene.Handle) gizmo.Axis {
	for i, axis := range []gizmo.Axis{gizmo.AxisX, gizmo.AxisY, gizmo.AxisZ} {
		for _, h := range arms[i] {
			if _, _, ok := ClosestHitOnModel(r, scn.Model(h)); ok {
				return axis
			}
		}
	}
	return gizmo.AxisNone
}

func normalize(v mgl64.Vec3) mgl64.Vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return v
}
