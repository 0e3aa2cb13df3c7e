package mesh

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoVertices is returned when a center or extent is requested for an
// empty set of geometries.
var ErrNoVertices = errors.New("no vertices")

// Box topology shared by CreateLine: near face 0-3, far face 4-7.
var lineIndices = []int{
	0, 1, 2, 2, 1, 3, // near
	4, 6, 5, 5, 6, 7, // far
	0, 2, 4, 4, 2, 6, // left
	1, 5, 3, 3, 5, 7, // right
	0, 4, 1, 1, 4, 5, // top
	2, 3, 6, 6, 3, 7, // bottom
}

// CreateLine builds a thick line segment from start to end as an 8-vertex,
// 12-triangle box with a square cross-section of the given thickness.
// With pointedTip the four far corners collapse onto end, forming a pyramid.
func CreateLine(start, end mgl64.Vec3, thickness float64, color mgl64.Vec3, pointedTip bool) *Model {
	dir := end.Sub(start)
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}

	p1 := dir.Cross(mgl64.Vec3{0, 0, 1})
	if p1.Len() == 0 {
		p1 = dir.Cross(mgl64.Vec3{0, 1, 0})
	}
	p1 = normalizeOrZero(p1)
	p2 := normalizeOrZero(dir.Cross(p1))

	p1 = p1.Mul(thickness / 2)
	p2 = p2.Mul(thickness / 2)

	positions := []mgl64.Vec3{
		start.Add(p1).Add(p2),
		start.Add(p1).Sub(p2),
		start.Sub(p1).Add(p2),
		start.Sub(p1).Sub(p2),
		end.Add(p1).Add(p2),
		end.Add(p1).Sub(p2),
		end.Sub(p1).Add(p2),
		end.Sub(p1).Sub(p2),
	}
	if pointedTip {
		for i := 4; i < 8; i++ {
			positions[i] = end
		}
	}

	indices := make([]int, len(lineIndices))
	copy(indices, lineIndices)

	return &Model{
		Geometry: &Geometry{Positions: positions, Indices: indices},
		Material: Solid(color),
	}
}

func normalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

// FindCenter returns the arithmetic mean of every vertex across geoms along
// with the component-wise min and max extents. Nil geometries are skipped.
func FindCenter(geoms ...*Geometry) (center, min, max mgl64.Vec3, err error) {
	var sum mgl64.Vec3
	count := 0
	min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	for _, g := range geoms {
		if g == nil {
			continue
		}
		for _, p := range g.Positions {
			sum = sum.Add(p)
			for i := 0; i < 3; i++ {
				min[i] = math.Min(min[i], p[i])
				max[i] = math.Max(max[i], p[i])
			}
			count++
		}
	}

	if count == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}, ErrNoVertices
	}
	return sum.Mul(1 / float64(count)), min, max, nil
}

// Translate moves every vertex of g by delta in place.
func Translate(g *Geometry, delta mgl64.Vec3) {
	if g == nil {
		return
	}
	for i := range g.Positions {
		g.Positions[i] = g.Positions[i].Add(delta)
	}
}

// RotateAroundCenter rotates all geoms in place by degrees about axis
// (right-hand rule), pivoting on their common center.
func RotateAroundCenter(geoms []*Geometry, axis mgl64.Vec3, degrees float64) error {
	center, _, _, err := FindCenter(geoms...)
	if err != nil {
		return err
	}
	if axis.Len() == 0 {
		return nil
	}

	q := mgl64.QuatRotate(mgl64.DegToRad(degrees), axis.Normalize())
	for _, g := range geoms {
		if g == nil {
			continue
		}
		for i, p := range g.Positions {
			g.Positions[i] = q.Rotate(p.Sub(center)).Add(center)
		}
		for i, n := range g.Normals {
			g.Normals[i] = q.Rotate(n)
		}
	}
	return nil
}

// Stats summarizes a set of geometries.
type Stats struct {
	Vertices  int
	Triangles int
	Min       mgl64.Vec3
	Max       mgl64.Vec3
}

// MaxRadius returns the length of the vector built from the largest absolute
// extent on each axis. Used to frame the camera around a loaded scene.
func (s Stats) MaxRadius() float64 {
	var v mgl64.Vec3
	for i := 0; i < 3; i++ {
		v[i] = math.Max(math.Abs(s.Min[i]), math.Abs(s.Max[i]))
	}
	return v.Len()
}

// CountStats counts vertices and triangles across geoms. Extents start at the
// origin, so the reported box always contains it.
func CountStats(geoms ...*Geometry) Stats {
	var s Stats
	for _, g := range geoms {
		if g == nil {
			continue
		}
		s.Vertices += len(g.Positions)
		s.Triangles += g.TriangleCount()
		for _, p := range g.Positions {
			for i := 0; i < 3; i++ {
				s.Min[i] = math.Min(s.Min[i], p[i])
				s.Max[i] = math.Max(s.Max[i], p[i])
			}
		}
	}
	return s
}
