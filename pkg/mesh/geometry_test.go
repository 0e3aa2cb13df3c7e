package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func vecNear(t *testing.T, want, got mgl64.Vec3, tol float64) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, tol), "want %v, got %v", want, got)
}

func triangleGeometry() *Geometry {
	return &Geometry{
		Positions: []mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}},
		Indices:   []int{0, 1, 2},
	}
}

func TestFindCenter(t *testing.T) {
	center, min, max, err := FindCenter(triangleGeometry())
	require.NoError(t, err)

	vecNear(t, mgl64.Vec3{0.667, 0.667, 0}, center, 1e-3)
	vecNear(t, mgl64.Vec3{0, 0, 0}, min, eps)
	vecNear(t, mgl64.Vec3{2, 2, 0}, max, eps)
}

func TestFindCenterAcrossGeometries(t *testing.T) {
	a := &Geometry{Positions: []mgl64.Vec3{{-1, 0, 0}}}
	b := &Geometry{Positions: []mgl64.Vec3{{3, 4, -2}}}

	center, min, max, err := FindCenter(a, nil, b)
	require.NoError(t, err)

	vecNear(t, mgl64.Vec3{1, 2, -1}, center, eps)
	vecNear(t, mgl64.Vec3{-1, 0, -2}, min, eps)
	vecNear(t, mgl64.Vec3{3, 4, 0}, max, eps)
}

func TestFindCenterEmpty(t *testing.T) {
	_, _, _, err := FindCenter()
	assert.ErrorIs(t, err, ErrNoVertices)

	_, _, _, err = FindCenter(&Geometry{}, nil)
	assert.ErrorIs(t, err, ErrNoVertices)
}

func TestCreateLine(t *testing.T) {
	tests := []struct {
		name       string
		start, end mgl64.Vec3
	}{
		{"along x", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}},
		// Parallel to the +Z reference axis exercises the +Y fallback
		{"along z", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := CreateLine(tt.start, tt.end, 0.2, mgl64.Vec3{1, 0, 0}, false)
			require.NotNil(t, m.Geometry)

			assert.Len(t, m.Geometry.Positions, 8)
			assert.Equal(t, 12, m.Geometry.TriangleCount())
			assert.Equal(t, mgl64.Vec3{1, 0, 0}, m.Material.Diffuse)

			// Each near corner sits thickness/2 * sqrt(2) from the start point
			for _, p := range m.Geometry.Positions[:4] {
				assert.InDelta(t, 0.1*1.4142135623730951, p.Sub(tt.start).Len(), 1e-9)
			}
			for _, p := range m.Geometry.Positions[4:] {
				assert.InDelta(t, 0.1*1.4142135623730951, p.Sub(tt.end).Len(), 1e-9)
			}
		})
	}
}

func TestCreateLinePointedTip(t *testing.T) {
	end := mgl64.Vec3{0, 3, 0}
	m := CreateLine(mgl64.Vec3{}, end, 0.1, mgl64.Vec3{0, 0, 1}, true)

	assert.Len(t, m.Geometry.Positions, 8)
	assert.Len(t, m.Geometry.Indices, 36)
	for _, p := range m.Geometry.Positions[4:] {
		assert.Equal(t, end, p)
	}
}

func TestTranslate(t *testing.T) {
	g := triangleGeometry()
	Translate(g, mgl64.Vec3{1, -1, 2})

	assert.Equal(t, mgl64.Vec3{1, -1, 2}, g.Positions[0])
	assert.Equal(t, mgl64.Vec3{3, -1, 2}, g.Positions[1])

	Translate(nil, mgl64.Vec3{1, 1, 1})
}

func TestRotateAroundCenter(t *testing.T) {
	g := &Geometry{Positions: []mgl64.Vec3{{1, 0, 0}, {-1, 0, 0}}}

	require.NoError(t, RotateAroundCenter([]*Geometry{g}, mgl64.Vec3{0, 1, 0}, 90))

	// Right-hand rule about +Y takes +X to -Z
	vecNear(t, mgl64.Vec3{0, 0, -1}, g.Positions[0], 1e-9)
	vecNear(t, mgl64.Vec3{0, 0, 1}, g.Positions[1], 1e-9)
}

func TestRotateAroundCenterKeepsCenter(t *testing.T) {
	g := triangleGeometry()
	Translate(g, mgl64.Vec3{5, 5, 5})
	before, _, _, _ := FindCenter(g)

	require.NoError(t, RotateAroundCenter([]*Geometry{g}, mgl64.Vec3{1, 0, 0}, 10))

	after, _, _, _ := FindCenter(g)
	vecNear(t, before, after, 1e-9)
}

func TestRotateAroundCenterEmpty(t *testing.T) {
	err := RotateAroundCenter(nil, mgl64.Vec3{0, 1, 0}, 10)
	assert.ErrorIs(t, err, ErrNoVertices)
}

func TestCountStats(t *testing.T) {
	a := triangleGeometry()
	Translate(a, mgl64.Vec3{1, 1, 1})
	b := &Geometry{
		Positions: []mgl64.Vec3{{-3, 0, 0}, {0, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}, {1, 0, 1}},
		Indices:   []int{0, 1, 2, 3, 4, 5},
	}

	s := CountStats(a, nil, b)

	assert.Equal(t, 9, s.Vertices)
	assert.Equal(t, 3, s.Triangles)
	assert.Equal(t, mgl64.Vec3{-3, 0, 0}, s.Min)
	assert.Equal(t, mgl64.Vec3{3, 3, 1}, s.Max)
}

func TestCountStatsIncludesOrigin(t *testing.T) {
	g := &Geometry{Positions: []mgl64.Vec3{{5, 6, 7}}}
	s := CountStats(g)

	assert.Equal(t, mgl64.Vec3{}, s.Min)
	assert.Equal(t, mgl64.Vec3{5, 6, 7}, s.Max)
}

func TestStatsMaxRadius(t *testing.T) {
	s := Stats{Min: mgl64.Vec3{-3, 0, -1}, Max: mgl64.Vec3{1, 4, 0}}
	assert.InDelta(t, mgl64.Vec3{3, 4, 1}.Len(), s.MaxRadius(), eps)
}
