package formats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

func TestWriteOBJ_OffsetsAcrossModels(t *testing.T) {
	a := mesh.CreateLine(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 0.1, mgl64.Vec3{1, 0, 0}, false)
	b := mesh.CreateLine(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 0.1, mgl64.Vec3{0, 1, 0}, true)

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, []*mesh.Model{a, nil, {Material: mesh.White()}, b}))
	out := buf.String()

	assert.Equal(t, 16, strings.Count(out, "\nv "))
	assert.Equal(t, 24, strings.Count(out, "\nf "))
	assert.Contains(t, out, "# Positions:")
	assert.Contains(t, out, "# Faces:")
	assert.NotContains(t, out, "usemtl")
	assert.NotContains(t, out, "mtllib")

	// Second model's first face references its own vertices
	assert.Contains(t, out, "f 9 10 11\n")
	assert.Contains(t, out, "f 1 2 3\n")
}

func TestWriteOBJ_RoundTrip(t *testing.T) {
	src, err := ParseOBJ([]byte(quadOBJ), "quad.obj", nil)
	require.NoError(t, err)

	stl, err := ParseSTL([]byte(asciiSTL), "pyramid.stl")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, append(src.Models, stl.Models...)))

	back, err := ParseOBJ(buf.Bytes(), "out.obj", nil)
	require.NoError(t, err)
	require.Len(t, back.Models, 1)

	g := back.Models[0].Geometry
	assert.Equal(t, 4, g.TriangleCount())
	assert.Equal(t, src.Models[0].Geometry.Positions, g.Positions[:6])
	assert.Equal(t, stl.Models[0].Geometry.Positions, g.Positions[6:])

	// V is flipped on both write and read
	require.NotEmpty(t, g.TexCoords)
	assert.InDelta(t, 0.2, g.TexCoords[0][1], 1e-12)

	// Normals follow the STL vertices
	assert.Equal(t, stl.Models[0].Geometry.Normals, g.Normals)
}
