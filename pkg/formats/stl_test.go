package formats

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeBinarySTL builds a binary STL with the given header text, declared
// triangle count and records (normal followed by three vertices).
func makeBinarySTL(header string, count uint32, records ...[4][3]float32) []byte {
	buf := make([]byte, stlHeaderSize+4)
	copy(buf, header)
	binary.LittleEndian.PutUint32(buf[stlHeaderSize:], count)

	for _, rec := range records {
		r := make([]byte, stlRecordSize)
		for i, v := range rec {
			for j, f := range v {
				binary.LittleEndian.PutUint32(r[i*12+j*4:], math.Float32bits(f))
			}
		}
		buf = append(buf, r...)
	}
	return buf
}

var unitTriangle = [4][3]float32{
	{0, 0, 1},
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
}

func TestParseSTL_Binary(t *testing.T) {
	res, err := ParseSTL(makeBinarySTL("binary", 1, unitTriangle), "tri.stl")
	require.NoError(t, err)
	require.Len(t, res.Models, 1)

	g := res.Models[0].Geometry
	assert.Len(t, g.Positions, 3)
	assert.Equal(t, 1, g.TriangleCount())
	assert.Equal(t, []int{0, 1, 2}, g.Indices)
	require.Len(t, g.Normals, 3)
	for _, n := range g.Normals {
		assert.Equal(t, mgl64.Vec3{0, 0, 1}, n)
	}
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, g.Positions[1])

	assert.Equal(t, mgl64.Vec3{1, 1, 1}, res.Models[0].Material.Diffuse)
	assert.Equal(t, []string{"tri.stl"}, res.Names)
	assert.Equal(t, "tri.stl", res.Root.Name)
	assert.Equal(t, 0, res.Root.ModelIndex)
	assert.Empty(t, res.Warnings)
}

func TestParseSTL_BinaryWithSolidHeader(t *testing.T) {
	// Exporters that write "solid" into a binary header are detected by size
	res, err := ParseSTL(makeBinarySTL("solid exported", 2, unitTriangle, unitTriangle), "s.stl")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Models[0].Geometry.TriangleCount())
}

func TestParseSTL_BinaryTruncated(t *testing.T) {
	data := makeBinarySTL("", 3, unitTriangle, unitTriangle)
	data = append(data, make([]byte, 10)...)

	res, err := ParseSTL(data, "short.stl")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Models[0].Geometry.TriangleCount())
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], ErrTruncatedSTLData)
}

func TestParseSTL_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, ErrEmptyFile},
		{"shorter than marker", []byte("sol"), ErrTruncatedSTLData},
		{"header only", make([]byte, 60), ErrTruncatedSTLData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSTL(tt.data, "x.stl")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

const asciiSTL = `solid pyramid
  facet normal 0 0 -1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
  facet normal 0.5 0.5 0.5
    outer loop
      vertex 1 0 0
      vertex 0 1 0
      vertex 0 0 1
    endloop
  endfacet
endsolid pyramid
`

func TestParseSTL_ASCII(t *testing.T) {
	res, err := ParseSTL([]byte(asciiSTL), "pyramid.stl")
	require.NoError(t, err)
	require.Len(t, res.Models, 1)

	g := res.Models[0].Geometry
	assert.Len(t, g.Positions, 6)
	assert.Equal(t, 2, g.TriangleCount())
	require.Len(t, g.Normals, 6)
	assert.Equal(t, mgl64.Vec3{0, 0, -1}, g.Normals[2])
	assert.Equal(t, mgl64.Vec3{0.5, 0.5, 0.5}, g.Normals[3])
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, g.Positions[5])
}
