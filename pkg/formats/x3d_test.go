package formats

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const x3dScene = `<?xml version="1.0" encoding="UTF-8"?>
<X3D profile="Interchange" version="3.3">
  <Scene>
    <Transform>
      <Shape>
        <Appearance>
          <ImageTexture url='"wood.png" "http://example.com/wood.png"'/>
        </Appearance>
        <IndexedFaceSet coordIndex="0 1 2 3 -1 0 2 3 -1" texCoordIndex="0 1 2 -1 0 2 3 -1">
          <Coordinate point="0 0 0, 1 0 0, 1 1 0, 0 1 0"/>
          <TextureCoordinate point="0 0 1 0 1 1 0 0.25"/>
        </IndexedFaceSet>
      </Shape>
    </Transform>
    <Shape>
      <IndexedFaceSet coordIndex="0 1 2">
        <Coordinate point="0 0 1 1 0 1 0 1 1"/>
      </IndexedFaceSet>
    </Shape>
    <Shape>
      <IndexedFaceSet coordIndex="0 1 2 -1"/>
    </Shape>
  </Scene>
</X3D>
`

func TestParseX3D(t *testing.T) {
	res, err := ParseX3D([]byte(x3dScene), "scene.x3d", "/models")
	require.NoError(t, err)

	// Third shape has no Coordinate node and is skipped
	require.Len(t, res.Models, 2)
	assert.Equal(t, []string{"scene.x3d"}, res.Names)

	first := res.Models[0]
	assert.True(t, first.Material.IsTextured())
	assert.Equal(t, filepath.Join("/models", "wood.png"), first.Material.TexturePath)

	g := first.Geometry
	assert.Len(t, g.Positions, 4)
	// Quad face truncated to its first three indices
	assert.Equal(t, []int{0, 1, 2, 0, 2, 3}, g.Indices)
	require.Len(t, g.TexCoords, 6)
	assert.Equal(t, mgl64.Vec2{0, 1}, g.TexCoords[0])
	assert.Equal(t, mgl64.Vec2{0, 0.75}, g.TexCoords[5])

	second := res.Models[1]
	assert.False(t, second.Material.IsTextured())
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, second.Material.Diffuse)
	assert.Equal(t, 1, second.Geometry.TriangleCount())

	require.Len(t, res.Root.Children, 2)
	assert.Equal(t, "Shape 1", res.Root.Children[1].Name)
	assert.Equal(t, 1, res.Root.Children[1].ModelIndex)
}

func TestParseX3D_MissingCoordIndex(t *testing.T) {
	data := `<X3D><Scene>
<Shape><IndexedFaceSet coordIndex="0 1 2 -1"><Coordinate point="0 0 0 1 0 0 0 1 0"/></IndexedFaceSet></Shape>
<Shape><IndexedFaceSet><Coordinate point="0 0 0"/></IndexedFaceSet></Shape>
</Scene></X3D>`

	_, err := ParseX3D([]byte(data), "bad.x3d", "")
	assert.ErrorIs(t, err, ErrMissingCoordIndex)
}

func TestParseX3D_BadReferences(t *testing.T) {
	data := `<X3D><Scene><Shape>
<IndexedFaceSet coordIndex="0 1 2 -1 0 1 7 -1 0 1 -1" texCoordIndex="0 1 5 -1">
<Coordinate point="0 0 0 1 0 0 0 1 0"/>
<TextureCoordinate point="0 0 1 0"/>
</IndexedFaceSet>
</Shape></Scene></X3D>`

	res, err := ParseX3D([]byte(data), "partial.x3d", "")
	require.NoError(t, err)
	require.Len(t, res.Models, 1)
	assert.Equal(t, 1, res.Models[0].Geometry.TriangleCount())
	assert.Empty(t, res.Models[0].Geometry.TexCoords)
	assert.Len(t, res.Warnings, 3)
}

func TestParseX3D_Invalid(t *testing.T) {
	_, err := ParseX3D([]byte("<X3D><Scene>"), "broken.x3d", "")
	assert.ErrorIs(t, err, ErrInvalidX3D)

	_, err = ParseX3D(nil, "empty.x3d", "")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestFirstURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"a.png" "b.png"`, "a.png"},
		{`'a b.png'`, "a b.png"},
		{`plain.png`, "plain.png"},
		{``, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, firstURL(tt.in), "input %q", tt.in)
	}
}
