// Package mesh defines the in-memory representation shared by every format
// loader and the viewer: flat triangle geometry, materials, drawable models
// and the object/group/material hierarchy.
package mesh

import "github.com/go-gl/mathgl/mgl64"

// Geometry is a triangle mesh with flat, triangle-expanded vertex arrays.
// Adjacent triangles may duplicate vertex data. Normals and TexCoords are
// optional and, when present, parallel to Positions only if every source
// vertex carried them.
type Geometry struct {
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	TexCoords []mgl64.Vec2
	Indices   []int // Triangle list over Positions
}

// TriangleCount returns the number of triangles in the index list.
func (g *Geometry) TriangleCount() int {
	if g == nil {
		return 0
	}
	return len(g.Indices) / 3
}

// Triangle returns the corners of triangle i. ok is false when an index
// points outside Positions.
func (g *Geometry) Triangle(i int) (v0, v1, v2 mgl64.Vec3, ok bool) {
	a, b, c := g.Indices[i*3], g.Indices[i*3+1], g.Indices[i*3+2]
	n := len(g.Positions)
	if a < 0 || b < 0 || c < 0 || a >= n || b >= n || c >= n {
		return v0, v1, v2, false
	}
	return g.Positions[a], g.Positions[b], g.Positions[c], true
}

// Material is either a diffuse color with opacity or an external texture.
// A non-empty TexturePath is authoritative over Diffuse.
type Material struct {
	Name        string
	Diffuse     mgl64.Vec3 // RGB in [0,1]
	Dissolve    float64    // Opacity, 1.0 = opaque
	TexturePath string
}

// IsTextured reports whether the texture path, not the color, is authoritative.
func (m *Material) IsTextured() bool {
	return m != nil && m.TexturePath != ""
}

// Solid returns an opaque color material.
func Solid(color mgl64.Vec3) *Material {
	return &Material{Diffuse: color, Dissolve: 1}
}

// DefaultBlue is assigned to OBJ chunks without a resolvable usemtl.
func DefaultBlue() *Material {
	return Solid(mgl64.Vec3{0, 0, 1})
}

// White is assigned to untextured STL and X3D shapes.
func White() *Material {
	return Solid(mgl64.Vec3{1, 1, 1})
}

// Highlight is the translucent cyan tint applied to selected models.
func Highlight() *Material {
	return &Material{Name: "highlight", Diffuse: mgl64.Vec3{0, 1, 1}, Dissolve: 128.0 / 255.0}
}

// Textured returns a material backed by an image file.
func Textured(name, path string) *Material {
	return &Material{Name: name, Diffuse: mgl64.Vec3{1, 1, 1}, Dissolve: 1, TexturePath: path}
}

// Model is one drawable, selectable unit. A nil Material means the model is
// hidden.
type Model struct {
	Geometry *Geometry
	Material *Material
}

// HasGeometry reports whether the model carries any vertex data.
func (m *Model) HasGeometry() bool {
	return m != nil && m.Geometry != nil && len(m.Geometry.Positions) > 0
}

// TreeNode is a node of the object -> group -> material hierarchy.
type TreeNode struct {
	Name       string
	ModelIndex int // Index into the loader's model list, -1 for none
	Children   []*TreeNode
}

// NewTreeNode returns a node that references no model.
func NewTreeNode(name string) *TreeNode {
	return &TreeNode{Name: name, ModelIndex: -1}
}

// Add appends child and returns it.
func (n *TreeNode) Add(child *TreeNode) *TreeNode {
	n.Children = append(n.Children, child)
	return child
}

// Walk visits n and its descendants depth-first, passing the depth of each
// node (0 for n). Returning false from fn skips that node's children.
func (n *TreeNode) Walk(fn func(node *TreeNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *TreeNode) walk(fn func(*TreeNode, int) bool, depth int) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// ModelIndices returns every model index in the subtree rooted at n, in
// depth-first order.
func (n *TreeNode) ModelIndices() []int {
	var out []int
	n.Walk(func(node *TreeNode, _ int) bool {
		if node.ModelIndex >= 0 {
			out = append(out, node.ModelIndex)
		}
		return true
	})
	return out
}
