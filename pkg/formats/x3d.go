package formats

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// X3D errors.
var (
	ErrMissingCoordIndex = errors.New("IndexedFaceSet has no coordIndex")
	ErrInvalidX3D        = errors.New("invalid X3D document")
)

// x3dNode is a generic element: X3D nests Shape anywhere below Scene, so the
// document is decoded as a tree and searched.
type x3dNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []x3dNode  `xml:",any"`
}

func (n *x3dNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func (n *x3dNode) child(name string) *x3dNode {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

// findAll collects every descendant named name in document order.
func (n *x3dNode) findAll(name string, out []*x3dNode) []*x3dNode {
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == name {
			out = append(out, c)
		}
		out = c.findAll(name, out)
	}
	return out
}

// ParseX3D parses the IndexedFaceSet shapes of an X3D document, one model
// per Shape. Texture URLs are resolved against dir. Faces are read as
// triangles: only the first three indices of each face are used.
func ParseX3D(data []byte, name, dir string) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	var doc x3dNode
	dec := xml.NewDecoder(transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(transform.Nop)))
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidX3D, err)
	}

	res := &Result{
		Names: []string{name},
		Root:  mesh.NewTreeNode(name),
	}

	// The document root may itself be a Shape in fragments.
	shapes := []*x3dNode{}
	if doc.XMLName.Local == "Shape" {
		shapes = append(shapes, &doc)
	}
	shapes = doc.findAll("Shape", shapes)

	for _, shape := range shapes {
		model, err := parseX3DShape(shape, dir, res)
		if err != nil {
			return nil, err
		}
		if model == nil {
			continue
		}
		res.Models = append(res.Models, model)
		res.Root.Add(&mesh.TreeNode{
			Name:       fmt.Sprintf("Shape %d", len(res.Models)-1),
			ModelIndex: len(res.Models) - 1,
		})
	}

	return res, nil
}

// parseX3DShape builds one model. It returns nil for a shape that has no
// IndexedFaceSet or no Coordinate node.
func parseX3DShape(shape *x3dNode, dir string, res *Result) (*mesh.Model, error) {
	faceSet := shape.child("IndexedFaceSet")
	if faceSet == nil {
		return nil, nil
	}

	coordIndex := strings.TrimSpace(faceSet.attr("coordIndex"))
	if coordIndex == "" {
		return nil, ErrMissingCoordIndex
	}
	faces, err := parseIndexGroups(coordIndex)
	if err != nil {
		return nil, fmt.Errorf("coordIndex: %w", err)
	}
	texFaces, err := parseIndexGroups(faceSet.attr("texCoordIndex"))
	if err != nil {
		return nil, fmt.Errorf("texCoordIndex: %w", err)
	}

	coord := faceSet.child("Coordinate")
	if coord == nil {
		return nil, nil
	}
	points, err := parseFloats(coord.attr("point"))
	if err != nil {
		return nil, fmt.Errorf("Coordinate point: %w", err)
	}

	var uvs []mgl64.Vec2
	if tc := faceSet.child("TextureCoordinate"); tc != nil {
		vals, err := parseFloats(tc.attr("point"))
		if err != nil {
			return nil, fmt.Errorf("TextureCoordinate point: %w", err)
		}
		for i := 0; i+1 < len(vals); i += 2 {
			uvs = append(uvs, mgl64.Vec2{vals[i], 1 - vals[i+1]})
		}
	}

	geom := &mesh.Geometry{}
	for i := 0; i+2 < len(points); i += 3 {
		geom.Positions = append(geom.Positions, mgl64.Vec3{points[i], points[i+1], points[i+2]})
	}

	for fi, f := range texFaces {
		if len(f) < 3 || !inRange(f[:3], len(uvs)) {
			res.warnf(ErrBadFaceReference, "texture face %d skipped", fi)
			continue
		}
		geom.TexCoords = append(geom.TexCoords, uvs[f[0]], uvs[f[1]], uvs[f[2]])
	}

	for fi, f := range faces {
		if len(f) < 3 || !inRange(f[:3], len(geom.Positions)) {
			res.warnf(ErrBadFaceReference, "face %d skipped", fi)
			continue
		}
		geom.Indices = append(geom.Indices, f[0], f[1], f[2])
	}

	return &mesh.Model{Geometry: geom, Material: x3dMaterial(shape, dir)}, nil
}

// x3dMaterial returns a textured material for Appearance/ImageTexture@url,
// otherwise white. A URL list uses its first entry.
func x3dMaterial(shape *x3dNode, dir string) *mesh.Material {
	app := shape.child("Appearance")
	if app == nil {
		return mesh.White()
	}
	tex := app.child("ImageTexture")
	if tex == nil {
		return mesh.White()
	}
	url := firstURL(tex.attr("url"))
	if url == "" {
		return mesh.White()
	}
	return mesh.Textured(url, resolvePath(dir, url))
}

// firstURL extracts the first entry of an MFString such as
// `"brick.png" "http://example.com/brick.png"`. Unquoted values are taken as
// a single URL.
func firstURL(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, `"`) && !strings.HasPrefix(s, "'") {
		return s
	}
	quote := s[:1]
	if end := strings.Index(s[1:], quote); end >= 0 {
		return s[1 : end+1]
	}
	return strings.Trim(s, quote)
}

// parseIndexGroups splits an MFInt32 index list into -1 terminated groups.
// A trailing group without a terminator is kept.
func parseIndexGroups(s string) ([][]int, error) {
	var groups [][]int
	var cur []int
	for _, tok := range splitNumbers(s) {
		i, err := strconv.Atoi(tok)
		if err != nil {
			return nil, err
		}
		if i == -1 {
			if len(cur) > 0 {
				groups = append(groups, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, i)
	}
	if len(cur) > 0 {
		groups = append(groups, cur)
	}
	return groups, nil
}

func parseFloats(s string) ([]float64, error) {
	toks := splitNumbers(s)
	out := make([]float64, 0, len(toks))
	for _, tok := range toks {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// splitNumbers tokenizes X3D number lists, which may separate values with
// whitespace, commas or both.
func splitNumbers(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}

func inRange(idx []int, n int) bool {
	for _, i := range idx {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
