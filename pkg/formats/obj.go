package formats

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/meshkit/pkg/encoding"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// OBJ errors.
var (
	ErrBadFaceReference = errors.New("face references missing vertex")
)

// Hierarchy delimiters, outermost first.
var (
	objectDelimiters   = []string{"o ", "# object "}
	groupDelimiters    = []string{"g "}
	materialDelimiters = []string{"usemtl "}
)

// Fallback hierarchy names.
const (
	unnamedChunk    = "UnnamedObject"
	unknownObject   = "UnknownObject"
	unknownGroup    = "UnknownGroup"
	unknownMaterial = "UnknownMaterial"
)

// MaterialResolver loads the materials of one mtllib reference. It returns a
// nil map for a library that was already loaded.
type MaterialResolver func(lib string) (map[string]*mesh.Material, error)

// objData holds the file-global attribute lists and, per line, how many of
// each had been declared before it (for negative references).
type objData struct {
	lines     []string
	positions []mgl64.Vec3
	normals   []mgl64.Vec3
	texCoords []mgl64.Vec2
	declared  [][3]int // per line: positions, texcoords, normals
	materials map[string]*mesh.Material
}

// ParseOBJ parses a Wavefront OBJ file into one model per material chunk.
// name labels the hierarchy root. materials resolves mtllib references and
// may be nil, in which case every chunk gets the default material.
func ParseOBJ(data []byte, name string, materials MaterialResolver) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	obj := &objData{
		lines:     encoding.Lines(data),
		materials: make(map[string]*mesh.Material),
	}
	res := &Result{Root: mesh.NewTreeNode(name)}

	obj.loadMaterials(materials, res)
	obj.loadAttributes()

	all := make([]int, len(obj.lines))
	for i := range all {
		all[i] = i
	}

	for _, objChunk := range splitChunks(obj.lines, all, objectDelimiters) {
		objNode := res.Root.Add(mesh.NewTreeNode(orDefault(objChunk.name, unknownObject)))

		for _, grpChunk := range splitChunks(obj.lines, objChunk.lines, groupDelimiters) {
			groupName := orDefault(grpChunk.name, unknownGroup)
			grpNode := objNode.Add(mesh.NewTreeNode(groupName))

			for _, matChunk := range splitChunks(obj.lines, grpChunk.lines, materialDelimiters) {
				model := obj.buildModel(matChunk.lines, res)

				res.Models = append(res.Models, model)
				res.Names = append(res.Names, groupName)
				grpNode.Add(&mesh.TreeNode{
					Name:       orDefault(matChunk.name, unknownMaterial),
					ModelIndex: len(res.Models) - 1,
				})
			}
		}
	}

	return res, nil
}

// loadMaterials runs the mtllib pre-scan. Libraries that fail to load are
// reported as warnings; the first definition of a material name wins.
func (o *objData) loadMaterials(resolve MaterialResolver, res *Result) {
	if resolve == nil {
		return
	}
	for _, lib := range materialLibs(o.lines) {
		mats, err := resolve(lib)
		if err != nil {
			res.Warnings = append(res.Warnings, err)
			continue
		}
		for n, m := range mats {
			if _, exists := o.materials[n]; !exists {
				o.materials[n] = m
			}
		}
	}
}

// MaterialLibraries returns the mtllib references of an OBJ file in order of
// appearance, as written in the file.
func MaterialLibraries(data []byte) []string {
	return materialLibs(encoding.Lines(data))
}

func materialLibs(lines []string) []string {
	var libs []string
	for _, line := range lines {
		tokens := encoding.Fields(line)
		if len(tokens) == 0 || tokens[0] != "mtllib" {
			continue
		}
		if lib := encoding.Rest(line); lib != "" {
			libs = append(libs, lib)
		}
	}
	return libs
}

// loadAttributes collects every v, vt and vn in the file. Texture V is
// flipped to the top-left image origin.
func (o *objData) loadAttributes() {
	o.declared = make([][3]int, len(o.lines))
	for i, line := range o.lines {
		o.declared[i] = [3]int{len(o.positions), len(o.texCoords), len(o.normals)}

		tokens := encoding.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		switch tokens[0] {
		case "v":
			if len(tokens) >= 4 {
				if v, ok := parseVec3(tokens[1:4]); ok {
					o.positions = append(o.positions, v)
				}
			}
		case "vn":
			if len(tokens) >= 4 {
				if n, ok := parseVec3(tokens[1:4]); ok {
					o.normals = append(o.normals, n)
				}
			}
		case "vt":
			if len(tokens) >= 3 {
				if t, ok := parseVec2(tokens[1:3]); ok {
					o.texCoords = append(o.texCoords, mgl64.Vec2{t[0], 1 - t[1]})
				}
			}
		}
	}
}

// buildModel triangulates the face lines of one material chunk.
func (o *objData) buildModel(lineNos []int, res *Result) *mesh.Model {
	geom := &mesh.Geometry{}
	var material *mesh.Material

	for _, n := range lineNos {
		line := o.lines[n]
		tokens := encoding.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "usemtl":
			if m, ok := o.materials[encoding.Rest(line)]; ok {
				material = m
			}
		case "f":
			corners := make([]faceCorner, 0, len(tokens)-1)
			for _, tok := range tokens[1:] {
				corners = append(corners, o.parseCorner(tok, o.declared[n]))
			}
			if dropped := o.addFan(geom, corners); dropped > 0 {
				res.warnf(ErrBadFaceReference, "line %d: %d triangle(s) dropped", n+1, dropped)
			}
		}
	}

	if material == nil {
		material = mesh.DefaultBlue()
	}
	return &mesh.Model{Geometry: geom, Material: material}
}

// faceCorner holds resolved 0-based references; -1 means absent or invalid.
type faceCorner struct {
	v, t, n int
}

// parseCorner parses "v", "v/t", "v//n" or "v/t/n". Negative references
// count back from the attributes declared before the face line.
func (o *objData) parseCorner(tok string, declared [3]int) faceCorner {
	parts := strings.Split(tok, "/")
	c := faceCorner{v: -1, t: -1, n: -1}

	c.v = resolveRef(parts[0], declared[0], len(o.positions))
	if len(parts) > 1 {
		c.t = resolveRef(parts[1], declared[1], len(o.texCoords))
	}
	if len(parts) > 2 {
		c.n = resolveRef(parts[2], declared[2], len(o.normals))
	}
	return c
}

func resolveRef(s string, declared, total int) int {
	if s == "" {
		return -1
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += declared
	default:
		return -1
	}
	if i < 0 || i >= total {
		return -1
	}
	return i
}

// addFan appends the fan triangulation of a face: triangles (0, i, i+1),
// every corner a new flat vertex. Triangles touching an invalid vertex
// reference are dropped; missing texture or normal references are omitted.
// Returns the number of dropped triangles.
func (o *objData) addFan(geom *mesh.Geometry, corners []faceCorner) int {
	dropped := 0
	for i := 1; i < len(corners)-1; i++ {
		tri := [3]faceCorner{corners[0], corners[i], corners[i+1]}
		if tri[0].v < 0 || tri[1].v < 0 || tri[2].v < 0 {
			dropped++
			continue
		}
		for _, c := range tri {
			geom.Positions = append(geom.Positions, o.positions[c.v])
			if c.t >= 0 {
				geom.TexCoords = append(geom.TexCoords, o.texCoords[c.t])
			}
			if c.n >= 0 {
				geom.Normals = append(geom.Normals, o.normals[c.n])
			}
			geom.Indices = append(geom.Indices, len(geom.Positions)-1)
		}
	}
	return dropped
}

// chunk is a named run of line numbers between two delimiters.
type chunk struct {
	name  string
	lines []int
}

// splitChunks partitions lineNos at lines starting with any delimiter. The
// delimiter line opens its chunk and the rest of it becomes the chunk name.
// Without any delimiter the whole input is one chunk named UnnamedObject.
// Lines ahead of the first delimiter form an unnamed leading chunk only if
// they contain faces.
func splitChunks(lines []string, lineNos []int, delimiters []string) []chunk {
	var chunks []chunk
	var leading []int
	leadingFaces := false

	for _, n := range lineNos {
		line := strings.TrimLeft(lines[n], " \t")

		if delim, ok := matchDelimiter(line, delimiters); ok {
			chunks = append(chunks, chunk{
				name: encoding.CleanLine(line[len(delim):]),
			})
		}

		if len(chunks) == 0 {
			leading = append(leading, n)
			if strings.HasPrefix(line, "f ") {
				leadingFaces = true
			}
			continue
		}
		last := &chunks[len(chunks)-1]
		last.lines = append(last.lines, n)
	}

	if len(chunks) == 0 {
		return []chunk{{name: unnamedChunk, lines: leading}}
	}
	if leadingFaces {
		chunks = append([]chunk{{lines: leading}}, chunks...)
	}
	return chunks
}

func matchDelimiter(line string, delimiters []string) (string, bool) {
	for _, d := range delimiters {
		if strings.HasPrefix(line, d) {
			return d, true
		}
	}
	return "", false
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
