package formats

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/meshkit/pkg/encoding"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// defaultKd is the diffuse color assumed until a block sets Kd.
var defaultKd = mgl64.Vec3{0.4, 0.4, 0.4}

// mtlBlock accumulates one newmtl block.
type mtlBlock struct {
	name     string
	texture  string
	kd       mgl64.Vec3
	kdFound  bool
	dissolve float64
}

func newMTLBlock(name string) mtlBlock {
	return mtlBlock{name: name, kd: defaultKd, dissolve: 1}
}

// material returns the block's material, or nil when the block set neither
// map_Kd nor Kd. A texture map wins over any color values.
func (b *mtlBlock) material(baseDir string) *mesh.Material {
	switch {
	case b.name == "":
		return nil
	case b.texture != "":
		return mesh.Textured(b.name, resolvePath(baseDir, b.texture))
	case b.kdFound:
		return &mesh.Material{Name: b.name, Diffuse: b.kd, Dissolve: b.dissolve}
	default:
		return nil
	}
}

// ParseMTL parses a Wavefront material library. Texture paths are resolved
// against baseDir. When a name is defined twice the first definition wins.
func ParseMTL(data []byte, baseDir string) map[string]*mesh.Material {
	materials := make(map[string]*mesh.Material)
	register := func(b *mtlBlock) {
		m := b.material(baseDir)
		if m == nil {
			return
		}
		if _, exists := materials[m.Name]; !exists {
			materials[m.Name] = m
		}
	}

	var cur mtlBlock
	for _, line := range encoding.Lines(data) {
		tokens := encoding.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "newmtl":
			register(&cur)
			cur = newMTLBlock(encoding.Rest(line))
		case "Kd":
			if len(tokens) < 4 {
				continue
			}
			if kd, ok := parseVec3(tokens[1:4]); ok {
				cur.kd = kd
				cur.kdFound = true
			}
		case "d":
			if len(tokens) < 2 {
				continue
			}
			if d, err := strconv.ParseFloat(tokens[1], 64); err == nil {
				cur.dissolve = d
			}
		case "Tr":
			if len(tokens) < 2 {
				continue
			}
			if tr, err := strconv.ParseFloat(tokens[1], 64); err == nil {
				cur.dissolve = 1 - tr
			}
		case "map_Kd":
			if tex := encoding.Rest(line); tex != "" {
				cur.texture = tex
			}
		}
	}
	register(&cur)

	return materials
}

func parseVec3(tokens []string) (mgl64.Vec3, bool) {
	var v mgl64.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			return v, false
		}
		v[i] = f
	}
	return v, true
}

func parseVec2(tokens []string) (mgl64.Vec2, bool) {
	var v mgl64.Vec2
	for i := 0; i < 2; i++ {
		f, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			return v, false
		}
		v[i] = f
	}
	return v, true
}
