package formats

import (
	"bufio"
	"io"
	"strconv"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// WriteOBJ writes models as a single OBJ file: for each model a block of
// positions, normals, texture coordinates and faces. Face indices are 1-based
// and offset by the attributes of earlier models. Texture V is flipped back
// to the bottom-left OBJ origin. Materials are not written.
func WriteOBJ(w io.Writer, models []*mesh.Model) error {
	bw := bufio.NewWriter(w)
	var posBase, texBase, normBase int

	for _, m := range models {
		if m == nil || m.Geometry == nil {
			continue
		}
		g := m.Geometry

		bw.WriteString("# Positions:\n")
		for _, p := range g.Positions {
			writeFloats(bw, "v", p[0], p[1], p[2])
		}
		bw.WriteString("\n# Normals:\n")
		for _, n := range g.Normals {
			writeFloats(bw, "vn", n[0], n[1], n[2])
		}
		bw.WriteString("\n# Textures:\n")
		for _, t := range g.TexCoords {
			writeFloats(bw, "vt", t[0], 1-t[1])
		}

		// Per-vertex references are only valid when the attribute arrays
		// are parallel to the positions.
		withTex := len(g.TexCoords) > 0 && len(g.TexCoords) == len(g.Positions)
		withNorm := len(g.Normals) > 0 && len(g.Normals) == len(g.Positions)

		bw.WriteString("\n# Faces:\n")
		for i := 0; i+2 < len(g.Indices); i += 3 {
			bw.WriteString("f")
			for _, idx := range g.Indices[i : i+3] {
				bw.WriteByte(' ')
				bw.WriteString(strconv.Itoa(posBase + idx + 1))
				switch {
				case withTex && withNorm:
					bw.WriteString("/" + strconv.Itoa(texBase+idx+1) + "/" + strconv.Itoa(normBase+idx+1))
				case withTex:
					bw.WriteString("/" + strconv.Itoa(texBase+idx+1))
				case withNorm:
					bw.WriteString("//" + strconv.Itoa(normBase+idx+1))
				}
			}
			bw.WriteByte('\n')
		}
		bw.WriteByte('\n')

		posBase += len(g.Positions)
		texBase += len(g.TexCoords)
		normBase += len(g.Normals)
	}

	return bw.Flush()
}

func writeFloats(w *bufio.Writer, keyword string, vals ...float64) {
	w.WriteString(keyword)
	for _, v := range vals {
		w.WriteByte(' ')
		w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	w.WriteByte('\n')
}
