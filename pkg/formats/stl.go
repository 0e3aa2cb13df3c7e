package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/meshkit/pkg/encoding"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// STL errors.
var (
	ErrTruncatedSTLData = errors.New("truncated STL data")
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50 // normal + 3 vertices (12 float32) + uint16 attribute
)

// ParseSTL parses a binary or ASCII STL file into a single white model.
// name labels the model and the hierarchy root.
func ParseSTL(data []byte, name string) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	res := &Result{
		Names: []string{name},
		Root:  &mesh.TreeNode{Name: name, ModelIndex: 0},
	}

	var geom *mesh.Geometry
	if isASCIISTL(data) {
		geom = parseASCIISTL(data)
	} else {
		var err error
		if geom, err = parseBinarySTL(data, res); err != nil {
			return nil, err
		}
	}

	res.Models = []*mesh.Model{{Geometry: geom, Material: mesh.White()}}
	return res, nil
}

// isASCIISTL checks for the "solid" marker. Some exporters also start binary
// headers with "solid", so data whose size matches its binary triangle count
// exactly is treated as binary.
func isASCIISTL(data []byte) bool {
	if len(data) < 5 || !bytes.Equal(data[:5], []byte("solid")) {
		return false
	}
	if len(data) >= stlHeaderSize+4 {
		count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		if uint64(len(data)) == stlHeaderSize+4+uint64(count)*stlRecordSize {
			return false
		}
	}
	return true
}

// parseBinarySTL reads the 80-byte header, the triangle count and the
// records. A short final record stops the read and is reported as a warning.
func parseBinarySTL(data []byte, res *Result) (*mesh.Geometry, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, ErrTruncatedSTLData
	}

	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	body := data[stlHeaderSize+4:]

	geom := &mesh.Geometry{}
	for i := uint32(0); i < count; i++ {
		if len(body) < stlRecordSize {
			res.warnf(ErrTruncatedSTLData, "read %d of %d triangles", i, count)
			break
		}
		rec := body[:stlRecordSize]
		body = body[stlRecordSize:]

		normal := readVec3f(rec[0:])
		for v := 0; v < 3; v++ {
			geom.Positions = append(geom.Positions, readVec3f(rec[12+v*12:]))
			geom.Normals = append(geom.Normals, normal)
			geom.Indices = append(geom.Indices, len(geom.Positions)-1)
		}
	}
	return geom, nil
}

func readVec3f(b []byte) mgl64.Vec3 {
	return mgl64.Vec3{
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
		float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
	}
}

// parseASCIISTL reads "facet normal x y z" and "vertex x y z" lines. Each
// facet normal is replicated for the three vertices that follow it.
func parseASCIISTL(data []byte) *mesh.Geometry {
	geom := &mesh.Geometry{}
	for _, line := range encoding.Lines(data) {
		tokens := encoding.Fields(line)
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "facet":
			if len(tokens) == 5 && tokens[1] == "normal" {
				if n, ok := parseVec3(tokens[2:5]); ok {
					geom.Normals = append(geom.Normals, n, n, n)
				}
			}
		case "vertex":
			if len(tokens) == 4 {
				if v, ok := parseVec3(tokens[1:4]); ok {
					geom.Positions = append(geom.Positions, v)
					geom.Indices = append(geom.Indices, len(geom.Positions)-1)
				}
			}
		}
	}
	return geom
}
