// Package formats provides loaders for 3D mesh file formats (Wavefront OBJ
// with MTL material libraries, binary and ASCII STL, X3D) and a minimal OBJ
// writer. Every loader produces the same Result: a flat list of models, a
// display name per model and an object hierarchy.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Loader errors.
var (
	ErrUnknownFormat = errors.New("unknown mesh format")
	ErrEmptyFile     = errors.New("empty file")
)

// Format identifies a supported mesh file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatOBJ
	FormatSTL
	FormatX3D
)

// String returns the conventional file extension without the dot.
func (f Format) String() string {
	switch f {
	case FormatOBJ:
		return "obj"
	case FormatSTL:
		return "stl"
	case FormatX3D:
		return "x3d"
	default:
		return "unknown"
	}
}

// FormatOf selects a format from the file extension, case-insensitively.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return FormatOBJ
	case ".stl":
		return FormatSTL
	case ".x3d":
		return FormatX3D
	default:
		return FormatUnknown
	}
}

// Result is the normalized output of every loader. The zero value is the
// empty result: no models and a nil hierarchy.
type Result struct {
	Models []*mesh.Model
	Names  []string
	Root   *mesh.TreeNode

	// Warnings lists recoverable problems (dropped faces, truncated records)
	// that were skipped instead of failing the load.
	Warnings []error
}

// Empty reports whether the result carries no models.
func (r *Result) Empty() bool {
	return r == nil || len(r.Models) == 0
}

// Geometries returns the geometry of every model, in model order.
func (r *Result) Geometries() []*mesh.Geometry {
	out := make([]*mesh.Geometry, 0, len(r.Models))
	for _, m := range r.Models {
		if m != nil && m.Geometry != nil {
			out = append(out, m.Geometry)
		}
	}
	return out
}

func (r *Result) warnf(err error, format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Errorf("%w: "+format, append([]any{err}, args...)...))
}

// Loader reads mesh files from disk. File access goes through ReadFile so a
// cache can sit in front of the filesystem; nil means os.ReadFile.
type Loader struct {
	ReadFile func(path string) ([]byte, error)
	Log      *zap.Logger
}

func (l *Loader) read(path string) ([]byte, error) {
	if l.ReadFile != nil {
		return l.ReadFile(path)
	}
	return os.ReadFile(path)
}

func (l *Loader) log() *zap.Logger {
	if l.Log != nil {
		return l.Log
	}
	return zap.NewNop()
}

// LoadFile loads a mesh file, choosing the parser by extension. It never
// fails: a missing file, an unknown extension or a parse error is logged and
// yields the empty result.
func (l *Loader) LoadFile(path string) Result {
	res, err := l.Load(path)
	if err != nil {
		l.log().Warn("mesh load failed", zap.String("path", path), zap.Error(err))
		return Result{}
	}
	for _, w := range res.Warnings {
		l.log().Debug("partial mesh data", zap.String("path", path), zap.Error(w))
	}
	l.log().Info("mesh loaded",
		zap.String("path", path),
		zap.Int("models", len(res.Models)),
		zap.Int("warnings", len(res.Warnings)))
	return *res
}

// Load is LoadFile with the error returned instead of logged.
func (l *Loader) Load(path string) (*Result, error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
	}

	data, err := l.read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s file: %w", format, err)
	}

	name := filepath.Base(path)
	dir := filepath.Dir(path)

	switch format {
	case FormatOBJ:
		return ParseOBJ(data, name, l.materialLibraries(dir))
	case FormatSTL:
		return ParseSTL(data, name)
	default:
		return ParseX3D(data, name, dir)
	}
}

// Dependencies returns path followed by the files a load of path also reads:
// the material libraries of an OBJ file, resolved against its directory.
func (l *Loader) Dependencies(path string) ([]string, error) {
	deps := []string{path}
	if FormatOf(path) != FormatOBJ {
		return deps, nil
	}

	data, err := l.read(path)
	if err != nil {
		return nil, fmt.Errorf("reading obj file: %w", err)
	}
	dir := filepath.Dir(path)
	seen := map[string]bool{path: true}
	for _, lib := range MaterialLibraries(data) {
		p := resolvePath(dir, lib)
		if !seen[p] {
			seen[p] = true
			deps = append(deps, p)
		}
	}
	return deps, nil
}

// materialLibraries resolves mtllib references relative to dir, parsing each
// resolved path once per load.
func (l *Loader) materialLibraries(dir string) MaterialResolver {
	seen := make(map[string]bool)
	return func(lib string) (map[string]*mesh.Material, error) {
		path := resolvePath(dir, lib)
		if seen[path] {
			return nil, nil
		}
		seen[path] = true

		data, err := l.read(path)
		if err != nil {
			return nil, fmt.Errorf("reading material library: %w", err)
		}
		return ParseMTL(data, filepath.Dir(path)), nil
	}
}

// resolvePath joins a file reference found inside a model onto the model's
// directory. Windows separators are accepted; absolute references are kept.
func resolvePath(dir, ref string) string {
	ref = filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))
	if filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(dir, ref)
}
