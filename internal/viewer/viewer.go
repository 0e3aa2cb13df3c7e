// Package viewer implements the scene collection: the single owner of the
// live scene, camera, selection, hidden set, move gizmo and auto-rotation
// batches. All methods run on one interactive goroutine; only file loading
// happens elsewhere and is merged back with Apply.
package viewer

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/assets"
	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/engine/camera"
	"github.com/Faultbox/meshkit/internal/engine/gizmo"
	"github.com/Faultbox/meshkit/internal/engine/scene"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Tool is the active pointer tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolMove
)

// String returns the tool name.
func (t Tool) String() string {
	if t == ToolMove {
		return "move"
	}
	return "select"
}

// Collection owns the viewer state.
type Collection struct {
	cfg    *config.Config
	log    *zap.Logger
	assets *assets.Manager
	loader *formats.Loader

	scene       *scene.Scene
	camera      *camera.Camera
	light       camera.Light
	lightHandle scene.Handle

	tool     Tool
	selected map[scene.Handle]*mesh.Material
	hidden   map[scene.Handle]*mesh.Material
	gizmo    gizmo.Gizmo

	horzBatches [][]scene.Handle
	vertBatches [][]scene.Handle
	rotator     *Rotator

	drag dragState

	names  []string
	root   *mesh.TreeNode
	models []scene.Handle // loader model index -> handle

	loaded  bool
	pending chan formats.Result
}

// New creates an empty collection configured by cfg. A nil cfg uses
// config.Default.
func New(cfg *config.Config) *Collection {
	if cfg == nil {
		cfg = config.Default()
	}

	am := assets.NewManager()
	c := &Collection{
		cfg:    cfg,
		log:    logger.Named("viewer"),
		assets: am,
		loader: &formats.Loader{
			ReadFile: am.Load,
			Log:      logger.Named("formats"),
		},
		scene:    scene.New(),
		camera:   newCamera(cfg),
		selected: make(map[scene.Handle]*mesh.Material),
		hidden:   make(map[scene.Handle]*mesh.Material),
		gizmo:    gizmo.Gizmo{Fraction: cfg.Gizmo.ViewportFraction},
		rotator:  NewRotator(cfg.Rotation.Interval),
		pending:  make(chan formats.Result, 1),
	}
	c.light.Direction = c.camera.LookDirection
	c.lightHandle = c.scene.AddLight(&c.light)
	return c
}

func newCamera(cfg *config.Config) *camera.Camera {
	cam := camera.New()
	if cfg.Camera.FieldOfView > 0 {
		cam.FieldOfView = cfg.Camera.FieldOfView
	}
	if cfg.Camera.NearPlane > 0 {
		cam.NearPlaneDistance = cfg.Camera.NearPlane
	}
	if cfg.Camera.Sensitivity > 0 {
		cam.Sensitivity = cfg.Camera.Sensitivity
	}
	if cfg.Camera.MinDollyDistance > 0 {
		cam.MinDollyDistance = cfg.Camera.MinDollyDistance
	}
	return cam
}

// Scene returns the live scene for the rendering layer.
func (c *Collection) Scene() *scene.Scene { return c.scene }

// Camera returns the live camera.
func (c *Collection) Camera() *camera.Camera { return c.camera }

// Light returns the camera-bound light.
func (c *Collection) Light() *camera.Light { return &c.light }

// Tool returns the active tool.
func (c *Collection) Tool() Tool { return c.tool }

// Gizmo returns the move gizmo bookkeeping.
func (c *Collection) Gizmo() *gizmo.Gizmo { return &c.gizmo }

// Assets returns the file cache used by the loader.
func (c *Collection) Assets() *assets.Manager { return c.assets }

// Names returns the display name of each loaded model.
func (c *Collection) Names() []string { return c.names }

// Tree returns the hierarchy of the loaded file, or nil.
func (c *Collection) Tree() *mesh.TreeNode { return c.root }

// Loaded reports whether a non-empty result has been applied.
func (c *Collection) Loaded() bool { return c.loaded }

// MeshHandle maps a loader model index (as found in TreeNode.ModelIndex) to
// its scene handle.
func (c *Collection) MeshHandle(index int) (scene.Handle, bool) {
	if index < 0 || index >= len(c.models) {
		return 0, false
	}
	return c.models[index], true
}

// MeshHandles returns the handles of the loaded models in loader order.
func (c *Collection) MeshHandles() []scene.Handle {
	out := make([]scene.Handle, len(c.models))
	copy(out, c.models)
	return out
}

// Resize sets the viewport dimensions used for picking.
func (c *Collection) Resize(width, height int) {
	if width > 0 && height > 0 {
		c.cfg.Viewport.Width = width
		c.cfg.Viewport.Height = height
	}
}

// LoadFromFile parses path into a detached result. It touches no scene state
// and may run on any goroutine.
func (c *Collection) LoadFromFile(path string) formats.Result {
	return c.loader.LoadFile(path)
}

// LoadAsync loads path on a worker goroutine. The channel yields exactly one
// result, or is closed without one when ctx ends first.
func (c *Collection) LoadAsync(ctx context.Context, path string) <-chan formats.Result {
	out := make(chan formats.Result, 1)
	go func() {
		defer close(out)
		res := c.LoadFromFile(path)
		select {
		case out <- res:
		case <-ctx.Done():
		}
	}()
	return out
}

// Enqueue loads path in the background and hands the result to Run, which
// applies it on the interactive goroutine. A result still waiting to be
// applied is replaced.
func (c *Collection) Enqueue(ctx context.Context, path string) {
	go func() {
		res, ok := <-c.LoadAsync(ctx, path)
		if !ok {
			return
		}
		for {
			select {
			case c.pending <- res:
				return
			case <-ctx.Done():
				return
			default:
			}
			select {
			case <-c.pending:
			default:
			}
		}
	}()
}

// Apply replaces the loaded models with res, resets selection, hidden,
// gizmo and rotation state and frames the camera around the new models.
// An empty result leaves the collection untouched and reports false.
func (c *Collection) Apply(res formats.Result) bool {
	if res.Empty() {
		c.log.Warn("nothing to apply: load produced no models")
		return false
	}

	c.rotator.Disable(Horizontal)
	c.rotator.Disable(Vertical)
	c.horzBatches = nil
	c.vertBatches = nil
	c.drag = dragState{}

	c.gizmo.Clear(c.scene)
	clear(c.selected)
	clear(c.hidden)
	for _, h := range c.scene.HandlesOf(scene.KindMesh) {
		c.scene.Remove(h)
	}

	c.models = c.models[:0]
	for _, m := range res.Models {
		c.models = append(c.models, c.scene.Add(scene.KindMesh, m))
	}
	c.names = res.Names
	c.root = res.Root
	c.loaded = true

	stats := c.CountVertsAndTriangles()
	c.frame(stats.MaxRadius())

	c.log.Info("scene applied",
		zap.Int("models", len(c.models)),
		zap.Int("vertices", stats.Vertices),
		zap.Int("triangles", stats.Triangles))
	return true
}

// Load is LoadFromFile followed by Apply on the calling goroutine.
func (c *Collection) Load(path string) bool {
	return c.Apply(c.LoadFromFile(path))
}

// CountVertsAndTriangles sums vertices and triangles over the loaded models
// (hidden ones included) and reports their extents, which always contain the
// origin.
func (c *Collection) CountVertsAndTriangles() mesh.Stats {
	return mesh.CountStats(c.meshGeometries(c.scene.HandlesOf(scene.KindMesh))...)
}

// Recenter frames the camera around every loaded model.
func (c *Collection) Recenter() {
	c.frame(c.CountVertsAndTriangles().MaxRadius())
}

func (c *Collection) frame(radius float64) {
	c.camera.Frame(radius, &c.light)
	if c.cfg.Camera.FieldOfView > 0 {
		c.camera.FieldOfView = c.cfg.Camera.FieldOfView
	}
	if c.tool == ToolMove && !c.gizmo.Empty() {
		c.DrawAxis()
	}
}

// meshGeometries returns the geometry of each handle that carries one.
func (c *Collection) meshGeometries(handles []scene.Handle) []*mesh.Geometry {
	var out []*mesh.Geometry
	for _, h := range handles {
		if m := c.scene.Model(h); m.HasGeometry() {
			out = append(out, m.Geometry)
		}
	}
	return out
}
