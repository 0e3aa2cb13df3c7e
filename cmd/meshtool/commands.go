package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/engine/input"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/internal/viewer"
	"github.com/Faultbox/meshkit/internal/watch"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

var errUsage = errors.New("invalid arguments")

// fileInfo is the per-file summary printed by info.
type fileInfo struct {
	path     string
	format   formats.Format
	models   int
	warnings int
	stats    mesh.Stats
}

func cmdInfo(_ *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: usage: meshtool info <file>...", errUsage)
	}

	loader := &formats.Loader{Log: logger.Named("formats")}
	infos := make([]fileInfo, len(args))

	bar := progressbar.Default(int64(len(args)), "loading")
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, path := range args {
		g.Go(func() error {
			defer bar.Add(1)
			res, err := loader.Load(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			infos[i] = fileInfo{
				path:     path,
				format:   formats.FormatOf(path),
				models:   len(res.Models),
				warnings: len(res.Warnings),
				stats:    mesh.CountStats(res.Geometries()...),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	_ = bar.Finish()

	for _, fi := range infos {
		printInfo(os.Stdout, fi)
	}
	return nil
}

func printInfo(w io.Writer, fi fileInfo) {
	fmt.Fprintf(w, "File:      %s (%s)\n", fi.path, fi.format)
	fmt.Fprintf(w, "Models:    %d\n", fi.models)
	fmt.Fprintf(w, "Vertices:  %d\n", fi.stats.Vertices)
	fmt.Fprintf(w, "Triangles: %d\n", fi.stats.Triangles)
	fmt.Fprintf(w, "Extents:   %s .. %s\n", formatVec(fi.stats.Min), formatVec(fi.stats.Max))
	fmt.Fprintf(w, "Radius:    %.4f\n", fi.stats.MaxRadius())
	if fi.warnings > 0 {
		fmt.Fprintf(w, "Warnings:  %d (run with -debug for details)\n", fi.warnings)
	}
	fmt.Fprintln(w)
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", v.X(), v.Y(), v.Z())
}

func cmdTree(_ *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: meshtool tree <file>", errUsage)
	}

	loader := &formats.Loader{Log: logger.Named("formats")}
	res, err := loader.Load(args[0])
	if err != nil {
		return err
	}
	printTree(os.Stdout, res)
	return nil
}

func printTree(w io.Writer, res *formats.Result) {
	res.Root.Walk(func(n *mesh.TreeNode, depth int) bool {
		indent := strings.Repeat("  ", depth)
		if n.ModelIndex < 0 || n.ModelIndex >= len(res.Models) {
			fmt.Fprintf(w, "%s%s\n", indent, n.Name)
			return true
		}
		tris := 0
		if g := res.Models[n.ModelIndex].Geometry; g != nil {
			tris = g.TriangleCount()
		}
		fmt.Fprintf(w, "%s%s [#%d, %d triangles]\n", indent, n.Name, n.ModelIndex, tris)
		return true
	})
}

func cmdExport(cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: usage: meshtool export <file> <out.obj>", errUsage)
	}

	c := viewer.New(cfg)
	if !c.Load(args[0]) {
		return fmt.Errorf("no models loaded from %s", args[0])
	}

	if args[1] == "-" {
		return c.ExportOBJ(os.Stdout)
	}

	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := c.ExportOBJ(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	stats := c.CountVertsAndTriangles()
	fmt.Fprintf(os.Stderr, "Wrote %s (%d vertices, %d triangles)\n", args[1], stats.Vertices, stats.Triangles)
	return nil
}

func cmdPick(cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: usage: meshtool pick <file> <x> <y>", errUsage)
	}
	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("%w: x: %v", errUsage, err)
	}
	y, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("%w: y: %v", errUsage, err)
	}

	c := viewer.New(cfg)
	if !c.Load(args[0]) {
		return fmt.Errorf("no models loaded from %s", args[0])
	}

	pos := mgl64.Vec2{x, y}
	hit, ok := c.Pick(pos)
	if !ok {
		fmt.Println("No mesh under pixel")
		return nil
	}

	name := ""
	for i, h := range c.MeshHandles() {
		if h == hit.Handle && i < len(c.Names()) {
			name = c.Names()[i]
			break
		}
	}

	for _, e := range input.Click(pos, input.ButtonLeft, 0) {
		c.HandleEvent(e)
	}

	fmt.Printf("Mesh:     %s (handle %d)\n", name, hit.Handle)
	fmt.Printf("Point:    %s\n", formatVec(hit.Point))
	fmt.Printf("Distance: %.4f\n", hit.Distance)
	fmt.Printf("Selected: %d mesh(es)\n", len(c.Selected()))
	return nil
}

func cmdWatch(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: meshtool watch <file>", errUsage)
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	log := logger.Named("meshtool")

	c := viewer.New(cfg)
	if !c.Load(path) {
		return fmt.Errorf("no models loaded from %s", path)
	}

	loader := &formats.Loader{ReadFile: c.Assets().Load}
	deps, err := loader.Dependencies(path)
	if err != nil {
		return err
	}

	fw, err := watch.NewFileWatcher(watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = fw.Watch(deps, func(changed string) {
		c.Assets().Invalidate(changed)
		log.Info("reloading", zap.String("changed", filepath.Base(changed)), zap.String("model", path))
		c.Enqueue(ctx, path)
	})
	if err != nil {
		return err
	}
	fw.Start()

	fmt.Fprintf(os.Stderr, "Watching %d file(s) for %s, Ctrl-C to stop\n", len(deps), path)
	return c.Run(ctx, nil)
}
