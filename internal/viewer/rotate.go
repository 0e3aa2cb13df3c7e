package viewer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/meshkit/internal/engine/input"
	"github.com/Faultbox/meshkit/internal/engine/scene"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// DefaultRotateInterval is the auto-rotation tick period.
const DefaultRotateInterval = 30 * time.Millisecond

// DefaultRotateStep is the rotation applied to each batch per tick, in degrees.
const DefaultRotateStep = 10.0

// Direction selects the auto-rotation axis.
type Direction int

const (
	Horizontal Direction = iota // About world +Y
	Vertical                    // About world +X
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Rotator emits auto-rotation ticks for each enabled direction. Ticks are
// delivered on C and applied by the interactive goroutine; a tick is dropped
// when the previous one has not been consumed yet.
type Rotator struct {
	interval time.Duration
	enabled  [2]atomic.Bool
	ticks    chan Direction
}

// NewRotator creates a rotator ticking every interval (DefaultRotateInterval
// when not positive).
func NewRotator(interval time.Duration) *Rotator {
	if interval <= 0 {
		interval = DefaultRotateInterval
	}
	return &Rotator{
		interval: interval,
		ticks:    make(chan Direction, 2),
	}
}

// C returns the tick channel.
func (r *Rotator) C() <-chan Direction { return r.ticks }

// Enable starts ticking for d.
func (r *Rotator) Enable(d Direction) { r.enabled[d].Store(true) }

// Disable stops ticking for d.
func (r *Rotator) Disable(d Direction) { r.enabled[d].Store(false) }

// Enabled reports whether d is ticking.
func (r *Rotator) Enabled(d Direction) bool { return r.enabled[d].Load() }

// Run ticks until ctx is done.
func (r *Rotator) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			for _, d := range []Direction{Horizontal, Vertical} {
				if !r.Enabled(d) {
					continue
				}
				select {
				case r.ticks <- d:
				default:
				}
			}
		}
	}
}

// Rotator returns the auto-rotation ticker.
func (c *Collection) Rotator() *Rotator { return c.rotator }

// StartAutoRotate moves the current selection into a new rotation batch for
// d, clears the selection and enables ticking. Meshes selected afterwards
// are not part of the batch.
func (c *Collection) StartAutoRotate(d Direction) {
	var batch []scene.Handle
	for _, h := range c.Selected() {
		if c.scene.Model(h).HasGeometry() {
			batch = append(batch, h)
		}
	}
	c.UnselectAll()

	if len(batch) > 0 {
		if d == Vertical {
			c.vertBatches = append(c.vertBatches, batch)
		} else {
			c.horzBatches = append(c.horzBatches, batch)
		}
	}
	c.rotator.Enable(d)
	c.log.Debug("auto-rotate started", zap.Stringer("direction", d), zap.Int("meshes", len(batch)))
}

// StopAutoRotate disables ticking for d and forgets its batches.
func (c *Collection) StopAutoRotate(d Direction) {
	c.rotator.Disable(d)
	if d == Vertical {
		c.vertBatches = nil
	} else {
		c.horzBatches = nil
	}
}

// ToggleAutoRotate stops rotation in d when it is running and starts it
// otherwise. It reports whether rotation is now running.
func (c *Collection) ToggleAutoRotate(d Direction) bool {
	if c.rotator.Enabled(d) {
		c.StopAutoRotate(d)
		return false
	}
	c.StartAutoRotate(d)
	return true
}

// Batches returns the rotation batches for d.
func (c *Collection) Batches(d Direction) [][]scene.Handle {
	if d == Vertical {
		return c.vertBatches
	}
	return c.horzBatches
}

// RotateSelectionOrCamera applies one rotation step. With no batches and no
// selection the camera orbits one pixel instead; otherwise each batch turns
// about its own center.
func (c *Collection) RotateSelectionOrCamera(d Direction) {
	batches, axis := c.horzBatches, mgl64.Vec3{0, 1, 0}
	if d == Vertical {
		batches, axis = c.vertBatches, mgl64.Vec3{1, 0, 0}
	}

	if len(batches) == 0 && len(c.selected) == 0 {
		if d == Vertical {
			c.camera.Orbit(&c.light, 0, -1)
		} else {
			c.camera.Orbit(&c.light, -1, 0)
		}
		return
	}

	step := c.cfg.Rotation.StepDegrees
	if step == 0 {
		step = DefaultRotateStep
	}
	for _, batch := range batches {
		// Batches whose meshes were all replaced rotate nothing.
		_ = mesh.RotateAroundCenter(c.meshGeometries(batch), axis, step)
	}
}

// Tick applies one auto-rotation tick.
func (c *Collection) Tick(d Direction) {
	c.RotateSelectionOrCamera(d)
}

// Run is the interactive loop: it applies input events, rotation ticks and
// background load results on the calling goroutine until ctx is done or
// events is closed. The rotation ticker runs alongside and stops with it.
func (c *Collection) Run(ctx context.Context, events <-chan input.Event) error {
	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	g.Go(func() error { return c.rotator.Run(ctx) })

	err := c.loop(ctx, events)
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}

func (c *Collection) loop(ctx context.Context, events <-chan input.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			c.HandleEvent(e)
		case d := <-c.rotator.C():
			c.Tick(d)
		case res := <-c.pending:
			c.Apply(res)
		}
	}
}
