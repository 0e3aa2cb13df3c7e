package viewer

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/engine/scene"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// SelectMesh highlights the mesh h, remembering its material so it can be
// restored exactly. Without additive the previous selection is dropped
// first. Under the move tool the gizmo is redrawn around the selection.
// It reports whether h is a mesh of the scene.
func (c *Collection) SelectMesh(h scene.Handle, additive bool) bool {
	e := c.scene.Get(h)
	if e == nil || e.Kind != scene.KindMesh || e.Model == nil {
		return false
	}

	if !additive {
		c.UnselectAll()
	}

	if _, ok := c.selected[h]; !ok {
		if orig, hidden := c.hidden[h]; hidden {
			// Stays invisible; remember the material it will be shown with.
			c.selected[h] = orig
		} else {
			c.selected[h] = e.Model.Material
			e.Model.Material = mesh.Highlight()
		}
	}

	if c.tool == ToolMove {
		c.DrawAxis()
	}
	return true
}

// SelectSubtree selects every model referenced below node.
func (c *Collection) SelectSubtree(node *mesh.TreeNode, additive bool) int {
	if !additive {
		c.UnselectAll()
	}
	n := 0
	for _, idx := range node.ModelIndices() {
		if h, ok := c.MeshHandle(idx); ok && c.SelectMesh(h, true) {
			n++
		}
	}
	return n
}

// UnselectAll restores the saved material of every selected mesh that is not
// hidden, empties the selection and removes the gizmo.
func (c *Collection) UnselectAll() {
	for h, orig := range c.selected {
		if _, hidden := c.hidden[h]; hidden {
			continue
		}
		if m := c.scene.Model(h); m != nil {
			m.Material = orig
		}
	}
	clear(c.selected)
	c.ClearAxisFromMove()
}

// Selected returns the selected handles in ascending order.
func (c *Collection) Selected() []scene.Handle {
	return slices.Sorted(maps.Keys(c.selected))
}

// IsSelected reports whether h is selected.
func (c *Collection) IsSelected(h scene.Handle) bool {
	_, ok := c.selected[h]
	return ok
}

// Hidden returns the hidden handles in ascending order.
func (c *Collection) Hidden() []scene.Handle {
	return slices.Sorted(maps.Keys(c.hidden))
}

// IsHidden reports whether h is hidden.
func (c *Collection) IsHidden(h scene.Handle) bool {
	_, ok := c.hidden[h]
	return ok
}

// HideSelected hides every selected mesh. The meshes stay selected.
func (c *Collection) HideSelected() {
	for h, orig := range c.selected {
		c.hide(h, orig)
	}
}

// IsolateSelected hides every mesh that is not selected.
func (c *Collection) IsolateSelected() {
	for _, h := range c.scene.HandlesOf(scene.KindMesh) {
		if _, sel := c.selected[h]; sel {
			continue
		}
		if m := c.scene.Model(h); m != nil {
			c.hide(h, m.Material)
		}
	}
}

// hide makes h invisible, saving orig as the material to show it with.
func (c *Collection) hide(h scene.Handle, orig *mesh.Material) {
	m := c.scene.Model(h)
	if !m.HasGeometry() {
		return
	}
	if _, already := c.hidden[h]; already {
		return
	}
	c.hidden[h] = orig
	m.Material = nil
}

// ShowAll makes every hidden mesh visible again. Meshes that are still
// selected come back highlighted.
func (c *Collection) ShowAll() {
	for h, orig := range c.hidden {
		m := c.scene.Model(h)
		if m == nil {
			continue
		}
		if _, sel := c.selected[h]; sel {
			m.Material = mesh.Highlight()
		} else {
			m.Material = orig
		}
	}
	clear(c.hidden)
}

// ChooseTool switches the pointer tool. Switching to move draws the gizmo
// around the current selection; switching away removes it.
func (c *Collection) ChooseTool(t Tool) {
	c.tool = t
	if t == ToolMove {
		c.DrawAxis()
	} else {
		c.ClearAxisFromMove()
	}
	c.log.Debug("tool chosen", zap.Stringer("tool", t))
}

// DrawAxis redraws the gizmo around the selection, or removes it when no
// selected mesh has geometry.
func (c *Collection) DrawAxis() {
	c.gizmo.Draw(c.scene, c.camera, c.meshGeometries(c.Selected()))
}

// ClearAxisFromMove removes the gizmo from the scene.
func (c *Collection) ClearAxisFromMove() {
	c.gizmo.Clear(c.scene)
}
