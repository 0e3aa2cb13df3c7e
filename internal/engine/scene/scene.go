// Package scene provides the drawable list shared by the viewer and the
// rendering surface: meshes, gizmo parts and lights addressed by stable
// handles.
package scene

import (
	"github.com/Faultbox/meshkit/internal/engine/camera"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Handle identifies an entry for the lifetime of the scene. Handles are never
// reused, so removing one entry leaves every other handle valid.
type Handle uint64

// Kind classifies scene entries.
type Kind int

const (
	KindMesh Kind = iota
	KindGizmo
	KindLight
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindGizmo:
		return "gizmo"
	case KindLight:
		return "light"
	default:
		return "unknown"
	}
}

// Entry is one drawable. Model is nil for lights.
type Entry struct {
	Handle Handle
	Kind   Kind
	Model  *mesh.Model
	Light  *camera.Light
}

// Scene is an insertion-ordered arena of entries.
type Scene struct {
	next    Handle
	entries map[Handle]*Entry
	order   []Handle
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{entries: make(map[Handle]*Entry)}
}

// Add appends a model entry and returns its handle.
func (s *Scene) Add(kind Kind, model *mesh.Model) Handle {
	return s.add(&Entry{Kind: kind, Model: model})
}

// AddLight appends a light entry and returns its handle.
func (s *Scene) AddLight(light *camera.Light) Handle {
	return s.add(&Entry{Kind: KindLight, Light: light})
}

func (s *Scene) add(e *Entry) Handle {
	s.next++
	e.Handle = s.next
	s.entries[e.Handle] = e
	s.order = append(s.order, e.Handle)
	return e.Handle
}

// Remove deletes the entry for h. It reports whether h was present.
func (s *Scene) Remove(h Handle) bool {
	if _, ok := s.entries[h]; !ok {
		return false
	}
	delete(s.entries, h)
	for i, oh := range s.order {
		if oh == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the entry for h, or nil.
func (s *Scene) Get(h Handle) *Entry {
	return s.entries[h]
}

// Model returns the model of h, or nil for a missing entry or a light.
func (s *Scene) Model(h Handle) *mesh.Model {
	if e := s.entries[h]; e != nil {
		return e.Model
	}
	return nil
}

// Handles returns all handles in insertion order.
func (s *Scene) Handles() []Handle {
	out := make([]Handle, len(s.order))
	copy(out, s.order)
	return out
}

// HandlesOf returns the handles of one kind in insertion order.
func (s *Scene) HandlesOf(kind Kind) []Handle {
	var out []Handle
	for _, h := range s.order {
		if s.entries[h].Kind == kind {
			out = append(out, h)
		}
	}
	return out
}

// Len returns the number of entries.
func (s *Scene) Len() int {
	return len(s.order)
}

// Clear removes every entry. Handles keep counting up.
func (s *Scene) Clear() {
	s.entries = make(map[Handle]*Entry)
	s.order = nil
}

// Models returns the models of the given kind in insertion order.
func (s *Scene) Models(kind Kind) []*mesh.Model {
	var out []*mesh.Model
	for _, h := range s.order {
		if e := s.entries[h]; e.Kind == kind && e.Model != nil {
			out = append(out, e.Model)
		}
	}
	return out
}
