// Package scene holds the viewer's animatable objects and the registry that
// owns them.
package scene

import (
	"github.com/Faultbox/arviewer/internal/backend"
)

// Sequence is anything that can be iterated as a set of objects.
type Sequence interface {
	Each(fn func(*Object))
}

// List is a Sequence over a fixed slice.
type List []*Object

// Each implements Sequence.
func (l List) Each(fn func(*Object)) {
	for _, o := range l {
		fn(o)
	}
}

// Registry owns the objects of the active mode. Objects added or removed while
// Each is running take effect once the outermost Each returns, so an iteration
// never observes its own mutations.
type Registry struct {
	objects   []*Object
	index     map[ID]*Object
	pending   []*Object
	removals  []ID
	iterating int
	nextID    ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[ID]*Object),
	}
}

// Add registers o and assigns its ID.
func (r *Registry) Add(o *Object) ID {
	r.nextID++
	o.ID = r.nextID
	if r.iterating > 0 {
		r.pending = append(r.pending, o)
		return o.ID
	}
	r.insert(o)
	return o.ID
}

// Remove unregisters the object with the given ID.
func (r *Registry) Remove(id ID) {
	if r.iterating > 0 {
		r.removals = append(r.removals, id)
		return
	}
	r.delete(id)
}

// Each calls fn for every registered object in insertion order.
func (r *Registry) Each(fn func(*Object)) {
	r.iterating++
	for _, o := range r.objects {
		fn(o)
	}
	r.iterating--
	if r.iterating == 0 {
		r.flush()
	}
}

// Get returns the object with the given ID.
func (r *Registry) Get(id ID) (*Object, bool) {
	o, ok := r.index[id]
	return o, ok
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	return len(r.objects)
}

// Objects returns a snapshot of the registered objects.
func (r *Registry) Objects() []*Object {
	out := make([]*Object, len(r.objects))
	copy(out, r.objects)
	return out
}

// Sync pushes every object's transform and material to the renderer.
func (r *Registry) Sync(rd backend.Renderer, textures bool) {
	r.Each(func(o *Object) {
		world := o.Transform.Matrix()
		mat := o.Material(textures)
		for _, p := range o.Parts {
			rd.SetTransform(p.Handle, world.Mul(p.Local))
			if o.Kind != KindModel {
				rd.SetMaterial(p.Handle, mat)
			}
		}
	})
}

// Release removes the object's nodes from the renderer and unregisters it.
func (r *Registry) Release(rd backend.Renderer, id ID) {
	o, ok := r.index[id]
	if !ok {
		return
	}
	for _, p := range o.Parts {
		rd.RemoveNode(p.Handle)
	}
	o.Parts = nil
	r.Remove(id)
}

// Clear releases every object.
func (r *Registry) Clear(rd backend.Renderer) {
	for _, o := range r.Objects() {
		r.Release(rd, o.ID)
	}
	for _, o := range r.pending {
		for _, p := range o.Parts {
			rd.RemoveNode(p.Handle)
		}
	}
	r.pending = nil
}

func (r *Registry) flush() {
	for _, o := range r.pending {
		r.insert(o)
	}
	r.pending = r.pending[:0]
	for _, id := range r.removals {
		r.delete(id)
	}
	r.removals = r.removals[:0]
}

func (r *Registry) insert(o *Object) {
	r.objects = append(r.objects, o)
	r.index[o.ID] = o
}

func (r *Registry) delete(id ID) {
	if _, ok := r.index[id]; !ok {
		return
	}
	delete(r.index, id)
	for i, o := range r.objects {
		if o.ID == id {
			r.objects = append(r.objects[:i], r.objects[i+1:]...)
			break
		}
	}
}
