// Package memory implements backend.Renderer without a GPU.
//
// It records the state of every node so headless runs can be inspected and
// tests can assert on what the viewer core pushed.
package memory

import (
	"sync"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/pkg/math"
)

// Node is the recorded state of one backend node.
type Node struct {
	Geometry  backend.Geometry
	Material  backend.Material
	Transform math.Mat4
	Visible   bool
}

// Renderer records nodes in memory.
type Renderer struct {
	mu      sync.Mutex
	nodes   map[backend.Handle]*Node
	next    backend.Handle
	frames  int
	created int
	removed int
	width   int
	height  int
	camera  backend.Camera
}

// New creates an empty renderer.
func New() *Renderer {
	return &Renderer{
		nodes: make(map[backend.Handle]*Node),
	}
}

// CreateNode implements backend.Renderer.
func (r *Renderer) CreateNode(geo backend.Geometry, mat backend.Material) backend.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.created++
	r.nodes[r.next] = &Node{
		Geometry:  geo,
		Material:  mat,
		Transform: math.Identity(),
		Visible:   true,
	}
	return r.next
}

// SetTransform implements backend.Renderer.
func (r *Renderer) SetTransform(h backend.Handle, m math.Mat4) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.nodes[h]; ok {
		n.Transform = m
	}
}

// SetMaterial implements backend.Renderer.
func (r *Renderer) SetMaterial(h backend.Handle, mat backend.Material) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.nodes[h]; ok {
		n.Material = mat
	}
}

// SetVisible implements backend.Renderer.
func (r *Renderer) SetVisible(h backend.Handle, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.nodes[h]; ok {
		n.Visible = visible
	}
}

// RemoveNode implements backend.Renderer.
func (r *Renderer) RemoveNode(h backend.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodes[h]; ok {
		delete(r.nodes, h)
		r.removed++
	}
}

// Render implements backend.Renderer.
func (r *Renderer) Render(cam backend.Camera) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	r.camera = cam
}

// Resize implements backend.Renderer.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height
}

// Node returns a copy of the node's recorded state.
func (r *Renderer) Node(h backend.Handle) (Node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nodes[h]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Len returns the number of live nodes.
func (r *Renderer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodes)
}

// Frames returns how many times Render was called.
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Stats reports the number of nodes created and removed over the renderer's life.
func (r *Renderer) Stats() (created, removed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.created, r.removed
}

// Size returns the last size passed to Resize.
func (r *Renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

var _ backend.Renderer = (*Renderer)(nil)
