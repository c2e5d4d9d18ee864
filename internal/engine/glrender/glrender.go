// Package glrender draws scene nodes with OpenGL 4.1 core.
package glrender

import (
	"fmt"
	"sort"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/arviewer/internal/backend"
	"github.com/Faultbox/arviewer/internal/engine/lighting"
	"github.com/Faultbox/arviewer/internal/engine/mesh"
	"github.com/Faultbox/arviewer/internal/engine/shader"
	"github.com/Faultbox/arviewer/internal/logger"
	"github.com/Faultbox/arviewer/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	Lights lighting.Rig
}

type node struct {
	vao, vbo, ebo uint32
	count         int32
	points        bool
	transform     math.Mat4
	material      backend.Material
	visible       bool
}

// Renderer implements backend.Renderer on the current GL context.
type Renderer struct {
	config  Config
	program *shader.Program
	nodes   map[backend.Handle]*node
	next    backend.Handle
	log     *zap.Logger
}

var _ backend.Renderer = (*Renderer)(nil)

// New creates a renderer. It must be called after the GL context is current.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	if cfg.Lights == (lighting.Rig{}) {
		cfg.Lights = lighting.Default()
	}
	r := &Renderer{
		config: cfg,
		nodes:  make(map[backend.Handle]*node),
		log:    logger.Named("glrender"),
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0, 0, 0, 1)

	program, err := shader.NewProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program = program
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases every node and the shader program.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("nodes", len(r.nodes)))
	for h := range r.nodes {
		r.RemoveNode(h)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// CreateNode uploads the geometry and returns a visible node.
func (r *Renderer) CreateNode(geo backend.Geometry, mat backend.Material) backend.Handle {
	m := mesh.Build(geo)
	n := &node{
		points:    m.Points,
		transform: math.Identity(),
		material:  mat,
		visible:   true,
	}

	vertices := m.Interleave()
	gl.GenVertexArrays(1, &n.vao)
	gl.BindVertexArray(n.vao)

	gl.GenBuffers(1, &n.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, n.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	}

	const stride = 9 * 4
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(6*4)))
	gl.EnableVertexAttribArray(2)

	if m.Points {
		n.count = int32(m.VertexCount())
	} else {
		gl.GenBuffers(1, &n.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, n.ebo)
		if len(m.Indices) > 0 {
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
		}
		n.count = int32(len(m.Indices))
	}
	gl.BindVertexArray(0)

	r.next++
	r.nodes[r.next] = n
	r.log.Debug("node created",
		zap.Uint32("handle", uint32(r.next)),
		zap.Stringer("geometry", geo.Kind),
		zap.Int("vertices", m.VertexCount()),
	)
	return r.next
}

func (r *Renderer) SetTransform(h backend.Handle, m math.Mat4) {
	if n, ok := r.nodes[h]; ok {
		n.transform = m
	}
}

func (r *Renderer) SetMaterial(h backend.Handle, mat backend.Material) {
	if n, ok := r.nodes[h]; ok {
		n.material = mat
	}
}

func (r *Renderer) SetVisible(h backend.Handle, visible bool) {
	if n, ok := r.nodes[h]; ok {
		n.visible = visible
	}
}

// RemoveNode frees the node's GPU buffers.
func (r *Renderer) RemoveNode(h backend.Handle) {
	n, ok := r.nodes[h]
	if !ok {
		return
	}
	if n.ebo != 0 {
		gl.DeleteBuffers(1, &n.ebo)
	}
	gl.DeleteBuffers(1, &n.vbo)
	gl.DeleteVertexArrays(1, &n.vao)
	delete(r.nodes, h)
}

// Render draws opaque nodes first, then blended ones with depth writes off.
func (r *Renderer) Render(cam backend.Camera) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.program.Use()
	r.program.SetMat4("uView", cam.View)
	r.program.SetMat4("uProj", cam.Projection)
	r.setLights(r.config.Lights)

	opaque, blended := r.partition()

	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	for _, n := range opaque {
		r.draw(n)
	}

	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
	for _, n := range blended {
		r.draw(n)
	}
	gl.DepthMask(true)
	gl.BindVertexArray(0)
}

// partition splits visible nodes by blending, in handle order so frames are stable.
func (r *Renderer) partition() (opaque, blended []*node) {
	handles := make([]backend.Handle, 0, len(r.nodes))
	for h := range r.nodes {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	for _, h := range handles {
		n := r.nodes[h]
		if !n.visible || n.count == 0 {
			continue
		}
		if n.material.Transparent || n.material.Opacity < 1 || n.points {
			blended = append(blended, n)
		} else {
			opaque = append(opaque, n)
		}
	}
	return opaque, blended
}

func (r *Renderer) draw(n *node) {
	mat := n.material
	p := r.program
	p.SetMat4("uModel", n.transform)
	p.SetVec3("uColor", math.Vec3{X: float32(mat.Color.R), Y: float32(mat.Color.G), Z: float32(mat.Color.B)})
	p.SetVec3("uEmissive", math.Vec3{X: float32(mat.Emissive.R), Y: float32(mat.Emissive.G), Z: float32(mat.Emissive.B)})
	p.SetFloat("uEmissiveIntensity", mat.EmissiveIntensity)
	p.SetFloat("uMetalness", mat.Metalness)
	p.SetFloat("uRoughness", mat.Roughness)
	p.SetFloat("uOpacity", opacity(mat))
	p.SetBool("uUnlit", mat.Unlit || n.points)
	p.SetBool("uVertexColor", n.points)
	p.SetFloat("uPointSize", pointSize(mat))

	gl.BindVertexArray(n.vao)
	if n.points {
		gl.DrawArrays(gl.POINTS, 0, n.count)
		return
	}
	gl.DrawElements(gl.TRIANGLES, n.count, gl.UNSIGNED_INT, nil)
}

// opacity folds transmission into alpha since there is no refraction pass.
func opacity(mat backend.Material) float32 {
	a := mat.Opacity
	if mat.Transmission > 0 {
		a *= 1 - 0.5*mat.Transmission
	}
	return a
}

// pointSize converts a world-space point size to a base pixel size.
func pointSize(mat backend.Material) float32 {
	if mat.PointSize <= 0 {
		return 1
	}
	return mat.PointSize * 100
}

func (r *Renderer) setLights(rig lighting.Rig) {
	r.program.SetVec3("uAmbient", rig.Ambient.Scale(rig.AmbientIntensity))
	r.program.SetVec3("uSky", rig.Hemisphere.Sky.Scale(rig.Hemisphere.Intensity))
	r.program.SetVec3("uGround", rig.Hemisphere.Ground.Scale(rig.Hemisphere.Intensity))
	r.program.SetVec3("uLightDir", rig.Sun.Direction)
	r.program.SetVec3("uLightColor", rig.Sun.Color.Scale(rig.Sun.Intensity))
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
