package ui2d

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/arviewer/internal/engine/shader"
	"github.com/Faultbox/arviewer/pkg/math"
)

const solidVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 1.0);
	vColor = aColor;
}
`

const solidFragmentShader = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
	FragColor = vColor;
}
`

const textVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vTexCoord;
out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 1.0);
	vTexCoord = aTexCoord;
	vColor = aColor;
}
`

const textFragmentShader = `
#version 410 core

uniform sampler2D uTexture;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
	float coverage = texture(uTexture, vTexCoord).r;
	FragColor = vec4(vColor.rgb, vColor.a * coverage);
}
`

// Renderer draws batches with OpenGL. It must be created after the GL
// context is current.
type Renderer struct {
	width, height int

	solid, text       *shader.Program
	solidVAO, textVAO uint32
	solidVBO, textVBO uint32
	fontTex           uint32
}

// New creates an overlay renderer and uploads the font atlas.
func New(width, height int, f *Font) (*Renderer, error) {
	r := &Renderer{width: width, height: height}

	var err error
	if r.solid, err = shader.NewProgram(solidVertexShader, solidFragmentShader); err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	if r.text, err = shader.NewProgram(textVertexShader, textFragmentShader); err != nil {
		r.solid.Delete()
		return nil, fmt.Errorf("create text shader: %w", err)
	}

	r.solidVAO, r.solidVBO = vertexArray(solidStride, 3, 4)
	r.textVAO, r.textVBO = vertexArray(textStride, 3, 2, 4)
	r.fontTex = uploadAlpha(f.Atlas())
	return r, nil
}

// vertexArray creates a VAO whose float attributes have the given sizes.
func vertexArray(stride int, sizes ...int) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	offset := 0
	for i, n := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), int32(n), gl.FLOAT, false, int32(stride*4), uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(i))
		offset += n
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

func uploadAlpha(img *image.Alpha) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// Draw renders b over the current framebuffer and restores depth state.
func (r *Renderer) Draw(b *Batch) {
	solid, text := b.SolidVertices(), b.TextVertices()
	if len(solid) == 0 && len(text) == 0 {
		return
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	proj := math.Ortho(0, float32(r.width), float32(r.height), 0, -1, 1)

	if len(solid) > 0 {
		r.solid.Use()
		r.solid.SetMat4("uProjection", proj)
		stream(r.solidVAO, r.solidVBO, solid)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(solid)/solidStride))
	}

	if len(text) > 0 {
		r.text.Use()
		r.text.SetMat4("uProjection", proj)
		gl.Uniform1i(r.text.Uniform("uTexture"), 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.fontTex)
		stream(r.textVAO, r.textVBO, text)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(text)/textStride))
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
	gl.Enable(gl.DEPTH_TEST)
}

func stream(vao, vbo uint32, data []float32) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STREAM_DRAW)
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	gl.DeleteTextures(1, &r.fontTex)
	gl.DeleteBuffers(1, &r.solidVBO)
	gl.DeleteBuffers(1, &r.textVBO)
	gl.DeleteVertexArrays(1, &r.solidVAO)
	gl.DeleteVertexArrays(1, &r.textVAO)
	r.solid.Delete()
	r.text.Delete()
}
