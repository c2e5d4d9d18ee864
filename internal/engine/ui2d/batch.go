// Package ui2d draws a screen-space overlay of panels and text on top of the
// 3D scene.
package ui2d

const (
	solidStride = 7 // x, y, z, r, g, b, a
	textStride  = 9 // x, y, z, u, v, r, g, b, a
)

// Batch collects quads for one overlay frame. Coordinates are pixels with
// the origin at the top left.
type Batch struct {
	font  *Font
	solid []float32
	text  []float32
}

// NewBatch creates a batch that lays out text with f.
func NewBatch(f *Font) *Batch {
	return &Batch{
		font:  f,
		solid: make([]float32, 0, 1024),
		text:  make([]float32, 0, 4096),
	}
}

// Reset clears queued quads, keeping capacity.
func (b *Batch) Reset() {
	b.solid = b.solid[:0]
	b.text = b.text[:0]
}

// Font returns the batch's font.
func (b *Batch) Font() *Font { return b.font }

// SolidVertices returns the queued solid vertex data.
func (b *Batch) SolidVertices() []float32 { return b.solid }

// TextVertices returns the queued glyph vertex data.
func (b *Batch) TextVertices() []float32 { return b.text }

// Rect queues a filled rectangle.
func (b *Batch) Rect(x, y, w, h float32, c Color) {
	b.solid = append(b.solid,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,
		x, y, 0, c.R, c.G, c.B, c.A,
		x+w, y+h, 0, c.R, c.G, c.B, c.A,
		x, y+h, 0, c.R, c.G, c.B, c.A,
	)
}

// Outline queues the four edges of a rectangle.
func (b *Batch) Outline(x, y, w, h, thickness float32, c Color) {
	b.Rect(x, y, w, thickness, c)
	b.Rect(x, y+h-thickness, w, thickness, c)
	b.Rect(x, y+thickness, thickness, h-thickness*2, c)
	b.Rect(x+w-thickness, y+thickness, thickness, h-thickness*2, c)
}

// Panel queues a filled rectangle with a one pixel border.
func (b *Batch) Panel(x, y, w, h float32, bg, border Color) {
	b.Rect(x, y, w, h, bg)
	b.Outline(x, y, w, h, 1, border)
}

// Text queues one glyph quad per rune. Newlines return to x.
func (b *Batch) Text(x, y float32, s string, scale float32, c Color) {
	gw, gh := b.font.GlyphSize()
	cw, ch := float32(gw)*scale, float32(gh)*scale

	cx := x
	for _, r := range s {
		if r == '\n' {
			cx = x
			y += ch
			continue
		}
		if r != ' ' {
			u0, v0, u1, v1 := b.font.GlyphUV(r)
			b.text = append(b.text,
				cx, y, 0, u0, v0, c.R, c.G, c.B, c.A,
				cx+cw, y, 0, u1, v0, c.R, c.G, c.B, c.A,
				cx+cw, y+ch, 0, u1, v1, c.R, c.G, c.B, c.A,
				cx, y, 0, u0, v0, c.R, c.G, c.B, c.A,
				cx+cw, y+ch, 0, u1, v1, c.R, c.G, c.B, c.A,
				cx, y+ch, 0, u0, v1, c.R, c.G, c.B, c.A,
			)
		}
		cx += cw
	}
}
