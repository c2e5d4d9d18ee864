package ui2d

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph   = ' '
	lastGlyph    = '~'
	atlasColumns = 16
)

// Font is a fixed-width ASCII glyph atlas rasterized from basicfont.
type Font struct {
	atlas          *image.Alpha
	glyphW, glyphH int
}

// NewFont rasterizes printable ASCII into a grid atlas.
func NewFont() *Font {
	face := basicfont.Face7x13
	gw, gh := face.Advance, face.Height
	count := int(lastGlyph-firstGlyph) + 1
	rows := (count + atlasColumns - 1) / atlasColumns

	atlas := image.NewAlpha(image.Rect(0, 0, atlasColumns*gw, rows*gh))
	d := &font.Drawer{Dst: atlas, Src: image.Opaque, Face: face}
	for r := firstGlyph; r <= lastGlyph; r++ {
		i := int(r - firstGlyph)
		x, y := (i%atlasColumns)*gw, (i/atlasColumns)*gh
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(r))
	}
	return &Font{atlas: atlas, glyphW: gw, glyphH: gh}
}

// GlyphSize returns the cell size in pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.glyphW, f.glyphH
}

// Atlas returns the coverage bitmap.
func (f *Font) Atlas() *image.Alpha {
	return f.atlas
}

// GlyphUV returns the atlas rectangle for r. Runes outside printable ASCII
// map to '?'.
func (f *Font) GlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < firstGlyph || r > lastGlyph {
		r = '?'
	}
	i := int(r - firstGlyph)
	b := f.atlas.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	x, y := float32((i%atlasColumns)*f.glyphW), float32((i/atlasColumns)*f.glyphH)
	return x / w, y / h, (x + float32(f.glyphW)) / w, (y + float32(f.glyphH)) / h
}

// MeasureText returns the size of text drawn at scale.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	lines := strings.Split(text, "\n")
	widest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > widest {
			widest = n
		}
	}
	return float32(widest*f.glyphW) * scale, float32(len(lines)*f.glyphH) * scale
}
