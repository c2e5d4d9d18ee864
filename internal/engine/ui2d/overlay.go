package ui2d

// Line is one row of the status overlay.
type Line struct {
	Text  string
	Color Color
}

// Overlay lays out a status panel in the top left corner.
type Overlay struct {
	X, Y    float32
	Padding float32
	Scale   float32
}

// DefaultOverlay returns the panel layout used by the viewer.
func DefaultOverlay() Overlay {
	return Overlay{X: 10, Y: 10, Padding: 8, Scale: 1.5}
}

// Layout queues the panel and its lines into b and returns the panel size.
func (o Overlay) Layout(b *Batch, lines []Line) (w, h float32) {
	if len(lines) == 0 {
		return 0, 0
	}
	_, gh := b.Font().GlyphSize()
	lineH := float32(gh) * o.Scale

	for _, l := range lines {
		if lw, _ := b.Font().MeasureText(l.Text, o.Scale); lw > w {
			w = lw
		}
	}
	w += o.Padding * 2
	h = lineH*float32(len(lines)) + o.Padding*2

	b.Panel(o.X, o.Y, w, h, ColorPanelBg, ColorPanelBorder)
	y := o.Y + o.Padding
	for _, l := range lines {
		c := l.Color
		if c == (Color{}) {
			c = ColorText
		}
		b.Text(o.X+o.Padding, y, l.Text, o.Scale, c)
		y += lineH
	}
	return w, h
}
