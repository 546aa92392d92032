package render

import (
	"image/color"
	"sync"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/nfnt/resize"

	"github.com/taigrr/glint/pkg/scene"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each terminal row shows two framebuffer rows using the upper half
// block with fg=top color and bg=bottom color, so the framebuffer height
// should be 2x the area height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: toTermColor(fb, x, topY),
					Bg: toTermColor(fb, x, botY),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// toTermColor returns nil (terminal default) for rows outside the buffer.
func toTermColor(fb *Framebuffer, x, y int) color.Color {
	if y >= fb.Height {
		return nil
	}
	return fb.GetPixel(x, y)
}

// Downscale returns a copy of the framebuffer resized to width x height
// with bilinear filtering. It returns a clone when the size already matches.
func (fb *Framebuffer) Downscale(width, height int) *Framebuffer {
	if fb.Fits(width, height) {
		return fb.Clone()
	}
	if width <= 0 || height <= 0 {
		return NewFramebuffer(0, 0)
	}
	img := resize.Resize(uint(width), uint(height), fb.ToImage(), resize.Bilinear)
	return FromImage(img)
}

// Preview mirrors rows into a display buffer while a pass is running. It
// implements RowObserver; readers take Snapshot, which holds the same mutex,
// and must not treat the result as a consistent frame until the pass that
// fed it has joined and Publish has been called.
type Preview struct {
	mu    sync.Mutex
	fb    *Framebuffer
	dirty bool
}

// NewPreview creates a preview buffer.
func NewPreview(width, height int) *Preview {
	return &Preview{fb: NewFramebuffer(width, height)}
}

// RowDone copies a finished row into the preview buffer.
func (p *Preview) RowDone(y int, row []scene.Color) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if y < 0 || y >= p.fb.Height || len(row) != p.fb.Width {
		return
	}
	copy(p.fb.Row(y), row)
	p.dirty = true
}

// Publish replaces the preview with a completed frame.
func (p *Preview) Publish(fb *Framebuffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fb = fb.Clone()
	p.dirty = true
}

// Resize discards the preview contents and changes its size.
func (p *Preview) Resize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fb = NewFramebuffer(width, height)
	p.dirty = true
}

// Snapshot returns a copy of the preview and whether it changed since the
// last snapshot.
func (p *Preview) Snapshot() (*Framebuffer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	dirty := p.dirty
	p.dirty = false
	return p.fb.Clone(), dirty
}

// Fits reports whether the preview has the given size.
func (p *Preview) Fits(width, height int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fb.Fits(width, height)
}
