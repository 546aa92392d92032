// Package render turns a scene into pixels: ray generation, hit resolution,
// shading and the parallel row renderer.
package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"slices"

	"github.com/taigrr/glint/pkg/scene"
)

// Framebuffer is the image buffer a render pass writes into.
// Pixels are row-major with the origin at the top left.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []scene.Color
}

// NewFramebuffer creates a black framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]scene.Color, width*height),
	}
}

// Fits reports whether the buffer already has the given dimensions.
func (fb *Framebuffer) Fits(width, height int) bool {
	return fb.Width == width && fb.Height == height && len(fb.Pixels) == width*height
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c scene.Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Out of bounds writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c scene.Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) scene.Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return scene.Black
	}
	return fb.Pixels[y*fb.Width+x]
}

// Row returns the pixels of row y. The slice aliases the buffer.
func (fb *Framebuffer) Row(y int) []scene.Color {
	return fb.Pixels[y*fb.Width : (y+1)*fb.Width]
}

// Rows hands out exclusive write access to rows [from, to). Spans taken
// from disjoint ranges never share memory, so workers can fill them
// concurrently without locking.
func (fb *Framebuffer) Rows(from, to int) RowSpan {
	if from < 0 || to > fb.Height || from > to {
		panic(fmt.Sprintf("render: row span [%d, %d) outside 0..%d", from, to, fb.Height))
	}
	return RowSpan{
		From:   from,
		To:     to,
		width:  fb.Width,
		pixels: fb.Pixels[from*fb.Width : to*fb.Width : to*fb.Width],
	}
}

// RowSpan is a writable window onto a contiguous range of framebuffer rows.
type RowSpan struct {
	From, To int

	width  int
	pixels []scene.Color
}

// Set writes a pixel. y is an absolute framebuffer row inside the span.
func (s RowSpan) Set(x, y int, c scene.Color) {
	s.pixels[(y-s.From)*s.width+x] = c
}

// Row returns the pixels of absolute row y.
func (s RowSpan) Row(y int) []scene.Color {
	off := (y - s.From) * s.width
	return s.pixels[off : off+s.width : off+s.width]
}

// Range returns the span's rows.
func (s RowSpan) Range() RowRange {
	return RowRange{From: s.From, To: s.To}
}

// Equal reports whether two framebuffers hold identical pixels.
func (fb *Framebuffer) Equal(other *Framebuffer) bool {
	if other == nil {
		return false
	}
	return fb.Width == other.Width && fb.Height == other.Height && slices.Equal(fb.Pixels, other.Pixels)
}

// Clone returns a deep copy.
func (fb *Framebuffer) Clone() *Framebuffer {
	return &Framebuffer{
		Width:  fb.Width,
		Height: fb.Height,
		Pixels: slices.Clone(fb.Pixels),
	}
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.Pixels[y*fb.Width+x]
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = 255
		}
	}
	return img
}

// FromImage copies an image into a new framebuffer.
func FromImage(img image.Image) *Framebuffer {
	b := img.Bounds()
	fb := NewFramebuffer(b.Dx(), b.Dy())
	for y := range fb.Height {
		for x := range fb.Width {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			fb.Pixels[y*fb.Width+x] = scene.RGB(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}
	return fb
}

// EncodePNG writes the framebuffer as PNG.
func (fb *Framebuffer) EncodePNG(w io.Writer) error {
	return png.Encode(w, fb.ToImage())
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fb.EncodePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
