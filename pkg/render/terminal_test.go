package render

import (
	"testing"

	"github.com/taigrr/glint/pkg/scene"
)

func TestDownscale(t *testing.T) {
	fb := NewFramebuffer(8, 6)
	fb.Clear(scene.RGB(200, 100, 50))

	small := fb.Downscale(4, 3)
	if small.Width != 4 || small.Height != 3 {
		t.Fatalf("size = %dx%d, want 4x3", small.Width, small.Height)
	}
	for i, c := range small.Pixels {
		if diff(c.R, 200) > 1 || diff(c.G, 100) > 1 || diff(c.B, 50) > 1 {
			t.Fatalf("pixel %d = %v, want ~(200, 100, 50)", i, c)
		}
	}
}

func TestDownscaleSameSize(t *testing.T) {
	fb := NewFramebuffer(3, 3)
	fb.SetPixel(1, 1, scene.White)

	same := fb.Downscale(3, 3)
	if same == fb || !same.Equal(fb) {
		t.Error("same-size Downscale should return an equal copy")
	}

	if empty := fb.Downscale(0, 5); len(empty.Pixels) != 0 {
		t.Errorf("zero-width Downscale has %d pixels", len(empty.Pixels))
	}
}

func TestPreviewRows(t *testing.T) {
	p := NewPreview(3, 2)

	if _, dirty := p.Snapshot(); dirty {
		t.Error("new preview is dirty")
	}

	row := []scene.Color{scene.Red, scene.Green, scene.Blue}
	p.RowDone(1, row)
	row[0] = scene.White

	snap, dirty := p.Snapshot()
	if !dirty {
		t.Error("preview not dirty after RowDone")
	}
	if got := snap.GetPixel(0, 1); got != scene.Red {
		t.Errorf("pixel (0, 1) = %v, want red (preview must copy rows)", got)
	}
	if _, dirty := p.Snapshot(); dirty {
		t.Error("preview still dirty after Snapshot")
	}

	p.RowDone(5, row)
	p.RowDone(0, row[:2])
	if _, dirty := p.Snapshot(); dirty {
		t.Error("invalid rows marked the preview dirty")
	}
}

func TestPreviewPublishResize(t *testing.T) {
	p := NewPreview(2, 2)
	fb := NewFramebuffer(2, 2)
	fb.Clear(scene.Magenta)

	p.Publish(fb)
	fb.Clear(scene.Black)
	snap, _ := p.Snapshot()
	if snap.GetPixel(1, 1) != scene.Magenta {
		t.Error("Publish did not copy the frame")
	}

	p.Resize(4, 1)
	snap, dirty := p.Snapshot()
	if !dirty || !snap.Fits(4, 1) {
		t.Errorf("after Resize: %dx%d dirty=%v", snap.Width, snap.Height, dirty)
	}
}

func TestRendererFeedsPreview(t *testing.T) {
	s := scene.NewSpheresScene(12, 9)
	p := NewPreview(12, 9)

	fb, err := NewRenderer(Options{Workers: 3, Observer: p}).Render(s, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	snap, _ := p.Snapshot()
	if !snap.Equal(fb) {
		t.Error("preview does not match the finished frame")
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
