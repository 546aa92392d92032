package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/taigrr/glint/pkg/scene"
)

func TestFramebufferPixels(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.SetPixel(1, 2, scene.Red)
	fb.SetPixel(-1, 0, scene.Blue)
	fb.SetPixel(4, 0, scene.Blue)

	if got := fb.GetPixel(1, 2); got != scene.Red {
		t.Errorf("GetPixel(1, 2) = %v, want red", got)
	}
	if got := fb.GetPixel(10, 10); got != scene.Black {
		t.Errorf("out of bounds GetPixel = %v, want black", got)
	}
	for i, c := range fb.Pixels {
		if c == scene.Blue {
			t.Errorf("out of bounds write landed at %d", i)
		}
	}

	fb.Clear(scene.Green)
	for _, c := range fb.Row(1) {
		if c != scene.Green {
			t.Fatalf("Clear left %v", c)
		}
	}
}

func TestFramebufferRowsDisjoint(t *testing.T) {
	fb := NewFramebuffer(8, 10)
	ranges := PartitionRows(fb.Height, 3)

	var wg sync.WaitGroup
	for i, rr := range ranges {
		span := fb.Rows(rr.From, rr.To)
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := scene.RGB(uint8(i+1), 0, 0)
			for y := span.From; y < span.To; y++ {
				for x := range fb.Width {
					span.Set(x, y, c)
				}
			}
		}()
	}
	wg.Wait()

	for i, rr := range ranges {
		for y := rr.From; y < rr.To; y++ {
			for x := range fb.Width {
				if got := fb.GetPixel(x, y).R; got != uint8(i+1) {
					t.Fatalf("pixel (%d, %d) written by %d, want %d", x, y, got-1, i)
				}
			}
		}
	}
}

func TestFramebufferRowsCannotGrow(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	span := fb.Rows(0, 2)
	row := span.Row(1)
	if cap(row) != 2 {
		t.Errorf("row capacity = %d, want 2", cap(row))
	}
	_ = append(row, scene.White)
	if fb.GetPixel(0, 2) != scene.Black {
		t.Error("appending to a span row leaked into the next row")
	}
}

func TestFramebufferRowsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Rows past the end did not panic")
		}
	}()
	NewFramebuffer(2, 2).Rows(1, 3)
}

func TestFramebufferCloneEqual(t *testing.T) {
	fb := NewFramebuffer(3, 3)
	fb.Clear(scene.Cyan)
	clone := fb.Clone()

	if !fb.Equal(clone) {
		t.Fatal("clone differs from original")
	}
	clone.SetPixel(0, 0, scene.Black)
	if fb.Equal(clone) {
		t.Error("modifying the clone changed the original")
	}
	if fb.Equal(nil) {
		t.Error("Equal(nil) = true")
	}
}

func TestFramebufferImageRoundTrip(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.SetPixel(0, 0, scene.RGB(1, 2, 3))
	fb.SetPixel(2, 1, scene.RGB(250, 128, 7))

	back := FromImage(fb.ToImage())
	if !fb.Equal(back) {
		t.Errorf("round trip through image.RGBA changed pixels")
	}
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(5, 4)
	fb.Clear(scene.Background)
	fb.SetPixel(4, 3, scene.Yellow)

	path := filepath.Join(t.TempDir(), "result0.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !FromImage(img).Equal(fb) {
		t.Error("decoded PNG differs from framebuffer")
	}
}

func TestFramebufferSavePNGBadPath(t *testing.T) {
	fb := NewFramebuffer(1, 1)
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "missing", "out.png")); err == nil {
		t.Error("SavePNG into a missing directory succeeded")
	}
}
