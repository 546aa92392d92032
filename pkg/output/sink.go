// Package output writes rendered frames to their destinations.
package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// FrameName is the file name of frame n.
func FrameName(n int) string {
	return fmt.Sprintf("result%d.png", n)
}

// Sink receives finished frames.
type Sink interface {
	WriteFrame(ctx context.Context, n int, img image.Image) error
}

// encodePNG returns img as PNG bytes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DirSink writes frames as PNG files into a directory.
type DirSink struct {
	Dir string
}

// NewDirSink creates the directory if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &DirSink{Dir: dir}, nil
}

// Path returns where frame n is written.
func (d *DirSink) Path(n int) string {
	return filepath.Join(d.Dir, FrameName(n))
}

// WriteFrame writes frame n.
func (d *DirSink) WriteFrame(ctx context.Context, n int, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(d.Path(n), data, 0o644); err != nil {
		return fmt.Errorf("write frame %d: %w", n, err)
	}
	return nil
}

// MultiSink writes every frame to all of its sinks. A failing sink does not
// stop the others; the errors are joined.
type MultiSink []Sink

// WriteFrame writes frame n to each sink in order.
func (m MultiSink) WriteFrame(ctx context.Context, n int, img image.Image) error {
	var errs []error
	for _, s := range m {
		if err := s.WriteFrame(ctx, n, img); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
