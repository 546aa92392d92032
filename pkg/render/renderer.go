package render

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/glint/pkg/log"
	"github.com/taigrr/glint/pkg/scene"
)

// State is the lifecycle stage of a render pass.
type State int32

const (
	StateIdle State = iota
	StateDispatching
	StateWorkersRunning
	StateJoined
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateWorkersRunning:
		return "workers-running"
	case StateJoined:
		return "joined"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// RowRange is the half-open row interval [From, To).
type RowRange struct {
	From, To int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int {
	return r.To - r.From
}

// PartitionRows splits [0, height) into workers contiguous, disjoint ranges
// of height/workers rows each. The last range absorbs the remainder, so
// earlier ranges may be empty when height < workers.
func PartitionRows(height, workers int) []RowRange {
	workers = max(workers, 1)
	step := height / workers

	ranges := make([]RowRange, workers)
	for i := range workers - 1 {
		ranges[i] = RowRange{From: i * step, To: i*step + step}
	}
	ranges[workers-1] = RowRange{From: (workers - 1) * step, To: height}
	return ranges
}

// RowObserver is notified each time a worker finishes a row, while the pass
// is still running. It is called from worker goroutines, one call at a time.
// row is only valid for the duration of the call.
type RowObserver interface {
	RowDone(y int, row []scene.Color)
}

// RowObserverFunc adapts a function to RowObserver.
type RowObserverFunc func(y int, row []scene.Color)

// RowDone calls f.
func (f RowObserverFunc) RowDone(y int, row []scene.Color) { f(y, row) }

// WorkerError reports a worker that failed. The pass it belonged to is
// abandoned and its buffer discarded.
type WorkerError struct {
	Worker int
	Rows   RowRange
	Value  any
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("render worker %d (rows %d-%d) failed: %v", e.Worker, e.Rows.From, e.Rows.To, e.Value)
}

// Options configures a Renderer.
type Options struct {
	// Workers is the number of goroutines per pass. Zero means one per CPU.
	Workers int
	// Observer, if set, sees every row as soon as it is shaded.
	Observer RowObserver
}

// Stats describes the last completed pass.
type Stats struct {
	Workers  int
	Pixels   int
	Duration time.Duration
}

// Renderer runs render passes. Passes are serialized: a call to Render does
// not start until the previous pass has joined.
type Renderer struct {
	opts Options
	log  log.Logger

	pass      sync.Mutex
	observeMu sync.Mutex
	state     atomic.Int32
	last      Stats
}

// NewRenderer creates a renderer.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		opts: opts,
		log:  log.New("render"),
	}
}

// Workers returns the number of workers a pass will use.
func (r *Renderer) Workers() int {
	if r.opts.Workers > 0 {
		return r.opts.Workers
	}
	return max(runtime.NumCPU(), 1)
}

// State returns the current lifecycle stage.
func (r *Renderer) State() State {
	return State(r.state.Load())
}

// LastStats returns statistics for the most recent successful pass.
func (r *Renderer) LastStats() Stats {
	r.pass.Lock()
	defer r.pass.Unlock()
	return r.last
}

// Render draws s into a framebuffer and blocks until every worker has
// finished. prev is reused when its dimensions match the scene, otherwise a
// new buffer is allocated. If any worker fails the pass returns an error and
// no framebuffer; prev's contents are then undefined.
//
// s must not be modified until Render returns.
func (r *Renderer) Render(s *scene.Scene, prev *Framebuffer) (*Framebuffer, error) {
	r.pass.Lock()
	defer r.pass.Unlock()

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	r.setState(StateDispatching)
	defer r.setState(StateIdle)

	fb := prev
	if fb == nil || !fb.Fits(s.Width, s.Height) {
		fb = NewFramebuffer(s.Width, s.Height)
	}

	workers := r.Workers()
	ranges := PartitionRows(s.Height, workers)
	start := time.Now()
	r.log.Debugf("pass %dx%d: %d primitives, %d lights, %d workers",
		s.Width, s.Height, len(s.Primitives), s.LightCount(), workers)

	var g errgroup.Group
	r.setState(StateWorkersRunning)
	for i, rr := range ranges {
		if rr.Len() == 0 {
			continue
		}
		span := fb.Rows(rr.From, rr.To)
		g.Go(func() error {
			return r.renderSpan(i, s, span)
		})
	}
	err := g.Wait()
	r.setState(StateJoined)

	if err != nil {
		r.log.Errorf("pass aborted: %v", err)
		return nil, err
	}

	r.last = Stats{
		Workers:  workers,
		Pixels:   s.Width * s.Height,
		Duration: time.Since(start),
	}
	r.log.Debugf("pass done in %v", r.last.Duration)
	return fb, nil
}

// renderSpan shades every pixel in span. A panic anywhere in the pixel loop
// is turned into a WorkerError so the whole pass fails.
func (r *Renderer) renderSpan(worker int, s *scene.Scene, span RowSpan) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &WorkerError{Worker: worker, Rows: span.Range(), Value: v}
		}
	}()

	for y := span.From; y < span.To; y++ {
		for x := range s.Width {
			ray := CreateRay(x, y, s, s.Camera)
			span.Set(x, y, PixelColor(ray, s))
		}
		if r.opts.Observer != nil {
			r.notify(y, span.Row(y))
		}
	}
	return nil
}

func (r *Renderer) notify(y int, row []scene.Color) {
	r.observeMu.Lock()
	defer r.observeMu.Unlock()
	r.opts.Observer.RowDone(y, row)
}

func (r *Renderer) setState(s State) {
	r.state.Store(int32(s))
}
