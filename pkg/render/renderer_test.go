package render

import (
	"errors"
	"sync"
	"testing"

	"github.com/taigrr/glint/pkg/scene"
)

func TestPartitionRows(t *testing.T) {
	for _, height := range []int{1, 7, 600, 1080} {
		for _, workers := range []int{1, 2, 4, 8, 16} {
			ranges := PartitionRows(height, workers)
			if len(ranges) != workers {
				t.Fatalf("PartitionRows(%d, %d): got %d ranges", height, workers, len(ranges))
			}

			next := 0
			for i, r := range ranges {
				if r.From != next {
					t.Errorf("PartitionRows(%d, %d)[%d] starts at %d, want %d", height, workers, i, r.From, next)
				}
				if r.Len() < 0 {
					t.Errorf("PartitionRows(%d, %d)[%d] has negative length", height, workers, i)
				}
				next = r.To
			}
			if next != height {
				t.Errorf("PartitionRows(%d, %d) covers %d rows, want %d", height, workers, next, height)
			}
		}
	}
}

func TestPartitionRowsRemainder(t *testing.T) {
	ranges := PartitionRows(10, 4)
	want := []RowRange{{0, 2}, {2, 4}, {4, 6}, {6, 10}}
	for i := range want {
		if ranges[i] != want[i] {
			t.Errorf("range %d = %v, want %v", i, ranges[i], want[i])
		}
	}
}

func TestPartitionRowsMoreWorkersThanRows(t *testing.T) {
	ranges := PartitionRows(3, 8)
	for i, r := range ranges[:7] {
		if r.Len() != 0 {
			t.Errorf("range %d = %v, want empty", i, r)
		}
	}
	if last := ranges[7]; last.From != 0 || last.To != 3 {
		t.Errorf("last range = %v, want [0, 3)", last)
	}
}

func TestPartitionRowsZeroWorkers(t *testing.T) {
	ranges := PartitionRows(5, 0)
	if len(ranges) != 1 || ranges[0] != (RowRange{0, 5}) {
		t.Errorf("PartitionRows(5, 0) = %v, want [{0 5}]", ranges)
	}
}

func TestRenderDeterministic(t *testing.T) {
	s := scene.NewSpheresScene(64, 48)

	a, err := NewRenderer(Options{Workers: 4}).Render(s, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := NewRenderer(Options{Workers: 4}).Render(s, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !a.Equal(b) {
		t.Error("two renders of the same scene differ")
	}
}

func TestRenderWorkerCountIndependent(t *testing.T) {
	s := scene.NewShadowScene(40, 30)

	want, err := NewRenderer(Options{Workers: 1}).Render(s, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, workers := range []int{2, 3, 7, 16, 64} {
		got, err := NewRenderer(Options{Workers: workers}).Render(s, nil)
		if err != nil {
			t.Fatalf("Render with %d workers: %v", workers, err)
		}
		if !got.Equal(want) {
			t.Errorf("render with %d workers differs from single worker", workers)
		}
	}
}

func TestRenderMatchesPixelColor(t *testing.T) {
	s := scene.NewSpheresScene(16, 12)
	fb, err := NewRenderer(Options{Workers: 3}).Render(s, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for y := range s.Height {
		for x := range s.Width {
			want := PixelColor(CreateRay(x, y, s, s.Camera), s)
			if got := fb.GetPixel(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRenderEmptyScene(t *testing.T) {
	s := scene.New(8, 6)
	fb, err := NewRenderer(Options{Workers: 2}).Render(s, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i, c := range fb.Pixels {
		if c != scene.Background {
			t.Fatalf("pixel %d = %v, want background", i, c)
		}
	}
}

func TestRenderReusesBuffer(t *testing.T) {
	s := scene.NewSpheresScene(20, 10)
	r := NewRenderer(Options{Workers: 2})

	prev := NewFramebuffer(20, 10)
	fb, err := r.Render(s, prev)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if fb != prev {
		t.Error("matching buffer was not reused")
	}

	small := NewFramebuffer(5, 5)
	fb, err = r.Render(s, small)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if fb == small || !fb.Fits(20, 10) {
		t.Errorf("mismatched buffer: got %dx%d, reused=%v", fb.Width, fb.Height, fb == small)
	}
}

func TestRenderObserverSeesEveryRow(t *testing.T) {
	s := scene.NewSpheresScene(24, 17)

	var mu sync.Mutex
	seen := make([]int, s.Height)
	obs := RowObserverFunc(func(y int, row []scene.Color) {
		mu.Lock()
		defer mu.Unlock()
		if len(row) != s.Width {
			t.Errorf("row %d has %d pixels, want %d", y, len(row), s.Width)
		}
		seen[y]++
	})

	if _, err := NewRenderer(Options{Workers: 5, Observer: obs}).Render(s, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for y, n := range seen {
		if n != 1 {
			t.Errorf("row %d observed %d times, want 1", y, n)
		}
	}
}

func TestRenderWorkerPanic(t *testing.T) {
	s := scene.NewSpheresScene(16, 16)
	obs := RowObserverFunc(func(y int, _ []scene.Color) {
		if y == 10 {
			panic("boom")
		}
	})
	r := NewRenderer(Options{Workers: 4, Observer: obs})

	fb, err := r.Render(s, nil)
	if fb != nil {
		t.Error("failed pass returned a framebuffer")
	}

	var we *WorkerError
	if !errors.As(err, &we) {
		t.Fatalf("err = %v, want *WorkerError", err)
	}
	if we.Value != "boom" {
		t.Errorf("WorkerError.Value = %v, want boom", we.Value)
	}
	if we.Rows.From > 10 || we.Rows.To <= 10 {
		t.Errorf("WorkerError.Rows = %v, want a range containing row 10", we.Rows)
	}
	if r.State() != StateIdle {
		t.Errorf("state after failed pass = %v, want idle", r.State())
	}
}

func TestRenderInvalidScene(t *testing.T) {
	_, err := NewRenderer(Options{}).Render(scene.New(0, 10), nil)
	if !errors.Is(err, scene.ErrInvalidDimensions) {
		t.Errorf("err = %v, want ErrInvalidDimensions", err)
	}
}

func TestRendererState(t *testing.T) {
	s := scene.NewSpheresScene(8, 8)

	var (
		mu     sync.Mutex
		states []State
	)
	var r *Renderer
	r = NewRenderer(Options{Workers: 2, Observer: RowObserverFunc(func(int, []scene.Color) {
		mu.Lock()
		states = append(states, r.State())
		mu.Unlock()
	})})

	if r.State() != StateIdle {
		t.Fatalf("initial state = %v, want idle", r.State())
	}
	if _, err := r.Render(s, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if r.State() != StateIdle {
		t.Errorf("state after pass = %v, want idle", r.State())
	}
	for _, st := range states {
		if st != StateWorkersRunning {
			t.Errorf("observer saw state %v, want workers-running", st)
		}
	}

	stats := r.LastStats()
	if stats.Workers != 2 || stats.Pixels != 64 {
		t.Errorf("LastStats = %+v", stats)
	}
}

func TestWorkersDefault(t *testing.T) {
	if n := NewRenderer(Options{}).Workers(); n < 1 {
		t.Errorf("Workers() = %d, want >= 1", n)
	}
	if n := NewRenderer(Options{Workers: 3}).Workers(); n != 3 {
		t.Errorf("Workers() = %d, want 3", n)
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateIdle:           "idle",
		StateDispatching:    "dispatching",
		StateWorkersRunning: "workers-running",
		StateJoined:         "joined",
		State(42):           "state(42)",
	}
	for st, want := range tests {
		if got := st.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int32(st), got, want)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	s := scene.NewSpheresScene(320, 240)
	r := NewRenderer(Options{})
	fb := NewFramebuffer(320, 240)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var err error
		if fb, err = r.Render(s, fb); err != nil {
			b.Fatal(err)
		}
	}
}
