package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/glint/pkg/anim"
	"github.com/taigrr/glint/pkg/math3d"
	"github.com/taigrr/glint/pkg/render"
	"github.com/taigrr/glint/pkg/scene"
)

const (
	moveStep  = 0.25
	dollyPush = 0.05
)

func newPreviewCmd(cfg *config) *cobra.Command {
	var fps, scale int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render interactively in the terminal",
		Long: `preview renders the scene at terminal resolution (two pixels per cell)
and redraws rows as workers finish them. With --scale N it renders N times
larger, shows finished frames downscaled, and skips the per-row redraw.

Controls:
  Click       pick the object under the cursor
  Arrows      move the picked object
  PgUp/PgDn   move the picked object along z
  +/-         dolly the camera
  ?           toggle the HUD
  Esc         quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, cfg, fps, scale)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "display refresh rate")
	cmd.Flags().IntVar(&scale, "scale", 1, "render at this multiple of terminal resolution and downscale")
	return cmd
}

// action is a scene change requested by input. Actions are queued by the
// event goroutine and applied by the main loop between passes.
type action func(v *previewState)

// previewState is owned by the main loop.
type previewState struct {
	scene   *scene.Scene
	camera  *render.Camera
	drift   *anim.CameraDrift
	glide   *anim.Glide
	picked  scene.Primitive
	fps     int
	scale   int // rendered pixels per displayed pixel, per axis
	showHUD bool
	changed bool // needs a new pass
	erase   bool // overlay or size changed, repaint every cell
}

func newPreviewState(s *scene.Scene, fps, scale int) *previewState {
	return &previewState{
		scene:   s,
		camera:  render.NewCamera(s.Camera),
		drift:   anim.NewCameraDrift(fps, s.Camera.Z),
		fps:     fps,
		scale:   scale,
		changed: true,
	}
}

// displaySize is the size of the frame shown in the terminal.
func (v *previewState) displaySize() (int, int) {
	return v.scene.Width / v.scale, v.scene.Height / v.scale
}

// pick selects the object under terminal cell (x, y).
func (v *previewState) pick(x, y int) {
	// cells are one pixel wide and two pixels tall
	p, ok := v.camera.Pick(x*v.scale, y*2*v.scale, v.scene)
	if !ok {
		v.picked = nil
		return
	}
	v.picked = p
}

// movePicked sends the picked object delta further along its glide.
func (v *previewState) movePicked(delta math3d.Vec3) {
	if v.picked == nil {
		return
	}
	if v.glide == nil || v.glide.Object != v.picked {
		v.glide = anim.NewGlide(v.fps, v.picked, scene.Position(v.picked).Add(delta))
	} else {
		v.glide.Retarget(v.glide.Target().Add(delta))
	}
	v.changed = true
}

func (v *previewState) resize(width, height int) {
	v.scene.Width, v.scene.Height = width*v.scale, height*2*v.scale
	v.changed = true
}

// step advances camera drift and any glide by one frame.
func (v *previewState) step() {
	if v.drift.Moving() {
		v.drift.Step(v.scene)
		v.camera.SetPosition(v.scene.Camera)
		v.changed = true
	}
	if v.glide != nil {
		v.glide.Step(v.scene)
		v.changed = true
		if v.glide.Done() {
			v.glide = nil
		}
	}
}

// present returns the frame to show for a finished pass.
func (v *previewState) present(fb *render.Framebuffer) *render.Framebuffer {
	if v.scale == 1 {
		return fb
	}
	w, h := v.displaySize()
	return fb.Downscale(w, h)
}

type passResult struct {
	fb  *render.Framebuffer
	err error
}

func runPreview(cmd *cobra.Command, cfg *config, fps, scale int) error {
	if fps < 1 {
		return fmt.Errorf("--fps must be at least 1, got %d", fps)
	}
	if scale < 1 {
		return fmt.Errorf("--scale must be at least 1, got %d", scale)
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	s, err := cfg.loadScene(cmd, width*scale, height*2*scale)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// SGR mouse reporting for click events
	fmt.Fprint(os.Stdout, "\x1b[?1000h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1000l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	state := newPreviewState(s, fps, scale)
	preview := render.NewPreview(state.displaySize())

	// rows only line up with the display at scale 1
	var observer render.RowObserver
	if scale == 1 {
		observer = preview
	}
	renderer := cfg.renderer(observer)
	hud := newHUD(cfg.Scene)

	actions := make(chan action, 64)
	go readEvents(ctx, term, actions, cancel)

	passes := make(chan passResult, 1)
	var (
		prev     *render.Framebuffer
		inFlight bool
		pending  []action
	)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if inFlight {
				<-passes
			}
			return nil

		case a := <-actions:
			pending = append(pending, a)

		case res := <-passes:
			inFlight = false
			if res.err != nil {
				logger.Errorf("render: %v", res.err)
				continue
			}
			prev = res.fb
			preview.Publish(state.present(res.fb))
			hud.passDone(renderer.LastStats())

		case <-ticker.C:
			// the scene is only touched while no pass is running
			if !inFlight {
				for _, a := range pending {
					a(state)
				}
				pending = pending[:0]
				state.step()

				if dw, dh := state.displaySize(); !preview.Fits(dw, dh) {
					preview.Resize(dw, dh)
					prev = nil
					state.erase = true
				}
				if state.changed {
					state.changed = false
					inFlight = true
					go func(s *scene.Scene, fb *render.Framebuffer) {
						fb, err := renderer.Render(s, fb)
						passes <- passResult{fb: fb, err: err}
					}(state.scene, prev)
				}
			}

			fb, dirty := preview.Snapshot()
			if !dirty && !state.erase {
				continue
			}
			if state.erase {
				term.Erase()
				state.erase = false
			}
			w, h := fb.Width, (fb.Height+1)/2
			fb.Draw(term, uv.Rect(0, 0, w, h))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
			hud.draw(w, h, state)
		}
	}
}

// readEvents turns terminal input into actions until ctx is done.
func readEvents(ctx context.Context, term *uv.Terminal, actions chan<- action, quit context.CancelFunc) {
	send := func(a action) {
		select {
		case actions <- a:
		case <-ctx.Done():
		}
	}

	for ev := range term.Events() {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			w, h := ev.Width, ev.Height
			term.Resize(w, h)
			send(func(v *previewState) { v.resize(w, h) })

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape", "ctrl+c"):
				quit()
				return
			case ev.MatchString("up"):
				send(func(v *previewState) { v.movePicked(math3d.V3(0, moveStep, 0)) })
			case ev.MatchString("down"):
				send(func(v *previewState) { v.movePicked(math3d.V3(0, -moveStep, 0)) })
			case ev.MatchString("left"):
				send(func(v *previewState) { v.movePicked(math3d.V3(-moveStep, 0, 0)) })
			case ev.MatchString("right"):
				send(func(v *previewState) { v.movePicked(math3d.V3(moveStep, 0, 0)) })
			case ev.MatchString("pgup"):
				send(func(v *previewState) { v.movePicked(math3d.V3(0, 0, -moveStep)) })
			case ev.MatchString("pgdown"):
				send(func(v *previewState) { v.movePicked(math3d.V3(0, 0, moveStep)) })
			case ev.MatchString("+", "="):
				send(func(v *previewState) { v.drift.Push(-dollyPush) })
			case ev.MatchString("-", "_"):
				send(func(v *previewState) { v.drift.Push(dollyPush) })
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				send(func(v *previewState) { v.showHUD = !v.showHUD; v.erase = true })
			}

		case uv.MouseClickEvent:
			x, y := ev.X, ev.Y
			send(func(v *previewState) { v.pick(x, y) })
		}

		if ctx.Err() != nil {
			return
		}
	}
}

// hud draws an overlay with scene info on the top and bottom rows.
type hud struct {
	name  string
	stats render.Stats

	title lipgloss.Style
	info  lipgloss.Style
	hint  lipgloss.Style
}

func newHUD(name string) *hud {
	bg := lipgloss.Color("#101010")
	return &hud{
		name:  name,
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(bg).Padding(0, 1),
		info:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD787")).Background(bg).Padding(0, 1),
		hint:  lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#FFD75F")).Background(bg).Padding(0, 1),
	}
}

func (h *hud) passDone(stats render.Stats) {
	h.stats = stats
}

func (h *hud) draw(width, height int, v *previewState) {
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}
	if !v.showHUD {
		return
	}

	fmt.Print(moveTo(1, 1) + h.title.Render(h.name))

	pass := h.info.Render(fmt.Sprintf("%v  %d workers", h.stats.Duration.Round(time.Millisecond), h.stats.Workers))
	fmt.Print(moveTo(1, max(width-lipgloss.Width(pass)+1, 1)) + pass)

	picked := "click to pick"
	if v.picked != nil {
		p := scene.Position(v.picked)
		picked = fmt.Sprintf("%s at (%.2f, %.2f, %.2f)", v.picked.Label(), p.X, p.Y, p.Z)
	}
	fmt.Print(moveTo(height, 1) + h.hint.Render(picked))

	cam := h.info.Render(fmt.Sprintf("camera z %.2f", v.scene.Camera.Z))
	fmt.Print(moveTo(height, max(width-lipgloss.Width(cam)+1, 1)) + cam)
}
