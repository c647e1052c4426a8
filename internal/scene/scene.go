// Package scene hosts the effects in an Ebiten window: particles behind a
// fuzzy heading with a scramble-revealed caption underneath.
package scene

import (
	"context"
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/portfolio-fx/internal/config"
	"github.com/Garsondee/portfolio-fx/internal/fuzzy"
	"github.com/Garsondee/portfolio-fx/internal/loop"
	"github.com/Garsondee/portfolio-fx/internal/particles"
	"github.com/Garsondee/portfolio-fx/internal/pointer"
	"github.com/Garsondee/portfolio-fx/internal/scramble"
)

const (
	headingPad  = 48 // room around the heading for the distortion
	captionSize = 22
	captionGap  = 36
)

// speeds are the steps cycled by , and . (0 = paused).
var speeds = []float64{0, 0.25, 0.5, 1, 2, 4}

// slower returns the next step below s.
func slower(s float64) float64 {
	for i := len(speeds) - 1; i > 0; i-- {
		if speeds[i] <= s {
			return speeds[i-1]
		}
	}
	return speeds[0]
}

// faster returns the next step above s.
func faster(s float64) float64 {
	for _, v := range speeds {
		if v > s {
			return v
		}
	}
	return speeds[len(speeds)-1]
}

// togglePause flips between paused and running. Pausing saves the current
// speed; resuming restores the saved one, or 1x if none was kept.
func togglePause(speed, saved float64) (next, keep float64) {
	if speed > 0 {
		return 0, speed
	}
	if saved <= 0 {
		saved = 1
	}
	return saved, saved
}

// frameDelta is the loop time covered by one Update at tps and speed.
func frameDelta(tps int, speed float64) time.Duration {
	if tps <= 0 || speed <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) * speed / float64(tps))
}

// cursorState converts a cursor position to a pointer sample. Outside the
// w×h window, or while unfocused, the pointer is absent.
func cursorState(x, y, w, h int, focused bool) pointer.State {
	if !focused || x < 0 || y < 0 || x >= w || y >= h {
		return pointer.Absent
	}
	return pointer.At(float64(x), float64(y))
}

// Scene implements ebiten.Game.
type Scene struct {
	ctx    context.Context
	cfg    config.Config
	logger *log.Logger
	loop   *loop.Loop

	width  int
	height int

	faces   *faces
	caption *text.GoTextFace

	background *ImageSurface // particle field
	heading    *ImageSurface // fuzzy text, blitted centred
	cursor     pointer.Tracker
	headCursor pointer.SourceFunc

	particles *particles.Instance
	fuzzy     *fuzzy.Instance
	reveal    *scramble.Reveal
	revealed  string

	events   *EventLog
	tick     int
	speed    float64
	resume   float64
	showHUD  bool
	hovering bool
	prevKeys map[ebiten.Key]bool
}

// New builds a scene and mounts every effect on its own loop.
func New(ctx context.Context, cfg config.Config, logger *log.Logger) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src, err := monoFaceSource()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	s := &Scene{
		ctx:      ctx,
		cfg:      cfg,
		logger:   logger,
		loop:     loop.New(logger),
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
		faces:    newFaces(src),
		events:   NewEventLog(),
		speed:    cfg.Window.Speed,
		resume:   cfg.Window.Speed,
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
	}
	s.caption = s.faces.at(captionSize)

	s.background = NewImageSurface(s.width, s.height, s.faces)
	pc := cfg.Particles.Effect()
	var rng *rand.Rand
	if pc.Seed != 0 {
		rng = rand.New(rand.NewSource(pc.Seed)) // #nosec G404 -- cosmetic only
	}
	s.particles, err = particles.Mount(s.loop, s.background, &s.cursor, pc, rng)
	if err != nil {
		return nil, fmt.Errorf("particles: %w", err)
	}

	fc := cfg.Fuzzy.Effect()
	metrics := faceMetrics{faces: s.faces}
	probe, err := fuzzy.Layout(cfg.Fuzzy.Text, headingPad, headingPad, metrics, fc)
	if err != nil {
		return nil, fmt.Errorf("fuzzy: %w", err)
	}
	b := probe.Bounds()
	s.heading = NewImageSurface(int(b.W)+2*headingPad, int(b.H)+2*headingPad, s.faces)
	// The heading buffer has its own coordinates; translate the window
	// cursor into them.
	s.headCursor = func() pointer.State {
		p := s.cursor.Pointer()
		if !p.Present {
			return p
		}
		hx, hy := s.headingOrigin()
		return pointer.At(p.X-hx, p.Y-hy)
	}
	s.fuzzy, err = fuzzy.Mount(s.loop, s.heading, s.headCursor, cfg.Fuzzy.Text, headingPad, headingPad, metrics, fc)
	if err != nil {
		return nil, fmt.Errorf("fuzzy: %w", err)
	}

	out := scramble.ContainerFunc(s.setCaption)
	s.reveal, err = scramble.Mount(s.loop, out, cfg.Scramble.Text, cfg.Scramble.Config, scramble.NewSource(cfg.Scramble.Seed))
	if err != nil {
		return nil, fmt.Errorf("scramble: %w", err)
	}
	s.events.Add(0, "scene", fmt.Sprintf("mounted %d particles", s.particleCount()))
	return s, nil
}

// particleCount is 0 while the field is inert.
func (s *Scene) particleCount() int {
	if f := s.particles.Field(); f != nil {
		return f.Len()
	}
	return 0
}

func (s *Scene) setCaption(t string) {
	s.revealed = t
	if s.reveal != nil && s.reveal.Sequence().State() == scramble.Complete {
		s.events.Add(s.tick, "scramble", fmt.Sprintf("revealed in %d ticks", s.reveal.Sequence().Step()))
	}
}

func (s *Scene) headingOrigin() (float64, float64) {
	w, h := s.heading.Size()
	return float64(s.width-w) / 2, float64(s.height-h)/2 - captionGap
}

func (s *Scene) captionRect() pointer.Rect {
	w := text.Advance(s.cfg.Scramble.Text, s.caption)
	_, hy := s.headingOrigin()
	_, hh := s.heading.Size()
	return pointer.Rect{X: (float64(s.width) - w) / 2, Y: hy + float64(hh), W: w, H: captionSize * 1.4}
}

// Update implements ebiten.Game.
func (s *Scene) Update() error {
	if s.ctx != nil && s.ctx.Err() != nil {
		return ebiten.Termination
	}
	s.handleInput()

	mx, my := ebiten.CursorPosition()
	p := cursorState(mx, my, s.width, s.height, ebiten.IsFocused())
	if p.Present {
		s.cursor.Move(p.X, p.Y)
	} else {
		s.cursor.Leave()
	}
	if s.cfg.Scramble.Trigger == scramble.OnHover {
		in := p.In(s.captionRect())
		if in != s.hovering {
			s.hovering = in
			if err := s.reveal.Hover(in); err != nil {
				return err
			}
		}
	}

	dt := frameDelta(ebiten.TPS(), s.speed)
	if dt <= 0 {
		return nil
	}
	s.tick++
	wasHovered := s.fuzzy.Text().Hovered()
	s.loop.Advance(dt)
	if h := s.fuzzy.Text().Hovered(); h != wasHovered {
		state := "idle"
		if h {
			state = "hovered"
		}
		s.events.Add(s.tick, "fuzzy", state)
	}
	return nil
}

// justPressed reports an edge-triggered key press and records the key.
func (s *Scene) justPressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !s.prevKeys[k]
}

func (s *Scene) handleInput() {
	cur := map[ebiten.Key]bool{}

	if s.justPressed(cur, ebiten.KeyR) {
		if err := s.reveal.Restart(); err != nil {
			s.logger.Error("restart scramble", "err", err)
		}
		s.events.Add(s.tick, "scramble", "restart")
	}
	if s.justPressed(cur, ebiten.KeyC) {
		if err := setClipboardText(s.reveal.Sequence().Target()); err != nil {
			s.logger.Warn("clipboard", "err", err)
			s.events.Add(s.tick, "scene", "clipboard unavailable")
		} else {
			s.events.Add(s.tick, "scene", "copied caption")
		}
	}
	if s.justPressed(cur, ebiten.KeyH) {
		s.showHUD = !s.showHUD
	}
	if s.justPressed(cur, ebiten.KeyP) {
		s.speed, s.resume = togglePause(s.speed, s.resume)
	}
	if s.justPressed(cur, ebiten.KeyComma) {
		next := slower(s.speed)
		if next == 0 && s.speed > 0 {
			s.resume = s.speed
		}
		s.speed = next
	}
	if s.justPressed(cur, ebiten.KeyPeriod) {
		s.speed = faster(s.speed)
	}
	s.prevKeys = cur
}

// Draw implements ebiten.Game.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.cfg.Particles.Background.RGBA())
	screen.DrawImage(s.background.Image(), nil)

	hx, hy := s.headingOrigin()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(hx, hy)
	screen.DrawImage(s.heading.Image(), op)

	r := s.captionRect()
	top := &text.DrawOptions{}
	top.GeoM.Translate(r.X, r.Y)
	top.ColorScale.ScaleWithColor(s.cfg.Particles.Color.RGBA())
	text.Draw(screen, s.revealed, s.caption, top)

	if s.showHUD {
		s.drawHUD(screen)
		s.events.Draw(screen, s.width, s.height)
	}
}

func (s *Scene) drawHUD(screen *ebiten.Image) {
	speedStr := fmt.Sprintf("%.2gx", s.speed)
	if s.speed == 0 {
		speedStr = "PAUSED"
	}
	lines := []string{
		fmt.Sprintf("SPEED: %s  P=pause  ,/. speed", speedStr),
		fmt.Sprintf("scramble: %s  R=restart  C=copy", s.reveal.Sequence().State()),
		fmt.Sprintf("fuzzy intensity: %.2f", s.fuzzy.Text().Intensity()),
		fmt.Sprintf("particles: %d  fps %.0f", s.particleCount(), ebiten.ActualFPS()),
		"[H] toggle HUD",
	}
	const lineH, charW, padX, padY = 14, 6, 6, 4
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx, by := float32(8), float32(s.height)-boxH-8
	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 8, G: 8, B: 10, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1, color.RGBA{R: 90, G: 60, B: 30, A: 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, int(bx)+padX, int(by)+padY+i*lineH)
	}
}

// Layout implements ebiten.Game. It follows the window size and is
// idempotent: buffers are reallocated only when the size changes.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return s.width, s.height
	}
	if outsideWidth != s.width || outsideHeight != s.height {
		s.width, s.height = outsideWidth, outsideHeight
		if s.background.Resize(s.width, s.height) {
			s.particles.Resize(s.width, s.height)
			s.events.Add(s.tick, "particles", fmt.Sprintf("resize %dx%d", s.width, s.height))
		}
	}
	return s.width, s.height
}

// Close stops every effect and releases the buffers.
func (s *Scene) Close() {
	s.loop.StopAll()
	s.background.Detach()
	s.heading.Detach()
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	s, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)
	logger.Info("window open", "w", cfg.Window.Width, "h", cfg.Window.Height, "tps", cfg.Window.TPS)
	if err := ebiten.RunGame(s); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}
