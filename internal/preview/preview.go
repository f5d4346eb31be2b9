// Package preview plays a timeline in the terminal using half-block cells,
// two pixels per character.
package preview

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/ivlev/wrapped2video/internal/background"
	"github.com/ivlev/wrapped2video/internal/director"
	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/renderer"
)

// maxTickRate caps redraws; terminals rarely keep up beyond this.
const maxTickRate = 30

// Canvas is the part of tcell.Screen the player draws on.
type Canvas interface {
	Size() (int, int)
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}

// Action is a player command decoded from a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggle
	ActionBack
	ActionForward
	ActionStepBack
	ActionStep
	ActionStart
	ActionEnd
)

// ActionFor maps a key press to a player command.
func ActionFor(key tcell.Key, ch rune) Action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyLeft:
		return ActionBack
	case tcell.KeyRight:
		return ActionForward
	case tcell.KeyHome:
		return ActionStart
	case tcell.KeyEnd:
		return ActionEnd
	case tcell.KeyRune:
		switch ch {
		case 'q':
			return ActionQuit
		case ' ', 'p':
			return ActionToggle
		case ',':
			return ActionStepBack
		case '.':
			return ActionStep
		case 'h':
			return ActionBack
		case 'l':
			return ActionForward
		case '0':
			return ActionStart
		}
	}
	return ActionNone
}

// Player owns the playback position and a renderer sized to the terminal.
type Player struct {
	tl      *director.Timeline
	canvas  background.Size
	fps     float64
	fonts   *renderer.Fonts
	logger  zerolog.Logger
	frame   int
	playing bool

	r     *renderer.Renderer
	img   *image.RGBA
	scale float64
}

// New returns a paused player at frame 0. canvas is the size tl was built for.
func New(tl *director.Timeline, canvas background.Size, fps float64, logger zerolog.Logger) (*Player, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be > 0, got %g", fps)
	}
	fonts, err := renderer.DefaultFonts()
	if err != nil {
		return nil, err
	}
	return &Player{tl: tl, canvas: canvas, fps: fps, fonts: fonts, logger: logger}, nil
}

// Frame is the current global frame.
func (p *Player) Frame() int { return p.frame }

// Playing reports whether the player advances on Tick.
func (p *Player) Playing() bool { return p.playing }

// Apply executes a command and reports whether the player should keep running.
func (p *Player) Apply(a Action) bool {
	second := int(math.Round(p.fps))
	switch a {
	case ActionQuit:
		return false
	case ActionToggle:
		p.playing = !p.playing
		if p.playing && p.frame >= p.tl.Total()-1 {
			p.frame = 0
		}
	case ActionBack:
		p.seek(p.frame - second)
	case ActionForward:
		p.seek(p.frame + second)
	case ActionStepBack:
		p.playing = false
		p.seek(p.frame - 1)
	case ActionStep:
		p.playing = false
		p.seek(p.frame + 1)
	case ActionStart:
		p.seek(0)
	case ActionEnd:
		p.seek(p.tl.Total() - 1)
	}
	return true
}

func (p *Player) seek(f int) {
	p.frame = max(0, min(f, p.tl.Total()-1))
}

// Tick advances playback by n frames and pauses on the last one.
func (p *Player) Tick(n int) {
	if !p.playing {
		return
	}
	p.seek(p.frame + n)
	if p.frame == p.tl.Total()-1 {
		p.playing = false
	}
}

// Fit returns the pixel size and scale that fit canvas into cols x rows
// half-block cells.
func Fit(cols, rows int, canvas background.Size) (w, h int, scale float64) {
	if cols <= 0 || rows <= 0 || canvas.W <= 0 || canvas.H <= 0 {
		return 0, 0, 0
	}
	scale = math.Min(float64(cols)/canvas.W, float64(2*rows)/canvas.H)
	w = max(1, int(math.Round(canvas.W*scale)))
	h = max(2, int(math.Round(canvas.H*scale))) &^ 1
	return w, h, scale
}

// Draw paints the current frame centred above a one-line status bar.
func (p *Player) Draw(c Canvas) {
	cols, rows := c.Size()
	if rows < 2 {
		return
	}
	w, h, scale := Fit(cols, rows-1, p.canvas)
	if w == 0 {
		return
	}
	if p.r == nil || p.r.Bounds().Dx() != w || p.r.Bounds().Dy() != h {
		p.r = renderer.New(w, h, p.fonts)
		p.img = p.r.NewImage()
		p.logger.Debug().Int("w", w).Int("h", h).Msg("preview resized")
	}
	p.scale = scale

	root := draw.Group("preview", p.tl.ComposeAt(p.frame)).Scaled(scale)
	if err := p.r.Render(p.img, root); err != nil {
		p.logger.Error().Err(err).Msg("preview render failed")
		return
	}

	ox, oy := (cols-w)/2, (rows-1-h/2)/2
	for y := 0; y < h/2; y++ {
		for x := 0; x < w; x++ {
			top, bottom := CellColors(p.img, x, y)
			c.SetContent(ox+x, oy+y, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}

	status := []rune(p.Status())
	for x := 0; x < cols; x++ {
		ch := ' '
		if x < len(status) {
			ch = status[x]
		}
		c.SetContent(x, rows-1, ch, nil, tcell.StyleDefault.Reverse(true))
	}
}

// CellColors returns the two pixels behind the half-block cell at (x, y).
func CellColors(img *image.RGBA, x, y int) (top, bottom tcell.Color) {
	px := func(py int) tcell.Color {
		o := img.PixOffset(x, py)
		return tcell.NewRGBColor(int32(img.Pix[o]), int32(img.Pix[o+1]), int32(img.Pix[o+2]))
	}
	return px(2 * y), px(2*y + 1)
}

// Status describes the playback position.
func (p *Player) Status() string {
	state := "paused"
	if p.playing {
		state = "playing"
	}
	scene := ""
	if ds := p.tl.Dispatches(p.frame); len(ds) > 0 {
		scene = ds[len(ds)-1].ID
	}
	return fmt.Sprintf(" %5d/%d  %6.2fs  %-16s [%s]  space play  ←/→ seek  ,/. step  q quit",
		p.frame, p.tl.Total()-1, float64(p.frame)/p.fps, scene, state)
}

// Run takes over screen until the user quits or ctx is done.
func (p *Player) Run(ctx context.Context, screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	rate := min(p.fps, maxTickRate)
	step := max(1, int(math.Round(p.fps/rate)))
	ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := pollEvents(screen, done)

	p.playing = true
	redraw := func() {
		screen.Clear()
		p.Draw(screen)
		screen.Show()
	}
	redraw()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !p.Apply(ActionFor(ev.Key(), ev.Rune())) {
					return nil
				}
				redraw()
			case *tcell.EventResize:
				screen.Sync()
				redraw()
			}
		case <-ticker.C:
			if p.playing {
				p.Tick(step)
				redraw()
			}
		}
	}
}

// eventSource is the polling half of tcell.Screen.
type eventSource interface {
	PollEvent() tcell.Event
}

// pollEvents forwards events from src until it reports nil or done closes.
// The returned channel is closed when forwarding stops.
func pollEvents(src eventSource, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for {
			ev := src.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}
