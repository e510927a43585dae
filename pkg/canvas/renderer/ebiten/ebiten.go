package ebiten

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"collectivecanvas/pkg/canvas/engine"
	"collectivecanvas/pkg/canvas/i18n"
	"collectivecanvas/pkg/engine/clock"
	engineinput "collectivecanvas/pkg/engine/input"
	"collectivecanvas/pkg/engine/terminal"
)

// Options configures the host window.
type Options struct {
	Title       string
	CanvasID    string
	JoinURL     string
	QR          []byte // PNG of the join URL; nil hides the code
	SnapshotDir string
	Width       int
	Height      int
	Fullscreen  bool
	HUD         bool
	Commands    <-chan engineinput.RawInput
	Clock       clock.TimeProvider
	Logger      *terminal.Logger
}

// Game runs the engine inside an Ebiten window.
type Game struct {
	ctx     context.Context
	opts    Options
	engine  *engine.Engine
	painter *Painter
	log     *terminal.Logger
	clock   clock.TimeProvider

	fonts     *fonts
	qr        *ebiten.Image
	debouncer *engineinput.Debouncer
	status    statusLine

	hudVisible bool

	// Latest size reported by Layout, applied on the next Update.
	width, height int
	initialized   bool
	openedLogged  bool
}

// New wires eng and its painter to a window. The engine is initialized on
// the first Update, once the window size is known.
func New(ctx context.Context, eng *engine.Engine, painter *Painter, opts Options) (*Game, error) {
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = terminal.Discard()
	}
	f, err := loadFonts()
	if err != nil {
		return nil, err
	}
	qr, err := decodeQR(opts.QR)
	if err != nil {
		return nil, err
	}
	return &Game{
		ctx:        ctx,
		opts:       opts,
		engine:     eng,
		painter:    painter,
		log:        opts.Logger,
		clock:      opts.Clock,
		fonts:      f,
		qr:         qr,
		debouncer:  engineinput.NewDebouncer(engineinput.DefaultDebounce),
		hudVisible: opts.HUD,
	}, nil
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
func (g *Game) Run() error {
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(g.opts.Fullscreen)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetScreenClearedEveryFrame(true)

	err := ebiten.RunGame(g)
	g.engine.Dispose()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update handles input and advances the canvas by one frame (Ebiten interface).
func (g *Game) Update() error {
	if g.width == 0 || g.height == 0 {
		return nil
	}
	if !g.openedLogged {
		g.openedLogged = true
		g.log.Infof("Window opened (%dx%d)", g.width, g.height)
	}

	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	if !g.initialized {
		if err := g.engine.Init(g.ctx, g.width, g.height); err != nil {
			return err
		}
		g.initialized = true
	} else {
		g.engine.Resize(g.width, g.height)
	}

	raws := append(g.readKeys(), g.pollCommands()...)
	if g.handleInput(raws) {
		return ebiten.Termination
	}
	g.drainExports()

	g.engine.Tick()
	return nil
}

// drainExports turns finished snapshot exports into status messages.
func (g *Game) drainExports() {
	for {
		select {
		case res := <-g.engine.Exports():
			if res.Err != nil {
				g.status.set(i18n.T("STATUS_SAVE_FAILED", res.Err.Error()), colorDenied, g.clock.Now())
			} else {
				g.status.set(i18n.T("STATUS_SAVED", res.Path), colorSuccess, g.clock.Now())
			}
		default:
			return
		}
	}
}

// Draw presents the canvas layers and the HUD (Ebiten interface).
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Present(screen)
	if g.hudVisible && g.initialized {
		g.drawHUD(screen)
	}
}

// Layout uses the window size as the canvas size, so resizing the window
// resizes the canvas (Ebiten interface).
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
