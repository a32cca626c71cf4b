//go:build cgo

package host

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunWindow opens a window showing the display surface and ticks app from
// the window loop. P toggles pause, Escape or closing the window exits.
// It blocks until the window closes or ctx is done.
func RunWindow(ctx context.Context, app App, win *Window, cfg WindowConfig) error {
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	if cfg.Title == "" {
		cfg.Title = "gs-streamer"
	}

	b := win.canvas.Bounds()
	g := &hostGame{ctx: ctx, app: app, win: win, width: b.Dx(), height: b.Dy()}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(b.Dx(), b.Dy())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)

	logger.Noticef("opening %dx%d window", b.Dx(), b.Dy())
	return ebiten.RunGame(g)
}

type hostGame struct {
	ctx context.Context
	app App
	win *Window
	img *ebiten.Image
	clk clock

	// Size reported by Layout, applied on the next Update.
	width, height int
}

func (g *hostGame) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.app.SetPaused(!g.app.Paused())
	}

	if b := g.win.canvas.Bounds(); b.Dx() != g.width || b.Dy() != g.height {
		g.win.resize(g.width, g.height)
		g.app.OnResize(g.width, g.height)
	}

	now := time.Now()
	g.app.Tick(now, g.clk.step(now))
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	b := g.win.canvas.Bounds()
	if g.img == nil || g.img.Bounds().Size() != b.Size() {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(b.Dx(), b.Dy())
	}

	// Canvas pixels are opaque so NRGBA and premultiplied RGBA agree.
	g.img.WritePixels(g.win.canvas.Pix)
	screen.DrawImage(g.img, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}
