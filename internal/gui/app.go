package gui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/world"
)

const (
	screenWidth  = 800
	screenHeight = 800
)

var (
	ColBg   = color.RGBA{10, 10, 10, 255}
	ColText = color.RGBA{140, 140, 140, 255}
)

// ResetFunc returns fresh bodies for a reset.
type ResetFunc func() ([]*physics.Body, error)

// App is an ebiten game that steps a World once per tick.
type App struct {
	World  *world.World
	Name   string
	Paused bool
	Err    error

	reset ResetFunc
	view  view
}

func NewApp(name string, w *world.World, reset ResetFunc) *App {
	a := &App{World: w, Name: name, reset: reset, Err: w.Err()}
	a.view.fit(w.State())
	return a
}

// Run opens a window and blocks until it is closed. speed scales ticks per
// simulated second.
func Run(name string, w *world.World, reset ResetFunc, speed float64) error {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("gravsim - %s", name))
	ebiten.SetWindowResizable(true)
	ebiten.SetTPS(TicksPerSecond(w.Config().DT, speed))
	return ebiten.RunGame(NewApp(name, w, reset))
}

// TicksPerSecond is the tick rate that plays one DT per tick at the given
// speed, at least 1.
func TicksPerSecond(dt, speed float64) int {
	if speed <= 0 {
		speed = 1
	}
	tps := int(math.Round(speed / dt))
	if tps < 1 {
		tps = 1
	}
	return tps
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.Reset()
	}
	a.Tick()
	return nil
}

// Tick advances the World unless paused or faulted.
func (a *App) Tick() {
	if a.Paused || a.Err != nil {
		return
	}
	if err := a.World.Step(); err != nil {
		a.Err = err
		a.Paused = true
		return
	}
	a.view.fit(a.World.State())
}

func (a *App) TogglePause() {
	if a.Err != nil {
		return
	}
	a.Paused = !a.Paused
}

// Reset restores the initial scenario and clears any fault.
func (a *App) Reset() {
	bodies, err := a.reset()
	if err == nil {
		err = a.World.Reset(bodies)
	}
	if err != nil {
		a.Err = fmt.Errorf("reset: %w", err)
		a.Paused = true
		return
	}
	a.Err = nil
	a.Paused = false
	a.view = view{}
	a.view.fit(a.World.State())
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
