package gui

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/gravsim/internal/palette"
	"github.com/san-kum/gravsim/internal/world"
)

// Draw renders every path, then every body on top.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(ColBg)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	s := a.World.Snapshot()

	for _, b := range s.Bodies {
		clr := palette.Lookup(b.Color)
		for i := 1; i < len(b.Path); i++ {
			if !b.Path[i-1].IsFinite() || !b.Path[i].IsFinite() {
				continue
			}
			x0, y0, _ := a.view.project(b.Path[i-1], w, h)
			x1, y1, _ := a.view.project(b.Path[i], w, h)
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, clr, true)
		}
	}

	for _, b := range s.Bodies {
		if !b.Position.IsFinite() {
			continue
		}
		x, y, scale := a.view.project(b.Position, w, h)
		r := float32(b.Radius * scale)
		if r < 1 {
			r = 1
		}
		vector.DrawFilledCircle(screen, x, y, r, palette.Lookup(b.Color), true)
	}

	ebitenutil.DebugPrint(screen, a.hud(s))
}

func (a *App) hud(s world.Snapshot) string {
	var sb strings.Builder
	status := "RUNNING"
	switch {
	case a.Err != nil:
		status = "FAULT"
	case a.Paused:
		status = "PAUSED"
	}
	fmt.Fprintf(&sb, "%s  %s  step %d  t=%.2fs  E=%.2f\n", a.Name, status, s.Step, s.Time, s.Energy())
	for _, b := range s.Bodies {
		fmt.Fprintf(&sb, "%-8s %s\n", b.Name, b.Position.Format(1))
	}
	if a.Err != nil {
		fmt.Fprintf(&sb, "\n%v\n", a.Err)
	}
	sb.WriteString("\nP/Space: pause  R: reset  Q: quit")
	return sb.String()
}
