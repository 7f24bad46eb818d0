package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/palette"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/vector"
	"github.com/san-kum/gravsim/internal/world"
)

const (
	width           = 80
	height          = 24
	panelWidth      = 48
	historyCapacity = 600
	minSpeed        = 0.125
	maxSpeed        = 64
)

// ResetFunc returns fresh bodies for a reset.
type ResetFunc func() ([]*physics.Body, error)

type TickMsg time.Time

// Model steps a World on a timer and renders it.
type Model struct {
	world         *world.World
	reset         ResetFunc
	name          string
	speed         float64
	canvas        *Canvas
	width, height int
	running       bool
	err           error
	lo, hi        vector.Vec2
	framed        bool
	energyHistory []float64
	collisions    int
}

// NewModel wraps w. speed scales playback against simulated time: at 1 one
// tick is Config.DT of wall time.
func NewModel(name string, w *world.World, reset ResetFunc, speed float64) Model {
	if speed <= 0 {
		speed = 1
	}
	m := Model{
		world:         w,
		reset:         reset,
		name:          name,
		speed:         speed,
		canvas:        NewCanvas(width, height),
		width:         width,
		height:        height,
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
	}
	m.err = w.Err()
	if m.err != nil {
		m.running = false
	}
	m.record(w.State())
	return m
}

// Interval is the wall time between ticks.
func (m Model) Interval() time.Duration {
	d := time.Duration(m.world.Config().DT / m.speed * float64(time.Second))
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.Interval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the World.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.restart()
		case "+", "=":
			m.speed = math.Min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = math.Max(m.speed/2, minSpeed)
		}
	case tea.WindowSizeMsg:
		w := (msg.Width - panelWidth - 6)
		h := msg.Height - 4
		if w > 10 && h > 5 {
			m.width, m.height = w, h
			m.canvas = NewCanvas(w, h)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if err := m.world.Step(); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.record(m.world.State())
}

func (m *Model) record(s world.Snapshot) {
	m.fit(s)
	m.collisions += s.Collisions
	m.energyHistory = append(m.energyHistory, s.Energy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// restart rebuilds the bodies and clears the fault.
func (m *Model) restart() {
	bodies, err := m.reset()
	if err == nil {
		err = m.world.Reset(bodies)
	}
	if err != nil {
		m.err = fmt.Errorf("reset: %w", err)
		m.running = false
		return
	}
	m.err = nil
	m.running = true
	m.framed = false
	m.collisions = 0
	m.energyHistory = m.energyHistory[:0]
	m.record(m.world.State())
}

// View renders the TUI interface.
func (m Model) View() string {
	snap := m.world.Snapshot()
	m.draw(snap)

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(StatusFault.Render("FAULT") + "\n")
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + fmt.Sprintf("  x%g", m.speed) + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", snap.Step)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", snap.Time)) + "\n")
	energy := 0.0
	if n := len(m.energyHistory); n > 0 {
		energy = m.energyHistory[n-1]
	}
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.2f", energy)) + "\n")
	s.WriteString(labelStyle.Render("Collisions") + valueStyle.Render(fmt.Sprintf("%d", m.collisions)) + "\n")

	s.WriteString("\nBODIES\n")
	if len(snap.Bodies) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for _, b := range snap.Bodies {
		s.WriteString(fmt.Sprintf("%s %s %s\n",
			BodyLabel(fmt.Sprintf("%-8s", b.Name), b.Color),
			valueStyle.Render(b.Position.Format(1)),
			labelStyle.UnsetWidth().Render("v"+b.Velocity.Format(1)),
		))
	}

	s.WriteString(helpStyle.Render("\n" + Separator(30) + "\nSP:Pause R:Reset Q:Quit\n+/-:Speed"))

	canvasView := canvasStyle.Render(m.canvas.Render())
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// fit grows the view frame to hold every position seen since the last
// reset. Path points are earlier positions, so they stay inside it.
func (m *Model) fit(s world.Snapshot) {
	lo, hi, ok := s.Bounds()
	if !ok {
		return
	}
	pad := math.Max(hi.X-lo.X, hi.Y-lo.Y) * 0.05
	lo = lo.Sub(vector.New(pad, pad))
	hi = hi.Add(vector.New(pad, pad))
	if !lo.IsFinite() || !hi.IsFinite() {
		return
	}

	if !m.framed {
		m.lo, m.hi, m.framed = lo, hi, true
		return
	}
	m.lo = vector.New(math.Min(m.lo.X, lo.X), math.Min(m.lo.Y, lo.Y))
	m.hi = vector.New(math.Max(m.hi.X, hi.X), math.Max(m.hi.Y, hi.Y))
}

// project maps world coordinates to canvas dots and returns the scale.
func (m *Model) project(p vector.Vec2) (int, int, float64) {
	cw, ch := m.canvas.SubSize()
	rangeX := math.Max(m.hi.X-m.lo.X, 1)
	rangeY := math.Max(m.hi.Y-m.lo.Y, 1)
	scale := math.Min(float64(cw)/rangeX, float64(ch)/rangeY)

	offX := (float64(cw) - rangeX*scale) / 2
	offY := (float64(ch) - rangeY*scale) / 2
	x := (p.X-m.lo.X)*scale + offX
	y := (p.Y-m.lo.Y)*scale + offY
	return int(math.Round(x)), int(math.Round(y)), scale
}

// draw renders paths first and bodies on top.
func (m *Model) draw(s world.Snapshot) {
	m.canvas.Clear()

	for _, b := range s.Bodies {
		ink := palette.Hex(b.Color)
		for i := 1; i < len(b.Path); i++ {
			if !b.Path[i-1].IsFinite() || !b.Path[i].IsFinite() {
				continue
			}
			x0, y0, _ := m.project(b.Path[i-1])
			x1, y1, _ := m.project(b.Path[i])
			m.canvas.DrawLine(x0, y0, x1, y1, ink)
		}
	}
	for _, b := range s.Bodies {
		if !b.Position.IsFinite() {
			continue
		}
		x, y, scale := m.project(b.Position)
		m.canvas.FillCircle(x, y, int(b.Radius*scale), palette.Hex(b.Color))
	}
}

// Run starts the terminal driver and blocks until the user quits.
func Run(name string, w *world.World, reset ResetFunc, speed float64) error {
	_, err := tea.NewProgram(NewModel(name, w, reset, speed), tea.WithAltScreen()).Run()
	return err
}
