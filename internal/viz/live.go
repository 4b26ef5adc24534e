package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/nzakhir/brownian-motion-simulation/internal/gas"
)

const (
	width           = 60
	height          = 28
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives the live gas animation: one resolved collision per
// frame, rendering snapshots only.
type Model struct {
	engine        *gas.Engine
	canvas        *Canvas
	width, height int
	fps           int
	running       bool
	stepErr       error
	energyHistory []float64
}

func NewModel(engine *gas.Engine, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		engine:        engine,
		canvas:        NewCanvas(width, height),
		width:         width,
		height:        height,
		fps:           fps,
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				m.step()
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step resolves the next collision and records the energy sample.
func (m *Model) step() {
	if m.stepErr != nil || m.engine.Finished() {
		return
	}
	if err := m.engine.AdvanceOneCollision(); err != nil {
		m.stepErr = err
		return
	}

	d := m.engine.Diagnostics()
	m.energyHistory = append(m.energyHistory, d.KineticEnergy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

// draw renders the container outline and particle discs onto the
// canvas, mapping world coordinates to sub-pixel space.
func (m *Model) draw() {
	m.canvas.Clear()

	container, particles := m.engine.Snapshot()
	bound := math.Abs(container.Radius)
	if bound == 0 {
		return
	}

	subW, subH := m.width*2, m.height*4
	cx, cy := subW/2, subH/2
	scale := float64(minInt(subW, subH)) / 2 * 0.95 / bound

	project := func(p gas.Vec2) (int, int) {
		// Screen y grows downward.
		return cx + int(p.X*scale), cy - int(p.Y*scale)
	}

	ox, oy := project(container.Center)
	m.canvas.DrawCircle(ox, oy, int(bound*scale))

	for _, p := range particles {
		px, py := project(p.Center)
		r := int(p.Radius * scale)
		if r < 1 {
			r = 1
		}
		m.canvas.FillCircle(px, py, r)
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	d := m.engine.Diagnostics()
	status := "RUNNING"
	switch {
	case m.stepErr != nil:
		status = errorStyle.Render("ERROR: " + m.stepErr.Error())
	case m.engine.Finished():
		status = "FINISHED"
	case !m.running:
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("IDEAL GAS") + "\n")
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("Kinetic Energy"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3fs", d.Clock)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4f", d.KineticEnergy)) + "\n")
	s.WriteString(labelStyle.Render("Pressure") + valueStyle.Render(fmt.Sprintf("%.6f", d.Pressure)) + "\n")
	s.WriteString(labelStyle.Render("Collisions") + valueStyle.Render(fmt.Sprintf("%d", d.Collisions)) + "\n")
	s.WriteString(labelStyle.Render("Wall hits") + valueStyle.Render(fmt.Sprintf("%d", d.WallCollisions)) + "\n")
	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause S:Step Q:Quit"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
