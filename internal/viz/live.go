// Package viz renders a live terminal view of a tracking run: per-task
// error norms plotted over time while the controller drives the robot
// back to its reference posture.
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/robolab-io/sotg/internal/control"
	"github.com/robolab-io/sotg/internal/graph"
	"github.com/robolab-io/sotg/internal/robot"
	"github.com/robolab-io/sotg/internal/task"
)

const (
	graphWidth      = 70
	graphHeight     = 10
	historyCapacity = 600
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model steps the robot under the proportional task controller and keeps
// a bounded history of error norms for plotting.
type Model struct {
	robot     *robot.Robot
	ctrl      *control.Controller
	tasks     map[string]*task.Task
	taskNames []string
	selected  int

	dt      float64
	at      int
	running bool

	initial graph.Vector
	history map[string][]float64

	err error
}

// NewModel wraps an initialized robot for live viewing. The device state at
// construction time is the reset target.
func NewModel(r *robot.Robot, dt float64) Model {
	tasks := r.Tasks()
	names := make([]string, 0, len(tasks))
	list := make([]*task.Task, 0, len(tasks))
	for name, t := range tasks {
		names = append(names, name)
		list = append(list, t)
	}
	sort.Strings(names)

	history := make(map[string][]float64, len(names))
	for _, name := range names {
		history[name] = make([]float64, 0, historyCapacity)
	}

	return Model{
		robot:     r,
		ctrl:      control.New(r.Dimension(), list...),
		tasks:     tasks,
		taskNames: names,
		dt:        dt,
		at:        0,
		running:   true,
		initial:   r.Device().State().Value().Clone(),
		history:   history,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab", "down", "j":
			m.selected = (m.selected + 1) % len(m.taskNames)
		case "up", "k":
			m.selected = (m.selected - 1 + len(m.taskNames)) % len(m.taskNames)
		}
		return m, nil

	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	m.at++
	if err := m.robot.Dynamic().SetPosition(m.robot.Device().State().Value()); err != nil {
		m.err = err
		return
	}

	u, err := m.ctrl.Compute(m.at)
	if err != nil {
		m.err = err
		return
	}
	if err := m.robot.Device().Step(u, m.dt); err != nil {
		m.err = err
		return
	}

	for _, name := range m.taskNames {
		e, err := m.tasks[name].Error(m.at)
		if err != nil {
			m.err = err
			return
		}
		h := append(m.history[name], e.Norm())
		if len(h) > historyCapacity {
			h = h[1:]
		}
		m.history[name] = h
	}
}

func (m *Model) reset() {
	if err := m.robot.Device().Set(m.initial.Clone()); err != nil {
		m.err = err
		return
	}
	for _, name := range m.taskNames {
		m.history[name] = m.history[name][:0]
	}
	m.err = nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s  t=%.2fs", m.robot.Name(), float64(m.at)*m.dt)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(fmt.Sprintf("\n  error: %v\n", m.err))
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	name := m.taskNames[m.selected]
	series := m.history[name]
	if len(series) > 1 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(series,
			asciigraph.Width(graphWidth),
			asciigraph.Height(graphHeight),
			asciigraph.Caption(name+" error norm"),
		)))
		b.WriteString("\n")
	}

	for _, n := range m.taskNames {
		marker := "  "
		if n == name {
			marker = "> "
		}
		latest := 0.0
		if h := m.history[n]; len(h) > 0 {
			latest = h[len(h)-1]
		}
		b.WriteString(marker)
		b.WriteString(labelStyle.Render(n))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.6f", latest)))
		b.WriteString("\n")
	}

	status := "running"
	if !m.running {
		status = "paused"
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf("[%s]  space pause · r reset · tab next task · q quit", status)))
	return b.String()
}

// Run starts the live view and blocks until the user quits.
func Run(r *robot.Robot, dt float64) error {
	p := tea.NewProgram(NewModel(r, dt))
	_, err := p.Run()
	return err
}
