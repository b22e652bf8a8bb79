// Package tui is a read-only terminal browser over saved analysis runs:
// pick a run, inspect its per-trial records, and plot one parameter across
// trials to eyeball replicate scatter.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/polymerlab/mechtherm/internal/stats"
	"github.com/polymerlab/mechtherm/internal/storage"
	"github.com/polymerlab/mechtherm/internal/technique"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type state int

const (
	stateRuns state = iota
	stateRecords
	statePlot
)

type model struct {
	store *storage.Store
	state state

	runs      []storage.RunMetadata
	runCursor int

	records     []*technique.Record
	paramNames  []string
	paramCursor int

	err    error
	width  int
	height int
}

func newModel(store *storage.Store) (*model, error) {
	runs, err := store.List()
	if err != nil {
		return nil, err
	}
	return &model{
		store:  store,
		runs:   runs,
		width:  80,
		height: 24,
	}, nil
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateRuns:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.runCursor > 0 {
				m.runCursor--
			}
		case "down", "j":
			if m.runCursor < len(m.runs)-1 {
				m.runCursor++
			}
		case "enter", " ":
			if len(m.runs) == 0 {
				return m, nil
			}
			m.openRun(m.runs[m.runCursor].ID)
			m.state = stateRecords
		}
	case stateRecords:
		switch msg.String() {
		case "q", "escape":
			m.state = stateRuns
		case "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.paramCursor > 0 {
				m.paramCursor--
			}
		case "down", "j":
			if m.paramCursor < len(m.paramNames)-1 {
				m.paramCursor++
			}
		case "enter", "p":
			if len(m.paramNames) > 0 {
				m.state = statePlot
			}
		}
	case statePlot:
		switch msg.String() {
		case "q", "escape":
			m.state = stateRecords
		case "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *model) openRun(runID string) {
	m.err = nil
	m.paramCursor = 0

	records, err := m.store.LoadRecords(runID)
	if err != nil {
		m.err = err
		m.records = nil
		m.paramNames = nil
		return
	}
	m.records = records

	seen := make(map[string]bool)
	m.paramNames = nil
	for _, rec := range records {
		for _, name := range rec.Names() {
			if !seen[name] {
				seen[name] = true
				m.paramNames = append(m.paramNames, name)
			}
		}
	}
}

func (m model) View() string {
	switch m.state {
	case stateRuns:
		return m.viewRuns()
	case stateRecords:
		return m.viewRecords()
	case statePlot:
		return m.viewPlot()
	}
	return ""
}

func (m model) viewRuns() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + cyan.Render("m e c h t h e r m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	if len(m.runs) == 0 {
		b.WriteString(dim.Render("      no saved runs") + "\n")
	}
	for i, run := range m.runs {
		desc := fmt.Sprintf("%s  %d trials  %s",
			run.Timestamp.Format("2006-01-02 15:04"), run.Trials,
			strings.Join(run.Samples, ", "))
		if i == m.runCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-24s", run.ID)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-24s", run.ID)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter open   q quit") + "\n")
	return b.String()
}

func (m model) viewRecords() string {
	var b strings.Builder

	run := m.runs[m.runCursor]
	b.WriteString("\n      " + cyan.Render(run.ID) + "  " + dim.Render(fmt.Sprintf("%d trials", len(m.records))) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 40)) + "\n\n")

	if m.err != nil {
		b.WriteString("      " + red.Render(m.err.Error()) + "\n")
	}

	for i, name := range m.paramNames {
		sum := stats.Summarize(m.records, name)
		val := "n/a"
		if sum.Available() {
			val = fmt.Sprintf("%.4g ± %.3g  n=%d", sum.Mean, sum.StdDev, sum.Count)
		}
		mark := ""
		if sum.Excluded > 0 {
			mark = red.Render(fmt.Sprintf("  (%d excluded)", sum.Excluded))
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-22s", name)) + green.Render(val) + mark + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-22s", name)) + dim.Render(val) + mark + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter plot   esc back") + "\n")
	return b.String()
}

func (m model) viewPlot() string {
	var b strings.Builder

	name := m.paramNames[m.paramCursor]
	b.WriteString("\n      " + cyan.Render(name) + "  " + dim.Render("per trial") + "\n\n")

	var series []float64
	var labels []string
	for _, rec := range m.records {
		v, ok := rec.Get(name)
		if !ok || !v.Valid {
			continue
		}
		series = append(series, v.V)
		labels = append(labels, rec.Sample+"/"+rec.Trial)
	}

	if len(series) < 2 {
		b.WriteString(dim.Render("      fewer than two valid trials to plot") + "\n")
	} else {
		width := m.width - 20
		if width < 40 {
			width = 40
		}
		graph := asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(width),
			asciigraph.Caption(name))
		for _, line := range strings.Split(graph, "\n") {
			b.WriteString("      " + line + "\n")
		}
		b.WriteString("\n")
		for i, label := range labels {
			b.WriteString(dim.Render(fmt.Sprintf("      %2d  %s", i+1, label)) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      esc back   q records") + "\n")
	return b.String()
}

// Browse opens the interactive results browser over the given store.
func Browse(store *storage.Store) error {
	m, err := newModel(store)
	if err != nil {
		return err
	}
	p := tea.NewProgram(*m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
