package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/brn.go/brn"
	"github.com/sokinpui/brn.go/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Job is the work the model runs while the spinner is shown.
type Job func() (model.Summary, error)

// --- Messages ---
type summaryMsg struct {
	model.Summary
	err error
}

type progressMsg struct {
	current, total int
}

// --- Model ---
type Model struct {
	app      *brn.App
	job      Job
	title    string
	spinner  spinner.Model
	progress progress.Model
	current  int
	total    int
	state    state
	summary  model.Summary
	err      error
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

// New creates a model that runs job with a spinner and a progress bar.
func New(app *brn.App, title string, job Job) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		app:      app,
		job:      job,
		title:    title,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		state:    stateProcessing,
	}
}

// SetProgram routes the app's progress updates into p.
func (m *Model) SetProgram(p *tea.Program) {
	m.app.SetProgressCallback(func(current, total int) {
		p.Send(progressMsg{current: current, total: total})
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The batch cannot be interrupted; keys are ignored until it ends.
		return m, nil

	case progressMsg:
		m.current, m.total = msg.current, msg.total
		return m, nil

	case summaryMsg:
		m.summary = msg.Summary
		if msg.err != nil {
			m.state = stateError
			m.err = msg.err
		} else {
			m.state = stateSummary
		}
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		if m.total == 0 {
			return fmt.Sprintf("%s %s...", m.spinner.View(), m.title)
		}
		percent := float64(m.current) / float64(m.total)
		return fmt.Sprintf("%s %s %s [%d/%d]\n", m.spinner.View(), m.title,
			m.progress.ViewAs(percent), m.current, m.total)
	case stateError:
		return m.renderSummary() + errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

// Err returns the job error after the program finished.
func (m Model) Err() error { return m.err }

func (m *Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n\n")
	}

	hasContent := false
	if len(m.summary.Renamed) > 0 {
		hasContent = true
		b.WriteString(successStyle.Render("Renamed:"))
		b.WriteString("\n")
		for _, p := range m.summary.Renamed {
			b.WriteString(fmt.Sprintf("  %s → %s\n", pathStyle.Render(p.Old), pathStyle.Render(p.New)))
		}
	}
	if len(m.summary.Unchanged) > 0 {
		hasContent = true
		b.WriteString(faintStyle.Render(fmt.Sprintf("Unchanged: %d file(s)", len(m.summary.Unchanged))))
		b.WriteString("\n")
	}
	if len(m.summary.Failed) > 0 {
		hasContent = true
		b.WriteString(errorStyle.Render("Failed:"))
		b.WriteString("\n")
		for _, f := range m.summary.Failed {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}

	if !hasContent && m.summary.Message == "" {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) run() tea.Msg {
	summary, err := m.job()
	return summaryMsg{Summary: summary, err: err}
}

// Run executes job under a bubbletea program and returns its error.
func Run(app *brn.App, title string, job Job) error {
	m := New(app, title, job)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	m.SetProgram(p)
	defer app.SetProgressCallback(nil)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
