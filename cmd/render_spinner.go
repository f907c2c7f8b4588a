package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	treeSpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	treeElapsedStyle = lipgloss.NewStyle().Faint(true)
	treeFailedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type treeRenderedMsg struct {
	image []byte
	err   error
}

// treeProgress shows a spinner with the ornament count and elapsed time
// while a tree is composed, then a one-line summary.
type treeProgress struct {
	spinner   spinner.Model
	ornaments int
	started   time.Time
	elapsed   time.Duration
	render    tea.Cmd
	result    *treeRenderedMsg
}

func (m treeProgress) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.render)
}

func (m treeProgress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.elapsed = time.Since(m.started)
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case treeRenderedMsg:
		m.elapsed = time.Since(m.started)
		m.result = &msg
		return m, tea.Quit
	}
	return m, nil
}

func (m treeProgress) View() string {
	elapsed := treeElapsedStyle.Render(m.elapsed.Round(100 * time.Millisecond).String())
	switch {
	case m.result == nil:
		return fmt.Sprintf("%s Decorating the tree with %d ornaments %s", m.spinner.View(), m.ornaments, elapsed)
	case m.result.err != nil:
		return treeFailedStyle.Render("✗ decoration failed") + " " + elapsed + "\n"
	default:
		return fmt.Sprintf("🎄 tree decorated, %d bytes %s\n", len(m.result.image), elapsed)
	}
}

func runRenderSpinner(ctx context.Context, output io.Writer, ornaments int, render func(context.Context) ([]byte, error)) ([]byte, error) {
	model := treeProgress{
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(treeSpinnerStyle)),
		ornaments: ornaments,
		started:   time.Now(),
		render: func() tea.Msg {
			image, err := render(ctx)
			return treeRenderedMsg{image: image, err: err}
		},
	}

	final, err := tea.NewProgram(model,
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		return nil, err
	}

	done, ok := final.(treeProgress)
	if !ok || done.result == nil {
		return nil, fmt.Errorf("tree render did not finish")
	}
	return done.result.image, done.result.err
}
