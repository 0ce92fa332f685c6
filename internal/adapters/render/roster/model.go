// Package roster renders saved accounts and their contact lists for the
// terminal.
package roster

import (
	"errors"
	"io"

	"github.com/bnema/okc-cli/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

// renderedMsg carries the finished view from the render command.
type renderedMsg string

type model struct {
	statuses []application.Status
	opts     RenderOptions
	output   string
	done     bool
}

func (m model) Init() tea.Cmd {
	statuses, opts := m.statuses, m.opts
	return func() tea.Msg {
		return renderedMsg(renderView(statuses, opts, newStyles()))
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if rendered, ok := msg.(renderedMsg); ok {
		m.output = string(rendered)
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	return m.output
}

// Render lays out the statuses once and returns the text.
func Render(statuses []application.Status, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		model{statuses: statuses, opts: opts},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	final, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := final.(model)
	if !ok || !rendered.done {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
