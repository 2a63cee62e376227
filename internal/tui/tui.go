// Package tui is the interactive terminal front-end for a promptrelay gateway.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jxucoder/promptrelay/pkg/client"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2563eb"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ca3af"))

	resultStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#d1d5db")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#dc2626"))
)

// settledMsg carries the outcome of one completion call.
type settledMsg struct {
	text string
	err  error
}

// Model is the bubbletea model driving a client.Form.
type Model struct {
	completer client.Completer
	timeout   time.Duration
	form      *client.Form
	input     textinput.Model
	spinner   spinner.Model
	width     int
}

// New returns a Model that submits prompts through c. Each call is bounded
// by timeout when positive.
func New(c client.Completer, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter your prompt..."
	ti.Focus()
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		completer: c,
		timeout:   timeout,
		form:      client.NewForm(),
		input:     ti,
		spinner:   sp,
	}
}

// Form exposes the submission state machine.
func (m Model) Form() *client.Form { return m.form }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if err := m.form.Begin(); err != nil {
				// Submit is disabled while pending.
				return m, nil
			}
			return m, tea.Batch(m.spinner.Tick, m.completeCmd(m.input.Value()))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case settledMsg:
		m.form.Settle(msg.text, msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.form.State() != client.Pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) completeCmd(prompt string) tea.Cmd {
	c, timeout := m.completer, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		text, err := c.Complete(ctx, prompt)
		return settledMsg{text: text, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("promptrelay"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch m.form.State() {
	case client.Pending:
		b.WriteString(m.spinner.View() + " Generating...")
		b.WriteString("\n")
	case client.Settled:
		b.WriteString(titleStyle.Render("Result:"))
		b.WriteString("\n")
		if m.form.Err() != nil {
			b.WriteString(resultStyle.Render(errorStyle.Render(m.form.Result())))
		} else {
			b.WriteString(resultStyle.Render(m.form.Result()))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.form.CanSubmit() {
		b.WriteString(helpStyle.Render("enter: generate response • esc: quit"))
	} else {
		b.WriteString(helpStyle.Render("waiting for response • esc: quit"))
	}
	return b.String() + "\n"
}
