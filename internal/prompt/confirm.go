package prompt

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// ConfirmModel is a single-question bubbletea model. Only y or Y confirms;
// every other key, including enter, declines.
type ConfirmModel struct {
	Question  string
	Answered  bool
	Confirmed bool
}

// NewConfirmModel returns an unanswered model.
func NewConfirmModel(question string) ConfirmModel {
	return ConfirmModel{Question: question}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.Answered {
		return m, nil
	}

	m.Answered = true
	m.Confirmed = key.String() == "y" || key.String() == "Y"

	return m, tea.Quit
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.Answered {
		answer := "no"
		if m.Confirmed {
			answer = "yes"
		}

		return fmt.Sprintf("%s %s\n", questionStyle.Render(m.Question), answer)
	}

	return fmt.Sprintf("%s %s ", questionStyle.Render(m.Question), hintStyle.Render("[y/N]"))
}

// Terminal asks questions on the given input and output streams.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal binds a Confirmer to in and out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Confirm runs the prompt until the operator answers or ctx is cancelled.
// A cancelled or interrupted prompt counts as a refusal.
func (t *Terminal) Confirm(ctx context.Context, question string) (bool, error) {
	program := tea.NewProgram(
		NewConfirmModel(question),
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)

	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}

	model, ok := final.(ConfirmModel)
	if !ok {
		return false, nil
	}

	return model.Confirmed, nil
}

// Static answers every question the same way; used for --yes.
type Static bool

// Confirm implements Confirmer.
func (s Static) Confirm(context.Context, string) (bool, error) {
	return bool(s), nil
}
