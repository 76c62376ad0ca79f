package prompt

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

// TestConfirmModelYes confirms on y and quits.
func TestConfirmModelYes(t *testing.T) {
	t.Parallel()

	m := NewConfirmModel("Purge everything?")
	require.Contains(t, m.View(), "[y/N]")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)

	final := updated.(ConfirmModel)
	require.True(t, final.Answered)
	require.True(t, final.Confirmed)
	require.Contains(t, final.View(), "yes")
}

// TestConfirmModelDeclines treats any other key as a refusal.
func TestConfirmModelDeclines(t *testing.T) {
	t.Parallel()

	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("n")},
		{Type: tea.KeyRunes, Runes: []rune("x")},
		{Type: tea.KeyEnter},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		updated, cmd := NewConfirmModel("Purge?").Update(msg)
		require.NotNil(t, cmd)

		final := updated.(ConfirmModel)
		require.True(t, final.Answered)
		require.False(t, final.Confirmed, msg.String())
	}
}

// TestConfirmModelIgnoresLaterKeys keeps the first answer.
func TestConfirmModelIgnoresLaterKeys(t *testing.T) {
	t.Parallel()

	m, _ := NewConfirmModel("Purge?").Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.Nil(t, cmd)
	require.False(t, m.(ConfirmModel).Confirmed)
}

// TestStatic answers without prompting.
func TestStatic(t *testing.T) {
	t.Parallel()

	ok, err := Static(true).Confirm(context.Background(), "Purge?")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Static(false).Confirm(context.Background(), "Purge?")
	require.NoError(t, err)
	require.False(t, ok)
}
