package strategy

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/idilsaglam/todo/internal/protocol"
	"github.com/idilsaglam/todo/internal/ui"
	"github.com/stretchr/testify/require"
)

// sized returns a model that has a window and finished the greeting.
func sized(t *testing.T, s *TUI) tuiModel {
	t.Helper()
	m, _ := newTUIModel(s).Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = m.Update(answeredMsg{})
	return m.(tuiModel)
}

func TestTUIOutputAppendsTranscriptAndTracksTag(t *testing.T) {
	s := NewTUI(ui.Plain(), discardLogger())
	m := sized(t, s)

	next, _ := m.Update(outputMsg(protocol.Text("Hello\n")))
	next, _ = next.Update(outputMsg(protocol.Prompt("pick\n", protocol.WelcomeChoose)))
	m = next.(tuiModel)

	require.Equal(t, "Hello\npick\n", m.transcript.String())
	require.Equal(t, protocol.WelcomeChoose, m.tag)
	require.Contains(t, m.View(), "pick")
}

func TestTUIEnterSubmitsTaggedAnswerOnce(t *testing.T) {
	s := NewTUI(ui.Plain(), discardLogger())
	var got []protocol.Message
	s.OnMessage(func(msg protocol.Message) { got = append(got, msg) })

	m := sized(t, s)
	next, _ := m.Update(outputMsg(protocol.Prompt("describe\n", protocol.AddTodo)))
	m = next.(tuiModel)
	m.ti.SetValue("Buy milk")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(tuiModel)
	require.True(t, m.busy)
	require.NotNil(t, cmd)

	// A second enter while the first answer is in flight is ignored.
	_, again := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, again)

	require.Equal(t, answeredMsg{}, cmd())
	require.Equal(t, []protocol.Message{{Text: "Buy milk", Type: protocol.AddTodo}}, got)

	next, _ = m.Update(answeredMsg{})
	require.False(t, next.(tuiModel).busy)
}

func TestTUIInitConnectsBeforeAcceptingInput(t *testing.T) {
	s := NewTUI(ui.Plain(), discardLogger())
	connected := 0
	s.OnConnect(func() { connected++ })

	m := newTUIModel(s)
	require.True(t, m.busy)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	_, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)

	batch, ok := m.Init()().(tea.BatchMsg)
	require.True(t, ok)
	var results []tea.Msg
	for _, c := range batch {
		if c != nil {
			results = append(results, c())
		}
	}
	require.Equal(t, 1, connected)
	require.Contains(t, results, tea.Msg(answeredMsg{}))
}

func TestTUISendBeforeRunIsDropped(t *testing.T) {
	s := NewTUI(ui.Plain(), discardLogger())
	require.NotPanics(t, func() {
		s.Send(protocol.Text("nobody listening"))
		s.End()
		s.End()
	})
}
