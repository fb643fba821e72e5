package strategy

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/idilsaglam/todo/internal/protocol"
	"github.com/idilsaglam/todo/internal/ui"
)

// TUI runs the dialog inside a Bubble Tea program: a scrolling transcript
// above a single line input. Enter submits the line tagged with the most
// recent prompt; input is ignored until the greeting is done and while an
// answer is being processed.
type TUI struct {
	Hooks

	palette *ui.Palette
	log     *log.Logger
	opts    []tea.ProgramOption

	// Commands run on their own goroutines; hooks are serialized here.
	dispatch sync.Mutex

	mu      sync.Mutex
	program *tea.Program
	ended   bool
}

type (
	outputMsg   protocol.Message
	answeredMsg struct{}
)

func NewTUI(palette *ui.Palette, logger *log.Logger, opts ...tea.ProgramOption) *TUI {
	return &TUI{
		palette: palette,
		log:     logger.With("strategy", "tui"),
		opts:    opts,
	}
}

func (t *TUI) Send(msg protocol.Message) {
	t.mu.Lock()
	p, ended := t.program, t.ended
	t.mu.Unlock()
	if p == nil || ended {
		return
	}
	p.Send(outputMsg(msg))
}

func (t *TUI) End() {
	t.mu.Lock()
	if t.ended {
		t.mu.Unlock()
		return
	}
	t.ended = true
	p := t.program
	t.mu.Unlock()
	if p != nil {
		p.Quit()
	}
	t.log.Debug("ended")
}

func (t *TUI) emit(fn func()) {
	t.dispatch.Lock()
	defer t.dispatch.Unlock()
	fn()
}

func (t *TUI) Run(ctx context.Context) error {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, t.opts...)
	p := tea.NewProgram(newTUIModel(t), opts...)

	t.mu.Lock()
	if t.ended {
		t.mu.Unlock()
		return nil
	}
	t.program = p
	t.mu.Unlock()

	_, err := p.Run()
	t.mu.Lock()
	t.ended = true
	t.mu.Unlock()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

var (
	submitKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	scrollKey = key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdown", "scroll"))
	quitKey   = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit"))
)

type tuiModel struct {
	s          *TUI
	vp         viewport.Model
	ti         textinput.Model
	transcript *strings.Builder
	tag        protocol.Tag
	busy       bool
	ready      bool
}

func newTUIModel(s *TUI) tuiModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type an answer and press enter"
	ti.CharLimit = 200
	ti.Focus()
	return tuiModel{
		s:          s,
		ti:         ti,
		transcript: &strings.Builder{},
		busy:       true,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg {
		m.s.emit(m.s.EmitConnect)
		return answeredMsg{}
	})
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		// Frame border + padding take 4 columns, input and help take 4 rows.
		w, h := max(x.Width-4, 10), max(x.Height-6, 3)
		if !m.ready {
			m.vp = viewport.New(w, h)
			m.ready = true
		} else {
			m.vp.Width, m.vp.Height = w, h
		}
		m.ti.Width = w - len(m.ti.Prompt) - 1
		m.refresh()
		return m, nil

	case outputMsg:
		m.transcript.WriteString(x.Text)
		if x.Type != protocol.Undefined {
			m.tag = x.Type
		}
		m.refresh()
		return m, nil

	case answeredMsg:
		m.busy = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(x, quitKey):
			return m, tea.Sequence(func() tea.Msg {
				m.s.emit(m.s.EmitDisconnect)
				return nil
			}, tea.Quit)
		case key.Matches(x, submitKey):
			if m.busy {
				return m, nil
			}
			answer := protocol.Message{Text: m.ti.Value(), Type: m.tag}
			m.transcript.WriteString(answer.Text + "\n")
			m.ti.Reset()
			m.busy = true
			m.refresh()
			return m, func() tea.Msg {
				m.s.emit(func() { m.s.EmitMessage(answer) })
				return answeredMsg{}
			}
		case key.Matches(x, scrollKey):
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *tuiModel) refresh() {
	if !m.ready {
		return
	}
	m.vp.SetContent(m.transcript.String())
	m.vp.GotoBottom()
}

func (m tuiModel) View() string {
	if !m.ready {
		return "loading..."
	}
	var parts []string
	for _, b := range []key.Binding{submitKey, scrollKey, quitKey} {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	help := m.s.palette.Colorize(strings.Join(parts, " • "), ui.RoleMuted)
	if m.busy {
		help = m.s.palette.Colorize("working...", ui.RoleMuted)
	}
	return m.s.palette.Panel([]string{m.vp.View(), "", m.ti.View(), help})
}
