package dialog

import (
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todo/internal/protocol"
	"github.com/idilsaglam/todo/internal/store/memstore"
	"github.com/idilsaglam/todo/internal/strategy"
	"github.com/idilsaglam/todo/internal/ui"
)

type recorder struct {
	strategy.Hooks
	sent   []protocol.Message
	prompt protocol.Message
	ended  int
}

func (r *recorder) Send(msg protocol.Message) {
	r.sent = append(r.sent, msg)
	if msg.Tagged() {
		r.prompt = msg
	}
}

func (r *recorder) End() { r.ended++ }

func (r *recorder) Run(context.Context) error { return nil }

// reset forgets the transcript but keeps the latest prompt.
func (r *recorder) reset() { r.sent = nil }

func (r *recorder) last() protocol.Message { return r.sent[len(r.sent)-1] }

func (r *recorder) lastPrompt() protocol.Message { return r.prompt }

func (r *recorder) transcript() string {
	var b strings.Builder
	for _, msg := range r.sent {
		b.WriteString(msg.Text)
	}
	return b.String()
}

type session struct {
	t    *testing.T
	m    *Manager
	rec  *recorder
	list *memstore.List
}

func newSession(t *testing.T, seed ...string) *session {
	t.Helper()
	list := memstore.New()
	for _, d := range seed {
		list.Add(d)
	}
	rec := &recorder{}
	m := New(rec, list, WithLogger(log.New(io.Discard)))
	rec.EmitConnect()
	return &session{t: t, m: m, rec: rec, list: list}
}

// answer replies to the latest prompt and checks the new prompt matches the state.
func (s *session) answer(texts ...string) {
	s.t.Helper()
	for _, text := range texts {
		s.rec.EmitMessage(protocol.Prompt(text, s.rec.lastPrompt().Type))
		require.Equal(s.t, s.m.State().Tag(), s.rec.lastPrompt().Type, "after answering %q", text)
	}
}

func TestStartGreetsAndShowsWelcome(t *testing.T) {
	s := newSession(t)

	out := s.rec.transcript()
	require.True(t, strings.HasPrefix(out, "\nHello and welcome to my TODO List app!\n\n"))
	require.Contains(t, out, "[1]: View all todos\n[2]: Add a todo\n[3]: Exit\n")
	require.Equal(t, Welcome, s.m.State())
	require.Equal(t, protocol.Prompt(enterOptionText, protocol.WelcomeChoose), s.rec.last())
}

func TestInvalidWelcomeAnswerRepromptsSameState(t *testing.T) {
	for _, answer := range []string{"", "0", "4", "x", " 1", "1 "} {
		t.Run(answer, func(t *testing.T) {
			s := newSession(t)
			before := s.rec.lastPrompt()
			s.rec.reset()

			s.answer(answer)

			require.Equal(t, Welcome, s.m.State())
			require.Equal(t, []protocol.Message{protocol.Text(invalidOptionText), before}, s.rec.sent)
		})
	}
}

func TestAddThenViewAll(t *testing.T) {
	s := newSession(t)

	s.answer("2")
	require.Equal(t, AddDescription, s.m.State())
	s.answer("Buy milk")
	require.Equal(t, Welcome, s.m.State())
	require.Contains(t, s.rec.transcript(), "Todo successfully added!")

	s.rec.reset()
	s.answer("1")
	out := s.rec.transcript()
	require.Equal(t, 1, strings.Count(out, "[1]: "))
	require.Contains(t, out, "[1]: Buy milk - Active\n")
	require.Contains(t, out, "[0]: Go back\n")
	require.Equal(t, ViewAll, s.m.State())
}

func TestAddTrimsDescription(t *testing.T) {
	s := newSession(t)
	s.answer("2", "  Call mom \t")

	td, ok := s.list.At(0)
	require.True(t, ok)
	require.Equal(t, "Call mom", td.Description)
}

func TestEmptyDescriptionIsRejected(t *testing.T) {
	s := newSession(t)
	s.answer("2")
	prompt := s.rec.lastPrompt()

	for _, answer := range []string{"", "   "} {
		s.rec.reset()
		s.answer(answer)
		require.Equal(t, AddDescription, s.m.State())
		require.Equal(t, []protocol.Message{protocol.Text(emptyDescriptionText), prompt}, s.rec.sent)
	}
	require.Zero(t, s.list.Len())
}

func TestViewAllEmptyList(t *testing.T) {
	s := newSession(t)
	s.answer("1")
	require.Contains(t, s.rec.transcript(), noTodosText+"[0]: Go back\n")

	s.rec.reset()
	s.answer("1")
	require.Equal(t, ViewAll, s.m.State())
	require.Equal(t, invalidOptionText, s.rec.sent[0].Text)

	s.answer("0")
	require.Equal(t, Welcome, s.m.State())
}

func TestViewAllIndexBounds(t *testing.T) {
	s := newSession(t, "first", "second")
	s.answer("1")

	for _, answer := range []string{"3", "-1", "abc", "1.5", ""} {
		s.rec.reset()
		s.answer(answer)
		require.Equal(t, ViewAll, s.m.State(), answer)
		require.Equal(t, invalidOptionText, s.rec.sent[0].Text, answer)
	}

	s.answer("2")
	require.Equal(t, EditMenu, s.m.State())
	td, ok := s.m.Selected()
	require.True(t, ok)
	require.Equal(t, "second", td.Description)
	require.Contains(t, s.rec.transcript(), "\nSelected: second - Active\n\n")
}

func TestGoBackFromEditMenuClearsSelection(t *testing.T) {
	s := newSession(t, "a")
	s.answer("1", "1")
	require.NotEmpty(t, s.m.SelectedID())

	s.answer("0")
	require.Equal(t, ViewAll, s.m.State())
	require.Empty(t, s.m.SelectedID())
}

func TestToggleCompleted(t *testing.T) {
	s := newSession(t, "a")
	s.answer("1", "1", "2")
	require.Equal(t, ConfirmToggle, s.m.State())
	require.Equal(t, "\nAre you sure you want to mark the \"a\" as Completed? [y/n]\n\n", s.rec.lastPrompt().Text)

	s.answer("Y")
	require.Equal(t, ViewAll, s.m.State())
	require.Contains(t, s.rec.transcript(), "Todo successfully marked as Completed!")
	td, _ := s.list.At(0)
	require.True(t, td.Completed)

	s.answer("1", "2")
	require.Contains(t, s.rec.lastPrompt().Text, "as Active?")
	s.answer("y")
	td, _ = s.list.At(0)
	require.False(t, td.Completed)
}

func TestConfirmRejectsAnythingButYesOrNo(t *testing.T) {
	s := newSession(t, "a")
	s.answer("1", "1", "3")
	prompt := s.rec.lastPrompt()

	for _, answer := range []string{"yes", "", "yy", "1"} {
		s.rec.reset()
		s.answer(answer)
		require.Equal(t, ConfirmDelete, s.m.State())
		require.Equal(t, []protocol.Message{protocol.Text(invalidOptionText), prompt}, s.rec.sent)
	}

	s.answer("N")
	require.Equal(t, EditMenu, s.m.State())
	require.Equal(t, 1, s.list.Len())
}

func TestDeleteRemovesSelectedAmongDuplicates(t *testing.T) {
	s := newSession(t, "x", "x")
	keep, _ := s.list.At(0)

	s.answer("1", "2", "3")
	require.Equal(t, "\nAre you sure you want to delete the \"x\"? [y/n]\n\n", s.rec.lastPrompt().Text)
	s.answer("y")

	require.Equal(t, ViewAll, s.m.State())
	require.Empty(t, s.m.SelectedID())
	require.Contains(t, s.rec.transcript(), "Todo successfully deleted!")
	all := s.list.All()
	require.Len(t, all, 1)
	require.Equal(t, keep.ID, all[0].ID)
}

func TestEditDescription(t *testing.T) {
	s := newSession(t, "old")
	s.answer("1", "1", "1")
	require.Equal(t, EditDescription, s.m.State())

	s.rec.reset()
	s.answer("")
	require.Equal(t, EditDescription, s.m.State())
	require.Equal(t, emptyDescriptionText, s.rec.sent[0].Text)

	s.answer("new")
	require.Equal(t, ViewAll, s.m.State())
	require.Contains(t, s.rec.transcript(), "[1]: new - Active\n")
	td, _ := s.list.At(0)
	require.Equal(t, "new", td.Description)
}

func TestStaleSelectionFallsBackToViewAll(t *testing.T) {
	for _, path := range [][]string{
		{"1", "1"},
		{"1", "1", "1"},
		{"1", "1", "2"},
		{"1", "1", "3"},
	} {
		s := newSession(t, "gone", "stays")
		s.answer(path...)
		td, ok := s.m.Selected()
		require.True(t, ok)
		require.NoError(t, s.list.Remove(td.ID))

		s.rec.reset()
		s.answer("y")

		require.Equal(t, ViewAll, s.m.State(), path)
		require.Empty(t, s.m.SelectedID())
		out := s.rec.transcript()
		require.Contains(t, out, staleSelectionText)
		require.Contains(t, out, "[1]: stays - Active\n")
		require.Equal(t, 1, s.list.Len())
	}
}

func TestExitSaysByeAndEnds(t *testing.T) {
	s := newSession(t)
	s.answer("3")

	require.Equal(t, Exited, s.m.State())
	require.Equal(t, protocol.Prompt("Exiting.. Bye!\n\n", protocol.Bye), s.rec.last())
	require.Equal(t, 1, s.rec.ended)

	s.rec.reset()
	s.rec.EmitMessage(protocol.Prompt("1", protocol.WelcomeChoose))
	require.Empty(t, s.rec.sent)
	require.Equal(t, Exited, s.m.State())
}

func TestUnknownTagsAreIgnored(t *testing.T) {
	s := newSession(t)
	s.rec.reset()

	s.rec.EmitMessage(protocol.Text("1"))
	s.rec.EmitMessage(protocol.Prompt("1", protocol.Tag("NOT_A_TAG")))

	require.Empty(t, s.rec.sent)
	require.Equal(t, Welcome, s.m.State())
}

func TestLifecycleTagsAreNotAnswers(t *testing.T) {
	for _, tag := range []protocol.Tag{protocol.Bye, protocol.Connected, protocol.Disconnected} {
		t.Run(string(tag), func(t *testing.T) {
			s := newSession(t)
			s.rec.reset()

			s.rec.EmitMessage(protocol.Prompt("3", tag))

			require.Empty(t, s.rec.sent)
			require.Equal(t, Welcome, s.m.State())
			require.Zero(t, s.rec.ended)
		})
	}
}

func TestConfirmPromptsHighlightDescription(t *testing.T) {
	list := memstore.New()
	list.Add("water plants")
	rec := &recorder{}
	palette := ui.NewPalette(ui.LookupTheme("classic"), io.Discard, ui.ColorAlways)
	m := New(rec, list, WithPalette(palette), WithLogger(log.New(io.Discard)))
	rec.EmitConnect()
	s := &session{t: t, m: m, rec: rec, list: list}

	want := palette.Colorize("water plants", ui.RoleWarning)
	require.NotEqual(t, "water plants", want)

	s.answer("1", "1", "3")
	require.Contains(t, s.rec.lastPrompt().Text, "\""+want+"\"")

	s.answer("n", "2")
	require.Contains(t, s.rec.lastPrompt().Text, "\""+want+"\"")
}

func TestAnswerAppliesToCurrentStateRegardlessOfTag(t *testing.T) {
	s := newSession(t)
	s.rec.EmitMessage(protocol.Prompt("2", protocol.ViewAllChoose))
	require.Equal(t, AddDescription, s.m.State())
}

func TestDisconnectEndsAndReconnectStartsOver(t *testing.T) {
	s := newSession(t, "kept")
	s.answer("1", "1")

	s.rec.EmitDisconnect()
	require.Equal(t, Exited, s.m.State())
	require.Empty(t, s.m.SelectedID())
	require.Equal(t, 1, s.rec.ended)

	s.rec.reset()
	s.rec.EmitConnect()
	require.Equal(t, Welcome, s.m.State())
	require.Contains(t, s.rec.transcript(), "welcome to my TODO List app")
	require.Equal(t, 1, s.list.Len())
}

func TestStateTagsRoundTrip(t *testing.T) {
	for s := Welcome; s <= Exited; s++ {
		require.Equal(t, s != Exited, s.Tag().Answer(), s.String())
		got, ok := stateForTag(s.Tag())
		require.True(t, ok)
		require.Equal(t, s, got)
	}
	_, ok := stateForTag(protocol.Undefined)
	require.False(t, ok)
}

func TestDeleteOnlyTodoShowsEmptyList(t *testing.T) {
	s := newSession(t, "lonely")
	s.answer("1", "1", "3", "y")

	require.Zero(t, s.list.Len())
	require.Contains(t, s.rec.transcript(), "Todo successfully deleted!\n\n\nAvailable todos:\n\n"+noTodosText)
}

func TestViewAllBackLeavesListUntouched(t *testing.T) {
	s := newSession(t, "a", "b", "c")
	before := s.list.All()

	s.answer("1", "0")
	require.Equal(t, Welcome, s.m.State())
	require.Equal(t, before, s.list.All())

	s.answer("1", "2")
	require.Equal(t, EditMenu, s.m.State())
	require.Equal(t, before[1].ID, s.m.SelectedID())
}

// Two clients answering from divergent views may both mutate the list; the
// list itself must stay consistent.
func TestInterleavedAnswersKeepListConsistent(t *testing.T) {
	s := newSession(t, "seed")
	rng := rand.New(rand.NewPCG(1, 2))
	answers := []string{"0", "1", "2", "3", "y", "n", "task", ""}
	tags := []protocol.Tag{
		protocol.WelcomeChoose, protocol.ViewAllChoose, protocol.EditTodoChoose,
		protocol.AddTodo, protocol.DeleteTodoConfirm, protocol.ToggleCompleted,
	}

	for i := 0; i < 500; i++ {
		if s.m.State() == Exited {
			s.rec.EmitConnect()
		}
		answer := answers[rng.IntN(len(answers))]
		s.rec.EmitMessage(protocol.Prompt(answer, tags[rng.IntN(len(tags))]))

		ids := map[string]bool{}
		for _, td := range s.list.All() {
			require.False(t, ids[td.ID], "duplicate id %s", td.ID)
			require.NotEmpty(t, strings.TrimSpace(td.Description))
			ids[td.ID] = true
		}
		if id := s.m.SelectedID(); id != "" {
			require.True(t, ids[id], "selection points at a missing todo")
		}
		require.Equal(t, s.m.State().Tag(), s.rec.lastPrompt().Type)
	}
}
