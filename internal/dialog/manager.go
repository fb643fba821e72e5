// Package dialog drives the todo menu flow. A Manager owns one session at a
// time: it renders prompts through a strategy, validates the answers that come
// back and applies them to the shared todo list.
package dialog

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/protocol"
	"github.com/idilsaglam/todo/internal/store/memstore"
	"github.com/idilsaglam/todo/internal/strategy"
	"github.com/idilsaglam/todo/internal/ui"
)

// Manager is the dialog engine. It is not safe for concurrent use; strategies
// never invoke hooks concurrently.
type Manager struct {
	io      strategy.Strategy
	todos   *memstore.List
	palette *ui.Palette
	log     *log.Logger

	state      State
	selectedID string
}

type Option func(*Manager)

// WithPalette sets the palette used to style outgoing text.
func WithPalette(p *ui.Palette) Option {
	return func(m *Manager) { m.palette = p }
}

func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// New creates a Manager and registers its hooks on s. No session is active
// until the strategy reports a connection.
func New(s strategy.Strategy, todos *memstore.List, opts ...Option) *Manager {
	m := &Manager{
		io:      s,
		todos:   todos,
		palette: ui.Plain(),
		log:     log.Default(),
		state:   Exited,
	}
	for _, opt := range opts {
		opt(m)
	}
	s.OnConnect(m.Start)
	s.OnDisconnect(m.disconnect)
	s.OnMessage(m.Handle)
	return m
}

// State reports the current step of the session.
func (m *Manager) State() State { return m.state }

func (m *Manager) SelectedID() string { return m.selectedID }

// Selected resolves the current selection against the list.
func (m *Manager) Selected() (model.Todo, bool) {
	if m.selectedID == "" {
		return model.Todo{}, false
	}
	return m.todos.Get(m.selectedID)
}

// Start begins a fresh session: greeting, then the welcome menu.
func (m *Manager) Start() {
	m.log.Debug("session started")
	m.send(fmt.Sprintf("\n%s and welcome to my %s app!\n\n",
		m.palette.Colorize("Hello", ui.RoleWarning),
		m.palette.Colorize("TODO List", ui.RoleDanger)))
	m.welcome()
}

// Handle applies one answer to the current state. Messages that are not
// tagged as an answer to a prompt, and answers received outside a session,
// are dropped.
func (m *Manager) Handle(msg protocol.Message) {
	if !msg.Type.Answer() {
		m.log.Debug("ignoring message without an answer tag", "type", string(msg.Type))
		return
	}
	if m.state == Exited {
		m.log.Debug("ignoring answer outside a session", "type", string(msg.Type))
		return
	}
	if asked, _ := stateForTag(msg.Type); asked != m.state {
		m.log.Debug("answer is for an earlier prompt", "answered", asked, "state", m.state)
	}

	switch m.state {
	case Welcome:
		m.answerWelcome(msg.Text)
	case ViewAll:
		m.answerViewAll(msg.Text)
	case EditMenu:
		m.answerEditMenu(msg.Text)
	case ConfirmDelete:
		m.answerConfirmDelete(msg.Text)
	case ConfirmToggle:
		m.answerConfirmToggle(msg.Text)
	case EditDescription:
		m.answerEditDescription(msg.Text)
	case AddDescription:
		m.answerAddDescription(msg.Text)
	}
}

func (m *Manager) disconnect() {
	if m.state != Exited {
		m.log.Debug("session dropped", "state", m.state)
	}
	m.state = Exited
	m.selectedID = ""
	m.io.End()
}

func (m *Manager) send(text string) { m.io.Send(protocol.Text(text)) }

// prompt returns the tagged message that asks for the current state's answer.
func (m *Manager) prompt() protocol.Message {
	var text string
	switch m.state {
	case Welcome, ViewAll, EditMenu:
		text = enterOptionText
	case ConfirmDelete:
		td, _ := m.Selected()
		text = fmt.Sprintf("\nAre you sure you want to delete the \"%s\"? [y/n]\n\n",
			m.palette.Colorize(td.Description, ui.RoleWarning))
	case ConfirmToggle:
		td, _ := m.Selected()
		text = fmt.Sprintf("\nAre you sure you want to mark the \"%s\" as %s? [y/n]\n\n",
			m.palette.Colorize(td.Description, ui.RoleWarning), m.palette.StatusText(!td.Completed))
	case EditDescription:
		text = "\nEnter the todo description\n\n"
	case AddDescription:
		text = m.palette.Colorize("Enter the todo description", ui.RoleWarning) + "\n"
	case Exited:
		text = m.palette.Colorize("Exiting.. Bye!", ui.RoleWarning) + "\n\n"
	}
	return protocol.Prompt(text, m.state.Tag())
}

// retry reports a rejected answer and asks again without changing state.
func (m *Manager) retry(notice string) {
	m.log.Debug("answer rejected", "state", m.state)
	m.send(notice)
	m.io.Send(m.prompt())
}

type menuOption struct {
	key   string
	label string
	next  func()
}

func (m *Manager) renderMenu(options []menuOption) {
	for _, o := range options {
		m.send(m.palette.Option(o.key, o.label) + "\n")
	}
	m.io.Send(m.prompt())
}

func (m *Manager) choose(options []menuOption, answer string) bool {
	for _, o := range options {
		if isMenuKey(answer, o.key) {
			o.next()
			return true
		}
	}
	return false
}

func (m *Manager) welcomeOptions() []menuOption {
	return []menuOption{
		{"1", "View all todos", m.viewAll},
		{"2", "Add a todo", m.addDescription},
		{"3", "Exit", m.exit},
	}
}

func (m *Manager) editOptions() []menuOption {
	return []menuOption{
		{"1", "Edit description", m.editDescription},
		{"2", "Toggle completed", m.confirmToggle},
		{"3", "Delete todo", m.confirmDelete},
		{goBackKey, "Go back", m.viewAll},
	}
}

func (m *Manager) welcome() {
	m.state = Welcome
	m.selectedID = ""
	m.renderMenu(m.welcomeOptions())
}

func (m *Manager) answerWelcome(answer string) {
	if !m.choose(m.welcomeOptions(), answer) {
		m.retry(invalidOptionText)
	}
}

func (m *Manager) viewAll() {
	m.state = ViewAll
	m.selectedID = ""

	m.send(m.palette.Colorize("\nAvailable todos:", ui.RoleWarning) + "\n\n")
	todos := m.todos.All()
	if len(todos) == 0 {
		m.send(noTodosText)
	}
	for i, td := range todos {
		m.send(m.palette.Todo(i+1, td) + "\n")
	}
	m.send(m.palette.Option(goBackKey, "Go back") + "\n")
	m.io.Send(m.prompt())
}

func (m *Manager) answerViewAll(answer string) {
	n, ok := parseDisplayIndex(answer, m.todos.Len())
	if !ok {
		m.retry(invalidOptionText)
		return
	}
	if n == 0 {
		m.welcome()
		return
	}
	td, ok := m.todos.At(n - 1)
	if !ok {
		m.retry(invalidOptionText)
		return
	}
	m.selectedID = td.ID
	m.editMenu()
}

// staleSelection handles a selection whose todo was removed elsewhere.
func (m *Manager) staleSelection() {
	m.log.Warn("selected todo is gone", "id", m.selectedID)
	m.send(staleSelectionText)
	m.viewAll()
}

func (m *Manager) editMenu() {
	td, ok := m.Selected()
	if !ok {
		m.staleSelection()
		return
	}
	m.state = EditMenu
	m.send(fmt.Sprintf("\n%s %s\n\n", m.palette.Colorize("Selected:", ui.RoleWarning), m.palette.Todo(0, td)))
	m.renderMenu(m.editOptions())
}

func (m *Manager) answerEditMenu(answer string) {
	if _, ok := m.Selected(); !ok {
		m.staleSelection()
		return
	}
	if !m.choose(m.editOptions(), answer) {
		m.retry(invalidOptionText)
	}
}

func (m *Manager) confirmDelete() {
	m.state = ConfirmDelete
	m.io.Send(m.prompt())
}

func (m *Manager) answerConfirmDelete(answer string) {
	td, ok := m.Selected()
	if !ok {
		m.staleSelection()
		return
	}
	if !isYesNo(answer) {
		m.retry(invalidOptionText)
		return
	}
	if !isYes(answer) {
		m.editMenu()
		return
	}
	if err := m.todos.Remove(td.ID); err != nil {
		m.staleSelection()
		return
	}
	m.log.Info("todo deleted", "id", td.ID)
	m.send(m.palette.Colorize("\nTodo successfully deleted!", ui.RoleSuccess) + "\n\n")
	m.viewAll()
}

func (m *Manager) confirmToggle() {
	m.state = ConfirmToggle
	m.io.Send(m.prompt())
}

func (m *Manager) answerConfirmToggle(answer string) {
	td, ok := m.Selected()
	if !ok {
		m.staleSelection()
		return
	}
	if !isYesNo(answer) {
		m.retry(invalidOptionText)
		return
	}
	if !isYes(answer) {
		m.editMenu()
		return
	}
	td, err := m.todos.Toggle(td.ID)
	if err != nil {
		m.staleSelection()
		return
	}
	m.log.Info("todo toggled", "id", td.ID, "completed", td.Completed)
	m.send(fmt.Sprintf("\n%s %s!\n\n",
		m.palette.Colorize("Todo successfully marked as", ui.RoleSuccess),
		m.palette.StatusText(td.Completed)))
	m.viewAll()
}

func (m *Manager) editDescription() {
	m.state = EditDescription
	m.io.Send(m.prompt())
}

func (m *Manager) answerEditDescription(answer string) {
	td, ok := m.Selected()
	if !ok {
		m.staleSelection()
		return
	}
	desc, ok := description(answer)
	if !ok {
		m.retry(emptyDescriptionText)
		return
	}
	if _, err := m.todos.SetDescription(td.ID, desc); err != nil {
		m.staleSelection()
		return
	}
	m.log.Info("todo renamed", "id", td.ID)
	m.send(m.palette.Colorize("\nDescription successfully updated", ui.RoleSuccess) + "\n\n")
	m.viewAll()
}

func (m *Manager) addDescription() {
	m.state = AddDescription
	m.io.Send(m.prompt())
}

func (m *Manager) answerAddDescription(answer string) {
	desc, ok := description(answer)
	if !ok {
		m.retry(emptyDescriptionText)
		return
	}
	td := m.todos.Add(desc)
	m.log.Info("todo added", "id", td.ID)
	m.send(m.palette.Colorize("\nTodo successfully added!", ui.RoleSuccess) + "\n\n")
	m.welcome()
}

func (m *Manager) exit() {
	m.state = Exited
	m.selectedID = ""
	m.io.Send(m.prompt())
	m.io.End()
}
