package dialog

import "github.com/idilsaglam/todo/internal/protocol"

// State is the step of the menu flow a session is in.
type State int

const (
	Welcome State = iota
	ViewAll
	EditMenu
	ConfirmDelete
	ConfirmToggle
	EditDescription
	AddDescription
	Exited
)

var stateNames = map[State]string{
	Welcome:         "welcome",
	ViewAll:         "view-all",
	EditMenu:        "edit-menu",
	ConfirmDelete:   "confirm-delete",
	ConfirmToggle:   "confirm-toggle",
	EditDescription: "edit-description",
	AddDescription:  "add-description",
	Exited:          "exited",
}

var stateTags = map[State]protocol.Tag{
	Welcome:         protocol.WelcomeChoose,
	ViewAll:         protocol.ViewAllChoose,
	EditMenu:        protocol.EditTodoChoose,
	ConfirmDelete:   protocol.DeleteTodoConfirm,
	ConfirmToggle:   protocol.ToggleCompleted,
	EditDescription: protocol.EditDescription,
	AddDescription:  protocol.AddTodo,
	Exited:          protocol.Bye,
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Tag is the token carried by this state's prompt.
func (s State) Tag() protocol.Tag { return stateTags[s] }

// stateForTag maps a prompt tag back to the state that sent it.
func stateForTag(tag protocol.Tag) (State, bool) {
	for s, t := range stateTags {
		if t == tag {
			return s, true
		}
	}
	return 0, false
}
