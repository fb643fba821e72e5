// Package protocol defines the message shape shared by every delivery
// channel. Prompts carry the tag of the dialog that produced them and the
// client echoes that tag back with its answer.
package protocol

import "encoding/json"

// Topic is the socket.io event name used in both directions.
const Topic = "todo_msg"

// Tag identifies the dialog a message belongs to.
type Tag string

const (
	Undefined         Tag = ""
	Connected         Tag = "CONNECTED"
	Disconnected      Tag = "DISCONNECTED"
	WelcomeChoose     Tag = "WELCOME_CHOOSE_OPTION"
	Bye               Tag = "BYE"
	AddTodo           Tag = "ADD_TODO"
	ViewAllChoose     Tag = "VIEW_ALL_TODOS_CHOOSE_OPTION"
	EditTodoChoose    Tag = "EDIT_TODO_CHOOSE_OPTION"
	ToggleCompleted   Tag = "TOGGLE_TODO_COMPLETED"
	EditDescription   Tag = "EDIT_TODO_DESCRIPTION"
	DeleteTodoConfirm Tag = "DELETE_TODO"
)

// Answer reports whether t tags a reply to a prompt. Lifecycle tags such as
// Connected, Disconnected and Bye never carry an answer.
func (t Tag) Answer() bool {
	switch t {
	case WelcomeChoose, AddTodo, ViewAllChoose, EditTodoChoose,
		ToggleCompleted, EditDescription, DeleteTodoConfirm:
		return true
	}
	return false
}

// Message is a piece of dialog output or a client answer.
type Message struct {
	Text string `json:"text"`
	Type Tag    `json:"type"`
}

// Text builds an untagged message.
func Text(s string) Message { return Message{Text: s} }

// Prompt builds a message that expects an answer for tag.
func Prompt(s string, tag Tag) Message { return Message{Text: s, Type: tag} }

// Tagged reports whether the message expects an answer.
func (m Message) Tagged() bool { return m.Type != Undefined }

// Payload is the wire form; the tag is always present, "" when undefined.
func (m Message) Payload() map[string]any {
	return map[string]any{"type": string(m.Type), "text": m.Text}
}

// Decode converts an inbound event argument into a Message. Socket payloads
// arrive as generic maps, so they are round-tripped through JSON.
func Decode(raw any) (Message, error) {
	var msg Message
	switch v := raw.(type) {
	case Message:
		return v, nil
	case string:
		err := json.Unmarshal([]byte(v), &msg)
		return msg, err
	case []byte:
		err := json.Unmarshal(v, &msg)
		return msg, err
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return msg, err
	}
	err = json.Unmarshal(b, &msg)
	return msg, err
}
