package memstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/idilsaglam/todo/internal/model"
)

// In-memory storage shared by every session. Nothing survives a restart.
// Iteration order is insertion order; display indexes are derived from it.

var ErrNotFound = errors.New("todo not found")

type List struct {
	mu    sync.RWMutex
	items []model.Todo
}

func New(seed ...model.Todo) *List {
	items := make([]model.Todo, 0, len(seed))
	items = append(items, seed...)
	return &List{items: items}
}

// Add appends a new active todo and returns it.
func (l *List) Add(description string) model.Todo {
	td := model.New(description)
	l.mu.Lock()
	l.items = append(l.items, td)
	l.mu.Unlock()
	return td
}

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// At returns the todo at a 0-based position.
func (l *List) At(i int) (model.Todo, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		return model.Todo{}, false
	}
	return l.items[i], true
}

// Get looks a todo up by id.
func (l *List) Get(id string) (model.Todo, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.indexOf(id); i >= 0 {
		return l.items[i], true
	}
	return model.Todo{}, false
}

// SetDescription replaces the description of the todo with the given id.
func (l *List) SetDescription(id, description string) (model.Todo, error) {
	return l.update(id, func(td *model.Todo) { td.Description = description })
}

// Toggle flips the completed flag of the todo with the given id.
func (l *List) Toggle(id string) (model.Todo, error) {
	return l.update(id, func(td *model.Todo) { td.Completed = !td.Completed })
}

// Remove deletes the todo with the given id.
func (l *List) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return nil
}

// All returns a copy of the list in insertion order.
func (l *List) All() []model.Todo {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Todo, len(l.items))
	copy(out, l.items)
	return out
}

// Export writes the list as indented JSON.
func (l *List) Export(w io.Writer) error {
	b, err := json.MarshalIndent(l.All(), "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (l *List) update(id string, fn func(*model.Todo)) (model.Todo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return model.Todo{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	fn(&l.items[i])
	return l.items[i], nil
}

// indexOf expects the caller to hold the lock.
func (l *List) indexOf(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}
