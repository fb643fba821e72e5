// Package strategy delivers dialog output to a client and feeds the client's
// answers back. Every implementation keeps exactly one handler per hook;
// registering a hook again replaces the previous handler.
package strategy

import (
	"context"
	"sync"

	"github.com/idilsaglam/todo/internal/protocol"
)

// Strategy is a delivery channel for one dialog session.
type Strategy interface {
	// Send writes a message to the client. After End it is a no-op.
	Send(msg protocol.Message)
	// End closes the channel. It is idempotent and may be called from
	// inside a hook.
	End()

	OnConnect(fn func())
	OnDisconnect(fn func())
	OnMessage(fn func(protocol.Message))

	// Run blocks dispatching hooks until the channel ends or ctx is done.
	// Hooks are invoked one at a time, never concurrently.
	Run(ctx context.Context) error
}

// Hooks holds the single-slot handlers. Implementations embed it.
type Hooks struct {
	mu         sync.RWMutex
	connect    func()
	disconnect func()
	message    func(protocol.Message)
}

func (h *Hooks) OnConnect(fn func()) {
	h.mu.Lock()
	h.connect = fn
	h.mu.Unlock()
}

func (h *Hooks) OnDisconnect(fn func()) {
	h.mu.Lock()
	h.disconnect = fn
	h.mu.Unlock()
}

func (h *Hooks) OnMessage(fn func(protocol.Message)) {
	h.mu.Lock()
	h.message = fn
	h.mu.Unlock()
}

// EmitConnect invokes the connect handler, if any.
func (h *Hooks) EmitConnect() {
	h.mu.RLock()
	fn := h.connect
	h.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// EmitDisconnect invokes the disconnect handler, if any.
func (h *Hooks) EmitDisconnect() {
	h.mu.RLock()
	fn := h.disconnect
	h.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// EmitMessage invokes the message handler, if any.
func (h *Hooks) EmitMessage(msg protocol.Message) {
	h.mu.RLock()
	fn := h.message
	h.mu.RUnlock()
	if fn != nil {
		fn(msg)
	}
}
