package strategy

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/idilsaglam/todo/internal/protocol"
)

// Peer is one connected web client.
type Peer interface {
	Emit(msg protocol.Message)
	Close()
}

type webEventKind int

const (
	webConnect webEventKind = iota
	webDisconnect
	webMessage
)

type webEvent struct {
	kind webEventKind
	peer string
	msg  protocol.Message
}

// Web is a push channel shared by every connected client. Output is
// broadcast to all peers; inbound events from any peer are queued and
// dispatched one at a time by Run.
type Web struct {
	Hooks

	log      *log.Logger
	events   chan webEvent
	stopped  chan struct{}
	stopOnce sync.Once

	mu    sync.Mutex
	peers map[string]Peer
}

func NewWeb(logger *log.Logger) *Web {
	return &Web{
		log:     logger.With("strategy", "web"),
		events:  make(chan webEvent, 64),
		stopped: make(chan struct{}),
		peers:   make(map[string]Peer),
	}
}

// Attach registers a newly connected peer.
func (w *Web) Attach(id string, p Peer) {
	w.mu.Lock()
	w.peers[id] = p
	w.mu.Unlock()
	w.log.Info("client connected", "peer", id)
	w.enqueue(webEvent{kind: webConnect, peer: id})
}

// Detach forgets a peer. The session only ends when the last peer leaves;
// the other tabs keep it. Peers dropped by End are already gone and do not
// produce a second disconnect.
func (w *Web) Detach(id string) {
	w.mu.Lock()
	_, ok := w.peers[id]
	delete(w.peers, id)
	remaining := len(w.peers)
	w.mu.Unlock()
	if !ok {
		return
	}
	w.log.Info("client disconnected", "peer", id, "remaining", remaining)
	if remaining > 0 {
		return
	}
	w.enqueue(webEvent{kind: webDisconnect, peer: id})
}

// Receive queues an inbound topic payload from peer id.
func (w *Web) Receive(id string, raw any) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		w.log.Warn("dropping malformed message", "peer", id, "err", err)
		return
	}
	w.mu.Lock()
	_, ok := w.peers[id]
	w.mu.Unlock()
	if !ok {
		w.log.Debug("dropping message from detached peer", "peer", id)
		return
	}
	w.enqueue(webEvent{kind: webMessage, peer: id, msg: msg})
}

// Send broadcasts msg to every connected peer. The tag is always sent.
func (w *Web) Send(msg protocol.Message) {
	for _, p := range w.snapshot() {
		p.Emit(msg)
	}
}

// End disconnects every peer of the current session. The server keeps
// accepting connections; the next one starts a new session.
func (w *Web) End() {
	w.mu.Lock()
	peers := w.peers
	w.peers = make(map[string]Peer)
	w.mu.Unlock()
	for id, p := range peers {
		w.log.Debug("closing peer", "peer", id)
		p.Close()
	}
}

// Peers reports how many clients are connected.
func (w *Web) Peers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.peers)
}

func (w *Web) Run(ctx context.Context) error {
	defer w.stopOnce.Do(func() { close(w.stopped) })
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-w.events:
			switch ev.kind {
			case webConnect:
				w.EmitConnect()
			case webDisconnect:
				w.EmitDisconnect()
			case webMessage:
				w.EmitMessage(ev.msg)
			}
		}
	}
}

func (w *Web) enqueue(ev webEvent) {
	select {
	case w.events <- ev:
	case <-w.stopped:
	}
}

func (w *Web) snapshot() []Peer {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Peer, 0, len(w.peers))
	for _, p := range w.peers {
		out = append(out, p)
	}
	return out
}
