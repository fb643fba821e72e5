package server

import (
	"slices"

	socket "github.com/zishang520/socket.io/servers/socket/v3"
	sockettypes "github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/idilsaglam/todo/internal/protocol"
)

const socketPath = "/socket.io"

func newSocketServer(opts Options, onConnect func(*socket.Socket)) *socket.Server {
	sopts := socket.DefaultServerOptions()
	sopts.SetCors(&sockettypes.Cors{
		Origin:      socketOrigin(opts.AllowedOrigins),
		Credentials: false,
	})
	if opts.PingInterval > 0 {
		sopts.SetPingInterval(opts.PingInterval)
	}
	if opts.PingTimeout > 0 {
		sopts.SetPingTimeout(opts.PingTimeout)
	}
	sopts.SetPath(socketPath)

	srv := socket.NewServer(nil, sopts)
	srv.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		onConnect(client)
	})
	return srv
}

// socketOrigin converts the allowed origins into the forms the socket.io
// CORS handler accepts: "*" or a single origin as a string, otherwise a list
// matched against the request origin.
func socketOrigin(origins []string) any {
	switch {
	case len(origins) == 0 || slices.Contains(origins, "*"):
		return "*"
	case len(origins) == 1:
		return origins[0]
	}
	out := make([]any, len(origins))
	for i, o := range origins {
		out[i] = o
	}
	return out
}

// socketPeer adapts a socket.io client to strategy.Peer.
type socketPeer struct {
	client *socket.Socket
}

func (p socketPeer) Emit(msg protocol.Message) {
	p.client.Emit(protocol.Topic, msg.Payload())
}

func (p socketPeer) Close() {
	p.client.Disconnect(true)
}

func (s *Server) handleConnection(client *socket.Socket) {
	id := string(client.Id())
	s.web.Attach(id, socketPeer{client: client})

	client.On(protocol.Topic, func(data ...any) {
		if len(data) == 0 {
			s.log.Debug("empty message", "id", id)
			return
		}
		s.web.Receive(id, data[0])
	})
	client.On("disconnect", func(data ...any) {
		reason := ""
		if len(data) > 0 {
			if r, ok := data[0].(string); ok {
				reason = r
			}
		}
		s.log.Debug("socket closed", "id", id, "reason", reason)
		s.web.Detach(id)
	})
}
