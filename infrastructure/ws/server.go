package ws

import (
	"log/slog"
	"net/http"
	"time"

	"live-hub/auth"
	"live-hub/contract"
	"live-hub/domain"
	"live-hub/infrastructure/wire"
	"live-hub/runtime"
	"live-hub/sink"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 32 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Origin filtering is delegated to the reverse proxy in front of
	// the service.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server upgrades authenticated HTTP requests to websocket sessions and
// bridges them to the router: inbound frames become commands, the
// connection's sink feeds the write pump.
type Server struct {
	log        *slog.Logger
	router     *runtime.Router
	registry   contract.IRegistry
	verifier   auth.Verifier
	sendBuffer int
}

func NewServer(log *slog.Logger, router *runtime.Router, registry contract.IRegistry,
	verifier auth.Verifier, sendBuffer int) *Server {
	return &Server{
		log:        log,
		router:     router,
		registry:   registry,
		verifier:   verifier,
		sendBuffer: sendBuffer,
	}
}

// Handler gates and upgrades one connection.
// The credential check happens before the upgrade: a request without a
// valid token is refused with 401 and never registers anything.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := s.verifier.Principal(r)
		if err != nil {
			s.log.Warn("Connection refused", "remote", r.RemoteAddr, "error", err)
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		wsConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Error("Upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}

		conn := domain.NewConnection(principal)
		connSink := sink.NewConnSink(s.sendBuffer)
		s.registry.Register(conn.ID, connSink)
		s.log.Info("Connection authenticated",
			"connection_id", conn.ID,
			"principal_id", conn.Principal)

		go s.writePump(wsConn, connSink)
		go s.readPump(wsConn, conn, connSink)
	}
}

// readPump decodes inbound envelopes into commands, one reader per
// connection. On any read error the connection is torn down: the
// disconnect command sweeps room membership, and closing the sink
// releases the write pump.
func (s *Server) readPump(wsConn *websocket.Conn, conn domain.Connection, connSink *sink.ConnSink) {
	defer func() {
		s.router.Dispatch(domain.DisconnectCommand{Conn: conn.ID})
		connSink.Close()
		_ = wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	_ = wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		return wsConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env wire.Envelope
		if err := wsConn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("Unexpected close", "connection_id", conn.ID, "error", err)
			}
			return
		}

		cmd, err := decodeCommand(conn.ID, env)
		if err != nil {
			s.log.Debug("Dropping invalid event",
				"connection_id", conn.ID,
				"event", env.Event,
				"error", err)
			continue
		}
		s.router.Dispatch(cmd)
	}
}

// writePump drains the connection's sink, one writer per connection.
func (s *Server) writePump(wsConn *websocket.Conn, connSink *sink.ConnSink) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = wsConn.Close()
	}()

	for {
		select {
		case evt, ok := <-connSink.Events():
			_ = wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The sink was closed during teardown.
				_ = wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			env, err := wire.Encode(evt)
			if err != nil {
				s.log.Error("Failed to encode event", "event", evt.Name(), "error", err)
				continue
			}
			if err := wsConn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
