package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ScarletRegal/ui-deckbuilder/internal/game"
	"github.com/ScarletRegal/ui-deckbuilder/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// streamMsg is the server-to-client frame.
type streamMsg struct {
	Type  string      `json:"type"` // "state" | "error"
	State *game.State `json:"state,omitempty"`
	Error string      `json:"error,omitempty"`
}

// stream is one websocket connection bound to a session. Incoming frames are
// game.Action values; state changes arrive through the session subscription.
type stream struct {
	srv    *Server
	conn   *websocket.Conn
	sid    string
	states <-chan game.State
	errs   chan string
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return o == "" || o == s.deps.ClientOrigin
		},
	}
}

// handleStream upgrades to a websocket, sends the current state, then keeps
// the client in sync until either side goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	// Subscribe before reading the snapshot so no change falls between them.
	states, unsubscribe, err := s.deps.Sessions.Subscribe(sid)
	if err != nil {
		writeError(w, err)
		return
	}
	defer unsubscribe()
	rec, err := s.deps.Sessions.Get(r.Context(), sid)
	if err != nil {
		writeError(w, err)
		return
	}

	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade")
		return
	}

	st := &stream{srv: s, conn: conn, sid: sid, states: states, errs: make(chan string, 8)}
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	go func() {
		st.readPump(ctx)
		cancel()
	}()
	st.writePump(ctx, rec.State)
}

// readPump decodes actions and dispatches them. Refusals go back as error
// frames; accepted actions are echoed by the subscription.
func (c *stream) readPump(ctx context.Context) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("session", c.sid).Msg("ws read")
			}
			return
		}
		var a game.Action
		if err := json.Unmarshal(message, &a); err != nil {
			c.fail("bad_json")
			continue
		}
		if _, err := c.srv.deps.Sessions.Dispatch(ctx, c.sid, a); err != nil {
			c.fail(errorCode(err))
		}
	}
}

// writePump owns all writes to the connection.
func (c *stream) writePump(ctx context.Context, initial game.State) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	if !c.write(streamMsg{Type: "state", State: &initial}) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case s := <-c.states:
			if !c.write(streamMsg{Type: "state", State: &s}) {
				return
			}
		case code := <-c.errs:
			if !c.write(streamMsg{Type: "error", Error: code}) {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *stream) write(m streamMsg) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(m) == nil
}

func (c *stream) fail(code string) {
	select {
	case c.errs <- code:
	default:
		log.Debug().Str("session", c.sid).Msg("ws error buffer full, dropping")
	}
}

// errorCode is the wire name of a dispatch error.
func errorCode(err error) string {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return "not_found"
	case errors.Is(err, session.ErrGradingInFlight):
		return "grading_in_progress"
	case errors.Is(err, session.ErrReservedAction):
		return "reserved_action"
	default:
		return "internal"
	}
}
