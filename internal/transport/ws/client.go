package ws

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"jeopardy/internal/app"
	"jeopardy/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Size of the send channel buffer
	sendBufferSize = 256
)

var (
	// ErrSendBufferFull is returned when a slow peer cannot keep up
	ErrSendBufferFull = errors.New("send buffer full")

	// ErrClientClosed is returned when sending to a closed client
	ErrClientClosed = errors.New("client closed")
)

// Client represents a WebSocket client connection. Its role is unset until
// the first join message binds it, and never changes afterwards.
type Client struct {
	id      string
	conn    *websocket.Conn
	hub     *app.GameHub
	session *app.GameSession
	role    domain.ConnectionRole
	send    chan []byte
	done    chan struct{}
	logger  zerolog.Logger
	mu      sync.Mutex
	closed  bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *app.GameHub, logger zerolog.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:     id,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger.With().Str("connection_id", id).Logger(),
	}
}

// ID returns the transport identity of this connection
func (c *Client) ID() string {
	return c.id
}

// Role returns the role bound by the join message
func (c *Client) Role() domain.ConnectionRole {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.role
}

// Send queues an encoded event without blocking
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close closes the underlying connection once
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		if session := c.currentSession(); session != nil {
			session.Detach(c)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("websocket read error")
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgPing:
		c.sendEvent(EventPong, nil)
	case MsgHostJoin:
		c.handleJoin(msg.Payload, domain.HostRole())
	case MsgDisplayJoin:
		c.handleJoin(msg.Payload, domain.DisplayRole())
	case MsgPlayerJoin:
		c.handlePlayerJoin(msg.Payload)
	default:
		session := c.currentSession()
		if session == nil {
			c.sendError(ErrCodeNotJoined, "Join a game first")
			return
		}
		c.handleAction(session, msg)
	}
}

// handleJoin binds a host or display connection to a game
func (c *Client) handleJoin(raw json.RawMessage, role domain.ConnectionRole) {
	session, ok := c.lookupSession(raw, nil)
	if !ok {
		return
	}
	c.bind(session, role)
}

// handlePlayerJoin adds a player or reconnects a dropped one by name
func (c *Client) handlePlayerJoin(raw json.RawMessage) {
	var payload JoinPayload
	session, ok := c.lookupSession(raw, &payload)
	if !ok {
		return
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		c.sendError(ErrCodeInvalidMessage, "Name is required")
		return
	}

	player, reconnected, err := session.JoinPlayer(c.id, name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGameNotFound):
			c.sendError(ErrCodeGameNotFound, "Game not found")
		case errors.Is(err, domain.ErrInProgressNoReconnect):
			c.sendError(ErrCodeGameInProgress, "Game has already started")
		case errors.Is(err, domain.ErrEmptyName):
			c.sendError(ErrCodeInvalidMessage, "Name is required")
		default:
			c.sendError(ErrCodeInternalError, err.Error())
		}
		return
	}

	c.logger.Info().
		Str("game_code", session.Code()).
		Str("player_id", player.ID).
		Bool("reconnected", reconnected).
		Msg("player connected")

	c.bind(session, domain.PlayerRole(player.ID))
}

// lookupSession decodes a join payload and resolves its game. Failures are
// reported to the client.
func (c *Client) lookupSession(raw json.RawMessage, payload *JoinPayload) (*app.GameSession, bool) {
	if c.currentSession() != nil {
		c.sendError(ErrCodeAlreadyJoined, "Connection has already joined a game")
		return nil, false
	}

	if payload == nil {
		payload = &JoinPayload{}
	}
	if err := decodePayload(raw, payload); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return nil, false
	}

	code := strings.ToUpper(strings.TrimSpace(payload.Code))
	if code == "" {
		c.sendError(ErrCodeInvalidMessage, "Game code is required")
		return nil, false
	}

	session, err := c.hub.GetSession(code)
	if err != nil {
		c.sendError(ErrCodeGameNotFound, "Game not found")
		return nil, false
	}
	return session, true
}

// bind fixes the connection's role and attaches it to the session
func (c *Client) bind(session *app.GameSession, role domain.ConnectionRole) {
	c.mu.Lock()
	c.session = session
	c.role = role
	c.mu.Unlock()

	if err := session.Attach(c); err != nil {
		c.mu.Lock()
		c.session = nil
		c.mu.Unlock()
		c.sendError(ErrCodeGameNotFound, "Game not found")
	}
}

// handleAction routes a post-join message with the connection's fixed role
func (c *Client) handleAction(session *app.GameSession, msg ClientMessage) {
	role := c.Role()

	var err error
	switch msg.Type {
	case MsgStartGame:
		err = session.StartGame(role)
	case MsgSelectClue:
		var p SelectCluePayload
		if c.decode(msg.Payload, &p) {
			err = session.SelectClue(role, p.CategoryIndex, p.ClueIndex)
		}
	case MsgJudge:
		var p JudgePayload
		if c.decode(msg.Payload, &p) {
			err = session.Judge(role, p.Correct)
		}
	case MsgSkipClue:
		err = session.SkipClue(role)
	case MsgStartFinal:
		err = session.StartFinal(role)
	case MsgAdvanceFinal:
		err = session.AdvanceFinal(role)
	case MsgJudgeFinal:
		var p JudgeFinalPayload
		if c.decode(msg.Payload, &p) {
			err = session.JudgeFinal(role, p.PlayerID, p.Correct)
		}
	case MsgAdvanceFinalReveal:
		err = session.AdvanceFinalReveal(role)
	case MsgBuzz:
		err = session.Buzz(role)
	case MsgDailyDoubleWager:
		var p WagerPayload
		if c.decode(msg.Payload, &p) {
			err = session.SubmitDailyDoubleWager(role, p.Value())
		}
	case MsgFinalWager:
		var p WagerPayload
		if c.decode(msg.Payload, &p) {
			err = session.SubmitFinalWager(role, p.Value())
		}
	case MsgFinalAnswer:
		var p AnswerPayload
		if c.decode(msg.Payload, &p) {
			err = session.SubmitFinalAnswer(role, p.Answer)
		}
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
		return
	}

	c.reportActionError(msg.Type, err)
}

// decode unmarshals an action payload, reporting malformed input
func (c *Client) decode(raw json.RawMessage, v interface{}) bool {
	if err := decodePayload(raw, v); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return false
	}
	return true
}

// reportActionError drops illegal transitions silently and reports the rest
func (c *Client) reportActionError(kind MessageType, err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrIllegalTransition):
		c.logger.Debug().Str("message_type", string(kind)).Msg("action ignored")
	case errors.Is(err, domain.ErrEmptyAnswer), errors.Is(err, domain.ErrClueNotFound), errors.Is(err, domain.ErrPlayerNotFound):
		c.sendError(ErrCodeInvalidMessage, err.Error())
	case errors.Is(err, domain.ErrGameNotFound):
		c.sendError(ErrCodeGameNotFound, "Game not found")
	default:
		c.logger.Error().Err(err).Str("message_type", string(kind)).Msg("action failed")
		c.sendError(ErrCodeInternalError, err.Error())
	}
}

func (c *Client) currentSession() *app.GameSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// sendEvent sends a single event to this client only
func (c *Client) sendEvent(kind domain.EventType, payload interface{}) {
	code := ""
	if session := c.currentSession(); session != nil {
		code = session.Code()
	}

	data, err := json.Marshal(domain.NewEvent(kind, code, payload))
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to marshal event")
		return
	}
	if err := c.Send(data); err != nil {
		c.logger.Debug().Err(err).Str("event_type", string(kind)).Msg("event dropped")
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.sendEvent(domain.EventError, &domain.ErrorPayload{
		Code:    code,
		Message: message,
	})
}
