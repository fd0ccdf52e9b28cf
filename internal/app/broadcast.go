package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"jeopardy/internal/domain"
)

// Connection is a transport connection bound to one role in one game
type Connection interface {
	ID() string
	Role() domain.ConnectionRole
	Send(data []byte) error
	Close() error
}

type audienceKind int

const (
	audienceAll audienceKind = iota
	audienceHost
	audienceDisplay
	audiencePlayers
	audiencePlayer
)

// Audience selects which connections of a room receive an event
type Audience struct {
	kind     audienceKind
	playerID string
}

var (
	AudienceAll     = Audience{kind: audienceAll}
	AudienceHost    = Audience{kind: audienceHost}
	AudienceDisplay = Audience{kind: audienceDisplay}
	AudiencePlayers = Audience{kind: audiencePlayers}
)

// AudiencePlayer targets the connections of a single player
func AudiencePlayer(playerID string) Audience {
	return Audience{kind: audiencePlayer, playerID: playerID}
}

// Matches reports whether a connection with the given role is in the audience
func (a Audience) Matches(role domain.ConnectionRole) bool {
	switch a.kind {
	case audienceAll:
		return true
	case audienceHost:
		return role.IsHost()
	case audienceDisplay:
		return role.IsDisplay()
	case audiencePlayers:
		return role.IsPlayer()
	case audiencePlayer:
		return role.IsPlayer() && role.PlayerID == a.playerID
	}
	return false
}

// Broadcaster fans game events out to the connections of a room
type Broadcaster interface {
	Register(gameCode string, conn Connection)
	Unregister(gameCode string, conn Connection)
	Publish(gameCode string, kind domain.EventType, payload interface{}, audience Audience)
	CloseRoom(gameCode string)
	ConnectionCount(gameCode string) int
}

// RoomBroadcaster is the in-process Broadcaster keyed by game code
type RoomBroadcaster struct {
	rooms  map[string]map[string]Connection
	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewRoomBroadcaster creates an empty broadcaster
func NewRoomBroadcaster(logger zerolog.Logger) *RoomBroadcaster {
	return &RoomBroadcaster{
		rooms:  make(map[string]map[string]Connection),
		logger: logger.With().Str("component", "broadcaster").Logger(),
	}
}

// Register adds a connection to a room
func (b *RoomBroadcaster) Register(gameCode string, conn Connection) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rooms[gameCode] == nil {
		b.rooms[gameCode] = make(map[string]Connection)
	}
	b.rooms[gameCode][conn.ID()] = conn

	b.logger.Debug().
		Str("game_code", gameCode).
		Str("connection_id", conn.ID()).
		Str("role", conn.Role().String()).
		Int("total_connections", len(b.rooms[gameCode])).
		Msg("connection registered")
}

// Unregister removes a connection from a room
func (b *RoomBroadcaster) Unregister(gameCode string, conn Connection) {
	b.mu.Lock()
	defer b.mu.Unlock()

	conns, ok := b.rooms[gameCode]
	if !ok {
		return
	}
	delete(conns, conn.ID())
	if len(conns) == 0 {
		delete(b.rooms, gameCode)
	}
}

// Publish marshals the event once and sends it to every matching connection.
// Connections that cannot accept the message are dropped from the room.
func (b *RoomBroadcaster) Publish(gameCode string, kind domain.EventType, payload interface{}, audience Audience) {
	data, err := json.Marshal(domain.NewEvent(kind, gameCode, payload))
	if err != nil {
		b.logger.Error().Err(err).Str("event_type", string(kind)).Msg("failed to marshal event")
		return
	}

	b.mu.RLock()
	failed := make([]Connection, 0)
	for _, conn := range b.rooms[gameCode] {
		if !audience.Matches(conn.Role()) {
			continue
		}
		if err := conn.Send(data); err != nil {
			failed = append(failed, conn)
		}
	}
	b.mu.RUnlock()

	for _, conn := range failed {
		b.logger.Warn().
			Str("game_code", gameCode).
			Str("connection_id", conn.ID()).
			Str("event_type", string(kind)).
			Msg("send failed, dropping connection")
		b.Unregister(gameCode, conn)
		conn.Close()
	}
}

// CloseRoom closes and forgets every connection of a room
func (b *RoomBroadcaster) CloseRoom(gameCode string) {
	b.mu.Lock()
	conns := b.rooms[gameCode]
	delete(b.rooms, gameCode)
	b.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

// ConnectionCount returns the number of live connections in a room
func (b *RoomBroadcaster) ConnectionCount(gameCode string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[gameCode])
}
