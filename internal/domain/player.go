package domain

import "time"

// ConnectionStatus represents a player's connection state
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "CONNECTED"
	StatusDisconnected ConnectionStatus = "DISCONNECTED"
)

// Player represents a contestant. Players are never removed while the game lives.
type Player struct {
	ID           string           `json:"id"`
	ConnectionID string           `json:"-"`
	Name         string           `json:"name"`
	Score        int              `json:"score"`
	Status       ConnectionStatus `json:"status"`
	JoinedAt     time.Time        `json:"joinedAt"`
}

// NewPlayer creates a connected player bound to the given connection
func NewPlayer(id, connectionID, name string) *Player {
	return &Player{
		ID:           id,
		ConnectionID: connectionID,
		Name:         name,
		Score:        0,
		Status:       StatusConnected,
		JoinedAt:     time.Now(),
	}
}

// IsConnected returns true if the player is currently connected
func (p *Player) IsConnected() bool {
	return p.Status == StatusConnected
}

// Disconnect marks the player as disconnected
func (p *Player) Disconnect() {
	p.Status = StatusDisconnected
}

// Reconnect marks the player as connected on a new transport connection
func (p *Player) Reconnect(connectionID string) {
	p.ConnectionID = connectionID
	p.Status = StatusConnected
}

// PlayerScore is the public scoreboard entry for a player
type PlayerScore struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
}

// ToScore converts a Player to its scoreboard entry
func (p *Player) ToScore() PlayerScore {
	return PlayerScore{
		ID:        p.ID,
		Name:      p.Name,
		Score:     p.Score,
		Connected: p.IsConnected(),
	}
}
