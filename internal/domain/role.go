package domain

// RoleKind is the self-declared role of a connection
type RoleKind string

const (
	RoleHost    RoleKind = "host"
	RoleDisplay RoleKind = "display"
	RolePlayer  RoleKind = "player"
)

// ConnectionRole is fixed when a connection joins a game and passed to every
// action that connection performs. PlayerID is set only for RolePlayer.
type ConnectionRole struct {
	Kind     RoleKind `json:"kind"`
	PlayerID string   `json:"playerId,omitempty"`
}

// HostRole returns the host controller role
func HostRole() ConnectionRole { return ConnectionRole{Kind: RoleHost} }

// DisplayRole returns the public display role
func DisplayRole() ConnectionRole { return ConnectionRole{Kind: RoleDisplay} }

// PlayerRole returns the role of the given player
func PlayerRole(playerID string) ConnectionRole {
	return ConnectionRole{Kind: RolePlayer, PlayerID: playerID}
}

// IsHost returns true for the host controller
func (r ConnectionRole) IsHost() bool { return r.Kind == RoleHost }

// IsDisplay returns true for the public display
func (r ConnectionRole) IsDisplay() bool { return r.Kind == RoleDisplay }

// IsPlayer returns true for any player connection
func (r ConnectionRole) IsPlayer() bool { return r.Kind == RolePlayer && r.PlayerID != "" }

// String returns the string representation of the role
func (r ConnectionRole) String() string {
	if r.Kind == RolePlayer {
		return string(r.Kind) + ":" + r.PlayerID
	}
	return string(r.Kind)
}
