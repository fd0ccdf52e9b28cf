package ws

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"jeopardy/internal/domain"
)

// MessageType represents the type of an inbound WebSocket message
type MessageType string

// Join messages bind the connection's role; exactly one is accepted
const (
	MsgHostJoin    MessageType = "host_join"
	MsgDisplayJoin MessageType = "display_join"
	MsgPlayerJoin  MessageType = "player_join"
)

// Host → Server message types
const (
	MsgStartGame          MessageType = "start_game"
	MsgSelectClue         MessageType = "select_clue"
	MsgJudge              MessageType = "judge"
	MsgSkipClue           MessageType = "skip_clue"
	MsgStartFinal         MessageType = "start_final"
	MsgAdvanceFinal       MessageType = "advance_final"
	MsgJudgeFinal         MessageType = "judge_final"
	MsgAdvanceFinalReveal MessageType = "advance_final_reveal"
)

// Player → Server message types
const (
	MsgBuzz             MessageType = "buzz"
	MsgDailyDoubleWager MessageType = "daily_double_wager"
	MsgFinalWager       MessageType = "final_wager"
	MsgFinalAnswer      MessageType = "final_answer"
)

// MsgPing is accepted from any connection, joined or not
const MsgPing MessageType = "ping"

// EventPong answers a ping
const EventPong domain.EventType = "pong"

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client message payloads

// JoinPayload is the payload for host_join, display_join and player_join
type JoinPayload struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// SelectCluePayload is the payload for select_clue
type SelectCluePayload struct {
	CategoryIndex int `json:"categoryIndex"`
	ClueIndex     int `json:"clueIndex"`
}

// JudgePayload is the payload for judge
type JudgePayload struct {
	Correct bool `json:"correct"`
}

// JudgeFinalPayload is the payload for judge_final
type JudgeFinalPayload struct {
	PlayerID string `json:"playerId"`
	Correct  bool   `json:"correct"`
}

// WagerPayload is the payload for daily_double_wager and final_wager.
// Amount stays raw so any input can be clamped instead of refused.
type WagerPayload struct {
	Amount json.RawMessage `json:"amount"`
}

// Value converts the amount to an int: fractions truncate toward zero,
// out-of-range numbers saturate, and anything unparseable counts as 0.
func (p WagerPayload) Value() int {
	text := strings.TrimSpace(string(p.Amount))
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}

	if n, err := strconv.ParseInt(text, 10, 0); err == nil {
		return int(n)
	}

	// ParseFloat reports ±Inf alongside a range error
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !math.IsInf(f, 0) {
		return 0
	}
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// AnswerPayload is the payload for final_answer
type AnswerPayload struct {
	Answer string `json:"answer"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeNotJoined      = "NOT_JOINED"
	ErrCodeAlreadyJoined  = "ALREADY_JOINED"
	ErrCodeGameNotFound   = "GAME_NOT_FOUND"
	ErrCodeGameInProgress = "GAME_IN_PROGRESS"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// decodePayload unmarshals a message payload, treating an absent payload as empty
func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
