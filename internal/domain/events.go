package domain

import "time"

// EventType represents the type of outbound game event
type EventType string

const (
	EventStateSnapshot    EventType = "state_snapshot"
	EventJoined           EventType = "joined"
	EventPlayerJoined     EventType = "player_joined"
	EventPlayerLeft       EventType = "player_left"
	EventGameStarted      EventType = "game_started"
	EventClueSelected     EventType = "clue_selected"
	EventHostAnswer       EventType = "host_answer"
	EventDailyDoubleWager EventType = "daily_double_wager_prompt"
	EventBuzzingOpen      EventType = "buzzing_open"
	EventPlayerBuzzed     EventType = "player_buzzed"
	EventJudgeResult      EventType = "judge_result"
	EventClueComplete     EventType = "clue_complete"
	EventBuzzCountdown    EventType = "buzz_countdown"
	EventFinalStarted     EventType = "final_started"
	EventFinalAdvanced    EventType = "final_advanced"
	EventFinalClue        EventType = "final_clue"
	EventFinalJudgeResult EventType = "final_judge_result"
	EventFinalRevealStep  EventType = "final_reveal_step"
	EventFinished         EventType = "finished"
	EventError            EventType = "error"
)

// GameEvent is the envelope every outbound event travels in
type GameEvent struct {
	Type      EventType   `json:"type"`
	GameID    string      `json:"gameId"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new game event
func NewEvent(eventType EventType, gameID string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		GameID:    gameID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// JoinedPayload acknowledges a join to the joining connection
type JoinedPayload struct {
	GameID      string   `json:"gameId"`
	Role        RoleKind `json:"role"`
	PlayerID    string   `json:"playerId,omitempty"`
	Reconnected bool     `json:"reconnected,omitempty"`
}

// PresencePayload is sent when a player joins, reconnects or drops
type PresencePayload struct {
	PlayerID    string `json:"playerId"`
	Name        string `json:"name"`
	Connected   bool   `json:"connected"`
	Reconnected bool   `json:"reconnected,omitempty"`
}

// GameStartedPayload is sent when board play begins
type GameStartedPayload struct {
	Scores []PlayerScore `json:"scores"`
}

// ClueSelectedPayload is the redacted clue announcement sent to everyone.
// Prompt is empty for a daily double until the wager is in.
type ClueSelectedPayload struct {
	CategoryIndex      int    `json:"categoryIndex"`
	ClueIndex          int    `json:"clueIndex"`
	Category           string `json:"category"`
	Value              int    `json:"value"`
	Prompt             string `json:"prompt,omitempty"`
	DailyDouble        bool   `json:"dailyDouble"`
	DesignatedPlayerID string `json:"designatedPlayerId,omitempty"`
	Wager              int    `json:"wager,omitempty"`
	CountdownSeconds   int    `json:"countdownSeconds,omitempty"`
}

// HostAnswerPayload carries the correct response to the host only
type HostAnswerPayload struct {
	CategoryIndex int    `json:"categoryIndex"`
	ClueIndex     int    `json:"clueIndex"`
	Response      string `json:"response"`
}

// WagerPromptPayload asks the designated player for a daily double wager
type WagerPromptPayload struct {
	MinWager int `json:"minWager"`
	MaxWager int `json:"maxWager"`
	Score    int `json:"score"`
}

// BuzzingOpenPayload is sent whenever a buzz window (re)opens
type BuzzingOpenPayload struct {
	CategoryIndex int  `json:"categoryIndex"`
	ClueIndex     int  `json:"clueIndex"`
	Reopened      bool `json:"reopened"`
}

// PlayerBuzzedPayload names the buzz winner
type PlayerBuzzedPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// JudgeResultPayload reports a judged answer
type JudgeResultPayload struct {
	PlayerID     string        `json:"playerId"`
	Correct      bool          `json:"correct"`
	Amount       int           `json:"amount"`
	Scores       []PlayerScore `json:"scores"`
	ClueComplete bool          `json:"clueComplete"`
}

// ClueCompletePayload reveals the correct response to everyone
type ClueCompletePayload struct {
	CategoryIndex int    `json:"categoryIndex"`
	ClueIndex     int    `json:"clueIndex"`
	Response      string `json:"response"`
	Skipped       bool   `json:"skipped,omitempty"`
}

// CountdownPayload is sent once per countdown tick
type CountdownPayload struct {
	SecondsRemaining int `json:"secondsRemaining"`
}

// FinalStartedPayload announces the final category
type FinalStartedPayload struct {
	Category string `json:"category"`
}

// FinalAdvancedPayload is sent on every final stage transition
type FinalAdvancedPayload struct {
	Stage FinalStage `json:"stage"`
}

// FinalCluePayload carries the final clue text to everyone
type FinalCluePayload struct {
	Category string `json:"category"`
	Clue     string `json:"clue"`
}

// FinalJudgeResultPayload reports a final judgment
type FinalJudgeResultPayload struct {
	PlayerID string `json:"playerId"`
	Correct  bool   `json:"correct"`
}

// FinalRevealStepPayload discloses one reveal step; fields fill in as the
// step advances
type FinalRevealStepPayload struct {
	PlayerID    string     `json:"playerId"`
	Step        RevealStep `json:"step"`
	Answer      *string    `json:"answer,omitempty"`
	Correct     *bool      `json:"correct,omitempty"`
	Wager       *int       `json:"wager,omitempty"`
	ScoreBefore *int       `json:"scoreBefore,omitempty"`
	ScoreAfter  *int       `json:"scoreAfter,omitempty"`
}

// FinishedPayload is sent when the game ends
type FinishedPayload struct {
	Scores   []PlayerScore `json:"scores"`
	Winners  []string      `json:"winners"`
	Response string        `json:"response"`
}

// ErrorPayload is sent when a request fails
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GameResults summarizes a finished game for downstream consumers
type GameResults struct {
	GameID     string        `json:"gameId"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Standings  []PlayerScore `json:"standings"`
	Winners    []string      `json:"winners"`
}

// ContentSource selects board content: a topic name or inline source text
type ContentSource struct {
	Topic string `json:"topic,omitempty"`
	Text  string `json:"sourceText,omitempty"`
}

// NewRevealStepPayload converts a reveal outcome into its wire payload
func NewRevealStepPayload(out *RevealOutcome) *FinalRevealStepPayload {
	p := &FinalRevealStepPayload{PlayerID: out.PlayerID, Step: out.Step}
	if out.Step.Reached(RevealAnswer) {
		p.Answer = &out.Answer
	}
	if out.Step.Reached(RevealJudged) {
		p.Correct = &out.Correct
	}
	if out.Step.Reached(RevealWager) {
		p.Wager = &out.Wager
	}
	if out.Step.Reached(RevealScore) {
		p.ScoreBefore = &out.ScoreBefore
		p.ScoreAfter = &out.ScoreAfter
	}
	return p
}
