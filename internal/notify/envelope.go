package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jeopardy/internal/domain"
)

// EventGameFinished is the event type of a results message
const EventGameFinished = "game.finished"

// Envelope wraps results for the wire
type Envelope struct {
	EventID   string              `json:"eventId"`
	EventType string              `json:"eventType"`
	GameID    string              `json:"gameId"`
	Timestamp time.Time           `json:"timestamp"`
	Payload   *domain.GameResults `json:"payload"`
}

// encode builds and marshals the envelope for a set of results
func encode(results *domain.GameResults) ([]byte, error) {
	env := Envelope{
		EventID:   uuid.New().String(),
		EventType: EventGameFinished,
		GameID:    results.GameID,
		Timestamp: time.Now().UTC(),
		Payload:   results,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}
	return data, nil
}
