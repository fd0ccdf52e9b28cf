package notify

import (
	"context"

	"github.com/rs/zerolog"

	"jeopardy/internal/domain"
)

// LogPublisher writes results to the log when no broker is configured
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "results").Logger()}
}

// PublishResults implements app.ResultsPublisher
func (p *LogPublisher) PublishResults(_ context.Context, results *domain.GameResults) error {
	p.logger.Info().
		Str("game_code", results.GameID).
		Strs("winners", results.Winners).
		Interface("standings", results.Standings).
		Dur("duration", results.FinishedAt.Sub(results.StartedAt)).
		Msg("game results")
	return nil
}
