package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jeopardy/internal/domain"
)

// resultsTimeout bounds a single results delivery
const resultsTimeout = 5 * time.Second

// ResultsPublisher delivers finished game results to downstream consumers
type ResultsPublisher interface {
	PublishResults(ctx context.Context, results *domain.GameResults) error
}

// NopResultsPublisher drops results
type NopResultsPublisher struct{}

// PublishResults implements ResultsPublisher
func (NopResultsPublisher) PublishResults(context.Context, *domain.GameResults) error {
	return nil
}

// publishResults delivers results off the session lock. Failures are only logged.
func (s *GameSession) publishResults(results *domain.GameResults) {
	ctx, cancel := context.WithTimeout(context.Background(), resultsTimeout)
	defer cancel()

	if err := s.results.PublishResults(ctx, results); err != nil {
		s.logger.Error().Err(err).Msg("failed to publish results")
		return
	}
	s.logger.Debug().Msg("results published")
}

func newID() string {
	return uuid.New().String()
}
