package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"jeopardy/internal/domain"
)

// NATSConfig configures the NATS results publisher
type NATSConfig struct {
	URL           string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
}

// NATSPublisher publishes results as JSON on a NATS subject
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSPublisher connects to NATS
func NewNATSPublisher(cfg NATSConfig, logger zerolog.Logger) (*NATSPublisher, error) {
	logger = logger.With().Str("component", "nats").Logger()
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.Subject == "" {
		cfg.Subject = "jeopardy.results"
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}

	opts := []nats.Option{
		nats.Name("jeopardy-server"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &NATSPublisher{nc: nc, subject: cfg.Subject, logger: logger}, nil
}

// PublishResults implements app.ResultsPublisher
func (p *NATSPublisher) PublishResults(ctx context.Context, results *domain.GameResults) error {
	data, err := encode(results)
	if err != nil {
		return err
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
	if err := p.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush NATS: %w", err)
	}

	p.logger.Debug().Str("subject", p.subject).Str("game_code", results.GameID).Msg("results published")
	return nil
}

// Close drains the connection
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
