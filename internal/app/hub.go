package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"jeopardy/internal/domain"
	"jeopardy/internal/store"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 6

	// DefaultGameTTL is how long a game lives after creation, whatever its activity
	DefaultGameTTL = 4 * time.Hour

	// DefaultSweepInterval is how often expired games are swept
	DefaultSweepInterval = 10 * time.Minute

	// maxCodeAttempts bounds retries on room code collisions
	maxCodeAttempts = 10
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ContentProvider produces a validated board and final clue for a new game
type ContentProvider interface {
	Generate(ctx context.Context, src domain.ContentSource) (*domain.Board, *domain.FinalClue, error)
}

// HubConfig tunes the registry
type HubConfig struct {
	RoomCodeLength int
	GameTTL        time.Duration
	SweepInterval  time.Duration
	CountdownTicks int
}

// HubDeps are the collaborators shared by every session of the hub
type HubDeps struct {
	Sessions    store.Repository[*GameSession]
	Provider    ContentProvider
	Broadcaster Broadcaster
	Scheduler   Scheduler
	Results     ResultsPublisher
	Clock       clockwork.Clock
	Logger      zerolog.Logger
}

// GameHub is the registry of live game sessions
type GameHub struct {
	sessions    store.Repository[*GameSession]
	provider    ContentProvider
	broadcaster Broadcaster
	scheduler   Scheduler
	results     ResultsPublisher
	clock       clockwork.Clock
	cfg         HubConfig
	logger      zerolog.Logger
}

// NewGameHub creates a new game hub
func NewGameHub(cfg HubConfig, deps HubDeps) *GameHub {
	if cfg.RoomCodeLength <= 0 {
		cfg.RoomCodeLength = DefaultRoomCodeLength
	}
	if cfg.GameTTL <= 0 {
		cfg.GameTTL = DefaultGameTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if deps.Sessions == nil {
		deps.Sessions = store.NewMemory[*GameSession]()
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = NewClockScheduler(deps.Clock, CountdownInterval)
	}
	if deps.Results == nil {
		deps.Results = NopResultsPublisher{}
	}

	return &GameHub{
		sessions:    deps.Sessions,
		provider:    deps.Provider,
		broadcaster: deps.Broadcaster,
		scheduler:   deps.Scheduler,
		results:     deps.Results,
		clock:       deps.Clock,
		cfg:         cfg,
		logger:      deps.Logger.With().Str("component", "hub").Logger(),
	}
}

// CreateGame asks the content provider for a board and opens a new session
// in the lobby under a fresh room code
func (h *GameHub) CreateGame(ctx context.Context, src domain.ContentSource) (*GameSession, error) {
	board, final, err := h.provider.Generate(ctx, src)
	if err != nil {
		h.logger.Warn().Err(err).Str("topic", src.Topic).Msg("content generation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrContentGeneration, err)
	}

	for attempts := 0; attempts < maxCodeAttempts; attempts++ {
		code := h.generateRoomCode()

		game := domain.NewGame(code, board, *final)
		game.CreatedAt = h.clock.Now()
		session := NewGameSession(game, SessionDeps{
			Broadcaster:    h.broadcaster,
			Scheduler:      h.scheduler,
			Results:        h.results,
			Clock:          h.clock,
			Logger:         h.logger,
			CountdownTicks: h.cfg.CountdownTicks,
		})

		if h.sessions.Create(code, session) {
			h.logger.Info().Str("game_code", code).Str("topic", src.Topic).Msg("game created")
			return session, nil
		}
	}

	return nil, fmt.Errorf("failed to generate unique room code")
}

// GetSession returns a game session by room code
func (h *GameHub) GetSession(code string) (*GameSession, error) {
	session, ok := h.sessions.Get(code)
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return session, nil
}

// DeleteSession tears a game down
func (h *GameHub) DeleteSession(code string) {
	if session, ok := h.sessions.Delete(code); ok {
		session.Close()
		h.logger.Info().Str("game_code", code).Msg("game deleted")
	}
}

// SessionCount returns the number of live sessions
func (h *GameHub) SessionCount() int {
	return h.sessions.Len()
}

// TotalPlayerCount returns the number of players across all sessions
func (h *GameHub) TotalPlayerCount() int {
	total := 0
	for _, session := range h.sessions.All() {
		total += session.PlayerCount()
	}
	return total
}

// Run sweeps expired games until ctx is done, then closes every session
func (h *GameHub) Run(ctx context.Context) error {
	ticker := h.clock.NewTicker(h.cfg.SweepInterval)
	defer ticker.Stop()

	h.logger.Info().Dur("ttl", h.cfg.GameTTL).Dur("interval", h.cfg.SweepInterval).Msg("sweeper started")

	for {
		select {
		case <-ctx.Done():
			h.Close()
			return nil
		case <-ticker.Chan():
			h.Sweep()
		}
	}
}

// Sweep removes every game created more than GameTTL ago
func (h *GameHub) Sweep() int {
	swept := h.sessions.Sweep(h.clock.Now().Add(-h.cfg.GameTTL))
	for _, session := range swept {
		session.Close()
		h.logger.Info().Str("game_code", session.Code()).Msg("expired game swept")
	}
	return len(swept)
}

// Close shuts down every session
func (h *GameHub) Close() {
	for _, session := range h.sessions.All() {
		h.sessions.Delete(session.Code())
		session.Close()
	}
}

// generateRoomCode generates a random room code
func (h *GameHub) generateRoomCode() string {
	b := make([]byte, h.cfg.RoomCodeLength)
	rand.Read(b)

	code := make([]byte, h.cfg.RoomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}
