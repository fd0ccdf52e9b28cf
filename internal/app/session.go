package app

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"jeopardy/internal/domain"
)

// SessionDeps are the collaborators a session needs
type SessionDeps struct {
	Broadcaster    Broadcaster
	Scheduler      Scheduler
	Results        ResultsPublisher
	Clock          clockwork.Clock
	Logger         zerolog.Logger
	CountdownTicks int
}

// GameSession wraps a game and serializes every action on it. Client
// actions and countdown callbacks all take the same lock, so the order in
// which they acquire it is the order in which they apply.
type GameSession struct {
	game *domain.Game
	mu   sync.Mutex

	broadcaster    Broadcaster
	scheduler      Scheduler
	results        ResultsPublisher
	clock          clockwork.Clock
	logger         zerolog.Logger
	countdownTicks int

	// At most one live countdown per session
	countdown    Countdown
	countdownGen uint64
	closed       bool
}

// SessionInfo is the public summary of a session
type SessionInfo struct {
	Code        string        `json:"code"`
	Status      domain.Status `json:"status"`
	PlayerCount int           `json:"playerCount"`
	CanJoin     bool          `json:"canJoin"`
	Connections int           `json:"connections"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// NewGameSession creates a session around a game
func NewGameSession(game *domain.Game, deps SessionDeps) *GameSession {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Results == nil {
		deps.Results = NopResultsPublisher{}
	}
	if deps.CountdownTicks <= 0 {
		deps.CountdownTicks = DefaultCountdownTicks
	}

	return &GameSession{
		game:           game,
		broadcaster:    deps.Broadcaster,
		scheduler:      deps.Scheduler,
		results:        deps.Results,
		clock:          deps.Clock,
		logger:         deps.Logger.With().Str("game_code", game.ID).Logger(),
		countdownTicks: deps.CountdownTicks,
	}
}

// Code returns the join code
func (s *GameSession) Code() string {
	return s.game.ID
}

// CreatedAt returns when the game was created
func (s *GameSession) CreatedAt() time.Time {
	return s.game.CreatedAt
}

// PlayerCount returns the number of players ever joined
func (s *GameSession) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.game.Players)
}

// Status returns the lifecycle status of the game
func (s *GameSession) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Status
}

// Info returns the public summary of the session
func (s *GameSession) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		Code:        s.game.ID,
		Status:      s.game.Status,
		PlayerCount: len(s.game.Players),
		CanJoin:     s.game.Status == domain.StatusLobby,
		Connections: s.broadcaster.ConnectionCount(s.game.ID),
		CreatedAt:   s.game.CreatedAt,
	}
}

// Snapshot returns the projected view for a role
func (s *GameSession) Snapshot(role domain.ConnectionRole) *domain.GameView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project(role)
}

// JoinPlayer adds a player in the lobby or reconnects a dropped one by name
func (s *GameSession) JoinPlayer(connectionID, name string) (*domain.Player, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false, domain.ErrGameNotFound
	}

	player, reconnected, err := s.game.Join(newID(), connectionID, name)
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().
		Str("player_id", player.ID).
		Str("connection_id", connectionID).
		Bool("reconnected", reconnected).
		Msg("player joined")

	s.publish(domain.EventPlayerJoined, &domain.PresencePayload{
		PlayerID:    player.ID,
		Name:        player.Name,
		Connected:   true,
		Reconnected: reconnected,
	}, AudienceAll)
	s.broadcastSnapshots()

	return player, reconnected, nil
}

// Attach binds a connection to the room, acknowledges the join and sends the
// connection its current view
func (s *GameSession) Attach(conn Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrGameNotFound
	}

	role := conn.Role()
	s.broadcaster.Register(s.game.ID, conn)

	s.sendTo(conn, domain.EventJoined, &domain.JoinedPayload{
		GameID:   s.game.ID,
		Role:     role.Kind,
		PlayerID: role.PlayerID,
	})
	s.sendTo(conn, domain.EventStateSnapshot, s.project(role))

	s.logger.Debug().
		Str("connection_id", conn.ID()).
		Str("role", role.String()).
		Msg("connection attached")

	return nil
}

// Detach unbinds a connection. A player is marked disconnected only when the
// connection is still their current one.
func (s *GameSession) Detach(conn Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.broadcaster.Unregister(s.game.ID, conn)

	role := conn.Role()
	if !role.IsPlayer() || s.closed {
		return
	}
	if !s.game.Disconnect(role.PlayerID, conn.ID()) {
		return
	}

	player, _ := s.game.GetPlayer(role.PlayerID)
	s.logger.Info().Str("player_id", player.ID).Msg("player disconnected")

	s.publish(domain.EventPlayerLeft, &domain.PresencePayload{
		PlayerID:  player.ID,
		Name:      player.Name,
		Connected: false,
	}, AudienceAll)
	s.broadcastSnapshots()
}

// StartGame moves the game from the lobby to the board
func (s *GameSession) StartGame(role domain.ConnectionRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsHost() {
		return s.ignore("start_game", role, domain.ErrIllegalTransition)
	}
	if err := s.game.Start(); err != nil {
		return s.ignore("start_game", role, err)
	}

	s.logger.Info().Int("players", len(s.game.Players)).Msg("game started")

	s.publish(domain.EventGameStarted, &domain.GameStartedPayload{Scores: s.game.Scores()}, AudienceAll)
	s.broadcastSnapshots()
	return nil
}

// SelectClue activates a board cell. A regular clue starts the countdown to
// buzzing; a daily double prompts the designated player for a wager.
func (s *GameSession) SelectClue(role domain.ConnectionRole, categoryIndex, clueIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsHost() {
		return s.ignore("select_clue", role, domain.ErrIllegalTransition)
	}
	active, clue, err := s.game.SelectClue(categoryIndex, clueIndex)
	if err != nil {
		return s.ignore("select_clue", role, err)
	}
	s.cancelCountdown()

	selected := &domain.ClueSelectedPayload{
		CategoryIndex:      categoryIndex,
		ClueIndex:          clueIndex,
		Category:           s.game.ActiveCategoryName(),
		Value:              clue.Value,
		DailyDouble:        active.DailyDouble,
		DesignatedPlayerID: active.DesignatedPlayerID,
	}
	if !active.DailyDouble {
		selected.Prompt = clue.Prompt
		selected.CountdownSeconds = s.countdownTicks
	}
	s.publish(domain.EventClueSelected, selected, AudienceAll)
	s.publish(domain.EventHostAnswer, &domain.HostAnswerPayload{
		CategoryIndex: categoryIndex,
		ClueIndex:     clueIndex,
		Response:      clue.Response,
	}, AudienceHost)

	if active.DailyDouble {
		if player, err := s.game.GetPlayer(active.DesignatedPlayerID); err == nil {
			s.publish(domain.EventDailyDoubleWager, &domain.WagerPromptPayload{
				MinWager: domain.DailyDoubleMinWager,
				MaxWager: s.game.DailyDoubleMaxWager(player.ID),
				Score:    player.Score,
			}, AudiencePlayer(player.ID))
		}
	} else {
		s.startCountdown()
	}

	s.broadcastSnapshots()
	return nil
}

// SubmitDailyDoubleWager records the designated player's wager and gives
// them the clue to answer
func (s *GameSession) SubmitDailyDoubleWager(role domain.ConnectionRole, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsPlayer() {
		return s.ignore("daily_double_wager", role, domain.ErrIllegalTransition)
	}
	wager, err := s.game.SubmitDailyDoubleWager(role.PlayerID, amount)
	if err != nil {
		return s.ignore("daily_double_wager", role, err)
	}

	active := s.game.ActiveClue
	clue := s.game.ActiveBoardClue()
	s.publish(domain.EventClueSelected, &domain.ClueSelectedPayload{
		CategoryIndex:      active.CategoryIndex,
		ClueIndex:          active.ClueIndex,
		Category:           s.game.ActiveCategoryName(),
		Value:              clue.Value,
		Prompt:             clue.Prompt,
		DailyDouble:        true,
		DesignatedPlayerID: active.DesignatedPlayerID,
		Wager:              wager,
	}, AudienceAll)
	s.broadcastSnapshots()
	return nil
}

// Buzz records a player's buzz. Only the first buzz of an open window counts.
func (s *GameSession) Buzz(role domain.ConnectionRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsPlayer() {
		return s.ignore("buzz", role, domain.ErrIllegalTransition)
	}
	if err := s.game.Buzz(role.PlayerID, s.clock.Now()); err != nil {
		return s.ignore("buzz", role, err)
	}

	player, _ := s.game.GetPlayer(role.PlayerID)
	s.publish(domain.EventPlayerBuzzed, &domain.PlayerBuzzedPayload{
		PlayerID: player.ID,
		Name:     player.Name,
	}, AudienceAll)
	s.broadcastSnapshots()
	return nil
}

// Judge scores the answering player
func (s *GameSession) Judge(role domain.ConnectionRole, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsHost() {
		return s.ignore("judge", role, domain.ErrIllegalTransition)
	}
	out, err := s.game.Judge(correct, s.clock.Now())
	if err != nil {
		return s.ignore("judge", role, err)
	}
	s.cancelCountdown()

	s.publish(domain.EventJudgeResult, &domain.JudgeResultPayload{
		PlayerID:     out.PlayerID,
		Correct:      out.Correct,
		Amount:       out.Amount,
		Scores:       s.game.Scores(),
		ClueComplete: out.ClueComplete,
	}, AudienceAll)

	switch {
	case out.Reopened:
		s.publish(domain.EventBuzzingOpen, &domain.BuzzingOpenPayload{
			CategoryIndex: out.Category,
			ClueIndex:     out.Row,
			Reopened:      true,
		}, AudienceAll)
	case out.ClueComplete:
		s.publish(domain.EventClueComplete, &domain.ClueCompletePayload{
			CategoryIndex: out.Category,
			ClueIndex:     out.Row,
			Response:      out.Response,
		}, AudienceAll)
	}

	s.broadcastSnapshots()
	return nil
}

// SkipClue abandons the active clue without scoring
func (s *GameSession) SkipClue(role domain.ConnectionRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !role.IsHost() {
		return s.ignore("skip_clue", role, domain.ErrIllegalTransition)
	}
	active, response, err := s.game.Skip()
	if err != nil {
		return s.ignore("skip_clue", role, err)
	}
	s.cancelCountdown()

	s.publish(domain.EventClueComplete, &domain.ClueCompletePayload{
		CategoryIndex: active.CategoryIndex,
		ClueIndex:     active.ClueIndex,
		Response:      response,
		Skipped:       true,
	}, AudienceAll)
	s.broadcastSnapshots()
	return nil
}

// startCountdown replaces any running countdown with a fresh one. Callbacks
// from a replaced or cancelled countdown are ignored.
func (s *GameSession) startCountdown() {
	s.cancelCountdown()

	s.countdownGen++
	gen := s.countdownGen
	s.countdown = s.scheduler.Start(s.countdownTicks,
		func(remaining int) { s.onCountdownTick(gen, remaining) },
		func() { s.onCountdownComplete(gen) },
	)
}

func (s *GameSession) cancelCountdown() {
	if s.countdown != nil {
		s.countdown.Cancel()
		s.countdown = nil
	}
}

func (s *GameSession) countdownLive(gen uint64) bool {
	return s.countdown != nil && s.countdownGen == gen
}

func (s *GameSession) onCountdownTick(gen uint64, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.countdownLive(gen) {
		return
	}
	s.publish(domain.EventBuzzCountdown, &domain.CountdownPayload{SecondsRemaining: remaining}, AudienceAll)
}

func (s *GameSession) onCountdownComplete(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.countdownLive(gen) {
		return
	}
	s.countdown = nil

	if err := s.game.OpenBuzzing(s.clock.Now()); err != nil {
		s.logger.Debug().Err(err).Msg("countdown finished after clue moved on")
		return
	}

	active := s.game.ActiveClue
	s.publish(domain.EventBuzzingOpen, &domain.BuzzingOpenPayload{
		CategoryIndex: active.CategoryIndex,
		ClueIndex:     active.ClueIndex,
	}, AudienceAll)
	s.broadcastSnapshots()
}

// Close stops the countdown and disconnects every connection of the room
func (s *GameSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.cancelCountdown()
	s.broadcaster.CloseRoom(s.game.ID)
}

// ignore logs an action that does not apply in the current state and
// returns the error so the transport can drop it quietly
func (s *GameSession) ignore(action string, role domain.ConnectionRole, err error) error {
	s.logger.Debug().
		Err(err).
		Str("action", action).
		Str("role", role.String()).
		Str("status", s.game.Status.String()).
		Msg("action ignored")
	return err
}

func (s *GameSession) project(role domain.ConnectionRole) *domain.GameView {
	switch {
	case role.IsHost():
		return domain.ProjectHost(s.game)
	case role.IsPlayer():
		return domain.ProjectPlayer(s.game, role.PlayerID)
	default:
		return domain.ProjectDisplay(s.game)
	}
}

// broadcastSnapshots sends every audience its own projection
func (s *GameSession) broadcastSnapshots() {
	s.publish(domain.EventStateSnapshot, domain.ProjectHost(s.game), AudienceHost)
	s.publish(domain.EventStateSnapshot, domain.ProjectDisplay(s.game), AudienceDisplay)
	for _, p := range s.game.OrderedPlayers() {
		if !p.IsConnected() {
			continue
		}
		s.publish(domain.EventStateSnapshot, domain.ProjectPlayer(s.game, p.ID), AudiencePlayer(p.ID))
	}
}

func (s *GameSession) publish(kind domain.EventType, payload interface{}, audience Audience) {
	s.broadcaster.Publish(s.game.ID, kind, payload, audience)
}

// sendTo writes one event to a single connection
func (s *GameSession) sendTo(conn Connection, kind domain.EventType, payload interface{}) {
	data, err := json.Marshal(domain.NewEvent(kind, s.game.ID, payload))
	if err != nil {
		s.logger.Error().Err(err).Str("event_type", string(kind)).Msg("failed to marshal event")
		return
	}
	if err := conn.Send(data); err != nil {
		s.logger.Debug().Err(err).Str("connection_id", conn.ID()).Msg("failed to send to connection")
	}
}
