package domain

import (
	"cmp"
	"math/rand"
	"slices"
	"strings"
	"time"
)

// Game is the authoritative state of one game room. It is not safe for
// concurrent use; the owning session serializes every call.
type Game struct {
	ID                  string             `json:"id"`
	Status              Status             `json:"status"`
	Board               *Board             `json:"board"`
	Players             map[string]*Player `json:"players"`
	PlayerOrder         []string           `json:"playerOrder"`
	ActiveClue          *ActiveClue        `json:"-"`
	BuzzQueue           []BuzzEntry        `json:"-"`
	Final               *FinalState        `json:"-"`
	LastCorrectPlayerID string             `json:"lastCorrectPlayerId,omitempty"`
	CreatedAt           time.Time          `json:"createdAt"`

	intn func(int) int
}

// NewGame creates a game in the lobby with the given content
func NewGame(id string, board *Board, final FinalClue) *Game {
	return &Game{
		ID:          id,
		Status:      StatusLobby,
		Board:       board,
		Players:     make(map[string]*Player),
		PlayerOrder: make([]string, 0),
		BuzzQueue:   make([]BuzzEntry, 0),
		Final:       NewFinalState(final),
		CreatedAt:   time.Now(),
		intn:        rand.Intn,
	}
}

// SetRandom replaces the source used for random daily double designation
func (g *Game) SetRandom(intn func(int) int) {
	g.intn = intn
}

// Join adds a new player in the lobby, or rebinds the first disconnected
// player with the same name once the game is in progress.
func (g *Game) Join(newPlayerID, connectionID, name string) (*Player, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrEmptyName
	}

	if g.Status == StatusLobby {
		player := NewPlayer(newPlayerID, connectionID, name)
		g.Players[player.ID] = player
		g.PlayerOrder = append(g.PlayerOrder, player.ID)
		return player, false, nil
	}

	for _, id := range g.PlayerOrder {
		player := g.Players[id]
		if !player.IsConnected() && player.Name == name {
			player.Reconnect(connectionID)
			return player, true, nil
		}
	}

	return nil, false, ErrInProgressNoReconnect
}

// Disconnect marks the player disconnected if connectionID is still bound to them
func (g *Game) Disconnect(playerID, connectionID string) bool {
	player, ok := g.Players[playerID]
	if !ok || player.ConnectionID != connectionID || !player.IsConnected() {
		return false
	}
	player.Disconnect()
	return true
}

// GetPlayer returns a player by ID
func (g *Game) GetPlayer(playerID string) (*Player, error) {
	player, ok := g.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return player, nil
}

// OrderedPlayers returns players in join order
func (g *Game) OrderedPlayers() []*Player {
	players := make([]*Player, 0, len(g.PlayerOrder))
	for _, id := range g.PlayerOrder {
		players = append(players, g.Players[id])
	}
	return players
}

// Scores returns the scoreboard in join order
func (g *Game) Scores() []PlayerScore {
	scores := make([]PlayerScore, 0, len(g.PlayerOrder))
	for _, p := range g.OrderedPlayers() {
		scores = append(scores, p.ToScore())
	}
	return scores
}

// Start moves the game from the lobby to board play
func (g *Game) Start() error {
	if g.Status != StatusLobby {
		return ErrIllegalTransition
	}
	g.Status = StatusActive
	return nil
}

// SelectClue activates an unrevealed cell
func (g *Game) SelectClue(categoryIndex, clueIndex int) (*ActiveClue, *Clue, error) {
	if g.Status != StatusActive || g.ActiveClue != nil {
		return nil, nil, ErrIllegalTransition
	}

	clue, err := g.Board.Clue(categoryIndex, clueIndex)
	if err != nil {
		return nil, nil, err
	}
	if clue.Revealed {
		return nil, nil, ErrIllegalTransition
	}

	active := NewActiveClue(categoryIndex, clueIndex, clue.DailyDouble)
	if active.DailyDouble {
		active.DesignatedPlayerID = g.designateDailyDoublePlayer()
	}
	g.ActiveClue = active
	g.BuzzQueue = g.BuzzQueue[:0]

	return active, clue, nil
}

// designateDailyDoublePlayer prefers the last correct answerer, otherwise a
// random connected player
func (g *Game) designateDailyDoublePlayer() string {
	if _, ok := g.Players[g.LastCorrectPlayerID]; ok {
		return g.LastCorrectPlayerID
	}
	connected := g.connectedPlayerIDs()
	if len(connected) == 0 {
		return ""
	}
	return connected[g.intn(len(connected))]
}

func (g *Game) connectedPlayerIDs() []string {
	ids := make([]string, 0, len(g.PlayerOrder))
	for _, id := range g.PlayerOrder {
		if g.Players[id].IsConnected() {
			ids = append(ids, id)
		}
	}
	return ids
}

// ActiveBoardClue returns the board cell of the active clue
func (g *Game) ActiveBoardClue() *Clue {
	if g.ActiveClue == nil {
		return nil
	}
	clue, _ := g.Board.Clue(g.ActiveClue.CategoryIndex, g.ActiveClue.ClueIndex)
	return clue
}

// ActiveCategoryName returns the category name of the active clue
func (g *Game) ActiveCategoryName() string {
	if g.ActiveClue == nil {
		return ""
	}
	return g.Board.Categories[g.ActiveClue.CategoryIndex].Name
}

// DailyDoubleMaxWager returns the wager ceiling for the designated player
func (g *Game) DailyDoubleMaxWager(playerID string) int {
	score := 0
	if p, ok := g.Players[playerID]; ok {
		score = p.Score
	}
	_, hi := DailyDoubleWagerBounds(score)
	return hi
}

// SubmitDailyDoubleWager records the designated player's clamped wager and
// hands the clue straight to that player to answer.
func (g *Game) SubmitDailyDoubleWager(playerID string, amount int) (int, error) {
	active := g.ActiveClue
	if active == nil || active.State != ClueDailyDoubleWager || active.DesignatedPlayerID != playerID {
		return 0, ErrIllegalTransition
	}
	player, err := g.GetPlayer(playerID)
	if err != nil {
		return 0, err
	}

	lo, hi := DailyDoubleWagerBounds(player.Score)
	wager := ClampWager(amount, lo, hi)
	active.Wager = &wager
	active.State = CluePlayerAnswering
	active.AnsweringPlayerID = playerID

	return wager, nil
}

// OpenBuzzing opens the buzz window once the countdown has elapsed
func (g *Game) OpenBuzzing(at time.Time) error {
	if g.ActiveClue == nil || g.ActiveClue.State != ClueShowing {
		return ErrIllegalTransition
	}
	g.openWindow(at)
	return nil
}

func (g *Game) openWindow(at time.Time) {
	g.ActiveClue.State = ClueBuzzingOpen
	g.ActiveClue.AnsweringPlayerID = ""
	g.ActiveClue.BuzzOpenedAt = at
	g.BuzzQueue = g.BuzzQueue[:0]
}

// Buzz records a buzz. The first accepted buzz of a window wins and moves
// the clue to player_answering, so every later buzz in that window is refused.
func (g *Game) Buzz(playerID string, at time.Time) error {
	active := g.ActiveClue
	if active == nil || active.State != ClueBuzzingOpen {
		return ErrIllegalTransition
	}
	player, ok := g.Players[playerID]
	if !ok || !player.IsConnected() || active.HasAttempted(playerID) {
		return ErrIllegalTransition
	}
	for _, entry := range g.BuzzQueue {
		if entry.PlayerID == playerID {
			return ErrIllegalTransition
		}
	}

	g.BuzzQueue = append(g.BuzzQueue, BuzzEntry{PlayerID: playerID, At: at})
	active.State = CluePlayerAnswering
	active.AnsweringPlayerID = g.BuzzQueue[0].PlayerID

	return nil
}

// JudgeOutcome describes the effect of judging the answering player
type JudgeOutcome struct {
	PlayerID     string
	Correct      bool
	Amount       int
	ClueComplete bool
	Reopened     bool
	Response     string
	Category     int
	Row          int
}

// Judge scores the answering player. A wrong answer reopens buzzing at once
// while a connected player has not yet attempted; daily doubles never reopen.
func (g *Game) Judge(correct bool, at time.Time) (*JudgeOutcome, error) {
	active := g.ActiveClue
	if active == nil || active.State != CluePlayerAnswering {
		return nil, ErrIllegalTransition
	}
	player, err := g.GetPlayer(active.AnsweringPlayerID)
	if err != nil {
		return nil, err
	}

	clue := g.ActiveBoardClue()
	outcome := &JudgeOutcome{
		PlayerID: player.ID,
		Correct:  correct,
		Amount:   active.Amount(clue),
		Category: active.CategoryIndex,
		Row:      active.ClueIndex,
	}

	if correct {
		player.Score += outcome.Amount
		g.LastCorrectPlayerID = player.ID
		outcome.Response = g.completeClue()
		outcome.ClueComplete = true
		return outcome, nil
	}

	player.Score -= outcome.Amount
	active.Attempted[player.ID] = true
	active.AnsweringPlayerID = ""

	if !active.DailyDouble && g.hasEligibleChallenger() {
		g.openWindow(at)
		outcome.Reopened = true
		return outcome, nil
	}

	outcome.Response = g.completeClue()
	outcome.ClueComplete = true
	return outcome, nil
}

func (g *Game) hasEligibleChallenger() bool {
	for _, id := range g.connectedPlayerIDs() {
		if !g.ActiveClue.HasAttempted(id) {
			return true
		}
	}
	return false
}

// Skip abandons the active clue without touching any score
func (g *Game) Skip() (*ActiveClue, string, error) {
	active := g.ActiveClue
	if active == nil {
		return nil, "", ErrIllegalTransition
	}
	return active, g.completeClue(), nil
}

// completeClue reveals the active cell, clears the active clue and returns
// the correct response
func (g *Game) completeClue() string {
	clue := g.ActiveBoardClue()
	clue.Reveal()
	g.ActiveClue = nil
	g.BuzzQueue = g.BuzzQueue[:0]
	return clue.Response
}

// StartFinal moves from board play into Final Jeopardy
func (g *Game) StartFinal() error {
	if g.Status != StatusActive || g.ActiveClue != nil || g.Final.Stage != FinalNotStarted {
		return ErrIllegalTransition
	}
	g.Status = StatusFinalJeopardy
	g.Final.Stage = FinalShowCategory
	return nil
}

// AdvanceFinal moves the final sequencer one stage forward. Leaving the
// answering stage fixes the reveal order and snapshots every score.
func (g *Game) AdvanceFinal() (FinalStage, error) {
	if g.Status != StatusFinalJeopardy {
		return "", ErrIllegalTransition
	}

	var target FinalStage
	switch g.Final.Stage {
	case FinalShowCategory:
		target = FinalWagering
	case FinalWagering:
		target = FinalAnswering
	case FinalAnswering:
		g.beginReveal()
		return g.Final.Stage, nil
	default:
		return "", ErrIllegalTransition
	}

	if !g.Final.Stage.CanTransitionTo(target) {
		return "", ErrIllegalTransition
	}
	g.Final.Stage = target
	return g.Final.Stage, nil
}

func (g *Game) beginReveal() {
	final := g.Final
	for id, p := range g.Players {
		final.ScoresBefore[id] = p.Score
	}
	final.RevealOrder = RevealOrderFor(g.PlayerOrder, final.Submissions, final.ScoresBefore)
	final.RevealIndex = 0

	if len(final.RevealOrder) == 0 {
		g.finish()
		return
	}
	final.Stage = FinalRevealing
	final.RevealStep = RevealFocus
}

func (g *Game) finish() {
	g.Final.Stage = FinalResults
	g.Status = StatusFinished
}

// SubmitFinalWager stores a clamped wager; players may overwrite it until the
// stage advances
func (g *Game) SubmitFinalWager(playerID string, amount int) (int, error) {
	if g.Status != StatusFinalJeopardy || g.Final.Stage != FinalWagering {
		return 0, ErrIllegalTransition
	}
	player, err := g.GetPlayer(playerID)
	if err != nil {
		return 0, err
	}

	lo, hi := FinalWagerBounds(player.Score)
	wager := ClampWager(amount, lo, hi)
	sub := g.Final.submission(playerID)
	sub.Wager = wager
	sub.HasWager = true

	return wager, nil
}

// SubmitFinalAnswer stores the player's single answer
func (g *Game) SubmitFinalAnswer(playerID, answer string) error {
	if g.Status != StatusFinalJeopardy || g.Final.Stage != FinalAnswering {
		return ErrIllegalTransition
	}
	if _, err := g.GetPlayer(playerID); err != nil {
		return err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ErrEmptyAnswer
	}

	sub := g.Final.submission(playerID)
	if sub.HasAnswer {
		return ErrIllegalTransition
	}
	sub.Answer = answer
	sub.HasAnswer = true

	return nil
}

// JudgeFinal records a judgment for the player being revealed. It is legal
// only at that player's answer step and does not touch the score.
func (g *Game) JudgeFinal(playerID string, correct bool) error {
	final := g.Final
	if final.Stage != FinalRevealing || final.RevealStep != RevealAnswer || final.CurrentRevealPlayerID() != playerID {
		return ErrIllegalTransition
	}
	final.Judgments[playerID] = correct
	final.RevealStep = RevealJudged
	return nil
}

// RevealOutcome describes one step of the reveal stepper
type RevealOutcome struct {
	PlayerID    string
	Step        RevealStep
	Answer      string
	Correct     bool
	Wager       int
	ScoreBefore int
	ScoreAfter  int
	Finished    bool
}

// AdvanceReveal drives the per-player stepper focus, answer, judged, wager,
// score, then the next player or results. The score is applied only when a
// player's card reaches the score step, from the pre-reveal snapshot.
func (g *Game) AdvanceReveal() (*RevealOutcome, error) {
	final := g.Final
	if final.Stage != FinalRevealing {
		return nil, ErrIllegalTransition
	}

	switch final.RevealStep {
	case RevealFocus:
		final.RevealStep = RevealAnswer
	case RevealJudged:
		final.RevealStep = RevealWager
	case RevealWager:
		id := final.CurrentRevealPlayerID()
		g.Players[id].Score = final.ScoreAfter(id)
		final.RevealStep = RevealScore
	case RevealScore:
		if final.RevealIndex+1 >= len(final.RevealOrder) {
			g.finish()
			return &RevealOutcome{Step: RevealScore, Finished: true}, nil
		}
		final.RevealIndex++
		final.RevealStep = RevealFocus
	default:
		return nil, ErrIllegalTransition
	}

	return g.revealOutcome(), nil
}

func (g *Game) revealOutcome() *RevealOutcome {
	final := g.Final
	id := final.CurrentRevealPlayerID()
	out := &RevealOutcome{PlayerID: id, Step: final.RevealStep}
	sub := final.Submissions[id]
	if final.RevealStep.Reached(RevealAnswer) && sub != nil {
		out.Answer = sub.Answer
	}
	if final.RevealStep.Reached(RevealJudged) {
		out.Correct = final.Judgments[id]
	}
	if final.RevealStep.Reached(RevealWager) && sub != nil {
		out.Wager = sub.Wager
	}
	if final.RevealStep.Reached(RevealScore) {
		out.ScoreBefore = final.ScoresBefore[id]
		out.ScoreAfter = g.Players[id].Score
	}
	return out
}

// Standings returns players ordered by score, highest first
func (g *Game) Standings() []PlayerScore {
	scores := g.Scores()
	slices.SortStableFunc(scores, func(a, b PlayerScore) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return scores
}

// Winners returns the ids of the players sharing the top score
func (g *Game) Winners() []string {
	standings := g.Standings()
	winners := make([]string, 0, 1)
	for _, s := range standings {
		if s.Score != standings[0].Score {
			break
		}
		winners = append(winners, s.ID)
	}
	return winners
}

// Results summarizes a finished game
func (g *Game) Results(finishedAt time.Time) *GameResults {
	return &GameResults{
		GameID:     g.ID,
		StartedAt:  g.CreatedAt,
		FinishedAt: finishedAt,
		Standings:  g.Standings(),
		Winners:    g.Winners(),
	}
}
