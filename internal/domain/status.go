package domain

// Status represents the lifecycle status of a game session
type Status string

const (
	StatusLobby         Status = "lobby"          // Waiting for players to join
	StatusActive        Status = "active"         // Board play
	StatusFinalJeopardy Status = "final_jeopardy" // Final round in progress
	StatusFinished      Status = "finished"       // Results shown
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// ClueState tags where the active clue is in its lifecycle
type ClueState string

const (
	ClueDailyDoubleWager ClueState = "daily_double_wager"
	ClueShowing          ClueState = "showing_clue"
	ClueBuzzingOpen      ClueState = "buzzing_open"
	CluePlayerAnswering  ClueState = "player_answering"
)

// FinalStage is the global stage of the Final Jeopardy sequencer
type FinalStage string

const (
	FinalNotStarted   FinalStage = "not_started"
	FinalShowCategory FinalStage = "show_category"
	FinalWagering     FinalStage = "wagering"
	FinalAnswering    FinalStage = "answering"
	FinalRevealing    FinalStage = "revealing"
	FinalResults      FinalStage = "results"
)

var finalStageOrder = map[FinalStage]FinalStage{
	FinalNotStarted:   FinalShowCategory,
	FinalShowCategory: FinalWagering,
	FinalWagering:     FinalAnswering,
	FinalAnswering:    FinalRevealing,
	FinalRevealing:    FinalResults,
}

// Next returns the stage that follows s, if any
func (s FinalStage) Next() (FinalStage, bool) {
	next, ok := finalStageOrder[s]
	return next, ok
}

// CanTransitionTo checks if the sequencer may move from s to target
func (s FinalStage) CanTransitionTo(target FinalStage) bool {
	next, ok := s.Next()
	return ok && next == target
}

// RevealStep is the per-player step of the Final Jeopardy reveal stepper
type RevealStep string

const (
	RevealUnrevealed RevealStep = "unrevealed"
	RevealFocus      RevealStep = "focus"
	RevealAnswer     RevealStep = "answer"
	RevealJudged     RevealStep = "judged"
	RevealWager      RevealStep = "wager"
	RevealScore      RevealStep = "score"
)

// rank orders reveal steps so views can decide what has been disclosed
func (s RevealStep) rank() int {
	switch s {
	case RevealFocus:
		return 1
	case RevealAnswer:
		return 2
	case RevealJudged:
		return 3
	case RevealWager:
		return 4
	case RevealScore:
		return 5
	default:
		return 0
	}
}

// Reached reports whether s is at or past target
func (s RevealStep) Reached(target RevealStep) bool {
	return s.rank() >= target.rank()
}
