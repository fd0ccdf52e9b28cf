package domain

import (
	"cmp"
	"slices"
)

// FinalSubmission is one player's Final Jeopardy wager and answer
type FinalSubmission struct {
	Wager     int    `json:"wager"`
	HasWager  bool   `json:"hasWager"`
	Answer    string `json:"answer"`
	HasAnswer bool   `json:"hasAnswer"`
}

// FinalState is the Final Jeopardy sub-state of a game
type FinalState struct {
	Clue        FinalClue
	Stage       FinalStage
	Submissions map[string]*FinalSubmission

	// Reveal stage
	RevealOrder  []string
	RevealIndex  int
	RevealStep   RevealStep
	Judgments    map[string]bool
	ScoresBefore map[string]int
}

// NewFinalState creates a not-yet-started final round
func NewFinalState(clue FinalClue) *FinalState {
	return &FinalState{
		Clue:         clue,
		Stage:        FinalNotStarted,
		Submissions:  make(map[string]*FinalSubmission),
		Judgments:    make(map[string]bool),
		ScoresBefore: make(map[string]int),
	}
}

// submission returns the player's submission, creating it if needed
func (f *FinalState) submission(playerID string) *FinalSubmission {
	sub, ok := f.Submissions[playerID]
	if !ok {
		sub = &FinalSubmission{}
		f.Submissions[playerID] = sub
	}
	return sub
}

// CurrentRevealPlayerID returns the player whose card is being revealed
func (f *FinalState) CurrentRevealPlayerID() string {
	if f.Stage != FinalRevealing || f.RevealIndex >= len(f.RevealOrder) {
		return ""
	}
	return f.RevealOrder[f.RevealIndex]
}

// StepFor returns how far the given player's card has been revealed
func (f *FinalState) StepFor(playerID string) RevealStep {
	idx := slices.Index(f.RevealOrder, playerID)
	switch {
	case idx < 0:
		return RevealUnrevealed
	case f.Stage == FinalResults || idx < f.RevealIndex:
		return RevealScore
	case idx == f.RevealIndex && f.Stage == FinalRevealing:
		return f.RevealStep
	default:
		return RevealUnrevealed
	}
}

// ScoreAfter returns the post-reveal score for a player in the reveal order
func (f *FinalState) ScoreAfter(playerID string) int {
	before := f.ScoresBefore[playerID]
	wager := 0
	if sub, ok := f.Submissions[playerID]; ok {
		wager = sub.Wager
	}
	if f.Judgments[playerID] {
		return before + wager
	}
	return before - wager
}

// RevealOrderFor orders the submitted players by ascending score snapshot.
// Ties keep join order.
func RevealOrderFor(joinOrder []string, submitted map[string]*FinalSubmission, scores map[string]int) []string {
	order := make([]string, 0, len(submitted))
	for _, id := range joinOrder {
		if _, ok := submitted[id]; ok {
			order = append(order, id)
		}
	}
	slices.SortStableFunc(order, func(a, b string) int {
		return cmp.Compare(scores[a], scores[b])
	})
	return order
}
