package domain

import "time"

const (
	// DailyDoubleMinWager is the smallest legal daily double wager
	DailyDoubleMinWager = 5

	// DailyDoubleFloorMax is the wager ceiling for players scoring below it
	DailyDoubleFloorMax = 1000
)

// BuzzEntry records one accepted buzz in arrival order
type BuzzEntry struct {
	PlayerID string    `json:"playerId"`
	At       time.Time `json:"at"`
}

// ActiveClue is the single clue currently in play
type ActiveClue struct {
	CategoryIndex      int
	ClueIndex          int
	State              ClueState
	DailyDouble        bool
	DesignatedPlayerID string // daily double only
	AnsweringPlayerID  string
	Wager              *int
	BuzzOpenedAt       time.Time
	Attempted          map[string]bool
}

// NewActiveClue creates the active clue for a freshly selected cell
func NewActiveClue(categoryIndex, clueIndex int, dailyDouble bool) *ActiveClue {
	state := ClueShowing
	if dailyDouble {
		state = ClueDailyDoubleWager
	}
	return &ActiveClue{
		CategoryIndex: categoryIndex,
		ClueIndex:     clueIndex,
		State:         state,
		DailyDouble:   dailyDouble,
		Attempted:     make(map[string]bool),
	}
}

// Amount returns the wager if one was made, otherwise the clue value
func (a *ActiveClue) Amount(clue *Clue) int {
	if a.Wager != nil {
		return *a.Wager
	}
	return clue.Value
}

// HasAttempted checks if the player already answered this clue wrongly
func (a *ActiveClue) HasAttempted(playerID string) bool {
	return a.Attempted[playerID]
}

// AttemptedIDs returns the ids in the attempted set
func (a *ActiveClue) AttemptedIDs() []string {
	ids := make([]string, 0, len(a.Attempted))
	for id := range a.Attempted {
		ids = append(ids, id)
	}
	return ids
}

// DailyDoubleWagerBounds returns the legal daily double wager range for a score
func DailyDoubleWagerBounds(score int) (int, int) {
	return DailyDoubleMinWager, max(score, DailyDoubleFloorMax)
}

// FinalWagerBounds returns the legal final wager range for a score
func FinalWagerBounds(score int) (int, int) {
	return 0, max(score, 0)
}

// ClampWager clamps amount into [lo, hi]
func ClampWager(amount, lo, hi int) int {
	return min(max(amount, lo), hi)
}
