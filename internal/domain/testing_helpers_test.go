package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestBoard builds a valid board with the daily double at (ddCat, ddRow)
func newTestBoard(t *testing.T, ddCat, ddRow int) *Board {
	t.Helper()
	cats := make([]*Category, CategoryCount)
	for ci := range cats {
		clues := make([]*Clue, CluesPerCategory)
		for ri := range clues {
			clues[ri] = &Clue{
				Prompt:      fmt.Sprintf("prompt %d-%d", ci, ri),
				Response:    fmt.Sprintf("response %d-%d", ci, ri),
				DailyDouble: ci == ddCat && ri == ddRow,
			}
		}
		cats[ci] = &Category{Name: fmt.Sprintf("Category %d", ci), Clues: clues}
	}
	board, err := NewBoard(cats, func(int) int { return 0 })
	require.NoError(t, err)
	return board
}

var testFinal = FinalClue{Category: "Rivers", Clue: "Longest river in Africa", Response: "What is the Nile?"}

// newActiveGame returns a started game with the named players joined in order
func newActiveGame(t *testing.T, names ...string) (*Game, []*Player) {
	t.Helper()
	g := NewGame("ABC123", newTestBoard(t, 5, 4), testFinal)
	players := make([]*Player, 0, len(names))
	for i, name := range names {
		p, reconnected, err := g.Join(fmt.Sprintf("p%d", i), fmt.Sprintf("c%d", i), name)
		require.NoError(t, err)
		require.False(t, reconnected)
		players = append(players, p)
	}
	require.NoError(t, g.Start())
	return g, players
}

var t0 = time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
