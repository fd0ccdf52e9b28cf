package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard_NormalizesValuesAndClearsRevealed(t *testing.T) {
	board := newTestBoard(t, 2, 3)

	for _, cat := range board.Categories {
		for ri, clue := range cat.Clues {
			assert.Equal(t, ClueValues[ri], clue.Value)
			assert.False(t, clue.Revealed)
		}
	}
	clue, err := board.Clue(2, 3)
	require.NoError(t, err)
	assert.True(t, clue.DailyDouble)
	assert.Equal(t, 30, board.Remaining())
}

func TestNewBoard_PicksDailyDoubleWhenNoneFlagged(t *testing.T) {
	board := newTestBoard(t, -1, -1)

	// intn returns 0 in the helper, so the first cell is chosen
	clue, err := board.Clue(0, 0)
	require.NoError(t, err)
	assert.True(t, clue.DailyDouble)
}

func TestNewBoard_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(b *Board) []*Category
	}{
		{
			name:   "too few categories",
			mutate: func(b *Board) []*Category { return b.Categories[:5] },
		},
		{
			name: "too few clues",
			mutate: func(b *Board) []*Category {
				b.Categories[1].Clues = b.Categories[1].Clues[:4]
				return b.Categories
			},
		},
		{
			name: "missing response",
			mutate: func(b *Board) []*Category {
				b.Categories[0].Clues[2].Response = "  "
				return b.Categories
			},
		},
		{
			name: "two daily doubles",
			mutate: func(b *Board) []*Category {
				b.Categories[3].Clues[1].DailyDouble = true
				return b.Categories
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cats := tc.mutate(newTestBoard(t, 0, 0))
			_, err := NewBoard(cats, func(int) int { return 0 })
			require.ErrorIs(t, err, ErrInvalidBoard)
		})
	}
}

func TestBoardClue_OutOfRange(t *testing.T) {
	board := newTestBoard(t, 0, 0)

	_, err := board.Clue(6, 0)
	assert.ErrorIs(t, err, ErrClueNotFound)
	_, err = board.Clue(0, -1)
	assert.ErrorIs(t, err, ErrClueNotFound)
}

func TestFinalClueValidate(t *testing.T) {
	assert.NoError(t, testFinal.Validate())
	assert.ErrorIs(t, (&FinalClue{Category: "x"}).Validate(), ErrInvalidBoard)
	var missing *FinalClue
	assert.ErrorIs(t, missing.Validate(), ErrInvalidBoard)
}
