package domain

import (
	"fmt"
	"strings"
)

const (
	// CategoryCount is the number of categories on a board
	CategoryCount = 6

	// CluesPerCategory is the number of clues in each category
	CluesPerCategory = 5
)

// ClueValues are the dollar values of each row, top to bottom
var ClueValues = [CluesPerCategory]int{200, 400, 600, 800, 1000}

// Clue is one board cell
type Clue struct {
	Value       int    `json:"value"`
	Prompt      string `json:"prompt"`
	Response    string `json:"response"`
	Revealed    bool   `json:"revealed"`
	DailyDouble bool   `json:"dailyDouble"`
}

// Reveal marks the clue revealed. It reports false if it already was.
func (c *Clue) Reveal() bool {
	if c.Revealed {
		return false
	}
	c.Revealed = true
	return true
}

// Category is one board column
type Category struct {
	Name  string  `json:"name"`
	Clues []*Clue `json:"clues"`
}

// Board is the 6x5 grid of clues attached to a game
type Board struct {
	Categories []*Category `json:"categories"`
}

// FinalClue is the Final Jeopardy content
type FinalClue struct {
	Category string `json:"category"`
	Clue     string `json:"clue"`
	Response string `json:"response"`
}

// Validate checks the final clue has all three parts
func (f *FinalClue) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: missing final clue", ErrInvalidBoard)
	}
	if strings.TrimSpace(f.Category) == "" || strings.TrimSpace(f.Clue) == "" || strings.TrimSpace(f.Response) == "" {
		return fmt.Errorf("%w: final clue needs category, clue and response", ErrInvalidBoard)
	}
	return nil
}

// NewBoard validates the categories and builds a board. Row values are
// normalized to ClueValues and revealed flags cleared. When no cell is flagged
// as the daily double, intn picks one.
func NewBoard(categories []*Category, intn func(int) int) (*Board, error) {
	if len(categories) != CategoryCount {
		return nil, fmt.Errorf("%w: want %d categories, got %d", ErrInvalidBoard, CategoryCount, len(categories))
	}

	dailyDoubles := 0
	for ci, cat := range categories {
		if cat == nil || strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("%w: category %d has no name", ErrInvalidBoard, ci)
		}
		if len(cat.Clues) != CluesPerCategory {
			return nil, fmt.Errorf("%w: category %q wants %d clues, got %d", ErrInvalidBoard, cat.Name, CluesPerCategory, len(cat.Clues))
		}
		for ri, clue := range cat.Clues {
			if clue == nil || strings.TrimSpace(clue.Prompt) == "" || strings.TrimSpace(clue.Response) == "" {
				return nil, fmt.Errorf("%w: category %q row %d needs prompt and response", ErrInvalidBoard, cat.Name, ri)
			}
			clue.Value = ClueValues[ri]
			clue.Revealed = false
			if clue.DailyDouble {
				dailyDoubles++
			}
		}
	}

	switch {
	case dailyDoubles > 1:
		return nil, fmt.Errorf("%w: %d daily doubles flagged", ErrInvalidBoard, dailyDoubles)
	case dailyDoubles == 0:
		cell := intn(CategoryCount * CluesPerCategory)
		categories[cell/CluesPerCategory].Clues[cell%CluesPerCategory].DailyDouble = true
	}

	return &Board{Categories: categories}, nil
}

// Clue returns the clue at the given category and row
func (b *Board) Clue(categoryIndex, clueIndex int) (*Clue, error) {
	if categoryIndex < 0 || categoryIndex >= len(b.Categories) {
		return nil, ErrClueNotFound
	}
	cat := b.Categories[categoryIndex]
	if clueIndex < 0 || clueIndex >= len(cat.Clues) {
		return nil, ErrClueNotFound
	}
	return cat.Clues[clueIndex], nil
}

// Remaining returns the number of unrevealed clues
func (b *Board) Remaining() int {
	n := 0
	for _, cat := range b.Categories {
		for _, clue := range cat.Clues {
			if !clue.Revealed {
				n++
			}
		}
	}
	return n
}
