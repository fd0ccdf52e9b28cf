package content

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"jeopardy/internal/domain"
)

// Document is the on-disk and cached form of one board
type Document struct {
	Topic      string        `yaml:"topic" json:"topic"`
	Categories []CategoryDoc `yaml:"categories" json:"categories"`
	Final      FinalDoc      `yaml:"final" json:"final"`
}

// CategoryDoc is one category column of a document
type CategoryDoc struct {
	Name  string    `yaml:"name" json:"name"`
	Clues []ClueDoc `yaml:"clues" json:"clues"`
}

// ClueDoc is one clue of a document. Values are implied by row.
type ClueDoc struct {
	Prompt      string `yaml:"prompt" json:"prompt"`
	Response    string `yaml:"response" json:"response"`
	DailyDouble bool   `yaml:"dailyDouble,omitempty" json:"dailyDouble,omitempty"`
}

// FinalDoc is the Final Jeopardy content of a document
type FinalDoc struct {
	Category string `yaml:"category" json:"category"`
	Clue     string `yaml:"clue" json:"clue"`
	Response string `yaml:"response" json:"response"`
}

// Parse decodes a YAML board document
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidBoard, err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", domain.ErrInvalidBoard)
	}
	return &doc, nil
}

// Build validates the document and returns a fresh board and final clue.
// Every call returns new values, so games never share reveal state.
func (d *Document) Build(intn func(int) int) (*domain.Board, *domain.FinalClue, error) {
	categories := make([]*domain.Category, 0, len(d.Categories))
	for _, cat := range d.Categories {
		clues := make([]*domain.Clue, 0, len(cat.Clues))
		for _, c := range cat.Clues {
			clues = append(clues, &domain.Clue{
				Prompt:      strings.TrimSpace(c.Prompt),
				Response:    strings.TrimSpace(c.Response),
				DailyDouble: c.DailyDouble,
			})
		}
		categories = append(categories, &domain.Category{
			Name:  strings.TrimSpace(cat.Name),
			Clues: clues,
		})
	}

	board, err := domain.NewBoard(categories, intn)
	if err != nil {
		return nil, nil, err
	}

	final := &domain.FinalClue{
		Category: strings.TrimSpace(d.Final.Category),
		Clue:     strings.TrimSpace(d.Final.Clue),
		Response: strings.TrimSpace(d.Final.Response),
	}
	if err := final.Validate(); err != nil {
		return nil, nil, err
	}

	return board, final, nil
}

// Slug normalizes a topic into a lookup key
func Slug(topic string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(topic)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
