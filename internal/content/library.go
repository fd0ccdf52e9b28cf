package content

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"jeopardy/internal/domain"
)

// ErrUnknownTopic is returned when no board matches the requested topic
var ErrUnknownTopic = errors.New("no board for topic")

// Loader resolves a content source into a board document
type Loader interface {
	Load(ctx context.Context, src domain.ContentSource) (*Document, error)
}

// Library serves board documents loaded from YAML files plus the built-in
// sample board. Inline source text is parsed as a document.
type Library struct {
	docs   map[string]*Document
	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewLibrary creates a library holding only the built-in sample board
func NewLibrary(logger zerolog.Logger) *Library {
	l := &Library{
		docs:   make(map[string]*Document),
		logger: logger.With().Str("component", "content").Logger(),
	}
	l.Add(SampleDocument())
	return l
}

// LoadDir adds every *.yaml and *.yml board in dir. Files that fail to parse
// are skipped and logged.
func (l *Library) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read board dir: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("failed to read board file")
			continue
		}
		doc, err := Parse(data)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("failed to parse board file")
			continue
		}
		if doc.Topic == "" {
			doc.Topic = strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		}
		l.Add(doc)
		loaded++
	}

	l.logger.Info().Str("dir", dir).Int("boards", loaded).Msg("board library loaded")
	return loaded, nil
}

// Add registers a document under its topic slug
func (l *Library) Add(doc *Document) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.docs[Slug(doc.Topic)] = doc
}

// Topics returns the slugs of every known board
func (l *Library) Topics() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	topics := make([]string, 0, len(l.docs))
	for slug := range l.docs {
		topics = append(topics, slug)
	}
	return topics
}

// Load implements Loader. Source text wins over topic; an empty source
// yields the sample board.
func (l *Library) Load(_ context.Context, src domain.ContentSource) (*Document, error) {
	if strings.TrimSpace(src.Text) != "" {
		return Parse([]byte(src.Text))
	}

	slug := Slug(src.Topic)
	if slug == "" {
		slug = Slug(SampleTopic)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	doc, ok := l.docs[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, src.Topic)
	}
	return doc, nil
}
