package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"jeopardy/internal/domain"
)

// Cache is a best-effort store of board documents
type Cache interface {
	Get(ctx context.Context, key string) (*Document, bool, error)
	Set(ctx context.Context, key string, doc *Document) error
}

// CachedProvider builds boards from a Loader, consulting a Cache first.
// Cache failures are logged and never block game creation.
type CachedProvider struct {
	loader Loader
	cache  Cache
	intn   func(int) int
	logger zerolog.Logger
}

// NewCachedProvider creates a provider. A nil cache makes it a pass-through.
func NewCachedProvider(loader Loader, cache Cache, logger zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		loader: loader,
		cache:  cache,
		intn:   rand.Intn,
		logger: logger.With().Str("component", "content").Logger(),
	}
}

// Generate returns a freshly built board and final clue for the source
func (p *CachedProvider) Generate(ctx context.Context, src domain.ContentSource) (*domain.Board, *domain.FinalClue, error) {
	key := CacheKey(src)

	doc := p.cached(ctx, key)
	hit := doc != nil
	if !hit {
		loaded, err := p.loader.Load(ctx, src)
		if err != nil {
			return nil, nil, err
		}
		doc = loaded
	}

	board, final, err := doc.Build(p.intn)
	if err != nil {
		return nil, nil, err
	}
	if !hit {
		p.store(ctx, key, doc)
	}
	return board, final, nil
}

func (p *CachedProvider) cached(ctx context.Context, key string) *Document {
	if p.cache == nil {
		return nil
	}
	doc, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("board cache read failed")
		return nil
	}
	if !ok {
		return nil
	}
	p.logger.Debug().Str("key", key).Msg("board cache hit")
	return doc
}

func (p *CachedProvider) store(ctx context.Context, key string, doc *Document) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(ctx, key, doc); err != nil {
		p.logger.Warn().Err(err).Str("key", key).Msg("board cache write failed")
	}
}

// CacheKey derives the cache key for a source: the topic slug, or a hash of
// the source text
func CacheKey(src domain.ContentSource) string {
	if text := strings.TrimSpace(src.Text); text != "" {
		sum := sha256.Sum256([]byte(text))
		return "text:" + hex.EncodeToString(sum[:8])
	}
	slug := Slug(src.Topic)
	if slug == "" {
		slug = Slug(SampleTopic)
	}
	return "topic:" + slug
}
