package cache

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/ppiankov/jdsort/internal/model"
	"github.com/ppiankov/jdsort/internal/taxonomy"
)

// SuggestionCache stores inference-derived suggestions keyed by backend,
// model and the file attributes the prompt is built from
type SuggestionCache struct {
	store Cache
	ttl   time.Duration
}

// NewSuggestionCache wraps a byte cache; a nil store disables caching
func NewSuggestionCache(store Cache, ttl time.Duration) *SuggestionCache {
	if store == nil {
		store = NoopCache{}
	}
	return &SuggestionCache{store: store, ttl: ttl}
}

// SuggestionKey identifies one prompt against one backend model
func SuggestionKey(backend, modelName string, file model.FileDescriptor) string {
	return CacheKey(
		backend,
		modelName,
		file.Name,
		taxonomy.NormalizeExtension(file.Extension),
		strconv.FormatInt(file.Size, 10),
		file.MimeType,
	)
}

// Get returns a cached suggestion
func (c *SuggestionCache) Get(backend, modelName string, file model.FileDescriptor) (model.ClassificationSuggestion, bool) {
	var s model.ClassificationSuggestion

	data, ok := c.store.Get(SuggestionKey(backend, modelName, file))
	if !ok {
		return s, false
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, false
	}
	return s, true
}

// Put caches a suggestion. Rule-based suggestions are never cached since
// they are cheaper to recompute than to look up.
func (c *SuggestionCache) Put(backend, modelName string, file model.FileDescriptor, s model.ClassificationSuggestion) error {
	if s.Source == model.SourceRules {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.store.Set(SuggestionKey(backend, modelName, file), data, c.ttl)
}

// Clear drops every cached entry
func (c *SuggestionCache) Clear() error {
	return c.store.Clear()
}
