package filter

import (
	"time"

	"github.com/flowbaker/filevault/internal/metrics"
	"github.com/flowbaker/filevault/pkg/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type cacheKey struct {
	generation string
	criteria   string
}

// Evaluator memoizes Evaluate per (collection generation, criteria).
// Returned slices are shared between callers and must not be modified.
type Evaluator struct {
	cache *expirable.LRU[cacheKey, []domain.FileRecord]
}

func NewEvaluator(size int, ttl time.Duration) *Evaluator {
	if size <= 0 {
		size = 64
	}

	return &Evaluator{
		cache: expirable.NewLRU[cacheKey, []domain.FileRecord](size, nil, ttl),
	}
}

func (e *Evaluator) Evaluate(collection Collection, criteria domain.FilterCriteria) []domain.FileRecord {
	if collection.Generation == "" {
		return Evaluate(collection.Records, criteria)
	}

	key := cacheKey{generation: collection.Generation, criteria: criteria.Key()}

	if result, ok := e.cache.Get(key); ok {
		metrics.FilterCacheHitsTotal.Inc()
		return result
	}
	metrics.FilterCacheMissesTotal.Inc()

	result := Evaluate(collection.Records, criteria)
	e.cache.Add(key, result)

	return result
}

func (e *Evaluator) Len() int {
	return e.cache.Len()
}

// Purge drops every memoized result.
func (e *Evaluator) Purge() {
	e.cache.Purge()
}
