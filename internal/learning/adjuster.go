// Package learning re-ranks equipment candidates using previously recorded
// successful-quote patterns. It is a read path that nudges ordering and
// annotates the response; it never overrides architecture selection or
// validation, and any failure degrades to a no-op.
package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/models"
	"github.com/mmamrila/aiquoting-sub000/internal/repository"
	"github.com/mmamrila/aiquoting-sub000/internal/store"
)

const patternCacheTTL = 10 * time.Minute

// PatternReader is the slice of the patterns repository the adjuster needs.
type PatternReader interface {
	GetPatterns(ctx context.Context, industry, arch string) ([]repository.QuotePattern, error)
}

type Adjuster struct {
	patterns PatternReader
	cache    store.KV
	logger   *zap.Logger
}

func NewAdjuster(patterns PatternReader, cache store.KV, logger *zap.Logger) *Adjuster {
	return &Adjuster{
		patterns: patterns,
		cache:    cache,
		logger:   logger,
	}
}

// AdjustRadios reorders the candidate radios so previously successful
// models for this industry/architecture come first. The returned
// annotations describe what influenced the ranking. On any failure the
// input order is returned unchanged.
func (a *Adjuster) AdjustRadios(ctx context.Context, industry string, arch models.Architecture, radios []models.Product) ([]models.Product, []string) {
	if a.patterns == nil || len(radios) < 2 {
		return radios, nil
	}

	patterns, err := a.loadPatterns(ctx, industry, string(arch))
	if err != nil {
		a.logger.Warn("Pattern lookup failed, keeping catalog order",
			zap.String("industry", industry),
			zap.String("architecture", string(arch)),
			zap.Error(err),
		)
		return radios, nil
	}
	if len(patterns) == 0 {
		return radios, nil
	}

	// success_count per SKU; patterns arrive most-successful first
	rank := make(map[string]int, len(patterns))
	for _, p := range patterns {
		rank[p.RadioSKU] = p.SuccessCount
	}

	reordered := make([]models.Product, 0, len(radios))
	var rest []models.Product
	var annotations []string
	for _, p := range patterns {
		for _, radio := range radios {
			if radio.SKU == p.RadioSKU {
				reordered = append(reordered, radio)
				annotations = append(annotations, fmt.Sprintf(
					"%s prioritized: quoted successfully %d time(s) for %s deployments on %s",
					radio.SKU, p.SuccessCount, industry, arch))
				break
			}
		}
	}
	for _, radio := range radios {
		if _, ok := rank[radio.SKU]; !ok {
			rest = append(rest, radio)
		}
	}

	return append(reordered, rest...), annotations
}

func (a *Adjuster) loadPatterns(ctx context.Context, industry, arch string) ([]repository.QuotePattern, error) {
	key := "radioquote:patterns:" + industry + ":" + arch

	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, key); err == nil {
			var patterns []repository.QuotePattern
			if err := json.Unmarshal([]byte(cached), &patterns); err == nil {
				return patterns, nil
			}
		}
	}

	patterns, err := a.patterns.GetPatterns(ctx, industry, arch)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if data, err := json.Marshal(patterns); err == nil {
			if err := a.cache.Set(ctx, key, string(data), patternCacheTTL); err != nil {
				a.logger.Debug("Failed to cache quote patterns", zap.Error(err))
			}
		}
	}

	return patterns, nil
}
