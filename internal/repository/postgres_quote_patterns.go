package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// QuotePattern is one recorded successful-quote outcome: which radio was
// sold for a given industry/architecture pair and how often. The learning
// layer reads these to nudge equipment ranking; nothing here ever changes
// architecture selection or validation.
type QuotePattern struct {
	Industry     string
	Architecture string
	RadioSKU     string
	SuccessCount int
	LastQuotedAt time.Time
}

// QuotePatternsRepository persists and reads accepted-quote patterns.
type QuotePatternsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewQuotePatternsRepository(db *sql.DB, logger *zap.Logger) *QuotePatternsRepository {
	return &QuotePatternsRepository{
		db:     db,
		logger: logger,
	}
}

// GetPatterns returns recorded patterns for one industry/architecture pair,
// most successful first.
func (r *QuotePatternsRepository) GetPatterns(ctx context.Context, industry, arch string) ([]QuotePattern, error) {
	query := `
		SELECT industry, architecture, radio_sku, success_count, last_quoted_at
		FROM quote_patterns
		WHERE industry = $1 AND architecture = $2
		ORDER BY success_count DESC, radio_sku
		LIMIT 10`

	rows, err := r.db.QueryContext(ctx, query, industry, arch)
	if err != nil {
		return nil, fmt.Errorf("failed to query quote patterns: %w", err)
	}
	defer rows.Close()

	var patterns []QuotePattern
	for rows.Next() {
		var p QuotePattern
		if err := rows.Scan(&p.Industry, &p.Architecture, &p.RadioSKU, &p.SuccessCount, &p.LastQuotedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote pattern: %w", err)
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote patterns: %w", err)
	}

	return patterns, nil
}

// RecordAcceptedQuote increments the pattern counter for an accepted quote.
func (r *QuotePatternsRepository) RecordAcceptedQuote(ctx context.Context, industry, arch, radioSKU string) error {
	query := `
		INSERT INTO quote_patterns (industry, architecture, radio_sku, success_count, last_quoted_at)
		VALUES ($1, $2, $3, 1, NOW())
		ON CONFLICT (industry, architecture, radio_sku)
		DO UPDATE SET success_count = quote_patterns.success_count + 1,
		              last_quoted_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, industry, arch, radioSKU); err != nil {
		return fmt.Errorf("failed to record accepted quote: %w", err)
	}

	r.logger.Debug("Accepted quote recorded",
		zap.String("industry", industry),
		zap.String("architecture", arch),
		zap.String("radio_sku", radioSKU),
	)
	return nil
}
