// Package service orchestrates the requirement-to-quote pipeline:
// extraction, architecture selection, compatibility resolution, optional
// re-ranking, pricing and the safety gate. External collaborators are
// called with bounded timeouts and degrade to cached values; the pipeline
// never fabricates a price.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/architecture"
	"github.com/mmamrila/aiquoting-sub000/internal/compatibility"
	"github.com/mmamrila/aiquoting-sub000/internal/erp"
	"github.com/mmamrila/aiquoting-sub000/internal/extractor"
	"github.com/mmamrila/aiquoting-sub000/internal/models"
	"github.com/mmamrila/aiquoting-sub000/internal/pricing"
	"github.com/mmamrila/aiquoting-sub000/internal/store"
	"github.com/mmamrila/aiquoting-sub000/internal/validator"
)

// CatalogStore is the read-only product catalog boundary.
type CatalogStore interface {
	GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, sku string) (*models.Product, error)
}

// PricingService is the external ERP boundary.
type PricingService interface {
	GetPricing(ctx context.Context, skus []string) (map[string]erp.PriceInfo, error)
	GetInventory(ctx context.Context, skus []string) (map[string]erp.InventoryInfo, error)
}

// RadioAdjuster is the learning layer's re-ranking hook.
type RadioAdjuster interface {
	AdjustRadios(ctx context.Context, industry string, arch models.Architecture, radios []models.Product) ([]models.Product, []string)
}

// AuditPublisher receives every validation result.
type AuditPublisher interface {
	Publish(ctx context.Context, phase, requestSummary string, result models.ValidationResult)
}

// PatternRecorder records accepted quotes for the learning read path.
type PatternRecorder interface {
	RecordAcceptedQuote(ctx context.Context, industry, arch, radioSKU string) error
}

type QuoteService struct {
	extractor  *extractor.Extractor
	validator  *validator.Validator
	calculator *pricing.Calculator
	resolver   *compatibility.Resolver
	catalog    CatalogStore
	erpClient  PricingService
	adjuster   RadioAdjuster
	audit      AuditPublisher
	patterns   PatternRecorder
	priceCache store.KV
	erpTimeout time.Duration
	cacheTTL   time.Duration
	logger     *zap.Logger
}

func NewQuoteService(
	ext *extractor.Extractor,
	val *validator.Validator,
	calc *pricing.Calculator,
	resolver *compatibility.Resolver,
	catalog CatalogStore,
	erpClient PricingService,
	adjuster RadioAdjuster,
	audit AuditPublisher,
	patterns PatternRecorder,
	priceCache store.KV,
	erpTimeout time.Duration,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		extractor:  ext,
		validator:  val,
		calculator: calc,
		resolver:   resolver,
		catalog:    catalog,
		erpClient:  erpClient,
		adjuster:   adjuster,
		audit:      audit,
		patterns:   patterns,
		priceCache: priceCache,
		erpTimeout: erpTimeout,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// CreateQuote runs the whole pipeline for one free-form description.
// Typed errors short-circuit before equipment work; a post-validation
// rejection is returned as a quote with IsValid=false so the caller can
// surface the full violation list.
func (s *QuoteService) CreateQuote(ctx context.Context, description string) (*models.Quote, error) {
	req, err := s.extractor.Extract(description)
	if err != nil {
		return nil, err
	}
	summary := requestSummary(*req)

	preResult := s.validator.PreValidate(*req)
	s.audit.Publish(ctx, "pre-validation", summary, preResult)
	if !preResult.IsValid {
		return nil, &models.ValidationFailedError{Result: preResult}
	}

	arch := architecture.Select(req.TotalUsers, req.MultiSite())
	attrs, _ := architecture.Attributes(arch)
	s.logger.Info("Architecture selected",
		zap.String("architecture", string(arch)),
		zap.Int("total_users", req.TotalUsers),
		zap.Int("site_count", req.SiteCount),
	)

	equipment, annotations, err := s.selectEquipment(ctx, *req, attrs)
	if err != nil {
		return nil, err
	}

	missingSKUs := s.refreshPricing(ctx, equipment)

	quoteTotal := s.calculator.Calculate(*req, *equipment)
	costBasis := s.calculator.CostBasis(*equipment)

	postResult := s.validator.PostValidate(*req, attrs, quoteTotal, costBasis)
	if len(missingSKUs) > 0 {
		s.logger.Error("No live or cached pricing for quote",
			zap.Strings("skus", missingSKUs),
		)
		s.validator.AddExternalPricingFailure(&postResult, "erp-pricing")
	}
	s.audit.Publish(ctx, "post-validation", summary, postResult)

	return &models.Quote{
		QuoteID:      uuid.New().String(),
		Requirement:  *req,
		Architecture: attrs,
		Equipment:    *equipment,
		Pricing:      quoteTotal,
		Validation:   postResult,
		Annotations:  annotations,
	}, nil
}

// selectEquipment picks the radio, repeaters and accessories for the
// requirement, using the compatibility resolver for every pairing.
func (s *QuoteService) selectEquipment(ctx context.Context, req models.DeploymentRequirement, attrs models.ArchitectureAttributes) (*models.EquipmentSet, []string, error) {
	radios, err := s.catalog.GetProductsByCategory(ctx, models.CategoryRadio)
	if err != nil {
		return nil, nil, &models.ExternalServiceError{Service: "catalog", Err: err}
	}

	var candidates []models.Product
	for _, radio := range radios {
		if radio.FrequencyBand != models.BandUnknown && req.FrequencyBand != models.BandUnknown && radio.FrequencyBand != req.FrequencyBand {
			continue
		}
		if !supportsArchitecture(radio, attrs.Architecture) {
			continue
		}
		candidates = append(candidates, radio)
	}
	if len(candidates) == 0 {
		return nil, nil, fmt.Errorf("no %s radio in the catalog supports %s", req.FrequencyBand, attrs.Architecture)
	}

	candidates, annotations := s.adjuster.AdjustRadios(ctx, req.Industry, attrs.Architecture, candidates)
	radio := candidates[0]

	equipment := &models.EquipmentSet{
		Radios: []models.EquipmentLine{{Product: radio, Quantity: req.TotalUsers}},
	}
	if len(annotations) > 0 {
		equipment.Radios[0].RankNote = annotations[0]
	}

	if attrs.RequiresRepeater {
		repeaterLine, err := s.selectRepeater(ctx, req, attrs, radio)
		if err != nil {
			return nil, nil, err
		}
		equipment.Repeaters = []models.EquipmentLine{*repeaterLine}
	}

	accessoryLines, gapNotes, err := s.selectAccessories(ctx, req, radio)
	if err != nil {
		return nil, nil, err
	}
	equipment.Accessories = accessoryLines
	annotations = append(annotations, gapNotes...)

	return equipment, annotations, nil
}

func (s *QuoteService) selectRepeater(ctx context.Context, req models.DeploymentRequirement, attrs models.ArchitectureAttributes, radio models.Product) (*models.EquipmentLine, error) {
	repeaters, err := s.catalog.GetProductsByCategory(ctx, models.CategoryRepeater)
	if err != nil {
		return nil, &models.ExternalServiceError{Service: "catalog", Err: err}
	}

	edges, _ := s.resolver.Resolve(radio, repeaters)
	for _, edge := range edges {
		if edge.Type != models.CompatRequired {
			continue
		}
		for _, rep := range repeaters {
			if rep.ID == edge.CompatibleProductID {
				qty := s.calculator.RepeaterQuantity(req.TotalUsers, attrs)
				return &models.EquipmentLine{Product: rep, Quantity: qty}, nil
			}
		}
	}

	return nil, fmt.Errorf("no repeater in the catalog is compatible with %s on %s", radio.SKU, attrs.Architecture)
}

// selectAccessories resolves the candidate pool once and picks the
// strongest edge per needed subcategory. Rule-table gaps become "no
// recommendation available" notes, never guesses.
func (s *QuoteService) selectAccessories(ctx context.Context, req models.DeploymentRequirement, radio models.Product) ([]models.EquipmentLine, []string, error) {
	pool, err := s.catalog.GetProductsByCategory(ctx, models.CategoryAccessory)
	if err != nil {
		return nil, nil, &models.ExternalServiceError{Service: "catalog", Err: err}
	}

	edges, gaps := s.resolver.Resolve(radio, pool)

	byID := make(map[string]models.Product, len(pool))
	for _, p := range pool {
		byID[p.ID] = p
	}

	needed := []string{
		models.SubcategoryBattery,
		models.SubcategoryCharger,
		models.SubcategoryAntenna,
		models.SubcategoryCarrying,
		models.SubcategoryAudio,
	}

	var lines []models.EquipmentLine
	var notes []string
	for _, subcategory := range needed {
		var best *models.Product
		bestRank := 0
		for _, edge := range edges {
			p, ok := byID[edge.CompatibleProductID]
			if !ok || p.Subcategory != subcategory {
				continue
			}
			rank := edgeRank(edge.Type)
			if rank > bestRank {
				bestRank = rank
				chosen := p
				best = &chosen
			}
		}
		if best == nil {
			continue
		}
		qty := s.calculator.AccessoryQuantity(subcategory, req.TotalUsers)
		if qty <= 0 {
			continue
		}
		lines = append(lines, models.EquipmentLine{Product: *best, Quantity: qty})
	}

	for _, gap := range gaps {
		s.logger.Warn("Compatibility rule gap",
			zap.String("model_family", string(gap.ModelFamily)),
			zap.String("subcategory", gap.Subcategory),
		)
		notes = append(notes, compatibility.GapMessage(gap))
	}

	return lines, notes, nil
}

// refreshPricing updates the equipment lines with live ERP pricing, falling
// back to the last-known-good cache and then the catalog's stored price.
// SKUs with no usable price at all are returned so the validator can raise
// a CRITICAL violation instead of letting a fabricated price through.
func (s *QuoteService) refreshPricing(ctx context.Context, equipment *models.EquipmentSet) []string {
	lines := collectLines(equipment)
	skus := make([]string, 0, len(lines))
	for _, line := range lines {
		skus = append(skus, line.Product.SKU)
	}

	erpCtx, cancel := context.WithTimeout(ctx, s.erpTimeout)
	defer cancel()

	live, err := s.erpClient.GetPricing(erpCtx, skus)
	if err != nil {
		s.logger.Warn("ERP pricing unavailable, falling back to cache", zap.Error(err))
		live = nil
	}

	var missing []string
	for _, line := range lines {
		sku := line.Product.SKU
		if info, ok := live[sku]; ok {
			line.Product.PriceCents = info.PriceCents
			line.Product.CostCents = info.CostCents
			s.cachePrice(ctx, sku, info)
			continue
		}
		if info, ok := s.cachedPrice(ctx, sku); ok {
			line.Product.PriceCents = info.PriceCents
			line.Product.CostCents = info.CostCents
			continue
		}
		if line.Product.PriceCents > 0 {
			// catalog's stored price is the last resort
			continue
		}
		missing = append(missing, sku)
	}

	return missing
}

func (s *QuoteService) cachePrice(ctx context.Context, sku string, info erp.PriceInfo) {
	if s.priceCache == nil {
		return
	}
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.priceCache.Set(ctx, priceCacheKey(sku), string(data), s.cacheTTL); err != nil {
		s.logger.Debug("Failed to cache ERP price", zap.String("sku", sku), zap.Error(err))
	}
}

func (s *QuoteService) cachedPrice(ctx context.Context, sku string) (erp.PriceInfo, bool) {
	if s.priceCache == nil {
		return erp.PriceInfo{}, false
	}
	raw, err := s.priceCache.Get(ctx, priceCacheKey(sku))
	if err != nil {
		return erp.PriceInfo{}, false
	}
	var info erp.PriceInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return erp.PriceInfo{}, false
	}
	return info, true
}

// ResolveCompatibility exposes the resolver for one catalog product against
// the full radio/repeater/accessory pool.
func (s *QuoteService) ResolveCompatibility(ctx context.Context, sku string) (*models.Product, []models.CompatibilityEdge, []string, error) {
	primary, err := s.catalog.GetProduct(ctx, sku)
	if err != nil {
		return nil, nil, nil, &models.ExternalServiceError{Service: "catalog", Err: err}
	}
	if primary == nil {
		return nil, nil, nil, nil
	}

	var pool []models.Product
	for _, category := range []string{models.CategoryRadio, models.CategoryRepeater, models.CategoryAccessory} {
		products, err := s.catalog.GetProductsByCategory(ctx, category)
		if err != nil {
			return nil, nil, nil, &models.ExternalServiceError{Service: "catalog", Err: err}
		}
		pool = append(pool, products...)
	}

	edges, gaps := s.resolver.Resolve(*primary, pool)
	var notes []string
	for _, gap := range gaps {
		notes = append(notes, compatibility.GapMessage(gap))
	}
	return primary, edges, notes, nil
}

// RecordAcceptance feeds an accepted quote back into the learning layer.
func (s *QuoteService) RecordAcceptance(ctx context.Context, industry string, arch models.Architecture, radioSKU string) error {
	if s.patterns == nil {
		return nil
	}
	if err := s.patterns.RecordAcceptedQuote(ctx, industry, string(arch), radioSKU); err != nil {
		return fmt.Errorf("failed to record quote acceptance: %w", err)
	}
	return nil
}

func priceCacheKey(sku string) string {
	return "radioquote:price:" + sku
}

func supportsArchitecture(p models.Product, arch models.Architecture) bool {
	for _, a := range p.SupportedArchitectures {
		if a == arch {
			return true
		}
	}
	return false
}

func edgeRank(t models.CompatibilityType) int {
	switch t {
	case models.CompatRequired:
		return 3
	case models.CompatRecommended:
		return 2
	case models.CompatOptional:
		return 1
	default:
		return 0
	}
}

func collectLines(equipment *models.EquipmentSet) []*models.EquipmentLine {
	var lines []*models.EquipmentLine
	for i := range equipment.Repeaters {
		lines = append(lines, &equipment.Repeaters[i])
	}
	for i := range equipment.Radios {
		lines = append(lines, &equipment.Radios[i])
	}
	for i := range equipment.Accessories {
		lines = append(lines, &equipment.Accessories[i])
	}
	return lines
}

func requestSummary(req models.DeploymentRequirement) string {
	return fmt.Sprintf("%d site(s) × %d users = %d total, industry %s, band %s",
		req.SiteCount, req.UsersPerSite, req.TotalUsers, req.Industry, req.FrequencyBand)
}
