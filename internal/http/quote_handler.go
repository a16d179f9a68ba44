package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/architecture"
	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

// QuoteService is the pipeline surface the handlers need (interface here so
// handler tests can mock it).
type QuoteService interface {
	CreateQuote(ctx context.Context, description string) (*models.Quote, error)
	ResolveCompatibility(ctx context.Context, sku string) (*models.Product, []models.CompatibilityEdge, []string, error)
	RecordAcceptance(ctx context.Context, industry string, arch models.Architecture, radioSKU string) error
}

// QuoteHandler exposes the quoting pipeline to the presentation layer.
type QuoteHandler struct {
	quotes QuoteService
	logger *zap.Logger
}

func NewQuoteHandler(quotes QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quotes: quotes,
		logger: logger,
	}
}

type createQuoteRequest struct {
	Description string `json:"description"`
}

type acceptQuoteRequest struct {
	Industry     string `json:"industry"`
	Architecture string `json:"architecture"`
	RadioSKU     string `json:"radioSku"`
}

// CreateQuote handles POST /quote/api/v1/quotes.
// A safety-validation rejection is a 200 with isValid=false and the full
// violation list: the caller decides user-facing messaging, the quote is
// simply not presentable.
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var body createQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Description) == "" {
		writeJSON(w, http.StatusBadRequest, Fail("description is required"))
		return
	}

	quote, err := h.quotes.CreateQuote(r.Context(), body.Description)
	if err != nil {
		h.writeQuoteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok(quote))
}

func (h *QuoteHandler) writeQuoteError(w http.ResponseWriter, err error) {
	var unreasonable *models.UnreasonableRequestError
	if errors.As(err, &unreasonable) {
		h.logger.Warn("Unreasonable quote request", zap.Int("total_users", unreasonable.TotalUsers))
		writeJSON(w, http.StatusUnprocessableEntity, Fail(
			"request exceeds automated quoting limits, please contact the sales team directly"))
		return
	}

	if errors.Is(err, models.ErrInvalidRequirement) {
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
		return
	}

	var failed *models.ValidationFailedError
	if errors.As(err, &failed) {
		// pre-validation rejection: no quote was assembled
		writeJSON(w, http.StatusOK, Ok(map[string]any{"validation": failed.Result}))
		return
	}

	var external *models.ExternalServiceError
	if errors.As(err, &external) {
		h.logger.Error("External collaborator failure", zap.String("service", external.Service), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, Fail("a required backend service is unavailable"))
		return
	}

	h.logger.Error("Quote pipeline failure", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
}

// GetArchitectures handles GET /quote/api/v1/architectures.
func (h *QuoteHandler) GetArchitectures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(architecture.All()))
}

// GetCompatibility handles GET /quote/api/v1/products/{sku}/compatibility.
func (h *QuoteHandler) GetCompatibility(w http.ResponseWriter, r *http.Request, sku string) {
	primary, edges, notes, err := h.quotes.ResolveCompatibility(r.Context(), sku)
	if err != nil {
		h.logger.Error("Compatibility resolution failed", zap.String("sku", sku), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, Fail("catalog unavailable"))
		return
	}
	if primary == nil {
		writeJSON(w, http.StatusNotFound, Fail("unknown sku"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"product": primary,
		"edges":   edges,
		"notes":   notes,
	}))
}

// AcceptQuote handles POST /quote/api/v1/quotes/accept, the learning
// layer's write path.
func (h *QuoteHandler) AcceptQuote(w http.ResponseWriter, r *http.Request) {
	var body acceptQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil ||
		body.Industry == "" || body.Architecture == "" || body.RadioSKU == "" {
		writeJSON(w, http.StatusBadRequest, Fail("industry, architecture and radioSku are required"))
		return
	}

	if err := h.quotes.RecordAcceptance(r.Context(), body.Industry, models.Architecture(body.Architecture), body.RadioSKU); err != nil {
		h.logger.Error("Failed to record quote acceptance", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to record acceptance"))
		return
	}

	writeJSON(w, http.StatusOK, Ok(map[string]any{"recorded": true}))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
