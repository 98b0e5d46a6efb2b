package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smartsave/freshness/internal/domain"
	"github.com/smartsave/freshness/internal/usecase"
)

// Messages returned by the scoring backend endpoint
const (
	msgImageAndTypeRequired = "Image and produce type are required"
	msgAnalyzeFailed        = "Failed to analyze image"
	msgInvalidBody          = "Invalid request body"
	msgBodyTooLarge         = "Request body too large"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scoring  domain.FreshnessScorer
	analysis *usecase.AnalysisService
	pricing  *usecase.PricingService
	catalog  domain.CatalogRepository
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. Any service may be nil; its
// endpoints then answer 501.
func NewHandler(
	scoring domain.FreshnessScorer,
	analysis *usecase.AnalysisService,
	pricing *usecase.PricingService,
	catalog domain.CatalogRepository,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		scoring:  scoring,
		analysis: analysis,
		pricing:  pricing,
		catalog:  catalog,
		logger:   logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	scorer := ""
	if h.scoring != nil {
		scorer = h.scoring.Name()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "smartsave-freshness",
		"version": "1.0.0",
		"scorer":  scorer,
	})
}

// ScoreImage is the scoring backend: one image plus metadata in, one
// sanitized score document out.
func (h *Handler) ScoreImage(c *gin.Context) {
	if h.scoring == nil {
		notImplemented(c)
		return
	}

	var req domain.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgImageAndTypeRequired})
			return
		}
		respondBindError(c, err)
		return
	}

	doc, err := h.scoring.Score(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgImageAndTypeRequired})
			return
		}
		h.logger.Error("[API] Scoring failed", zap.String("produce_type", req.ProduceType), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// detectRequest selects a detection mode for an uploaded file name
type detectRequest struct {
	Mode     domain.DetectMode `json:"mode"`
	Filename string            `json:"filename"`
}

// Detect runs keyword detection and catalog lookup without scoring
func (h *Handler) Detect(c *gin.Context) {
	if h.analysis == nil {
		notImplemented(c)
		return
	}

	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.analysis.Detect(req.Mode, req.Filename))
}

// Analyze runs the full freshness pipeline for one photo
func (h *Handler) Analyze(c *gin.Context) {
	if h.analysis == nil {
		notImplemented(c)
		return
	}

	var in usecase.AnalyzeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	outcome, err := h.analysis.Analyze(c.Request.Context(), in)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("[API] Analysis failed", zap.Int("status", status), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": errorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// ListInventory returns the sample catalog
func (h *Handler) ListInventory(c *gin.Context) {
	if h.catalog == nil {
		notImplemented(c)
		return
	}

	items := h.catalog.All()
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetInventoryItem returns one catalog item by SKU
func (h *Handler) GetInventoryItem(c *gin.Context) {
	if h.catalog == nil {
		notImplemented(c)
		return
	}

	item, ok := h.catalog.FindBySKU(c.Param("sku"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrProductNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// ApplyESLUpdate confirms an ESL update draft
func (h *Handler) ApplyESLUpdate(c *gin.Context) {
	if h.pricing == nil {
		notImplemented(c)
		return
	}

	var draft domain.ESLUpdateDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondBindError(c, err)
		return
	}

	confirmation, err := h.pricing.ApplyESLUpdate(c.Request.Context(), draft)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}

// CreatePricingRule confirms a pricing rule draft
func (h *Handler) CreatePricingRule(c *gin.Context) {
	if h.pricing == nil {
		notImplemented(c)
		return
	}

	var draft domain.PricingRuleDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respondBindError(c, err)
		return
	}

	confirmation, err := h.pricing.CreatePricingRule(c.Request.Context(), draft)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}

// ListPricingRules returns all confirmed pricing rules
func (h *Handler) ListPricingRules(c *gin.Context) {
	if h.pricing == nil {
		notImplemented(c)
		return
	}

	rules, err := h.pricing.ListPricingRules(c.Request.Context())
	if err != nil {
		h.logger.Error("[API] Listing pricing rules failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pricing rules"})
		return
	}
	if rules == nil {
		rules = []domain.PricingRule{}
	}
	c.JSON(http.StatusOK, gin.H{
		"rules": rules,
		"count": len(rules),
	})
}

func notImplemented(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "Endpoint not configured on this server"})
}

// statusFor maps pipeline errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingImage),
		errors.Is(err, domain.ErrInvalidImage),
		errors.Is(err, domain.ErrMissingProductName),
		errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidDraft):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrScoringTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, domain.ErrCredentialMissing):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrScoringFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage prefers the message a scoring backend supplied
func errorMessage(err error) string {
	var se *domain.ScoringError
	if errors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		return msgAnalyzeFailed
	}
	if errors.Is(err, domain.ErrScoringFailed) {
		return msgAnalyzeFailed
	}
	return err.Error()
}

// respondBindError answers a failed JSON bind. Bodies cut off by the size
// limit get 413; everything else is a malformed request.
func respondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": msgBodyTooLarge})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
}
