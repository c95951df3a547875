package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"content-intel-service/internal/app/service"
	"content-intel-service/internal/domain"
	"content-intel-service/internal/transport/httpserver/dto"
	"content-intel-service/internal/validator"
)

// AnalysisHandler handles content-analysis HTTP requests.
type AnalysisHandler struct {
	service   *service.AnalysisService
	extractor domain.Extractor
	validator *validator.Validator
	logger    *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(
	svc *service.AnalysisService,
	extractor domain.Extractor,
	v *validator.Validator,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		service:   svc,
		extractor: extractor,
		validator: v,
		logger:    logger,
	}
}

// Analyze handles POST /api/v1/analysis
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	result, err := h.service.Analyze(c.Context(), req.ToDomain())
	if err != nil {
		h.logger.Warn("analysis failed",
			zap.String("url", req.URL),
			zap.Error(err),
		)

		return domainError(c, err)
	}

	return c.JSON(result)
}

// Extract handles GET /api/v1/extract
//
// Dead links return fallback metadata with fallback=true, not an error;
// only policy-blocked URLs are rejected.
func (h *AnalysisHandler) Extract(c *fiber.Ctx) error {
	var req dto.ExtractRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	// Zero options defer to the extractor's configured bounds.
	content, err := h.extractor.Extract(c.Context(), req.URL, domain.ExtractOptions{})
	if err != nil {
		h.logger.Warn("extraction failed",
			zap.String("url", req.URL),
			zap.Error(err),
		)

		return domainError(c, err)
	}

	return c.JSON(dto.FromExtractedContent(content))
}
