package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"content-intel-service/internal/app/service"
	"content-intel-service/internal/transport/httpserver/dto"
	"content-intel-service/internal/validator"
)

// TaggingHandler handles tag-generation HTTP requests.
type TaggingHandler struct {
	service   *service.TaggingService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewTaggingHandler creates a new TaggingHandler.
func NewTaggingHandler(svc *service.TaggingService, v *validator.Validator, logger *zap.Logger) *TaggingHandler {
	return &TaggingHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Generate handles POST /api/v1/tags/generate
func (h *TaggingHandler) Generate(c *fiber.Ctx) error {
	req, ok := h.parseGenerateRequest(c)
	if !ok {
		return nil
	}

	tags, err := h.service.GenerateTags(c.Context(), req.ToDomain(), req.Options.ToDomain())
	if err != nil {
		h.logger.Warn("tag generation failed",
			zap.String("url", req.URL),
			zap.Error(err),
		)

		return domainError(c, err)
	}

	return c.JSON(dto.TagsResponse{Tags: dto.FromDomainTags(tags)})
}

// Quick handles POST /api/v1/tags/quick — heuristic sources only.
func (h *TaggingHandler) Quick(c *fiber.Ctx) error {
	req, ok := h.parseGenerateRequest(c)
	if !ok {
		return nil
	}

	tags, err := h.service.GenerateQuickTags(c.Context(), req.ToDomain(), req.Options.ToDomain())
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(dto.TagsResponse{Tags: dto.FromDomainTags(tags)})
}

// Batch handles POST /api/v1/tags/batch
//
// Individual bookmark failures are reported per item; the response is
// HTTP 200 as long as the batch itself was acceptable.
func (h *TaggingHandler) Batch(c *fiber.Ctx) error {
	var req dto.BatchTagsRequest
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

	results, err := h.service.GenerateBatch(c.Context(), req.ToItems(), req.Options.ToDomain())
	if err != nil {
		h.logger.Warn("batch tagging failed", zap.Error(err))

		return domainError(c, err)
	}

	return c.JSON(dto.FromBatchResults(results))
}

// parseGenerateRequest parses and validates the shared single-bookmark
// request body, writing the error response itself on failure.
func (h *TaggingHandler) parseGenerateRequest(c *fiber.Ctx) (*dto.GenerateTagsRequest, bool) {
	var req dto.GenerateTagsRequest
	if err := c.BodyParser(&req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})

		return nil, false
	}

	if err := h.validator.Validate(&req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})

		return nil, false
	}

	return &req, true
}
