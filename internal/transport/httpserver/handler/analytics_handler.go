package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"content-intel-service/internal/app/service"
	"content-intel-service/internal/transport/httpserver/dto"
	"content-intel-service/internal/validator"
)

// AnalyticsHandler handles tag-analytics HTTP requests.
type AnalyticsHandler struct {
	service   *service.AnalyticsService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(svc *service.AnalyticsService, v *validator.Validator, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Analytics handles POST /api/v1/tags/analytics, dispatching on the
// requested action: analyze, cluster, or improve.
func (h *AnalyticsHandler) Analytics(c *fiber.Ctx) error {
	var req dto.TagAnalyticsRequest
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

	switch req.Action {
	case "analyze":
		return h.analyze(c, &req)
	case "cluster":
		return h.cluster(c, &req)
	case "improve":
		return h.improve(c, &req)
	default:
		// Unreachable: the oneof validation already rejected this.
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "unknown action",
			Code:  "INVALID_ACTION",
		})
	}
}

func (h *AnalyticsHandler) analyze(c *fiber.Ctx, req *dto.TagAnalyticsRequest) error {
	analytics, err := h.service.AnalyzeUsage(req.ToRecords())
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(dto.FromUsageAnalytics(analytics))
}

func (h *AnalyticsHandler) cluster(c *fiber.Ctx, req *dto.TagAnalyticsRequest) error {
	analytics, err := h.service.AnalyzeUsage(req.ToRecords())
	if err != nil {
		return domainError(c, err)
	}

	clusters := h.service.BuildClusters(analytics, req.Threshold)

	return c.JSON(dto.FromClusters(clusters))
}

// improve reuses the tagging engine per bookmark with per-item failure
// capture, mirroring the batch tagging semantics.
func (h *AnalyticsHandler) improve(c *fiber.Ctx, req *dto.TagAnalyticsRequest) error {
	resp := dto.SuggestionsResponse{
		Suggestions: make([]dto.BookmarkSuggestions, len(req.Bookmarks)),
	}

	for i, b := range req.Bookmarks {
		entry := dto.BookmarkSuggestions{ID: b.ID}

		tags, err := h.service.SuggestImprovements(c.Context(), service.SuggestInput{
			ID:           b.ID,
			Title:        b.Title,
			URL:          b.URL,
			Content:      b.Content,
			Description:  b.Description,
			ExistingTags: b.Tags,
		}, req.Options.ToDomain())
		if err != nil {
			h.logger.Debug("suggestion failed for bookmark",
				zap.String("id", b.ID),
				zap.Error(err),
			)
			entry.Error = err.Error()
		} else {
			entry.Tags = dto.FromDomainTags(tags)
		}

		resp.Suggestions[i] = entry
	}

	return c.JSON(resp)
}
