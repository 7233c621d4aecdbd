package combination

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"prompt-mixer/core/logger"
	"prompt-mixer/feature/library/models"
)

// Handler exposes the combination endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/combination")
	group.Get("/preview", h.HandlePreview)
	group.Get("/cartesian", h.HandleCartesian)
	group.Post("/expand", h.HandleExpand)
}

// PreviewResponse is the payload returned by the preview endpoint.
type PreviewResponse struct {
	Mode         string               `json:"mode"`
	Combinations []models.Combination `json:"combinations"`
	Rendered     []string             `json:"rendered"`
}

// HandlePreview generates random-mode combinations.
// @Summary Preview Combinations
// @Description Generates random-mode combinations from the current library config.
// @Tags combination
// @Produce json
// @Param count query int false "Number of combinations to generate"
// @Success 200 {object} PreviewResponse
// @Router /combination/preview [get]
func (h *Handler) HandlePreview(c *fiber.Ctx) error {
	count := c.QueryInt("count")
	combos := h.service.Preview(count)

	rendered := make([]string, 0, len(combos))
	for _, combo := range combos {
		rendered = append(rendered, combo.Render())
	}
	logger.WithRayID(h.logger, c).Info("generated preview",
		zap.Int("requested", count),
		zap.Int("produced", len(combos)))

	return c.JSON(PreviewResponse{
		Mode:         h.service.DefaultMode(),
		Combinations: combos,
		Rendered:     rendered,
	})
}

// HandleCartesian samples a value set per library and reports the product size.
// @Summary Cartesian Draw
// @Description Samples a per-library value set and reports the full product count.
// @Tags combination
// @Produce json
// @Success 200 {object} CartesianResult
// @Router /combination/cartesian [get]
func (h *Handler) HandleCartesian(c *fiber.Ctx) error {
	result := h.service.Cartesian()
	logger.WithRayID(h.logger, c).Info("generated cartesian draw",
		zap.Int("total", result.TotalCount))
	return c.JSON(result)
}

// ExpandRequest carries the draws to expand into the full product.
type ExpandRequest struct {
	Draws []LibraryDraw `json:"draws"`
}

// ExpandResponse is the materialized cross product.
type ExpandResponse struct {
	Combinations []models.Combination `json:"combinations"`
	Rendered     []string             `json:"rendered"`
}

// HandleExpand materializes the full cross product of a draw set.
// @Summary Expand Draws
// @Description Expands a previously returned draw set into every combination.
// @Tags combination
// @Accept json
// @Produce json
// @Param request body ExpandRequest true "Draw set to expand"
// @Success 200 {object} ExpandResponse
// @Failure 400 {object} map[string]string "Error"
// @Router /combination/expand [post]
func (h *Handler) HandleExpand(c *fiber.Ctx) error {
	var req ExpandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed expand payload"})
	}
	if len(req.Draws) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "draws are required"})
	}

	combos := h.service.Expand(req.Draws)
	rendered := make([]string, 0, len(combos))
	for _, combo := range combos {
		rendered = append(rendered, combo.Render())
	}
	return c.JSON(ExpandResponse{Combinations: combos, Rendered: rendered})
}
