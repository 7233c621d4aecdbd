package library

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"prompt-mixer/core/logger"
	"prompt-mixer/feature/library/models"
)

// Handler handles HTTP requests for the library collection.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the collection routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/libraries")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Patch("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)

	cfg := app.Group("/config")
	cfg.Get("/export", h.HandleExport)
	cfg.Post("/import", h.HandleImport)
}

// HandleList returns the current collection.
// @Summary List Libraries
// @Description Returns every library in the current config snapshot.
// @Tags library
// @Produce json
// @Success 200 {array} models.Library
// @Router /libraries [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	cfg := h.service.Snapshot()
	return c.JSON(cfg.Libraries)
}

// HandleCreate creates a new library.
// @Summary Create Library
// @Description Creates a library with documented defaults for omitted fields.
// @Tags library
// @Accept json
// @Produce json
// @Param library body models.Library true "Library"
// @Success 201 {object} models.Library
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /libraries [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var body models.Library
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed library payload"})
	}
	if body.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "library name is required"})
	}

	created, err := h.service.AddLibrary(c.Context(), body)
	if err != nil {
		l.Error("Failed to create library", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Library created", zap.String("name", created.Name))
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdate applies a partial update.
// @Summary Update Library
// @Description Applies a partial update to user-set fields of one library.
// @Tags library
// @Accept json
// @Produce json
// @Param id path string true "Library ID"
// @Param patch body LibraryPatch true "Patch"
// @Success 200 {object} models.Library
// @Failure 404 {object} map[string]string "Not Found"
// @Router /libraries/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var patch LibraryPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed patch payload"})
	}

	updated, err := h.service.UpdateLibrary(c.Context(), c.Params("id"), patch)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "library not found"})
	}
	if err != nil {
		l.Error("Failed to update library", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(updated)
}

// HandleDelete removes a library.
// @Summary Delete Library
// @Description Deletes one library from the collection.
// @Tags library
// @Produce json
// @Param id path string true "Library ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /libraries/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	err := h.service.DeleteLibrary(c.Context(), c.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "library not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleExport returns the full serialized config.
// @Summary Export Config
// @Description Returns the entire CombinationConfig for wholesale export.
// @Tags config
// @Produce json
// @Success 200 {object} models.CombinationConfig
// @Router /config/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	data, err := h.service.ExportConfig()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// HandleImport replaces the config wholesale.
// @Summary Import Config
// @Description Replaces the entire CombinationConfig from serialized data. A malformed payload leaves the current config unchanged.
// @Tags config
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /config/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.ImportConfig(c.Context(), c.Body()); err != nil {
		l.Warn("Config import rejected", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Config imported")
	return c.JSON(fiber.Map{"status": "imported"})
}
