package reconcile

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"prompt-mixer/core/logger"
	"prompt-mixer/feature/library/models"
	"prompt-mixer/feature/reconcile/ingest"
)

// Handler exposes the import and sync endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/libraries/import", h.HandleImport)
	app.Post("/sync", h.HandleSync)
	app.Get("/sync/status", h.HandleSyncStatus)
}

// ImportResponse reports the collection after an import.
type ImportResponse struct {
	Mode      string `json:"mode"`
	Libraries int    `json:"libraries"`
}

// HandleImport merges an uploaded library collection into the config. The
// body is either a JSON library array or a pasted tabular block (text/plain,
// tab-separated with a header row).
// @Summary Import Libraries
// @Description Merges uploaded libraries (JSON array or pasted tabular text) into the collection under the given mode.
// @Tags reconcile
// @Accept json
// @Accept plain
// @Produce json
// @Param mode query string false "Import mode: replace, merge-add or merge-update"
// @Param request body []models.Library true "Libraries to import"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} map[string]string "Error"
// @Router /libraries/import [post]
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	mode, err := ParseImportMode(c.Query("mode", string(ModeReplace)))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var incoming []models.Library
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMETextPlain) {
		incoming = ingest.ParseTSV(string(c.Body()))
	} else if err := c.BodyParser(&incoming); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed library payload"})
	}

	merged, err := h.service.Import(c.UserContext(), incoming, mode)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.logger, c).Info("import applied",
		zap.String("mode", string(mode)),
		zap.Int("libraries", len(merged.Libraries)))
	return c.JSON(ImportResponse{Mode: string(mode), Libraries: len(merged.Libraries)})
}

// HandleSync triggers a blocking sheet sync.
// @Summary Sync Master Sheets
// @Description Pulls every master sheet from storage and folds it into the collection.
// @Tags reconcile
// @Produce json
// @Success 200 {object} SyncStatus
// @Failure 409 {object} map[string]string "Sync already running"
// @Failure 502 {object} map[string]string "Source fetch failed"
// @Router /sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	status, err := h.service.Sync(c.UserContext())
	if err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		logger.WithRayID(h.logger, c).Warn("sync request failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(status)
}

// HandleSyncStatus reports the outcome of the most recent sync.
// @Summary Sync Status
// @Description Reports whether a sync is running and how the last one ended.
// @Tags reconcile
// @Produce json
// @Success 200 {object} SyncStatus
// @Router /sync/status [get]
func (h *Handler) HandleSyncStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}
