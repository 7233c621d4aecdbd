package reconcile

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"prompt-mixer/feature/library"
	"prompt-mixer/feature/reconcile/source"
)

// Feature wires the import and sync endpoints into the application.
type Feature struct {
	logger  *zap.Logger
	service *Service
}

func NewFeature(logger *zap.Logger, libraries *library.Service, adapter source.Adapter, timeout time.Duration) *Feature {
	return &Feature{
		logger:  logger,
		service: NewService(logger, libraries, adapter, timeout),
	}
}

func (f *Feature) Name() string {
	return "reconcile"
}

func (f *Feature) IsEnabled() bool {
	return true
}

func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service, f.logger).RegisterRoutes(app)
	return nil
}

// Service exposes the reconcile service for CLI commands.
func (f *Feature) Service() *Service {
	return f.service
}
