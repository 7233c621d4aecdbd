package combination

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"prompt-mixer/core/server"
	"prompt-mixer/feature/library"
)

// Feature wires the combination endpoints into the application.
type Feature struct {
	logger  *zap.Logger
	service *Service
}

func NewFeature(logger *zap.Logger, libraries *library.Service, cfg server.Config) *Feature {
	return &Feature{
		logger:  logger,
		service: NewService(logger, libraries, cfg),
	}
}

func (f *Feature) Name() string {
	return "combination"
}

func (f *Feature) IsEnabled() bool {
	return true
}

func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service, f.logger).RegisterRoutes(app)
	return nil
}

// Service exposes the combination service for CLI commands.
func (f *Feature) Service() *Service {
	return f.service
}
