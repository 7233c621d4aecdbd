package library

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"prompt-mixer/feature/library/store"
)

// Feature wires the library collection into the application.
type Feature struct {
	service *Service
}

// NewFeature creates the library feature. The store may be nil for
// memory-only operation.
func NewFeature(logger *zap.Logger, st *store.Store) *Feature {
	return &Feature{service: NewService(logger, st)}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "library"
}

// IsEnabled reports whether the feature loads. The collection is the
// application's backbone and is always on.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}

// Service exposes the snapshot holder to sibling features.
func (f *Feature) Service() *Service {
	return f.service
}
