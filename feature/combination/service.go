package combination

import (
	"math/rand"

	"go.uber.org/zap"

	"prompt-mixer/core/server"
	"prompt-mixer/feature/library"
	"prompt-mixer/feature/library/models"
)

// Service generates combinations from the library service's current snapshot.
// It is safe for concurrent use: every generation call runs on its own engine
// and rng, so parallel previews share no mutable state.
type Service struct {
	logger    *zap.Logger
	libraries *library.Service

	defaultMode  string
	defaultCount int
}

func NewService(logger *zap.Logger, libraries *library.Service, cfg server.Config) *Service {
	mode := cfg.DefaultMode
	if !server.IsValidMode(mode) {
		mode = server.ModeRandom
	}
	count := cfg.DefaultInnovationCount
	if count <= 0 {
		count = 4
	}
	return &Service{
		logger:       logger,
		libraries:    libraries,
		defaultMode:  mode,
		defaultCount: count,
	}
}

// newEngine builds a single-use engine. The seed comes from the top-level
// math/rand source, which is internally locked, so concurrent requests never
// touch a shared Rand.
func (s *Service) newEngine() *Engine {
	return NewEngine(rand.New(rand.NewSource(rand.Int63())))
}

// Preview produces count random-mode combinations from the current snapshot.
// A non-positive count falls back to the configured default.
func (s *Service) Preview(count int) []models.Combination {
	if count <= 0 {
		count = s.defaultCount
	}
	cfg := s.libraries.Snapshot()
	return s.newEngine().Generate(&cfg, count)
}

// Cartesian samples a value set per library and reports the product size
// alongside a representative combination.
func (s *Service) Cartesian() CartesianResult {
	cfg := s.libraries.Snapshot()
	return s.newEngine().GenerateCartesian(&cfg)
}

// Expand materializes the full cross product of a previously returned draw set.
func (s *Service) Expand(draws []LibraryDraw) []models.Combination {
	return ExpandProduct(draws)
}

// DefaultMode reports the configured preview mode.
func (s *Service) DefaultMode() string {
	return s.defaultMode
}
