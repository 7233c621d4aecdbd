package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"prompt-mixer/feature/library/models"
	"prompt-mixer/feature/library/store"
)

// ErrNotFound is returned when no library matches the given id.
var ErrNotFound = errors.New("library not found")

// Service holds the current config snapshot and serializes writes to it.
type Service struct {
	logger *zap.Logger
	store  *store.Store // nil when running memory-only

	mu      sync.RWMutex
	current models.CombinationConfig
}

// NewService creates the snapshot holder. The store may be nil, in which
// case snapshots live only in memory.
func NewService(logger *zap.Logger, st *store.Store) *Service {
	return &Service{
		logger:  logger,
		store:   st,
		current: models.CombinationConfig{Enabled: true, CombinationMode: models.CombinationModeRandom},
	}
}

// Init loads the persisted snapshot if one exists.
func (s *Service) Init(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate snapshot table: %w", err)
	}
	cfg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if cfg != nil {
		s.mu.Lock()
		s.current = *cfg
		s.mu.Unlock()
		s.logger.Info("Loaded config snapshot", zap.Int("libraries", len(cfg.Libraries)))
	}
	return nil
}

// Snapshot returns a deep copy of the current config. Callers may read or
// mutate it freely without affecting the live snapshot.
func (s *Service) Snapshot() models.CombinationConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Replace swaps in a new snapshot wholesale, persisting it first when a
// store is attached. Concurrent writers race under last-write-wins.
func (s *Service) Replace(ctx context.Context, cfg models.CombinationConfig) error {
	cfg.Normalize()
	if s.store != nil {
		if err := s.store.Save(ctx, &cfg); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
	return nil
}

// Update is the copy-on-write helper: it clones the current snapshot,
// applies the mutation, and swaps the result in. An error from the
// mutation leaves the live snapshot untouched.
func (s *Service) Update(ctx context.Context, mutate func(cfg *models.CombinationConfig) error) error {
	cfg := s.Snapshot()
	if err := mutate(&cfg); err != nil {
		return err
	}
	return s.Replace(ctx, cfg)
}

// LibraryPatch carries a partial update; nil fields are left unchanged.
type LibraryPatch struct {
	Name               *string             `json:"name"`
	Color              *string             `json:"color"`
	Enabled            *bool               `json:"enabled"`
	Values             *[]string           `json:"values"`
	ValuesWithCategory map[string][]string `json:"valuesWithCategory"`
	ValueWeights       map[string]int      `json:"valueWeights"`
	ParticipationRate  *int                `json:"participationRate"`
	PickMode           *string             `json:"pickMode"`
	PickCount          *int                `json:"pickCount"`
	Group              *string             `json:"group"`
}

// AddLibrary appends a new library with documented defaults.
func (s *Service) AddLibrary(ctx context.Context, lib models.Library) (models.Library, error) {
	created := models.NewLibrary(lib.Name)
	created.Color = lib.Color
	created.Values = lib.Values
	created.ValuesWithCategory = lib.ValuesWithCategory
	created.ValueWeights = lib.ValueWeights
	created.Group = lib.Group
	if lib.ParticipationRate != 0 {
		created.ParticipationRate = lib.ParticipationRate
	}
	if lib.PickMode != "" {
		created.PickMode = lib.PickMode
	}
	if lib.PickCount != 0 {
		created.PickCount = lib.PickCount
	}
	created.Normalize()

	err := s.Update(ctx, func(cfg *models.CombinationConfig) error {
		cfg.Libraries = append(cfg.Libraries, created)
		return nil
	})
	return created, err
}

// UpdateLibrary applies a partial update to the library with the given id.
func (s *Service) UpdateLibrary(ctx context.Context, id string, patch LibraryPatch) (models.Library, error) {
	var updated models.Library
	err := s.Update(ctx, func(cfg *models.CombinationConfig) error {
		for i := range cfg.Libraries {
			if cfg.Libraries[i].ID != id {
				continue
			}
			lib := &cfg.Libraries[i]
			applyPatch(lib, patch)
			lib.UpdatedAt = time.Now()
			lib.Normalize()
			updated = lib.Clone()
			return nil
		}
		return ErrNotFound
	})
	return updated, err
}

// DeleteLibrary removes the library with the given id.
func (s *Service) DeleteLibrary(ctx context.Context, id string) error {
	return s.Update(ctx, func(cfg *models.CombinationConfig) error {
		for i := range cfg.Libraries {
			if cfg.Libraries[i].ID == id {
				cfg.Libraries = append(cfg.Libraries[:i], cfg.Libraries[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// ExportConfig serializes the full current snapshot.
func (s *Service) ExportConfig() ([]byte, error) {
	cfg := s.Snapshot()
	return json.MarshalIndent(&cfg, "", "  ")
}

// ImportConfig replaces the snapshot wholesale from serialized data. A
// malformed payload is reported and leaves the current snapshot unchanged.
func (s *Service) ImportConfig(ctx context.Context, data []byte) error {
	var cfg models.CombinationConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("malformed config payload: %w", err)
	}
	return s.Replace(ctx, cfg)
}

func applyPatch(lib *models.Library, patch LibraryPatch) {
	if patch.Name != nil {
		lib.Name = *patch.Name
	}
	if patch.Color != nil {
		lib.Color = *patch.Color
	}
	if patch.Enabled != nil {
		lib.Enabled = *patch.Enabled
	}
	if patch.Values != nil {
		lib.Values = append([]string(nil), (*patch.Values)...)
	}
	if patch.ValuesWithCategory != nil {
		lib.ValuesWithCategory = patch.ValuesWithCategory
	}
	if patch.ValueWeights != nil {
		lib.ValueWeights = patch.ValueWeights
	}
	if patch.ParticipationRate != nil {
		lib.ParticipationRate = *patch.ParticipationRate
	}
	if patch.PickMode != nil {
		lib.PickMode = *patch.PickMode
	}
	if patch.PickCount != nil {
		lib.PickCount = *patch.PickCount
	}
	if patch.Group != nil {
		lib.Group = *patch.Group
	}
}
