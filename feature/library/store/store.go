// Package store persists CombinationConfig snapshots.
//
// The whole snapshot is serialized to JSON and kept in a single row, which
// matches the copy-on-write model: every save is a wholesale replacement,
// there is nothing to migrate per-field.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prompt-mixer/feature/library/models"
)

// snapshotRowID is the fixed primary key of the single snapshot row.
const snapshotRowID = 1

// ConfigRecord is the database row holding the serialized snapshot.
type ConfigRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Data      []byte    `gorm:"type:json"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName fixes the table name regardless of GORM pluralization rules.
func (ConfigRecord) TableName() string {
	return "config_records"
}

// Store reads and writes the snapshot row. The db handle must be non-nil;
// callers that run without persistence simply hold no Store.
type Store struct {
	db *gorm.DB
}

// New creates a store over the given connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the snapshot table if needed.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&ConfigRecord{})
}

// Load returns the persisted snapshot, or (nil, nil) when none exists yet.
func (s *Store) Load(ctx context.Context) (*models.CombinationConfig, error) {
	var record ConfigRecord
	err := s.db.WithContext(ctx).First(&record, snapshotRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config snapshot: %w", err)
	}

	var cfg models.CombinationConfig
	if err := json.Unmarshal(record.Data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config snapshot: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save replaces the persisted snapshot wholesale.
func (s *Store) Save(ctx context.Context, cfg *models.CombinationConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config snapshot: %w", err)
	}

	record := ConfigRecord{ID: snapshotRowID, Data: data}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save config snapshot: %w", err)
	}
	return nil
}
