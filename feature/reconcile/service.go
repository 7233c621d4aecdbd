package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"prompt-mixer/feature/library"
	"prompt-mixer/feature/library/models"
	"prompt-mixer/feature/reconcile/source"
)

var (
	// ErrSyncInProgress is returned when a sync is triggered while another
	// one is still running.
	ErrSyncInProgress = errors.New("sync already in progress")
	// ErrNoSheets is returned when the source yields no master sheets. An
	// empty result never wipes the local collection.
	ErrNoSheets = errors.New("source returned no master sheets")
	// ErrNoSource is returned when no sheet source is configured.
	ErrNoSource = errors.New("no sheet source configured")
)

// SyncStatus describes the outcome of the most recent sync attempt.
type SyncStatus struct {
	Running      bool      `json:"running"`
	LastRun      time.Time `json:"lastRun,omitempty"`
	LastError    string    `json:"lastError,omitempty"`
	SheetCount   int       `json:"sheetCount"`
	LibraryCount int       `json:"libraryCount"`
}

// Service applies imports and source syncs to the library collection.
type Service struct {
	logger    *zap.Logger
	libraries *library.Service
	adapter   source.Adapter
	timeout   time.Duration

	inFlight atomic.Bool
	mu       sync.Mutex
	status   SyncStatus
}

func NewService(logger *zap.Logger, libraries *library.Service, adapter source.Adapter, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{
		logger:    logger,
		libraries: libraries,
		adapter:   adapter,
		timeout:   timeout,
	}
}

// Import merges the incoming libraries into the current collection under the
// given mode. The swap is all or nothing.
//
// Import does not take the inFlight guard: the guard serializes the
// asynchronous, I/O-bound sheet sync, while an import is synchronous and has
// no external fetch to protect. Racing an in-flight sync is resolved by the
// snapshot holder's atomic swap, last write wins.
func (s *Service) Import(ctx context.Context, incoming []models.Library, mode ImportMode) (models.CombinationConfig, error) {
	cfg := s.libraries.Snapshot()
	merged, err := ApplyImport(cfg, incoming, mode)
	if err != nil {
		return models.CombinationConfig{}, err
	}
	if err := s.libraries.Replace(ctx, merged); err != nil {
		return models.CombinationConfig{}, err
	}
	s.logger.Info("imported libraries",
		zap.String("mode", string(mode)),
		zap.Int("incoming", len(incoming)),
		zap.Int("total", len(merged.Libraries)))
	return merged, nil
}

// Sync fetches every master sheet from the source and folds it into the
// collection. A second trigger while one is running is a no-op error, and a
// failed fetch leaves the collection untouched.
func (s *Service) Sync(ctx context.Context) (SyncStatus, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return s.Status(), ErrSyncInProgress
	}
	defer s.inFlight.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	status := SyncStatus{LastRun: time.Now()}
	err := s.run(ctx, &status)
	if err != nil {
		status.LastError = err.Error()
		s.logger.Warn("sync failed", zap.Error(err))
	} else {
		s.logger.Info("sync completed",
			zap.Int("sheets", status.SheetCount),
			zap.Int("libraries", status.LibraryCount))
	}

	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	return status, err
}

func (s *Service) run(ctx context.Context, status *SyncStatus) error {
	if s.adapter == nil {
		return ErrNoSource
	}
	sheets, err := s.adapter.FetchMasterSheets(ctx)
	if err != nil {
		return err
	}
	if len(sheets) == 0 {
		return ErrNoSheets
	}
	status.SheetCount = len(sheets)

	merged := ApplySync(s.libraries.Snapshot(), sheets)
	if err := s.libraries.Replace(ctx, merged); err != nil {
		return err
	}
	status.LibraryCount = len(merged.Libraries)
	return nil
}

// Preview fetches the source sheets and reports the merged result without
// touching the collection. Used by the CLI dry-run path.
func (s *Service) Preview(ctx context.Context) (models.CombinationConfig, error) {
	if s.adapter == nil {
		return models.CombinationConfig{}, ErrNoSource
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sheets, err := s.adapter.FetchMasterSheets(ctx)
	if err != nil {
		return models.CombinationConfig{}, err
	}
	if len(sheets) == 0 {
		return models.CombinationConfig{}, ErrNoSheets
	}
	return ApplySync(s.libraries.Snapshot(), sheets), nil
}

// Status reports the outcome of the most recent sync.
func (s *Service) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := s.status
	status.Running = s.inFlight.Load()
	return status
}
