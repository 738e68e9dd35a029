package service

import (
	"context"
	"log/slog"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/store"
)

// RecentSyncsLimit caps the analyzer notes listed in sync stats.
const RecentSyncsLimit = 10

// StatsService reports counts over the synced data.
type StatsService struct {
	store  store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{
		store:  store,
		logger: logger,
	}
}

// GetStats returns entity counts and the most recently updated analyzer notes.
func (s *StatsService) GetStats(ctx context.Context) (*domain.SyncStats, error) {
	stats, err := s.store.GetStats(ctx, RecentSyncsLimit)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if stats.RecentSyncs == nil {
		stats.RecentSyncs = []domain.RecentSync{}
	}
	return stats, nil
}
