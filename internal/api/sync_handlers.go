package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notesapp/notes-server/internal/domain"
)

// Sync response messages.
const (
	msgSyncSucceeded = "Projects synced successfully"
	msgSyncFailed    = "Some projects failed to sync"
)

func (s *Server) registerSyncRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "syncProjects",
		Method:      http.MethodPost,
		Path:        "/api/sync/projects",
		Summary:     "Sync project bundles",
		Description: "Creates or updates projects, their analysis notes and tags in one transaction. " +
			"If any bundle fails, nothing is saved and the per-bundle errors are returned.",
		Tags:        []string{"Sync"},
		Middlewares: huma.Middlewares{s.syncRateLimit},
	}, s.handleSyncProjects)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSyncStats",
		Method:      http.MethodGet,
		Path:        "/api/sync/stats",
		Summary:     "Sync statistics",
		Description: "Returns entity counts and the most recently updated analysis notes",
		Tags:        []string{"Sync"},
	}, s.handleGetSyncStats)
}

// === DTOs ===

// SyncProjectsInput wraps the sync request for Huma.
type SyncProjectsInput struct {
	Body domain.SyncBatch
}

// SyncProjectsResponse reports a sync run. Results is set when the batch was
// committed; Failed and Errors are set when it was rolled back.
type SyncProjectsResponse struct {
	Success bool                 `json:"success" doc:"Whether the batch was committed"`
	Message string               `json:"message" doc:"Summary of the outcome"`
	RunID   string               `json:"run_id" doc:"Identifier of this sync run, also present in server logs"`
	Synced  int                  `json:"synced" doc:"Bundles that reconciled"`
	Failed  int                  `json:"failed,omitempty" doc:"Bundles that failed"`
	Results []domain.ItemSummary `json:"results,omitempty" doc:"Per-bundle results of a committed batch"`
	Errors  []domain.ItemError   `json:"errors,omitempty" doc:"Per-bundle failures of a rolled back batch"`
}

// SyncProjectsOutput carries a dynamic status: 200 on commit, 422 on rollback.
type SyncProjectsOutput struct {
	Status int
	Body   SyncProjectsResponse
}

// SyncStatsResponse contains sync statistics.
type SyncStatsResponse struct {
	Success bool              `json:"success"`
	Stats   *domain.SyncStats `json:"stats"`
}

// SyncStatsOutput wraps the stats response for Huma.
type SyncStatsOutput struct {
	Body SyncStatsResponse
}

// === Handlers ===

func (s *Server) handleSyncProjects(ctx context.Context, input *SyncProjectsInput) (*SyncProjectsOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	result, err := s.services.Sync.SyncBatch(ctx, input.Body.Projects)
	if err != nil {
		return nil, err
	}

	if !result.OK() {
		return &SyncProjectsOutput{
			Status: http.StatusUnprocessableEntity,
			Body: SyncProjectsResponse{
				Success: false,
				Message: msgSyncFailed,
				RunID:   result.RunID,
				Synced:  result.Synced(),
				Failed:  result.FailedCount(),
				Errors:  result.Errors,
			},
		}, nil
	}

	return &SyncProjectsOutput{
		Status: http.StatusOK,
		Body: SyncProjectsResponse{
			Success: true,
			Message: msgSyncSucceeded,
			RunID:   result.RunID,
			Synced:  result.Synced(),
			Results: result.Results,
		},
	}, nil
}

func (s *Server) handleGetSyncStats(ctx context.Context, _ *struct{}) (*SyncStatsOutput, error) {
	stats, err := s.services.Stats.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	return &SyncStatsOutput{
		Body: SyncStatsResponse{Success: true, Stats: stats},
	}, nil
}
