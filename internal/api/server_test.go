package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/service"
	"github.com/notesapp/notes-server/internal/store"
	"github.com/notesapp/notes-server/internal/store/sqlite"
	"github.com/notesapp/notes-server/internal/validation"
)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store store.Store
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// setupTestServer creates a server on a fresh SQLite database.
func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	return setupTestServerWithStore(t, openTestStore(t), opts)
}

func setupTestServerWithStore(t *testing.T, st store.Store, opts Options) *testServer {
	t.Helper()

	logger := discardLogger()
	services := &Services{
		Sync:    service.NewSyncService(st, logger),
		Stats:   service.NewStatsService(st, logger),
		Project: service.NewProjectService(st, logger),
		Note:    service.NewNoteService(st, logger),
		Tag:     service.NewTagService(st, logger),
		Page:    service.NewPageService(st, logger),
	}

	srv := NewServer(st, services, validation.New(), opts, logger)

	return &testServer{
		Server: srv,
		api:    humatest.Wrap(t, srv.api),
		store:  st,
	}
}

// decode unmarshals a JSON response body.
func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), "body: %s", resp.Body.String())
	return v
}

// errorBody is the shape of every error response.
type errorBody struct {
	Success bool           `json:"success"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// failingStore fails project creation inside transactions for one name, to
// drive the per-item rollback path through HTTP.
type failingStore struct {
	store.Store
	failName string
}

func (s *failingStore) Begin(ctx context.Context) (store.Tx, error) {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &failingTx{Tx: tx, failName: s.failName}, nil
}

type failingTx struct {
	store.Tx
	failName string
}

func (tx *failingTx) CreateProject(ctx context.Context, p *domain.Project) error {
	if p.Name == tx.failName {
		return errors.New("disk on fire")
	}
	return tx.Tx.CreateProject(ctx, p)
}
