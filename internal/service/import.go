package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/validation"
)

// ImportService runs analyzer batch files through the same path as the sync API.
type ImportService struct {
	sync      *SyncService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(sync *SyncService, validator *validation.Validator, logger *slog.Logger) *ImportService {
	return &ImportService{
		sync:      sync,
		validator: validator,
		logger:    logger,
	}
}

// ImportFile decodes the batch at path (YAML for .yaml/.yml, JSON otherwise),
// validates it and syncs it.
func (s *ImportService) ImportFile(ctx context.Context, path string) (*domain.SyncResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}

	batch, err := DecodeBatch(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(batch); err != nil {
		return nil, err
	}

	s.logger.Info("importing sync batch", "path", path, "items", len(batch.Projects))
	return s.sync.SyncBatch(ctx, batch.Projects)
}

// DecodeBatch parses a batch document. YAML is converted to JSON first so both
// formats share one set of field names and the same pointer semantics.
func DecodeBatch(data []byte, ext string) (*domain.SyncBatch, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, domainerrors.Validationf("invalid YAML: %v", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, domainerrors.Validationf("invalid YAML: %v", err)
		}
		data = converted
	}

	var batch domain.SyncBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, domainerrors.Validationf("invalid batch document: %v", err)
	}
	return &batch, nil
}
