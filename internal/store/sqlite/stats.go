package sqlite

import (
	"context"
	"fmt"

	"github.com/notesapp/notes-server/internal/domain"
)

// GetStats aggregates counts and the most recent analyzer notes.
func (q *queries) GetStats(ctx context.Context, recentLimit int) (*domain.SyncStats, error) {
	stats := &domain.SyncStats{RecentSyncs: []domain.RecentSync{}}

	err := q.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM notes),
			(SELECT COUNT(*) FROM tags WHERE is_flag = 0),
			(SELECT COUNT(*) FROM tags WHERE is_flag = 1),
			(SELECT COUNT(DISTINCT project_id) FROM notes WHERE project_id IS NOT NULL)`,
	).Scan(
		&stats.TotalProjects,
		&stats.TotalNotes,
		&stats.TotalTags,
		&stats.TotalFlags,
		&stats.ProjectsWithNotes,
	)
	if err != nil {
		return nil, fmt.Errorf("count stats: %w", err)
	}

	if recentLimit <= 0 {
		return stats, nil
	}

	// substr with a negative start compares the exact, case-sensitive suffix.
	suffix := domain.AnalysisTitleSuffix
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, title, updated_at FROM notes
		WHERE substr(title, -?) = ?
		ORDER BY updated_at DESC, rowid DESC
		LIMIT ?`, len([]rune(suffix)), suffix, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent syncs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r         domain.RecentSync
			updatedAt string
		)
		if err := rows.Scan(&r.ID, &r.Title, &updatedAt); err != nil {
			return nil, err
		}
		if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		stats.RecentSyncs = append(stats.RecentSyncs, r)
	}
	return stats, rows.Err()
}
