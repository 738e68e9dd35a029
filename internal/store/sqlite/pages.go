package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/store"
)

// pageColumns must match the scan order in scanPage.
const pageColumns = `pg.id, pg.project_id, pg.slug, pg.is_published, pg.custom_content, pg.meta_data, pg.created_at, pg.updated_at`

func scanPage(scanner rowScanner) (*domain.ProjectPage, error) {
	var (
		p                    domain.ProjectPage
		published            int
		custom, meta         sql.NullString
		createdAt, updatedAt string
	)

	err := scanner.Scan(
		&p.ID,
		&p.ProjectID,
		&p.Slug,
		&published,
		&custom,
		&meta,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.IsPublished = published != 0
	p.CustomContent = stringPtr(custom)
	if meta.Valid && meta.String != "" {
		if err := json.Unmarshal([]byte(meta.String), &p.MetaData); err != nil {
			return nil, fmt.Errorf("decode meta_data for page %s: %w", p.ID, err)
		}
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func encodeMeta(m map[string]any) (sql.NullString, error) {
	if len(m) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode meta_data: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// pageConflict maps UNIQUE violations on project_pages to typed errors.
func pageConflict(err error, p *domain.ProjectPage) error {
	switch {
	case isUniqueViolation(err, "project_pages.slug"):
		return store.AlreadyExists("project page", "slug", p.Slug, err)
	case isUniqueViolation(err, "project_pages.project_id"):
		return store.AlreadyExists("project page", "project", p.ProjectID, err)
	case isUniqueViolation(err, ""):
		return store.AlreadyExists("project page", "id", p.ID, err)
	}
	return err
}

// CreatePage inserts a page. The UNIQUE indexes on slug and project_id are the
// final guard against concurrent creators; violations surface as
// store.ErrAlreadyExists.
func (q *queries) CreatePage(ctx context.Context, p *domain.ProjectPage) error {
	meta, err := encodeMeta(p.MetaData)
	if err != nil {
		return err
	}

	_, err = q.db.ExecContext(ctx, `
		INSERT INTO project_pages (id, project_id, slug, is_published, custom_content, meta_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.ProjectID,
		p.Slug,
		boolInt(p.IsPublished),
		nullableString(p.CustomContent),
		meta,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		if conflict := pageConflict(err, p); conflict != err {
			return conflict
		}
		return fmt.Errorf("insert project page: %w", err)
	}
	return nil
}

// GetPage retrieves a page by ID.
func (q *queries) GetPage(ctx context.Context, id string) (*domain.ProjectPage, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM project_pages pg WHERE pg.id = ?`, id)
	p, err := scanPage(row)
	if err != nil {
		return nil, notFound(err, "project page", id)
	}
	return p, nil
}

// GetPageBySlug retrieves a page by slug regardless of publication state.
func (q *queries) GetPageBySlug(ctx context.Context, slug string) (*domain.ProjectPage, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM project_pages pg WHERE pg.slug = ?`, slug)
	p, err := scanPage(row)
	if err != nil {
		return nil, notFound(err, "project page", slug)
	}
	return p, nil
}

// GetPageByProject retrieves the page belonging to a project.
func (q *queries) GetPageByProject(ctx context.Context, projectID string) (*domain.ProjectPage, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM project_pages pg WHERE pg.project_id = ?`, projectID)
	p, err := scanPage(row)
	if err != nil {
		return nil, notFound(err, "project page", projectID)
	}
	return p, nil
}

// UpdatePage writes slug, publication state, custom content and meta data.
func (q *queries) UpdatePage(ctx context.Context, p *domain.ProjectPage) error {
	meta, err := encodeMeta(p.MetaData)
	if err != nil {
		return err
	}

	res, err := q.db.ExecContext(ctx, `
		UPDATE project_pages
		SET slug = ?, is_published = ?, custom_content = ?, meta_data = ?, updated_at = ?
		WHERE id = ?`,
		p.Slug,
		boolInt(p.IsPublished),
		nullableString(p.CustomContent),
		meta,
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		if conflict := pageConflict(err, p); conflict != err {
			return conflict
		}
		return fmt.Errorf("update project page: %w", err)
	}
	return requireAffected(res, "project page", p.ID)
}

// DeletePage removes a page.
func (q *queries) DeletePage(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM project_pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project page: %w", err)
	}
	return requireAffected(res, "project page", id)
}

// ListPages returns all pages ordered by slug.
func (q *queries) ListPages(ctx context.Context) ([]*domain.ProjectPage, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+pageColumns+` FROM project_pages pg ORDER BY pg.slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("list project pages: %w", err)
	}
	return collect(rows, scanPage)
}

// SlugExists reports whether any page uses slug.
func (q *queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists int
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM project_pages WHERE slug = ?)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists != 0, nil
}

// ListProjectsWithoutPage returns projects lacking a page, oldest first.
func (q *queries) ListProjectsWithoutPage(ctx context.Context) ([]*domain.Project, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects p
		LEFT JOIN project_pages pg ON pg.project_id = p.id
		WHERE pg.id IS NULL
		ORDER BY p.created_at ASC, p.rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects without page: %w", err)
	}
	return collect(rows, scanProject)
}
