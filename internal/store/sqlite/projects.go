package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/store"
)

// projectColumns must match the scan order in scanProject.
const projectColumns = `p.id, p.name, p.description, p.color, p.content, p.context, p.created_at, p.updated_at`

func scanProject(scanner rowScanner) (*domain.Project, error) {
	var (
		p                    domain.Project
		description          sql.NullString
		content, projContext sql.NullString
		createdAt, updatedAt string
	)

	err := scanner.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.Color,
		&content,
		&projContext,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = stringPtr(description)
	p.Content = stringPtr(content)
	p.Context = stringPtr(projContext)

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProject inserts a new project.
func (q *queries) CreateProject(ctx context.Context, p *domain.Project) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, color, content, context, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Name,
		nullableString(p.Description),
		p.Color,
		nullableString(p.Content),
		nullableString(p.Context),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if isUniqueViolation(err, "projects.id") {
		return store.AlreadyExists("project", "id", p.ID, err)
	}
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetProject retrieves a project by ID.
// Returns store.ErrNotFound if the project does not exist.
func (q *queries) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "project", id)
	}
	return p, nil
}

// FindProjectByName returns the oldest project with exactly this name.
func (q *queries) FindProjectByName(ctx context.Context, name string) (*domain.Project, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+` FROM projects p
		WHERE p.name = ?
		ORDER BY p.created_at ASC, p.rowid ASC
		LIMIT 1`, name)
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, "project", name)
	}
	return p, nil
}

// UpdateProject writes every mutable column of p.
func (q *queries) UpdateProject(ctx context.Context, p *domain.Project) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, description = ?, color = ?, content = ?, context = ?, updated_at = ?
		WHERE id = ?`,
		p.Name,
		nullableString(p.Description),
		p.Color,
		nullableString(p.Content),
		nullableString(p.Context),
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

// DeleteProject removes a project. Its notes and page go with it (ON DELETE CASCADE).
func (q *queries) DeleteProject(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireAffected(res, "project", id)
}

// ListProjects returns projects matching filter, most recently updated first.
func (q *queries) ListProjects(ctx context.Context, filter store.ProjectFilter) ([]*domain.Project, error) {
	var (
		where []string
		args  []any
	)

	if filter.Tag != "" {
		where = append(where, taggedProjectClause)
		args = append(args, filter.Tag, 0)
	}
	if filter.Flag != "" {
		where = append(where, taggedProjectClause)
		args = append(args, filter.Flag, 1)
	}
	if filter.Query != "" {
		pattern := "%" + likeEscape(filter.Query) + "%"
		where = append(where, `(p.name LIKE ? ESCAPE '\' OR p.description LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	query := `SELECT ` + projectColumns + ` FROM projects p`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY p.updated_at DESC, p.rowid DESC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return collect(rows, scanProject)
}

// taggedProjectClause matches projects with a note carrying the named tag of
// the given kind. Takes (name, is_flag).
const taggedProjectClause = `EXISTS (
		SELECT 1 FROM notes n
		JOIN note_tags nt ON nt.note_id = n.id
		JOIN tags t ON t.id = nt.tag_id
		WHERE n.project_id = p.id AND t.name = ? AND t.is_flag = ?)`

// LoadNotes fills Notes (updated desc) and each note's Tags for the given
// projects with two queries regardless of project count.
func (q *queries) LoadNotes(ctx context.Context, projects ...*domain.Project) error {
	if len(projects) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Project, len(projects))
	args := make([]any, 0, len(projects))
	for _, p := range projects {
		p.Notes = []*domain.Note{}
		byID[p.ID] = p
		args = append(args, p.ID)
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes n
		WHERE n.project_id IN (`+placeholders(len(args))+`)
		ORDER BY n.updated_at DESC, n.rowid DESC`, args...)
	if err != nil {
		return fmt.Errorf("load project notes: %w", err)
	}
	notes, err := collect(rows, scanNote)
	if err != nil {
		return fmt.Errorf("scan project notes: %w", err)
	}

	if err := q.attachTags(ctx, notes); err != nil {
		return err
	}

	for _, n := range notes {
		if n.ProjectID == nil {
			continue
		}
		if p, ok := byID[*n.ProjectID]; ok {
			p.Notes = append(p.Notes, n)
		}
	}
	return nil
}

// requireAffected turns a zero-row UPDATE or DELETE into a not-found error.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.NotFound(entity, id)
	}
	return nil
}
