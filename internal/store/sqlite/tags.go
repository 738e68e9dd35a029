package sqlite

import (
	"context"
	"fmt"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/store"
)

// tagColumns must match the scan order in scanTag.
const tagColumns = `t.id, t.name, t.color, t.is_flag, t.created_at, t.updated_at`

func scanTag(scanner rowScanner) (*domain.Tag, error) {
	var (
		t                    domain.Tag
		isFlag               int
		createdAt, updatedAt string
	)

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.Color,
		&isFlag,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.IsFlag = isFlag != 0
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// CreateTag inserts a new tag.
// Returns store.ErrAlreadyExists when the name is taken.
func (q *queries) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, is_flag, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Name,
		t.Color,
		boolInt(t.IsFlag),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if isUniqueViolation(err, "tags.name") {
		return store.AlreadyExists("tag", "name", t.Name, err)
	}
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

// GetTag retrieves a tag by ID.
func (q *queries) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags t WHERE t.id = ?`, id)
	t, err := scanTag(row)
	if err != nil {
		return nil, notFound(err, "tag", id)
	}
	return t, nil
}

// FindTagByName retrieves a tag by exact (case-sensitive) name.
func (q *queries) FindTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags t WHERE t.name = ?`, name)
	t, err := scanTag(row)
	if err != nil {
		return nil, notFound(err, "tag", name)
	}
	return t, nil
}

// UpdateTag writes name, color and is_flag.
// Returns store.ErrAlreadyExists when renaming onto an existing name.
func (q *queries) UpdateTag(ctx context.Context, t *domain.Tag) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE tags SET name = ?, color = ?, is_flag = ?, updated_at = ?
		WHERE id = ?`,
		t.Name,
		t.Color,
		boolInt(t.IsFlag),
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if isUniqueViolation(err, "tags.name") {
		return store.AlreadyExists("tag", "name", t.Name, err)
	}
	if err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	return requireAffected(res, "tag", t.ID)
}

// DeleteTag removes a tag and detaches it from every note.
func (q *queries) DeleteTag(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return requireAffected(res, "tag", id)
}

// ListTags returns tags ordered by name.
func (q *queries) ListTags(ctx context.Context, filter store.TagFilter) ([]*domain.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags t`
	var args []any
	if filter.IsFlag != nil {
		query += ` WHERE t.is_flag = ?`
		args = append(args, boolInt(*filter.IsFlag))
	}
	query += ` ORDER BY t.name ASC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return collect(rows, scanTag)
}
