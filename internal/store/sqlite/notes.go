package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/store"
)

// noteColumns must match the scan order in scanNote.
const noteColumns = `n.id, n.title, n.type, n.content, n.code_content, n.project_id, n.created_at, n.updated_at`

func scanNote(scanner rowScanner) (*domain.Note, error) {
	var (
		n                    domain.Note
		noteType             string
		content, code        sql.NullString
		projectID            sql.NullString
		createdAt, updatedAt string
	)

	err := scanner.Scan(
		&n.ID,
		&n.Title,
		&noteType,
		&content,
		&code,
		&projectID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Type = domain.NoteType(noteType)
	n.Content = stringPtr(content)
	n.CodeContent = stringPtr(code)
	n.ProjectID = stringPtr(projectID)

	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNote inserts a new note.
func (q *queries) CreateNote(ctx context.Context, n *domain.Note) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO notes (id, title, type, content, code_content, project_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID,
		n.Title,
		string(n.Type),
		nullableString(n.Content),
		nullableString(n.CodeContent),
		nullableString(n.ProjectID),
		formatTime(n.CreatedAt),
		formatTime(n.UpdatedAt),
	)
	if isUniqueViolation(err, "notes.id") {
		return store.AlreadyExists("note", "id", n.ID, err)
	}
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// GetNote retrieves a note with its tags.
// Returns store.ErrNotFound if the note does not exist.
func (q *queries) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes n WHERE n.id = ?`, id)
	n, err := scanNote(row)
	if err != nil {
		return nil, notFound(err, "note", id)
	}
	if err := q.attachTags(ctx, []*domain.Note{n}); err != nil {
		return nil, err
	}
	return n, nil
}

// FindNoteByTitle returns the oldest note with this exact title in the project.
func (q *queries) FindNoteByTitle(ctx context.Context, title string, projectID *string) (*domain.Note, error) {
	// "IS" compares NULL as equal, so one statement covers both cases.
	row := q.db.QueryRowContext(ctx, `
		SELECT `+noteColumns+` FROM notes n
		WHERE n.title = ? AND n.project_id IS ?
		ORDER BY n.created_at ASC, n.rowid ASC
		LIMIT 1`, title, nullableString(projectID))
	n, err := scanNote(row)
	if err != nil {
		return nil, notFound(err, "note", title)
	}
	return n, nil
}

// UpdateNote writes every mutable column of n. Tags are not touched.
func (q *queries) UpdateNote(ctx context.Context, n *domain.Note) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE notes
		SET title = ?, type = ?, content = ?, code_content = ?, project_id = ?, updated_at = ?
		WHERE id = ?`,
		n.Title,
		string(n.Type),
		nullableString(n.Content),
		nullableString(n.CodeContent),
		nullableString(n.ProjectID),
		formatTime(n.UpdatedAt),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return requireAffected(res, "note", n.ID)
}

// DeleteNote removes a note and its tag links.
func (q *queries) DeleteNote(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return requireAffected(res, "note", id)
}

// ListNotes returns one page of notes with tags, most recently updated first.
func (q *queries) ListNotes(ctx context.Context, filter store.NoteFilter) (store.Page[*domain.Note], error) {
	page := filter.Page
	page.Validate()
	offset, err := page.Offset()
	if err != nil {
		return store.Page[*domain.Note]{}, store.ErrInvalidInput.WithCause(err)
	}

	query := `SELECT ` + noteColumns + ` FROM notes n WHERE 1=1`
	var args []any
	if filter.ProjectID != "" {
		query += ` AND n.project_id = ?`
		args = append(args, filter.ProjectID)
	}
	if filter.Type != "" {
		query += ` AND n.type = ?`
		args = append(args, filter.Type)
	}
	query += ` ORDER BY n.updated_at DESC, n.rowid DESC LIMIT ? OFFSET ?`
	args = append(args, page.Limit+1, offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return store.Page[*domain.Note]{}, fmt.Errorf("list notes: %w", err)
	}
	notes, err := collect(rows, scanNote)
	if err != nil {
		return store.Page[*domain.Note]{}, err
	}

	result := store.NewPage(notes, page.Limit, offset)
	if err := q.attachTags(ctx, result.Items); err != nil {
		return store.Page[*domain.Note]{}, err
	}
	return result, nil
}

// SetNoteTags makes tagIDs the note's exact tag set: missing links are
// added, links not in tagIDs are removed, existing links are kept.
func (q *queries) SetNoteTags(ctx context.Context, noteID string, tagIDs []string) error {
	return q.inTx(ctx, func(q *queries) error {
		if len(tagIDs) == 0 {
			if _, err := q.db.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, noteID); err != nil {
				return fmt.Errorf("clear note tags: %w", err)
			}
			return nil
		}

		args := make([]any, 0, len(tagIDs)+1)
		args = append(args, noteID)
		for _, tid := range tagIDs {
			args = append(args, tid)
		}
		if _, err := q.db.ExecContext(ctx,
			`DELETE FROM note_tags WHERE note_id = ? AND tag_id NOT IN (`+placeholders(len(tagIDs))+`)`,
			args...); err != nil {
			return fmt.Errorf("detach note tags: %w", err)
		}

		now := formatTime(time.Now())
		for _, tid := range tagIDs {
			if _, err := q.db.ExecContext(ctx, `
				INSERT INTO note_tags (note_id, tag_id, created_at) VALUES (?, ?, ?)
				ON CONFLICT (note_id, tag_id) DO NOTHING`,
				noteID, tid, now); err != nil {
				return fmt.Errorf("attach tag %s: %w", tid, err)
			}
		}
		return nil
	})
}

// GetNoteTags returns the note's tags ordered by name.
func (q *queries) GetNoteTags(ctx context.Context, noteID string) ([]*domain.Tag, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+tagColumns+` FROM tags t
		JOIN note_tags nt ON nt.tag_id = t.id
		WHERE nt.note_id = ?
		ORDER BY t.name ASC`, noteID)
	if err != nil {
		return nil, fmt.Errorf("get note tags: %w", err)
	}
	return collect(rows, scanTag)
}

// attachTags loads tags for all notes in one query.
func (q *queries) attachTags(ctx context.Context, notes []*domain.Note) error {
	if len(notes) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Note, len(notes))
	args := make([]any, 0, len(notes))
	for _, n := range notes {
		n.Tags = []*domain.Tag{}
		byID[n.ID] = n
		args = append(args, n.ID)
	}

	rows, err := q.db.QueryContext(ctx, `
		SELECT nt.note_id, `+tagColumns+` FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id IN (`+placeholders(len(args))+`)
		ORDER BY t.is_flag ASC, t.name ASC`, args...)
	if err != nil {
		return fmt.Errorf("load note tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var noteID string
		t, err := scanTag(prefixScanner{rows: rows, first: &noteID})
		if err != nil {
			return fmt.Errorf("scan note tag: %w", err)
		}
		if n, ok := byID[noteID]; ok {
			n.Tags = append(n.Tags, t)
		}
	}
	return rows.Err()
}

// prefixScanner scans one leading column into first and the rest into dest.
type prefixScanner struct {
	rows  *sql.Rows
	first any
}

func (p prefixScanner) Scan(dest ...any) error {
	return p.rows.Scan(append([]any{p.first}, dest...)...)
}

// inTx runs fn inside a transaction, opening one only if q is not already in one.
func (q *queries) inTx(ctx context.Context, fn func(*queries) error) error {
	db, ok := q.db.(*sql.DB)
	if !ok {
		return fn(q)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(&queries{db: tx}); err != nil {
		return err
	}
	return tx.Commit()
}
