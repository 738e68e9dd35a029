package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/notesapp/notes-server/internal/store"
)

// Tx is an open SQLite transaction.
type Tx struct {
	*queries
	tx *sql.Tx
}

var _ store.Tx = (*Tx)(nil)

var savepointName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func savepointStmt(verb, name string) (string, error) {
	if !savepointName.MatchString(name) {
		return "", fmt.Errorf("invalid savepoint name %q", name)
	}
	return verb + " " + name, nil
}

// Savepoint marks a point the transaction can roll back to.
func (t *Tx) Savepoint(ctx context.Context, name string) error {
	stmt, err := savepointStmt("SAVEPOINT", name)
	if err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("savepoint %s: %w", name, err)
	}
	return nil
}

// RollbackTo undoes everything since the savepoint. The savepoint stays
// open and must still be released.
func (t *Tx) RollbackTo(ctx context.Context, name string) error {
	stmt, err := savepointStmt("ROLLBACK TO SAVEPOINT", name)
	if err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("rollback to %s: %w", name, err)
	}
	return nil
}

// Release discards the savepoint, keeping its changes in the transaction.
func (t *Tx) Release(ctx context.Context, name string) error {
	stmt, err := savepointStmt("RELEASE SAVEPOINT", name)
	if err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("release %s: %w", name, err)
	}
	return nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. Calling it after Commit is a no-op
// returning sql.ErrTxDone.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
