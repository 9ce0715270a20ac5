package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
)

// SQLiteCompletionRepo implements CompletionRepo using a SQLite database.
type SQLiteCompletionRepo struct {
	db db.DBTX
}

func NewSQLiteCompletionRepo(conn db.DBTX) *SQLiteCompletionRepo {
	return &SQLiteCompletionRepo{db: conn}
}

func (r *SQLiteCompletionRepo) Upsert(ctx context.Context, c *domain.Completion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO module_completions (module_id, user_id, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(module_id, user_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		c.ModuleID, c.UserID, string(c.State), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting completion: %w", err)
	}
	return nil
}

func (r *SQLiteCompletionRepo) Get(ctx context.Context, moduleID, userID int64) (*domain.Completion, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT module_id, user_id, state, updated_at FROM module_completions WHERE module_id = ? AND user_id = ?`,
		moduleID, userID)
	return scanCompletion(row)
}

func (r *SQLiteCompletionRepo) ListByCourseUser(ctx context.Context, courseID, userID int64) ([]*domain.Completion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.module_id, c.user_id, c.state, c.updated_at FROM module_completions c
		JOIN course_modules m ON m.id = c.module_id
		WHERE m.course_id = ? AND c.user_id = ?
		ORDER BY c.module_id`, courseID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing completions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Completion
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completions: %w", err)
	}
	return out, nil
}

func scanCompletion(row rowScanner) (*domain.Completion, error) {
	var c domain.Completion
	var state, updatedAt string
	if err := row.Scan(&c.ModuleID, &c.UserID, &state, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("completion: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning completion: %w", err)
	}
	c.State = domain.CompletionState(state)
	var err error
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
