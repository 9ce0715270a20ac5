package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alexanderramin/mawang/internal/db"
)

// FailOnStatementUoW is a test UoW whose transaction fails any ExecContext
// call containing Match. Reads are passed through. It drives rollback tests
// for multi-write operations such as course import and image restore.
type FailOnStatementUoW struct {
	DB    *sql.DB
	Match string
	Err   error
}

func (u *FailOnStatementUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnStatement{DBTX: tx, match: u.Match, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnStatement struct {
	db.DBTX
	match string
	err   error
}

func (f *failOnStatement) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.match != "" && strings.Contains(query, f.match) {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
