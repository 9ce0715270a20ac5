package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/mawang/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openCourseDB(t *testing.T) (*db.SQLiteUnitOfWork, func(string) int) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	count := func(shortname string) int {
		var n int
		require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM courses WHERE shortname = ?`, shortname).Scan(&n))
		return n
	}
	return db.NewSQLiteUnitOfWork(database), count
}

func insertCourse(ctx context.Context, tx db.DBTX, shortname string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO courses (shortname, fullname, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		shortname, shortname, now, now)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, count := openCourseDB(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertCourse(ctx, tx, "BIO101")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count("BIO101"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, count := openCourseDB(t)
	boom := errors.New("boom")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertCourse(ctx, tx, "CHEM1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, count("CHEM1"), "row must be rolled back")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, count := openCourseDB(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			require.NoError(t, insertCourse(ctx, tx, "PHYS1"))
			panic("kaboom")
		})
	})
	assert.Equal(t, 0, count("PHYS1"))
}

func TestWithinTx_NestedCallJoinsOuter(t *testing.T) {
	uow, count := openCourseDB(t)
	boom := errors.New("boom")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		assert.True(t, db.InTx(ctx))
		inner := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return insertCourse(ctx, tx, "GEO1")
		})
		require.NoError(t, inner)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, count("GEO1"), "outer rollback discards the inner write")
	assert.False(t, db.InTx(context.Background()))
}

func TestOpenDB_FileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mawang.db")
	database, err := db.OpenDB(path)
	require.NoError(t, err)
	defer database.Close()

	var mode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, database.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, db.Migrate(database))
	require.NoError(t, db.Migrate(database))

	for _, table := range []string{"courses", "course_sections", "course_modules", "module_completions", "files", "course_teachers", "course_fields"} {
		var name string
		err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}
