package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
)

const fileColumns = `id, context_id, component, filearea, itemid, filepath, filename, mimetype,
		contenthash, filesize, content, created_at`

// SQLiteFileRepo implements FileRepo using a SQLite database. Content is
// stored inline as a BLOB.
type SQLiteFileRepo struct {
	db db.DBTX
}

func NewSQLiteFileRepo(conn db.DBTX) *SQLiteFileRepo {
	return &SQLiteFileRepo{db: conn}
}

func (r *SQLiteFileRepo) Create(ctx context.Context, f *domain.StoredFile) error {
	if f.FilePath == "" {
		f.FilePath = "/"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO files (id, context_id, component, filearea, itemid, filepath, filename, mimetype,
		contenthash, filesize, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.ContextID, f.Component, f.FileArea, f.ItemID, f.FilePath, f.FileName, f.MimeType,
		f.ContentHash, f.Size, f.Content, formatTime(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}
	return nil
}

func (r *SQLiteFileRepo) GetByID(ctx context.Context, id string) (*domain.StoredFile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id)
	return scanFile(row)
}

func (r *SQLiteFileRepo) Get(ctx context.Context, contextID int64, component, area string, itemID int64, path, name string) (*domain.StoredFile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM files
		WHERE context_id = ? AND component = ? AND filearea = ? AND itemid = ? AND filepath = ? AND filename = ?`,
		contextID, component, area, itemID, path, name)
	return scanFile(row)
}

func (r *SQLiteFileRepo) ListArea(ctx context.Context, contextID int64, component, area string, itemID int64) ([]*domain.StoredFile, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE context_id = ? AND component = ? AND filearea = ?`
	args := []any{contextID, component, area}
	if itemID >= 0 {
		query += ` AND itemid = ?`
		args = append(args, itemID)
	}
	query += ` ORDER BY itemid, filepath, filename`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing file area %s/%s: %w", component, area, err)
	}
	defer rows.Close()

	var files []*domain.StoredFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating files: %w", err)
	}
	return files, nil
}

func (r *SQLiteFileRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

func (r *SQLiteFileRepo) DeleteArea(ctx context.Context, contextID int64, component, area string, itemID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM files WHERE context_id = ? AND component = ? AND filearea = ? AND itemid = ?`,
		contextID, component, area, itemID)
	if err != nil {
		return fmt.Errorf("deleting file area %s/%s/%d: %w", component, area, itemID, err)
	}
	return nil
}

func scanFile(row rowScanner) (*domain.StoredFile, error) {
	var f domain.StoredFile
	var createdAt string
	err := row.Scan(&f.ID, &f.ContextID, &f.Component, &f.FileArea, &f.ItemID, &f.FilePath, &f.FileName,
		&f.MimeType, &f.ContentHash, &f.Size, &f.Content, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("file: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning file: %w", err)
	}
	if f.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &f, nil
}
