package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
)

// SQLiteCourseFieldRepo implements CourseFieldRepo using a SQLite database.
type SQLiteCourseFieldRepo struct {
	db db.DBTX
}

func NewSQLiteCourseFieldRepo(conn db.DBTX) *SQLiteCourseFieldRepo {
	return &SQLiteCourseFieldRepo{db: conn}
}

func (r *SQLiteCourseFieldRepo) Create(ctx context.Context, f *domain.CourseField) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO course_fields (course_id, category_id, category, shortname, name, value, sortorder)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.CourseID, f.CategoryID, f.Category, f.ShortName, f.Name, f.Value, f.SortOrder)
	if err != nil {
		return fmt.Errorf("inserting course field: %w", err)
	}
	if f.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading course field id: %w", err)
	}
	return nil
}

func (r *SQLiteCourseFieldRepo) ListByCourse(ctx context.Context, courseID int64) ([]*domain.CourseField, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, course_id, category_id, category, shortname, name, value, sortorder
		FROM course_fields WHERE course_id = ?
		ORDER BY category_id, sortorder, id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing course fields: %w", err)
	}
	defer rows.Close()
	return scanCourseFields(rows)
}

func scanCourseFields(rows *sql.Rows) ([]*domain.CourseField, error) {
	var fields []*domain.CourseField
	for rows.Next() {
		var f domain.CourseField
		if err := rows.Scan(&f.ID, &f.CourseID, &f.CategoryID, &f.Category, &f.ShortName,
			&f.Name, &f.Value, &f.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning course field: %w", err)
		}
		fields = append(fields, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course fields: %w", err)
	}
	return fields, nil
}
