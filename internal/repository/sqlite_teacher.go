package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
)

// SQLiteTeacherRepo implements TeacherRepo. Profile fields are stored as a
// JSON object.
type SQLiteTeacherRepo struct {
	db db.DBTX
}

func NewSQLiteTeacherRepo(conn db.DBTX) *SQLiteTeacherRepo {
	return &SQLiteTeacherRepo{db: conn}
}

func (r *SQLiteTeacherRepo) Create(ctx context.Context, t *domain.Teacher) error {
	fields := t.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding teacher fields: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO course_teachers (course_id, fullname, email, picture, fields, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.CourseID, t.FullName, t.Email, t.Picture, string(raw), formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting teacher: %w", err)
	}
	if t.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading teacher id: %w", err)
	}
	return nil
}

func (r *SQLiteTeacherRepo) ListByCourse(ctx context.Context, courseID int64) ([]*domain.Teacher, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, course_id, fullname, email, picture, fields, created_at
		FROM course_teachers WHERE course_id = ? ORDER BY id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*domain.Teacher
	for rows.Next() {
		var t domain.Teacher
		var fields, createdAt string
		if err := rows.Scan(&t.ID, &t.CourseID, &t.FullName, &t.Email, &t.Picture, &fields, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning teacher: %w", err)
		}
		if err := json.Unmarshal([]byte(fields), &t.Fields); err != nil {
			return nil, fmt.Errorf("decoding teacher fields: %w", err)
		}
		if t.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		teachers = append(teachers, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teachers: %w", err)
	}
	return teachers, nil
}
