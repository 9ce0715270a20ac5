package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
)

const courseColumns = `id, shortname, fullname, display, cmbacklink, marker, created_at, updated_at`

// SQLiteCourseRepo implements CourseRepo using a SQLite database.
type SQLiteCourseRepo struct {
	db db.DBTX
}

func NewSQLiteCourseRepo(conn db.DBTX) *SQLiteCourseRepo {
	return &SQLiteCourseRepo{db: conn}
}

func (r *SQLiteCourseRepo) Create(ctx context.Context, c *domain.Course) error {
	if c.Display == "" {
		c.Display = domain.DisplaySinglePage
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (shortname, fullname, display, cmbacklink, marker, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ShortName, c.FullName, string(c.Display), boolToInt(c.CMBackLink), c.Marker,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading course id: %w", err)
	}
	c.ID = id
	return nil
}

func (r *SQLiteCourseRepo) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	return scanCourse(row)
}

func (r *SQLiteCourseRepo) GetByShortName(ctx context.Context, shortName string) (*domain.Course, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE UPPER(shortname) = UPPER(?)`, shortName)
	return scanCourse(row)
}

func (r *SQLiteCourseRepo) List(ctx context.Context) ([]*domain.Course, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY shortname`)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}
	return courses, nil
}

func (r *SQLiteCourseRepo) Update(ctx context.Context, c *domain.Course) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE courses SET shortname = ?, fullname = ?, display = ?, cmbacklink = ?, marker = ?, updated_at = ?
		WHERE id = ?`,
		c.ShortName, c.FullName, string(c.Display), boolToInt(c.CMBackLink), c.Marker,
		formatTime(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating course: %w", err)
	}
	return nil
}

func (r *SQLiteCourseRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*domain.Course, error) {
	var c domain.Course
	var display, createdAt, updatedAt string
	var backlink int
	err := row.Scan(&c.ID, &c.ShortName, &c.FullName, &display, &backlink, &c.Marker, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning course: %w", err)
	}
	c.Display = domain.CourseDisplay(display)
	c.CMBackLink = intToBool(backlink)
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
