package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
)

const sectionColumns = `id, course_id, section, parent_id, name, summary, visible, visibleold,
		collapsed, created_at, updated_at`

// SQLiteSectionRepo implements SectionRepo using a SQLite database.
type SQLiteSectionRepo struct {
	db db.DBTX
}

func NewSQLiteSectionRepo(conn db.DBTX) *SQLiteSectionRepo {
	return &SQLiteSectionRepo{db: conn}
}

func (r *SQLiteSectionRepo) Create(ctx context.Context, s *domain.Section) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO course_sections (course_id, section, parent_id, name, summary, visible, visibleold,
		collapsed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.CourseID, s.Number, s.ParentID, s.Name, s.Summary,
		boolToInt(s.Visible), boolToInt(s.VisibleOld), int(s.Layout),
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting section: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading section id: %w", err)
	}
	s.ID = id
	return nil
}

func (r *SQLiteSectionRepo) GetByID(ctx context.Context, id int64) (*domain.Section, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sectionColumns+` FROM course_sections WHERE id = ?`, id)
	return scanSection(row)
}

func (r *SQLiteSectionRepo) GetByNumber(ctx context.Context, courseID int64, number int) (*domain.Section, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM course_sections WHERE course_id = ? AND section = ?`, courseID, number)
	return scanSection(row)
}

func (r *SQLiteSectionRepo) ListByCourse(ctx context.Context, courseID int64) ([]*domain.Section, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sectionColumns+` FROM course_sections WHERE course_id = ? ORDER BY section`, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing sections by course: %w", err)
	}
	defer rows.Close()
	return scanSections(rows)
}

func (r *SQLiteSectionRepo) ListChildren(ctx context.Context, parentID int64) ([]*domain.Section, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sectionColumns+` FROM course_sections WHERE parent_id = ? ORDER BY section`, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing child sections: %w", err)
	}
	defer rows.Close()
	return scanSections(rows)
}

// NextNumber returns MAX(section) + 1 for the course, or 0 for an empty course.
func (r *SQLiteSectionRepo) NextNumber(ctx context.Context, courseID int64) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(section) + 1, 0) FROM course_sections WHERE course_id = ?`, courseID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("computing next section number for course %d: %w", courseID, err)
	}
	return next, nil
}

func (r *SQLiteSectionRepo) Update(ctx context.Context, s *domain.Section) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE course_sections SET section = ?, parent_id = ?, name = ?, summary = ?, visible = ?,
		visibleold = ?, collapsed = ?, updated_at = ?
		WHERE id = ?`,
		s.Number, s.ParentID, s.Name, s.Summary, boolToInt(s.Visible), boolToInt(s.VisibleOld),
		int(s.Layout), formatTime(s.UpdatedAt), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating section: %w", err)
	}
	return nil
}

func (r *SQLiteSectionRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM course_sections WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting section: %w", err)
	}
	return nil
}

func scanSection(row rowScanner) (*domain.Section, error) {
	var s domain.Section
	var visible, visibleOld, collapsed int
	var createdAt, updatedAt string
	err := row.Scan(&s.ID, &s.CourseID, &s.Number, &s.ParentID, &s.Name, &s.Summary,
		&visible, &visibleOld, &collapsed, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("section: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning section: %w", err)
	}
	s.Visible = intToBool(visible)
	s.VisibleOld = intToBool(visibleOld)
	s.Layout = domain.SectionLayout(collapsed)
	if s.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSections(rows *sql.Rows) ([]*domain.Section, error) {
	var sections []*domain.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}
	return sections, nil
}
