package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/domain"
)

const moduleColumns = `m.id, m.course_id, m.section_id, m.modname, m.name, m.url, m.visible, m.uservisible,
		m.stealth, m.tracking, m.purpose, m.fields, m.order_index, m.created_at, m.updated_at`

// SQLiteModuleRepo implements ModuleRepo using a SQLite database.
type SQLiteModuleRepo struct {
	db db.DBTX
}

func NewSQLiteModuleRepo(conn db.DBTX) *SQLiteModuleRepo {
	return &SQLiteModuleRepo{db: conn}
}

func (r *SQLiteModuleRepo) Create(ctx context.Context, m *domain.CourseModule) error {
	if m.Tracking == "" {
		m.Tracking = domain.TrackingNone
	}
	if m.Purpose == "" {
		m.Purpose = domain.PurposeOther
	}
	fields, err := encodeFields(m.Fields)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO course_modules (course_id, section_id, modname, name, url, visible, uservisible,
		stealth, tracking, purpose, fields, order_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.CourseID, m.SectionID, m.ModName, m.Name, m.URL,
		boolToInt(m.Visible), boolToInt(m.UserVisible), boolToInt(m.Stealth),
		string(m.Tracking), string(m.Purpose), fields, m.OrderIndex,
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting course module: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading course module id: %w", err)
	}
	m.ID = id
	return nil
}

func (r *SQLiteModuleRepo) GetByID(ctx context.Context, id int64) (*domain.CourseModule, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+moduleColumns+` FROM course_modules m WHERE m.id = ?`, id)
	return scanModule(row)
}

func (r *SQLiteModuleRepo) ListBySection(ctx context.Context, sectionID int64) ([]*domain.CourseModule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+moduleColumns+` FROM course_modules m WHERE m.section_id = ? ORDER BY m.order_index, m.id`, sectionID)
	if err != nil {
		return nil, fmt.Errorf("listing modules by section: %w", err)
	}
	defer rows.Close()
	return scanModules(rows)
}

func (r *SQLiteModuleRepo) ListByCourse(ctx context.Context, courseID int64) ([]*domain.CourseModule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+moduleColumns+` FROM course_modules m
		JOIN course_sections s ON s.id = m.section_id
		WHERE m.course_id = ?
		ORDER BY s.section, m.order_index, m.id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing modules by course: %w", err)
	}
	defer rows.Close()
	return scanModules(rows)
}

func (r *SQLiteModuleRepo) Update(ctx context.Context, m *domain.CourseModule) error {
	fields, err := encodeFields(m.Fields)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE course_modules SET section_id = ?, modname = ?, name = ?, url = ?, visible = ?,
		uservisible = ?, stealth = ?, tracking = ?, purpose = ?, fields = ?,
		order_index = ?, updated_at = ?
		WHERE id = ?`,
		m.SectionID, m.ModName, m.Name, m.URL, boolToInt(m.Visible), boolToInt(m.UserVisible),
		boolToInt(m.Stealth), string(m.Tracking), string(m.Purpose), fields,
		m.OrderIndex, formatTime(m.UpdatedAt), m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating course module: %w", err)
	}
	return nil
}

func (r *SQLiteModuleRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM course_modules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting course module: %w", err)
	}
	return nil
}

func scanModule(row rowScanner) (*domain.CourseModule, error) {
	var m domain.CourseModule
	var visible, userVisible, stealth int
	var tracking, purpose, fields, createdAt, updatedAt string
	err := row.Scan(&m.ID, &m.CourseID, &m.SectionID, &m.ModName, &m.Name, &m.URL,
		&visible, &userVisible, &stealth, &tracking, &purpose, &fields,
		&m.OrderIndex, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course module: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning course module: %w", err)
	}
	m.Visible = intToBool(visible)
	m.UserVisible = intToBool(userVisible)
	m.Stealth = intToBool(stealth)
	if err := json.Unmarshal([]byte(fields), &m.Fields); err != nil {
		return nil, fmt.Errorf("decoding course module fields: %w", err)
	}
	m.Tracking = domain.CompletionTracking(tracking)
	m.Purpose = domain.ModulePurpose(purpose)
	if m.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanModules(rows *sql.Rows) ([]*domain.CourseModule, error) {
	var modules []*domain.CourseModule
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course modules: %w", err)
	}
	return modules, nil
}

func encodeFields(fields map[string]string) (string, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding course module fields: %w", err)
	}
	return string(raw), nil
}
