package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		shortname   TEXT NOT NULL UNIQUE,
		fullname    TEXT NOT NULL,
		display     TEXT NOT NULL DEFAULT 'single'
		            CHECK(display IN ('single','multi')),
		cmbacklink  INTEGER NOT NULL DEFAULT 0,
		marker      INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS course_sections (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		course_id   INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		section     INTEGER NOT NULL,
		parent_id   INTEGER NOT NULL DEFAULT 0,
		name        TEXT NOT NULL DEFAULT '',
		summary     TEXT NOT NULL DEFAULT '',
		visible     INTEGER NOT NULL DEFAULT 1,
		visibleold  INTEGER NOT NULL DEFAULT 1,
		collapsed   INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE(course_id, section)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sections_parent ON course_sections(parent_id)`,

	`CREATE TABLE IF NOT EXISTS course_modules (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		course_id    INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		section_id   INTEGER NOT NULL REFERENCES course_sections(id) ON DELETE CASCADE,
		modname      TEXT NOT NULL,
		name         TEXT NOT NULL,
		url          TEXT NOT NULL DEFAULT '',
		visible      INTEGER NOT NULL DEFAULT 1,
		uservisible  INTEGER NOT NULL DEFAULT 1,
		stealth      INTEGER NOT NULL DEFAULT 0,
		tracking     TEXT NOT NULL DEFAULT 'none'
		             CHECK(tracking IN ('none','manual','automatic')),
		purpose      TEXT NOT NULL DEFAULT 'other',
		fields       TEXT NOT NULL DEFAULT '{}',
		order_index  INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_modules_section ON course_modules(section_id)`,

	`CREATE TABLE IF NOT EXISTS module_completions (
		module_id  INTEGER NOT NULL REFERENCES course_modules(id) ON DELETE CASCADE,
		user_id    INTEGER NOT NULL,
		state      TEXT NOT NULL DEFAULT 'incomplete'
		           CHECK(state IN ('incomplete','complete','complete_pass','complete_fail')),
		updated_at TEXT NOT NULL,
		PRIMARY KEY (module_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS course_teachers (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		course_id  INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		fullname   TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		picture    TEXT NOT NULL DEFAULT '',
		fields     TEXT NOT NULL DEFAULT '{}',
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS course_fields (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		course_id   INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		category_id INTEGER NOT NULL,
		category    TEXT NOT NULL,
		shortname   TEXT NOT NULL,
		name        TEXT NOT NULL,
		value       TEXT NOT NULL DEFAULT '',
		sortorder   INTEGER NOT NULL DEFAULT 0,
		UNIQUE(course_id, shortname)
	)`,

	`CREATE TABLE IF NOT EXISTS files (
		id           TEXT PRIMARY KEY,
		context_id   INTEGER NOT NULL,
		component    TEXT NOT NULL,
		filearea     TEXT NOT NULL,
		itemid       INTEGER NOT NULL,
		filepath     TEXT NOT NULL DEFAULT '/',
		filename     TEXT NOT NULL,
		mimetype     TEXT NOT NULL DEFAULT '',
		contenthash  TEXT NOT NULL,
		filesize     INTEGER NOT NULL DEFAULT 0,
		content      BLOB,
		created_at   TEXT NOT NULL,
		UNIQUE(context_id, component, filearea, itemid, filepath, filename)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_files_area ON files(context_id, component, filearea, itemid)`,
}
