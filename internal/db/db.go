package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory course store.
const MemoryPath = ":memory:"

// busyTimeoutMS lets concurrent mawang processes wait on each other's
// writes instead of failing with SQLITE_BUSY.
const busyTimeoutMS = 5000

// OpenDB opens the course store at path and runs migrations.
//
// Pragmas are set on the DSN so that every pooled connection enforces
// foreign keys; file stores also use WAL and a busy timeout. The in-memory
// store is pinned to one connection so every caller sees the same schema.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == MemoryPath
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path, memory))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}

func dsn(path string, memory bool) string {
	pragmas := []string{"foreign_keys(1)"}
	if !memory {
		pragmas = append(pragmas, "journal_mode(WAL)", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	}
	return path + "?_pragma=" + strings.Join(pragmas, "&_pragma=")
}
