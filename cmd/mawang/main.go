package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/mawang/internal/app"
	"github.com/alexanderramin/mawang/internal/cache"
	"github.com/alexanderramin/mawang/internal/cli"
	"github.com/alexanderramin/mawang/internal/config"
	"github.com/alexanderramin/mawang/internal/db"
	"github.com/alexanderramin/mawang/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.mawang/mawang.db
	dbPath := os.Getenv("MAWANG_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".mawang", "mawang.db")
	}

	settings, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	opts := app.Options{Logger: logger}

	// Share the video index between processes when Redis is configured.
	if settings.RedisAddr != "" {
		rc, err := cache.NewRedis(context.Background(), settings.RedisAddr, settings.VideoCacheTTL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rc.Close()
		opts.Cache = rc
	}
	if os.Getenv("MAWANG_LOG_USECASES") != "" {
		opts.Observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	uc, err := app.Build(database, settings, opts)
	if err != nil {
		return err
	}
	defer uc.Close()

	a := &cli.App{
		Courses:     uc.Courses,
		Sections:    uc.Sections,
		Completions: uc.Completions,
		Content:     uc.Content,
		Navigation:  uc.Navigation,
		Images:      uc.Images,
		Backups:     uc.Backups,
		Import:      uc.Import,
	}

	// Detect interactive terminal for the section edit form.
	a.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(a).Execute()
}
