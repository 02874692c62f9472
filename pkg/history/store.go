// Package history persists one record per harness dispatch in a local
// SQLite database, so "what did I run and how did it go" survives the
// terminal scrollback.
package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vpptest/pkg/log"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one recorded harness dispatch.
type Run struct {
	ID         string    `gorm:"primaryKey"`
	CreatedAt  time.Time `gorm:"index:idx_created_at"`
	Args       string    `gorm:"not null;default:''"` // accumulator as one string
	TestFilter string    `gorm:"default:''"`          // empty for the full suite
	ExitCode   int       `gorm:"not null;default:0"`
	DurationMS int64     `gorm:"not null;default:0"`
}

func (Run) TableName() string { return "runs" }

// Store wraps the GORM handle.
type Store struct {
	db *gorm.DB
}

// gormLogger bridges GORM's logging onto ours.
type gormLogger struct {
	logger log.Logger
	level  logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{logger: l.logger, level: level}
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		l.logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		l.logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		l.logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		sql, rows := fc()
		l.logger.Debug("history query failed",
			"error", err, "duration", time.Since(begin), "sql", sql, "rows", rows)
	}
}

// Open opens (and if needed creates) the history database at path.
// A leading ~ is expanded against the home directory.
func Open(path string, lg log.Logger) (*Store, error) {
	if lg == nil {
		lg = log.NewNop()
	}

	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  &gormLogger{logger: lg, level: logger.Silent},
	})
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")

	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("migrating history schema: %w", err)
	}

	return &Store{db: db}, nil
}

func expandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Record stores one run. An empty ID gets a fresh UUID.
func (s *Store) Record(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if err := s.db.Create(run).Error; err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	var runs []Run
	err := s.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Clear deletes all recorded runs.
func (s *Store) Clear() error {
	if err := s.db.Exec("DELETE FROM runs").Error; err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
