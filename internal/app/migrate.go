package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/config"
	"github.com/DavidEGx/carcassonne-spain-telegram-bot/internal/platform/logging"
)

var defaultMigrationDirs = []string{"./db/migrations", "/app/db/migrations"}

// Migrator applies the outcome ledger schema.
type Migrator struct {
	m      *migrate.Migrate
	source string
	logger *logging.Logger
}

// NewMigrator opens the migration source in dir, or the first default
// directory that exists when dir is empty.
func NewMigrator(cfg config.Config, dir string, logger *logging.Logger) (*Migrator, error) {
	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is required")
	}
	resolved, err := resolveMigrationsDir(dir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Default()
	}

	source := "file://" + filepath.ToSlash(resolved)
	m, err := migrate.New(source, normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Migrator{m: m, source: source, logger: logger}, nil
}

func (m *Migrator) Up() error {
	if err := ignoreNoChange(m.m.Up()); err != nil {
		return err
	}
	m.logger.Info("migrations applied", "source", m.source)
	return nil
}

func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("down steps must be > 0, got %d", steps)
	}
	if err := ignoreNoChange(m.m.Steps(-steps)); err != nil {
		return err
	}
	m.logger.Info("migrations rolled back", "steps", steps)
	return nil
}

// Version reports the applied version; ok is false before the first migration.
func (m *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("read version: %w", err)
	}
	return version, dirty, true, nil
}

func (m *Migrator) Force(version int) error {
	if version < 0 {
		return fmt.Errorf("version must be >= 0, got %d", version)
	}
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	m.logger.Info("migration version forced", "version", version)
	return nil
}

func (m *Migrator) Close() {
	srcErr, dbErr := m.m.Close()
	if srcErr != nil {
		m.logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		m.logger.Warn("close migration db", "error", dbErr)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func resolveMigrationsDir(dir string) (string, error) {
	candidates := defaultMigrationDirs
	if dir != "" {
		candidates = []string{dir}
	}
	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found in %v", candidates)
}
