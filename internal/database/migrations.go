package database

import (
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrate applies any pending goose migrations from dir. The schema must be
// current before repositories are constructed, so this runs once at startup.
func (s *Service) Migrate(dir string, log *zap.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	log.Info("Applying pending migrations", zap.String("dir", dir))

	if err := goose.Up(s.db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info("Database schema is up to date")
	return nil
}
