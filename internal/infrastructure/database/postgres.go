package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kunalkv2000/reset-password/internal/infrastructure/repositories"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates a new relational database connection for the given driver
// ("postgres" or "sqlite"). gorm's warnings go to log at Warn level; a nil log
// uses slog.Default().
func Open(driver, dsn string, log *slog.Logger) (*gorm.DB, error) {
	if log == nil {
		log = slog.Default()
	}
	config := &gorm.Config{
		TranslateError: true,
		Logger: logger.New(
			slog.NewLogLogger(log.With(slog.String("component", "gorm")).Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}

	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), config)
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), config)
	default:
		return nil, fmt.Errorf("unsupported relational driver %q", driver)
	}
}

// AutoMigrate creates or updates the users table
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBUser{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}
