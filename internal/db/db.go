package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"soccer-memo/config"
	"soccer-memo/internal/models"
)

// InitDatabase opens the configured database and migrates the schema.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		// foreign keys are off by default in sqlite
		dialector = sqlite.Open(cfg.SQLitePath + "?_pragma=foreign_keys(1)")
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	DB, err := Open(dialector)
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.Driver).Msg("database ready")
	return DB, nil
}

// Open connects through dialector and migrates the schema.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	DB, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(DB); err != nil {
		return nil, err
	}
	return DB, nil
}

func Migrate(DB *gorm.DB) error {
	err := DB.AutoMigrate(&models.League{}, &models.Club{}, &models.Player{}, &models.Match{})
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func Close(DB *gorm.DB) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
