package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/models"
)

var DB *gorm.DB

// Connect opens the postgres pool. TranslateError is on so unique violations
// surface as gorm.ErrDuplicatedKey.
func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate for every table the server owns. The spots table is
// only created when postgres backs the spot store.
func Migrate(withSpots bool) error {
	tables := []interface{}{
		&models.User{},
		&models.RefreshToken{},
		&models.Review{},
		&models.Tag{},
		&models.SystemLog{},
	}
	if withSpots {
		tables = append(tables, &models.Spot{})
	}
	return DB.AutoMigrate(tables...)
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
