package database

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/camden-git/yearbookbackend/logging"
	"github.com/camden-git/yearbookbackend/models"
)

// InitGormDB initializes and returns a GORM database instance. Foreign keys
// are switched on for every pooled connection so person deletes cascade.
func InitGormDB(dataSourceName string, log *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		logging.StdLog(log, "gorm"),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(withSQLiteOptions(dataSourceName)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if isMemoryDSN(dataSourceName) {
		// shared-cache memory databases report table locks instead of waiting
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		// enable write-ahead logging for file databases
		if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
			log.Warn("failed to set WAL mode", zap.Error(err))
		}
	}

	log.Info("database initialized", zap.String("dsn", dataSourceName))
	return db, nil
}

// AutoMigrateModels migrates the schema for every model the service stores.
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Person{},
		&models.Comment{},
		&models.GalleryState{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}
	return nil
}

// Open is InitGormDB followed by AutoMigrateModels.
func Open(dataSourceName string, log *zap.Logger) (*gorm.DB, error) {
	db, err := InitGormDB(dataSourceName, log)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrateModels(db); err != nil {
		Close(db)
		return nil, err
	}
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func withSQLiteOptions(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.Contains(dsn, "_foreign_keys") && !strings.Contains(dsn, "_fk") {
		dsn += sep + "_foreign_keys=on"
		sep = "&"
	}
	if !strings.Contains(dsn, "_busy_timeout") {
		dsn += sep + "_busy_timeout=5000"
	}
	return dsn
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}
