package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"devmasters/models"
)

// Open connects to PostgreSQL and migrates the projects table.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	return OpenDialector(postgres.Open(dsn), log)
}

// OpenDialector is Open for any gorm dialector. Unique index violations are
// translated to gorm.ErrDuplicatedKey.
func OpenDialector(dialector gorm.Dialector, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(log),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&models.Project{}); err != nil {
		return nil, fmt.Errorf("migrate projects: %w", err)
	}

	log.Info("database ready", zap.String("dialect", dialector.Name()))
	return db, nil
}

func newLogger(log *zap.Logger) logger.Interface {
	level := logger.Warn
	if log.Core().Enabled(zap.DebugLevel) {
		level = logger.Info
	}
	return logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
