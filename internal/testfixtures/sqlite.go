package testfixtures

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"campus/spacehub/internal/config"
	"campus/spacehub/internal/model"
	"campus/spacehub/internal/repository"
)

// SQLiteHarness exposes real gorm repositories over a migrated temporary database.
type SQLiteHarness struct {
	DB           *gorm.DB
	Repositories repository.Repositories
	UnitOfWork   repository.UnitOfWork
}

// NewSQLiteHarness opens a fresh database under tb.TempDir and closes it on cleanup.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "spacehub.db")
	db, err := config.NewSQLiteDB(config.SQLiteConfig{Path: path, BusyTimeout: 5 * time.Second}, config.GormConfig(gormlogger.Silent))
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		tb.Fatalf("failed to migrate: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &SQLiteHarness{
		DB:           db,
		Repositories: repository.NewPGRepositories(db),
		UnitOfWork:   repository.NewPGUnitOfWork(db),
	}
}
