package testutil

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/bramwell/claimsdesk-backend/internal/db"
	"github.com/bramwell/claimsdesk-backend/internal/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB opens a fresh in-memory database with the full schema migrated. Each
// call returns an isolated database, so tests never share state. Foreign key
// enforcement stays off so fixtures can seed partial object graphs.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(0)"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := conn.AutoMigrate(db.AllModels()...); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return conn
}
