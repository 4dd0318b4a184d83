// Package testutil provides the in-memory SQLite database and fixed clock
// shared by tests across the module; repository tests use the database,
// while service tests run against hand-written mocks instead.
package testutil

import (
	"fmt"
	"testing"

	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/middleware"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a fresh in-memory SQLite database, migrated with every
// domain model, private to the calling test. It runs on modernc.org/sqlite
// via glebarez/sqlite, gorm's pure-Go dialector, so tests need no cgo.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Agent{},
		&domain.Group{},
		&domain.GroupMember{},
		&domain.GroupPermissions{},
		&domain.PinnedMessage{},
		&domain.Message{},
		&domain.DirectMessage{},
		&domain.DMConversation{},
		&domain.AgentBlock{},
		&domain.Reaction{},
		&domain.Badge{},
		&domain.AgentBadge{},
		&middleware.AuditLog{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}
