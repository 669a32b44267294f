package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-request-ledger/internal/domain"
)

// newTestDB opens a fresh migrated SQLite database in a per-test temp dir.
// It goes through OpenSQLite so the tests run with the same PRAGMAs as
// production (foreign_keys in particular).
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), fmt.Sprintf("ledger_test_%d.db", time.Now().UnixNano()))
	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedUser inserts a bare user row for FK purposes.
func seedUser(t *testing.T, db *gorm.DB, id int64) {
	t.Helper()
	if _, err := CreateUser(context.Background(), db, id, nil, nil); err != nil {
		t.Fatalf("seed user %d: %v", id, err)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	// Second run must not error and must not lose data.
	seedUser(t, db, 1)
	if _, err := CreateRequest(context.Background(), db, 1, true, 100); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var n int64
	if err := db.Model(&domain.Request{}).Count(&n).Error; err != nil {
		t.Fatalf("count after re-migrate: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 surviving request, got %d", n)
	}
}

func TestDrop_RemovesBothTables(t *testing.T) {
	db := newTestDB(t)

	if err := Drop(db); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if db.Migrator().HasTable(&domain.User{}) || db.Migrator().HasTable(&domain.Request{}) {
		t.Fatalf("tables still present after Drop")
	}

	// A fresh Migrate must bring the schema back.
	if err := Migrate(db); err != nil {
		t.Fatalf("re-migrate after drop: %v", err)
	}
	seedUser(t, db, 7)
}

func TestDeleteUser_CascadesToRequests(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedUser(t, db, 1)
	seedUser(t, db, 2)
	for _, msg := range []int64{10, 11} {
		if _, err := CreateRequest(ctx, db, 1, true, msg); err != nil {
			t.Fatalf("request %d: %v", msg, err)
		}
	}
	if _, err := CreateRequest(ctx, db, 2, false, 12); err != nil {
		t.Fatalf("request 12: %v", err)
	}

	if err := DeleteUser(ctx, db, 1); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	var n int64
	if err := db.Model(&domain.Request{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only user 2's request to survive, got %d rows", n)
	}
	if _, err := GetRequest(ctx, db, 2, 12); err != nil {
		t.Fatalf("unrelated request lost: %v", err)
	}
}

func TestMigrate_ForeignKeyConstrainsRequestsNotUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// A user row must insert cleanly into an empty schema: the FK lives on
	// requests and references users, so users has no outward dependency.
	if _, err := CreateUser(ctx, db, 1, nil, nil); err != nil {
		t.Fatalf("user insert on fresh schema: %v", err)
	}

	// The constraint binds the other side: a request for an unregistered
	// user must be rejected.
	if _, err := CreateRequest(ctx, db, 999, true, 1); err == nil {
		t.Fatalf("expected FK rejection for request with unknown user")
	}
	if _, err := CreateRequest(ctx, db, 1, true, 2); err != nil {
		t.Fatalf("request for registered user: %v", err)
	}
}

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "no", "such", "dir.db")); err == nil {
		t.Fatalf("expected error for missing parent directory")
	}
}
