package database

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/peytons-picks/internal/config"
)

// SetupTestDB creates a test database connection, applies the schema and
// verifies connectivity. Tests that need Postgres should call this and skip
// when the test config is absent.
func SetupTestDB(t *testing.T) *DB {
	cfg, err := config.Load("../../config/config.yaml.test")
	if err != nil {
		t.Skipf("test database config unavailable: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to initialize test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
