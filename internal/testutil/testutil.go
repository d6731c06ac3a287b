package testutil

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/nerdnum/accounts-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestDatabase holds test database connection (in-memory SQLite)
type TestDatabase struct {
	DB  *gorm.DB
	DSN string
}

// TestRedis holds test Redis mock (miniredis)
type TestRedis struct {
	Server *miniredis.Miniredis
	Addr   string
}

// SetupTestDatabase creates an in-memory SQLite database for integration
// tests, with the same join-table setup and error translation as production.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	dsn := "file::memory:?cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.SetupJoinTable(&models.User{}, "Roles", &models.UserRoleAssociation{}); err != nil {
		t.Fatalf("Failed to set up join table: %v", err)
	}
	if err := db.SetupJoinTable(&models.Role{}, "Users", &models.UserRoleAssociation{}); err != nil {
		t.Fatalf("Failed to set up join table: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.Role{}, &models.UserRoleAssociation{})
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDatabase{
		DB:  db,
		DSN: dsn,
	}
}

// Teardown cleans up the test database (closes connection)
func (td *TestDatabase) Teardown(t *testing.T) {
	sqlDB, err := td.DB.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}

// CleanDatabase deletes all records from tables (for test isolation).
// Associations go first to respect foreign keys.
func CleanDatabase(t *testing.T, db *gorm.DB) {
	tables := []string{"user_role_associations", "users", "roles"}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("Warning: Failed to clean table %s: %v", table, err)
		}
		// Reset autoincrement counters so fixture ids are predictable.
		db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
	}
}

// SetupTestRedis creates an in-memory Redis mock (miniredis)
func SetupTestRedis(t *testing.T) *TestRedis {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	return &TestRedis{
		Server: server,
		Addr:   server.Addr(),
	}
}

// Teardown cleans up the test Redis mock
func (tr *TestRedis) Teardown(t *testing.T) {
	tr.Server.Close()
}
