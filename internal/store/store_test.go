// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"inkwell/internal/clock"
	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// uniq returns prefix with a short random suffix so parallel runs and
// seeded data never collide.
func uniq(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// testAuthor creates a throwaway user and removes it (and its articles) when
// the test finishes.
func testAuthor(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()
	email := uniq("author") + "@store-test.local"
	u, err := NewUserStore(db).Create(context.Background(), email, "pass", "Test "+string(role), role)
	if err != nil {
		t.Fatalf("create test author: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// testCategory creates a throwaway category and removes it when the test
// finishes.
func testCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()
	name := uniq("Category")
	c, err := NewCategoryStore(db, nil).Create(context.Background(), &models.Category{Name: name})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

// testCategoryStore returns a CategoryStore driven by a fixed clock.
func testCategoryStore(db *sql.DB, now time.Time) (*CategoryStore, *clock.Fixed) {
	clk := clock.NewFixed(now)
	return NewCategoryStore(db, clk), clk
}

// testArticleStore returns an ArticleStore driven by a fixed clock.
func testArticleStore(db *sql.DB, now time.Time) (*ArticleStore, *clock.Fixed) {
	clk := clock.NewFixed(now)
	return NewArticleStore(db, clk, time.UTC), clk
}
