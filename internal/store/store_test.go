// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"sync"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"ocapi/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "ocapi")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "ocapi")
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

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// recordingNotifier captures invalidation calls for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]string
}

func (n *recordingNotifier) Invalidate(namespaces ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, namespaces)
}

func (n *recordingNotifier) lastCall() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.calls) == 0 {
		return nil
	}
	return n.calls[len(n.calls)-1]
}

// cleanCategory removes a test category and every row it owns.
// Call in t.Cleanup().
func cleanCategory(t *testing.T, db *sql.DB, id int64) {
	t.Helper()
	for _, table := range ownedCategoryTables {
		db.Exec("DELETE FROM "+table+" WHERE category_id = $1", id)
	}
}

// cleanProduct removes a test product and every row it owns.
// Call in t.Cleanup().
func cleanProduct(t *testing.T, db *sql.DB, id int64) {
	t.Helper()
	db.Exec("DELETE FROM oc_product_related WHERE product_id = $1 OR related_id = $1", id)
	for _, table := range productChildTables {
		db.Exec("DELETE FROM "+table+" WHERE product_id = $1", id)
	}
}

// cleanCustomers removes test customers (and their addresses) by email.
// Call in t.Cleanup().
func cleanCustomers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec(`DELETE FROM oc_address WHERE customer_id IN
			(SELECT customer_id FROM oc_customer WHERE LOWER(email) = LOWER($1))`, email)
		db.Exec("DELETE FROM oc_customer WHERE LOWER(email) = LOWER($1)", email)
	}
}

// cleanArticle removes a test article with comments and descriptions.
// Call in t.Cleanup().
func cleanArticle(t *testing.T, db *sql.DB, id int64) {
	t.Helper()
	db.Exec("DELETE FROM oc_article_comment WHERE article_id = $1", id)
	db.Exec("DELETE FROM oc_article_description WHERE article_id = $1", id)
	db.Exec("DELETE FROM oc_article WHERE article_id = $1", id)
}

// cleanApiKeys removes test API keys by username. Call in t.Cleanup().
func cleanApiKeys(t *testing.T, db *sql.DB, usernames ...string) {
	t.Helper()
	for _, username := range usernames {
		db.Exec(`DELETE FROM oc_api_ip WHERE api_id IN
			(SELECT api_id FROM oc_api WHERE username = $1)`, username)
		db.Exec(`DELETE FROM oc_api_history WHERE api_id IN
			(SELECT api_id FROM oc_api WHERE username = $1)`, username)
		db.Exec("DELETE FROM oc_api WHERE username = $1", username)
	}
}
