// handler_test.go spins up the full router against a live database and
// drives it over HTTP. Tests are skipped if PostgreSQL is not available.
package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"ocapi/internal/database"
	"ocapi/internal/handlers"
	"ocapi/internal/router"
	"ocapi/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "ocapi")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "ocapi")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

// testServer builds the full router over a live database. The server and the
// connection are torn down with the test.
func testServer(t *testing.T) (*httptest.Server, *sql.DB) {
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
	goose.SetBaseFS(nil)

	categoryStore := store.NewCategoryStore(db, nil)
	productStore := store.NewProductStore(db, nil, 1, 0)
	customerStore := store.NewCustomerStore(db)
	articleStore := store.NewArticleStore(db, nil)
	apiKeyStore := store.NewApiKeyStore(db)

	r := router.New(customerStore, router.Handlers{
		Auth:       handlers.NewAuth(customerStore),
		Categories: handlers.NewCategories(categoryStore),
		Products:   handlers.NewProducts(productStore),
		Customers:  handlers.NewCustomers(customerStore),
		Articles:   handlers.NewArticles(articleStore),
		ApiKeys:    handlers.NewApiKeys(apiKeyStore),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		db.Close()
	})
	return srv, db
}

// doJSON sends a JSON request with an optional bearer token and decodes the
// JSON response body into out (when out is non-nil).
func doJSON(t *testing.T, method, url, token string, body any, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	var body map[string]string
	resp := doJSON(t, http.MethodGet, srv.URL+"/health", "", nil, &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Errorf("body: got %v", body)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	srv, db := testServer(t)
	email := "http-flow@example.com"
	t.Cleanup(func() {
		db.Exec("DELETE FROM oc_customer WHERE email = $1", email)
	})

	var reg struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/register", "", map[string]any{
		"firstname": "Flow",
		"email":     email,
		"password":  "secret1234",
	}, &reg)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: got %d, want 201", resp.StatusCode)
	}
	if reg.Token == "" {
		t.Fatal("register returned no token")
	}

	// Duplicate registration is a 400, not a conflict status.
	resp = doJSON(t, http.MethodPost, srv.URL+"/register", "", map[string]any{
		"firstname": "Flow",
		"email":     email,
		"password":  "secret1234",
	}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register status: got %d, want 400", resp.StatusCode)
	}

	// Bad credentials: generic 401.
	resp = doJSON(t, http.MethodPost, srv.URL+"/login", "", map[string]any{
		"email": email, "password": "wrong",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status: got %d, want 401", resp.StatusCode)
	}

	var login struct {
		Token string `json:"token"`
		User  struct {
			CustomerID int64  `json:"customer_id"`
			Email      string `json:"email"`
		} `json:"user"`
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/login", "", map[string]any{
		"email": email, "password": "secret1234",
	}, &login)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d, want 200", resp.StatusCode)
	}
	if login.Token == reg.Token {
		t.Error("login should rotate the token")
	}
	if login.User.Email != email {
		t.Errorf("profile email: got %q, want %q", login.User.Email, email)
	}

	// The token opens the protected customer routes.
	resp = doJSON(t, http.MethodGet, srv.URL+"/customers", login.Token, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("authed /customers: got %d, want 200", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := testServer(t)

	for _, path := range []string{"/customers", "/apis", "/addresses/1"} {
		resp := doJSON(t, http.MethodGet, srv.URL+path, "", nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without token: got %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestCategoryEndpoints(t *testing.T) {
	srv, db := testServer(t)

	var created struct {
		CategoryID int64 `json:"category_id"`
		Status     int   `json:"status"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/categories", "", map[string]any{
		"description": map[string]any{"name": "HTTP Test Category"},
	}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: got %d, want 201", resp.StatusCode)
	}
	// An omitted status defaults to enabled and is echoed as stored.
	if created.Status != 1 {
		t.Errorf("created status: got %d, want 1", created.Status)
	}
	t.Cleanup(func() {
		for _, table := range []string{
			"oc_category_path", "oc_category_description", "oc_category",
		} {
			db.Exec("DELETE FROM "+table+" WHERE category_id = $1", created.CategoryID)
		}
	})

	// Missing name is a 400.
	resp = doJSON(t, http.MethodPost, srv.URL+"/categories", "", map[string]any{}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("create without name: got %d, want 400", resp.StatusCode)
	}

	// Missing parent is a 404.
	resp = doJSON(t, http.MethodPost, srv.URL+"/categories", "", map[string]any{
		"category":    map[string]any{"parent_id": 999999999},
		"description": map[string]any{"name": "Orphan"},
	}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("create under missing parent: got %d, want 404", resp.StatusCode)
	}

	var got struct {
		CategoryID  int64 `json:"category_id"`
		Description *struct {
			Name string `json:"name"`
		} `json:"description"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/categories/"+itoa(created.CategoryID), "", nil, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status: got %d, want 200", resp.StatusCode)
	}
	if got.Description == nil || got.Description.Name != "HTTP Test Category" {
		t.Errorf("get body: %+v", got)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/categories/"+itoa(created.CategoryID), "", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete status: got %d, want 200", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/categories/"+itoa(created.CategoryID), "", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("double delete status: got %d, want 404", resp.StatusCode)
	}
}

func TestProductNoCacheHeaders(t *testing.T) {
	srv, _ := testServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/products", "", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: got %d, want 200", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store, no-cache, must-revalidate" {
		t.Errorf("Cache-Control: got %q", cc)
	}
	if resp.Header.Get("Pragma") != "no-cache" {
		t.Error("Pragma header missing")
	}
}

func TestBadRequests(t *testing.T) {
	srv, _ := testServer(t)

	// Malformed JSON body.
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/categories", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body: got %d, want 400", resp.StatusCode)
	}

	// Non-numeric id can never name a resource.
	resp = doJSON(t, http.MethodGet, srv.URL+"/products/abc", "", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("non-numeric id: got %d, want 404", resp.StatusCode)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
