package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"folio_backend/database"
	"folio_backend/internal/app"
	"folio_backend/internal/config"
	"folio_backend/internal/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestServer runs the full HTTP stack against a real database. Tests that
// need it are skipped when DATABASE_URL is not set.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
}

func NewTestServer(t *testing.T) *TestServer {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	config.LoadConfig()
	cfg := config.GetConfig()
	logger.Init(cfg.Server.Env)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("connecting to test database failed: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrating test database failed: %v", err)
	}

	server := httptest.NewServer(app.SetupRouter(cfg, db))
	return &TestServer{Server: server, DB: db}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	if sqlDB, err := ts.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// ClearTables wipes all rows, children before parents.
func (ts *TestServer) ClearTables(t *testing.T) {
	tables := []string{
		"big_file_parts",
		"work_attachments",
		"work_links",
		"work_tags",
		"works_in_categories",
		"categories",
		"portfolio_rights",
		"portfolios",
		"work_rights",
		"works",
		"sessions",
		"users",
	}
	for _, table := range tables {
		if err := ts.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clearing table %s failed: %v", table, err)
		}
	}
}

// SendRequest performs one API call and returns the response plus its body
// as a string.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body failed: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("building request failed: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("sending request failed: %v", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("reading response body failed: %v", err)
	}
	return res, string(resBody)
}

// RegisterAndLogin creates an account through the API and returns its
// session token.
func (ts *TestServer) RegisterAndLogin(t *testing.T, username, password string) string {
	res, body := ts.SendRequest(t, http.MethodPost, "/user/register", "", map[string]string{
		"username":  username,
		"password":  password,
		"password2": password,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("registering %s failed with status %d: %s", username, res.StatusCode, body)
	}

	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decoding register response failed: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("register returned an empty session_id")
	}
	return resp.SessionID
}
