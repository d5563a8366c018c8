package integration_test

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"testing"

	"folio_backend/test/helpers"
)

var (
	globalTestServer *helpers.TestServer
	serverOnce       sync.Once
)

// GetTestServer returns the shared test server, starting it on first use.
func GetTestServer(t *testing.T) *helpers.TestServer {
	serverOnce.Do(func() {
		os.Setenv("SERVER_ENV", "test")
		globalTestServer = helpers.NewTestServer(t)
	})
	if globalTestServer == nil {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	return globalTestServer
}

func TestMain(m *testing.M) {
	code := m.Run()
	if globalTestServer != nil {
		globalTestServer.Close()
	}
	os.Exit(code)
}

// errorKind pulls the enumerated kind out of an error envelope.
func errorKind(t *testing.T, body string) string {
	t.Helper()
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		t.Fatalf("decoding error envelope from %q failed: %v", body, err)
	}
	return envelope.Error
}

// mustJSON decodes a response body into out.
func mustJSON(t *testing.T, body string, out interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), out); err != nil {
		t.Fatalf("decoding response %q failed: %v", body, err)
	}
}

// savePortfolio is the request body shape shared by create and update.
func savePortfolio(publish bool, slug, title string, categories []map[string]interface{}) map[string]interface{} {
	if categories == nil {
		categories = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"publish": publish,
		"portfolio": map[string]interface{}{
			"slug":       slug,
			"title":      title,
			"subtitle":   "a subtitle",
			"author":     "an author",
			"categories": categories,
		},
	}
}

// saveWork is a minimal full-work request body.
func saveWork(slug, title string, tags []string) map[string]interface{} {
	tagObjs := make([]map[string]string, 0, len(tags))
	for _, tag := range tags {
		tagObjs = append(tagObjs, map[string]string{"tag": tag})
	}
	return map[string]interface{}{
		"slug":              slug,
		"title":             title,
		"short_description": "short",
		"long_description":  "long",
		"attachments":       []map[string]interface{}{},
		"links":             []map[string]interface{}{},
		"tags":              tagObjs,
	}
}

func createWork(t *testing.T, ts *helpers.TestServer, token, slug string) {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/work/"+slug, token, saveWork(slug, "Work "+slug, nil))
	if res.StatusCode != http.StatusOK {
		t.Fatalf("creating work %s failed with status %d: %s", slug, res.StatusCode, body)
	}
}
