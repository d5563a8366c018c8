package integration_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type portfolioBody struct {
	ID          int32  `json:"id"`
	CreatedAt   int64  `json:"created_at"`
	PublishedAt *int64 `json:"published_at"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Categories  []struct {
		ID        int32    `json:"id"`
		Title     string   `json:"title"`
		WorkSlugs []string `json:"work_slugs"`
	} `json:"categories"`
}

func TestPortfolioCreateAndGet(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	token := ts.RegisterAndLogin(t, "alice", "a strong password")
	createWork(t, ts, token, "my-game")

	res, body := ts.SendRequest(t, http.MethodPost, "/portfolio/showcase", token,
		savePortfolio(false, "showcase", "My Showcase", []map[string]interface{}{
			{"title": "Games", "work_slugs": []string{"my-game"}},
		}))
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var created portfolioBody
	mustJSON(t, body, &created)
	assert.NotZero(t, created.ID)
	assert.NotZero(t, created.CreatedAt)
	assert.Nil(t, created.PublishedAt)
	assert.Equal(t, "showcase", created.Slug)
	require.Len(t, created.Categories, 1)
	assert.Equal(t, "Games", created.Categories[0].Title)
	assert.Equal(t, []string{"my-game"}, created.Categories[0].WorkSlugs)

	res, body = ts.SendRequest(t, http.MethodGet, "/portfolio/showcase", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var fetched portfolioBody
	mustJSON(t, body, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	require.Len(t, fetched.Categories, 1)
	assert.Equal(t, []string{"my-game"}, fetched.Categories[0].WorkSlugs)
}

func TestPublishedPortfolioVisibleToPublic(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	token := ts.RegisterAndLogin(t, "alice", "a strong password")
	createWork(t, ts, token, "public-game")

	res, body := ts.SendRequest(t, http.MethodPost, "/portfolio/public-folio", token,
		savePortfolio(true, "public-folio", "Public", []map[string]interface{}{
			{"title": "All", "work_slugs": []string{"public-game"}},
		}))
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/portfolio/private-folio", token,
		savePortfolio(false, "private-folio", "Private", nil))
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	// Anonymous reads.
	res, _ = ts.SendRequest(t, http.MethodGet, "/portfolio/public-folio", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/work/public-game", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/portfolio/private-folio", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "NoSuchSlug", errorKind(t, body))
}

func TestPortfolioListOwned(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	alice := ts.RegisterAndLogin(t, "alice", "a strong password")
	bob := ts.RegisterAndLogin(t, "bob00", "a strong password")

	res, body := ts.SendRequest(t, http.MethodPost, "/portfolio/alices", alice,
		savePortfolio(false, "alices", "Alice's", nil))
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/portfolio", bob, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var bobsList []portfolioBody
	mustJSON(t, body, &bobsList)
	assert.Empty(t, bobsList)

	res, body = ts.SendRequest(t, http.MethodGet, "/portfolio", alice, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var alicesList []portfolioBody
	mustJSON(t, body, &alicesList)
	require.Len(t, alicesList, 1)
	assert.Equal(t, "alices", alicesList[0].Slug)
}

func TestPortfolioUpdate(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	token := ts.RegisterAndLogin(t, "alice", "a strong password")
	createWork(t, ts, token, "game-a")
	createWork(t, ts, token, "game-b")

	res, body := ts.SendRequest(t, http.MethodPost, "/portfolio/original", token,
		savePortfolio(false, "original", "Original", []map[string]interface{}{
			{"title": "Old", "work_slugs": []string{"game-a"}},
		}))
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	// Rename the slug, publish, and swap the categories wholesale.
	res, body = ts.SendRequest(t, http.MethodPut, "/portfolio/original", token,
		savePortfolio(true, "renamed", "Renamed", []map[string]interface{}{
			{"title": "New", "work_slugs": []string{"game-a", "game-b"}},
		}))
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var updated portfolioBody
	mustJSON(t, body, &updated)
	assert.Equal(t, "renamed", updated.Slug)
	assert.NotNil(t, updated.PublishedAt)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "New", updated.Categories[0].Title)
	assert.ElementsMatch(t, []string{"game-a", "game-b"}, updated.Categories[0].WorkSlugs)

	res, body = ts.SendRequest(t, http.MethodGet, "/portfolio/original", token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "NoSuchSlug", errorKind(t, body))
}

func TestPortfolioUpdateNotOwner(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	alice := ts.RegisterAndLogin(t, "alice", "a strong password")
	bob := ts.RegisterAndLogin(t, "bob00", "a strong password")

	res, body := ts.SendRequest(t, http.MethodPost, "/portfolio/alices", alice,
		savePortfolio(false, "alices", "Alice's", nil))
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	// A non-owner gets the same answer as an absent slug.
	res, body = ts.SendRequest(t, http.MethodPut, "/portfolio/alices", bob,
		savePortfolio(false, "alices", "Bob's now", nil))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "NoSuchSlug", errorKind(t, body))
}

func TestPortfolioSlugTaken(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	token := ts.RegisterAndLogin(t, "alice", "a strong password")

	res, body := ts.SendRequest(t, http.MethodPost, "/portfolio/taken", token,
		savePortfolio(false, "taken", "First", nil))
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/portfolio/taken", token,
		savePortfolio(false, "taken", "Second", nil))
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "SlugTaken", errorKind(t, body))
}
