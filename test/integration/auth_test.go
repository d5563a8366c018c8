package integration_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio_backend/internal/config"
	"folio_backend/internal/repositories"
)

func TestRegisterThenMe(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	token := ts.RegisterAndLogin(t, "alice", "correct horse")

	res, body := ts.SendRequest(t, http.MethodGet, "/user/me", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var me struct {
		SessionID string `json:"session_id"`
	}
	mustJSON(t, body, &me)
	assert.Equal(t, token, me.SessionID)
}

func TestRegisterWeakPassword(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/user/register", "", map[string]string{
		"username":  "bob",
		"password":  "short",
		"password2": "short",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "PasswordTooShort", errorKind(t, body))
}

func TestRegisterValidation(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	cases := []struct {
		name     string
		username string
		password string
		repeated string
		wantKind string
	}{
		{"short username", "ab", "a strong password", "a strong password", "UsernameTooShort"},
		{"mismatched passwords", "carol", "a strong password", "another password!", "PasswordsDontMatch"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, body := ts.SendRequest(t, http.MethodPost, "/user/register", "", map[string]string{
				"username":  tc.username,
				"password":  tc.password,
				"password2": tc.repeated,
			})
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.Equal(t, tc.wantKind, errorKind(t, body))
		})
	}
}

func TestRegisterUsernameTaken(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ts.RegisterAndLogin(t, "dave", "a strong password")

	res, body := ts.SendRequest(t, http.MethodPost, "/user/register", "", map[string]string{
		"username":  "dave",
		"password":  "a strong password",
		"password2": "a strong password",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "UsernameTaken", errorKind(t, body))
}

func TestLogin(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ts.RegisterAndLogin(t, "erin", "a strong password")

	res, body := ts.SendRequest(t, http.MethodPost, "/user/login", "", map[string]string{
		"username": "erin",
		"password": "a strong password",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var resp struct {
		SessionID string `json:"session_id"`
	}
	mustJSON(t, body, &resp)
	assert.NotEmpty(t, resp.SessionID)
}

func TestLoginBadCredentials(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	ts.RegisterAndLogin(t, "frank", "a strong password")

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "frank", "not the password"},
		{"unknown user", "nobody", "a strong password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, body := ts.SendRequest(t, http.MethodPost, "/user/login", "", map[string]string{
				"username": tc.username,
				"password": tc.password,
			})
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.Equal(t, "InvalidCredentials", errorKind(t, body))
		})
	}
}

func TestSessionErrors(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/user/me", "", nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "MissingSession", errorKind(t, body))

	res, body = ts.SendRequest(t, http.MethodGet, "/user/me", "00000000-0000-4000-8000-000000000000", nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "InvalidSession", errorKind(t, body))
}

func TestExpiredSessionRejected(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	token := ts.RegisterAndLogin(t, "grace", "a strong password")

	// Age the session past the expiration window instead of waiting for
	// real time to pass.
	err := ts.DB.Exec("UPDATE sessions SET created_at = created_at - 10000000 WHERE uuid = ?", token).Error
	require.NoError(t, err)

	res, body := ts.SendRequest(t, http.MethodGet, "/user/me", token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "InvalidSession", errorKind(t, body))
}

func TestExpiredSessionSweep(t *testing.T) {
	ts := GetTestServer(t)
	ts.ClearTables(t)

	stale := ts.RegisterAndLogin(t, "grace", "a strong password")
	fresh := ts.RegisterAndLogin(t, "heidi", "a strong password")

	err := ts.DB.Exec("UPDATE sessions SET created_at = created_at - 10000000 WHERE uuid = ?", stale).Error
	require.NoError(t, err)

	// The sweep the background worker runs each tick.
	cutoff := time.Now().Unix() - config.GetConfig().Auth.SessionExpirationSeconds
	deleted, err := repositories.NewUserRepository().DeleteExpiredSessions(ts.DB, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var count int64
	require.NoError(t, ts.DB.Raw("SELECT COUNT(*) FROM sessions WHERE uuid = ?", stale).Scan(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, ts.DB.Raw("SELECT COUNT(*) FROM sessions WHERE uuid = ?", fresh).Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}
