package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesAccountAndIssuesToken(t *testing.T) {
	app, _, _ := newTestServer(t, nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "SecurePass12!@",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %v", body)

	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")

	// The issued token must authenticate /me.
	resp, body = doJSON(t, app, http.MethodGet, "/api/auth/me", nil, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["username"])
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"missing password", "alice", ""},
		{"missing username", "", "SecurePass12!@"},
		{"weak password", "alice", "short"},
		{"password without special char", "alice", "SecurePass1234"},
		{"username too short", "ab", "SecurePass12!@"},
		{"username with spaces", "bad name", "SecurePass12!@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, _ := newTestServer(t, nil)
			resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
				"username": tt.username,
				"password": tt.password,
			}, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "VALIDATION_ERROR", body["code"])
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	app, _, _ := newTestServer(t, nil)
	registerUser(t, app, "alice")

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "SecurePass12!@",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Username already taken", body["error"])
}

func TestLogin_Succeeds(t *testing.T) {
	app, _, _ := newTestServer(t, nil)
	registerUser(t, app, "alice")

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "SecurePass12!@",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %v", body)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "alice", body["user"].(map[string]any)["username"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app, _, _ := newTestServer(t, nil)
	registerUser(t, app, "alice")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "WrongPass12!@"},
		{"unknown user", "nobody", "SecurePass12!@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
				"username": tt.username,
				"password": tt.password,
			}, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			// Identical message for both failure modes.
			assert.Equal(t, "Invalid credentials", body["error"])
		})
	}
}

func TestMe_RequiresValidToken(t *testing.T) {
	app, _, _ := newTestServer(t, nil)
	tok, _ := registerUser(t, app, "alice")

	resp, _ := doJSON(t, app, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Flip a character in the signature part of the token.
	tampered := []byte(tok)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}
	resp, _ = doJSON(t, app, http.MethodGet, "/api/auth/me", nil, string(tampered))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
