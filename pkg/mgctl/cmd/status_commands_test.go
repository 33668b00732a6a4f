package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatusBackend(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "version": "1.2.3"})
		case "/accounts":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"accounts": []map[string]any{
					{"name": "general", "provider": "smtp", "sender": "noreply@example.com", "default": true, "enabled": true},
					{"name": "broken", "provider": "ses", "enabled": false, "reason": "missing credentials"},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found", "message": "route not found: " + r.URL.Path})
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAccountsCommandTable(t *testing.T) {
	server := newStatusBackend(t)

	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Config{OutputWriter: buf})
	rootCmd.SetArgs([]string{"accounts", "--server", server.URL})
	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "general")
	assert.Contains(t, out, "noreply@example.com")
	assert.Contains(t, out, "missing credentials")
}

func TestAccountsCommandJSON(t *testing.T) {
	server := newStatusBackend(t)

	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Config{OutputWriter: buf})
	rootCmd.SetArgs([]string{"accounts", "--server", server.URL, "-o", "json"})
	require.NoError(t, rootCmd.Execute())

	var accounts []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &accounts))
	require.Len(t, accounts, 2)
	assert.Equal(t, "general", accounts[0]["name"])
}

func TestHealthCommand(t *testing.T) {
	server := newStatusBackend(t)

	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Config{OutputWriter: buf})
	rootCmd.SetArgs([]string{"health", "--server", server.URL})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "ok (server version 1.2.3)")
}

func TestHealthCommandServerDown(t *testing.T) {
	rootCmd := NewRootCommand(Config{OutputWriter: &bytes.Buffer{}})
	rootCmd.SetArgs([]string{"health", "--server", "http://127.0.0.1:1"})
	require.Error(t, rootCmd.Execute())
}

func TestServerFromEnvironment(t *testing.T) {
	server := newStatusBackend(t)
	t.Setenv("MGCTL_SERVER", server.URL)

	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Config{OutputWriter: buf})
	rootCmd.SetArgs([]string{"health"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "ok")
}

func TestVersionCommandText(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Config{OutputWriter: buf})
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "mgctl")
}

func TestVersionCommandJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootCmd := NewRootCommand(Config{OutputWriter: buf})
	rootCmd.SetArgs([]string{"version", "-o", "json"})
	require.NoError(t, rootCmd.Execute())

	var info map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	assert.Equal(t, "mailgate", info["component"])
}
