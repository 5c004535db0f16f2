package commands_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/vehicles-auth-client/api"
	"github.com/jrsteele09/vehicles-auth-client/cmd/vehiclectl/commands"
	ierrors "github.com/jrsteele09/vehicles-auth-client/internal/errors"
	"github.com/jrsteele09/vehicles-auth-client/internal/jwttest"
	"github.com/stretchr/testify/require"
)

type backend struct {
	srv          *httptest.Server
	login        string
	refreshed    string
	accepted     atomic.Value
	refreshCalls atomic.Int32
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	signer := jwttest.NewHMACSigner("cli-secret")
	b := &backend{
		login:     signer.AccessToken(t, "alice", time.Now().Add(time.Hour)),
		refreshed: signer.AccessToken(t, "alice", time.Now().Add(2*time.Hour)),
	}
	b.accepted.Store(b.login)

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token/", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "alice" || req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access": b.login, "refresh": "r1"})
	})
	mux.HandleFunc("POST /api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"access": b.refreshed})
	})
	mux.HandleFunc("GET /api/cars/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.accepted.Load().(string) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "brand": "Toyota", "color": r.URL.Query().Get("color")}})
	})
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func setEnv(t *testing.T, b *backend) {
	t.Helper()
	t.Setenv("API_URL", b.srv.URL+"/api")
	t.Setenv("TOKEN_STORE", "file")
	t.Setenv("TOKEN_FILE", filepath.Join(t.TempDir(), "tokens.json"))
	t.Setenv("TOKEN_STORE_PASSPHRASE", "")
	t.Setenv("LOG_LEVEL", "disabled")
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCMD(commands.NewApp)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_SessionAcrossInvocations(t *testing.T) {
	b := newBackend(t)
	setEnv(t, b)

	_, err := execute(t, "", "whoami")
	require.ErrorIs(t, err, ierrors.ErrNotAuthenticated)

	out, err := execute(t, "", "login", "-u", "alice", "-p", "wrong")
	require.ErrorContains(t, err, "No active account found")
	require.Empty(t, out)

	out, err = execute(t, "secret\n", "login", "-u", "alice")
	require.NoError(t, err)
	require.Equal(t, "Logged in as alice\n", out)

	out, err = execute(t, "", "whoami")
	require.NoError(t, err)
	require.Equal(t, "alice\n", out)

	out, err = execute(t, "", "status")
	require.NoError(t, err)
	require.Contains(t, out, "authenticated: true")
	require.Contains(t, out, "username:      alice")
	require.Contains(t, out, "refreshable:   true")

	out, err = execute(t, "", "get", "/cars/", "-q", "color=red")
	require.NoError(t, err)
	require.Contains(t, out, `"brand": "Toyota"`)
	require.Contains(t, out, `"color": "red"`)
	require.Zero(t, b.refreshCalls.Load())

	// The backend stops accepting the login token; the next call refreshes transparently
	b.accepted.Store(b.refreshed)
	out, err = execute(t, "", "get", "/cars/")
	require.NoError(t, err)
	require.Contains(t, out, `"brand": "Toyota"`)
	require.EqualValues(t, 1, b.refreshCalls.Load())

	out, err = execute(t, "", "get", "/cars/")
	require.NoError(t, err)
	require.EqualValues(t, 1, b.refreshCalls.Load(), "refreshed token was persisted")

	out, err = execute(t, "", "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out")

	out, err = execute(t, "", "status")
	require.NoError(t, err)
	require.Contains(t, out, "authenticated: false")
}

func TestCLI_RegisterValidation(t *testing.T) {
	b := newBackend(t)
	setEnv(t, b)

	_, err := execute(t, "", "register", "-u", "al", "--email", "nope", "-p", "123", "--first-name", "A", "--last-name", "B")
	require.ErrorIs(t, err, ierrors.ErrInvalidRequest)
}

func TestCLI_Banner(t *testing.T) {
	b := newBackend(t)
	setEnv(t, b)
	t.Setenv("APP_NAME", "vc")

	out, err := execute(t, "")
	require.NoError(t, err)
	require.Contains(t, out, "Usage:")
	require.Contains(t, out, b.srv.URL+"/api")
}
