package cli

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walloffame/wof/internal/api"
	"github.com/walloffame/wof/internal/testing/backend"
)

// setupCLI points the CLI at a fresh fake backend and session directory.
func setupCLI(t *testing.T) *backend.Backend {
	t.Helper()

	server := backend.New(t)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("WOF_API_BASE_URL", server.URL)
	t.Setenv("WOF_SESSION_PATH", t.TempDir())
	t.Setenv("WOF_SESSION_EPHEMERAL", "false")
	t.Setenv("WOF_REGISTER_REQUIRE_NAME", "false")
	t.Setenv("WOF_LOGGING_LEVEL", "error")

	interactive := isInteractive
	isInteractive = func() bool { return false }
	t.Cleanup(func() {
		isInteractive = interactive
	})

	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags undoes flag values left behind by earlier executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

func login(t *testing.T, server *backend.Backend, token string) {
	t.Helper()

	server.Respond(http.MethodPost, "/api/auth/login", http.StatusOK, map[string]string{"token": token})

	out, err := execute(t, "login", "--email", "ada@example.com", "--password", "pw")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in")
}

func TestProtectedCommands_WithoutSession(t *testing.T) {
	tests := [][]string{
		{"wins", "mine"},
		{"wins", "add", "--title", "Shipped it"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			server := setupCLI(t)

			_, err := execute(t, args...)

			require.ErrorIs(t, err, api.ErrAuthRequired)
			assert.True(t, strings.HasPrefix(err.Error(), "Not logged in"))
			assert.Equal(t, 0, server.RequestCount())
		})
	}
}

func TestWins_PublicWithoutSession(t *testing.T) {
	server := setupCLI(t)
	server.Respond(http.MethodGet, "/api/wins", http.StatusOK,
		`[{"id":1,"title":"Shipped v1","user":{"name":"Ada"}},{"id":2,"title":"Fixed CI"}]`)

	for _, args := range [][]string{{"wins"}, {}} {
		out, err := execute(t, args...)
		require.NoError(t, err)

		assert.Contains(t, out, "Shipped v1")
		assert.Contains(t, out, "by Ada")
		assert.Contains(t, out, "Fixed CI")
	}

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "", req.Authorization)
}

func TestWins_BackendFailure(t *testing.T) {
	server := setupCLI(t)
	server.Respond(http.MethodGet, "/api/wins", http.StatusInternalServerError, nil)

	_, err := execute(t, "wins")

	require.Error(t, err)
	assert.Equal(t, "Failed to fetch wins", err.Error())
}

func TestLogin_ThenMyWins(t *testing.T) {
	server := setupCLI(t)
	login(t, server, "T1")

	server.Respond(http.MethodGet, "/api/wins/me", http.StatusOK, `[{"title":"Mine"}]`)

	// A separate invocation only has the session file to go on.
	out, err := execute(t, "wins", "mine")
	require.NoError(t, err)
	assert.Contains(t, out, "Mine")

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/api/wins/me", req.Path)
	assert.Equal(t, "Bearer T1", req.Authorization)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := setupCLI(t)
	server.Respond(http.MethodPost, "/api/auth/login", http.StatusUnauthorized, `{"error":"Invalid credentials"}`)

	_, err := execute(t, "login", "--email", "ada@example.com", "--password", "wrong")

	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "LOGGED OUT")
}

func TestLogin_MissingCredentialsWithoutTerminal(t *testing.T) {
	server := setupCLI(t)

	_, err := execute(t, "login", "--email", "ada@example.com")

	require.ErrorIs(t, err, errMissingCredentials)
	assert.Equal(t, 0, server.RequestCount())
}

func TestLogout(t *testing.T) {
	server := setupCLI(t)
	login(t, server, "T1")

	out, err := execute(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, err = execute(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	before := server.RequestCount()
	_, err = execute(t, "wins", "mine")
	require.ErrorIs(t, err, api.ErrAuthRequired)
	assert.Equal(t, before, server.RequestCount())
}

func TestRegister(t *testing.T) {
	server := setupCLI(t)
	server.Respond(http.MethodPost, "/api/auth/register", http.StatusCreated, `{"token":"R1"}`)

	out, err := execute(t, "register", "--email", "ada@example.com", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "Account created")

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.JSONEq(t, `{"email":"ada@example.com","password":"pw"}`, string(req.Body))

	server.Respond(http.MethodGet, "/api/wins/me", http.StatusOK, `[]`)
	_, err = execute(t, "wins", "mine")
	require.NoError(t, err)

	req, ok = server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "Bearer R1", req.Authorization)
}

func TestRegister_RequireName(t *testing.T) {
	server := setupCLI(t)
	t.Setenv("WOF_REGISTER_REQUIRE_NAME", "true")
	server.Respond(http.MethodPost, "/api/auth/register", http.StatusCreated, `{"token":"R1"}`)

	_, err := execute(t, "register", "--email", "ada@example.com", "--password", "pw")
	require.Error(t, err)
	assert.Equal(t, 0, server.RequestCount())

	_, err = execute(t, "register", "--email", "ada@example.com", "--password", "pw", "--name", "Ada")
	require.NoError(t, err)

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.JSONEq(t, `{"email":"ada@example.com","password":"pw","name":"Ada"}`, string(req.Body))
}

func TestWins_Query(t *testing.T) {
	server := setupCLI(t)
	server.Respond(http.MethodGet, "/api/wins", http.StatusOK,
		`[{"title":"A","likes":3},{"title":"B","likes":1}]`)

	out, err := execute(t, "wins", "--query", `.[] | select(.likes > 2) | .title`)
	require.NoError(t, err)
	assert.Equal(t, "\"A\"\n", out)

	_, err = execute(t, "wins", "--query", ".[")
	assert.Error(t, err)
}

func TestWins_OutputJSON(t *testing.T) {
	server := setupCLI(t)
	server.Respond(http.MethodGet, "/api/wins", http.StatusOK, `[{"title":"A"}]`)

	out, err := execute(t, "wins", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"A"}]`, out)

	_, err = execute(t, "wins", "-o", "xml")
	assert.Error(t, err)
}

func TestWinsAdd_JSON(t *testing.T) {
	server := setupCLI(t)
	login(t, server, "T1")
	server.Respond(http.MethodPost, "/api/wins", http.StatusCreated, `{"id":5,"title":"Shipped v1"}`)

	out, err := execute(t, "wins", "add", "--title", "Shipped v1", "--description", "Finally")
	require.NoError(t, err)
	assert.Contains(t, out, "Win added")
	assert.Contains(t, out, "#5")

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "Bearer T1", req.Authorization)
	assert.Equal(t, "application/json", req.ContentType)
	assert.JSONEq(t, `{"title":"Shipped v1","description":"Finally"}`, string(req.Body))
}

func TestWinsAdd_WithImage(t *testing.T) {
	server := setupCLI(t)
	login(t, server, "T1")
	server.Respond(http.MethodPost, "/api/wins", http.StatusCreated, `{"id":6}`)

	image := filepath.Join(t.TempDir(), "offsite.jpg")
	require.NoError(t, os.WriteFile(image, []byte("jpeg-bytes"), 0600))

	_, err := execute(t, "wins", "add", "--title", "Team offsite", "--image", image)
	require.NoError(t, err)

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "Bearer T1", req.Authorization)
	assert.Equal(t, "multipart/form-data", req.ContentType)
	assert.Equal(t, "Team offsite", req.Form["title"])
	assert.Equal(t, "offsite.jpg", req.Files["image"])
	assert.Equal(t, []byte("jpeg-bytes"), req.FileContents["image"])
}

func TestWinsAdd_FromFile(t *testing.T) {
	server := setupCLI(t)
	login(t, server, "T1")
	server.Respond(http.MethodPost, "/api/wins", http.StatusCreated, `{}`)

	path := filepath.Join(t.TempDir(), "win.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: From YAML\ntags:\n  - release\n"), 0600))

	_, err := execute(t, "wins", "add", "--from", path, "--description", "Overrides")
	require.NoError(t, err)

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.JSONEq(t, `{"title":"From YAML","tags":["release"],"description":"Overrides"}`, string(req.Body))
}

func TestWinsAdd_RequiresTitle(t *testing.T) {
	server := setupCLI(t)
	login(t, server, "T1")
	before := server.RequestCount()

	_, err := execute(t, "wins", "add")

	require.Error(t, err)
	assert.Equal(t, before, server.RequestCount())
}

func TestStatus(t *testing.T) {
	server := setupCLI(t)

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, server.URL)
	assert.Contains(t, out, "LOGGED OUT")

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "42",
		"email": "ada@example.com",
		"exp":   time.Now().Add(2 * time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	login(t, server, token)

	out, err = execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "LOGGED IN")
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "Expires:")
}

func TestStatus_CheckRejectedSession(t *testing.T) {
	server := setupCLI(t)
	login(t, server, "opaque-token")
	server.Respond(http.MethodGet, "/api/wins/me", http.StatusUnauthorized, `{"error":"Token expired"}`)

	out, err := execute(t, "status", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "rejected")

	// Rejection is reported, the session stays.
	out, err = execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "LOGGED IN")
}

func TestEphemeralSession(t *testing.T) {
	server := setupCLI(t)
	server.Respond(http.MethodPost, "/api/auth/login", http.StatusOK, `{"token":"T1"}`)

	_, err := execute(t, "login", "--ephemeral", "--email", "ada@example.com", "--password", "pw")
	require.NoError(t, err)

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "LOGGED OUT")
}

func TestVersion(t *testing.T) {
	setupCLI(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Wall of Fame CLI")
}
