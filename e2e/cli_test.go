package e2e_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/watchlist/internal/api"
	"github.com/mcoot/watchlist/internal/factory"
	"github.com/mcoot/watchlist/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
	configFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "watchlist-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/watchlist")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
		configFile: filepath.Join(t.TempDir(), "config.toml"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "WATCHLIST_TOKEN=", "WATCHLIST_CONFIG="+r.configFile)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "WATCHLIST_CONFIG="+r.configFile)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.App
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Create application
	app, err := factory.New(context.Background(), factory.Config{})
	require.NoError(t, err)

	logger := testutil.NopLogger()
	router := api.NewRouter(api.RouterConfig{
		Logger:           logger,
		AuthService:      app.AuthService,
		WatchlistService: app.WatchlistService,
	})

	// Port 0 lets the OS pick a free port
	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = "0"
	server := api.NewServer(router, cfg, logger)
	require.NoError(t, server.Listen())

	// Start server
	go func() {
		if err := server.Serve(); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + server.Addr()
	waitForServer(t, serverURL+"/api/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type accountResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar *int   `json:"avatar"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

type entryResponse struct {
	ID          int64    `json:"id"`
	ContentType string   `json:"contentType"`
	Title       string   `json:"title"`
	Genre       []string `json:"genre"`
}

type watchlistResponse struct {
	Watchlist []entryResponse `json:"watchlist"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_AccountCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("account", "signup", "--name", "Ann", "--email", "ann@x.com", "--pass", "p1")
	require.NoError(t, err, "output: %s", output)

	var account accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &account))
	assert.Equal(t, "Ann", account.Name)
	assert.NotContains(t, output, "password")

	output, err = cli.run("account", "login", "--email", "ann@x.com", "--pass", "p1")
	require.NoError(t, err, "output: %s", output)

	var login loginResponse
	require.NoError(t, json.Unmarshal([]byte(output), &login))
	assert.NotEmpty(t, login.Token)

	// Token should be saved in token file
	output, err = cli.run("account", "avatar", "3")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("account", "profile")
	require.NoError(t, err, "output: %s", output)

	var profile accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &profile))
	assert.Equal(t, "Ann", profile.Name)
	require.NotNil(t, profile.Avatar)
	assert.Equal(t, 3, *profile.Avatar)
}

func TestCLI_WatchlistFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.run("account", "signup", "--name", "Ann", "--email", "ann@x.com", "--pass", "p1")
	require.NoError(t, err)
	_, err = cli.run("account", "login", "--email", "ann@x.com", "--pass", "p1")
	require.NoError(t, err)

	// Add twice; the second is a duplicate
	output, err := cli.run("watchlist", "add", "--id", "42", "--type", "movie", "--title", "Dune",
		"--genre", "Science Fiction", "--genre", "Adventure")
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.NotEmpty(t, msg.Message)

	output, err = cli.run("watchlist", "add", "--id", "42", "--type", "movie", "--title", "Dune")
	assert.Error(t, err)
	assert.Contains(t, output, "DUPLICATE_ENTRY")

	output, err = cli.run("watchlist", "add", "--id", "42", "--type", "show", "--title", "Dune: Prophecy")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("watchlist", "list")
	require.NoError(t, err, "output: %s", output)

	var list watchlistResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Watchlist, 2)
	assert.Equal(t, "movie", list.Watchlist[0].ContentType)
	assert.Equal(t, []string{"Science Fiction", "Adventure"}, list.Watchlist[0].Genre)
	assert.Equal(t, "show", list.Watchlist[1].ContentType)

	// Remove is idempotent
	for i := 0; i < 2; i++ {
		output, err = cli.run("watchlist", "remove", "--id", "42", "--type", "movie")
		require.NoError(t, err, "output: %s", output)
	}

	output, err = cli.run("watchlist", "list")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Watchlist, 1)
	assert.Equal(t, "Dune: Prophecy", list.Watchlist[0].Title)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// List without auth
	output, err := cli.run("watchlist", "list")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	// Forged token
	output, err = cli.runWithToken("not-a-token", "account", "profile")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	// Wrong password
	_, err = cli.run("account", "signup", "--name", "Ann", "--email", "ann@x.com", "--pass", "p1")
	require.NoError(t, err)
	output, err = cli.run("account", "login", "--email", "ann@x.com", "--pass", "nope")
	assert.Error(t, err)
	assert.Contains(t, output, "INVALID_CREDENTIALS")
}

func TestCLI_DeletedAccount(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("account", "signup", "--name", "Ann", "--email", "ann@x.com", "--pass", "p1")
	require.NoError(t, err)
	var account accountResponse
	require.NoError(t, json.Unmarshal([]byte(output), &account))

	_, err = cli.run("account", "login", "--email", "ann@x.com", "--pass", "p1")
	require.NoError(t, err)

	account2, err := ts.app.Storage.GetAccountByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	require.Equal(t, account.ID, string(account2.ID))
	require.NoError(t, ts.app.Storage.DeleteAccount(context.Background(), account2.ID))

	output, err = cli.run("watchlist", "list")
	assert.Error(t, err)
	assert.Contains(t, output, "ACCOUNT_NOT_FOUND")
}
