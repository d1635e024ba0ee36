package e2e_test

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tictactoe-go/internal/api"
	"github.com/mcoot/tictactoe-go/internal/api/response"
	"github.com/mcoot/tictactoe-go/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "tttctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/tttctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) args(args ...string) []string {
	return append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)
}

func (r *cliRunner) run(args ...string) (string, error) {
	cmd := exec.Command(r.binaryPath, r.args(args...)...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithInput(input string, args ...string) (string, error) {
	cmd := exec.Command(r.binaryPath, r.args(args...)...)
	cmd.Stdin = strings.NewReader(input)
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
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Create application
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		GameController: app.GameController,
		HubManager:     app.HubManager,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			app.HubManager.CloseAll()
			_ = server.Shutdown(ctx)
			_ = app.Close()
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

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type selfPlayResponse struct {
	Games int `json:"games"`
	Ties  int `json:"ties"`
}

type sseLine struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

func decode[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	resp := decode[healthResponse](t, output)
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create guest
	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	authResp := decode[response.AuthResponse](t, output)
	assert.Equal(t, "Alice", authResp.Player.DisplayName)
	assert.True(t, authResp.Player.IsGuest)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token should be saved in token file)
	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	player := decode[response.Player](t, output)
	assert.Equal(t, "Alice", player.DisplayName)
	assert.Equal(t, authResp.Player.ID, player.ID)

	// Logout forgets the token
	output, err = cli.run("player", "logout")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("player", "me")
	require.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_RegisterAndLogin(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "register", "--user", "alice", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)
	registered := decode[response.AuthResponse](t, output)
	assert.False(t, registered.Player.IsGuest)

	output, err = cli.run("player", "login", "--user", "alice", "--pass", "wrong-pass")
	require.Error(t, err)
	assert.Contains(t, output, "INVALID_CREDENTIALS")

	output, err = cli.run("player", "login", "--user", "alice", "--pass", "secret123")
	require.NoError(t, err, "output: %s", output)
	loggedIn := decode[response.AuthResponse](t, output)
	assert.Equal(t, registered.Player.ID, loggedIn.Player.ID)
}

func TestCLI_GameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	// New hard game, human opens
	output, err = cli.run("game", "new", "--difficulty", "hard")
	require.NoError(t, err, "output: %s", output)
	game := decode[response.Game](t, output)
	assert.Equal(t, "X", game.HumanMark)
	assert.Equal(t, "X", game.Turn)
	assert.Equal(t, 1, game.Round)

	// Corner opening: the only reply that holds the draw is the centre
	output, err = cli.run("game", "move", game.ID, "0")
	require.NoError(t, err, "output: %s", output)
	moved := decode[response.MoveResponse](t, output)
	require.Len(t, moved.Moves, 2)
	assert.Equal(t, 4, moved.Moves[1].Cell)
	assert.True(t, moved.Moves[1].ByEngine)

	// Occupied cell
	output, err = cli.run("game", "move", game.ID, "4")
	require.Error(t, err)
	assert.Contains(t, output, "CELL_OCCUPIED")

	// Hint
	output, err = cli.run("game", "hint", game.ID)
	require.NoError(t, err, "output: %s", output)
	hint := decode[response.Hint](t, output)
	assert.Equal(t, "X", hint.Mark)
	assert.Equal(t, 0, hint.BestScore)

	// Marks cannot change mid-round
	output, err = cli.run("game", "settings", game.ID, "--mark", "O")
	require.Error(t, err)
	assert.Contains(t, output, "ROUND_IN_PROGRESS")

	output, err = cli.run("game", "settings", game.ID, "--difficulty", "easy")
	require.NoError(t, err, "output: %s", output)
	game = decode[response.Game](t, output)
	assert.Equal(t, "easy", game.Difficulty)

	// List
	output, err = cli.run("game", "list")
	require.NoError(t, err, "output: %s", output)
	list := decode[response.GameList](t, output)
	require.Len(t, list.Games, 1)
	assert.Equal(t, game.ID, list.Games[0].ID)

	// Reset scores
	output, err = cli.run("game", "reset-scores", game.ID)
	require.NoError(t, err, "output: %s", output)
	game = decode[response.Game](t, output)
	assert.Equal(t, response.Scores{}, game.Scores)

	// Delete
	output, err = cli.run("game", "delete", game.ID)
	require.NoError(t, err, "output: %s", output)
	msg := decode[messageResponse](t, output)
	assert.Contains(t, msg.Message, "Deleted game")

	output, err = cli.run("game", "get", game.ID)
	require.Error(t, err)
	assert.Contains(t, output, "GAME_NOT_FOUND")
}

func TestCLI_EventStream(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("game", "new", "--difficulty", "hard")
	require.NoError(t, err, "output: %s", output)
	game := decode[response.Game](t, output)

	// Human move plus engine reply
	events := exec.Command(cli.binaryPath, cli.args("events", game.ID, "--json", "-n", "2")...)
	stdout, err := events.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, events.Start())
	defer func() { _ = events.Process.Kill() }()

	lines := bufio.NewScanner(stdout)
	readLine := func() sseLine {
		require.True(t, lines.Scan(), "stream ended early: %v", lines.Err())
		return decode[sseLine](t, lines.Text())
	}

	connected := readLine()
	assert.Equal(t, "connected", connected.Event)

	output, err = cli.run("game", "move", game.ID, "0")
	require.NoError(t, err, "output: %s", output)

	for i := 0; i < 2; i++ {
		line := readLine()
		assert.Equal(t, "move", line.Event)

		evt := decode[response.Event](t, line.Data)
		assert.Equal(t, game.ID, evt.GameID)
	}

	require.NoError(t, events.Wait())
}

func TestCLI_OfflinePlay(t *testing.T) {
	cli := newCLIRunner(t, "http://127.0.0.1:1")

	output, err := cli.runWithInput("q\n", "play", "--mark", "O", "--difficulty", "hard", "--seed", "3")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "You are O against the Hard engine")
	assert.Contains(t, output, "Engine plays")

	output, err = cli.run("selfplay", "--games", "10")
	require.NoError(t, err, "output: %s", output)

	result := decode[selfPlayResponse](t, output)
	assert.Equal(t, 10, result.Games)
	assert.Equal(t, 10, result.Ties)
}
