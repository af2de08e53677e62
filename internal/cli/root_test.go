package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"devdrawer/internal/config"
	transport "devdrawer/internal/http"
	"devdrawer/internal/http/middleware"
	"devdrawer/internal/models"
	"devdrawer/internal/repo/memory"
	"devdrawer/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const password = "Str0ng!Passw0rd"

type nopSender struct{}

func (nopSender) SendVerification(context.Context, string, string) error  { return nil }
func (nopSender) SendPasswordReset(context.Context, string, string) error { return nil }

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := memory.NewUserStore()
	auth := services.NewAuthService(users, services.NewSessionManager("secret", time.Hour), nopSender{}, log, bcrypt.MinCost)
	t.Cleanup(auth.Wait)

	srv := httptest.NewServer(transport.NewRouter(transport.Dependencies{
		Config:         &config.Config{SessionCookieName: "devdrawer_session"},
		AuthService:    auth,
		ProfileService: services.NewProfileService(users, log, bcrypt.MinCost),
		PlannerService: services.NewPlannerService(memory.NewPlannerStore(), log),
		Logger:         log,
		RateLimiter:    middleware.NewRateLimiter(0),
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes plannerctl with args and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"register", "list", "create", "show", "rename", "duplicate", "delete", "edit", "theme"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Setenv(envAPIURL, "http://api.test")
	t.Setenv(envIdentifier, "alice")
	cmd := NewRootCommand()

	api := cmd.PersistentFlags().Lookup("api")
	require.NotNil(t, api)
	assert.Equal(t, "http://api.test", api.DefValue)

	user := cmd.PersistentFlags().Lookup("user")
	require.NotNil(t, user)
	assert.Equal(t, "u", user.Shorthand)
	assert.Equal(t, "alice", user.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "", "--format", "xml", "theme", "--state", filepath.Join(t.TempDir(), "s.yaml"))
	assert.ErrorContains(t, err, "invalid format")
}

func TestMissingCredentials(t *testing.T) {
	t.Setenv(envIdentifier, "")
	t.Setenv(envPassword, "")
	_, err := run(t, "", "--api", "http://127.0.0.1:1", "list")
	assert.ErrorContains(t, err, "credentials required")
}

func TestPlannerWorkflow(t *testing.T) {
	srv := newServer(t)
	global := []string{"--api", srv.URL, "--user", "alice", "--password", password}

	out, err := run(t, "", append(global, "register", "--username", "alice", "--email", "alice@example.com")...)
	require.NoError(t, err)
	assert.Contains(t, out, "registered alice")

	out, err = run(t, "", append(global, "--format", "json", "create", "Roadmap", "-d", "Q3")...)
	require.NoError(t, err)
	var created models.Planner
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "Roadmap", created.Title)

	_, err = run(t, "", append(global, "rename", created.ID, "Roadmap 2")...)
	require.NoError(t, err)

	stdin := "{\"v\":1}\nnot json\n\n{\"v\":2}\n"
	out, err = run(t, stdin, append(global, "edit", created.ID, "--delay", "1h")...)
	require.NoError(t, err)
	assert.Equal(t, created.ID+": 1 save(s)\n", out)

	out, err = run(t, "", append(global, "--format", "json", "show", created.ID)...)
	require.NoError(t, err)
	var shown models.Planner
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "Roadmap 2", shown.Title)
	assert.JSONEq(t, `{"v":2}`, string(shown.Content))

	out, err = run(t, "{\"v\":2}\n", append(global, "edit", created.ID, "--delay", "1h")...)
	require.NoError(t, err)
	assert.Equal(t, created.ID+": 0 save(s)\n", out)

	_, err = run(t, "", append(global, "duplicate", created.ID)...)
	require.NoError(t, err)

	out, err = run(t, "", append(global, "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Roadmap 2 (copy)")
	assert.Contains(t, out, "2 of 2 planner(s)")

	out, err = run(t, "", append(global, "delete", created.ID)...)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	_, err = run(t, "", append(global, "show", created.ID)...)
	assert.ErrorContains(t, err, "Not found.")
}

func TestThemeCommand(t *testing.T) {
	state := filepath.Join(t.TempDir(), "state.yaml")

	out, err := run(t, "", "theme", "--state", state)
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	out, err = run(t, "", "theme", "toggle", "--state", state)
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = run(t, "", "theme", "--state", state)
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	_, err = run(t, "", "theme", "purple", "--state", state)
	assert.Error(t, err)
}
