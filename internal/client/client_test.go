package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devdrawer/internal/autosave"
	"devdrawer/internal/config"
	transport "devdrawer/internal/http"
	"devdrawer/internal/http/middleware"
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

	router := transport.NewRouter(transport.Dependencies{
		Config:         &config.Config{SessionCookieName: "devdrawer_session"},
		AuthService:    auth,
		ProfileService: services.NewProfileService(users, log, bcrypt.MinCost),
		PlannerService: services.NewPlannerService(memory.NewPlannerStore(), log),
		Logger:         log,
		RateLimiter:    middleware.NewRateLimiter(0),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(srv.URL+"/", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:8080", time.Second)
	assert.Error(t, err)
}

func TestAuthRoundTrip(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := newClient(t, srv)

	_, err := c.Me(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "Not authenticated.", apiErr.Message)

	user, err := c.Register(ctx, "alice", "alice@example.com", password)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	require.NoError(t, c.Logout(ctx))
	_, err = c.Me(ctx)
	assert.Error(t, err)

	other := newClient(t, srv)
	_, err = other.Login(ctx, "alice", "wrong")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Invalid credentials.", apiErr.Message)

	_, err = other.Login(ctx, "alice@example.com", password)
	require.NoError(t, err)
}

func TestPlannerCalls(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := newClient(t, srv)
	_, err := c.Register(ctx, "alice", "alice@example.com", password)
	require.NoError(t, err)

	desc := "sprint"
	created, err := c.CreatePlanner(ctx, NewPlanner{Title: "Board", Description: &desc})
	require.NoError(t, err)
	assert.True(t, created.Content.IsNull())

	title := "Renamed"
	updated, err := c.UpdatePlanner(ctx, created.ID, PlannerPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "sprint", *updated.Description)

	require.NoError(t, c.UpdateContent(ctx, created.ID, []byte(`{"shapes":[1]}`)))
	got, err := c.GetPlanner(ctx, created.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"shapes":[1]}`, string(got.Content))

	dup, err := c.DuplicatePlanner(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed (copy)", dup.Title)

	list, err := c.ListPlanners(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, list.Planners, 1)
	assert.Equal(t, 2, list.Meta.Total)

	require.NoError(t, c.DeletePlanner(ctx, dup.ID))
	_, err = c.GetPlanner(ctx, dup.ID)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestAutosaveThroughClient(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	c := newClient(t, srv)
	_, err := c.Register(ctx, "alice", "alice@example.com", password)
	require.NoError(t, err)

	planner, err := c.CreatePlanner(ctx, NewPlanner{Title: "Board"})
	require.NoError(t, err)

	current := json.RawMessage(`{"v":1}`)
	syncer, err := autosave.New(
		func() (any, error) { return current, nil },
		autosave.SaverFunc(func(ctx context.Context, snapshot []byte) error {
			return c.UpdateContent(ctx, planner.ID, snapshot)
		}),
		autosave.Options{Delay: time.Hour},
	)
	require.NoError(t, err)

	syncer.Changed()
	current = json.RawMessage(`{"v":2}`)
	syncer.Changed()
	require.NoError(t, syncer.Close(ctx))

	got, err := c.GetPlanner(ctx, planner.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got.Content))
}

func TestAPIError_Message(t *testing.T) {
	err := &APIError{Status: 404, Code: "NOT_FOUND", Message: "Not found."}
	assert.Equal(t, "api: Not found. (404 NOT_FOUND)", err.Error())
	assert.Equal(t, "api: status 502", (&APIError{Status: 502}).Error())
}
