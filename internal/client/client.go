// Package client is a typed HTTP client for the DevDrawer API. The session
// cookie set by Register and Login is kept in the client's cookie jar.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"devdrawer/internal/models"
)

type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// APIError is a non-2xx response decoded from the API's error body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (%d %s)", e.Message, e.Status, e.Code)
}

type Page struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type PlannerList struct {
	Planners []models.Planner `json:"planners"`
	Meta     Page             `json:"meta"`
}

type NewPlanner struct {
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	Content     models.Content `json:"content,omitempty"`
}

// PlannerPatch is sent as a merge-patch; nil fields are omitted.
type PlannerPatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Content     json.RawMessage `json:"content,omitempty"`
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*models.PublicUser, error) {
	var out struct {
		User models.PublicUser `json:"user"`
	}
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Login(ctx context.Context, identifier, password string) (*models.PublicUser, error) {
	var out struct {
		User models.PublicUser `json:"user"`
	}
	body := map[string]string{"identifier": identifier, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (*models.PublicUser, error) {
	var out struct {
		User models.PublicUser `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListPlanners(ctx context.Context, page, perPage int) (*PlannerList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	path := "/api/planner"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out PlannerList
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePlanner(ctx context.Context, in NewPlanner) (*models.Planner, error) {
	return c.plannerCall(ctx, http.MethodPost, "/api/planner", in)
}

func (c *Client) GetPlanner(ctx context.Context, id string) (*models.Planner, error) {
	return c.plannerCall(ctx, http.MethodGet, plannerPath(id), nil)
}

func (c *Client) UpdatePlanner(ctx context.Context, id string, patch PlannerPatch) (*models.Planner, error) {
	return c.plannerCall(ctx, http.MethodPatch, plannerPath(id), patch)
}

func (c *Client) DuplicatePlanner(ctx context.Context, id string) (*models.Planner, error) {
	return c.plannerCall(ctx, http.MethodPost, plannerPath(id), nil)
}

func (c *Client) DeletePlanner(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, plannerPath(id), nil, nil)
}

// UpdateContent replaces only the content of a planner. Its signature matches
// autosave.SaverFunc once the id is bound.
func (c *Client) UpdateContent(ctx context.Context, id string, snapshot []byte) error {
	_, err := c.UpdatePlanner(ctx, id, PlannerPatch{Content: snapshot})
	return err
}

func (c *Client) plannerCall(ctx context.Context, method, path string, body any) (*models.Planner, error) {
	var out struct {
		Planner models.Planner `json:"planner"`
	}
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out.Planner, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
	}
	return apiErr
}

func plannerPath(id string) string {
	return "/api/planner/" + url.PathEscape(id)
}
