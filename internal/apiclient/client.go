package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/brk3/consistent/internal/server"
	"github.com/brk3/consistent/pkg/habit"
	"github.com/brk3/consistent/pkg/versioninfo"
)

type Client struct {
	BaseURL string
	UserID  string
	HTTP    *http.Client
}

func New(base, userID string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		UserID:  userID,
		HTTP:    http.DefaultClient,
	}
}

// APIError is a non-2xx reply from the server.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.UserID != "" {
		req.Header.Set(server.UserHeader, c.UserID)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		var er server.ErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&er); err == nil {
			apiErr.Message = er.Error
			apiErr.Fields = er.Fields
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	var response server.HabitListResponse
	if err := c.do(ctx, http.MethodGet, "/habits/", nil, &response); err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return response.Habits, nil
}

func (c *Client) CreateHabit(ctx context.Context, h habit.Habit) (*habit.Habit, error) {
	var out habit.Habit
	if err := c.do(ctx, http.MethodPost, "/habits/", h, &out); err != nil {
		return nil, fmt.Errorf("create habit %s: %w", h.Name, err)
	}
	return &out, nil
}

func (c *Client) UpdateHabit(ctx context.Context, habitID string, req server.UpdateHabitRequest) (*habit.Habit, error) {
	var out habit.Habit
	if err := c.do(ctx, http.MethodPatch, "/habits/"+url.PathEscape(habitID), req, &out); err != nil {
		return nil, fmt.Errorf("update habit %s: %w", habitID, err)
	}
	return &out, nil
}

func (c *Client) GetHabitStats(ctx context.Context, habitID string) (*habit.HabitStats, error) {
	var out server.HabitStatsResponse
	if err := c.do(ctx, http.MethodGet, "/habits/"+url.PathEscape(habitID)+"/stats", nil, &out); err != nil {
		return nil, fmt.Errorf("stats %s: %w", habitID, err)
	}
	return &out.Stats, nil
}

func (c *Client) GetMilestones(ctx context.Context, habitID string) (*habit.Achievements, error) {
	var out server.MilestonesResponse
	if err := c.do(ctx, http.MethodGet, "/habits/"+url.PathEscape(habitID)+"/milestones", nil, &out); err != nil {
		return nil, fmt.Errorf("milestones %s: %w", habitID, err)
	}
	return &out.Achievements, nil
}

// LogEntry records a completion. An empty date means today on the server's clock.
func (c *Client) LogEntry(ctx context.Context, habitID, date, note string) (*server.LogEntryResponse, error) {
	var out server.LogEntryResponse
	req := server.LogEntryRequest{Date: date, Note: note}
	if err := c.do(ctx, http.MethodPost, "/habits/"+url.PathEscape(habitID)+"/entries", req, &out); err != nil {
		return nil, fmt.Errorf("log entry %s: %w", habitID, err)
	}
	return &out, nil
}

func (c *Client) GetLeaderboard(ctx context.Context, sharedID string) (*server.LeaderboardResponse, error) {
	var out server.LeaderboardResponse
	if err := c.do(ctx, http.MethodGet, "/shared/"+url.PathEscape(sharedID)+"/leaderboard", nil, &out); err != nil {
		return nil, fmt.Errorf("leaderboard %s: %w", sharedID, err)
	}
	return &out, nil
}

func (c *Client) ShareHabit(ctx context.Context, habitID string, member server.MemberRequest) (*server.ShareResponse, error) {
	var out server.ShareResponse
	if err := c.do(ctx, http.MethodPost, "/habits/"+url.PathEscape(habitID)+"/share", member, &out); err != nil {
		return nil, fmt.Errorf("share habit %s: %w", habitID, err)
	}
	return &out, nil
}

func (c *Client) JoinSharedHabit(ctx context.Context, sharedID string, member server.MemberRequest) (*server.JoinResponse, error) {
	var out server.JoinResponse
	if err := c.do(ctx, http.MethodPost, "/shared/"+url.PathEscape(sharedID)+"/join", member, &out); err != nil {
		return nil, fmt.Errorf("join %s: %w", sharedID, err)
	}
	return &out, nil
}

// LeaveSharedHabit drops the caller from the group and archives their copy.
func (c *Client) LeaveSharedHabit(ctx context.Context, sharedID string) error {
	if err := c.do(ctx, http.MethodPost, "/shared/"+url.PathEscape(sharedID)+"/leave", nil, nil); err != nil {
		return fmt.Errorf("leave %s: %w", sharedID, err)
	}
	return nil
}

func (c *Client) RemoveMember(ctx context.Context, sharedID, userID string) error {
	path := "/shared/" + url.PathEscape(sharedID) + "/members/" + url.PathEscape(userID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("remove %s from %s: %w", userID, sharedID, err)
	}
	return nil
}

func (c *Client) Version(ctx context.Context) (*versioninfo.VersionInfo, error) {
	var out versioninfo.VersionInfo
	if err := c.do(ctx, http.MethodGet, "/version", nil, &out); err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	return &out, nil
}
