package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is used when no GitLab instance URL is configured.
const DefaultBaseURL = "https://gitlab.com"

const perPage = 100

// StatusError is a non-2xx response from the GitLab API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gitlab returned %d: %s", e.StatusCode, e.Body)
}

// IsAuth reports whether err is a 401 or 403 from GitLab.
func IsAuth(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from GitLab.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client talks to a single GitLab instance, optionally authenticated with a
// private token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) (http.Header, error) {
	u := c.baseURL + "/api/v4" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("PRIVATE-TOKEN", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gitlab request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, nil
}

// ResolveProject looks up the project behind a project URL or a bare numeric
// project ID.
func (c *Client) ResolveProject(ctx context.Context, projectURL string) (*Project, error) {
	ref, err := c.projectRef(projectURL)
	if err != nil {
		return nil, err
	}

	var p Project
	if _, err := c.get(ctx, "/projects/"+url.PathEscape(ref), nil, &p); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("project %q not found: %w", projectURL, err)
		}
		return nil, fmt.Errorf("resolve project: %w", err)
	}
	return &p, nil
}

func (c *Client) projectRef(projectURL string) (string, error) {
	s := strings.TrimSpace(projectURL)
	if s == "" {
		return "", errors.New("project URL is empty")
	}
	if _, err := strconv.Atoi(s); err == nil {
		return s, nil
	}
	if strings.HasPrefix(s, c.baseURL+"/") {
		path := strings.Trim(strings.TrimPrefix(s, c.baseURL), "/")
		if path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("project URL must be a numeric ID or a project URL under %s", c.baseURL)
}

// ListIssues fetches every issue of the project where username holds the
// given role, following pagination via the X-Next-Page header.
func (c *Client) ListIssues(ctx context.Context, projectID int, role Role, username string) ([]Issue, error) {
	var all []Issue
	page := "1"
	for page != "" {
		q := url.Values{}
		q.Set("state", "all")
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", page)
		switch role {
		case RoleAssignee:
			q.Set("assignee_username", username)
		case RoleAuthor:
			q.Set("author_username", username)
		default:
			return nil, fmt.Errorf("unknown role %q", role)
		}

		var issues []Issue
		header, err := c.get(ctx, fmt.Sprintf("/projects/%d/issues", projectID), q, &issues)
		if err != nil {
			return nil, fmt.Errorf("list %s issues: %w", role, err)
		}
		all = append(all, issues...)
		page = header.Get("X-Next-Page")
	}
	return all, nil
}

// FetchByUsername resolves the project and returns the union of issues
// assigned to and/or authored by the username, de-duplicated by issue ID.
// Assigned issues come first, authored-only issues follow; within each batch
// the API order is preserved. An empty result is not an error.
func (c *Client) FetchByUsername(ctx context.Context, query FetchQuery) ([]Issue, error) {
	if !query.IncludeAssignee && !query.IncludeAuthor {
		return nil, errors.New("at least one of assignee and author must be requested")
	}

	project, err := c.ResolveProject(ctx, query.ProjectURL)
	if err != nil {
		return nil, err
	}

	var issues []Issue
	if query.IncludeAssignee {
		issues, err = c.ListIssues(ctx, project.ID, RoleAssignee, query.Username)
		if err != nil {
			return nil, err
		}
	}
	if query.IncludeAuthor {
		authored, err := c.ListIssues(ctx, project.ID, RoleAuthor, query.Username)
		if err != nil {
			return nil, err
		}
		seen := make(map[int]struct{}, len(issues))
		for _, issue := range issues {
			seen[issue.ID] = struct{}{}
		}
		for _, issue := range authored {
			if _, ok := seen[issue.ID]; !ok {
				issues = append(issues, issue)
			}
		}
	}
	return issues, nil
}

// ListIssueNotes fetches all non-system comments of an issue in ascending
// creation order.
func (c *Client) ListIssueNotes(ctx context.Context, projectID, issueIID int) ([]Note, error) {
	var all []Note
	page := "1"
	for page != "" {
		q := url.Values{}
		q.Set("sort", "asc")
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", page)

		var notes []Note
		header, err := c.get(ctx, fmt.Sprintf("/projects/%d/issues/%d/notes", projectID, issueIID), q, &notes)
		if err != nil {
			return nil, fmt.Errorf("list notes for issue %d: %w", issueIID, err)
		}
		for _, note := range notes {
			if !note.System {
				all = append(all, note)
			}
		}
		page = header.Get("X-Next-Page")
	}
	return all, nil
}
