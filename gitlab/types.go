package gitlab

import "time"

// User identifies a GitLab account as embedded in issue payloads.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Issue is a GitLab issue as returned by the v4 API. Fields are taken
// verbatim from the API response and never mutated after fetching.
type Issue struct {
	ID          int       `json:"id"`
	IID         int       `json:"iid"`
	ProjectID   int       `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	State       string    `json:"state"`
	Author      User      `json:"author"`
	Assignee    *User     `json:"assignee"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	WebURL      string    `json:"web_url"`
}

// Note is a comment on an issue.
type Note struct {
	ID        int       `json:"id"`
	Author    User      `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	System    bool      `json:"system"`
}

// Project is the subset of the projects endpoint needed to list issues.
type Project struct {
	ID                int    `json:"id"`
	PathWithNamespace string `json:"path_with_namespace"`
	WebURL            string `json:"web_url"`
}

// Role selects which relationship between a user and an issue to query.
type Role string

const (
	RoleAssignee Role = "assignee"
	RoleAuthor   Role = "author"
)

// FetchQuery describes one fetch run. At least one of IncludeAssignee and
// IncludeAuthor must be set.
type FetchQuery struct {
	ProjectURL      string
	Username        string
	IncludeAssignee bool
	IncludeAuthor   bool
}
