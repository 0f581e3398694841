// Package domain defines the normalized types for release-request issues.
// These types represent the core concepts independent of the GitHub GraphQL API structure.
package domain

import (
	"strings"
	"time"
)

// Issue represents a release-request issue in the request repository.
type Issue struct {
	ID        string    // GitHub Issue node ID
	Number    int       // Issue number within the repository
	Title     string    // Issue title
	URL       string    // Issue HTML URL
	Body      string    // Free-text body, newline delimited
	Labels    []string  // Label names
	Assignee  string    // First assignee login, empty if unassigned
	Author    string    // Author login (issue creator)
	Comments  []Comment // Comments in the order returned by GitHub
	CreatedAt time.Time // Creation timestamp
}

// Comment represents a comment on an issue.
type Comment struct {
	ID        string    // GitHub comment node ID
	Author    string    // Author login (may be empty if user deleted)
	Body      string    // Comment body text
	CreatedAt time.Time // Creation timestamp
	UpdatedAt time.Time // Last edit timestamp
}

// ChangedFile is a file touched by a pull request or commit in the
// specification repository.
type ChangedFile struct {
	Path    string // Repository-relative path (e.g. "specification/network/resource-manager/readme.md")
	BlobURL string // HTML blob URL, only populated for commit files
}

// HasLabel reports whether the issue carries the named label.
func (i Issue) HasLabel(name string) bool {
	for _, l := range i.Labels {
		if strings.EqualFold(l, name) {
			return true
		}
	}
	return false
}

// BodyLines splits the body on newlines and drops empty lines.
func (i Issue) BodyLines() []string {
	var lines []string
	for _, line := range strings.Split(i.Body, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
