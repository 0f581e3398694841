package gh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/h0rv/reltriage/internal/domain"
	"github.com/machinebox/graphql"
)

// commentPageSize is the number of comments fetched per request.
const commentPageSize = 100

// commentFields is the selection of one comment connection page.
const commentFields = `
	pageInfo {
		hasNextPage
		endCursor
	}
	nodes {
		id
		author {
			login
		}
		body
		createdAt
		updatedAt
	}
`

// issueFields is the selection shared by every issue query. Only the first
// page of comments is inlined; moreComments loads the rest.
const issueFields = `
	id
	number
	title
	url
	body
	createdAt
	author {
		login
	}
	assignees(first: 10) {
		nodes {
			login
		}
	}
	labels(first: 50) {
		nodes {
			name
		}
	}
	comments(first: 100) {` + commentFields + `}
`

// commentConnection mirrors the commentFields selection.
type commentConnection struct {
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
	Nodes []struct {
		ID     string `json:"id"`
		Author *struct {
			Login string `json:"login"`
		} `json:"author"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	} `json:"nodes"`
}

func (c commentConnection) toDomain() []domain.Comment {
	comments := make([]domain.Comment, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		comment := domain.Comment{
			ID:        n.ID,
			Body:      n.Body,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		}
		if n.Author != nil {
			comment.Author = n.Author.Login
		}
		comments = append(comments, comment)
	}
	return comments
}

// issueNode mirrors the issueFields selection.
type issueNode struct {
	ID        string    `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *struct {
		Login string `json:"login"`
	} `json:"author"`
	Assignees struct {
		Nodes []struct {
			Login string `json:"login"`
		} `json:"nodes"`
	} `json:"assignees"`
	Labels struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"labels"`
	Comments commentConnection `json:"comments"`
}

func (n issueNode) toDomain() domain.Issue {
	issue := domain.Issue{
		ID:        n.ID,
		Number:    n.Number,
		Title:     n.Title,
		URL:       n.URL,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	}

	// Deleted users come back as a null author
	if n.Author != nil {
		issue.Author = n.Author.Login
	}
	if len(n.Assignees.Nodes) > 0 {
		issue.Assignee = n.Assignees.Nodes[0].Login
	}

	issue.Labels = make([]string, 0, len(n.Labels.Nodes))
	for _, l := range n.Labels.Nodes {
		issue.Labels = append(issue.Labels, l.Name)
	}

	issue.Comments = n.Comments.toDomain()

	return issue
}

// loadIssue converts node and fetches the comments beyond its first page.
// GitHub returns comments oldest first, so without the remaining pages the
// latest comment would be missing.
func (r *Repository) loadIssue(ctx context.Context, node issueNode) (domain.Issue, error) {
	issue := node.toDomain()
	r.rememberNodeID(issue.Number, issue.ID)

	page := node.Comments.PageInfo
	if !page.HasNextPage {
		return issue, nil
	}
	more, err := r.moreComments(ctx, issue.Number, page.EndCursor)
	if err != nil {
		return domain.Issue{}, err
	}
	issue.Comments = append(issue.Comments, more...)
	return issue, nil
}

// moreComments loads the comments of an issue that follow cursor.
func (r *Repository) moreComments(ctx context.Context, number int, cursor string) ([]domain.Comment, error) {
	query := `
		query($owner: String!, $name: String!, $number: Int!, $first: Int!, $after: String) {
			repository(owner: $owner, name: $name) {
				issue(number: $number) {
					comments(first: $first, after: $after) {` + commentFields + `}
				}
			}
		}
	`

	var comments []domain.Comment
	for {
		req := graphql.NewRequest(query)
		req.Var("owner", r.Owner)
		req.Var("name", r.Name)
		req.Var("number", number)
		req.Var("first", commentPageSize)
		req.Var("after", cursor)

		var resp struct {
			Repository struct {
				Issue *struct {
					Comments commentConnection `json:"comments"`
				} `json:"issue"`
			} `json:"repository"`
		}

		if err := r.client.makeRequest(ctx, req, &resp); err != nil {
			return nil, fmt.Errorf("failed to get comments of #%d: %w", number, err)
		}
		if resp.Repository.Issue == nil {
			return nil, fmt.Errorf("issue #%d not found in %s", number, r.FullName())
		}

		conn := resp.Repository.Issue.Comments
		comments = append(comments, conn.toDomain()...)

		if !conn.PageInfo.HasNextPage {
			break
		}
		cursor = conn.PageInfo.EndCursor
	}

	return comments, nil
}

// IssueFilter narrows ListIssues.
type IssueFilter struct {
	Labels []string  // issue must carry all of these; empty means any
	Since  time.Time // drop issues created before this; zero means no limit
}

// ListIssues returns the repository's open issues, oldest first.
// Each page is retried on transient failures.
func (r *Repository) ListIssues(ctx context.Context, filter IssueFilter) ([]domain.Issue, error) {
	query := `
		query($owner: String!, $name: String!, $labels: [String!], $first: Int!, $after: String) {
			repository(owner: $owner, name: $name) {
				issues(states: OPEN, labels: $labels, first: $first, after: $after, orderBy: {field: CREATED_AT, direction: ASC}) {
					pageInfo {
						hasNextPage
						endCursor
					}
					nodes {` + issueFields + `}
				}
			}
		}
	`

	var issues []domain.Issue
	cursor := ""
	for {
		req := graphql.NewRequest(query)
		req.Var("owner", r.Owner)
		req.Var("name", r.Name)
		req.Var("first", 50)
		if len(filter.Labels) > 0 {
			req.Var("labels", filter.Labels)
		} else {
			req.Var("labels", nil)
		}
		if cursor != "" {
			req.Var("after", cursor)
		} else {
			req.Var("after", nil)
		}

		var resp struct {
			Repository *struct {
				Issues struct {
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
					Nodes []issueNode `json:"nodes"`
				} `json:"issues"`
			} `json:"repository"`
		}

		err := r.client.withRetry(ctx, func() error {
			return r.client.makeRequest(ctx, req, &resp)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list issues of %s: %w", r.FullName(), err)
		}
		if resp.Repository == nil {
			return nil, fmt.Errorf("repository %s not found", r.FullName())
		}

		for _, node := range resp.Repository.Issues.Nodes {
			if !filter.Since.IsZero() && node.CreatedAt.Before(filter.Since) {
				continue
			}
			issue, err := r.loadIssue(ctx, node)
			if err != nil {
				return nil, err
			}
			issues = append(issues, issue)
		}

		page := resp.Repository.Issues.PageInfo
		if !page.HasNextPage {
			break
		}
		cursor = page.EndCursor
	}

	return issues, nil
}

// GetIssue fetches a single issue with its labels, assignees and comments.
func (r *Repository) GetIssue(ctx context.Context, number int) (domain.Issue, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $name: String!, $number: Int!) {
			repository(owner: $owner, name: $name) {
				issue(number: $number) {` + issueFields + `}
			}
		}
	`)
	req.Var("owner", r.Owner)
	req.Var("name", r.Name)
	req.Var("number", number)

	var resp struct {
		Repository struct {
			Issue *issueNode `json:"issue"`
		} `json:"repository"`
	}

	if err := r.client.makeRequest(ctx, req, &resp); err != nil {
		return domain.Issue{}, fmt.Errorf("failed to get issue #%d: %w", number, err)
	}
	if resp.Repository.Issue == nil {
		return domain.Issue{}, fmt.Errorf("issue #%d not found in %s", number, r.FullName())
	}

	return r.loadIssue(ctx, *resp.Repository.Issue)
}

// PullRequestFiles lists the paths changed by a pull request.
func (r *Repository) PullRequestFiles(ctx context.Context, number int) ([]domain.ChangedFile, error) {
	query := `
		query($owner: String!, $name: String!, $number: Int!, $after: String) {
			repository(owner: $owner, name: $name) {
				pullRequest(number: $number) {
					files(first: 100, after: $after) {
						pageInfo {
							hasNextPage
							endCursor
						}
						nodes {
							path
						}
					}
				}
			}
		}
	`

	var files []domain.ChangedFile
	cursor := ""
	for {
		req := graphql.NewRequest(query)
		req.Var("owner", r.Owner)
		req.Var("name", r.Name)
		req.Var("number", number)
		if cursor != "" {
			req.Var("after", cursor)
		} else {
			req.Var("after", nil)
		}

		var resp struct {
			Repository struct {
				PullRequest *struct {
					Files struct {
						PageInfo struct {
							HasNextPage bool   `json:"hasNextPage"`
							EndCursor   string `json:"endCursor"`
						} `json:"pageInfo"`
						Nodes []struct {
							Path string `json:"path"`
						} `json:"nodes"`
					} `json:"files"`
				} `json:"pullRequest"`
			} `json:"repository"`
		}

		if err := r.client.makeRequest(ctx, req, &resp); err != nil {
			return nil, fmt.Errorf("failed to get files of pull request #%d: %w", number, err)
		}
		pr := resp.Repository.PullRequest
		if pr == nil {
			return nil, fmt.Errorf("pull request #%d not found in %s", number, r.FullName())
		}

		for _, node := range pr.Files.Nodes {
			files = append(files, domain.ChangedFile{Path: node.Path})
		}

		if !pr.Files.PageInfo.HasNextPage {
			break
		}
		cursor = pr.Files.PageInfo.EndCursor
	}

	return files, nil
}

// FileContent returns the text of path at ref.
func (r *Repository) FileContent(ctx context.Context, ref, path string) (string, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $name: String!, $expression: String!) {
			repository(owner: $owner, name: $name) {
				object(expression: $expression) {
					... on Blob {
						text
						isBinary
					}
				}
			}
		}
	`)
	req.Var("owner", r.Owner)
	req.Var("name", r.Name)
	req.Var("expression", ref+":"+path)

	var resp struct {
		Repository struct {
			Object *struct {
				Text     *string `json:"text"`
				IsBinary bool    `json:"isBinary"`
			} `json:"object"`
		} `json:"repository"`
	}

	if err := r.client.makeRequest(ctx, req, &resp); err != nil {
		return "", fmt.Errorf("failed to get %s@%s: %w", path, ref, err)
	}

	obj := resp.Repository.Object
	if obj == nil || obj.Text == nil {
		return "", fmt.Errorf("file %s not found at %s in %s", path, ref, r.FullName())
	}
	if obj.IsBinary {
		return "", fmt.Errorf("file %s is binary", path)
	}

	return *obj.Text, nil
}

// rememberNodeID records the node ID of an issue this handle has loaded.
func (r *Repository) rememberNodeID(number int, id string) {
	if id == "" {
		return
	}
	if r.nodeIDs == nil {
		r.nodeIDs = make(map[int]string)
	}
	r.nodeIDs[number] = id
}

// issueNodeID returns the GraphQL node ID of an issue. IDs of issues loaded
// through this handle are reused; others are looked up.
func (r *Repository) issueNodeID(ctx context.Context, number int) (string, error) {
	if id, ok := r.nodeIDs[number]; ok {
		return id, nil
	}

	req := graphql.NewRequest(`
		query($owner: String!, $name: String!, $number: Int!) {
			repository(owner: $owner, name: $name) {
				issue(number: $number) {
					id
				}
			}
		}
	`)
	req.Var("owner", r.Owner)
	req.Var("name", r.Name)
	req.Var("number", number)

	var resp struct {
		Repository struct {
			Issue *struct {
				ID string `json:"id"`
			} `json:"issue"`
		} `json:"repository"`
	}

	if err := r.client.makeRequest(ctx, req, &resp); err != nil {
		return "", err
	}
	if resp.Repository.Issue == nil || resp.Repository.Issue.ID == "" {
		return "", fmt.Errorf("issue #%d not found in %s", number, r.FullName())
	}

	r.rememberNodeID(number, resp.Repository.Issue.ID)
	return resp.Repository.Issue.ID, nil
}

var errLabelNotFound = errors.New("label does not exist")

// labelNodeID retrieves the node ID of a repository label by name.
func (r *Repository) labelNodeID(ctx context.Context, name string) (string, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $name: String!, $label: String!) {
			repository(owner: $owner, name: $name) {
				label(name: $label) {
					id
				}
			}
		}
	`)
	req.Var("owner", r.Owner)
	req.Var("name", r.Name)
	req.Var("label", name)

	var resp struct {
		Repository struct {
			Label *struct {
				ID string `json:"id"`
			} `json:"label"`
		} `json:"repository"`
	}

	if err := r.client.makeRequest(ctx, req, &resp); err != nil {
		return "", err
	}
	if resp.Repository.Label == nil {
		return "", fmt.Errorf("%w: %q in %s", errLabelNotFound, name, r.FullName())
	}

	return resp.Repository.Label.ID, nil
}

// userNodeID retrieves the node ID of a user by login.
func (r *Repository) userNodeID(ctx context.Context, login string) (string, error) {
	req := graphql.NewRequest(`
		query($login: String!) {
			user(login: $login) {
				id
			}
		}
	`)
	req.Var("login", login)

	var resp struct {
		User *struct {
			ID string `json:"id"`
		} `json:"user"`
	}

	if err := r.client.makeRequest(ctx, req, &resp); err != nil {
		return "", err
	}
	if resp.User == nil {
		return "", fmt.Errorf("user %q not found", login)
	}

	return resp.User.ID, nil
}
