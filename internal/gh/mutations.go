package gh

import (
	"context"
	"errors"
	"fmt"

	"github.com/machinebox/graphql"
)

// CreateComment adds a comment to an issue.
func (r *Repository) CreateComment(ctx context.Context, number int, body string) error {
	nodeID, err := r.issueNodeID(ctx, number)
	if err != nil {
		return fmt.Errorf("failed to get issue node ID: %w", err)
	}

	req := graphql.NewRequest(`
		mutation($subjectId: ID!, $body: String!) {
			addComment(input: {subjectId: $subjectId, body: $body}) {
				commentEdge {
					node {
						id
					}
				}
			}
		}
	`)
	req.Var("subjectId", nodeID)
	req.Var("body", body)

	var resp struct {
		AddComment struct {
			CommentEdge struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"commentEdge"`
		} `json:"addComment"`
	}

	if err := r.client.makeRequest(ctx, req, &resp); err != nil {
		return fmt.Errorf("failed to add comment to #%d: %w", number, err)
	}

	return nil
}

// AddLabel applies a label to an issue, creating the label in the
// repository first when it does not exist yet.
func (r *Repository) AddLabel(ctx context.Context, number int, label string) error {
	nodeID, err := r.issueNodeID(ctx, number)
	if err != nil {
		return fmt.Errorf("failed to get issue node ID: %w", err)
	}
	labelID, err := r.labelNodeID(ctx, label)
	if errors.Is(err, errLabelNotFound) {
		labelID, err = r.createLabel(ctx, label)
	}
	if err != nil {
		return fmt.Errorf("failed to get label node ID: %w", err)
	}

	req := graphql.NewRequest(`
		mutation($labelableId: ID!, $labelIds: [ID!]!) {
			addLabelsToLabelable(input: {labelableId: $labelableId, labelIds: $labelIds}) {
				clientMutationId
			}
		}
	`)
	req.Var("labelableId", nodeID)
	req.Var("labelIds", []string{labelID})

	var resp struct {
		AddLabelsToLabelable struct {
			ClientMutationID *string `json:"clientMutationId"`
		} `json:"addLabelsToLabelable"`
	}

	if err := r.client.makeRequest(ctx, req, &resp); err != nil {
		return fmt.Errorf("failed to add label %q to #%d: %w", label, number, err)
	}

	return nil
}

// AddAssignee assigns login to an issue.
func (r *Repository) AddAssignee(ctx context.Context, number int, login string) error {
	return r.changeAssignee(ctx, number, login, `
		mutation($assignableId: ID!, $assigneeIds: [ID!]!) {
			addAssigneesToAssignable(input: {assignableId: $assignableId, assigneeIds: $assigneeIds}) {
				clientMutationId
			}
		}
	`)
}

// RemoveAssignee unassigns login from an issue.
func (r *Repository) RemoveAssignee(ctx context.Context, number int, login string) error {
	return r.changeAssignee(ctx, number, login, `
		mutation($assignableId: ID!, $assigneeIds: [ID!]!) {
			removeAssigneesFromAssignable(input: {assignableId: $assignableId, assigneeIds: $assigneeIds}) {
				clientMutationId
			}
		}
	`)
}

func (r *Repository) changeAssignee(ctx context.Context, number int, login, mutation string) error {
	nodeID, err := r.issueNodeID(ctx, number)
	if err != nil {
		return fmt.Errorf("failed to get issue node ID: %w", err)
	}
	userID, err := r.userNodeID(ctx, login)
	if err != nil {
		return fmt.Errorf("failed to get user node ID: %w", err)
	}

	req := graphql.NewRequest(mutation)
	req.Var("assignableId", nodeID)
	req.Var("assigneeIds", []string{userID})

	// Only errors matter; the payload is discarded
	var resp map[string]interface{}
	if err := r.client.makeRequest(ctx, req, &resp); err != nil {
		return fmt.Errorf("failed to update assignee %q on #%d: %w", login, number, err)
	}

	return nil
}

// EditBody replaces the body of an issue.
func (r *Repository) EditBody(ctx context.Context, number int, body string) error {
	nodeID, err := r.issueNodeID(ctx, number)
	if err != nil {
		return fmt.Errorf("failed to get issue node ID: %w", err)
	}

	req := graphql.NewRequest(`
		mutation($id: ID!, $body: String!) {
			updateIssue(input: {id: $id, body: $body}) {
				issue {
					id
				}
			}
		}
	`)
	req.Var("id", nodeID)
	req.Var("body", body)

	var resp struct {
		UpdateIssue struct {
			Issue struct {
				ID string `json:"id"`
			} `json:"issue"`
		} `json:"updateIssue"`
	}

	if err := r.client.makeRequest(ctx, req, &resp); err != nil {
		return fmt.Errorf("failed to edit body of #%d: %w", number, err)
	}

	return nil
}
