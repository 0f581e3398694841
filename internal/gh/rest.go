package gh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/h0rv/reltriage/internal/domain"
)

// CommitFiles lists the files changed by a commit.
// The GraphQL schema has no per-commit file list, so this uses REST v3.
func (r *Repository) CommitFiles(ctx context.Context, sha string) ([]domain.ChangedFile, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits/%s",
		r.client.restURL, url.PathEscape(r.Owner), url.PathEscape(r.Name), url.PathEscape(sha))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build commit request: %w", err)
	}
	setRESTHeaders(req, r.client.token)

	res, err := r.client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", sha, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("failed to get commit %s: status %d: %s", sha, res.StatusCode, body)
	}

	var payload struct {
		Files []struct {
			Filename string `json:"filename"`
			BlobURL  string `json:"blob_url"`
		} `json:"files"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode commit %s: %w", sha, err)
	}

	files := make([]domain.ChangedFile, 0, len(payload.Files))
	for _, f := range payload.Files {
		files = append(files, domain.ChangedFile{Path: f.Filename, BlobURL: f.BlobURL})
	}
	return files, nil
}

// defaultLabelColor is the color GitHub gives labels created implicitly.
const defaultLabelColor = "ededed"

// createLabel creates a repository label and returns its node ID.
// GraphQL has no label creation outside a schema preview, so this uses REST v3.
func (r *Repository) createLabel(ctx context.Context, name string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/labels",
		r.client.restURL, url.PathEscape(r.Owner), url.PathEscape(r.Name))

	payload, err := json.Marshal(map[string]string{"name": name, "color": defaultLabelColor})
	if err != nil {
		return "", fmt.Errorf("failed to encode label %q: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build label request: %w", err)
	}
	setRESTHeaders(req, r.client.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := r.client.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create label %q: %w", name, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("failed to create label %q: status %d: %s", name, res.StatusCode, body)
	}

	var label struct {
		NodeID string `json:"node_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&label); err != nil {
		return "", fmt.Errorf("failed to decode label %q: %w", name, err)
	}
	if label.NodeID == "" {
		return "", fmt.Errorf("label %q was created without a node ID", name)
	}
	return label.NodeID, nil
}

func setRESTHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
}
