package triage

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/h0rv/reltriage/internal/domain"
)

const resourceManager = "/resource-manager"

var (
	urlPattern        = regexp.MustCompile(`https?://[^\s)\]>"'<]+`)
	pullNumberPattern = regexp.MustCompile(`/pull/(\d+)`)
	commitBlobPattern = regexp.MustCompile(`blob/(.*?)/specification`)
	servicePattern    = regexp.MustCompile(`(?:^|/)specification/(.+?)/resource-manager/`)
	readmeDirPattern  = regexp.MustCompile(`/specification/([\w-]+/)+resource-manager`)
)

// linkKinds are the URL shapes that identify a specification reference.
var linkKinds = []string{"/pull/", "/commit/", "/tree/", "/blob/"}

// ExtractOrigin finds the specification link and requested readme tag in
// the issue body. The link is the first URL shaped like a pull request,
// commit, tree or blob link, falling back to the first URL of any shape.
// Either value is empty when absent.
func ExtractOrigin(lines []string) (link, tag string) {
	var fallback string
	for _, line := range lines {
		if tag == "" && strings.Contains(line, "Readme Tag") {
			tag = fieldValue(line)
		}
		if link != "" {
			continue
		}
		for _, u := range urlPattern.FindAllString(line, -1) {
			u = strings.TrimRight(u, ".,;")
			if fallback == "" {
				fallback = u
			}
			for _, kind := range linkKinds {
				if strings.Contains(u, kind) {
					link = u
					break
				}
			}
			if link != "" {
				break
			}
		}
	}
	if link == "" {
		link = fallback
	}
	return link, tag
}

// fieldValue returns the text after the last colon of a "Label: value" line,
// without markdown emphasis or code quotes.
func fieldValue(line string) string {
	idx := strings.LastIndex(line, ":")
	value := line[idx+1:]
	return strings.Trim(strings.TrimSpace(value), "`*_ \r")
}

// NormalizeLink makes a tree or blob link end exactly at /resource-manager.
func NormalizeLink(link string) string {
	link = strings.TrimRight(link, "/")
	idx := strings.Index(link, resourceManager)
	if idx < 0 {
		return link + resourceManager
	}
	return link[:idx+len(resourceManager)]
}

// CommitBlobLink pins the blob URL of a commit file to branch.
func CommitBlobLink(blobURL, branch string) string {
	return commitBlobPattern.ReplaceAllLiteralString(blobURL, "blob/"+branch+"/specification")
}

// ServicePaths returns the distinct service paths (the part between
// "specification/" and "/resource-manager/") touched by files, sorted.
func ServicePaths(files []domain.ChangedFile) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, f := range files {
		if !strings.Contains(f.Path, resourceManager) {
			continue
		}
		m := servicePattern.FindStringSubmatch(f.Path)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		paths = append(paths, m[1])
	}
	sort.Strings(paths)
	return paths
}

// ReadmePath returns the repository path of the readme behind a normalized link.
func ReadmePath(link string) (string, error) {
	dir := readmeDirPattern.FindString(link)
	if dir == "" {
		return "", fmt.Errorf("%w: %s", ErrNoServicePath, link)
	}
	return strings.TrimPrefix(dir, "/") + "/readme.md", nil
}

// PackageName derives the package name from the service directory of link.
func PackageName(link, prefix string) string {
	dir := readmeDirPattern.FindString(link)
	if dir == "" {
		return ""
	}
	service := strings.TrimPrefix(dir, "/specification/")
	service, _, _ = strings.Cut(service, "/")
	return prefix + strings.ToLower(service)
}

// LinkResolver turns the link found in an issue into a normalized readme link.
type LinkResolver struct {
	Spec     SpecSource
	SpecRepo string // owner/name of the specification repository
	Branch   string // default branch of the specification repository
}

func (r LinkResolver) repoName() string {
	_, name, _ := strings.Cut(r.SpecRepo, "/")
	return name
}

func (r LinkResolver) repoURL() string {
	return "https://github.com/" + r.SpecRepo
}

// ResolveLink validates origin and resolves it to exactly one readme link.
// Rejections post a comment on the issue before returning an error.
func (r LinkResolver) ResolveLink(ctx context.Context, t *Task, origin string) (string, error) {
	name := r.repoName()
	switch {
	case origin == "":
		if err := t.comment(ctx, fmt.Sprintf(
			"Hi, @%s, no link to the API specification was found in this issue. "+
				"Please add a link like %q or %q.",
			t.Issue.Author, r.repoURL()+"/pull/16750",
			r.repoURL()+"/tree/"+r.Branch+"/specification/network/resource-manager")); err != nil {
			return "", err
		}
		return "", ErrNoLink
	case !strings.Contains(origin, name):
		if err := t.comment(ctx, fmt.Sprintf(
			"Hi, @%s, %q is not a valid link. Please provide a link to a pull request or a service folder "+
				"of [%s](%s), like %q or %q.",
			t.Issue.Author, origin, r.SpecRepo, r.repoURL(), r.repoURL()+"/pull/16750",
			r.repoURL()+"/tree/"+r.Branch+"/specification/network/resource-manager")); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %s", ErrInvalidLink, origin)
	case strings.Contains(origin, name+"-pr"):
		if err := t.comment(ctx, fmt.Sprintf(
			"Hi @%s, only [%s](%s) may be used to publish an SDK; links to [%s-pr](%s-pr) are not permitted. "+
				"Please paste a valid link.",
			t.Issue.Author, r.SpecRepo, r.repoURL(), r.SpecRepo, r.repoURL())); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %s", ErrPrivateLink, origin)
	}

	link := origin
	if strings.Contains(link, "/commit/") {
		resolved, err := r.commitLink(ctx, link)
		if err != nil {
			return "", err
		}
		link = resolved
	}

	if strings.Contains(link, "/pull/") {
		return r.pullLink(ctx, t, link)
	}
	return NormalizeLink(link), nil
}

// commitLink resolves a commit link to the first file it changed, on the default branch.
func (r LinkResolver) commitLink(ctx context.Context, link string) (string, error) {
	sha := link[strings.Index(link, "/commit/")+len("/commit/"):]
	if i := strings.IndexAny(sha, "#?/"); i >= 0 {
		sha = sha[:i]
	}

	files, err := r.Spec.CommitFiles(ctx, sha)
	if err != nil {
		return "", err
	}
	if len(files) == 0 || files[0].BlobURL == "" {
		return "", fmt.Errorf("%w: commit %s changed no files", ErrNoServicePath, sha)
	}
	return CommitBlobLink(files[0].BlobURL, r.Branch), nil
}

// pullLink resolves a pull request to the single service it touches.
func (r LinkResolver) pullLink(ctx context.Context, t *Task, link string) (string, error) {
	m := pullNumberPattern.FindStringSubmatch(link)
	if m == nil {
		return "", fmt.Errorf("%w: no pull request number in %s", ErrInvalidLink, link)
	}
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidLink, link)
	}

	files, err := r.Spec.PullRequestFiles(ctx, number)
	if err != nil {
		return "", err
	}

	services := ServicePaths(files)
	links := make([]string, 0, len(services))
	for _, svc := range services {
		links = append(links, fmt.Sprintf("%s/blob/%s/specification/%s/resource-manager", r.repoURL(), r.Branch, svc))
	}

	pr := fmt.Sprintf("%s/pull/%d", r.repoURL(), number)
	switch len(links) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNoServicePath, pr)
	case 1:
		return links[0], nil
	}

	if err := t.comment(ctx, fmt.Sprintf(
		"Hi, @%s, by parsing %s, there are multiple service links: %s. Please decide which one is right.",
		t.Assignee, pr, strings.Join(links, ", "))); err != nil {
		return "", err
	}
	if err := t.advance(ctx, StateMultiLink); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: %s", ErrAmbiguousLink, pr)
}
