package triage

import (
	"context"
	"testing"

	"github.com/h0rv/reltriage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const specURL = "https://github.com/Azure/azure-rest-api-specs"

func testResolver(spec SpecSource) LinkResolver {
	return LinkResolver{Spec: spec, SpecRepo: "Azure/azure-rest-api-specs", Branch: "main"}
}

func testTask(tr *fakeTracker, issue domain.Issue) *Task {
	t := newTask(issue, testLabels)
	t.Assignee = "msyyc"
	t.tracker = tr.as("msyyc")
	return t
}

func TestExtractOrigin(t *testing.T) {
	lines := []string{
		"**Link**: see the docs at https://aka.ms/docs",
		"https://github.com/Azure/azure-rest-api-specs/pull/16750.",
		"**Readme Tag**: `package-2021-05`",
		"**Target release date**: 2024-05-10",
	}

	link, tag := ExtractOrigin(lines)
	assert.Equal(t, specURL+"/pull/16750", link)
	assert.Equal(t, "package-2021-05", tag)
}

func TestExtractOrigin_MarkdownLinkAndFallback(t *testing.T) {
	link, tag := ExtractOrigin([]string{"[spec](https://github.com/Azure/azure-rest-api-specs/tree/main/specification/network)"})
	assert.Equal(t, specURL+"/tree/main/specification/network", link)
	assert.Empty(t, tag)

	link, _ = ExtractOrigin([]string{"see https://example.com/somewhere"})
	assert.Equal(t, "https://example.com/somewhere", link, "any URL is used when none looks like a spec link")

	link, _ = ExtractOrigin([]string{"no links here"})
	assert.Empty(t, link)
}

func TestNormalizeLink_AppendsResourceManager(t *testing.T) {
	for _, link := range []string{
		specURL + "/tree/main/specification/network",
		specURL + "/blob/main/specification/compute",
		specURL + "/tree/main/specification/cognitiveservices/data-plane",
	} {
		assert.Equal(t, link+"/resource-manager", NormalizeLink(link))
	}
}

func TestNormalizeLink_TruncatesAfterResourceManager(t *testing.T) {
	prefix := specURL + "/blob/main/specification/network/resource-manager"
	for _, suffix := range []string{"", "/readme.md", "/Microsoft.Network/stable/2023-01-01/vnet.json"} {
		assert.Equal(t, prefix, NormalizeLink(prefix+suffix))
	}
}

func TestNormalizeLink_TrailingSlash(t *testing.T) {
	assert.Equal(t, specURL+"/tree/main/specification/network/resource-manager",
		NormalizeLink(specURL+"/tree/main/specification/network/"))
}

func TestCommitBlobLink(t *testing.T) {
	blob := specURL + "/blob/77f5d3b5d2/specification/network/resource-manager/readme.md"
	assert.Equal(t, specURL+"/blob/main/specification/network/resource-manager/readme.md", CommitBlobLink(blob, "main"))
}

func TestServicePaths(t *testing.T) {
	files := []domain.ChangedFile{
		{Path: "specification/network/resource-manager/readme.md"},
		{Path: "specification/network/resource-manager/Microsoft.Network/stable/2023-01-01/vnet.json"},
		{Path: "specification/network/data-plane/readme.md"},
		{Path: "documentation/readme.md"},
	}
	assert.Equal(t, []string{"network"}, ServicePaths(files))

	files = append(files, domain.ChangedFile{Path: "specification/compute/resource-manager/readme.md"})
	assert.Equal(t, []string{"compute", "network"}, ServicePaths(files))
}

func TestReadmePathAndPackageName(t *testing.T) {
	link := specURL + "/blob/main/specification/network/resource-manager"

	path, err := ReadmePath(link)
	require.NoError(t, err)
	assert.Equal(t, "specification/network/resource-manager/readme.md", path)
	assert.Equal(t, "azure-mgmt-network", PackageName(link, "azure-mgmt-"))

	_, err = ReadmePath(specURL + "/pull/1")
	assert.ErrorIs(t, err, ErrNoServicePath)
	assert.Equal(t, "", PackageName("plain text", "azure-mgmt-"))
}

func TestResolveLink_PlainTreeLink(t *testing.T) {
	tr := newFakeTracker(domain.Issue{Number: 1})
	task := testTask(tr, domain.Issue{Number: 1})

	link, err := testResolver(newFakeSpec()).ResolveLink(context.Background(), task, specURL+"/tree/main/specification/network")
	require.NoError(t, err)
	assert.Equal(t, specURL+"/tree/main/specification/network/resource-manager", link)
	assert.Empty(t, tr.comments())
}

func TestResolveLink_PullRequestSingleService(t *testing.T) {
	spec := newFakeSpec()
	spec.pulls[16750] = []domain.ChangedFile{
		{Path: "specification/network/resource-manager/readme.md"},
		{Path: "specification/network/resource-manager/Microsoft.Network/stable/2023-01-01/vnet.json"},
	}
	tr := newFakeTracker(domain.Issue{Number: 1})
	task := testTask(tr, domain.Issue{Number: 1})

	link, err := testResolver(spec).ResolveLink(context.Background(), task, specURL+"/pull/16750/files")
	require.NoError(t, err)
	assert.Equal(t, specURL+"/blob/main/specification/network/resource-manager", link)
}

func TestResolveLink_PullRequestMultipleServices(t *testing.T) {
	spec := newFakeSpec()
	spec.pulls[16750] = []domain.ChangedFile{
		{Path: "specification/network/resource-manager/readme.md"},
		{Path: "specification/compute/resource-manager/readme.md"},
	}
	tr := newFakeTracker(domain.Issue{Number: 1})
	task := testTask(tr, domain.Issue{Number: 1})

	_, err := testResolver(spec).ResolveLink(context.Background(), task, specURL+"/pull/16750")
	require.ErrorIs(t, err, ErrAmbiguousLink)

	comments := tr.comments()
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0], "@msyyc")
	assert.Contains(t, comments[0], "specification/compute/resource-manager")
	assert.Contains(t, comments[0], "specification/network/resource-manager")

	assert.True(t, task.State.Has(StateMultiLink))
	assert.True(t, tr.issues[1].HasLabel("MultiLink"))
}

func TestResolveLink_PullRequestNoService(t *testing.T) {
	spec := newFakeSpec()
	spec.pulls[5] = []domain.ChangedFile{{Path: "documentation/readme.md"}}
	tr := newFakeTracker(domain.Issue{Number: 1})

	_, err := testResolver(spec).ResolveLink(context.Background(), testTask(tr, domain.Issue{Number: 1}), specURL+"/pull/5")
	assert.ErrorIs(t, err, ErrNoServicePath)
}

func TestResolveLink_Commit(t *testing.T) {
	spec := newFakeSpec()
	spec.commits["77f5d3b5d2"] = []domain.ChangedFile{{
		Path:    "specification/network/resource-manager/Microsoft.Network/stable/2023-01-01/vnet.json",
		BlobURL: specURL + "/blob/77f5d3b5d2/specification/network/resource-manager/Microsoft.Network/stable/2023-01-01/vnet.json",
	}}
	tr := newFakeTracker(domain.Issue{Number: 1})

	link, err := testResolver(spec).ResolveLink(context.Background(), testTask(tr, domain.Issue{Number: 1}),
		specURL+"/commit/77f5d3b5d2#diff-708c2fb")
	require.NoError(t, err)
	assert.Equal(t, specURL+"/blob/main/specification/network/resource-manager", link)
	assert.Equal(t, []string{"commit:77f5d3b5d2"}, spec.reads)
}

func TestResolveLink_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		wantErr error
		mention string
	}{
		{"foreign repository", "https://github.com/contoso/specs/pull/1", ErrInvalidLink, "not a valid link"},
		{"private mirror", "https://github.com/Azure/azure-rest-api-specs-pr/pull/1", ErrPrivateLink, "not permitted"},
		{"no link", "", ErrNoLink, "no link"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newFakeTracker(domain.Issue{Number: 1})
			task := testTask(tr, domain.Issue{Number: 1, Author: "requester"})

			_, err := testResolver(newFakeSpec()).ResolveLink(context.Background(), task, tt.origin)
			require.ErrorIs(t, err, tt.wantErr)

			comments := tr.comments()
			require.Len(t, comments, 1, "every rejection is explained on the issue")
			assert.Contains(t, comments[0], "@requester")
			assert.Contains(t, comments[0], tt.mention)
		})
	}
}

func TestResolveLink_CommentFailurePropagates(t *testing.T) {
	tr := newFakeTracker(domain.Issue{Number: 1})
	tr.failOn = "comment"

	_, err := testResolver(newFakeSpec()).ResolveLink(context.Background(), testTask(tr, domain.Issue{Number: 1}), "https://gitlab.com/x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidLink)
}
