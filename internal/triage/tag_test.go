package triage

import (
	"context"
	"testing"

	"github.com/h0rv/reltriage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const networkReadme = "specification/network/resource-manager/readme.md"

func TestExtractDefaultTag(t *testing.T) {
	tag, err := ExtractDefaultTag("## Configuration\n\n``` yaml\nopenapi-type: arm\ntag: package-2024-05\n```\n\ntag: package-2023-01")
	require.NoError(t, err)
	assert.Equal(t, "package-2024-05", tag)

	_, err = ExtractDefaultTag("no configuration here")
	assert.ErrorIs(t, err, ErrNoDefaultTag)
}

func tagTask(tr *fakeTracker, targetTag string) *Task {
	task := testTask(tr, domain.Issue{Number: 1, Author: "requester"})
	task.ReadmeLink = specURL + "/blob/main/specification/network/resource-manager"
	task.TargetTag = targetTag
	return task
}

func TestCheckTag_Match(t *testing.T) {
	spec := newFakeSpec()
	spec.files["main:"+networkReadme] = "tag: package-2024-05\n"
	tr := newFakeTracker(domain.Issue{Number: 1})
	task := tagTask(tr, "package-2024-05")

	require.NoError(t, TagChecker{Spec: spec, Branch: "main"}.CheckTag(context.Background(), task))
	assert.Equal(t, "package-2024-05", task.DefaultTag)
	assert.Empty(t, tr.comments())
}

func TestCheckTag_MismatchComments(t *testing.T) {
	spec := newFakeSpec()
	spec.files["main:"+networkReadme] = "tag: package-2023-01\n"
	tr := newFakeTracker(domain.Issue{Number: 1})
	task := tagTask(tr, "package-2024-05")

	require.NoError(t, TagChecker{Spec: spec, Branch: "main"}.CheckTag(context.Background(), task))

	comments := tr.comments()
	require.Len(t, comments, 1)
	assert.Contains(t, comments[0], "@requester")
	assert.Contains(t, comments[0], "`package-2024-05`")
	assert.Contains(t, comments[0], "`package-2023-01`")
}

func TestCheckTag_ReadmeWithoutTag(t *testing.T) {
	spec := newFakeSpec()
	spec.files["main:"+networkReadme] = "# Network\n"
	tr := newFakeTracker(domain.Issue{Number: 1})

	err := TagChecker{Spec: spec, Branch: "main"}.CheckTag(context.Background(), tagTask(tr, ""))
	assert.ErrorIs(t, err, ErrNoDefaultTag)
}
