package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssue_HasLabel(t *testing.T) {
	issue := Issue{Labels: []string{"auto-assign", "ManagementPlane"}}

	assert.True(t, issue.HasLabel("auto-assign"))
	assert.True(t, issue.HasLabel("managementplane"), "label match is case-insensitive")
	assert.False(t, issue.HasLabel("auto-parse"))
}

func TestIssue_BodyLines(t *testing.T) {
	issue := Issue{Body: "first\n\nsecond\r\n---\n\n"}

	assert.Equal(t, []string{"first", "second\r", "---"}, issue.BodyLines())
}

func TestIssue_BodyLinesEmpty(t *testing.T) {
	assert.Empty(t, Issue{}.BodyLines())
}
