package triage

import (
	"testing"

	"github.com/h0rv/reltriage/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRewriteBody(t *testing.T) {
	issue := domain.Issue{Body: "**Link**: https://github.com/Azure/azure-rest-api-specs/pull/1\r\n\n---\r\n**Readme Tag**: package-2024-05\n---\nend"}
	link := specURL + "/blob/main/specification/network/resource-manager"

	got := RewriteBody(issue.BodyLines(), link)
	want := link + "\n" +
		"**Link**: https://github.com/Azure/azure-rest-api-specs/pull/1\r\n" +
		"\n" +
		"**Readme Tag**: package-2024-05\n" +
		"\n" +
		"end\n"
	assert.Equal(t, want, got)
}

func TestRewriteBody_StripsReadmeSuffix(t *testing.T) {
	got := RewriteBody(nil, specURL+"/blob/main/specification/network/resource-manager/readme.md")
	assert.Equal(t, specURL+"/blob/main/specification/network/resource-manager\n", got)
}
