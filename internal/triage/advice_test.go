package triage

import (
	"testing"
	"time"

	"github.com/h0rv/reltriage/internal/domain"
	"github.com/stretchr/testify/assert"
)

func comment(author string, minute int) domain.Comment {
	return domain.Comment{Author: author, UpdatedAt: time.Date(2024, 5, 10, 9, minute, 0, 0, time.UTC)}
}

func TestAdvise(t *testing.T) {
	owners := []string{"msyyc"}

	tests := []struct {
		name   string
		issue  domain.Issue
		offset int
		want   []string
	}{
		{
			name:   "no comments at all",
			offset: SentinelOffset,
			want:   []string{AdviceNewIssue},
		},
		{
			name:   "owner replied last",
			issue:  domain.Issue{Comments: []domain.Comment{comment("requester", 1), comment("msyyc", 2)}},
			offset: 10,
			want:   nil,
		},
		{
			name:   "requester replied after owner",
			issue:  domain.Issue{Comments: []domain.Comment{comment("MSYYC", 1), comment("requester", 2)}},
			offset: 10,
			want:   []string{AdviceNewComment},
		},
		{
			name:   "latest is by update time not position",
			issue:  domain.Issue{Comments: []domain.Comment{comment("requester", 5), comment("msyyc", 2)}},
			offset: 10,
			want:   []string{AdviceNewComment},
		},
		{
			name: "every flag in order",
			issue: domain.Issue{
				Labels:   []string{"MultiLink"},
				Comments: []domain.Comment{comment("requester", 1)},
			},
			offset: 1,
			want:   []string{AdviceNewIssue, AdviceNewComment, AdviceMultiLink, AdviceCloseToRelease},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Advise(tt.issue, owners, "MultiLink", tt.offset))
		})
	}
}

func TestLatestComment_TieKeepsLastReturned(t *testing.T) {
	c := []domain.Comment{comment("a", 1), comment("b", 1)}
	latest, ok := latestComment(c)
	assert.True(t, ok)
	assert.Equal(t, "b", latest.Author)
}
