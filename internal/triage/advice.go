package triage

import (
	"sort"
	"strings"

	"github.com/h0rv/reltriage/internal/domain"
)

// Advice flags, in the order they are evaluated.
const (
	AdviceNewIssue       = "new issue."
	AdviceNewComment     = "new comment."
	AdviceMultiLink      = "multi readme link!"
	AdviceCloseToRelease = "close to release date."
)

// Advise derives the advisory flags for an issue. owners are the language
// owners; offset is the day offset to the target release date.
func Advise(issue domain.Issue, owners []string, multiLinkLabel string, offset int) []string {
	var advice []string

	if !hasOwnerComment(issue.Comments, owners) {
		advice = append(advice, AdviceNewIssue)
	}
	if latest, ok := latestComment(issue.Comments); ok && !isOwner(latest.Author, owners) {
		advice = append(advice, AdviceNewComment)
	}
	if issue.HasLabel(multiLinkLabel) {
		advice = append(advice, AdviceMultiLink)
	}
	if CloseToRelease(offset) {
		advice = append(advice, AdviceCloseToRelease)
	}

	return advice
}

func isOwner(login string, owners []string) bool {
	for _, o := range owners {
		if strings.EqualFold(o, login) {
			return true
		}
	}
	return false
}

func hasOwnerComment(comments []domain.Comment, owners []string) bool {
	for _, c := range comments {
		if isOwner(c.Author, owners) {
			return true
		}
	}
	return false
}

// latestComment returns the most recently updated comment. On equal
// timestamps the one returned later by GitHub wins.
func latestComment(comments []domain.Comment) (domain.Comment, bool) {
	if len(comments) == 0 {
		return domain.Comment{}, false
	}
	sorted := append([]domain.Comment(nil), comments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UpdatedAt.Before(sorted[j].UpdatedAt)
	})
	return sorted[len(sorted)-1], true
}
