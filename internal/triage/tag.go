package triage

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var defaultTagPattern = regexp.MustCompile(`tag: package-[\w+\-.]+`)

// ExtractDefaultTag returns the first "package-..." tag declared in a readme.
func ExtractDefaultTag(readme string) (string, error) {
	match := defaultTagPattern.FindString(readme)
	if match == "" {
		return "", ErrNoDefaultTag
	}
	return strings.TrimSpace(match[strings.LastIndex(match, ":")+1:]), nil
}

// TagChecker compares the requested tag with the tag the readme declares.
type TagChecker struct {
	Spec   SpecSource
	Branch string
}

// CheckTag records the readme's default tag on t and comments when it
// differs from the requested one. A mismatch is not an error.
func (c TagChecker) CheckTag(ctx context.Context, t *Task) error {
	path, err := ReadmePath(t.ReadmeLink)
	if err != nil {
		return err
	}

	content, err := c.Spec.FileContent(ctx, c.Branch, path)
	if err != nil {
		return err
	}

	tag, err := ExtractDefaultTag(content)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	t.DefaultTag = tag

	if t.DefaultTag == t.TargetTag {
		return nil
	}
	return t.comment(ctx, fmt.Sprintf(
		"Hi, @%s, your **Readme Tag** is `%s`, but in [readme.md](%s#basic-information) it is still `%s`. "+
			"Please modify the readme.md or your **Readme Tag** above.",
		t.Issue.Author, t.TargetTag, t.ReadmeLink, t.DefaultTag))
}
