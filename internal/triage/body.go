package triage

import "strings"

// RewriteBody puts link on the first line, followed by the original
// non-empty lines in order. A horizontal rule line ("---") becomes a blank
// line so the preceding text does not render as a heading.
func RewriteBody(lines []string, link string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(link, "/readme.md"))
	b.WriteString("\n")
	for _, line := range lines {
		if line == "" {
			continue
		}
		if line == "---" || line == "---\r" {
			line = ""
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
