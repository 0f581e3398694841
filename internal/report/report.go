// Package report renders the triage digest: a markdown table with one row
// per successfully processed issue, rewritten in full on every run.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	header    = "| issue | author | package | assignee | bot advice | created date of issue | target release date | date from target |\n"
	separator = "| ------ | ------ | ------ | ------ | ------ | ------ | ------ | :-----: |\n"

	dateLayout  = "2006-01-02"
	shortLayout = "01-02"
)

var (
	// ErrMissingURL indicates an entry without an issue URL.
	ErrMissingURL = errors.New("entry has no issue URL")
	// ErrBadIssueURL indicates an issue URL that does not end in a number.
	ErrBadIssueURL = errors.New("issue URL does not end in an issue number")
	// ErrMissingCreated indicates an entry without a creation time.
	ErrMissingCreated = errors.New("entry has no creation time")
)

// Entry is the processed-issue data a digest row is rendered from.
type Entry struct {
	URL        string    // issue HTML URL, ends in the issue number
	Author     string    // issue author login
	Package    string    // resolved package name
	Assignee   string    // owner login
	Advice     []string  // advisory flags
	CreatedAt  time.Time // issue creation time
	TargetDate string    // requested release date as written
	Offset     int       // day offset to the target date
	ShowOffset bool      // offset is only shown close to the release date
}

// Row is one rendered digest row. Every field is display text.
type Row struct {
	Number   int
	URL      string
	Author   string
	Package  string
	Assignee string
	Advice   string
	Created  string
	Target   string
	Offset   string
}

// Render formats an entry. It fails when the entry cannot be shown
// faithfully (no URL, no issue number, no creation time).
func Render(e Entry) (Row, error) {
	if e.URL == "" {
		return Row{}, ErrMissingURL
	}
	last := e.URL[strings.LastIndex(e.URL, "/")+1:]
	number, err := strconv.Atoi(last)
	if err != nil {
		return Row{}, fmt.Errorf("%w: %s", ErrBadIssueURL, e.URL)
	}
	if e.CreatedAt.IsZero() {
		return Row{}, fmt.Errorf("%w: %s", ErrMissingCreated, e.URL)
	}

	target := e.TargetDate
	if d, err := time.Parse(dateLayout, e.TargetDate); err == nil {
		target = d.Format(shortLayout)
	}

	offset := ""
	if e.ShowOffset {
		offset = strconv.Itoa(e.Offset)
	}

	return Row{
		Number:   number,
		URL:      e.URL,
		Author:   e.Author,
		Package:  e.Package,
		Assignee: e.Assignee,
		Advice:   strings.Join(e.Advice, " "),
		Created:  e.CreatedAt.Local().Format(shortLayout),
		Target:   target,
		Offset:   offset,
	}, nil
}

// Markdown returns the row as a markdown table line.
func (r Row) Markdown() string {
	return fmt.Sprintf("| [#%d](%s) | %s | %s | %s | %s | %s | %s | %s |\n",
		r.Number, r.URL, r.Author, r.Package, r.Assignee, r.Advice, r.Created, r.Target, r.Offset)
}

// Write renders entries as a markdown digest. An entry that fails to
// render is logged and left out; the rest are still written. It returns
// the rows that were written.
func Write(w io.Writer, entries []Entry, logger *zap.Logger) ([]Row, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header + separator); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row, err := Render(e)
		if err != nil {
			logger.Error("failed to output handled issue", zap.String("url", e.URL), zap.Error(err))
			continue
		}
		if _, err := bw.WriteString(row.Markdown()); err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}

	return rows, bw.Flush()
}

// WriteFile rewrites the digest at path.
func WriteFile(path string, entries []Entry, logger *zap.Logger) ([]Row, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest: %w", err)
	}

	rows, err := Write(f, entries, logger)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return rows, fmt.Errorf("failed to write digest %s: %w", path, err)
	}
	return rows, nil
}
