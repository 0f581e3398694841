// Package store holds the rows of a triage digest in memory for the
// interactive viewer. Rows keep the order they were written in and are
// grouped into columns by assignee.
package store

import (
	"errors"
	"sort"
	"strings"

	"github.com/h0rv/reltriage/internal/report"
)

// ErrRowNotFound indicates the requested issue is not in the digest.
var ErrRowNotFound = errors.New("row not found")

// UnassignedKey is the column key used for rows without an assignee.
const UnassignedKey = "_unassigned_"

// Store manages the in-memory rows of a digest.
type Store struct {
	// Source path, shown in the viewer header
	source string

	// Login of the person reading the digest, for "mine" filtering
	viewerLogin string

	rows    []report.Row
	byIssue map[int]int // issue number -> index in rows

	// Column mapping: assignee -> issue numbers, in row order
	columns map[string][]int
}

// New creates a new empty Store instance.
func New() *Store {
	return &Store{
		byIssue: make(map[int]int),
		columns: make(map[string][]int),
	}
}

// SetSource records where the rows were read from.
func (s *Store) SetSource(path string) {
	s.source = path
}

// Source returns where the rows were read from.
func (s *Store) Source() string {
	return s.source
}

// SetViewerLogin sets the login used by Mine.
func (s *Store) SetViewerLogin(login string) {
	s.viewerLogin = login
}

// ViewerLogin returns the login used by Mine.
func (s *Store) ViewerLogin() string {
	return s.viewerLogin
}

// Load replaces the stored rows. A later row for the same issue replaces
// an earlier one in place.
func (s *Store) Load(rows []report.Row) {
	s.Clear()
	for _, r := range rows {
		if idx, ok := s.byIssue[r.Number]; ok {
			s.rows[idx] = r
			continue
		}
		s.byIssue[r.Number] = len(s.rows)
		s.rows = append(s.rows, r)
	}
	s.rebuildColumns()
}

// Len returns the number of rows.
func (s *Store) Len() int {
	return len(s.rows)
}

// Rows returns a copy of all rows in digest order.
func (s *Store) Rows() []report.Row {
	rows := make([]report.Row, len(s.rows))
	copy(rows, s.rows)
	return rows
}

// Get returns the row of an issue, or ErrRowNotFound.
func (s *Store) Get(number int) (report.Row, error) {
	idx, ok := s.byIssue[number]
	if !ok {
		return report.Row{}, ErrRowNotFound
	}
	return s.rows[idx], nil
}

// ColumnKeys returns the column keys: assignees sorted case-insensitively,
// then UnassignedKey if any row has no assignee.
func (s *Store) ColumnKeys() []string {
	keys := make([]string, 0, len(s.columns))
	for k := range s.columns {
		if k != UnassignedKey {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
	})
	if _, ok := s.columns[UnassignedKey]; ok {
		keys = append(keys, UnassignedKey)
	}
	return keys
}

// Column returns the issue numbers in a column, in digest order.
func (s *Store) Column(key string) []int {
	ids, ok := s.columns[key]
	if !ok {
		return []int{}
	}
	result := make([]int, len(ids))
	copy(result, ids)
	return result
}

// Urgent returns the rows whose release date is close, in digest order.
func (s *Store) Urgent() []report.Row {
	var rows []report.Row
	for _, r := range s.rows {
		if r.Offset != "" {
			rows = append(rows, r)
		}
	}
	return rows
}

// Mine reports whether a row is assigned to the viewer. Always true when
// no viewer login is set.
func (s *Store) Mine(r report.Row) bool {
	return s.viewerLogin == "" || strings.EqualFold(r.Assignee, s.viewerLogin)
}

// Matches reports whether a row contains text in any visible cell,
// case-insensitively. Empty text matches every row.
func Matches(r report.Row, text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return true
	}
	for _, cell := range r.Cells() {
		if strings.Contains(strings.ToLower(cell), text) {
			return true
		}
	}
	return false
}

// rebuildColumns groups rows by assignee. Rows without one go to UnassignedKey.
func (s *Store) rebuildColumns() {
	s.columns = make(map[string][]int)
	for _, r := range s.rows {
		key := r.Assignee
		if key == "" {
			key = UnassignedKey
		}
		s.columns[key] = append(s.columns[key], r.Number)
	}
}

// Clear drops all rows, preserving source and viewer login.
func (s *Store) Clear() {
	s.rows = nil
	s.byIssue = make(map[int]int)
	s.columns = make(map[string][]int)
}

// Reset completely resets the store to initial state.
func (s *Store) Reset() {
	s.source = ""
	s.viewerLogin = ""
	s.Clear()
}
