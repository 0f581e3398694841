package store

import (
	"testing"

	"github.com/h0rv/reltriage/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test fixtures
func createTestRows() []report.Row {
	return []report.Row{
		{Number: 11, URL: "https://github.com/Azure/sdk-release-request/issues/11", Author: "alice", Package: "azure-mgmt-network", Assignee: "msyyc", Advice: "new issue.", Created: "05-01", Target: "05-12", Offset: "2"},
		{Number: 12, URL: "https://github.com/Azure/sdk-release-request/issues/12", Author: "bob", Package: "azure-mgmt-compute", Assignee: "Bob", Created: "05-02", Target: "fail to get."},
		{Number: 13, URL: "https://github.com/Azure/sdk-release-request/issues/13", Author: "carol", Package: "azure-mgmt-storage", Assignee: "msyyc", Advice: "new comment.", Created: "05-03", Target: "06-01"},
		{Number: 14, URL: "https://github.com/Azure/sdk-release-request/issues/14", Author: "dave", Package: "", Created: "05-04", Target: "05-10", Offset: "0"},
	}
}

func TestNew(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Rows())
	assert.Empty(t, s.ColumnKeys())
}

func TestLoad(t *testing.T) {
	s := New()
	s.Load(createTestRows())
	assert.Equal(t, 4, s.Len())

	rows := s.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, 11, rows[0].Number)
	assert.Equal(t, 14, rows[3].Number)

	// Loading again replaces, not appends
	s.Load(createTestRows()[:1])
	assert.Equal(t, 1, s.Len())
}

func TestLoad_DuplicateIssueReplacesInPlace(t *testing.T) {
	rows := createTestRows()
	updated := rows[0]
	updated.Advice = "new comment."
	rows = append(rows, updated)

	s := New()
	s.Load(rows)
	assert.Equal(t, 4, s.Len())

	got, err := s.Get(11)
	require.NoError(t, err)
	assert.Equal(t, "new comment.", got.Advice)
	assert.Equal(t, 11, s.Rows()[0].Number)
}

func TestGet(t *testing.T) {
	s := New()
	s.Load(createTestRows())

	row, err := s.Get(12)
	require.NoError(t, err)
	assert.Equal(t, "azure-mgmt-compute", row.Package)

	_, err = s.Get(99)
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestRows_ReturnsCopy(t *testing.T) {
	s := New()
	s.Load(createTestRows())

	rows := s.Rows()
	rows[0].Package = "changed"

	got, err := s.Get(11)
	require.NoError(t, err)
	assert.Equal(t, "azure-mgmt-network", got.Package)
}

func TestColumns(t *testing.T) {
	s := New()
	s.Load(createTestRows())

	assert.Equal(t, []string{"Bob", "msyyc", UnassignedKey}, s.ColumnKeys())
	assert.Equal(t, []int{11, 13}, s.Column("msyyc"))
	assert.Equal(t, []int{12}, s.Column("Bob"))
	assert.Equal(t, []int{14}, s.Column(UnassignedKey))
	assert.Equal(t, []int{}, s.Column("nobody"))

	// Column returns a copy
	col := s.Column("msyyc")
	col[0] = 0
	assert.Equal(t, []int{11, 13}, s.Column("msyyc"))
}

func TestUrgent(t *testing.T) {
	s := New()
	s.Load(createTestRows())

	urgent := s.Urgent()
	require.Len(t, urgent, 2)
	assert.Equal(t, 11, urgent[0].Number)
	assert.Equal(t, 14, urgent[1].Number)
}

func TestMine(t *testing.T) {
	s := New()
	rows := createTestRows()
	assert.True(t, s.Mine(rows[1]), "everything is mine without a viewer")

	s.SetViewerLogin("MSYYC")
	assert.True(t, s.Mine(rows[0]))
	assert.False(t, s.Mine(rows[1]))
	assert.False(t, s.Mine(rows[3]))
}

func TestMatches(t *testing.T) {
	row := createTestRows()[0]
	assert.True(t, Matches(row, ""))
	assert.True(t, Matches(row, "NETWORK"))
	assert.True(t, Matches(row, "#11"))
	assert.True(t, Matches(row, " alice "))
	assert.False(t, Matches(row, "compute"))
}

func TestClearAndReset(t *testing.T) {
	s := New()
	s.SetSource("common.md")
	s.SetViewerLogin("msyyc")
	s.Load(createTestRows())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.ColumnKeys())
	assert.Equal(t, "common.md", s.Source())
	assert.Equal(t, "msyyc", s.ViewerLogin())

	s.Reset()
	assert.Equal(t, "", s.Source())
	assert.Equal(t, "", s.ViewerLogin())
}
