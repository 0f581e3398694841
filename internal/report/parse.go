package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var issueCellPattern = regexp.MustCompile(`^\[#(\d+)\]\((.*)\)$`)

// Parse reads a digest written by Write back into rows.
func Parse(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		// Header and separator
		if lineNo <= 2 || line == "" {
			continue
		}

		row, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ParseFile reads the digest at path.
func ParseFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open digest: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseRow(line string) (Row, error) {
	if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
		return Row{}, fmt.Errorf("not a table row: %q", line)
	}
	cells := strings.Split(line[1:len(line)-1], "|")
	if len(cells) != 8 {
		return Row{}, fmt.Errorf("want 8 cells, got %d", len(cells))
	}
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}

	m := issueCellPattern.FindStringSubmatch(cells[0])
	if m == nil {
		return Row{}, fmt.Errorf("bad issue cell %q", cells[0])
	}
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return Row{}, fmt.Errorf("bad issue number %q", m[1])
	}

	return Row{
		Number:   number,
		URL:      m[2],
		Author:   cells[1],
		Package:  cells[2],
		Assignee: cells[3],
		Advice:   cells[4],
		Created:  cells[5],
		Target:   cells[6],
		Offset:   cells[7],
	}, nil
}
