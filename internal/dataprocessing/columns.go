package dataprocessing

import (
	"errors"
	"fmt"
	"strings"
)

// Column names of the movie dataset.
const (
	ColTitle       = "title"
	ColVoteAverage = "vote_average"
	ColVoteCount   = "vote_count"
	ColPopularity  = "popularity"
	ColReleaseDate = "release_date"
)

// RequiredColumns lists the columns a dataset header must contain.
var RequiredColumns = []string{ColTitle, ColVoteAverage, ColVoteCount, ColPopularity, ColReleaseDate}

var (
	// ErrMissingColumns is matched by every MissingColumnsError.
	ErrMissingColumns = errors.New("missing required columns")
	// ErrEmptyInput is returned when the input has no header row.
	ErrEmptyInput = errors.New("input has no header row")
)

// MissingColumnsError names every required column absent from a header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Columns, ", "))
}

// Is makes errors.Is(err, ErrMissingColumns) hold.
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

type columnIndices struct {
	title       int
	voteAverage int
	voteCount   int
	popularity  int
	releaseDate int
}

// cleanColumnName strips a UTF-8 BOM and zero-width characters, trims
// whitespace and lowercases.
func cleanColumnName(col string) string {
	col = strings.TrimSpace(col)
	col = strings.TrimLeft(col, "\ufeff\u200b\u200c\u200d\u2060")
	return strings.ToLower(strings.TrimSpace(col))
}

// findColumns maps the required columns to their positions in header. The
// first occurrence of a duplicated name wins.
func findColumns(header []string) (columnIndices, []string, error) {
	names := make([]string, len(header))
	pos := make(map[string]int, len(header))
	for i, col := range header {
		names[i] = cleanColumnName(col)
		if _, seen := pos[names[i]]; !seen {
			pos[names[i]] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	idx := columnIndices{
		title:       lookup(ColTitle),
		voteAverage: lookup(ColVoteAverage),
		voteCount:   lookup(ColVoteCount),
		popularity:  lookup(ColPopularity),
		releaseDate: lookup(ColReleaseDate),
	}
	if len(missing) > 0 {
		return idx, names, &MissingColumnsError{Columns: missing}
	}
	return idx, names, nil
}

// cell returns the value at i, or "" when the row is too short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// nullTokens are the cell values the pandas CSV reader treats as missing by
// default. Matching is exact after trimming.
var nullTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// isNull reports whether a cell counts as missing.
func isNull(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	_, ok := nullTokens[s]
	return ok
}
