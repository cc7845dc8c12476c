package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// MovieHeader is the column order used by the fixture builders.
var MovieHeader = []string{"title", "vote_average", "vote_count", "popularity", "release_date"}

// MovieRow is one fixture row. Empty strings become empty CSV cells.
type MovieRow struct {
	Title       string
	VoteAverage string
	VoteCount   string
	Popularity  string
	ReleaseDate string
}

func (r MovieRow) record() []string {
	return []string{r.Title, r.VoteAverage, r.VoteCount, r.Popularity, r.ReleaseDate}
}

// SampleMovies is a small dataset covering several years, with one row that
// lacks a rating and one with an unparsable date.
func SampleMovies() []MovieRow {
	return []MovieRow{
		{"Alpha", "7.5", "1200", "85.2", "2020-05-01"},
		{"Beta", "8.1", "980", "42.0", "1999-11-19"},
		{"Gamma", "", "10", "12.5", "2001-01-01"},
		{"Delta", "6.4", "530", "120.9", "2020-12-24"},
		{"Epsilon", "5.9", "0", "3.1", "not a date"},
		{"Zeta Is A Rather Long Movie Title", "6.9", "250", "64.0", "2005-07-15"},
	}
}

// MoviesCSV renders rows as CSV text with the standard header.
func MoviesCSV(t testing.TB, rows []MovieRow) string {
	t.Helper()

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(MovieHeader); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, r := range rows {
		if err := w.Write(r.record()); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv: %v", err)
	}
	return b.String()
}

// WriteMoviesCSV writes rows to a CSV file in a temporary directory and
// returns its path.
func WriteMoviesCSV(t testing.TB, rows []MovieRow) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tmdb_movies.csv")
	if err := os.WriteFile(path, []byte(MoviesCSV(t, rows)), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// WriteMoviesXLSX writes rows to the first sheet of a workbook in a
// temporary directory and returns its path.
func WriteMoviesXLSX(t testing.TB, rows []MovieRow) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	write := func(rowNum int, values []string) {
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			t.Fatalf("write row %d: %v", rowNum, err)
		}
	}

	write(1, MovieHeader)
	for i, r := range rows {
		write(i+2, r.record())
	}

	path := filepath.Join(t.TempDir(), "tmdb_movies.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}
