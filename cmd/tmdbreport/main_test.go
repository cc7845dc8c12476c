package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmdbreport/internal/config"
	"tmdbreport/internal/dataprocessing"
	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/shared/testutil"
	"tmdbreport/pkg/contracts"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TMDB_LOGGING_LEVEL", "error")
	var out bytes.Buffer
	root := newCLI(&out).root()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, contracts.GetVersionString()+"\n", out)

	out, err = run(t, "version", "--full")
	require.NoError(t, err)
	assert.Contains(t, out, "commit:")
}

func TestReportCommand(t *testing.T) {
	input := testutil.WriteMoviesCSV(t, testutil.SampleMovies())
	base := t.TempDir()

	out, err := run(t, "report", input, "--base-dir", base, "-o", "site/report.html", "--title", "Sample Movies", "-n", "3")
	require.NoError(t, err)

	path := filepath.Join(base, "site", "report.html")
	assert.Contains(t, out, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	assert.Equal(t, "Sample Movies", doc.Find("h1").Text())
	assert.Equal(t, "Top 3 Most Popular Movies", doc.Find("section#top_popular h2").Text())
}

func TestExportCommand(t *testing.T) {
	input := testutil.WriteMoviesCSV(t, testutil.SampleMovies())
	base := t.TempDir()

	out, err := run(t, "export", input, "--base-dir", base, "-d", "out", "-f", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	assert.FileExists(t, filepath.Join(base, "out", config.CleanedCSVName))
	assert.NoFileExists(t, filepath.Join(base, "out", config.WorkbookName))
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	input := testutil.WriteMoviesCSV(t, testutil.SampleMovies())

	_, err := run(t, "export", input, "--base-dir", t.TempDir(), "-f", "json")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
}

func TestInspectCommand(t *testing.T) {
	input := testutil.WriteMoviesCSV(t, testutil.SampleMovies())

	out, err := run(t, "inspect", input, "--base-dir", t.TempDir(), "--rows", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "First 2 rows of the dataset:")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Beta")
	assert.NotContains(t, out, "Delta")
	assert.Contains(t, out, "title, vote_average, vote_count, popularity, release_date")
	assert.Contains(t, out, "Rows read: 6, kept: 5, dropped: 1, unreadable dates: 1")
	assert.Contains(t, out, "Conclusions:")
}

func TestInspectCommand_RowsOutOfRange(t *testing.T) {
	input := testutil.WriteMoviesCSV(t, testutil.SampleMovies())

	_, err := run(t, "inspect", input, "--base-dir", t.TempDir(), "--rows", "0")
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
}

func TestInputFromEnvironment(t *testing.T) {
	input := testutil.WriteMoviesCSV(t, testutil.SampleMovies())
	t.Setenv("TMDB_INPUT_PATH", input)

	out, err := run(t, "inspect", "--base-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "First 5 rows of the dataset:")
}

func TestMissingInput(t *testing.T) {
	t.Setenv("TMDB_INPUT_PATH", "")

	_, err := run(t, "report", "--base-dir", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
}

func TestMissingColumnIsFatal(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(input, []byte("title,vote_average\nAlpha,7.5\n"), 0o644))

	_, err := run(t, "report", input, "--base-dir", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataprocessing.ErrMissingColumns)
	assert.NoFileExists(t, filepath.Join(dir, "tmdb_report.html"))
}

func TestWriteInspection_UnknownValues(t *testing.T) {
	ds := dataprocessing.NewDataset(nil)
	var out bytes.Buffer
	require.NoError(t, writeInspection(&out, ds, 5, 10))
	assert.Contains(t, out.String(), "First 0 rows of the dataset:")
}
