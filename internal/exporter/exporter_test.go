package exporter

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tmdbreport/internal/config"
	"tmdbreport/internal/dataprocessing"
	apperrors "tmdbreport/internal/errors"
	"tmdbreport/internal/shared/testutil"
)

func sampleDataset(t *testing.T) *dataprocessing.Dataset {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	p := dataprocessing.NewPreparer(logger, dataprocessing.PreparerConfig{})
	ds, err := p.Load(context.Background(), strings.NewReader(testutil.MoviesCSV(t, testutil.SampleMovies())))
	require.NoError(t, err)
	return ds
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\ufeff"))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExport_CSVViews(t *testing.T) {
	dir := t.TempDir()
	logger, handler := testutil.NewTestLogger(t)
	exp := New(logger, nil, nil)

	files, err := exp.Export(context.Background(), sampleDataset(t), Options{
		Dir:     dir,
		Formats: []string{FormatCSV},
		TopN:    2,
	})
	require.NoError(t, err)
	assert.Len(t, files, 4)

	movies := readCSV(t, filepath.Join(dir, config.CleanedCSVName))
	require.Len(t, movies, 6)
	assert.Equal(t, []string{"title", "vote_average", "vote_count", "popularity", "release_date", "release_year"}, movies[0])
	assert.Equal(t, []string{"Alpha", "7.5", "1200", "85.2", "2020-05-01", "2020"}, movies[1])
	assert.Equal(t, []string{"Epsilon", "5.9", "0", "3.1", "not a date", ""}, movies[4])

	popular := readCSV(t, filepath.Join(dir, config.TopPopularName))
	require.Len(t, popular, 3)
	assert.Equal(t, "Delta", popular[1][0])
	assert.Equal(t, "Alpha", popular[2][0])

	rated := readCSV(t, filepath.Join(dir, config.TopRatedName))
	assert.Equal(t, "Beta", rated[1][0])

	perYear := readCSV(t, filepath.Join(dir, config.PerYearName))
	assert.Equal(t, [][]string{{"year", "count"}, {"1999", "1"}, {"2005", "1"}, {"2020", "2"}}, perYear)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "export complete")
}

func TestExport_BOMPrefix(t *testing.T) {
	dir := t.TempDir()
	exp := New(nil, nil, nil)

	_, err := exp.Export(context.Background(), sampleDataset(t), Options{
		Dir:     dir,
		Formats: []string{FormatCSV},
		TopN:    3,
		WithBOM: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, config.CleanedCSVName))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\ufefftitle,"))
}

func TestExport_Workbook(t *testing.T) {
	dir := t.TempDir()
	exp := New(nil, nil, nil)

	files, err := exp.Export(context.Background(), sampleDataset(t), Options{
		Dir:     dir,
		Formats: []string{FormatXLSX},
		TopN:    2,
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, config.WorkbookName)}, files)

	f, err := excelize.OpenFile(files[0])
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"movies", "top_popular", "top_rated", "per_year"}, f.GetSheetList())

	rows, err := f.GetRows("movies")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Alpha", rows[1][0])
	assert.Equal(t, "7.5", rows[1][1])

	year, err := f.GetCellValue("per_year", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1999", year)
}

func TestExport_UnsupportedFormat(t *testing.T) {
	exp := New(nil, nil, nil)

	_, err := exp.Export(context.Background(), sampleDataset(t), Options{
		Dir:     t.TempDir(),
		Formats: []string{"parquet"},
		TopN:    2,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
}

func TestExport_WriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	exp := New(nil, nil, nil)

	_, err := exp.Export(context.Background(), sampleDataset(t), Options{
		Dir:     filepath.Join(blocker, "out"),
		Formats: []string{FormatCSV},
		TopN:    2,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeStorage, apperrors.TypeOf(err))
}

func TestCSVWriter_StreamWriter(t *testing.T) {
	w := NewCSVWriter(t.TempDir(), nil)

	stream, err := w.CreateStreamWriter("nested/out.csv", []string{"a", "b"}, false)
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"1", "x,y"}))
	require.NoError(t, stream.Close())

	assert.Equal(t, [][]string{{"a", "b"}, {"1", "x,y"}}, readCSV(t, stream.Path()))
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", formatCell(nil))
	assert.Equal(t, "7.25", formatCell(7.25))
	assert.Equal(t, "120", formatCell(int64(120)))
	assert.Equal(t, "2020", formatCell(2020))
	assert.Equal(t, "Alpha", formatCell("Alpha"))
}
