package dataprocessing

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmdbreport/internal/shared/testutil"
	"tmdbreport/pkg/contracts/domain"
)

func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	p, _ := newTestPreparer(t, PreparerConfig{})
	ds, err := p.Load(context.Background(), strings.NewReader(testutil.MoviesCSV(t, testutil.SampleMovies())))
	require.NoError(t, err)
	return ds
}

func TestCountsPerYear_SparseAndAscending(t *testing.T) {
	ds := sampleDataset(t)

	assert.Equal(t, []domain.YearCount{
		{Year: 1999, Count: 1},
		{Year: 2005, Count: 1},
		{Year: 2020, Count: 2},
	}, ds.CountsPerYear())
}

func TestYearRange(t *testing.T) {
	first, last, ok := sampleDataset(t).YearRange()
	assert.True(t, ok)
	assert.Equal(t, 1999, first)
	assert.Equal(t, 2020, last)

	_, _, ok = NewDataset([]domain.Movie{movie("A", 1, 1)}).YearRange()
	assert.True(t, ok)

	undated := domain.Movie{Title: "A", VoteAverage: 1, ReleaseDate: "someday"}
	_, _, ok = NewDataset([]domain.Movie{undated}).YearRange()
	assert.False(t, ok)
}

func TestRatingHistogram(t *testing.T) {
	ds := NewDataset([]domain.Movie{
		movie("A", 2, 1),
		movie("B", 4, 1),
		movie("C", 6, 1),
		movie("D", 10, 1),
		movie("E", 10, 1),
	})

	bins := ds.RatingHistogram(4)

	require.Len(t, bins, 4)
	assert.Equal(t, 2.0, bins[0].Low)
	assert.Equal(t, 10.0, bins[3].High)
	assert.Equal(t, []int{1, 1, 1, 2}, []int{bins[0].Count, bins[1].Count, bins[2].Count, bins[3].Count})

	total := 0
	for _, b := range ds.RatingHistogram(20) {
		total += b.Count
	}
	assert.Equal(t, ds.Len(), total)
}

func TestRatingHistogram_SingleValueAndEmpty(t *testing.T) {
	bins := NewDataset([]domain.Movie{movie("A", 7, 1), movie("B", 7, 1)}).RatingHistogram(2)
	require.Len(t, bins, 2)
	assert.Equal(t, 6.5, bins[0].Low)
	assert.Equal(t, 7.5, bins[1].High)
	assert.Equal(t, 0, bins[0].Count)
	assert.Equal(t, 2, bins[1].Count)

	assert.Empty(t, NewDataset(nil).RatingHistogram(10))
	assert.Empty(t, sampleDataset(t).RatingHistogram(0))
}

func TestScatterPoints(t *testing.T) {
	ds := sampleDataset(t)

	pts, err := ds.ScatterPoints(ColVoteCount, ColPopularity)
	require.NoError(t, err)
	assert.Len(t, pts, 5)
	assert.Equal(t, domain.Point{X: 1200, Y: 85.2}, pts[0])

	noPopularity := domain.Movie{Title: "A", VoteAverage: 5, Popularity: math.NaN(), ReleaseDate: "2001"}
	pts, err = NewDataset([]domain.Movie{noPopularity}).ScatterPoints(ColVoteCount, ColPopularity)
	require.NoError(t, err)
	assert.Empty(t, pts)

	_, err = ds.ScatterPoints("budget", ColPopularity)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSummarize(t *testing.T) {
	ds := sampleDataset(t)

	s := ds.Summarize(2)

	assert.Equal(t, ds.Stats(), s.Stats)
	assert.True(t, s.HasYears)
	assert.Equal(t, 1999, s.FirstYear)
	assert.Equal(t, 2020, s.LastYear)
	assert.Equal(t, 2020, s.PeakYear)
	assert.Equal(t, 2, s.PeakYearCount)
	assert.Equal(t, 6.4, s.RatingLow)
	assert.Equal(t, 7.5, s.RatingHigh)
	assert.Equal(t, 2, s.TopN)
	// Popular: Delta, Alpha. Rated: Beta, Alpha.
	assert.Equal(t, []string{"Alpha"}, s.OverlapTitles)
	assert.Equal(t, 1, s.TopOverlap)
	assert.Equal(t, []string{"Beta"}, s.HiddenGems)
	assert.True(t, s.HasCorrelation)
	assert.GreaterOrEqual(t, s.VotePopularityCorrelation, -1.0)
	assert.LessOrEqual(t, s.VotePopularityCorrelation, 1.0)
}

func TestSummarize_PeakYearTieGoesToEarliest(t *testing.T) {
	at := func(year int) time.Time { return time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC) }
	movies := []domain.Movie{
		{Title: "A", VoteAverage: 1, ReleaseDate: "x", Released: at(2010)},
		{Title: "B", VoteAverage: 1, ReleaseDate: "x", Released: at(2003)},
		{Title: "C", VoteAverage: 1, ReleaseDate: "x", Released: at(2010)},
		{Title: "D", VoteAverage: 1, ReleaseDate: "x", Released: at(2003)},
	}

	s := NewDataset(movies).Summarize(3)

	assert.Equal(t, 2003, s.PeakYear)
	assert.Equal(t, 2, s.PeakYearCount)
}

func TestSummarize_Empty(t *testing.T) {
	s := NewDataset(nil).Summarize(10)

	assert.False(t, s.HasYears)
	assert.False(t, s.HasCorrelation)
	assert.NotNil(t, s.OverlapTitles)
	assert.NotNil(t, s.HiddenGems)
	assert.Zero(t, s.TopOverlap)
}

func TestNewDataset_AppliesRetentionRule(t *testing.T) {
	ds := NewDataset([]domain.Movie{
		movie("Kept", 5, 1),
		movie(" ", 5, 1),
		movie("NaN", math.NaN(), 1),
		{Title: "No Date", VoteAverage: 5},
		{Title: "N/A", ReleaseDate: "2010-01-01", VoteAverage: 5},
		{Title: "Null Date", ReleaseDate: "NULL", VoteAverage: 5},
	})

	assert.Equal(t, []string{"Kept"}, titles(ds.Movies()))
	assert.Equal(t, domain.LoadStats{RowsRead: 6, Retained: 1, Dropped: 5}, ds.Stats())
	assert.Equal(t, 1, ds.Movies()[0].Row)
}

func TestHead(t *testing.T) {
	ds := sampleDataset(t)

	assert.Equal(t, []string{"Alpha", "Beta"}, titles(ds.Head(2)))
	assert.Len(t, ds.Head(100), ds.Len())
	assert.Empty(t, ds.Head(0))
}
