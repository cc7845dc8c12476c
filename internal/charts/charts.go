// Package charts renders the movie dataset views as PNG images.
package charts

import (
	"errors"
	"fmt"
)

// Chart names, in report order.
const (
	RatingDistribution = "rating_distribution"
	MoviesPerYear      = "movies_per_year"
	TopPopular         = "top_popular"
	TopRated           = "top_rated"
	PopularityVsVotes  = "popularity_vs_votes"
	RatingVsVotes      = "rating_vs_votes"
)

// Names lists every chart in the order it appears in the report.
var Names = []string{
	RatingDistribution,
	MoviesPerYear,
	TopPopular,
	TopRated,
	PopularityVsVotes,
	RatingVsVotes,
}

// ErrNoData is wrapped when a view has nothing to plot.
var ErrNoData = errors.New("no data to plot")

// ErrRenderPanic is wrapped when the plotting library panics while drawing
// a chart.
var ErrRenderPanic = errors.New("chart renderer panicked")

// ErrUnknownChart is returned for a name not in Names.
var ErrUnknownChart = errors.New("unknown chart")

// Chart is one rendered image. Err is set instead of PNG when the chart
// could not be drawn.
type Chart struct {
	Name  string
	Title string
	PNG   []byte
	Err   error
}

// Options controls chart content and size.
type Options struct {
	TopN          int
	LabelWidth    int
	HistogramBins int
	// Width and Height are in inches.
	Width  float64
	Height float64
}

// DefaultOptions matches the report defaults.
func DefaultOptions() Options {
	return Options{TopN: 10, LabelWidth: 20, HistogramBins: 20, Width: 10, Height: 6}
}

// Title returns the heading used for a chart name.
func Title(name string, topN int) string {
	switch name {
	case RatingDistribution:
		return "Distribution of Movie Ratings"
	case MoviesPerYear:
		return "Number of Movies Released Per Year"
	case TopPopular:
		return fmt.Sprintf("Top %d Most Popular Movies", topN)
	case TopRated:
		return fmt.Sprintf("Top %d Highest Rated Movies", topN)
	case PopularityVsVotes:
		return "Popularity vs Vote Count"
	case RatingVsVotes:
		return "Vote Average vs Vote Count"
	}
	return name
}

// Known reports whether name is a chart this package can render.
func Known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
