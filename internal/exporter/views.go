package exporter

import (
	"tmdbreport/internal/config"
	"tmdbreport/internal/dataprocessing"
	"tmdbreport/pkg/contracts/domain"
)

// View is one exported table. Cells are string, float64, int64, int or nil
// for unknown values.
type View struct {
	Name    string
	File    string
	Headers []string
	Rows    [][]any
}

var movieHeaders = []string{"title", "vote_average", "vote_count", "popularity", "release_date", "release_year"}

func movieRow(m domain.Movie) []any {
	row := []any{m.Title, m.VoteAverage, nil, nil, m.ReleaseDate, nil}
	if m.HasVoteCount {
		row[2] = m.VoteCount
	}
	if m.HasPopularity() {
		row[3] = m.Popularity
	}
	if y, ok := m.Year(); ok {
		row[5] = y
	}
	return row
}

func movieView(name, file string, movies []domain.Movie) View {
	v := View{Name: name, File: file, Headers: movieHeaders, Rows: make([][]any, len(movies))}
	for i, m := range movies {
		v.Rows[i] = movieRow(m)
	}
	return v
}

// BuildViews returns the cleaned dataset, the top-N popular and rated
// movies and the per-year counts, in that order.
func BuildViews(ds *dataprocessing.Dataset, topN int) []View {
	popular, _ := ds.RankBy(dataprocessing.RankByPopularity, topN)
	rated, _ := ds.RankBy(dataprocessing.RankByVoteAverage, topN)

	perYear := View{
		Name:    "per_year",
		File:    config.PerYearName,
		Headers: []string{"year", "count"},
	}
	for _, yc := range ds.CountsPerYear() {
		perYear.Rows = append(perYear.Rows, []any{yc.Year, yc.Count})
	}

	return []View{
		movieView("movies", config.CleanedCSVName, ds.Movies()),
		movieView("top_popular", config.TopPopularName, popular),
		movieView("top_rated", config.TopRatedName, rated),
		perYear,
	}
}
