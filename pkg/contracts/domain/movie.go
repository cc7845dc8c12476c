package domain

import (
	"math"
	"time"
)

// Movie is one retained row of the movie dataset.
type Movie struct {
	Title       string
	VoteAverage float64

	// VoteCount is meaningful only when HasVoteCount is set.
	VoteCount    int64
	HasVoteCount bool

	// Popularity is NaN when the source cell was empty or unparsable.
	Popularity float64

	ReleaseDate string
	Released    time.Time
	Row         int
}

// Year returns the calendar year of the release date. The second result is
// false when the release date could not be parsed.
func (m Movie) Year() (int, bool) {
	if m.Released.IsZero() {
		return 0, false
	}
	return m.Released.Year(), true
}

// HasPopularity reports whether the popularity value is known.
func (m Movie) HasPopularity() bool {
	return !math.IsNaN(m.Popularity)
}

// MovieView is the JSON shape of a movie. Nullable fields are pointers so
// unknown values encode as null instead of NaN or zero.
type MovieView struct {
	Title       string   `json:"title"`
	VoteAverage float64  `json:"vote_average"`
	VoteCount   *int64   `json:"vote_count"`
	Popularity  *float64 `json:"popularity"`
	ReleaseDate string   `json:"release_date"`
	ReleaseYear *int     `json:"release_year"`
}

// View converts the movie to its JSON shape.
func (m Movie) View() MovieView {
	v := MovieView{
		Title:       m.Title,
		VoteAverage: m.VoteAverage,
		ReleaseDate: m.ReleaseDate,
	}
	if m.HasVoteCount {
		vc := m.VoteCount
		v.VoteCount = &vc
	}
	if m.HasPopularity() {
		p := m.Popularity
		v.Popularity = &p
	}
	if y, ok := m.Year(); ok {
		v.ReleaseYear = &y
	}
	return v
}

// YearCount is the number of movies released in one calendar year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// HistogramBin is one equal-width bucket of a rating distribution.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Point is an (x, y) pair for scatter views.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LoadStats describes what happened while preparing a dataset.
type LoadStats struct {
	RowsRead        int `json:"rows_read"`
	Retained        int `json:"retained"`
	Dropped         int `json:"dropped"`
	UnparsableDates int `json:"unparsable_dates"`
}

// Summary holds the headline figures shown at the end of a report.
type Summary struct {
	Stats         LoadStats `json:"stats"`
	HasYears      bool      `json:"has_years"`
	FirstYear     int       `json:"first_year,omitempty"`
	LastYear      int       `json:"last_year,omitempty"`
	PeakYear      int       `json:"peak_year,omitempty"`
	PeakYearCount int       `json:"peak_year_count,omitempty"`
	RatingLow     float64   `json:"rating_low"`
	RatingHigh    float64   `json:"rating_high"`
	TopN          int       `json:"top_n"`
	TopOverlap    int       `json:"top_overlap"`
	OverlapTitles []string  `json:"overlap_titles"`
	HiddenGems    []string  `json:"hidden_gems"`

	// VotePopularityCorrelation is the Pearson coefficient between vote
	// count and popularity; zero unless HasCorrelation.
	VotePopularityCorrelation float64 `json:"vote_popularity_correlation"`
	HasCorrelation            bool    `json:"has_correlation"`
}
