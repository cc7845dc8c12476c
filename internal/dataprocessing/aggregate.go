package dataprocessing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"tmdbreport/pkg/contracts/domain"
)

// CountsPerYear returns the number of dated movies per release year in
// ascending year order. Years without movies are absent.
func (d *Dataset) CountsPerYear() []domain.YearCount {
	counts := make(map[int]int)
	for _, m := range d.movies {
		if y, ok := m.Year(); ok {
			counts[y]++
		}
	}

	out := make([]domain.YearCount, 0, len(counts))
	for y, c := range counts {
		out = append(out, domain.YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// YearRange returns the first and last release year. ok is false when no
// movie has a parseable date.
func (d *Dataset) YearRange() (first, last int, ok bool) {
	for _, m := range d.movies {
		y, dated := m.Year()
		if !dated {
			continue
		}
		if !ok || y < first {
			first = y
		}
		if !ok || y > last {
			last = y
		}
		ok = true
	}
	return first, last, ok
}

// RatingHistogram splits the vote average range into equal-width bins. The
// last bin includes its upper edge. A single distinct rating r spans
// [r-0.5, r+0.5].
func (d *Dataset) RatingHistogram(bins int) []domain.HistogramBin {
	if bins <= 0 || len(d.movies) == 0 {
		return []domain.HistogramBin{}
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, m := range d.movies {
		lo = math.Min(lo, m.VoteAverage)
		hi = math.Max(hi, m.VoteAverage)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	out := make([]domain.HistogramBin, bins)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[bins-1].High = hi

	for _, m := range d.movies {
		i := int((m.VoteAverage - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i].Count++
	}
	return out
}

// ScatterPoints pairs two numeric columns, skipping movies where either
// value is unknown. Accepted columns are vote_count, popularity and
// vote_average.
func (d *Dataset) ScatterPoints(x, y string) ([]domain.Point, error) {
	for _, col := range []string{x, y} {
		if _, err := numericColumn(col); err != nil {
			return nil, err
		}
	}

	out := make([]domain.Point, 0, len(d.movies))
	for _, m := range d.movies {
		xv, xok := numericValue(m, x)
		yv, yok := numericValue(m, y)
		if xok && yok {
			out = append(out, domain.Point{X: xv, Y: yv})
		}
	}
	return out, nil
}

func numericColumn(col string) (string, error) {
	switch col {
	case ColVoteCount, ColPopularity, ColVoteAverage:
		return col, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, col)
}

func numericValue(m domain.Movie, col string) (float64, bool) {
	switch col {
	case ColVoteCount:
		return float64(m.VoteCount), m.HasVoteCount
	case ColPopularity:
		return m.Popularity, m.HasPopularity()
	case ColVoteAverage:
		return m.VoteAverage, true
	}
	return 0, false
}

// Summarize computes the headline figures for the report.
func (d *Dataset) Summarize(topN int) domain.Summary {
	s := domain.Summary{
		Stats:         d.stats,
		TopN:          topN,
		OverlapTitles: []string{},
		HiddenGems:    []string{},
	}

	s.FirstYear, s.LastYear, s.HasYears = d.YearRange()
	for _, yc := range d.CountsPerYear() {
		// Ascending order, so the earliest year wins ties.
		if yc.Count > s.PeakYearCount {
			s.PeakYear, s.PeakYearCount = yc.Year, yc.Count
		}
	}

	if len(d.movies) > 0 {
		votes := make([]float64, len(d.movies))
		for i, m := range d.movies {
			votes[i] = m.VoteAverage
		}
		sort.Float64s(votes)
		s.RatingLow = stat.Quantile(0.25, stat.Empirical, votes, nil)
		s.RatingHigh = stat.Quantile(0.75, stat.Empirical, votes, nil)
	}

	popular, _ := d.RankBy(RankByPopularity, topN)
	rated, _ := d.RankBy(RankByVoteAverage, topN)
	inPopular := make(map[int]bool, len(popular))
	for _, m := range popular {
		inPopular[m.Row] = true
	}
	inRated := make(map[int]bool, len(rated))
	for _, m := range rated {
		inRated[m.Row] = true
		if !inPopular[m.Row] {
			s.HiddenGems = append(s.HiddenGems, m.Title)
		}
	}
	for _, m := range popular {
		if inRated[m.Row] {
			s.OverlapTitles = append(s.OverlapTitles, m.Title)
		}
	}
	s.TopOverlap = len(s.OverlapTitles)

	if pts, err := d.ScatterPoints(ColVoteCount, ColPopularity); err == nil && len(pts) >= 2 {
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for i, p := range pts {
			xs[i], ys[i] = p.X, p.Y
		}
		if r := stat.Correlation(xs, ys, nil); !math.IsNaN(r) {
			s.VotePopularityCorrelation = r
			s.HasCorrelation = true
		}
	}
	return s
}
