package charts

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"tmdbreport/internal/dataprocessing"
)

var (
	skyBlue   = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	steelBlue = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	orange    = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	green     = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	purple    = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	edge      = color.Black
)

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func ratingDistribution(ds *dataprocessing.Dataset, opts Options) (*plot.Plot, error) {
	bins := ds.RatingHistogram(opts.HistogramBins)
	if len(bins) == 0 {
		return nil, ErrNoData
	}

	hist := &plotter.Histogram{
		Bins:      make([]plotter.HistogramBin, len(bins)),
		Width:     bins[0].High - bins[0].Low,
		FillColor: skyBlue,
		LineStyle: plotter.DefaultLineStyle,
	}
	hist.LineStyle.Color = edge
	for i, b := range bins {
		hist.Bins[i] = plotter.HistogramBin{Min: b.Low, Max: b.High, Weight: float64(b.Count)}
	}

	p := newPlot(Title(RatingDistribution, opts.TopN), "Vote Average", "Number of Movies")
	p.Add(hist, plotter.NewGrid())
	return p, nil
}

func moviesPerYear(ds *dataprocessing.Dataset, opts Options) (*plot.Plot, error) {
	counts := ds.CountsPerYear()
	if len(counts) == 0 {
		return nil, ErrNoData
	}

	pts := make(plotter.XYs, len(counts))
	for i, yc := range counts {
		pts[i] = plotter.XY{X: float64(yc.Year), Y: float64(yc.Count)}
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %w", err)
	}
	line.Color = steelBlue
	line.Width = vg.Points(1.5)
	points.Color = steelBlue
	points.Radius = vg.Points(2)

	p := newPlot(Title(MoviesPerYear, opts.TopN), "Release Year", "Number of Movies")
	p.X.Tick.Marker = yearTicks{}
	p.Add(line, points, plotter.NewGrid())
	return p, nil
}

// yearTicks labels the x axis with whole years.
type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = fmt.Sprintf("%.0f", ticks[i].Value)
		}
	}
	return ticks
}

func topMovies(ds *dataprocessing.Dataset, name string, field dataprocessing.RankField, fill color.Color, xLabel string, opts Options) (*plot.Plot, error) {
	top, err := ds.RankBy(field, opts.TopN)
	if err != nil {
		return nil, err
	}

	// Nominal Y positions grow upwards, so the highest ranked goes last.
	values := make(plotter.Values, 0, len(top))
	labels := make([]string, 0, len(top))
	for i := len(top) - 1; i >= 0; i-- {
		v := top[i].VoteAverage
		if field == dataprocessing.RankByPopularity {
			if !top[i].HasPopularity() {
				continue
			}
			v = top[i].Popularity
		}
		values = append(values, v)
		labels = append(labels, dataprocessing.TruncateLabel(top[i].Title, opts.LabelWidth))
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("failed to create bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = fill
	bars.LineStyle.Color = edge

	p := newPlot(Title(name, opts.TopN), xLabel, "")
	p.NominalY(labels...)
	p.Add(bars, plotter.NewGrid())
	return p, nil
}

func votesScatter(ds *dataprocessing.Dataset, name, yColumn, yLabel string, fill color.Color, opts Options) (*plot.Plot, error) {
	raw, err := ds.ScatterPoints(dataprocessing.ColVoteCount, yColumn)
	if err != nil {
		return nil, err
	}

	// A log axis has no place for zero or negative counts.
	pts := make(plotter.XYs, 0, len(raw))
	for _, pt := range raw {
		if pt.X > 0 {
			pts = append(pts, plotter.XY{X: pt.X, Y: pt.Y})
		}
	}
	if len(pts) == 0 {
		return nil, ErrNoData
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %w", err)
	}
	scatter.Color = fill
	scatter.Radius = vg.Points(2.5)

	p := newPlot(Title(name, opts.TopN), "Vote Count (log scale)", yLabel)
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(scatter, plotter.NewGrid())

	// gonum widens an empty range by ±1, which reaches 0 for a count of 1.
	if lo, hi, _, _ := plotter.XYRange(pts); lo == hi {
		p.X.Min, p.X.Max = lo/10, hi*10
	}
	return p, nil
}

func build(ds *dataprocessing.Dataset, name string, opts Options) (*plot.Plot, error) {
	switch name {
	case RatingDistribution:
		return ratingDistribution(ds, opts)
	case MoviesPerYear:
		return moviesPerYear(ds, opts)
	case TopPopular:
		return topMovies(ds, name, dataprocessing.RankByPopularity, orange, "Popularity", opts)
	case TopRated:
		return topMovies(ds, name, dataprocessing.RankByVoteAverage, green, "Vote Average", opts)
	case PopularityVsVotes:
		return votesScatter(ds, name, dataprocessing.ColPopularity, "Popularity", purple, opts)
	case RatingVsVotes:
		return votesScatter(ds, name, dataprocessing.ColVoteAverage, "Vote Average", steelBlue, opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
}
