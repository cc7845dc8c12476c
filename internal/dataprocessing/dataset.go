package dataprocessing

import (
	"math"

	"tmdbreport/pkg/contracts/domain"
)

// Dataset is the cleaned, read-only movie table. Every record has a
// non-blank title, a finite vote average and a non-blank release date.
// Row identifies a record and is unique within a dataset.
// It is safe for concurrent use.
type Dataset struct {
	movies  []domain.Movie
	columns []string
	stats   domain.LoadStats
}

// NewDataset builds a dataset from in-memory records, dropping those that
// violate the retention rule. Dates are parsed when Released is unset and
// rows are numbered from one when Row is unset.
func NewDataset(movies []domain.Movie) *Dataset {
	ds := &Dataset{columns: append([]string(nil), RequiredColumns...)}
	for i, m := range movies {
		ds.stats.RowsRead++
		if m.Row == 0 {
			m.Row = i + 1
		}
		if isNull(m.Title) || isNull(m.ReleaseDate) ||
			math.IsNaN(m.VoteAverage) || math.IsInf(m.VoteAverage, 0) {
			ds.stats.Dropped++
			continue
		}
		if m.Released.IsZero() {
			if t, ok := ParseReleaseDate(m.ReleaseDate); ok {
				m.Released = t
			} else {
				ds.stats.UnparsableDates++
			}
		}
		ds.movies = append(ds.movies, m)
	}
	ds.stats.Retained = len(ds.movies)
	return ds
}

// Len returns the number of retained records.
func (d *Dataset) Len() int {
	return len(d.movies)
}

// Movies returns a copy of the retained records in source order.
func (d *Dataset) Movies() []domain.Movie {
	return append([]domain.Movie(nil), d.movies...)
}

// Head returns a copy of the first n records.
func (d *Dataset) Head(n int) []domain.Movie {
	if n <= 0 {
		return []domain.Movie{}
	}
	if n > len(d.movies) {
		n = len(d.movies)
	}
	return append([]domain.Movie(nil), d.movies[:n]...)
}

// Columns returns the cleaned header of the source, extra columns included.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Stats reports what happened while the dataset was prepared.
func (d *Dataset) Stats() domain.LoadStats {
	return d.stats
}
