// Package dataprocessing prepares the TMDb movie dataset and computes the
// views the report and explorer are built from.
//
// # Preparation
//
// A Preparer reads delimited text or an XLSX workbook, checks the header
// for the required columns and keeps only rows with a title, a numeric vote
// average and a release date. Optional numeric cells that are empty or
// unparsable become unknown values instead of failing the load.
//
//	p := dataprocessing.NewPreparer(logger, dataprocessing.PreparerConfig{})
//	ds, err := p.LoadFile(ctx, "tmdb_movies.csv")
//
// # Views
//
// A Dataset is immutable once built. RankBy, CountsPerYear, RatingHistogram,
// ScatterPoints and Summarize derive new values without modifying it, so a
// single Dataset can serve concurrent readers.
package dataprocessing
