package config

// Application constants
const (
	AppName = "tmdbreport"

	// Exported artifact names, relative to the export directory
	CleanedCSVName  = "movies_clean.csv"
	TopPopularName  = "top_popular.csv"
	TopRatedName    = "top_rated.csv"
	PerYearName     = "movies_per_year.csv"
	WorkbookName    = "tmdb_movies.xlsx"
	MaxPreviewRows  = 50
	DefaultHeadRows = 5
)
