// Package config loads tmdbreport configuration.
//
// Values are layered in increasing order of precedence:
//
//  1. Default()
//  2. config.yaml or configs/config.yaml, when present
//  3. TMDB_* environment variables, including those from a .env file
//
// Every section maps to a variable group, for example:
//
//	TMDB_INPUT_PATH=data/movies.csv
//	TMDB_REPORT_TOP_N=15
//	TMDB_SERVER_PORT=9090
//	TMDB_LOGGING_LEVEL=debug
//	TMDB_TELEMETRY_TRACE_EXPORTER=stdout
//
// Relative paths are resolved by Config.ResolvePaths against a base
// directory, the working directory by default.
package config
