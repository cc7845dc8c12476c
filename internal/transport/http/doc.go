// Package http implements the request handlers of the explorer server.
//
// Handlers stay thin: they read and validate query parameters, call a
// service through a small interface and write either JSON (go-chi/render)
// or an RFC 7807 problem response via the shared error handler.
//
// # Routes
//
//	GET /                       explorer page with every chart inline
//	GET /charts/{name}.png      one chart image
//	GET /api/movies/top         ranked movies, ?by=popularity|vote_average&n=
//	GET /api/movies/per-year    release counts per year
//	GET /api/movies/histogram   rating distribution, ?bins=
//	GET /api/summary            closing conclusions
//	GET /api/health             uptime and dataset statistics
//
// Route registration lives in the app package.
package http
