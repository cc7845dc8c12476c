// Package services implements the query layer behind the explorer server.
//
// MovieService answers ranking, per-year, histogram, summary and chart
// requests against a single prepared dataset. Charts are drawn on the first
// request that needs them and reused afterwards. HealthService reports the
// process uptime together with the load statistics of the served dataset.
//
// Handlers depend on these services through small interfaces declared in
// the transport package, so both can be tested in isolation.
package services
