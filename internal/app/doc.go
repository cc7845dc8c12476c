// Package app wires the commands together.
//
// Pipeline owns the per-run plumbing shared by every command: the run ID,
// telemetry providers, pipeline metrics and the configured preparer,
// renderer, report writer and exporter. Application is the explorer server
// built on top of a Pipeline and a prepared dataset.
//
// # Request flow
//
//	RequestID → RealIP → OTel → StructuredLogger → Recoverer →
//	SecurityHeaders → RateLimiter → Timeout → handler
//
// /metrics is registered outside the rate limiter and timeout.
//
// # Usage
//
//	p, _ := app.NewPipeline(cfg, paths, logger, providers)
//	ds, _ := p.Prepare(ctx)
//	a, _ := app.NewApplication(p, ds)
//	err := a.Run(ctx)
package app
