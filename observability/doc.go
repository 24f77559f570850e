// Package observability provides OpenTelemetry tracing and metrics for the
// resolver.
//
// The "observability" config section selects the exporters:
//
//	observability:
//	  tracing: true
//	  metrics: true
//	  endpoint: "otel-collector:4318"
//	  sample_rate: 0.25
//
// Start installs the global providers; spans and instruments are then
// enabled on a resolver with di.WithTracing and di.WithMetrics:
//
//	p, err := observability.Start(ctx, &cfg, observability.Service{Name: "billing"})
//	defer p.Shutdown(ctx)
//
//	r := di.NewResolver(reg, di.WithTracing(), di.WithMetrics(p.Metrics))
//
// recipes.Loaded.Telemetry does the same from a loaded config file.
package observability
