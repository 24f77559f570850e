package observability

import (
	"context"
	stderrors "errors"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/kbukum/gokit-di/logger"
)

// Provider owns the exporters started by Start.
type Provider struct {
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
	// Metrics is non-nil when metrics export is enabled.
	Metrics *Metrics
}

// Start installs global tracer and meter providers for the exporters cfg
// enables. The returned Provider must be shut down on exit.
func Start(ctx context.Context, cfg *Config, svc Service) (*Provider, error) {
	res := newResource(svc)
	p := &Provider{}
	if cfg.Tracing {
		tp, err := InitTracer(ctx, cfg, res)
		if err != nil {
			return nil, err
		}
		p.tp = tp
	}
	if cfg.Metrics {
		mp, err := InitMeter(ctx, cfg, res)
		if err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
		p.mp = mp
		if p.Metrics, err = NewMetrics(mp.Meter(defaultInstrumentationName)); err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
	}
	logger.Get("observability").Info("telemetry started", logger.Fields(
		logger.FieldService, svc.Name,
		"endpoint", cfg.Endpoint,
		"tracing", cfg.Tracing,
		"metrics", cfg.Metrics,
	))
	return p, nil
}

// Tracing reports whether a tracer provider was started.
func (p *Provider) Tracing() bool { return p != nil && p.tp != nil }

// Shutdown flushes and stops the started providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.tp != nil {
		errs = append(errs, p.tp.Shutdown(ctx))
	}
	if p.mp != nil {
		errs = append(errs, p.mp.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}

// newResource describes svc. It carries only the service attributes so that
// its schema never conflicts with the SDK default resource.
func newResource(svc Service) *resource.Resource {
	attrs := []attribute.KeyValue{semconv.ServiceName(svc.Name)}
	if svc.Version != "" {
		attrs = append(attrs, semconv.ServiceVersion(svc.Version))
	}
	if svc.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(svc.Environment))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}
