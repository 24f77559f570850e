package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// InitMeter creates an OTLP/HTTP meter provider exporting every
// cfg.Interval and installs it as the global provider.
func InitMeter(ctx context.Context, cfg *Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by the resolver.
type Metrics struct {
	buildTotal    metric.Int64Counter
	buildDuration metric.Float64Histogram
	cacheHits     metric.Int64Counter
	errorTotal    metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	buildTotal, err := meter.Int64Counter(MetricBuildTotal,
		metric.WithDescription("Total number of dependency builds"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricBuildTotal, err)
	}

	buildDuration, err := meter.Float64Histogram(MetricBuildDuration,
		metric.WithDescription("Duration of dependency builds in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricBuildDuration, err)
	}

	cacheHits, err := meter.Int64Counter(MetricCacheHits,
		metric.WithDescription("Singletons served from the cache"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricCacheHits, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrorTotal,
		metric.WithDescription("Failed builds by type and error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrorTotal, err)
	}

	return &Metrics{
		buildTotal:    buildTotal,
		buildDuration: buildDuration,
		cacheHits:     cacheHits,
		errorTotal:    errorTotal,
	}, nil
}

// RecordBuild records one finished build of typeName.
func (m *Metrics) RecordBuild(ctx context.Context, typeName, status string, duration time.Duration) {
	m.buildTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrType, typeName),
		attribute.String(AttrStatus, status),
	))
	m.buildDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrType, typeName),
	))
}

// RecordCacheHit records a singleton reused instead of built.
func (m *Metrics) RecordCacheHit(ctx context.Context, typeName string) {
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrType, typeName),
	))
}

// RecordError records a failed build by type and error code.
func (m *Metrics) RecordError(ctx context.Context, typeName, code string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrType, typeName),
		attribute.String(AttrErrorCode, code),
	))
}

// Metric names.
const (
	MetricBuildTotal    = "di.build.total"
	MetricBuildDuration = "di.build.duration"
	MetricCacheHits     = "di.cache.hits"
	MetricErrorTotal    = "di.error.total"
)
