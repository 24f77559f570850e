package di

import (
	"context"
	"reflect"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kbukum/gokit-di/errors"
	"github.com/kbukum/gokit-di/observability"
)

// startSpan opens a span named name when tracing is enabled. The returned
// finish func ends it, recording err.
func (r *Resolver) startSpan(ctx context.Context, name string, key reflect.Type) (context.Context, func(error)) {
	if !r.tracing {
		return ctx, func(error) {}
	}
	ctx, span := observability.StartSpan(ctx, name)
	if key != nil {
		span.SetAttributes(attribute.String(observability.AttrType, key.String()))
	}
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (r *Resolver) recordBuild(ctx context.Context, key reflect.Type, d time.Duration, err error) {
	if r.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		r.metrics.RecordError(ctx, key.String(), string(errors.CodeOf(err)))
	}
	r.metrics.RecordBuild(ctx, key.String(), status, d)
}

func (r *Resolver) recordCacheHit(ctx context.Context, key reflect.Type) {
	if r.metrics != nil {
		r.metrics.RecordCacheHit(ctx, key.String())
	}
}
