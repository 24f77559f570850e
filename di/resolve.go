package di

import (
	"context"
	"fmt"

	"github.com/kbukum/gokit-di/errors"
)

// Resolve builds, or fetches from the cache, the dependency registered for T.
// Asynchronous lifecycle calls are awaited with ctx.
//
// Example:
//
//	engine, err := di.Resolve[*car.Engine](ctx, r)
//	if err != nil {
//	    return fmt.Errorf("failed to get engine: %w", err)
//	}
func Resolve[T any](ctx context.Context, r *Resolver) (T, error) {
	var zero T
	key := Key[T]()
	recipe, ok := r.registry.Lookup(key)
	if !ok {
		return zero, errors.NotFound("recipe", key.String())
	}

	b := Binding{Recipe: recipe, Param: Param{Name: "value", Type: key}}
	if cached := r.CachedFor([]Binding{b}); len(cached) > 0 {
		r.recordCacheHit(ctx, key)
		return cached[b.Param.Name].(T), nil
	}

	inst, err := r.buildAsync(orBackground(ctx), newPass(), b)
	if err != nil {
		return zero, err
	}
	result, ok := inst.(T)
	if !ok {
		return zero, errors.InvalidInput("type", fmt.Sprintf("recipe for %s built %T", key, inst))
	}
	return result, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](ctx context.Context, r *Resolver) T {
	result, err := Resolve[T](ctx, r)
	if err != nil {
		panic(fmt.Sprintf("di: failed to resolve %s: %v", Key[T](), err))
	}
	return result
}

// TryResolve resolves an optional dependency, returning false if it is not
// registered or cannot be built.
//
// Example:
//
//	if metrics, ok := di.TryResolve[MetricsClient](ctx, r); ok {
//	    metrics.RecordEvent(...)
//	}
func TryResolve[T any](ctx context.Context, r *Resolver) (T, bool) {
	result, err := Resolve[T](ctx, r)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}
