package di

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/gokit-di/errors"
	"github.com/kbukum/gokit-di/logger"
	"github.com/kbukum/gokit-di/observability"
)

// Injected is a function wrapped by Wrap. Supplied args take precedence over
// resolved dependencies.
type Injected func(ctx context.Context, args ...Arg) (Result, error)

// Inject calls fn once with its registered dependencies resolved on the
// blocking path. A leading context.Context parameter receives
// context.Background().
//
// If fn returns an Awaitable as its first result it is awaited inline when no
// scheduler is active. Under an active scheduler Inject fails with
// ErrAsyncInBlockingCall, unless the resolver was built WithDetachedAsync, in
// which case the Awaitable is handed to the scheduler and returned unawaited
// as the first result.
func (r *Resolver) Inject(fn any, args ...Arg) (Result, error) {
	sig, err := describe(fn)
	if err != nil {
		return Result{}, err
	}
	return r.inject(context.Background(), sig, collect(args), blocking)
}

// InjectAsync calls fn once with its registered dependencies resolved on the
// suspend-capable path: asynchronous lifecycle calls are awaited in order,
// and an Awaitable returned by fn is awaited and replaced by its value.
func (r *Resolver) InjectAsync(ctx context.Context, fn any, args ...Arg) (Result, error) {
	sig, err := describe(fn)
	if err != nil {
		return Result{}, err
	}
	return r.inject(orBackground(ctx), sig, collect(args), suspending)
}

// Wrap returns fn with dependency injection applied on every call. Functions
// taking a leading context.Context go through InjectAsync with the ctx given
// to the wrapper; all others go through Inject and the ctx is ignored.
func (r *Resolver) Wrap(fn any) (Injected, error) {
	sig, err := describe(fn)
	if err != nil {
		return nil, err
	}
	if sig.takesCtx {
		return func(ctx context.Context, args ...Arg) (Result, error) {
			return r.inject(orBackground(ctx), sig, collect(args), suspending)
		}, nil
	}
	return func(_ context.Context, args ...Arg) (Result, error) {
		return r.inject(context.Background(), sig, collect(args), blocking)
	}, nil
}

// MustWrap is like Wrap but panics if fn is not a supported function.
func (r *Resolver) MustWrap(fn any) Injected {
	injected, err := r.Wrap(fn)
	if err != nil {
		panic(fmt.Sprintf("di: failed to wrap %T: %v", fn, err))
	}
	return injected
}

func (r *Resolver) inject(ctx context.Context, sig *signature, supplied Args, mode callMode) (res Result, err error) {
	p := newPass()
	start := time.Now()
	ctx, finish := r.startSpan(ctx, observability.SpanInject, nil)
	defer func() {
		finish(err)
		if err != nil {
			r.log.WithContext(ctx).Error("injection failed", logger.MergeWithError(logger.Fields(
				logger.FieldPassID, p.id,
				logger.FieldMethod, sig.name,
				logger.FieldOperation, mode.String(),
			), err))
		}
	}()

	deps, err := r.resolve(ctx, p, sig, supplied, mode)
	if err != nil {
		return Result{}, err
	}

	out, err := sig.call(ctx, supplied.Positional, merge(deps, supplied.Keyword))
	if err != nil {
		return Result{}, err
	}
	res = newResult(sig, out)

	if a, ok := res.awaitable(); ok && res.err == nil {
		if mode == blocking && r.rejectsAsync() {
			return Result{}, errors.AsyncInBlockingCall(sig.name)
		}
		var v any
		if mode == suspending {
			v, res.err = a.Await(ctx)
		} else {
			v, res.err = r.settle(sig.name, a)
		}
		if res.err == nil {
			res.values[0] = v
		}
	}

	r.log.WithContext(ctx).Debug("injected", logger.MergeWithDuration(logger.Fields(
		logger.FieldPassID, p.id,
		logger.FieldMethod, sig.name,
		logger.FieldOperation, mode.String(),
	), time.Since(start)))
	return res, nil
}

// rejectsAsync reports whether the blocking path must refuse an Awaitable.
func (r *Resolver) rejectsAsync() bool {
	return r.scheduler != nil && r.scheduler.Active() && !r.detachAsync
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
