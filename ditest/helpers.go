package ditest

import (
	"context"
	"testing"

	"github.com/kbukum/gokit-di/di"
	"github.com/kbukum/gokit-di/errors"
)

// THelper wires a registry and resolver to a test.
type THelper struct {
	t        testing.TB
	ctx      context.Context
	registry *di.Registry
	cache    *di.MemoryCache
	opts     []di.Option
	resolver *di.Resolver
}

// T wraps a testing.TB to provide helper methods.
func T(t testing.TB) *THelper {
	return &THelper{
		t:        t,
		ctx:      context.Background(),
		registry: di.NewRegistry(),
		cache:    di.NewMemoryCache(),
	}
}

// WithContext sets the context used by MustInjectAsync.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// WithOptions adds resolver options. It must be called before Resolver.
func (h *THelper) WithOptions(opts ...di.Option) *THelper {
	if h.resolver != nil {
		h.t.Fatal("ditest: WithOptions called after the resolver was created")
	}
	h.opts = append(h.opts, opts...)
	return h
}

// Registry returns the helper's registry.
func (h *THelper) Registry() *di.Registry { return h.registry }

// Cache returns the helper's singleton cache.
func (h *THelper) Cache() *di.MemoryCache { return h.cache }

// Resolver returns the helper's resolver, creating it (and freezing the
// registry) on first use. The cache is reset when the test ends.
func (h *THelper) Resolver() *di.Resolver {
	if h.resolver == nil {
		opts := append([]di.Option{di.WithCache(h.cache)}, h.opts...)
		h.resolver = di.NewResolver(h.registry, opts...)
		h.t.Cleanup(h.cache.Reset)
	}
	return h.resolver
}

// MustInject calls Resolver().Inject and fails the test on error.
func (h *THelper) MustInject(fn any, args ...di.Arg) di.Result {
	h.t.Helper()
	res, err := h.Resolver().Inject(fn, args...)
	if err != nil {
		h.t.Fatalf("inject failed: %v", err)
	}
	return res
}

// MustInjectAsync calls Resolver().InjectAsync and fails the test on error.
func (h *THelper) MustInjectAsync(fn any, args ...di.Arg) di.Result {
	h.t.Helper()
	res, err := h.Resolver().InjectAsync(h.ctx, fn, args...)
	if err != nil {
		h.t.Fatalf("inject failed: %v", err)
	}
	return res
}

// ExpectCode fails the test unless err is an AppError with code.
func (h *THelper) ExpectCode(err error, code errors.ErrorCode) {
	h.t.Helper()
	appErr, ok := errors.AsAppError(err)
	if !ok {
		h.t.Fatalf("expected %s error, got %v", code, err)
	}
	if appErr.Code != code {
		h.t.Fatalf("expected %s error, got %s: %s", code, appErr.Code, appErr.Message)
	}
}

// Provide registers ctor for T on the helper's registry and fails the test on
// error.
func Provide[T any](h *THelper, ctor any, opts ...di.RecipeOption) {
	h.t.Helper()
	if err := di.Provide[T](h.registry, ctor, opts...); err != nil {
		h.t.Fatalf("failed to provide %s: %v", di.Key[T](), err)
	}
}
