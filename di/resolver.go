package di

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/gokit-di/errors"
	"github.com/kbukum/gokit-di/logger"
	"github.com/kbukum/gokit-di/observability"
)

// ErrAsyncInBlockingCall is matched (with errors.Is) by the error returned
// when the blocking path meets an Awaitable while a Scheduler is active.
var ErrAsyncInBlockingCall = errors.New(errors.ErrCodeAsyncInBlockingCall, "asynchronous result on the blocking call path")

// ErrMissingArgument is matched by the error returned when a callable is
// invoked with a parameter left unfilled.
var ErrMissingArgument = errors.New(errors.ErrCodeMissingArgument, "missing argument")

// Binding pairs a recipe with the parameter it fills during one resolution.
type Binding struct {
	Recipe *Recipe
	Param  Param
}

type callMode int

const (
	blocking callMode = iota
	suspending
)

func (m callMode) String() string {
	if m == suspending {
		return "async"
	}
	return "sync"
}

// Resolver builds dependencies from a Registry and injects them into
// functions.
type Resolver struct {
	registry    *Registry
	cache       Cache
	scheduler   Scheduler
	detachAsync bool
	tracing     bool
	metrics     *observability.Metrics
	log         *logger.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache replaces the default MemoryCache.
func WithCache(c Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithScheduler sets the scheduler consulted by the blocking call path.
func WithScheduler(s Scheduler) Option {
	return func(r *Resolver) { r.scheduler = s }
}

// WithDetachedAsync makes the blocking path hand asynchronous results to the
// active scheduler without waiting, instead of failing. The detached
// computation may not have run, or even started, when the instance that
// produced it reaches its consumer.
func WithDetachedAsync() Option {
	return func(r *Resolver) { r.detachAsync = true }
}

// WithTracing enables a span per injection and per build.
func WithTracing() Option {
	return func(r *Resolver) { r.tracing = true }
}

// WithMetrics records build metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithLogger replaces the default "di" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// NewResolver creates a resolver over reg and freezes reg.
func NewResolver(reg *Registry, opts ...Option) *Resolver {
	if reg == nil {
		reg = NewRegistry()
	}
	r := &Resolver{registry: reg}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewMemoryCache()
	}
	if r.log == nil {
		r.log = logger.Get("di")
	}
	reg.freeze()
	return r
}

// Registry returns the resolver's registry.
func (r *Resolver) Registry() *Registry { return r.registry }

// Cache returns the resolver's singleton cache.
func (r *Resolver) Cache() Cache { return r.cache }

// ParametersNeedingResolution returns the parameters of fn that the supplied
// arguments leave open: the first len(positional) parameters are taken
// positionally, then every parameter named by a keyword is taken.
func (r *Resolver) ParametersNeedingResolution(fn any, args ...Arg) ([]Param, error) {
	sig, err := describe(fn)
	if err != nil {
		return nil, err
	}
	return needing(sig, collect(args)), nil
}

func needing(sig *signature, supplied Args) []Param {
	open := make([]Param, 0, len(sig.params))
	for i, p := range sig.params {
		if i < len(supplied.Positional) {
			continue
		}
		if _, ok := supplied.Keyword[p.Name]; ok {
			continue
		}
		open = append(open, p)
	}
	return open
}

// ConfigurableBindings pairs each parameter with the recipe registered for
// its exact type. Parameters without a recipe are skipped.
func (r *Resolver) ConfigurableBindings(params []Param) []Binding {
	bindings := make([]Binding, 0, len(params))
	for _, p := range params {
		if p.Type == nil {
			continue
		}
		if recipe, ok := r.registry.Lookup(p.Type); ok {
			bindings = append(bindings, Binding{Recipe: recipe, Param: p})
		}
	}
	return bindings
}

// CachedFor returns the cached singletons for bindings, keyed by parameter
// name.
func (r *Resolver) CachedFor(bindings []Binding) map[string]any {
	cached := make(map[string]any)
	for _, b := range bindings {
		if !b.Recipe.cache {
			continue
		}
		if inst, ok := r.cache.Get(b.Recipe.key); ok {
			cached[b.Param.Name] = inst
		}
	}
	return cached
}

// pass identifies one top-level resolution for logging.
type pass struct {
	id    string
	depth int
}

func newPass() *pass {
	return &pass{id: uuid.NewString()}
}

func (p *pass) deeper() *pass {
	return &pass{id: p.id, depth: p.depth + 1}
}

// resolve builds every open, registered parameter of sig and returns them
// merged with the cached ones, keyed by parameter name.
func (r *Resolver) resolve(ctx context.Context, p *pass, sig *signature, supplied Args, mode callMode) (map[string]any, error) {
	bindings := r.ConfigurableBindings(needing(sig, supplied))
	cached := r.CachedFor(bindings)

	resolved := make(map[string]any, len(bindings))
	for _, b := range bindings {
		if _, ok := cached[b.Param.Name]; ok {
			r.recordCacheHit(ctx, b.Recipe.key)
			r.log.Debug("singleton reused", logger.Fields(
				logger.FieldPassID, p.id,
				logger.FieldType, b.Recipe.key.String(),
				logger.FieldParam, b.Param.Name,
			))
			continue
		}
		var (
			inst any
			err  error
		)
		if mode == suspending {
			inst, err = r.buildAsync(ctx, p, b)
		} else {
			inst, err = r.build(p, b)
		}
		if err != nil {
			return nil, err
		}
		resolved[b.Param.Name] = inst
	}
	return merge(resolved, cached), nil
}

// build constructs the dependency for b on the blocking path.
func (r *Resolver) build(p *pass, b Binding) (any, error) {
	return r.construct(context.Background(), p, b, blocking)
}

// buildAsync constructs the dependency for b, awaiting asynchronous
// lifecycle results in order.
func (r *Resolver) buildAsync(ctx context.Context, p *pass, b Binding) (any, error) {
	return r.construct(ctx, p, b, suspending)
}

func (r *Resolver) construct(ctx context.Context, p *pass, b Binding, mode callMode) (inst any, err error) {
	recipe := b.Recipe
	start := time.Now()
	ctx, finish := r.startSpan(ctx, observability.SpanBuild, recipe.key)
	defer func() {
		finish(err)
		r.recordBuild(ctx, recipe.key, time.Since(start), err)
	}()

	// Recipe kwargs override after resolution, so the dependencies they
	// replace are still built and cached.
	deps, err := r.resolve(ctx, p.deeper(), recipe.ctor, Args{Positional: recipe.args}, mode)
	if err != nil {
		return nil, err
	}

	out, err := recipe.ctor.call(ctx, recipe.args, merge(deps, recipe.kwargs))
	if err != nil {
		return nil, err
	}
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	inst = out[0].Interface()

	for _, attr := range recipe.attrs {
		if err := setAttr(inst, attr); err != nil {
			return nil, err
		}
	}
	for _, c := range recipe.calls {
		if err := r.runCall(ctx, p, inst, c, mode); err != nil {
			return nil, err
		}
	}

	if recipe.cache && !isNil(inst) && r.cache.Put(recipe.key, inst) {
		r.log.Debug("singleton stored", logger.Fields(
			logger.FieldPassID, p.id,
			logger.FieldType, recipe.key.String(),
		))
	}

	r.log.WithContext(ctx).Debug("dependency built", logger.MergeWithDuration(logger.Fields(
		logger.FieldPassID, p.id,
		logger.FieldType, recipe.key.String(),
		logger.FieldParam, b.Param.Name,
		logger.FieldDepth, p.depth,
		logger.FieldOperation, mode.String(),
	), time.Since(start)))
	return inst, nil
}

// runCall invokes one lifecycle call on inst.
func (r *Resolver) runCall(ctx context.Context, p *pass, inst any, c Call, mode callMode) error {
	v := reflect.ValueOf(inst)
	target := fmt.Sprintf("%T", inst)
	if !v.IsValid() {
		return errors.MethodNotFound(target, c.Method)
	}
	m := v.MethodByName(c.Method)
	if !m.IsValid() {
		return errors.MethodNotFound(target, c.Method)
	}

	site := target + "." + c.Method
	in, err := callArgs(ctx, site, m.Type(), c)
	if err != nil {
		return err
	}

	r.log.Debug("lifecycle call", logger.Fields(
		logger.FieldPassID, p.id,
		logger.FieldMethod, site,
	))
	out := m.Call(in)

	mt := m.Type()
	if mt.NumOut() > 0 && mt.Out(mt.NumOut()-1) == errorType {
		if last := out[len(out)-1]; !last.IsNil() {
			return last.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil
	}
	a, ok := out[0].Interface().(Awaitable)
	if !ok || isNil(a) {
		return nil
	}

	if mode == suspending {
		_, err := a.Await(ctx)
		return err
	}
	_, err = r.settle(site, a)
	return err
}

// callArgs assembles the arguments of a lifecycle method.
func callArgs(ctx context.Context, site string, mt reflect.Type, c Call) ([]reflect.Value, error) {
	first := 0
	in := make([]reflect.Value, 0, mt.NumIn())
	if mt.NumIn() > 0 && mt.In(0) == contextType {
		in = append(in, reflect.ValueOf(&ctx).Elem())
		first = 1
	}

	last := mt.NumIn()
	var opts reflect.Value
	if len(c.Kwargs) > 0 {
		if last <= first || mt.IsVariadic() || !isStructLike(mt.In(last-1)) {
			return nil, errors.InvalidInput("kwargs", fmt.Sprintf("%s takes no options struct for keyword arguments", site))
		}
		last--
		ot := mt.In(last)
		holder := reflect.New(structOf(ot))
		if err := decode(c.Kwargs, holder.Interface()); err != nil {
			return nil, errors.InvalidInput("kwargs", fmt.Sprintf("%s: %v", site, err))
		}
		opts = holder
		if ot.Kind() == reflect.Struct {
			opts = holder.Elem()
		}
	}

	fixed := last - first
	if mt.IsVariadic() {
		fixed--
	}
	if len(c.Args) < fixed {
		return nil, errors.MissingArgument(site, fmt.Sprintf("arg%d", len(c.Args)))
	}
	if len(c.Args) > fixed && !mt.IsVariadic() {
		return nil, errors.InvalidInput("args", fmt.Sprintf("%s takes %d arguments, %d given", site, fixed, len(c.Args)))
	}
	for i, a := range c.Args {
		var pt reflect.Type
		if i < fixed {
			pt = mt.In(first + i)
		} else {
			pt = mt.In(mt.NumIn() - 1).Elem()
		}
		arg, err := coerce(a, pt)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("arg%d", i), fmt.Sprintf("%s: %v", site, err))
		}
		in = append(in, arg)
	}
	if opts.IsValid() {
		in = append(in, opts)
	}
	return in, nil
}

// settle drives an asynchronous result on the blocking path. With no active
// scheduler the computation is awaited inline; under an active scheduler it
// is rejected, or detached when WithDetachedAsync is set, in which case a is
// returned as the handle.
func (r *Resolver) settle(site string, a Awaitable) (any, error) {
	if r.scheduler == nil || !r.scheduler.Active() {
		return a.Await(context.Background())
	}
	if !r.detachAsync {
		return nil, errors.AsyncInBlockingCall(site)
	}
	r.log.Warn("detaching asynchronous result, completion is not awaited", logger.Fields(
		logger.FieldMethod, site,
	))
	r.scheduler.Go(func() {
		if _, err := a.Await(context.Background()); err != nil {
			r.log.Error("detached computation failed", logger.MergeWithError(logger.Fields(
				logger.FieldMethod, site,
			), err))
		}
	})
	return a, nil
}

// setAttr assigns one attribute on a freshly built instance.
func setAttr(inst any, attr Attr) error {
	if setter, ok := inst.(AttributeSetter); ok {
		return setter.SetAttr(attr.Name, attr.Value)
	}

	target := fmt.Sprintf("%T", inst)
	v := reflect.ValueOf(inst)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return errors.AttributeError(target, attr.Name, "instance is not a non-nil pointer to struct")
	}

	field, ok := fieldByName(v.Elem(), attr.Name)
	if !ok {
		return errors.AttributeError(target, attr.Name, "no such field")
	}
	if !field.CanSet() {
		return errors.AttributeError(target, attr.Name, "field is not exported")
	}
	value, err := coerce(attr.Value, field.Type())
	if err != nil {
		return errors.AttributeError(target, attr.Name, err.Error())
	}
	field.Set(value)
	return nil
}

// fieldByName finds a field by `di` tag first, then by Go name.
func fieldByName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("di") == name {
			return v.Field(i), true
		}
	}
	f := v.FieldByName(name)
	return f, f.IsValid()
}

func isStructLike(t reflect.Type) bool {
	return structOf(t).Kind() == reflect.Struct
}

func structOf(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// merge overlays maps left to right; later maps win on name collisions.
func merge(maps ...map[string]any) map[string]any {
	n := 0
	for _, m := range maps {
		n += len(m)
	}
	out := make(map[string]any, n)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
