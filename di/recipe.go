package di

import (
	"fmt"
	"reflect"

	"github.com/kbukum/gokit-di/errors"
)

// Call is a method invoked on a freshly built instance.
//
// Args fill the method's parameters in order (after a leading
// context.Context, if declared). Kwargs, when present, populate the method's
// trailing options struct (or pointer to struct) by field name or `di` tag.
type Call struct {
	Method string
	Args   []any
	Kwargs map[string]any
}

// Attr is a field assignment applied to a freshly built instance.
type Attr struct {
	Name  string
	Value any
}

// AttributeSetter lets an instance take attribute assignments itself instead
// of having its struct fields set through reflection.
type AttributeSetter interface {
	SetAttr(name string, value any) error
}

// Recipe describes how to build one dependency type.
type Recipe struct {
	key    reflect.Type
	ctor   *signature
	args   []any
	kwargs map[string]any
	calls  []Call
	attrs  []Attr
	cache  bool
}

// RecipeOption configures a Recipe.
type RecipeOption func(*Recipe)

// NewRecipe creates a recipe around ctor, a function (or Fn descriptor)
// returning T or (T, error).
func NewRecipe(ctor any, opts ...RecipeOption) (*Recipe, error) {
	sig, err := describe(ctor)
	if err != nil {
		return nil, err
	}
	t := sig.fn.Type()
	switch {
	case t.NumOut() == 1 && t.Out(0) != errorType:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return nil, errors.InvalidInput("ctor", fmt.Sprintf("constructor %s must return (T) or (T, error)", sig.name))
	}

	r := &Recipe{ctor: sig, kwargs: make(map[string]any)}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// WithArgs appends positional constructor arguments.
func WithArgs(values ...any) RecipeOption {
	return func(r *Recipe) { r.args = append(r.args, values...) }
}

// WithKwarg sets a constructor argument by parameter name. The value
// overrides the resolved one after resolution; a registered dependency for
// the same parameter is still built.
func WithKwarg(name string, value any) RecipeOption {
	return func(r *Recipe) { r.kwargs[name] = value }
}

// WithKwargs sets several constructor arguments by parameter name.
func WithKwargs(values map[string]any) RecipeOption {
	return func(r *Recipe) {
		for k, v := range values {
			r.kwargs[k] = v
		}
	}
}

// WithAttr appends a post-construction field assignment.
func WithAttr(name string, value any) RecipeOption {
	return func(r *Recipe) { r.attrs = append(r.attrs, Attr{Name: name, Value: value}) }
}

// WithCall appends a lifecycle call with positional arguments.
func WithCall(method string, args ...any) RecipeOption {
	return WithCalls(Call{Method: method, Args: args})
}

// WithCallKw appends a lifecycle call whose keyword arguments fill the
// method's trailing options struct.
func WithCallKw(method string, kwargs map[string]any, args ...any) RecipeOption {
	return WithCalls(Call{Method: method, Args: args, Kwargs: kwargs})
}

// WithCalls appends lifecycle calls.
func WithCalls(calls ...Call) RecipeOption {
	return func(r *Recipe) { r.calls = append(r.calls, calls...) }
}

// Cached makes successful builds of the recipe a singleton.
func Cached() RecipeOption {
	return func(r *Recipe) { r.cache = true }
}

// Key returns the type the recipe is registered under, nil before registration.
func (r *Recipe) Key() reflect.Type { return r.key }

// Constructor returns the display name of the constructor.
func (r *Recipe) Constructor() string { return r.ctor.name }

// Params returns the constructor's declared parameters.
func (r *Recipe) Params() []Param {
	return append([]Param(nil), r.ctor.params...)
}

// Args returns the configured positional arguments.
func (r *Recipe) Args() []any { return append([]any(nil), r.args...) }

// Kwargs returns a copy of the configured keyword arguments.
func (r *Recipe) Kwargs() map[string]any {
	out := make(map[string]any, len(r.kwargs))
	for k, v := range r.kwargs {
		out[k] = v
	}
	return out
}

// Attrs returns the configured attribute assignments in order.
func (r *Recipe) Attrs() []Attr { return append([]Attr(nil), r.attrs...) }

// Calls returns the configured lifecycle calls in order.
func (r *Recipe) Calls() []Call { return append([]Call(nil), r.calls...) }

// Cache reports whether builds are memoized.
func (r *Recipe) Cache() bool { return r.cache }

// produces returns the constructor's instance type.
func (r *Recipe) produces() reflect.Type { return r.ctor.fn.Type().Out(0) }
