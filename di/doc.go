// Package di resolves the dependencies of Go functions from a registry of
// construction recipes.
//
// A Registry maps a type, identified by its reflect.Type, to a Recipe: a
// constructor plus extra arguments, post-construction field assignments,
// lifecycle method calls and an opt-in singleton flag. A Resolver inspects a
// function's parameters, builds every parameter whose type has a recipe
// (recursively, through the constructors' own parameters) and calls the
// function with the gaps filled in.
//
// # Registration
//
//	reg := di.NewRegistry()
//	_ = di.Provide[*Engine](reg, NewEngine, di.Cached())
//	_ = di.Provide[*Car](reg, di.Fn(NewCar, "engine", "color"),
//	    di.WithKwarg("color", "red"),
//	    di.WithCall("Start"))
//
// # Invocation
//
//	r := di.NewResolver(reg)
//	res, err := r.Inject(di.Fn(drive, "car", "km"), di.Kw("km", 12))
//
// Functions whose first parameter is a context.Context are suspend-capable:
// InjectAsync passes its ctx to them and awaits any Awaitable they (or the
// lifecycle methods of their dependencies) return. The blocking Inject path
// awaits such results inline when no Scheduler is active and fails with
// ErrAsyncInBlockingCall when one is, unless WithDetachedAsync is set.
//
// # Parameter names
//
// Go reflection does not expose parameter names. Fn attaches them; unnamed
// parameters are called arg0, arg1, ... in declaration order, not counting a
// leading context.Context.
package di
