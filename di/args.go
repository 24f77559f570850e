package di

import "reflect"

// Args holds explicitly supplied arguments. Supplied arguments always win
// over resolved ones: the parameters they fill are never resolved.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// Arg adds to the supplied arguments of an injection.
type Arg func(*Args)

// Pos appends positional arguments.
func Pos(values ...any) Arg {
	return func(a *Args) { a.Positional = append(a.Positional, values...) }
}

// Kw supplies one argument by parameter name.
func Kw(name string, value any) Arg {
	return func(a *Args) {
		a.keywords()[name] = value
	}
}

// Kwargs supplies arguments by parameter name. The map is only read.
func Kwargs(values map[string]any) Arg {
	return func(a *Args) {
		kw := a.keywords()
		for k, v := range values {
			kw[k] = v
		}
	}
}

func (a *Args) keywords() map[string]any {
	if a.Keyword == nil {
		a.Keyword = make(map[string]any)
	}
	return a.Keyword
}

func collect(args []Arg) Args {
	a := Args{Keyword: make(map[string]any)}
	for _, arg := range args {
		arg(&a)
	}
	return a
}

// Result holds what an injected function returned.
type Result struct {
	values []any
	err    error
}

func newResult(sig *signature, out []reflect.Value) Result {
	var res Result
	if sig.returnsError() {
		last := out[len(out)-1]
		if !last.IsNil() {
			res.err = last.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	res.values = make([]any, len(out))
	for i, v := range out {
		res.values[i] = v.Interface()
	}
	return res
}

// Values returns the function's results, without a trailing error.
func (r Result) Values() []any { return r.values }

// Value returns the i-th result, or nil if there is none.
func (r Result) Value(i int) any {
	if i < 0 || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// Len returns the number of results, without a trailing error.
func (r Result) Len() int { return len(r.values) }

// Err returns the function's own trailing error result, if it declared one.
func (r Result) Err() error { return r.err }

// awaitable returns the first result if it is an Awaitable.
func (r Result) awaitable() (Awaitable, bool) {
	if len(r.values) == 0 {
		return nil, false
	}
	a, ok := r.values[0].(Awaitable)
	return a, ok && !isNil(a)
}

// isNil reports whether v is nil or a nil pointer, map, slice, func, chan or
// interface held in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
