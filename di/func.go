package di

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/kbukum/gokit-di/errors"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Param describes one declared parameter of a callable.
type Param struct {
	// Index is the position in the function's full parameter list.
	Index int
	Name  string
	Type  reflect.Type
}

// Func is a callable together with the names of its parameters.
type Func struct {
	fn    any
	names []string
}

// Fn describes fn with parameter names given in declaration order. A leading
// context.Context parameter is not named. Missing names default to argN.
func Fn(fn any, names ...string) Func {
	return Func{fn: fn, names: names}
}

// signature is the inspected form of a callable.
type signature struct {
	fn       reflect.Value
	name     string
	takesCtx bool
	params   []Param
	byName   map[string]int
}

func describe(fn any) (*signature, error) {
	var names []string
	if f, ok := fn.(Func); ok {
		fn, names = f.fn, f.names
	}
	if fn == nil {
		return nil, errors.InvalidInput("fn", "callable is nil")
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, errors.InvalidInput("fn", fmt.Sprintf("%T is not a function", fn))
	}
	if v.IsNil() {
		return nil, errors.InvalidInput("fn", "callable is a nil function")
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, errors.InvalidInput("fn", fmt.Sprintf("variadic function %s is not supported", funcName(v)))
	}

	sig := &signature{fn: v, name: funcName(v), byName: make(map[string]int)}
	first := 0
	if t.NumIn() > 0 && t.In(0) == contextType {
		sig.takesCtx = true
		first = 1
	}

	if len(names) > t.NumIn()-first {
		return nil, errors.InvalidInput("fn", fmt.Sprintf("%s takes %d parameters, %d names given", sig.name, t.NumIn()-first, len(names)))
	}

	for i := first; i < t.NumIn(); i++ {
		pos := i - first
		name := fmt.Sprintf("arg%d", pos)
		if pos < len(names) && names[pos] != "" {
			name = names[pos]
		}
		if _, dup := sig.byName[name]; dup {
			return nil, errors.InvalidInput("fn", fmt.Sprintf("%s: duplicate parameter name %q", sig.name, name))
		}
		sig.byName[name] = len(sig.params)
		sig.params = append(sig.params, Param{Index: i, Name: name, Type: t.In(i)})
	}
	return sig, nil
}

// call invokes the callable with positional values filling the first
// parameters and keyword values filling the rest by name.
func (s *signature) call(ctx context.Context, positional []any, keyword map[string]any) ([]reflect.Value, error) {
	if len(positional) > len(s.params) {
		return nil, errors.InvalidInput("args", fmt.Sprintf("%s takes %d arguments, %d positional given", s.name, len(s.params), len(positional)))
	}

	slots := make([]reflect.Value, len(s.params))
	for i, v := range positional {
		arg, err := coerce(v, s.params[i].Type)
		if err != nil {
			return nil, errors.InvalidInput(s.params[i].Name, fmt.Sprintf("%s: %v", s.name, err))
		}
		slots[i] = arg
	}

	for _, name := range sortedKeys(keyword) {
		idx, ok := s.byName[name]
		if !ok {
			return nil, errors.UnexpectedArgument(s.name, name)
		}
		if slots[idx].IsValid() {
			return nil, errors.InvalidInput(name, fmt.Sprintf("%s got multiple values for argument %q", s.name, name))
		}
		arg, err := coerce(keyword[name], s.params[idx].Type)
		if err != nil {
			return nil, errors.InvalidInput(name, fmt.Sprintf("%s: %v", s.name, err))
		}
		slots[idx] = arg
	}

	in := make([]reflect.Value, 0, len(slots)+1)
	if s.takesCtx {
		in = append(in, reflect.ValueOf(&ctx).Elem())
	}
	for i, slot := range slots {
		if !slot.IsValid() {
			return nil, errors.MissingArgument(s.name, s.params[i].Name)
		}
		in = append(in, slot)
	}
	return s.fn.Call(in), nil
}

func (s *signature) returnsError() bool {
	t := s.fn.Type()
	return t.NumOut() > 0 && t.Out(t.NumOut()-1) == errorType
}

func funcName(v reflect.Value) string {
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return v.Type().String()
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
