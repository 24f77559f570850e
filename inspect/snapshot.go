package inspect

import (
	"fmt"

	"github.com/kbukum/gokit-di/di"
)

// Param describes one constructor parameter.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// Source is "arg" or "kwarg" when the recipe supplies the value,
	// "registry" when another recipe builds it, and "" when nothing does.
	Source string `json:"source,omitempty"`
}

// Entry describes one registered recipe.
type Entry struct {
	Type        string   `json:"type"`
	Constructor string   `json:"constructor"`
	Params      []Param  `json:"params"`
	Cache       bool     `json:"cache"`
	Cached      bool     `json:"cached"`
	Attrs       []string `json:"attrs,omitempty"`
	Calls       []string `json:"calls,omitempty"`
}

// Unresolved returns the names of parameters nothing will fill.
func (e *Entry) Unresolved() []string {
	var names []string
	for _, p := range e.Params {
		if p.Source == "" {
			names = append(names, p.Name)
		}
	}
	return names
}

// Snapshot describes every recipe of r's registry in registration order.
func Snapshot(r *di.Resolver) []Entry {
	reg := r.Registry()
	keys := reg.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		recipe, ok := reg.Lookup(key)
		if !ok {
			continue
		}
		_, cached := r.Cache().Get(key)
		entries = append(entries, Entry{
			Type:        key.String(),
			Constructor: recipe.Constructor(),
			Params:      params(reg, recipe),
			Cache:       recipe.Cache(),
			Cached:      cached,
			Attrs:       attrs(recipe),
			Calls:       calls(recipe),
		})
	}
	return entries
}

func params(reg *di.Registry, recipe *di.Recipe) []Param {
	kwargs := recipe.Kwargs()
	positional := len(recipe.Args())
	out := make([]Param, 0, len(recipe.Params()))
	for i, p := range recipe.Params() {
		param := Param{Name: p.Name, Type: p.Type.String()}
		switch {
		case i < positional:
			param.Source = "arg"
		case hasKey(kwargs, p.Name):
			param.Source = "kwarg"
		default:
			if _, ok := reg.Lookup(p.Type); ok {
				param.Source = "registry"
			}
		}
		out = append(out, param)
	}
	return out
}

func attrs(recipe *di.Recipe) []string {
	var out []string
	for _, a := range recipe.Attrs() {
		out = append(out, fmt.Sprintf("%s=%v", a.Name, a.Value))
	}
	return out
}

func calls(recipe *di.Recipe) []string {
	var out []string
	for _, c := range recipe.Calls() {
		out = append(out, fmt.Sprintf("%s(%d args)", c.Method, len(c.Args)+len(c.Kwargs)))
	}
	return out
}

func hasKey(m map[string]any, k string) bool {
	_, ok := m[k]
	return ok
}
