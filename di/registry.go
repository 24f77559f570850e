package di

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/kbukum/gokit-di/errors"
)

// Key returns the registry key for T.
func Key[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Registry maps types to the recipes that build them. Lookup is by exact
// type identity: a recipe registered for an interface never matches a
// parameter of a concrete type, and vice versa.
//
// A Registry is frozen when a Resolver is created on it; it is read-only
// from then on.
type Registry struct {
	mu      sync.RWMutex
	recipes map[reflect.Type]*Recipe
	order   []reflect.Type
	frozen  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{recipes: make(map[reflect.Type]*Recipe)}
}

// Register adds recipe under key. The recipe's constructor must produce a
// value assignable to key.
func (r *Registry) Register(key reflect.Type, recipe *Recipe) error {
	if key == nil {
		return errors.InvalidInput("key", "registry key is nil")
	}
	if recipe == nil {
		return errors.InvalidInput("recipe", "recipe is nil")
	}
	if !recipe.produces().AssignableTo(key) {
		return errors.InvalidInput("ctor", fmt.Sprintf("constructor %s returns %s, not assignable to %s",
			recipe.Constructor(), recipe.produces(), key))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errors.Conflict(fmt.Sprintf("registry is frozen, cannot register %s", key))
	}
	if _, exists := r.recipes[key]; exists {
		return errors.AlreadyExists(key.String())
	}
	if recipe.key != nil {
		return errors.Conflict(fmt.Sprintf("recipe for %s is already registered under %s", key, recipe.key))
	}

	recipe.key = key
	r.recipes[key] = recipe
	r.order = append(r.order, key)
	return nil
}

// Provide registers ctor as the recipe for T.
func Provide[T any](reg *Registry, ctor any, opts ...RecipeOption) error {
	recipe, err := NewRecipe(ctor, opts...)
	if err != nil {
		return err
	}
	return reg.Register(Key[T](), recipe)
}

// MustProvide is like Provide but panics on error.
func MustProvide[T any](reg *Registry, ctor any, opts ...RecipeOption) {
	if err := Provide[T](reg, ctor, opts...); err != nil {
		panic(fmt.Sprintf("di: failed to provide %s: %v", Key[T](), err))
	}
}

// Lookup returns the recipe registered for key.
func (r *Registry) Lookup(key reflect.Type) (*Recipe, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recipe, ok := r.recipes[key]
	return recipe, ok
}

// Keys returns registered types in registration order.
func (r *Registry) Keys() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]reflect.Type(nil), r.order...)
}

// Len returns the number of registered recipes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Frozen reports whether the registry no longer accepts registrations.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

func (r *Registry) freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}
