package recipes

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/gokit-di/di"
	"github.com/kbukum/gokit-di/errors"
)

// Entry is a buildable type known to a Catalog.
type Entry struct {
	Name string
	Key  reflect.Type
	Ctor any
}

// Catalog maps the type names used in recipe files to registry keys and
// constructors. Names match exactly; only surrounding spaces are ignored.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Add makes ctor available under name, registered for T.
func Add[T any](cat *Catalog, name string, ctor any) error {
	name = normalize(name)
	if name == "" {
		return errors.InvalidInput("name", "catalog name is empty")
	}
	if ctor == nil {
		return errors.InvalidInput("ctor", fmt.Sprintf("constructor for %q is nil", name))
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()
	if _, exists := cat.entries[name]; exists {
		return errors.AlreadyExists(name)
	}
	cat.entries[name] = Entry{Name: name, Key: di.Key[T](), Ctor: ctor}
	return nil
}

// MustAdd is like Add but panics on error.
func MustAdd[T any](cat *Catalog, name string, ctor any) {
	if err := Add[T](cat, name, ctor); err != nil {
		panic(fmt.Sprintf("recipes: failed to add %s: %v", name, err))
	}
}

// Lookup returns the entry for name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[normalize(name)]
	return e, ok
}

// Names returns the known names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.TrimSpace(name)
}
