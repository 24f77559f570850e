package logger

import (
	"sync"
)

// named holds loggers registered for a component, overriding the default.
var named sync.Map

// Register sets the logger Get returns for component name.
func Register(name string, l *Logger) { named.Store(name, l) }

// Get returns the logger registered for component name, or the default
// logger tagged with name.
func Get(name string) *Logger {
	if l, ok := named.Load(name); ok {
		return l.(*Logger)
	}
	return Default().WithComponent(name)
}
