// Package logger provides structured logging for gokit-di on top of zerolog.
//
// Components ask for a named logger with Get; the resolver uses "di",
// the config loader "config" and the recipe loader "recipes". Loggers carry
// the trace and span IDs of the active span when derived WithContext.
//
// # Configuration
//
//	logging:
//	  level: debug     # trace, debug, info, warn, error, disabled
//	  format: json     # json or console
//	  output: stdout   # stdout or stderr
//
// recipes.Load calls Init with this section, so every component logger
// created afterwards follows it.
package logger
