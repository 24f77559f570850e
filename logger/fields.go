package logger

import (
	"time"
)

// Field keys shared by every package.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Field keys written by the resolver.
const (
	FieldPassID    = "pass_id"
	FieldType      = "type"
	FieldParam     = "param"
	FieldMethod    = "method"
	FieldDepth     = "depth"
	FieldOperation = "operation"
)

// Fields builds a map from alternating key-value pairs. Pairs whose key is
// not a string are skipped, as is a trailing key with no value.
//
//	log.Debug("dependency built", logger.Fields(logger.FieldType, "*app.Engine", logger.FieldDepth, 2))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// MergeWithError adds an error field to fields, allocating it if nil.
func MergeWithError(fields map[string]any, err error) map[string]any {
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[FieldError] = err.Error()
	return fields
}

// MergeWithDuration adds a duration field, in milliseconds, to fields.
func MergeWithDuration(fields map[string]any, d time.Duration) map[string]any {
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
