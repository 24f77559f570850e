// Package validation checks configuration structs and declarative recipe
// files.
//
// # Struct Tag Validation
//
//	type Spec struct {
//	    Type  string `mapstructure:"type" validate:"required"`
//	}
//	err := validation.Validate(spec)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.OneOf("async_policy", cfg.AsyncPolicy, []string{"fail", "detach"})
//	if appErr := v.Validate(); appErr != nil { ... }
package validation
