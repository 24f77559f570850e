package recipes

import (
	"fmt"

	"github.com/kbukum/gokit-di/config"
	"github.com/kbukum/gokit-di/di"
	"github.com/kbukum/gokit-di/observability"
	"github.com/kbukum/gokit-di/validation"
)

const methodPattern = `^[A-Z][A-Za-z0-9_]*$`

// AttrSpec is an attribute assignment in a recipe file.
type AttrSpec struct {
	Name  string `yaml:"name" mapstructure:"name" validate:"required"`
	Value any    `yaml:"value" mapstructure:"value"`
}

// CallSpec is a lifecycle call in a recipe file.
type CallSpec struct {
	Method string         `yaml:"method" mapstructure:"method" validate:"required"`
	Args   []any          `yaml:"args" mapstructure:"args"`
	Kwargs map[string]any `yaml:"kwargs" mapstructure:"kwargs"`
}

// Spec is one recipe in a recipe file.
type Spec struct {
	Type   string         `yaml:"type" mapstructure:"type" validate:"required"`
	Args   []any          `yaml:"args" mapstructure:"args"`
	Kwargs map[string]any `yaml:"kwargs" mapstructure:"kwargs"`
	Attrs  []AttrSpec     `yaml:"attrs" mapstructure:"attrs" validate:"dive"`
	Calls  []CallSpec     `yaml:"calls" mapstructure:"calls" validate:"dive"`
	Cache  bool           `yaml:"cache" mapstructure:"cache"`
}

// Options converts the spec into recipe options.
func (s *Spec) Options() []di.RecipeOption {
	var opts []di.RecipeOption
	if len(s.Args) > 0 {
		opts = append(opts, di.WithArgs(s.Args...))
	}
	if len(s.Kwargs) > 0 {
		opts = append(opts, di.WithKwargs(s.Kwargs))
	}
	for _, a := range s.Attrs {
		opts = append(opts, di.WithAttr(a.Name, a.Value))
	}
	for _, c := range s.Calls {
		opts = append(opts, di.WithCalls(di.Call{Method: c.Method, Args: c.Args, Kwargs: c.Kwargs}))
	}
	if s.Cache {
		opts = append(opts, di.Cached())
	}
	return opts
}

// Section is the "di" section of a service config file.
type Section struct {
	di.Config `yaml:",inline" mapstructure:",squash"`
	Recipes   []Spec `yaml:"recipes" mapstructure:"recipes" validate:"dive"`
}

// ApplyDefaults applies default values.
func (s *Section) ApplyDefaults() {
	s.Config.ApplyDefaults()
}

// Validate checks the resolver settings and every recipe against cat.
func (s *Section) Validate(cat *Catalog) error {
	v := validation.New()
	v.Merge("di", s.Config.Validate())

	seen := make(map[string]int, len(s.Recipes))
	for i := range s.Recipes {
		spec := &s.Recipes[i]
		prefix := fmt.Sprintf("di.recipes[%d]", i)
		v.Merge(prefix, validation.Validate(spec))

		if spec.Type == "" {
			continue
		}
		_, known := cat.Lookup(spec.Type)
		v.Custom(known, prefix+".type", fmt.Sprintf("unknown type %q", spec.Type))
		if j, dup := seen[normalize(spec.Type)]; dup {
			v.AddError(prefix+".type", fmt.Sprintf("duplicates di.recipes[%d]", j))
		}
		seen[normalize(spec.Type)] = i

		for k, c := range spec.Calls {
			v.Pattern(fmt.Sprintf("%s.calls[%d].method", prefix, k), c.Method, methodPattern)
		}
	}

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// File is a service config file carrying "di" and "observability" sections.
type File struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	DI                   Section              `yaml:"di" mapstructure:"di"`
	Observability        observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies default values to every section.
func (f *File) ApplyDefaults() {
	f.ServiceConfig.ApplyDefaults()
	f.DI.ApplyDefaults()
	f.Observability.ApplyDefaults()
}

// Validate checks every section, the recipes against cat.
func (f *File) Validate(cat *Catalog) error {
	v := validation.New().
		Merge("", f.ServiceConfig.Validate()).
		Merge("observability", f.Observability.Validate()).
		Merge("", f.DI.Validate(cat))
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
