package recipes

import (
	"context"
	"fmt"

	"github.com/kbukum/gokit-di/config"
	"github.com/kbukum/gokit-di/di"
	"github.com/kbukum/gokit-di/errors"
	"github.com/kbukum/gokit-di/logger"
	"github.com/kbukum/gokit-di/observability"
)

// Build registers every spec on a new registry, in order.
func Build(cat *Catalog, specs []Spec) (*di.Registry, error) {
	reg := di.NewRegistry()
	for i := range specs {
		spec := &specs[i]
		entry, ok := cat.Lookup(spec.Type)
		if !ok {
			return nil, errors.NotFound("catalog entry", spec.Type)
		}
		recipe, err := di.NewRecipe(entry.Ctor, spec.Options()...)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: %w", entry.Name, err)
		}
		if err := reg.Register(entry.Key, recipe); err != nil {
			return nil, fmt.Errorf("recipe %s: %w", entry.Name, err)
		}
	}
	return reg, nil
}

// Loaded is a recipe file turned into a registry.
type Loaded struct {
	File     File
	Registry *di.Registry
}

// Resolver creates a resolver on the loaded registry with the file's
// settings, followed by opts.
func (l *Loaded) Resolver(opts ...di.Option) *di.Resolver {
	all := append(l.File.DI.Options(), opts...)
	return di.NewResolver(l.Registry, all...)
}

// Telemetry starts the exporters of the file's observability section and
// returns the resolver options recording to them. The provider is nil, with
// no options, when the section enables nothing.
func (l *Loaded) Telemetry(ctx context.Context) (*observability.Provider, []di.Option, error) {
	cfg := &l.File.Observability
	if !cfg.Enabled() {
		return nil, nil, nil
	}
	p, err := observability.Start(ctx, cfg, observability.Service{
		Name:        l.File.Name,
		Environment: l.File.Environment,
	})
	if err != nil {
		return nil, nil, err
	}
	var opts []di.Option
	if p.Tracing() {
		opts = append(opts, di.WithTracing())
	}
	if p.Metrics != nil {
		opts = append(opts, di.WithMetrics(p.Metrics))
	}
	return p, opts, nil
}

// Load reads the config file of serviceName, validates it against cat and
// builds the registry. The file's logging section becomes the default logger.
func Load(serviceName string, cat *Catalog, opts ...config.LoaderOption) (*Loaded, error) {
	var file File
	if err := config.LoadConfig(serviceName, &file, opts...); err != nil {
		return nil, err
	}
	if file.Name == "" {
		file.Name = serviceName
	}
	file.ApplyDefaults()
	if err := file.Validate(cat); err != nil {
		return nil, err
	}
	logger.Init(file.Logging, file.Name)

	reg, err := Build(cat, file.DI.Recipes)
	if err != nil {
		return nil, err
	}

	logger.Get("recipes").Info("recipes loaded", logger.Fields(
		logger.FieldService, serviceName,
		"count", reg.Len(),
		"async_policy", file.DI.AsyncPolicy,
	))
	return &Loaded{File: file, Registry: reg}, nil
}
