package recipes

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/kbukum/gokit-di/config"
	"github.com/kbukum/gokit-di/di"
	"github.com/kbukum/gokit-di/errors"
	"github.com/kbukum/gokit-di/logger"
)

type engine struct {
	Horsepower int
	Label      string
	started    bool
}

func newEngine(horsepower int) *engine { return &engine{Horsepower: horsepower} }

func (e *engine) Start() { e.started = true }

type wheel struct {
	Size int
}

func newWheel(size int) *wheel { return &wheel{Size: size} }

type car struct {
	Engine *engine
	Wheel  *wheel
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat := NewCatalog()
	MustAdd[*engine](cat, "engine", di.Fn(newEngine, "horsepower"))
	MustAdd[*wheel](cat, "wheel", di.Fn(newWheel, "size"))
	return cat
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "di.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func configFile(path string) []config.LoaderOption {
	return []config.LoaderOption{
		config.WithConfigFile(path),
		config.WithEnvFile("/nonexistent/.env"),
	}
}

func TestCatalog(t *testing.T) {
	cat := testCatalog(t)

	e, ok := cat.Lookup(" engine ")
	if !ok {
		t.Fatal("expected lookup to ignore surrounding spaces")
	}
	if _, ok := cat.Lookup("Engine"); ok {
		t.Error("expected names to match case-sensitively")
	}
	if e.Key != di.Key[*engine]() {
		t.Errorf("expected key %v, got %v", di.Key[*engine](), e.Key)
	}
	if got := strings.Join(cat.Names(), ","); got != "engine,wheel" {
		t.Errorf("expected sorted names, got %q", got)
	}

	if err := Add[*wheel](cat, "Wheel", newWheel); err != nil {
		t.Errorf("expected Wheel to be distinct from wheel, got %v", err)
	}
	err := Add[*wheel](cat, "wheel ", newWheel)
	if appErr, ok := errors.AsAppError(err); !ok || appErr.Code != errors.ErrCodeAlreadyExists {
		t.Errorf("expected ALREADY_EXISTS, got %v", err)
	}
	if err := Add[*wheel](cat, " ", newWheel); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestBuild(t *testing.T) {
	cat := testCatalog(t)
	specs := []Spec{
		{
			Type:   "engine",
			Kwargs: map[string]any{"horsepower": 300},
			Attrs:  []AttrSpec{{Name: "Label", Value: "main"}},
			Calls:  []CallSpec{{Method: "Start"}},
			Cache:  true,
		},
		{Type: "wheel", Args: []any{"17"}},
	}

	reg, err := Build(cat, specs)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 recipes, got %d", reg.Len())
	}

	r := di.NewResolver(reg)
	res, err := r.Inject(di.Fn(func(e *engine, w *wheel) car {
		return car{Engine: e, Wheel: w}
	}, "engine", "wheel"))
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}
	c := res.Value(0).(car)
	if c.Engine.Horsepower != 300 || c.Engine.Label != "main" || !c.Engine.started {
		t.Errorf("engine not configured: %+v", c.Engine)
	}
	if c.Wheel.Size != 17 {
		t.Errorf("expected wheel size 17 coerced from string, got %d", c.Wheel.Size)
	}
}

func TestBuildUnknownType(t *testing.T) {
	_, err := Build(testCatalog(t), []Spec{{Type: "gearbox"}})
	if appErr, ok := errors.AsAppError(err); !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	prev := logger.Default()
	defer logger.SetDefault(prev)

	path := writeConfig(t, `
name: garage
environment: production
logging:
  level: warn
di:
  async_policy: fail
  recipes:
    - type: engine
      cache: true
      kwargs:
        horsepower: 250
      attrs:
        - name: Label
          value: spare
      calls:
        - method: Start
    - type: wheel
      args: [19]
`)

	loaded, err := Load("garage", testCatalog(t), configFile(path)...)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.File.Name != "garage" {
		t.Errorf("expected name 'garage', got %q", loaded.File.Name)
	}
	if loaded.File.Logging.Level != "warn" || logger.Default() == prev {
		t.Error("expected the logging section to become the default logger")
	}
	if loaded.Registry.Len() != 2 {
		t.Fatalf("expected 2 recipes, got %d", loaded.Registry.Len())
	}

	r := loaded.Resolver()
	first, err := di.Resolve[*engine](context.Background(), r)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second := di.MustResolve[*engine](context.Background(), r)
	if first != second {
		t.Error("expected the cached engine to be reused")
	}
	if first.Horsepower != 250 || first.Label != "spare" || !first.started {
		t.Errorf("engine not configured from file: %+v", first)
	}

	w := di.MustResolve[*wheel](context.Background(), r)
	if w.Size != 19 {
		t.Errorf("expected wheel size 19, got %d", w.Size)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantField string
	}{
		{
			name: "missing type",
			content: `
di:
  recipes:
    - cache: true
`,
			wantField: "di.recipes[0].type",
		},
		{
			name: "unknown type",
			content: `
di:
  recipes:
    - type: gearbox
`,
			wantField: "di.recipes[0].type",
		},
		{
			name: "duplicate type",
			content: `
di:
  recipes:
    - type: wheel
    - type: wheel
`,
			wantField: "di.recipes[1].type",
		},
		{
			name: "unexported method",
			content: `
di:
  recipes:
    - type: engine
      calls:
        - method: start
`,
			wantField: "di.recipes[0].calls[0].method",
		},
		{
			name: "bad sample rate",
			content: `
observability:
  sample_rate: 2
`,
			wantField: "observability.sample_rate",
		},
		{
			name: "bad environment",
			content: `
environment: qa
`,
			wantField: "environment",
		},
		{
			name: "bad async policy",
			content: `
di:
  async_policy: race
`,
			wantField: "di.async_policy",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, err := Load("garage", testCatalog(t), configFile(path)...)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantField) {
				t.Errorf("expected error mentioning %q, got %q", tc.wantField, err.Error())
			}
		})
	}
}

func TestLoadedResolverDetach(t *testing.T) {
	defer logger.SetDefault(logger.Default())

	path := writeConfig(t, `
di:
  async_policy: detach
`)
	loaded, err := Load("garage", testCatalog(t), configFile(path)...)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	opts := loaded.File.DI.Options()
	if len(opts) != 1 {
		t.Errorf("expected one option for detach policy, got %d", len(opts))
	}
}

func TestLoadedTelemetry(t *testing.T) {
	defer logger.SetDefault(logger.Default())
	prevTP, prevMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	defer func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	}()

	tests := []struct {
		name     string
		content  string
		wantOpts int
	}{
		{"disabled", "name: garage\n", 0},
		{"tracing", "observability:\n  tracing: true\n  insecure: true\n", 1},
		{"tracing and metrics", "observability:\n  tracing: true\n  metrics: true\n  insecure: true\n", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			loaded, err := Load("garage", testCatalog(t), configFile(writeConfig(t, tc.content))...)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			p, opts, err := loaded.Telemetry(context.Background())
			if err != nil {
				t.Fatalf("Telemetry failed: %v", err)
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()
				_ = p.Shutdown(ctx)
			}()

			if len(opts) != tc.wantOpts {
				t.Errorf("expected %d options, got %d", tc.wantOpts, len(opts))
			}
			if (p == nil) != (tc.wantOpts == 0) {
				t.Errorf("unexpected provider %v", p)
			}
			// The options must be accepted by a resolver.
			loaded.Resolver(opts...)
		})
	}
}
