package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/gokit-di/logger"
)

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
	})

	t.Run("production environment logs at info", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging in production, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid staging", ServiceConfig{Name: "svc", Environment: "staging"}, ""},
		{"missing name", ServiceConfig{Environment: "production"}, "name: is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment: must be one of"},
		{"invalid logging", ServiceConfig{Name: "svc", Environment: "staging", Logging: logger.Config{Format: "xml"}}, "logging.format: must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.Logging.ApplyDefaults()
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

type testFile struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	DI            struct {
		AsyncPolicy string        `mapstructure:"async_policy"`
		Timeout     time.Duration `mapstructure:"timeout"`
		Tags        []string      `mapstructure:"tags"`
	} `mapstructure:"di"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigWithYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "di.yml", `
name: test-service
environment: staging
di:
  async_policy: detach
  timeout: 2s
  tags: a,b
`)

	var cfg testFile
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "test-service" {
		t.Errorf("expected name 'test-service', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.DI.AsyncPolicy != "detach" {
		t.Errorf("expected async_policy 'detach', got %q", cfg.DI.AsyncPolicy)
	}
	if cfg.DI.Timeout != 2*time.Second {
		t.Errorf("expected timeout 2s, got %v", cfg.DI.Timeout)
	}
	if len(cfg.DI.Tags) != 2 {
		t.Errorf("expected 2 tags, got %v", cfg.DI.Tags)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "di.yml", `
name: test-service
di:
  async_policy: fail
`)
	t.Setenv("DI_ASYNC_POLICY", "detach")

	var cfg testFile
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DI.AsyncPolicy != "detach" {
		t.Errorf("expected env override 'detach', got %q", cfg.DI.AsyncPolicy)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "di.yml", "name: [unterminated\n")

	var cfg testFile
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path)); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg testFile
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestFileLocator(t *testing.T) {
	tests := []struct {
		name       string
		files      []string
		wantConfig string
		wantEnv    string
	}{
		{
			name:       "service dir",
			files:      []string{"cmd/billing-api/di.yml", "config/config.yml"},
			wantConfig: "cmd/billing-api/di.yml",
		},
		{
			name:       "short name",
			files:      []string{"../cmd/api/config.yml"},
			wantConfig: "../cmd/api/config.yml",
		},
		{
			name:       "di preferred over config",
			files:      []string{"cmd/billing-api/config.yml", "di.yml"},
			wantConfig: "di.yml",
		},
		{
			name:       "other formats",
			files:      []string{"config/di.toml", "config.yaml"},
			wantConfig: "config/di.toml",
		},
		{
			name:    "service env file",
			files:   []string{".env", "config/.env.billing-api"},
			wantEnv: "config/.env.billing-api",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := &mockFS{files: map[string]bool{}}
			for _, f := range tc.files {
				fs.files[f] = true
			}
			got := (&FileLocator{FileSystem: fs}).Locate("billing-api", LoaderConfig{})
			if got.ConfigFile != tc.wantConfig {
				t.Errorf("ConfigFile = %q, want %q", got.ConfigFile, tc.wantConfig)
			}
			if got.EnvFile != tc.wantEnv {
				t.Errorf("EnvFile = %q, want %q", got.EnvFile, tc.wantEnv)
			}
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		prefix, key, want string
	}{
		{"", "di.async_policy", "DI_ASYNC_POLICY"},
		{"garage", "di.async_policy", "GARAGE_DI_ASYNC_POLICY"},
		{"", "observability.sample-rate", "OBSERVABILITY_SAMPLE_RATE"},
	}
	for _, tc := range tests {
		if got := EnvKey(tc.prefix, tc.key); got != tc.want {
			t.Errorf("EnvKey(%q, %q) = %q, want %q", tc.prefix, tc.key, got, tc.want)
		}
	}
}

func TestLoadConfigEnvPrefix(t *testing.T) {
	path := writeFile(t, t.TempDir(), "di.yml", `
name: test-service
di:
  async_policy: fail
`)
	t.Setenv("DI_ASYNC_POLICY", "ignored")
	t.Setenv("GARAGE_DI_ASYNC_POLICY", "detach")

	var cfg testFile
	err := LoadConfig("test-service", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env"), WithEnvPrefix("GARAGE"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DI.AsyncPolicy != "detach" {
		t.Errorf("expected prefixed override 'detach', got %q", cfg.DI.AsyncPolicy)
	}
}

func TestLoadConfigIgnoresUnknownEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "di.yml", "name: test-service\n")
	t.Setenv("DI_ASYNC_POLICY", "detach")

	var cfg testFile
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DI.AsyncPolicy != "" {
		t.Errorf("expected keys absent from the file to stay unset, got %q", cfg.DI.AsyncPolicy)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "di.yml", "name: test-service\nenvironment: development\n")
	envPath := writeFile(t, dir, ".env", "ENVIRONMENT=staging\n")
	defer os.Unsetenv("ENVIRONMENT")

	var cfg testFile
	if err := LoadConfig("test-service", &cfg, WithConfigFile(path), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected .env override 'staging', got %q", cfg.Environment)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/di.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)
	WithEnvPrefix("GARAGE")(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/di.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
	if lc.EnvPrefix != "GARAGE" {
		t.Errorf("expected env prefix, got %q", lc.EnvPrefix)
	}
}
