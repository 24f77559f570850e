package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/gokit-di/logger"
)

// Config file base names, most preferred first, and the extensions tried
// for each. The format follows the extension.
var (
	ConfigNames      = []string{"di", "config"}
	ConfigExtensions = []string{".yml", ".yaml", ".json", ".toml"}
)

// FileSystem abstracts the file operations of the loader for tests.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem is the FileSystem of the running process.
type OSFileSystem struct{}

// Exists reports whether path can be stat'ed.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads path into the process environment without overriding
// variables that are already set.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// FileLocator finds the config and env files of a service.
type FileLocator struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths. Either may
// be empty.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Locate returns the explicit paths of opts, searching for the missing ones.
func (fl *FileLocator) Locate(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	dirs := searchDirs(serviceName)

	if resolved.ConfigFile == "" {
		var names []string
		for _, base := range ConfigNames {
			for _, ext := range ConfigExtensions {
				names = append(names, base+ext)
			}
		}
		resolved.ConfigFile = fl.first(names, dirs)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = fl.first([]string{".env." + serviceName, ".env"}, dirs)
	}
	return resolved
}

// first returns the first existing dir/name, trying every dir for a name
// before moving to the next name.
func (fl *FileLocator) first(names, dirs []string) string {
	for _, name := range names {
		for _, dir := range dirs {
			if path := filepath.Join(dir, name); fl.FileSystem.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// searchDirs lists the directories searched for a service, most specific
// first. "billing-api" is also searched as "api".
func searchDirs(serviceName string) []string {
	names := []string{serviceName}
	if idx := strings.LastIndex(serviceName, "-"); idx != -1 {
		names = append(names, serviceName[idx+1:])
	}

	roots := []string{".", "..", filepath.Join("..", "..")}
	var dirs []string
	for _, root := range roots {
		for _, name := range names {
			dirs = append(dirs, filepath.Join(root, "cmd", name))
		}
	}
	for _, root := range roots {
		dirs = append(dirs, filepath.Join(root, "config"))
	}
	return append(dirs, roots...)
}

// LoaderConfig holds dependencies and optional overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix, when set, is required on overriding variables:
	// prefix "GARAGE" maps GARAGE_DI_ASYNC_POLICY to di.async_policy.
	EnvPrefix string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the prefix of overriding environment variables.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// LoadConfig loads the config of serviceName into cfg.
//
// Values come from the config file, then from environment variables named
// after the file's keys (di.async_policy is overridden by DI_ASYNC_POLICY).
// Variables from the .env file count as environment. A missing config file
// is not an error; a malformed one is.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: OSFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	files := (&FileLocator{FileSystem: lc.FileSystem}).Locate(serviceName, lc)
	log := logger.Get("config")
	v := viper.New()

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
		log.Debug("config file loaded", logger.Fields("file", files.ConfigFile, logger.FieldService, serviceName))
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load .env file", logger.MergeWithError(logger.Fields("file", files.EnvFile), err))
		}
	}
	bindEnv(v, lc.EnvPrefix)

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, hook); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// bindEnv lets the environment override every key the file defines. Keys
// the file does not define are left alone, so unrelated variables never
// leak into the config.
func bindEnv(v *viper.Viper, prefix string) {
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key)
	}
}

// EnvKey returns the environment variable that overrides key.
func EnvKey(prefix, key string) string {
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	if prefix == "" {
		return name
	}
	return strings.ToUpper(prefix) + "_" + name
}
