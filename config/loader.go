package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/injex/logger"
)

// FileSystem is the file access LoadConfig needs. Tests substitute it.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

type osFileSystem struct{}

func (osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (osFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// configNames are tried in every search directory, in order.
var configNames = []string{"config.yml", "config.yaml", "injex.yml"}

// Sources are the files a configuration is read from. Empty means none.
type Sources struct {
	ConfigFile string
	EnvFile    string
}

// LoaderConfig holds the settings applied by LoaderOptions.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix is prepended to every environment variable name:
	// with "INJEX", registry.name reads INJEX_REGISTRY_NAME.
	EnvPrefix string
	Logger    *logger.Logger
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the OS file system.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile reads path instead of searching for a config file.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile loads path instead of searching for a .env file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// WithLogger reports resolved sources and load problems through l instead of
// the config component logger.
func WithLogger(l *logger.Logger) LoaderOption {
	return func(lc *LoaderConfig) { lc.Logger = l }
}

func newLoaderConfig(opts []LoaderOption) *LoaderConfig {
	lc := &LoaderConfig{FileSystem: osFileSystem{}}
	for _, opt := range opts {
		opt(lc)
	}
	if lc.Logger == nil {
		lc.Logger = logger.Get(logger.ComponentConfig)
	}
	return lc
}

// Resolve picks the files for serviceName. An explicit path is kept only
// if it exists; otherwise the standard locations are searched, most
// specific first: cmd/<service>, config/<service>, config, then the working
// directory, each also tried one and two levels up.
func (lc *LoaderConfig) Resolve(serviceName string) Sources {
	dirs := searchDirs(serviceName)
	return Sources{
		ConfigFile: lc.pick(lc.ConfigFile, dirs, configNames),
		EnvFile:    lc.pick(lc.EnvFile, dirs, []string{".env." + serviceName, ".env"}),
	}
}

func (lc *LoaderConfig) pick(explicit string, dirs, names []string) string {
	if explicit != "" {
		if lc.FileSystem.Exists(explicit) {
			return explicit
		}
		lc.Logger.Warn("configured file not found", logger.Fields("file", explicit))
		return ""
	}
	for _, dir := range dirs {
		for _, name := range names {
			if path := filepath.Join(dir, name); lc.FileSystem.Exists(path) {
				return path
			}
		}
	}
	return ""
}

func searchDirs(serviceName string) []string {
	var dirs []string
	for _, up := range []string{".", "..", filepath.Join("..", "..")} {
		dirs = append(dirs,
			filepath.Join(up, "cmd", serviceName),
			filepath.Join(up, "config", serviceName),
		)
	}
	for _, up := range []string{".", "..", filepath.Join("..", "..")} {
		dirs = append(dirs, filepath.Join(up, "config"))
	}
	return append(dirs, ".", "..")
}

// LoadConfig reads the configuration of serviceName into cfg, a pointer to
// Config or to a struct embedding it. Values come from the config file, then
// from environment variables, which a .env file may supply. Every key of
// cfg's layout is bound to an environment variable named after its path:
// telemetry.sample_rate reads TELEMETRY_SAMPLE_RATE.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := newLoaderConfig(opts)
	src := lc.Resolve(serviceName)
	log := lc.Logger.WithFields(logger.Fields(logger.FieldService, serviceName))

	v := viper.New()
	if src.ConfigFile != "" {
		v.SetConfigFile(src.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", src.ConfigFile, err)
		}
	}

	if src.EnvFile != "" {
		if err := lc.FileSystem.LoadEnv(src.EnvFile); err != nil {
			log.Warn("failed to load env file", logger.MergeWithError(logger.Fields("file", src.EnvFile), err))
		}
	}

	for _, key := range settingKeys(reflect.TypeOf(cfg), "") {
		if err := v.BindEnv(key, envName(lc.EnvPrefix, key)); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}

	log.Debug("configuration sources resolved", logger.Fields(
		"config_file", src.ConfigFile,
		"env_file", src.EnvFile,
	))

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

var timeType = reflect.TypeOf(time.Time{})

// settingKeys lists the dotted keys of t's mapstructure layout. Squashed
// embedded structs contribute their keys at the parent's level.
func settingKeys(t reflect.Type, prefix string) []string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if strings.Contains(opts, "squash") {
			keys = append(keys, settingKeys(ft, prefix)...)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		if ft.Kind() == reflect.Struct && ft != timeType {
			keys = append(keys, settingKeys(ft, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// envName maps a dotted key to its environment variable.
func envName(prefix, key string) string {
	name := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if prefix == "" {
		return name
	}
	return strings.ToUpper(prefix) + "_" + name
}
