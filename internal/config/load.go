package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "GAMESHELF"

// FileName is the config file base name searched for when none is given.
const FileName = "gameshelf"

// Defaults returns the built-in value of every key.
func Defaults() map[string]interface{} {
	dir := DefaultDir()
	return map[string]interface{}{
		"log.level":        "info",
		"log.format":       "text",
		"theme.dir":        filepath.Join(dir, "themes"),
		"theme.active":     "default",
		"theme.strict":     false,
		"theme.watch":      true,
		"source.kind":      SourceDir,
		"source.url":       "",
		"store.attempts":   3,
		"store.backoff":    "250ms",
		"render.max_depth": 64,
		"render.width":     0,
		"session.path":     filepath.Join(dir, "session.yaml"),
		"server.addr":      "127.0.0.1:7420",
	}
}

// FlagKeys maps command-line flag names onto config keys.
var FlagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"themes-dir": "theme.dir",
	"theme":      "theme.active",
	"strict":     "theme.strict",
	"watch":      "theme.watch",
	"source":     "source.kind",
	"source-url": "source.url",
	"width":      "render.width",
	"max-depth":  "render.max_depth",
	"session":    "session.path",
	"addr":       "server.addr",
	"attempts":   "store.attempts",
	"backoff":    "store.backoff",
}

// Loader resolves a Config. The zero value is not usable; call NewLoader.
type Loader struct {
	v          *viper.Viper
	configFile string
	searchDirs []string
	envFiles   []string
	used       string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConfigFile reads the given file instead of searching for one. A
// missing explicit file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) { l.configFile = path }
}

// WithSearchDirs replaces the directories searched for gameshelf.yaml.
func WithSearchDirs(dirs ...string) LoaderOption {
	return func(l *Loader) { l.searchDirs = dirs }
}

// WithEnvFiles replaces the .env files read. Later files override earlier
// ones; missing files are ignored.
func WithEnvFiles(paths ...string) LoaderOption {
	return func(l *Loader) { l.envFiles = paths }
}

// NewLoader creates a loader with defaults registered.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		v:          viper.New(),
		searchDirs: []string{".", DefaultDir()},
		envFiles:   []string{filepath.Join(DefaultDir(), ".env"), ".env"},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	for key, value := range Defaults() {
		l.v.SetDefault(key, value)
	}
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
	return l
}

// BindFlags binds every flag in FlagKeys that exists in flags. Only flags
// the user changed take precedence over other sources.
func (l *Loader) BindFlags(flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range FlagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := l.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// ConfigFileUsed returns the config file read by the last Load, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.used
}

// Load reads every source, decodes and validates the result.
func (l *Loader) Load() (*Config, error) {
	if err := l.readConfigFile(); err != nil {
		return nil, err
	}
	if err := l.readEnvFiles(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Theme.Dir = expandHome(cfg.Theme.Dir)
	cfg.Session.Path = expandHome(cfg.Session.Path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) readConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(FileName)
		l.v.SetConfigType("yaml")
		for _, dir := range l.searchDirs {
			l.v.AddConfigPath(dir)
		}
	}

	err := l.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		l.used = l.v.ConfigFileUsed()
		return nil
	case l.configFile == "" && errors.As(err, &notFound):
		return nil
	default:
		return fmt.Errorf("read config file: %w", err)
	}
}

// readEnvFiles merges GAMESHELF_ entries of .env files above the config
// file. Variables already present in the process environment win through
// AutomaticEnv.
func (l *Loader) readEnvFiles() error {
	keys := Defaults()
	for _, path := range l.envFiles {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		values, err := godotenv.Unmarshal(string(data))
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		layer := map[string]interface{}{}
		for key := range keys {
			value, ok := values[EnvName(key)]
			if !ok {
				continue
			}
			section, field, _ := strings.Cut(key, ".")
			sub, _ := layer[section].(map[string]interface{})
			if sub == nil {
				sub = map[string]interface{}{}
				layer[section] = sub
			}
			sub[field] = value
		}
		if len(layer) == 0 {
			continue
		}
		if err := l.v.MergeConfigMap(layer); err != nil {
			return fmt.Errorf("merge %s: %w", path, err)
		}
	}
	return nil
}

// EnvName returns the environment variable read for a config key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
