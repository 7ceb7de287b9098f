package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TASKFLOW"

// DefaultEnvFile is loaded into the environment when it exists.
const DefaultEnvFile = ".env"

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"port":         "server.port",
	"log-level":    "server.log_level",
	"log-format":   "server.log_format",
	"backend":      "store.backend",
	"json-path":    "store.json_path",
	"sqlite-path":  "store.sqlite_path",
	"database-url": "store.database_url",
}

// Options control where Load looks for configuration.
type Options struct {
	// ConfigFile is an optional YAML/JSON/TOML file. Empty means none.
	ConfigFile string
	// EnvFile is a dotenv file loaded before reading the environment.
	// Empty means DefaultEnvFile; a missing file is ignored.
	EnvFile string
	// Flags, when set, override every other source for the flags that were changed.
	Flags *pflag.FlagSet
}

// Load configuration from defaults, an optional dotenv file and environment
// variables. Environment variables take precedence over defaults.
func Load() (*Config, error) {
	return LoadWithOptions(Options{})
}

// LoadWithOptions loads configuration with precedence flags > environment >
// config file > defaults, then validates it.
func LoadWithOptions(opts Options) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", opts.ConfigFile, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %q: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Server.LogLevel = strings.ToLower(cfg.Server.LogLevel)
	cfg.Server.LogFormat = strings.ToLower(cfg.Server.LogFormat)
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.json_path", "tasks.json")
	v.SetDefault("store.users_json_path", "users.json")
	v.SetDefault("store.sqlite_path", "taskflow.db")
	v.SetDefault("store.database_url", "")

	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("search.default_limit", 20)
	v.SetDefault("search.drop_stop_words", true)
}

func loadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat env file %q: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}
