package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Store  StoreConfig  `mapstructure:"store"  validate:"required"`
	Auth   AuthConfig   `mapstructure:"auth"   validate:"required"`
	Search SearchConfig `mapstructure:"search" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	LogFormat              string `mapstructure:"log_format"               validate:"required,oneof=json text"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// Store backends.
const (
	BackendMemory   = "memory"
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend       string `mapstructure:"backend"         validate:"required,oneof=memory json sqlite postgres"`
	JSONPath      string `mapstructure:"json_path"       validate:"required_if=Backend json"`
	UsersJSONPath string `mapstructure:"users_json_path" validate:"required_if=Backend json"`
	SQLitePath    string `mapstructure:"sqlite_path"     validate:"required_if=Backend sqlite"`
	DatabaseURL   string `mapstructure:"database_url"    validate:"required_if=Backend postgres"`
}

// AuthConfig contains password hashing settings.
type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// SearchConfig contains free-text search settings.
type SearchConfig struct {
	DefaultLimit  int  `mapstructure:"default_limit"   validate:"gte=1,lte=100"`
	DropStopWords bool `mapstructure:"drop_stop_words"`
}
