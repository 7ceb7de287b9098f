// Package config handles configuration loading, parsing, and validation
// from defaults, dotenv files, environment variables (TASKFLOW_ prefix),
// config files and command-line flags. It provides type-safe access to
// application settings while keeping configuration details separate from
// business logic.
package config
