package server

import (
	"strings"
	"time"

	"github.com/core-tools/hsu-roles/pkg/errors"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix selects the environment variables overlaid on the file,
// HSU_ROLES_SERVER_PORT -> server.port, HSU_ROLES_SCHEMA_FILE -> schema.file
const EnvPrefix = "HSU_ROLES_"

const (
	DefaultPort                 = 50055
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "console"
	DefaultForceShutdownTimeout = 30 * time.Second
	DefaultSchemaFormat         = "json"
)

// Config represents the top-level configuration file structure
type Config struct {
	Server ServerConfigOptions `koanf:"server"`
	Schema SchemaConfigOptions `koanf:"schema"`
}

type ServerConfigOptions struct {
	Port                 int           `koanf:"port"`
	LogLevel             string        `koanf:"log_level"`
	LogFormat            string        `koanf:"log_format"`
	ForceShutdownTimeout time.Duration `koanf:"force_shutdown_timeout"`
}

// SchemaConfigOptions selects the schema to serve. An empty File serves the
// built-in device-management schema; Format is the encoding used when the
// document is exported.
type SchemaConfigOptions struct {
	File   string `koanf:"file"`
	Format string `koanf:"format"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.port":                   DefaultPort,
		"server.log_level":              DefaultLogLevel,
		"server.log_format":             DefaultLogFormat,
		"server.force_shutdown_timeout": DefaultForceShutdownTimeout.String(),
		"schema.file":                   "",
		"schema.format":                 DefaultSchemaFormat,
	}
}

// envKey maps HSU_ROLES_SERVER_LOG_LEVEL to server.log_level: the first
// underscore separates the section, the rest belong to the key.
func envKey(name string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_", ".", 1)
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// and HSU_ROLES_* environment variables, in increasing priority.
func LoadConfig(filename string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, errors.NewInternalError("failed to apply configuration defaults", err).WithContext("key", key)
		}
	}

	if filename != "" {
		if err := k.Load(file.Provider(filename), yaml.Parser()); err != nil {
			return nil, errors.NewIOError("failed to load configuration file", err).WithContext("filename", filename)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.NewIOError("failed to load configuration from environment", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, errors.NewValidationError("failed to parse configuration", err).WithContext("filename", filename)
	}

	return &config, nil
}

// ValidateConfig validates the entire configuration structure
func ValidateConfig(config *Config) error {
	if config == nil {
		return errors.NewValidationError("configuration cannot be nil", nil)
	}

	if err := validateServerConfig(&config.Server); err != nil {
		return errors.NewValidationError("invalid server configuration", err)
	}

	if err := validateSchemaConfig(&config.Schema); err != nil {
		return errors.NewValidationError("invalid schema configuration", err)
	}

	return nil
}

func validateServerConfig(config *ServerConfigOptions) error {
	if err := ValidatePort(config.Port); err != nil {
		return err
	}
	if err := ValidateTimeout(config.ForceShutdownTimeout, "force shutdown"); err != nil {
		return err
	}
	if err := ValidateLogLevel(config.LogLevel); err != nil {
		return err
	}
	return ValidateLogFormat(config.LogFormat)
}

func validateSchemaConfig(config *SchemaConfigOptions) error {
	return ValidateSchemaFormat(config.Format)
}
