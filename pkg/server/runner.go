package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	corelogging "github.com/core-tools/hsu-core/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/codec"
	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/logging"
)

// RunOptions carries command line overrides. Zero values keep the
// configuration's settings.
type RunOptions struct {
	ConfigFile  string
	Port        int
	SchemaFile  string
	RunDuration int
}

// ResolveConfig loads, overrides and validates the configuration
func ResolveConfig(options RunOptions) (*Config, error) {
	config, err := LoadConfig(options.ConfigFile)
	if err != nil {
		return nil, err
	}

	if options.Port != 0 {
		config.Server.Port = options.Port
	}
	if options.SchemaFile != "" {
		config.Schema.File = options.SchemaFile
	}

	if err := ValidateConfig(config); err != nil {
		return nil, errors.NewValidationError("configuration validation failed", err).WithContext("config_file", options.ConfigFile)
	}
	return config, nil
}

func Run(options RunOptions, config *Config, coreLogger corelogging.Logger, logger logging.Logger) error {
	logger.Infof("Role server runner starting...")

	// Create context with run duration
	ctx := context.Background()
	if options.RunDuration > 0 {
		duration := time.Duration(options.RunDuration) * time.Second
		logger.Infof("Using RUN DURATION of %v", duration)
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	registry, err := LoadRegistry(config.Schema, logger)
	if err != nil {
		return errors.NewValidationError("failed to load schema", err).WithContext("schema_file", config.Schema.File)
	}

	server, err := NewRoleServer(RoleServerOptions{
		Port:                 config.Server.Port,
		ForceShutdownTimeout: config.Server.ForceShutdownTimeout,
	}, registry, coreLogger, logger)
	if err != nil {
		return err
	}

	if err := server.Start(ctx); err != nil {
		return errors.NewNetworkError("failed to start role server", err)
	}

	logger.Infof("Enabling signal handling...")

	sig := make(chan os.Signal, 1)
	if runtime.GOOS == "windows" {
		signal.Notify(sig) // Unix signals not implemented on Windows
	} else {
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	}
	defer signal.Stop(sig)

	select {
	case receivedSignal := <-sig:
		logger.Infof("Role server runner received signal: %v", receivedSignal)
	case <-ctx.Done():
		logger.Infof("Role server runner timed out")
	}

	// Reset context to background to enable graceful shutdown
	if err := server.Stop(context.Background()); err != nil {
		return err
	}

	logger.Infof("Role server runner stopped")
	return nil
}

// Check validates the configuration and its schema without serving, then
// writes the schema document to out in the configured format. Useful for CI.
func Check(config *Config, out io.Writer, logger logging.Logger) error {
	registry, err := LoadRegistry(config.Schema, logger)
	if err != nil {
		return errors.NewValidationError("failed to load schema", err).WithContext("schema_file", config.Schema.File)
	}

	format, err := codec.ParseFormat(config.Schema.Format)
	if err != nil {
		return err
	}
	data, err := codec.Encode(format, codec.NewDocument(registry))
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return errors.NewIOError("failed to write schema document", err)
	}

	logger.Infof("Schema is valid, roles: %d, root: %s", registry.Len(), registry.Root().ID)
	return nil
}
