package main

import (
	"fmt"
	"os"

	coreLogging "github.com/core-tools/hsu-core/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/server"

	flags "github.com/jessevdk/go-flags"
)

type flagOptions struct {
	Config      string `long:"config" description:"path to the YAML configuration file"`
	Port        int    `long:"port" description:"port to listen on, overrides the configuration"`
	Schema      string `long:"schema" description:"path to a YAML schema file, overrides the configuration"`
	RunDuration int    `long:"run-duration" description:"stop after this many seconds"`
	Check       bool   `long:"check" description:"validate configuration and schema, print the schema document and exit"`
}

func logPrefix(module string) string {
	return fmt.Sprintf("module: %s-server , ", module)
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v", err)
		os.Exit(1)
	}

	runOptions := server.RunOptions{
		ConfigFile:  opts.Config,
		Port:        opts.Port,
		SchemaFile:  opts.Schema,
		RunDuration: opts.RunDuration,
	}
	config, err := server.ResolveConfig(runOptions)
	if err != nil {
		fmt.Printf("Configuration failed: %v\n", err)
		os.Exit(1)
	}

	zapConfig := logging.DefaultZapConfig()
	zapConfig.Level = config.Server.LogLevel
	zapConfig.Format = config.Server.LogFormat
	if opts.Check {
		// Stdout carries the schema document.
		zapConfig.Output = os.Stderr
	}
	backend, err := logging.NewZapBackend(zapConfig)
	if err != nil {
		fmt.Printf("Logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer backend.Sync()
	logFuncs := backend.LogFuncs()

	logger := logging.NewLogger("", logFuncs)
	logger.Infof("opts: %+v", opts)

	coreLogger := coreLogging.NewLogger(
		logPrefix("hsu-core"), coreLogging.LogFuncs{
			Debugf: logger.Debugf,
			Infof:  logger.Infof,
			Warnf:  logger.Warnf,
			Errorf: logger.Errorf,
		})
	rolesLogger := logging.NewLogger(logPrefix("hsu-roles"), logFuncs)

	if opts.Check {
		if err := server.Check(config, os.Stdout, rolesLogger); err != nil {
			logger.Errorf("Check failed: %v", err)
			backend.Sync()
			os.Exit(1)
		}
		return
	}

	logger.Infof("Starting...")

	if err := server.Run(runOptions, config, coreLogger, rolesLogger); err != nil {
		logger.Errorf("Role server failed: %v", err)
		backend.Sync()
		os.Exit(1)
	}
}
