package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	coreControl "github.com/core-tools/hsu-core/pkg/control"
	coreDomain "github.com/core-tools/hsu-core/pkg/domain"
	coreLogging "github.com/core-tools/hsu-core/pkg/logging"

	"github.com/core-tools/hsu-roles/pkg/codec"
	"github.com/core-tools/hsu-roles/pkg/control"
	"github.com/core-tools/hsu-roles/pkg/domain"
	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/roles"
	"github.com/core-tools/hsu-roles/pkg/validator"

	flags "github.com/jessevdk/go-flags"
)

type flagOptions struct {
	ServerPath string `long:"server" description:"path to the server executable"`
	AttachPort int    `long:"port" description:"port to attach to the server"`
	Role       string `long:"role" description:"print a single role record"`
	Tree       bool   `long:"tree" description:"print the schema as an indented tree"`
	Format     string `long:"format" default:"json" description:"output encoding: json, yaml or cbor"`
	Validate   string `long:"validate" description:"validate a YAML configuration tree offline and exit"`
	Schema     string `long:"schema" description:"schema file used by --validate, built-in schema when empty"`
	LogLevel   string `long:"log-level" default:"warn" description:"log level: debug, info, warn or error"`
}

func logPrefix(module string) string {
	return fmt.Sprintf("module: %s-client , ", module)
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

	format, err := codec.ParseFormat(opts.Format)
	if err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	zapConfig := logging.DefaultZapConfig()
	zapConfig.Level = opts.LogLevel
	zapConfig.Output = os.Stderr
	backend, err := logging.NewZapBackend(zapConfig)
	if err != nil {
		fmt.Printf("Logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer backend.Sync()

	logger := logging.NewLogger("", backend.LogFuncs())
	logger.Debugf("opts: %+v", opts)

	if opts.Validate != "" {
		os.Exit(validateOffline(opts, logger))
	}

	if opts.ServerPath == "" && opts.AttachPort == 0 {
		fmt.Println("Server path or attach port is required")
		os.Exit(1)
	}

	coreLogger := coreLogging.NewLogger(
		logPrefix("hsu-core"), coreLogging.LogFuncs{
			Debugf: logger.Debugf,
			Infof:  logger.Infof,
			Warnf:  logger.Warnf,
			Errorf: logger.Errorf,
		})
	rolesLogger := logging.NewLogger(logPrefix("hsu-roles"), backend.LogFuncs())

	coreConnectionOptions := coreControl.ConnectionOptions{
		ServerPath: opts.ServerPath,
		AttachPort: opts.AttachPort,
	}
	coreConnection, err := coreControl.NewConnection(coreConnectionOptions, coreLogger)
	if err != nil {
		logger.Errorf("Failed to create core connection: %v", err)
		os.Exit(1)
	}

	coreClientGateway := coreControl.NewGRPCClientGateway(coreConnection.GRPC(), coreLogger)
	rolesClientGateway := control.NewGRPCClientGateway(coreConnection.GRPC(), rolesLogger)

	ctx := context.Background()

	retryPingOptions := coreDomain.RetryPingOptions{
		RetryAttempts: 10,
		RetryInterval: 1 * time.Second,
	}
	err = coreDomain.RetryPing(ctx, coreClientGateway, retryPingOptions, coreLogger)
	if err != nil {
		logger.Errorf("Failed to ping role server: %v", err)
		os.Exit(1)
	}

	switch {
	case opts.Role != "":
		err = printRole(ctx, rolesClientGateway, roles.ID(opts.Role), format)
	case opts.Tree:
		err = printTree(ctx, rolesClientGateway)
	default:
		err = printDocument(ctx, rolesClientGateway, format)
	}
	if err != nil {
		logger.Errorf("Query failed: %v", err)
		backend.Sync()
		os.Exit(1)
	}
}

func printRole(ctx context.Context, contract domain.Contract, id roles.ID, format codec.Format) error {
	node, err := contract.Role(ctx, id)
	if err != nil {
		return err
	}
	return write(format, node)
}

func printDocument(ctx context.Context, contract domain.Contract, format codec.Format) error {
	doc, err := contract.Document(ctx)
	if err != nil {
		return err
	}
	return write(format, doc)
}

func printTree(ctx context.Context, contract domain.Contract) error {
	return domain.WalkTree(ctx, contract, func(entry domain.RoleEntry, depth int) bool {
		cardinality := roles.Role{Optional: entry.Node.Optional, Multiple: entry.Node.Multiple}.Cardinality()
		line := strings.Repeat("  ", depth) + string(entry.ID)
		if entry.Node.Name != nil {
			line += fmt.Sprintf(" (%s)", *entry.Node.Name)
		}
		if depth > 0 {
			line += fmt.Sprintf(" [%s]", cardinality)
		}
		if entry.Node.Reorderable {
			line += " reorderable"
		}
		fmt.Println(line)
		return true
	})
}

func write(format codec.Format, v interface{}) error {
	data, err := codec.Encode(format, v)
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return errors.NewIOError("failed to write output", err)
	}
	if format == codec.FormatJSON {
		fmt.Println()
	}
	return nil
}

func validateOffline(opts flagOptions, logger logging.Logger) int {
	var registry *roles.Registry
	var err error
	if opts.Schema != "" {
		registry, err = roles.LoadRegistryFromFile(opts.Schema)
	} else {
		registry, err = roles.NewBuiltinRegistry()
	}
	if err != nil {
		logger.Errorf("Failed to load schema: %v", err)
		return 1
	}

	element, err := validator.LoadElementFromFile(opts.Validate)
	if err != nil {
		logger.Errorf("Failed to load configuration tree: %v", err)
		return 1
	}

	problems := validator.Problems(validator.Validate(registry, element))
	if len(problems) == 0 {
		fmt.Printf("%s: valid\n", opts.Validate)
		return 0
	}
	for _, problem := range problems {
		fmt.Printf("%s: %s\n", opts.Validate, validator.FormatProblem(problem))
	}
	return 2
}
