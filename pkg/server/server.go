package server

import (
	"context"
	"net"
	"time"

	corecontrol "github.com/core-tools/hsu-core/pkg/control"
	coredomain "github.com/core-tools/hsu-core/pkg/domain"
	corelogging "github.com/core-tools/hsu-core/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/control"
	"github.com/core-tools/hsu-roles/pkg/domain"
	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/roles"

	"google.golang.org/grpc"
)

type RoleServerOptions struct {
	Port                 int
	ForceShutdownTimeout time.Duration
	Listener             net.Listener
}

// RoleServer serves one immutable schema registry over gRPC, next to the
// hsu-core service used for liveness pings.
type RoleServer struct {
	server   *control.ManagedServer
	registry *roles.Registry
	logger   logging.Logger
}

func NewRoleServer(options RoleServerOptions, registry *roles.Registry, coreLogger corelogging.Logger, logger logging.Logger) (*RoleServer, error) {
	if registry == nil {
		return nil, errors.NewValidationError("registry cannot be nil", nil)
	}

	managed, err := control.NewManagedServer(control.ManagedServerOptions{
		Port:                 options.Port,
		ForceShutdownTimeout: options.ForceShutdownTimeout,
		Listener:             options.Listener,
	}, coreLogger, logging.NewChildLogger(logger, "grpc, "))
	if err != nil {
		return nil, errors.NewInternalError("failed to create server", err)
	}

	// Register core services
	coreHandler := coredomain.NewDefaultHandler(coreLogger)

	// Register schema services
	schemaHandler := domain.NewSchemaHandler(registry, logger)

	err = managed.Register(func(registrar grpc.ServiceRegistrar) {
		corecontrol.RegisterGRPCServerHandler(registrar, coreHandler, coreLogger)
		control.RegisterGRPCServerHandler(registrar, schemaHandler, logger)
	})
	if err != nil {
		return nil, errors.NewInternalError("failed to register services", err)
	}

	return &RoleServer{
		server:   managed,
		registry: registry,
		logger:   logger,
	}, nil
}

func (s *RoleServer) Start(ctx context.Context) error {
	s.logger.Infof("Starting role server, roles: %d, root: %s", s.registry.Len(), s.registry.Root().ID)
	if err := s.server.Start(ctx); err != nil {
		return err
	}
	s.logger.Infof("Role server started, port: %d", s.server.Port())
	return nil
}

func (s *RoleServer) Stop(ctx context.Context) error {
	s.logger.Infof("Stopping role server...")
	if err := s.server.Stop(ctx); err != nil {
		return err
	}
	s.logger.Infof("Role server stopped")
	return nil
}

func (s *RoleServer) Status() control.LifecycleStatus {
	return s.server.Status()
}

func (s *RoleServer) Port() int {
	return s.server.Port()
}

func (s *RoleServer) Registry() *roles.Registry {
	return s.registry
}

// LoadRegistry builds the registry named by the schema configuration
func LoadRegistry(config SchemaConfigOptions, logger logging.Logger) (*roles.Registry, error) {
	if config.File == "" {
		logger.Infof("Using BUILT-IN schema")
		return roles.NewBuiltinRegistry()
	}

	logger.Infof("Using SCHEMA FILE: %s", config.File)
	return roles.LoadRegistryFromFile(config.File)
}
