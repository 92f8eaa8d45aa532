package control

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	corecontrol "github.com/core-tools/hsu-core/pkg/control"
	corelogging "github.com/core-tools/hsu-core/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/logging"

	"google.golang.org/grpc"
)

type ManagedServerOptions struct {
	Port                 int
	ForceShutdownTimeout time.Duration
	// Listener, when set, is served instead of opening Port
	Listener net.Listener
}

// LifecycleStatus is the state of a managed server
type LifecycleStatus string

const (
	LifecycleNotStarted LifecycleStatus = "not_started"
	LifecycleRunning    LifecycleStatus = "running"
	LifecycleStopping   LifecycleStatus = "stopping"
	LifecycleStopped    LifecycleStatus = "stopped"
)

const defaultForceShutdownTimeout = 30 * time.Second

// ManagedServer tracks the lifecycle of a gRPC server. On a TCP port it
// drives the hsu-core server; with an injected listener (in-memory tests) it
// serves a local grpc.Server. Services are registered before Start.
type ManagedServer struct {
	options    ManagedServerOptions
	coreServer corecontrol.Server
	local      *grpc.Server
	registrar  grpc.ServiceRegistrar
	status     LifecycleStatus
	serveDone  chan struct{}
	mutex      sync.Mutex
	logger     logging.Logger
}

func NewManagedServer(options ManagedServerOptions, coreLogger corelogging.Logger, logger logging.Logger) (*ManagedServer, error) {
	if options.ForceShutdownTimeout < 0 {
		return nil, errors.NewValidationError("force shutdown timeout cannot be negative", nil)
	}
	if options.ForceShutdownTimeout == 0 {
		options.ForceShutdownTimeout = defaultForceShutdownTimeout
	}

	s := &ManagedServer{
		options: options,
		status:  LifecycleNotStarted,
		logger:  logger,
	}

	if options.Listener != nil {
		s.local = grpc.NewServer()
		s.registrar = s.local
		return s, nil
	}

	if options.Port <= 0 || options.Port > 65535 {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid port: %d", options.Port), nil)
	}
	coreServer, err := corecontrol.NewServer(corecontrol.ServerOptions{Port: options.Port}, coreLogger)
	if err != nil {
		return nil, errors.NewNetworkError("failed to create server", err).WithContext("port", options.Port)
	}
	s.coreServer = coreServer
	s.registrar = coreServer.GRPC()
	return s, nil
}

// Register runs fn against the gRPC server. Registration after Start is a conflict.
func (s *ManagedServer) Register(fn func(grpc.ServiceRegistrar)) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.status != LifecycleNotStarted {
		return errors.NewConflictError("cannot register services on a started server", nil).
			WithContext("status", string(s.status))
	}
	fn(s.registrar)
	return nil
}

func (s *ManagedServer) Start(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.status != LifecycleNotStarted {
		return errors.NewConflictError("server already started", nil).WithContext("status", string(s.status))
	}

	if s.coreServer != nil {
		s.coreServer.Start(ctx)
	} else {
		s.serveDone = make(chan struct{})
		go func() {
			defer close(s.serveDone)
			if err := s.local.Serve(s.options.Listener); err != nil {
				s.logger.Errorf("gRPC server stopped serving: %v", err)
			}
		}()
	}

	s.status = LifecycleRunning
	s.logger.Infof("gRPC server started, address: %s", s.addr())
	return nil
}

func (s *ManagedServer) Stop(ctx context.Context) error {
	s.mutex.Lock()
	previous := s.status
	switch previous {
	case LifecycleStopping, LifecycleStopped:
		s.mutex.Unlock()
		return nil
	}
	s.status = LifecycleStopping
	s.mutex.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.options.ForceShutdownTimeout)
	defer cancel()

	s.logger.Infof("Stopping gRPC server...")

	switch {
	case s.coreServer != nil:
		// Also releases the port bound at construction when never started.
		s.coreServer.Shutdown(ctx)
	case previous == LifecycleRunning:
		s.stopLocal(ctx)
	}

	s.mutex.Lock()
	s.status = LifecycleStopped
	s.mutex.Unlock()

	s.logger.Infof("gRPC server stopped")
	return nil
}

func (s *ManagedServer) stopLocal(ctx context.Context) {
	stopped := make(chan struct{})
	go func() {
		s.local.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		s.logger.Warnf("Graceful stop timed out, forcing gRPC server down")
		s.local.Stop()
		<-stopped
	}
	<-s.serveDone
}

func (s *ManagedServer) Status() LifecycleStatus {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.status
}

// Addr is the served address: the injected listener's, or the loopback
// address the hsu-core server binds
func (s *ManagedServer) Addr() net.Addr {
	return s.addr()
}

func (s *ManagedServer) addr() net.Addr {
	if s.options.Listener != nil {
		return s.options.Listener.Addr()
	}
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: s.options.Port}
}

// Port is the configured TCP port, zero when serving an injected listener
func (s *ManagedServer) Port() int {
	if s.options.Listener != nil {
		return 0
	}
	return s.options.Port
}
