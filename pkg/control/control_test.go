package control

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	coreLogging "github.com/core-tools/hsu-core/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/domain"
	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/roles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

func nopCoreLogger() coreLogging.Logger {
	nop := func(string, ...interface{}) {}
	return coreLogging.NewLogger("", coreLogging.LogFuncs{Debugf: nop, Infof: nop, Warnf: nop, Errorf: nop})
}

type testRig struct {
	server  *ManagedServer
	gateway domain.Contract
	local   domain.Contract
}

func startRig(t *testing.T, registry *roles.Registry) *testRig {
	t.Helper()
	logger := logging.NewNopLogger()
	listener := bufconn.Listen(bufSize)

	server, err := NewManagedServer(ManagedServerOptions{
		Listener:             listener,
		ForceShutdownTimeout: 2 * time.Second,
	}, nopCoreLogger(), logger)
	require.NoError(t, err)

	local := domain.NewSchemaHandler(registry, logger)
	require.NoError(t, server.Register(func(registrar grpc.ServiceRegistrar) {
		RegisterGRPCServerHandler(registrar, local, logger)
	}))
	require.NoError(t, server.Start(context.Background()))
	t.Cleanup(func() { _ = server.Stop(context.Background()) })

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return listener.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testRig{
		server:  server,
		gateway: NewGRPCClientGateway(conn, logger),
		local:   local,
	}
}

func TestGateway_MatchesLocalHandler(t *testing.T) {
	registry, err := roles.NewBuiltinRegistry()
	require.NoError(t, err)
	rig := startRig(t, registry)
	ctx := context.Background()

	status, err := rig.gateway.Status(ctx)
	require.NoError(t, err)
	assert.Contains(t, status, "roles: 30")

	remoteRoot, err := rig.gateway.Root(ctx)
	require.NoError(t, err)
	localRoot, err := rig.local.Root(ctx)
	require.NoError(t, err)
	assert.Equal(t, localRoot, remoteRoot)

	for _, id := range registry.IDs() {
		remote, err := rig.gateway.Role(ctx, id)
		require.NoError(t, err)
		local, err := rig.local.Role(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, local, remote, "role %s", id)

		remoteChildren, err := rig.gateway.Children(ctx, id)
		require.NoError(t, err)
		localChildren, err := rig.local.Children(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, localChildren, remoteChildren, "children of %s", id)
	}

	remoteDoc, err := rig.gateway.Document(ctx)
	require.NoError(t, err)
	localDoc, err := rig.local.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, localDoc, remoteDoc)
}

func TestGateway_UnknownRole(t *testing.T) {
	registry, err := roles.NewBuiltinRegistry()
	require.NoError(t, err)
	rig := startRig(t, registry)
	ctx := context.Background()

	_, err = rig.gateway.Role(ctx, "NoSuchRole")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownRoleError(err))

	_, err = rig.gateway.Children(ctx, "NoSuchRole")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownRoleError(err))
}

func TestGateway_NullNameAndOmittedChildren(t *testing.T) {
	registry, err := roles.NewRegistry(roles.Definition{
		Roles: []roles.Role{
			{ID: "root", Children: []roles.ID{"leaf"}},
			{ID: "leaf", Name: "Leaf", Optional: true},
		},
	})
	require.NoError(t, err)
	rig := startRig(t, registry)
	ctx := context.Background()

	root, err := rig.gateway.Root(ctx)
	require.NoError(t, err)
	assert.Nil(t, root.Node.Name)
	assert.Equal(t, []string{"leaf"}, root.Node.Children)

	leaf, err := rig.gateway.Role(ctx, "leaf")
	require.NoError(t, err)
	require.NotNil(t, leaf.Name)
	assert.Equal(t, "Leaf", *leaf.Name)
	assert.Nil(t, leaf.Children)

	children, err := rig.gateway.Children(ctx, "leaf")
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestGateway_WalkTree(t *testing.T) {
	registry, err := roles.NewBuiltinRegistry()
	require.NoError(t, err)
	rig := startRig(t, registry)

	var remote []roles.ID
	require.NoError(t, domain.WalkTree(context.Background(), rig.gateway, func(entry domain.RoleEntry, depth int) bool {
		remote = append(remote, entry.ID)
		return true
	}))

	var local []roles.ID
	registry.Walk(func(role roles.Role, depth int) bool {
		local = append(local, role.ID)
		return true
	})
	assert.Equal(t, local, remote)
}

func TestManagedServer_Lifecycle(t *testing.T) {
	listener := bufconn.Listen(bufSize)
	server, err := NewManagedServer(ManagedServerOptions{Listener: listener}, nopCoreLogger(), logging.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, LifecycleNotStarted, server.Status())
	assert.Equal(t, listener.Addr(), server.Addr())
	assert.Equal(t, 0, server.Port())

	require.NoError(t, server.Start(context.Background()))
	assert.Equal(t, LifecycleRunning, server.Status())

	err = server.Start(context.Background())
	assert.True(t, errors.IsConflictError(err))

	err = server.Register(func(grpc.ServiceRegistrar) {})
	assert.True(t, errors.IsConflictError(err))

	require.NoError(t, server.Stop(context.Background()))
	assert.Equal(t, LifecycleStopped, server.Status())

	// Stopping twice is harmless.
	require.NoError(t, server.Stop(context.Background()))
}

func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}

func TestManagedServer_TCPServesRegisteredServices(t *testing.T) {
	registry, err := roles.NewBuiltinRegistry()
	require.NoError(t, err)
	logger := logging.NewNopLogger()
	port := freePort(t)

	server, err := NewManagedServer(ManagedServerOptions{Port: port, ForceShutdownTimeout: 2 * time.Second}, nopCoreLogger(), logger)
	require.NoError(t, err)
	require.NoError(t, server.Register(func(registrar grpc.ServiceRegistrar) {
		RegisterGRPCServerHandler(registrar, domain.NewSchemaHandler(registry, logger), logger)
	}))
	require.NoError(t, server.Start(context.Background()))
	defer server.Stop(context.Background())

	assert.Equal(t, port, server.Port())
	assert.Equal(t, fmt.Sprintf("127.0.0.1:%d", port), server.Addr().String())

	conn, err := grpc.DialContext(context.Background(), server.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	status, err := NewGRPCClientGateway(conn, logger).Status(ctx)
	require.NoError(t, err)
	assert.Contains(t, status, "roles: 30")

	require.NoError(t, server.Stop(context.Background()))
	assert.Equal(t, LifecycleStopped, server.Status())
}

func TestManagedServer_StopBeforeStart(t *testing.T) {
	server, err := NewManagedServer(ManagedServerOptions{Listener: bufconn.Listen(bufSize)}, nopCoreLogger(), logging.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, server.Stop(context.Background()))
	assert.Equal(t, LifecycleStopped, server.Status())

	err = server.Start(context.Background())
	assert.True(t, errors.IsConflictError(err))
}

func TestNewManagedServer_InvalidOptions(t *testing.T) {
	_, err := NewManagedServer(ManagedServerOptions{Port: 70000}, nopCoreLogger(), logging.NewNopLogger())
	assert.True(t, errors.IsValidationError(err))

	_, err = NewManagedServer(ManagedServerOptions{Port: 0}, nopCoreLogger(), logging.NewNopLogger())
	assert.True(t, errors.IsValidationError(err))

	_, err = NewManagedServer(ManagedServerOptions{Port: 1, ForceShutdownTimeout: -time.Second}, nopCoreLogger(), logging.NewNopLogger())
	assert.True(t, errors.IsValidationError(err))
}
