package control

import (
	"context"

	"github.com/core-tools/hsu-roles/pkg/codec"
	"github.com/core-tools/hsu-roles/pkg/domain"
	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/roles"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func NewGRPCClientGateway(grpcClientConnection grpc.ClientConnInterface, logger logging.Logger) domain.Contract {
	grpcClient := NewRoleSchemaClient(grpcClientConnection)
	return &grpcClientGateway{
		grpcClient: grpcClient,
		logger:     logger,
	}
}

type grpcClientGateway struct {
	grpcClient RoleSchemaClient
	logger     logging.Logger
}

func (gw *grpcClientGateway) Status(ctx context.Context) (string, error) {
	response, err := gw.grpcClient.Status(ctx, &emptypb.Empty{})
	if err != nil {
		gw.logger.Errorf("Status client gateway: %v", err)
		return "", fromStatus(err, "Status", "")
	}
	gw.logger.Debugf("Status client gateway done")
	return response.GetValue(), nil
}

func (gw *grpcClientGateway) Root(ctx context.Context) (domain.RoleEntry, error) {
	response, err := gw.grpcClient.GetRoot(ctx, &emptypb.Empty{})
	if err != nil {
		gw.logger.Errorf("GetRoot client gateway: %v", err)
		return domain.RoleEntry{}, fromStatus(err, "GetRoot", "")
	}
	entry, err := entryFromStruct(response)
	if err != nil {
		return domain.RoleEntry{}, errors.NewInternalError("malformed root entry", err)
	}
	gw.logger.Debugf("GetRoot client gateway done, root: %s", entry.ID)
	return entry, nil
}

func (gw *grpcClientGateway) Role(ctx context.Context, id roles.ID) (roles.Node, error) {
	response, err := gw.grpcClient.GetRole(ctx, wrapperspb.String(string(id)))
	if err != nil {
		gw.logger.Debugf("GetRole client gateway, id: %s, error: %v", id, err)
		return roles.Node{}, fromStatus(err, "GetRole", string(id))
	}
	node, err := nodeFromStruct(response)
	if err != nil {
		return roles.Node{}, errors.NewInternalError("malformed role record", err).WithContext("role", string(id))
	}
	gw.logger.Debugf("GetRole client gateway done, id: %s", id)
	return node, nil
}

func (gw *grpcClientGateway) Children(ctx context.Context, id roles.ID) ([]domain.RoleEntry, error) {
	response, err := gw.grpcClient.GetChildren(ctx, wrapperspb.String(string(id)))
	if err != nil {
		gw.logger.Debugf("GetChildren client gateway, id: %s, error: %v", id, err)
		return nil, fromStatus(err, "GetChildren", string(id))
	}
	entries, err := entriesFromList(response)
	if err != nil {
		return nil, errors.NewInternalError("malformed children list", err).WithContext("role", string(id))
	}
	gw.logger.Debugf("GetChildren client gateway done, id: %s, children: %d", id, len(entries))
	return entries, nil
}

func (gw *grpcClientGateway) Document(ctx context.Context) (codec.Document, error) {
	response, err := gw.grpcClient.GetDocument(ctx, &emptypb.Empty{})
	if err != nil {
		gw.logger.Errorf("GetDocument client gateway: %v", err)
		return codec.Document{}, fromStatus(err, "GetDocument", "")
	}
	doc, err := documentFromStruct(response)
	if err != nil {
		return codec.Document{}, errors.NewInternalError("malformed document", err)
	}
	gw.logger.Debugf("GetDocument client gateway done, roles: %d", len(doc.Roles))
	return doc, nil
}
