package control

import (
	"context"

	"github.com/core-tools/hsu-roles/pkg/domain"
	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/roles"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func RegisterGRPCServerHandler(grpcServerRegistrar grpc.ServiceRegistrar, handler domain.Contract, logger logging.Logger) {
	RegisterRoleSchemaServer(grpcServerRegistrar, &grpcServerHandler{
		handler: handler,
		logger:  logger,
	})
}

type grpcServerHandler struct {
	handler domain.Contract
	logger  logging.Logger
}

func (h *grpcServerHandler) Status(ctx context.Context, request *emptypb.Empty) (*wrapperspb.StringValue, error) {
	status, err := h.handler.Status(ctx)
	if err != nil {
		h.logger.Errorf("Status server handler: %v", err)
		return nil, toStatus(err)
	}
	h.logger.Debugf("Status server handler done")
	return wrapperspb.String(status), nil
}

func (h *grpcServerHandler) GetRoot(ctx context.Context, request *emptypb.Empty) (*structpb.Struct, error) {
	entry, err := h.handler.Root(ctx)
	if err != nil {
		h.logger.Errorf("GetRoot server handler: %v", err)
		return nil, toStatus(err)
	}
	response, err := entryToStruct(entry)
	if err != nil {
		return nil, toStatus(errors.NewInternalError("failed to encode root entry", err))
	}
	h.logger.Debugf("GetRoot server handler done, root: %s", entry.ID)
	return response, nil
}

func (h *grpcServerHandler) GetRole(ctx context.Context, request *wrapperspb.StringValue) (*structpb.Struct, error) {
	id := roles.ID(request.GetValue())
	node, err := h.handler.Role(ctx, id)
	if err != nil {
		h.logger.Debugf("GetRole server handler, id: %s, error: %v", id, err)
		return nil, toStatus(err)
	}
	response, err := nodeToStruct(node)
	if err != nil {
		return nil, toStatus(errors.NewInternalError("failed to encode role", err).WithContext("role", string(id)))
	}
	h.logger.Debugf("GetRole server handler done, id: %s", id)
	return response, nil
}

func (h *grpcServerHandler) GetChildren(ctx context.Context, request *wrapperspb.StringValue) (*structpb.ListValue, error) {
	id := roles.ID(request.GetValue())
	entries, err := h.handler.Children(ctx, id)
	if err != nil {
		h.logger.Debugf("GetChildren server handler, id: %s, error: %v", id, err)
		return nil, toStatus(err)
	}
	response, err := entriesToList(entries)
	if err != nil {
		return nil, toStatus(errors.NewInternalError("failed to encode children", err).WithContext("role", string(id)))
	}
	h.logger.Debugf("GetChildren server handler done, id: %s, children: %d", id, len(entries))
	return response, nil
}

func (h *grpcServerHandler) GetDocument(ctx context.Context, request *emptypb.Empty) (*structpb.Struct, error) {
	doc, err := h.handler.Document(ctx)
	if err != nil {
		h.logger.Errorf("GetDocument server handler: %v", err)
		return nil, toStatus(err)
	}
	response, err := documentToStruct(doc)
	if err != nil {
		return nil, toStatus(errors.NewInternalError("failed to encode document", err))
	}
	h.logger.Debugf("GetDocument server handler done, roles: %d", len(doc.Roles))
	return response, nil
}
