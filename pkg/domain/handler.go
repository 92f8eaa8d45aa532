package domain

import (
	"context"
	"fmt"

	"github.com/core-tools/hsu-roles/pkg/codec"
	"github.com/core-tools/hsu-roles/pkg/logging"
	"github.com/core-tools/hsu-roles/pkg/roles"
)

// NewSchemaHandler serves the contract straight from a validated registry
func NewSchemaHandler(registry *roles.Registry, logger logging.Logger) Contract {
	return &schemaHandler{
		registry: registry,
		logger:   logger,
	}
}

type schemaHandler struct {
	registry *roles.Registry
	logger   logging.Logger
}

func (h *schemaHandler) Status(ctx context.Context) (string, error) {
	return fmt.Sprintf("hsu-roles: OK, roles: %d, root: %s", h.registry.Len(), h.registry.Root().ID), nil
}

func (h *schemaHandler) Root(ctx context.Context) (RoleEntry, error) {
	root := h.registry.Root()
	return RoleEntry{ID: root.ID, Node: roles.NodeOf(root)}, nil
}

func (h *schemaHandler) Role(ctx context.Context, id roles.ID) (roles.Node, error) {
	node, err := h.registry.Serialize(id)
	if err != nil {
		h.logger.Debugf("Role lookup failed, id: %s, error: %v", id, err)
		return roles.Node{}, err
	}
	return node, nil
}

func (h *schemaHandler) Children(ctx context.Context, id roles.ID) ([]RoleEntry, error) {
	children, err := h.registry.Children(id)
	if err != nil {
		h.logger.Debugf("Children lookup failed, id: %s, error: %v", id, err)
		return nil, err
	}
	entries := make([]RoleEntry, 0, len(children))
	for _, child := range children {
		entries = append(entries, RoleEntry{ID: child.ID, Node: roles.NodeOf(child)})
	}
	return entries, nil
}

func (h *schemaHandler) Document(ctx context.Context) (codec.Document, error) {
	return codec.NewDocument(h.registry), nil
}
