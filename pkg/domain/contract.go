package domain

import (
	"context"

	"github.com/core-tools/hsu-roles/pkg/codec"
	"github.com/core-tools/hsu-roles/pkg/roles"
)

// RoleEntry pairs a role identity with its external representation
type RoleEntry struct {
	ID   roles.ID
	Node roles.Node
}

// Contract is the read-only schema API, served in process or over gRPC
type Contract interface {
	Status(ctx context.Context) (string, error)
	Root(ctx context.Context) (RoleEntry, error)
	Role(ctx context.Context, id roles.ID) (roles.Node, error)
	Children(ctx context.Context, id roles.ID) ([]RoleEntry, error)
	Document(ctx context.Context) (codec.Document, error)
}
