package domain

import (
	"context"

	"github.com/core-tools/hsu-roles/pkg/roles"
)

// WalkTree expands the schema lazily from the root, one Children call per
// role, the way a configuration UI materializes the part it displays.
// Returning false from fn leaves the role's subtree unexpanded.
func WalkTree(ctx context.Context, contract Contract, fn func(entry RoleEntry, depth int) bool) error {
	root, err := contract.Root(ctx)
	if err != nil {
		return err
	}
	return walkEntry(ctx, contract, root, 0, fn)
}

func walkEntry(ctx context.Context, contract Contract, entry RoleEntry, depth int, fn func(RoleEntry, int) bool) error {
	if !fn(entry, depth) || len(entry.Node.Children) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	children, err := contract.Children(ctx, entry.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := walkEntry(ctx, contract, child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// Subtree returns the identities under id, id included, in canonical order
func Subtree(ctx context.Context, contract Contract, id roles.ID) ([]roles.ID, error) {
	node, err := contract.Role(ctx, id)
	if err != nil {
		return nil, err
	}

	var ids []roles.ID
	err = walkEntry(ctx, contract, RoleEntry{ID: id, Node: node}, 0, func(entry RoleEntry, depth int) bool {
		ids = append(ids, entry.ID)
		return true
	})
	return ids, err
}
