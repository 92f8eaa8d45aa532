package codec

import (
	"fmt"

	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/roles"
)

// Document is the whole schema in external form, for a UI that prefers one
// fetch over lazy per-role expansion. Nodes stay shallow; Roles is keyed by
// role identity.
type Document struct {
	Root  string                `json:"root" yaml:"root" cbor:"root"`
	Roles map[string]roles.Node `json:"roles" yaml:"roles" cbor:"roles"`
}

// NewDocument serializes every role of the registry
func NewDocument(registry *roles.Registry) Document {
	doc := Document{
		Root:  string(registry.Root().ID),
		Roles: make(map[string]roles.Node, registry.Len()),
	}
	for _, id := range registry.IDs() {
		// IDs only yields registered roles.
		node, _ := registry.Serialize(id)
		doc.Roles[string(id)] = node
	}
	return doc
}

// Node returns the external record of id
func (d Document) Node(id string) (roles.Node, error) {
	node, exists := d.Roles[id]
	if !exists {
		return roles.Node{}, errors.NewUnknownRoleError(id)
	}
	return node, nil
}

// Expand materializes the subtree under id in canonical order, the way a UI
// walks the document: fn receives each identity, its node and its depth.
// A decoded document is not validated, so a role met twice is reported instead of followed.
func (d Document) Expand(id string, fn func(id string, node roles.Node, depth int)) error {
	return d.expand(id, 0, make(map[string]bool), fn)
}

func (d Document) expand(id string, depth int, seen map[string]bool, fn func(id string, node roles.Node, depth int)) error {
	if seen[id] {
		return errors.NewValidationError(fmt.Sprintf("role '%s' appears more than once in the document", id), nil)
	}
	seen[id] = true

	node, err := d.Node(id)
	if err != nil {
		return err
	}
	fn(id, node, depth)
	for _, child := range node.Children {
		if err := d.expand(child, depth+1, seen, fn); err != nil {
			return err
		}
	}
	return nil
}
