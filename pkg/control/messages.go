package control

import (
	"fmt"

	"github.com/core-tools/hsu-roles/pkg/codec"
	"github.com/core-tools/hsu-roles/pkg/domain"
	"github.com/core-tools/hsu-roles/pkg/roles"

	"google.golang.org/protobuf/types/known/structpb"
)

// Wire shapes:
//   entry:    {"id": "...", "role": <node fields>}
//   document: {"root": "...", "roles": {"<id>": <node fields>, ...}}

func nodeToStruct(node roles.Node) (*structpb.Struct, error) {
	return structpb.NewStruct(node.Fields())
}

func nodeFromStruct(msg *structpb.Struct) (roles.Node, error) {
	return roles.NodeFromFields(msg.AsMap())
}

func entryFields(entry domain.RoleEntry) map[string]interface{} {
	return map[string]interface{}{
		"id":   string(entry.ID),
		"role": entry.Node.Fields(),
	}
}

func entryToStruct(entry domain.RoleEntry) (*structpb.Struct, error) {
	return structpb.NewStruct(entryFields(entry))
}

func entryFromFields(fields map[string]interface{}) (domain.RoleEntry, error) {
	id, ok := fields["id"].(string)
	if !ok {
		return domain.RoleEntry{}, fmt.Errorf("entry field 'id' is missing or not a string")
	}
	nodeFields, ok := fields["role"].(map[string]interface{})
	if !ok {
		return domain.RoleEntry{}, fmt.Errorf("entry '%s' has no role record", id)
	}
	node, err := roles.NodeFromFields(nodeFields)
	if err != nil {
		return domain.RoleEntry{}, fmt.Errorf("entry '%s': %w", id, err)
	}
	return domain.RoleEntry{ID: roles.ID(id), Node: node}, nil
}

func entryFromStruct(msg *structpb.Struct) (domain.RoleEntry, error) {
	return entryFromFields(msg.AsMap())
}

func entriesToList(entries []domain.RoleEntry) (*structpb.ListValue, error) {
	items := make([]interface{}, len(entries))
	for i, entry := range entries {
		items[i] = entryFields(entry)
	}
	return structpb.NewList(items)
}

func entriesFromList(msg *structpb.ListValue) ([]domain.RoleEntry, error) {
	items := msg.AsSlice()
	entries := make([]domain.RoleEntry, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("children[%d] is not a structure", i)
		}
		entry, err := entryFromFields(fields)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func documentToStruct(doc codec.Document) (*structpb.Struct, error) {
	nodes := make(map[string]interface{}, len(doc.Roles))
	for id, node := range doc.Roles {
		nodes[id] = node.Fields()
	}
	return structpb.NewStruct(map[string]interface{}{
		"root":  doc.Root,
		"roles": nodes,
	})
}

func documentFromStruct(msg *structpb.Struct) (codec.Document, error) {
	fields := msg.AsMap()
	root, ok := fields["root"].(string)
	if !ok {
		return codec.Document{}, fmt.Errorf("document field 'root' is missing or not a string")
	}
	nodes, ok := fields["roles"].(map[string]interface{})
	if !ok {
		return codec.Document{}, fmt.Errorf("document field 'roles' is missing or not a structure")
	}

	doc := codec.Document{Root: root, Roles: make(map[string]roles.Node, len(nodes))}
	for id, raw := range nodes {
		nodeFields, ok := raw.(map[string]interface{})
		if !ok {
			return codec.Document{}, fmt.Errorf("role '%s' is not a structure", id)
		}
		node, err := roles.NodeFromFields(nodeFields)
		if err != nil {
			return codec.Document{}, fmt.Errorf("role '%s': %w", id, err)
		}
		doc.Roles[id] = node
	}
	return doc, nil
}
