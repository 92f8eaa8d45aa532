package roles

import "fmt"

// Node is the external representation of a role handed to a configuration
// editing UI. Children holds child identities only; a consumer expands them
// with further lookups. The children key is omitted, not emptied, for leaves.
type Node struct {
	Name        *string  `json:"name" yaml:"name" cbor:"name"`
	Optional    bool     `json:"optional" yaml:"optional" cbor:"optional"`
	Multiple    bool     `json:"multiple" yaml:"multiple" cbor:"multiple"`
	Reorderable bool     `json:"reorderable" yaml:"reorderable" cbor:"reorderable"`
	Children    []string `json:"children,omitempty" yaml:"children,omitempty" cbor:"children,omitempty"`
}

// NodeOf converts a role into its external record. Child order is preserved
// exactly as declared.
func NodeOf(role Role) Node {
	node := Node{
		Optional:    role.Optional,
		Multiple:    role.Multiple,
		Reorderable: role.Reorderable,
	}
	if role.Name != "" {
		name := role.Name
		node.Name = &name
	}
	if len(role.Children) > 0 {
		node.Children = make([]string, len(role.Children))
		for i, child := range role.Children {
			node.Children[i] = string(child)
		}
	}
	return node
}

// Fields returns the node as a generic map following the same omission rules.
// Used by transports that carry untyped structures.
func (n Node) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"name":        nil,
		"optional":    n.Optional,
		"multiple":    n.Multiple,
		"reorderable": n.Reorderable,
	}
	if n.Name != nil {
		fields["name"] = *n.Name
	}
	if len(n.Children) > 0 {
		children := make([]interface{}, len(n.Children))
		for i, child := range n.Children {
			children[i] = child
		}
		fields["children"] = children
	}
	return fields
}

// NodeFromFields is the inverse of Fields
func NodeFromFields(fields map[string]interface{}) (Node, error) {
	var node Node
	var ok bool

	switch name := fields["name"].(type) {
	case nil:
	case string:
		node.Name = &name
	default:
		return Node{}, fmt.Errorf("field 'name' has unexpected type %T", name)
	}

	for key, target := range map[string]*bool{
		"optional":    &node.Optional,
		"multiple":    &node.Multiple,
		"reorderable": &node.Reorderable,
	} {
		if *target, ok = fields[key].(bool); !ok {
			return Node{}, fmt.Errorf("field '%s' is missing or not a boolean", key)
		}
	}

	if raw, present := fields["children"]; present {
		list, ok := raw.([]interface{})
		if !ok {
			return Node{}, fmt.Errorf("field 'children' has unexpected type %T", raw)
		}
		node.Children = make([]string, len(list))
		for i, item := range list {
			if node.Children[i], ok = item.(string); !ok {
				return Node{}, fmt.Errorf("children[%d] has unexpected type %T", i, item)
			}
		}
	}

	return node, nil
}
