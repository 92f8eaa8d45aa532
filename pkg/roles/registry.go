package roles

import (
	"github.com/core-tools/hsu-roles/pkg/errors"
)

// Definition is the declared, not yet validated, set of roles of a schema.
// Root may be left empty when exactly one role is never referenced as a child.
type Definition struct {
	Root  ID     `yaml:"root,omitempty"`
	Roles []Role `yaml:"roles"`
}

type entry struct {
	role   Role
	parent ID
	depth  int
}

// Registry is a validated, immutable role schema. It is built once and may be
// shared by any number of goroutines without synchronization: no method
// mutates it and every Role it hands out is a copy.
type Registry struct {
	entries map[ID]*entry
	order   []ID
	root    ID
}

// NewRegistry validates def and builds the registry. Any structural problem is
// reported as a malformed schema error naming the violation and the role.
func NewRegistry(def Definition) (*Registry, error) {
	s, err := validateDefinition(def)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		entries: make(map[ID]*entry, len(def.Roles)),
		order:   make([]ID, 0, len(def.Roles)),
		root:    s.root,
	}
	for _, role := range def.Roles {
		r.entries[role.ID] = &entry{
			role:   role.clone(),
			parent: s.parents[role.ID],
		}
		r.order = append(r.order, role.ID)
	}
	r.computeDepths(r.root, 0)

	return r, nil
}

// MustNewRegistry is NewRegistry for schemas compiled into the binary
func MustNewRegistry(def Definition) *Registry {
	r, err := NewRegistry(def)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) computeDepths(id ID, depth int) {
	e := r.entries[id]
	e.depth = depth
	for _, child := range e.role.Children {
		r.computeDepths(child, depth+1)
	}
}

func (r *Registry) lookup(id ID) (*entry, error) {
	e, exists := r.entries[id]
	if !exists {
		return nil, errors.NewUnknownRoleError(string(id))
	}
	return e, nil
}

// Lookup returns the role registered under id
func (r *Registry) Lookup(id ID) (Role, error) {
	e, err := r.lookup(id)
	if err != nil {
		return Role{}, err
	}
	return e.role.clone(), nil
}

// Has reports whether id is registered
func (r *Registry) Has(id ID) bool {
	_, exists := r.entries[id]
	return exists
}

// Children resolves the child roles of id in declared order. A leaf yields an
// empty slice, not an error.
func (r *Registry) Children(id ID) ([]Role, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	children := make([]Role, 0, len(e.role.Children))
	for _, child := range e.role.Children {
		children = append(children, r.entries[child].role.clone())
	}
	return children, nil
}

// Root returns the single top-level role
func (r *Registry) Root() Role {
	return r.entries[r.root].role.clone()
}

// Serialize returns the shallow external representation of id
func (r *Registry) Serialize(id ID) (Node, error) {
	e, err := r.lookup(id)
	if err != nil {
		return Node{}, err
	}
	return NodeOf(e.role), nil
}

// Parent returns the parent of id; ok is false for the root
func (r *Registry) Parent(id ID) (parent Role, ok bool, err error) {
	e, err := r.lookup(id)
	if err != nil {
		return Role{}, false, err
	}
	if id == r.root {
		return Role{}, false, nil
	}
	return r.entries[e.parent].role.clone(), true, nil
}

// Path returns the identities from the root down to and including id
func (r *Registry) Path(id ID) ([]ID, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	path := make([]ID, e.depth+1)
	for i := e.depth; i >= 0; i-- {
		path[i] = id
		id = r.entries[id].parent
	}
	return path, nil
}

// Depth returns the distance of id from the root
func (r *Registry) Depth(id ID) (int, error) {
	e, err := r.lookup(id)
	if err != nil {
		return 0, err
	}
	return e.depth, nil
}

// Len returns the number of registered roles
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns every identity in declaration order
func (r *Registry) IDs() []ID {
	ids := make([]ID, len(r.order))
	copy(ids, r.order)
	return ids
}

// Walk visits every role depth-first in canonical order, starting at the root.
// Returning false from fn skips the role's subtree.
func (r *Registry) Walk(fn func(role Role, depth int) bool) {
	r.walk(r.root, 0, fn)
}

func (r *Registry) walk(id ID, depth int, fn func(role Role, depth int) bool) {
	e := r.entries[id]
	if !fn(e.role.clone(), depth) {
		return
	}
	for _, child := range e.role.Children {
		r.walk(child, depth+1, fn)
	}
}
