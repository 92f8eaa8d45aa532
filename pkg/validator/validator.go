package validator

import (
	"fmt"

	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/roles"
)

// ProblemKind classifies a configuration that does not fit the schema
type ProblemKind string

const (
	ProblemWrongRoot    ProblemKind = "wrong_root"
	ProblemIllegalChild ProblemKind = "illegal_child"
	ProblemCardinality  ProblemKind = "cardinality"
	ProblemOrdering     ProblemKind = "ordering"
	ProblemNotMovable   ProblemKind = "not_movable"
)

// Context keys attached to validation problems
const (
	ContextKeyKind = "kind"
	ContextKeyPath = "path"
)

func newProblem(kind ProblemKind, path string, message string) *errors.DomainError {
	return errors.NewValidationError(message, nil).
		WithContext(ContextKeyKind, kind).
		WithContext(ContextKeyPath, path)
}

// KindOf returns the problem kind of a validation error produced by this package
func KindOf(err error) (ProblemKind, bool) {
	domainErr, ok := err.(*errors.DomainError)
	if !ok {
		return "", false
	}
	kind, ok := domainErr.Context[ContextKeyKind].(ProblemKind)
	return kind, ok
}

// Problems flattens the error returned by Validate into individual problems
func Problems(err error) []error {
	if err == nil {
		return nil
	}
	if collection, ok := err.(*errors.ErrorCollection); ok {
		return collection.Errors
	}
	return []error{err}
}

// Validate checks a configuration tree against the schema and reports every
// problem found. Unknown roles are reported as unknown role errors, all other
// problems as validation errors carrying a kind and an element path.
func Validate(registry *roles.Registry, root Element) error {
	errs := errors.NewErrorCollection()

	rootRole := registry.Root()
	path := string(root.Role)
	if root.Role != rootRole.ID {
		errs.Add(newProblem(ProblemWrongRoot, path,
			fmt.Sprintf("configuration root plays role '%s', schema root is '%s'", root.Role, rootRole.ID)))
	}

	validateElement(registry, root, path, errs)

	return errs.ToError()
}

func validateElement(registry *roles.Registry, element Element, path string, errs *errors.ErrorCollection) {
	role, err := registry.Lookup(element.Role)
	if err != nil {
		errs.Add(errors.NewUnknownRoleError(string(element.Role)).WithContext(ContextKeyPath, path))
		return
	}

	position := make(map[roles.ID]int, len(role.Children))
	for i, child := range role.Children {
		position[child] = i
	}

	occurrence := make(map[roles.ID]int, len(element.Children))
	last := -1
	var lastRole roles.ID
	for _, child := range element.Children {
		childPath := fmt.Sprintf("%s/%s[%d]", path, child.Role, occurrence[child.Role])
		occurrence[child.Role]++

		if !registry.Has(child.Role) {
			errs.Add(errors.NewUnknownRoleError(string(child.Role)).WithContext(ContextKeyPath, childPath))
			continue
		}

		if !role.HasChild(child.Role) {
			errs.Add(newProblem(ProblemIllegalChild, childPath,
				fmt.Sprintf("role '%s' may not appear under '%s'", child.Role, role.ID)))
			continue
		}

		if pos := position[child.Role]; pos < last {
			errs.Add(newProblem(ProblemOrdering, childPath,
				fmt.Sprintf("role '%s' must appear before '%s' under '%s'", child.Role, lastRole, role.ID)))
		} else {
			last = pos
			lastRole = child.Role
		}

		validateElement(registry, child, childPath, errs)
	}

	counts := element.CountByRole()
	// Children resolves from a validated role, so it cannot fail here.
	childRoles, _ := registry.Children(role.ID)
	for _, childRole := range childRoles {
		cardinality := childRole.Cardinality()
		count := counts[childRole.ID]
		if !cardinality.Allows(count) {
			errs.Add(newProblem(ProblemCardinality, path,
				fmt.Sprintf("role '%s' requires %s instance(s) under '%s', found %d",
					childRole.ID, cardinality, role.ID, count)).
				WithContext("role", string(childRole.ID)).
				WithContext("count", count))
		}
	}
}

// PathOf returns the element path attached to a problem reported by Validate
func PathOf(err error) (string, bool) {
	domainErr, ok := err.(*errors.DomainError)
	if !ok {
		return "", false
	}
	path, ok := domainErr.Context[ContextKeyPath].(string)
	return path, ok
}

// FormatProblem renders a problem prefixed with the path of the element it concerns
func FormatProblem(err error) string {
	if path, ok := PathOf(err); ok {
		return fmt.Sprintf("%s: %v", path, err)
	}
	return err.Error()
}

// CanReorder reports whether an editor may move the child at index from to
// index to within parent. Moves are allowed only between instances of the
// same reorderable role, so the canonical role order is never broken.
func CanReorder(registry *roles.Registry, parent Element, from, to int) error {
	if from < 0 || from >= len(parent.Children) || to < 0 || to >= len(parent.Children) {
		return errors.NewValidationError(
			fmt.Sprintf("move %d -> %d is out of range for %d children", from, to, len(parent.Children)), nil)
	}

	moving := parent.Children[from].Role
	role, err := registry.Lookup(moving)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}

	// Every index between from and to must hold the same role, or the move
	// would carry the instance across a sibling of another role.
	step := 1
	if to < from {
		step = -1
	}
	for i := from + step; ; i += step {
		if parent.Children[i].Role != moving {
			return newProblem(ProblemNotMovable, string(parent.Role),
				fmt.Sprintf("cannot move '%s' past '%s'", moving, parent.Children[i].Role))
		}
		if i == to {
			break
		}
	}

	if !role.Reorderable {
		return newProblem(ProblemNotMovable, string(parent.Role),
			fmt.Sprintf("role '%s' is not reorderable", moving))
	}
	return nil
}

// Reorder applies a move that CanReorder accepts and returns the new parent.
// A reorderable role that does not allow multiple instances has nothing to
// reorder, so the move is accepted and leaves the parent unchanged.
func Reorder(registry *roles.Registry, parent Element, from, to int) (Element, error) {
	if err := CanReorder(registry, parent, from, to); err != nil {
		return Element{}, err
	}

	role, _ := registry.Lookup(parent.Children[from].Role)
	if from == to || !role.Multiple {
		return parent, nil
	}

	children := make([]Element, 0, len(parent.Children))
	children = append(children, parent.Children...)
	moved := children[from]
	if from < to {
		copy(children[from:to], children[from+1:to+1])
	} else {
		copy(children[to+1:from+1], children[to:from])
	}
	children[to] = moved

	return Element{Role: parent.Role, Children: children}, nil
}
