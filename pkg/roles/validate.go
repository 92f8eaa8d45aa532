package roles

import (
	"fmt"
	"strings"

	"github.com/core-tools/hsu-roles/pkg/errors"
)

// structure is the outcome of a successful validation pass
type structure struct {
	index   map[ID]int
	parents map[ID]ID
	root    ID
}

// validateDefinition checks the structural invariants of a schema in order.
// Every offending identity of a step is reported; the first failing step stops
// validation because later steps rely on the earlier invariants.
func validateDefinition(def Definition) (*structure, error) {
	steps := []func(*structure, Definition) error{
		checkIdentities,
		checkReferences,
		checkCycles,
		checkParents,
		checkRoot,
		checkReachability,
	}

	s := &structure{
		index:   make(map[ID]int, len(def.Roles)),
		parents: make(map[ID]ID, len(def.Roles)),
	}
	for _, step := range steps {
		if err := step(s, def); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func checkIdentities(s *structure, def Definition) error {
	errs := errors.NewErrorCollection()
	for i, role := range def.Roles {
		if role.ID == "" {
			errs.Add(errors.NewMalformedSchemaError(errors.ViolationEmptyIdentity, fmt.Sprintf("#%d", i),
				fmt.Sprintf("role at index %d has an empty identity", i)))
			continue
		}
		if prev, exists := s.index[role.ID]; exists {
			errs.Add(errors.NewMalformedSchemaError(errors.ViolationDuplicateRole, string(role.ID),
				fmt.Sprintf("role '%s' is defined at indices %d and %d", role.ID, prev, i)))
			continue
		}
		s.index[role.ID] = i
	}
	return errs.ToError()
}

func checkReferences(s *structure, def Definition) error {
	errs := errors.NewErrorCollection()
	for _, role := range def.Roles {
		for _, child := range role.Children {
			if _, exists := s.index[child]; !exists {
				errs.Add(errors.NewMalformedSchemaError(errors.ViolationDanglingReference, string(role.ID),
					fmt.Sprintf("role '%s' references undefined child role '%s'", role.ID, child)).
					WithContext("reference", string(child)))
			}
		}
	}
	return errs.ToError()
}

const (
	unvisited = iota
	inProgress
	done
)

func checkCycles(s *structure, def Definition) error {
	errs := errors.NewErrorCollection()
	state := make([]int, len(def.Roles))
	var stack []ID

	var visit func(i int)
	visit = func(i int) {
		state[i] = inProgress
		stack = append(stack, def.Roles[i].ID)
		for _, child := range def.Roles[i].Children {
			j := s.index[child]
			switch state[j] {
			case unvisited:
				visit(j)
			case inProgress:
				errs.Add(errors.NewMalformedSchemaError(errors.ViolationCyclicSchema, string(child),
					fmt.Sprintf("role '%s' is its own ancestor: %s", child, cyclePath(stack, child))))
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
	}

	for i := range def.Roles {
		if state[i] == unvisited {
			visit(i)
		}
	}
	return errs.ToError()
}

// cyclePath renders the part of the DFS stack that forms the cycle
func cyclePath(stack []ID, entry ID) string {
	start := 0
	for i, id := range stack {
		if id == entry {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(stack)-start+1)
	for _, id := range stack[start:] {
		parts = append(parts, string(id))
	}
	parts = append(parts, string(entry))
	return strings.Join(parts, " -> ")
}

func checkParents(s *structure, def Definition) error {
	errs := errors.NewErrorCollection()
	for _, role := range def.Roles {
		for _, child := range role.Children {
			if parent, exists := s.parents[child]; exists {
				errs.Add(errors.NewMalformedSchemaError(errors.ViolationDuplicateParent, string(child),
					fmt.Sprintf("role '%s' is referenced by both '%s' and '%s'", child, parent, role.ID)))
				continue
			}
			s.parents[child] = role.ID
		}
	}
	return errs.ToError()
}

func checkRoot(s *structure, def Definition) error {
	if def.Root != "" {
		if _, exists := s.index[def.Root]; !exists {
			return errors.NewMalformedSchemaError(errors.ViolationUnknownRoot, string(def.Root),
				fmt.Sprintf("declared root '%s' is not defined", def.Root))
		}
		if parent, hasParent := s.parents[def.Root]; hasParent {
			return errors.NewMalformedSchemaError(errors.ViolationRootHasParent, string(def.Root),
				fmt.Sprintf("declared root '%s' is a child of '%s'", def.Root, parent))
		}
		s.root = def.Root
		return nil
	}

	var candidates []string
	for _, role := range def.Roles {
		if _, hasParent := s.parents[role.ID]; !hasParent {
			candidates = append(candidates, string(role.ID))
		}
	}
	switch len(candidates) {
	case 0:
		return errors.NewMalformedSchemaError(errors.ViolationNoRoot, "", "schema has no top-level role")
	case 1:
		s.root = ID(candidates[0])
		return nil
	default:
		return errors.NewMalformedSchemaError(errors.ViolationMultipleRoots, candidates[1],
			fmt.Sprintf("schema has %d top-level roles: %s", len(candidates), strings.Join(candidates, ", "))).
			WithContext("candidates", candidates)
	}
}

func checkReachability(s *structure, def Definition) error {
	reached := make(map[ID]bool, len(def.Roles))
	pending := []ID{s.root}
	for len(pending) > 0 {
		id := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		reached[id] = true
		pending = append(pending, def.Roles[s.index[id]].Children...)
	}

	errs := errors.NewErrorCollection()
	for _, role := range def.Roles {
		if !reached[role.ID] {
			errs.Add(errors.NewMalformedSchemaError(errors.ViolationUnreachableRole, string(role.ID),
				fmt.Sprintf("role '%s' is not reachable from root '%s'", role.ID, s.root)))
		}
	}
	return errs.ToError()
}
