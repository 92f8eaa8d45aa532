package validator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/roles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// schema: root -> [single (exactly one), many (one or more, reorderable),
// maybe (zero or one, reorderable), any (zero or more)]
func testRegistry(t *testing.T) *roles.Registry {
	t.Helper()
	registry, err := roles.NewRegistry(roles.Definition{
		Root: "root",
		Roles: []roles.Role{
			{ID: "root", Children: []roles.ID{"single", "many", "maybe", "any"}},
			{ID: "single", Name: "Single"},
			{ID: "many", Name: "Many", Multiple: true, Reorderable: true, Children: []roles.ID{"leaf"}},
			{ID: "maybe", Name: "Maybe", Optional: true, Reorderable: true},
			{ID: "any", Name: "Any", Optional: true, Multiple: true},
			{ID: "leaf", Name: "Leaf", Optional: true},
		},
	})
	require.NoError(t, err)
	return registry
}

func kinds(err error) []ProblemKind {
	var result []ProblemKind
	for _, problem := range Problems(err) {
		if kind, ok := KindOf(problem); ok {
			result = append(result, kind)
		}
	}
	return result
}

func TestValidate_Valid(t *testing.T) {
	registry := testRegistry(t)

	config := NewElement("root",
		NewElement("single"),
		NewElement("many", NewElement("leaf")),
		NewElement("many"),
		NewElement("any"),
		NewElement("any"),
	)
	assert.NoError(t, Validate(registry, config))
}

func TestValidate_ExactlyOneCardinality(t *testing.T) {
	registry := testRegistry(t)

	tests := []struct {
		name     string
		children []Element
	}{
		{"zero instances", []Element{NewElement("many")}},
		{"two instances", []Element{NewElement("single"), NewElement("single"), NewElement("many")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(registry, NewElement("root", tt.children...))
			require.Error(t, err)
			assert.Equal(t, []ProblemKind{ProblemCardinality}, kinds(err))

			problem := Problems(err)[0].(*errors.DomainError)
			assert.Equal(t, "single", problem.Context["role"])
			assert.Contains(t, problem.Message, "exactly one")
		})
	}
}

func TestValidate_OtherCardinalities(t *testing.T) {
	registry := testRegistry(t)

	// many missing: one or more.
	err := Validate(registry, NewElement("root", NewElement("single")))
	assert.Equal(t, []ProblemKind{ProblemCardinality}, kinds(err))

	// maybe twice: zero or one.
	err = Validate(registry, NewElement("root",
		NewElement("single"), NewElement("many"), NewElement("maybe"), NewElement("maybe")))
	assert.Equal(t, []ProblemKind{ProblemCardinality}, kinds(err))
}

func TestValidate_IllegalChildAndUnknownRole(t *testing.T) {
	registry := testRegistry(t)

	config := NewElement("root",
		NewElement("single"),
		NewElement("leaf"),
		NewElement("many", NewElement("ghost")),
	)
	err := Validate(registry, config)
	require.Error(t, err)

	problems := Problems(err)
	require.Len(t, problems, 2)
	assert.Equal(t, []ProblemKind{ProblemIllegalChild}, kinds(err))
	assert.Equal(t, "root/leaf[0]", problems[0].(*errors.DomainError).Context[ContextKeyPath])

	assert.True(t, errors.IsUnknownRoleError(problems[1]))
	assert.Equal(t, "root/many[0]/ghost[0]", problems[1].(*errors.DomainError).Context[ContextKeyPath])

	var paths []string
	for _, problem := range problems {
		path, ok := PathOf(problem)
		require.True(t, ok)
		paths = append(paths, path)
	}
	assert.Equal(t, []string{"root/leaf[0]", "root/many[0]/ghost[0]"}, paths)

	_, ok := PathOf(errors.NewValidationError("no path", nil))
	assert.False(t, ok)

	assert.Equal(t, "root/leaf[0]: "+problems[0].Error(), FormatProblem(problems[0]))
	assert.Equal(t, "validation: no path", FormatProblem(errors.NewValidationError("no path", nil)))
}

func TestValidate_Ordering(t *testing.T) {
	registry := testRegistry(t)

	config := NewElement("root",
		NewElement("many"),
		NewElement("single"),
	)
	err := Validate(registry, config)
	require.Error(t, err)
	assert.Equal(t, []ProblemKind{ProblemOrdering}, kinds(err))
	assert.Contains(t, err.Error(), "'single' must appear before 'many'")

	path, ok := PathOf(Problems(err)[0])
	require.True(t, ok)
	assert.Equal(t, "root/single[0]", path)
}

func TestValidate_WrongRoot(t *testing.T) {
	registry := testRegistry(t)

	err := Validate(registry, NewElement("many"))
	require.Error(t, err)
	assert.Contains(t, kinds(err), ProblemWrongRoot)

	err = Validate(registry, NewElement("nothing"))
	require.Error(t, err)
	assert.True(t, errors.IsUnknownRoleError(err))
}

func TestValidate_BuiltinSchema(t *testing.T) {
	registry, err := roles.NewBuiltinRegistry()
	require.NoError(t, err)

	config := NewElement(roles.RoleRoot,
		NewElement(roles.RoleGlobals, NewElement(roles.RoleGlobalsGlobal)),
		NewElement(roles.RoleDataManagement,
			NewElement(roles.RoleDataManagementDatastore),
			NewElement(roles.RoleDataManagementCacheProvider)),
		NewElement(roles.RoleDeviceCommunication,
			NewElement(roles.RoleDeviceCommunicationEventSources,
				NewElement(roles.RoleEventSourcesEventSource, NewElement(roles.RoleEventSourceBinaryEventDecoder)),
				NewElement(roles.RoleEventSourcesEventSource)),
			NewElement(roles.RoleDeviceCommunicationInboundProcessingStrategy,
				NewElement(roles.RoleInboundProcessingStrategyStrategy)),
			NewElement(roles.RoleDeviceCommunicationRegistration,
				NewElement(roles.RoleRegistrationRegistrationManager)),
			NewElement(roles.RoleDeviceCommunicationBatchOperations,
				NewElement(roles.RoleBatchOperationsBatchOperationManager)),
			NewElement(roles.RoleDeviceCommunicationCommandRouting,
				NewElement(roles.RoleCommandRoutingCommandRouter)),
			NewElement(roles.RoleDeviceCommunicationCommandDestinations)),
		NewElement(roles.RoleInboundProcessingChain),
		NewElement(roles.RoleOutboundProcessingChain),
		NewElement(roles.RoleAssetManagement),
	)
	assert.NoError(t, Validate(registry, config))

	// Dropping the mandatory datastore breaks the exactly-one rule.
	config.Children[1].Children = config.Children[1].Children[1:]
	err = Validate(registry, config)
	require.Error(t, err)
	assert.Equal(t, []ProblemKind{ProblemCardinality}, kinds(err))
}

func TestCanReorder(t *testing.T) {
	registry := testRegistry(t)

	parent := NewElement("root",
		NewElement("single"),
		NewElement("many", NewElement("leaf")),
		NewElement("many"),
		NewElement("many"),
		NewElement("any"),
		NewElement("any"),
	)

	tests := []struct {
		name     string
		from, to int
		wantErr  bool
	}{
		{"same role reorderable", 1, 3, false},
		{"backwards", 3, 1, false},
		{"no-op on non reorderable", 0, 0, false},
		{"across roles", 0, 1, true},
		{"past another role", 2, 4, true},
		{"same role not reorderable", 4, 5, true},
		{"out of range", 1, 9, true},
		{"negative", -1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanReorder(registry, parent, tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReorder(t *testing.T) {
	registry := testRegistry(t)

	parent := NewElement("root",
		NewElement("single"),
		NewElement("many", NewElement("leaf")),
		NewElement("many"),
	)

	moved, err := Reorder(registry, parent, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, moved.Children[1].Children)
	assert.Len(t, moved.Children[2].Children, 1)
	assert.NoError(t, Validate(registry, moved))

	// The input is left untouched.
	assert.Len(t, parent.Children[1].Children, 1)
}

func TestReorder_SingleReorderableIsNoOp(t *testing.T) {
	registry := testRegistry(t)

	// Two instances of a zero-or-one role only occur in an invalid
	// configuration; moving one of them is accepted but changes nothing.
	parent := NewElement("root",
		NewElement("single"),
		NewElement("many"),
		NewElement("maybe", NewElement("leaf")),
		NewElement("maybe"),
	)

	moved, err := Reorder(registry, parent, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, parent, moved)
}

func TestParseElement(t *testing.T) {
	data := []byte(`
role: root
children:
  - role: single
  - role: many
    children:
      - role: leaf
`)
	element, err := ParseElement(data)
	require.NoError(t, err)
	assert.Equal(t, NewElement("root",
		NewElement("single"),
		NewElement("many", NewElement("leaf")),
	), element)
	assert.Equal(t, map[roles.ID]int{"single": 1, "many": 1}, element.CountByRole())

	_, err = ParseElement([]byte("role: root\nkids: []\n"))
	assert.True(t, errors.IsValidationError(err))
}

func TestLoadElementFromFile(t *testing.T) {
	_, err := LoadElementFromFile(filepath.Join(t.TempDir(), "none.yaml"))
	assert.True(t, errors.IsIOError(err))

	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("role: root\nchildren:\n  - role: single\n  - role: many\n"), 0o644))

	element, err := LoadElementFromFile(filename)
	require.NoError(t, err)
	assert.NoError(t, Validate(testRegistry(t), element))
}
