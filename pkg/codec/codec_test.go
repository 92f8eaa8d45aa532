package codec

import (
	"testing"

	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/roles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleRegistry(t *testing.T) *roles.Registry {
	t.Helper()
	registry, err := roles.NewRegistry(roles.Definition{
		Root: "root",
		Roles: []roles.Role{
			{ID: "root", Multiple: true, Children: []roles.ID{"A", "B"}},
			{ID: "A", Name: "Alpha", Multiple: true},
			{ID: "B", Name: "Beta", Optional: true, Children: []roles.ID{"C"}},
			{ID: "C", Name: "Gamma", Optional: true, Multiple: true, Reorderable: true},
		},
	})
	require.NoError(t, err)
	return registry
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"json", FormatJSON, false},
		{"", FormatJSON, false},
		{" YAML ", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"cbor", FormatCBOR, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestEncodeRole_JSON(t *testing.T) {
	registry := sampleRegistry(t)

	data, err := EncodeRole(FormatJSON, registry, "root")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":null,"optional":false,"multiple":true,"reorderable":false,"children":["A","B"]}`, string(data))

	data, err = EncodeRole(FormatJSON, registry, "C")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Gamma","optional":true,"multiple":true,"reorderable":true}`, string(data))

	_, err = EncodeRole(FormatJSON, registry, "missing")
	assert.True(t, errors.IsUnknownRoleError(err))
}

func TestEncodeRole_YAMLOmitsChildrenForLeaves(t *testing.T) {
	registry := sampleRegistry(t)

	data, err := EncodeRole(FormatYAML, registry, "A")
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &fields))
	assert.Equal(t, "Alpha", fields["name"])
	assert.NotContains(t, fields, "children")

	data, err = EncodeRole(FormatYAML, registry, "root")
	require.NoError(t, err)
	fields = nil
	require.NoError(t, yaml.Unmarshal(data, &fields))
	assert.Contains(t, fields, "name")
	assert.Nil(t, fields["name"])
	assert.Equal(t, []interface{}{"A", "B"}, fields["children"])
}

func TestEncodeDecode_AllFormats(t *testing.T) {
	registry := sampleRegistry(t)
	doc := NewDocument(registry)

	for _, format := range SupportedFormats {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(format, doc)
			require.NoError(t, err)

			var decoded Document
			require.NoError(t, Decode(format, data, &decoded))
			assert.Equal(t, doc, decoded)
		})
	}
}

func TestEncode_CBORIsDeterministic(t *testing.T) {
	first, err := Encode(FormatCBOR, NewDocument(sampleRegistry(t)))
	require.NoError(t, err)
	second, err := Encode(FormatCBOR, NewDocument(sampleRegistry(t)))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	_, err := Encode("xml", roles.Node{})
	assert.True(t, errors.IsValidationError(err))
	assert.True(t, errors.IsValidationError(Decode("xml", nil, &roles.Node{})))
}

func TestDocument_Expand(t *testing.T) {
	doc := NewDocument(sampleRegistry(t))
	assert.Equal(t, "root", doc.Root)
	assert.Len(t, doc.Roles, 4)

	var order []string
	var depths []int
	require.NoError(t, doc.Expand(doc.Root, func(id string, node roles.Node, depth int) {
		order = append(order, id)
		depths = append(depths, depth)
	}))
	assert.Equal(t, []string{"root", "A", "B", "C"}, order)
	assert.Equal(t, []int{0, 1, 1, 2}, depths)

	err := doc.Expand("missing", func(string, roles.Node, int) {})
	assert.True(t, errors.IsUnknownRoleError(err))
}

func TestDocument_ExpandRejectsLoops(t *testing.T) {
	doc := Document{
		Root: "X",
		Roles: map[string]roles.Node{
			"X": {Children: []string{"Y"}},
			"Y": {Children: []string{"X"}},
		},
	}

	err := doc.Expand("X", func(string, roles.Node, int) {})
	assert.True(t, errors.IsValidationError(err))
}
