package roles

import (
	"bytes"
	"os"

	"github.com/core-tools/hsu-roles/pkg/errors"

	"gopkg.in/yaml.v3"
)

// LoadDefinitionFromFile reads a YAML schema definition. The result still has
// to go through NewRegistry before it can be queried.
func LoadDefinitionFromFile(filename string) (Definition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Definition{}, errors.NewIOError("failed to read schema file", err).WithContext("filename", filename)
	}

	def, err := ParseDefinition(data)
	if err != nil {
		return Definition{}, errors.NewValidationError("failed to parse schema file", err).WithContext("filename", filename)
	}
	return def, nil
}

// ParseDefinition decodes a YAML schema definition. Unknown keys are rejected
// so that a misspelled flag does not silently fall back to false.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return Definition{}, errors.NewValidationError("invalid YAML schema definition", err)
	}
	return def, nil
}

// LoadRegistryFromFile reads, validates and builds a registry in one step
func LoadRegistryFromFile(filename string) (*Registry, error) {
	def, err := LoadDefinitionFromFile(filename)
	if err != nil {
		return nil, err
	}
	registry, err := NewRegistry(def)
	if err != nil {
		return nil, errors.NewValidationError("schema file is malformed", err).WithContext("filename", filename)
	}
	return registry, nil
}

// Definition returns a definition equivalent to the one the registry was built from
func (r *Registry) Definition() Definition {
	def := Definition{
		Root:  r.root,
		Roles: make([]Role, 0, len(r.order)),
	}
	for _, id := range r.order {
		def.Roles = append(def.Roles, r.entries[id].role.clone())
	}
	return def
}

// MarshalDefinition encodes def in the format ParseDefinition reads
func MarshalDefinition(def Definition) ([]byte, error) {
	data, err := yaml.Marshal(def)
	if err != nil {
		return nil, errors.NewInternalError("failed to encode schema definition", err)
	}
	return data, nil
}
