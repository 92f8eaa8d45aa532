package validator

import (
	"bytes"
	"os"

	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/roles"

	"gopkg.in/yaml.v3"
)

// Element is one instance in a configuration tree. Each element plays a role
// from the schema and nests the elements beneath it in document order.
type Element struct {
	Role     roles.ID  `yaml:"role"`
	Children []Element `yaml:"children,omitempty"`
}

// NewElement is a shorthand used when building configurations in code
func NewElement(role roles.ID, children ...Element) Element {
	return Element{Role: role, Children: children}
}

// CountByRole returns how many direct children play each role
func (e Element) CountByRole() map[roles.ID]int {
	counts := make(map[roles.ID]int, len(e.Children))
	for _, child := range e.Children {
		counts[child.Role]++
	}
	return counts
}

// ParseElement decodes a configuration tree from YAML
func ParseElement(data []byte) (Element, error) {
	var element Element
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&element); err != nil {
		return Element{}, errors.NewValidationError("invalid YAML configuration tree", err)
	}
	return element, nil
}

// LoadElementFromFile reads a configuration tree from a YAML file
func LoadElementFromFile(filename string) (Element, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Element{}, errors.NewIOError("failed to read configuration file", err).WithContext("filename", filename)
	}
	element, err := ParseElement(data)
	if err != nil {
		return Element{}, errors.NewValidationError("failed to parse configuration file", err).WithContext("filename", filename)
	}
	return element, nil
}
