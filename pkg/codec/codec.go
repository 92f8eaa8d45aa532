package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/roles"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding of external role representations
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// SupportedFormats lists every format Encode accepts
var SupportedFormats = []Format{FormatJSON, FormatYAML, FormatCBOR}

// encMode and decMode follow the deterministic CBOR profile: canonical key
// order and no indefinite lengths, so equal schemas encode to equal bytes.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// ParseFormat maps a user supplied name to a Format
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatCBOR:
		return FormatCBOR, nil
	default:
		return "", errors.NewValidationError(fmt.Sprintf("unsupported format: %s", name), nil).
			WithContext("supported_formats", "json, yaml, cbor")
	}
}

// Encode serializes v, typically a roles.Node or a Document
func Encode(format Format, v interface{}) ([]byte, error) {
	var data []byte
	var err error

	switch format {
	case FormatJSON:
		data, err = json.Marshal(v)
	case FormatYAML:
		data, err = yaml.Marshal(v)
	case FormatCBOR:
		data, err = encMode.Marshal(v)
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unsupported format: %s", format), nil)
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to encode", err).WithContext("format", string(format))
	}
	return data, nil
}

// Decode is the inverse of Encode
func Decode(format Format, data []byte, v interface{}) error {
	var err error

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, v)
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatCBOR:
		err = decMode.Unmarshal(data, v)
	default:
		return errors.NewValidationError(fmt.Sprintf("unsupported format: %s", format), nil)
	}
	if err != nil {
		return errors.NewValidationError("failed to decode", err).WithContext("format", string(format))
	}
	return nil
}

// EncodeRole serializes the shallow external representation of one role
func EncodeRole(format Format, registry *roles.Registry, id roles.ID) ([]byte, error) {
	node, err := registry.Serialize(id)
	if err != nil {
		return nil, err
	}
	return Encode(format, node)
}
