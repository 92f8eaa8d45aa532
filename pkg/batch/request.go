package batch

import (
	"fmt"

	"github.com/core-tools/hsu-roles/pkg/errors"

	"github.com/google/uuid"
)

// OperationType is the operation a batch applies to every target device
type OperationType string

const (
	OperationInvokeCommand  OperationType = "InvokeCommand"
	OperationUpdateFirmware OperationType = "UpdateFirmware"
)

// SupportedOperationTypes lists the accepted operation types
var SupportedOperationTypes = []OperationType{OperationInvokeCommand, OperationUpdateFirmware}

// CreateRequest carries what is needed to create a batch operation.
// It is a plain data contract: nothing in this module executes it.
type CreateRequest struct {
	Token         string            `json:"token" yaml:"token"`
	OperationType OperationType     `json:"operationType" yaml:"operation_type"`
	Parameters    map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	HardwareIDs   []string          `json:"hardwareIds" yaml:"hardware_ids"`
	Metadata      map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewCreateRequest builds a request with a freshly generated token
func NewCreateRequest(operationType OperationType, hardwareIDs ...string) *CreateRequest {
	return &CreateRequest{
		Token:         uuid.NewString(),
		OperationType: operationType,
		Parameters:    make(map[string]string),
		HardwareIDs:   hardwareIDs,
		Metadata:      make(map[string]string),
	}
}

// WithParameter sets an operation parameter
func (r *CreateRequest) WithParameter(key, value string) *CreateRequest {
	if r.Parameters == nil {
		r.Parameters = make(map[string]string)
	}
	r.Parameters[key] = value
	return r
}

// WithMetadata sets a metadata entry
func (r *CreateRequest) WithMetadata(key, value string) *CreateRequest {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
	return r
}

// Validate checks the request is complete and well formed
func (r *CreateRequest) Validate() error {
	if r.Token == "" {
		return errors.NewValidationError("batch operation token cannot be empty", nil)
	}

	if err := ValidateOperationType(r.OperationType); err != nil {
		return err
	}

	if len(r.HardwareIDs) == 0 {
		return errors.NewValidationError("batch operation requires at least one hardware ID", nil).
			WithContext("token", r.Token)
	}

	seen := make(map[string]int, len(r.HardwareIDs))
	for i, id := range r.HardwareIDs {
		if id == "" {
			return errors.NewValidationError(fmt.Sprintf("hardware ID at index %d is empty", i), nil).
				WithContext("token", r.Token)
		}
		if prev, exists := seen[id]; exists {
			return errors.NewValidationError(
				fmt.Sprintf("duplicate hardware ID '%s' found at indices %d and %d", id, prev, i), nil,
			).WithContext("token", r.Token)
		}
		seen[id] = i
	}

	for key := range r.Parameters {
		if key == "" {
			return errors.NewValidationError("parameter names cannot be empty", nil).WithContext("token", r.Token)
		}
	}

	return nil
}

// ValidateOperationType rejects operation types the platform does not know
func ValidateOperationType(operationType OperationType) error {
	for _, valid := range SupportedOperationTypes {
		if operationType == valid {
			return nil
		}
	}
	return errors.NewValidationError(
		fmt.Sprintf("unsupported operation type: %s", operationType),
		nil,
	).WithContext("supported_types", "InvokeCommand, UpdateFirmware")
}
