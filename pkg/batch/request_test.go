package batch

import (
	"encoding/json"
	"testing"

	"github.com/core-tools/hsu-roles/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateRequest(t *testing.T) {
	request := NewCreateRequest(OperationInvokeCommand, "dev-1", "dev-2").
		WithParameter("commandToken", "reboot").
		WithMetadata("requestedBy", "ops")

	_, err := uuid.Parse(request.Token)
	assert.NoError(t, err)
	assert.Equal(t, []string{"dev-1", "dev-2"}, request.HardwareIDs)
	assert.Equal(t, "reboot", request.Parameters["commandToken"])
	assert.NoError(t, request.Validate())

	other := NewCreateRequest(OperationInvokeCommand, "dev-1")
	assert.NotEqual(t, request.Token, other.Token)
}

func TestCreateRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		request   CreateRequest
		shouldErr bool
	}{
		{"valid", CreateRequest{Token: "t", OperationType: OperationUpdateFirmware, HardwareIDs: []string{"a"}}, false},
		{"empty token", CreateRequest{OperationType: OperationUpdateFirmware, HardwareIDs: []string{"a"}}, true},
		{"unknown type", CreateRequest{Token: "t", OperationType: "Explode", HardwareIDs: []string{"a"}}, true},
		{"no targets", CreateRequest{Token: "t", OperationType: OperationInvokeCommand}, true},
		{"empty target", CreateRequest{Token: "t", OperationType: OperationInvokeCommand, HardwareIDs: []string{"a", ""}}, true},
		{"duplicate target", CreateRequest{Token: "t", OperationType: OperationInvokeCommand, HardwareIDs: []string{"a", "b", "a"}}, true},
		{"empty parameter name", CreateRequest{Token: "t", OperationType: OperationInvokeCommand, HardwareIDs: []string{"a"}, Parameters: map[string]string{"": "x"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateRequest_JSONShape(t *testing.T) {
	request := CreateRequest{
		Token:         "batch-1",
		OperationType: OperationInvokeCommand,
		HardwareIDs:   []string{"b", "a"},
	}

	data, err := json.Marshal(request)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"batch-1","operationType":"InvokeCommand","hardwareIds":["b","a"]}`, string(data))
}
