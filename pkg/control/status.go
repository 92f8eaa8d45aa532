package control

import (
	"github.com/core-tools/hsu-roles/pkg/errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a domain error onto a gRPC status
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.IsUnknownRoleError(err), errors.IsNotFoundError(err):
		return status.Error(codes.NotFound, err.Error())
	case errors.IsValidationError(err), errors.IsMalformedSchemaError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.IsConflictError(err):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// fromStatus maps a gRPC failure back into the domain taxonomy. role is the
// identity the call asked about, if any.
func fromStatus(err error, operation string, role string) error {
	st, ok := status.FromError(err)
	if !ok {
		return errors.NewNetworkError(operation+" failed", err)
	}
	switch st.Code() {
	case codes.NotFound:
		if role != "" {
			return errors.NewUnknownRoleError(role)
		}
		return errors.NewNotFoundError(st.Message(), nil)
	case codes.InvalidArgument:
		return errors.NewValidationError(st.Message(), nil)
	case codes.FailedPrecondition:
		return errors.NewConflictError(st.Message(), nil)
	case codes.Internal:
		return errors.NewInternalError(st.Message(), nil)
	default:
		return errors.NewNetworkError(operation+" failed", err).WithContext("code", st.Code().String())
	}
}
