package server

import (
	"time"

	"github.com/core-tools/hsu-roles/pkg/codec"
	"github.com/core-tools/hsu-roles/pkg/errors"
	"github.com/core-tools/hsu-roles/pkg/logging"
)

// ValidatePort validates port number
func ValidatePort(port int) error {
	if port <= 0 || port > 65535 {
		return errors.NewValidationError("port must be between 1 and 65535", nil)
	}
	return nil
}

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout < 0 {
		return errors.NewValidationError(name+" timeout cannot be negative", nil)
	}

	if timeout == 0 {
		return errors.NewValidationError(name+" timeout cannot be zero", nil)
	}

	return nil
}

func ValidateLogLevel(level string) error {
	if _, err := logging.ParseLevel(level); err != nil {
		return errors.NewValidationError("invalid log level: "+level, err)
	}
	return nil
}

func ValidateLogFormat(format string) error {
	switch format {
	case logging.FormatConsole, logging.FormatJSON:
		return nil
	default:
		return errors.NewValidationError("invalid log format: "+format, nil).
			WithContext("supported_formats", "console, json")
	}
}

func ValidateSchemaFormat(format string) error {
	if _, err := codec.ParseFormat(format); err != nil {
		return err
	}
	return nil
}
