package awscloud

import (
	"errors"

	"github.com/aws/smithy-go"
)

// externalServiceError wraps a failed call to a managed service with the
// operation that failed. It is fatal for the current attempt; the workflow
// engine owns retries.
type externalServiceError struct {
	op  string
	err error
}

func (e externalServiceError) Error() string { return e.op + ": " + e.err.Error() }

func (e externalServiceError) Unwrap() error { return e.err }

// wrap annotates err with the failing operation. A nil err stays nil.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return externalServiceError{op: op, err: err}
}

// IsExternalServiceError reports whether err originates from a managed
// service call made by this package.
func IsExternalServiceError(err error) bool {
	var e externalServiceError
	return errors.As(err, &e)
}

// errorCode returns the service error code carried by err, or "".
func errorCode(err error) string {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorCode()
	}
	return ""
}
