package deploy

import "fmt"

// variantCountError signals a variant list that violates the endpoint
// type's limits. This is a configuration defect, never retried.
type variantCountError struct {
	endpointType string
	count        int
	msg          string
}

func (e variantCountError) Error() string {
	return fmt.Sprintf("%s endpoint has %d variants: %s", e.endpointType, e.count, e.msg)
}

// ErrVariantCount constructs a variantCountError.
func ErrVariantCount(endpointType string, count int, msg string) error {
	return variantCountError{endpointType: endpointType, count: count, msg: msg}
}

// IsVariantCount reports whether err indicates an invalid variant count.
func IsVariantCount(err error) bool {
	_, ok := err.(variantCountError)
	return ok
}

// upstreamFailedError signals an event carrying a failure status from a
// previous pipeline step.
type upstreamFailedError struct{ code int }

func (e upstreamFailedError) Error() string {
	return fmt.Sprintf("previous pipeline step failed with status %d", e.code)
}

// ErrUpstreamFailed constructs an upstreamFailedError.
func ErrUpstreamFailed(code int) error { return upstreamFailedError{code: code} }

// IsUpstreamFailed reports whether err indicates a failed upstream step.
func IsUpstreamFailed(err error) bool {
	_, ok := err.(upstreamFailedError)
	return ok
}
