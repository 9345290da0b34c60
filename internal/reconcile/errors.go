package reconcile

// endpointNotReadyError signals an endpoint that is not yet in service.
// The workflow engine re-invokes the step after a delay; nothing retries
// internally.
type endpointNotReadyError struct{ endpoint string }

func (e endpointNotReadyError) Error() string {
	return "endpoint not in service yet: " + e.endpoint
}

// ErrEndpointNotReady constructs an endpointNotReadyError.
func ErrEndpointNotReady(endpoint string) error { return endpointNotReadyError{endpoint: endpoint} }

// IsEndpointNotReady reports whether err indicates an endpoint that the
// caller should wait for and retry.
func IsEndpointNotReady(err error) bool {
	_, ok := err.(endpointNotReadyError)
	return ok
}
