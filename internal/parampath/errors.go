package parampath

// invalidEndpointTypeError signals an endpoint type other than async or
// real-time.
type invalidEndpointTypeError struct{ typ string }

func (e invalidEndpointTypeError) Error() string { return "invalid endpoint type: " + e.typ }

// ErrInvalidEndpointType constructs an invalidEndpointTypeError.
func ErrInvalidEndpointType(typ string) error { return invalidEndpointTypeError{typ: typ} }

// IsInvalidEndpointType reports whether err indicates an unknown endpoint type.
func IsInvalidEndpointType(err error) bool {
	_, ok := err.(invalidEndpointTypeError)
	return ok
}

// inconsistentDescriptorError signals descriptor fields that contradict each
// other (e.g. a container name on an async endpoint).
type inconsistentDescriptorError struct{ msg string }

func (e inconsistentDescriptorError) Error() string { return "inconsistent descriptor: " + e.msg }

// ErrInconsistentDescriptor constructs an inconsistentDescriptorError.
func ErrInconsistentDescriptor(msg string) error { return inconsistentDescriptorError{msg: msg} }

// IsInconsistentDescriptor reports whether err indicates contradictory
// descriptor fields.
func IsInconsistentDescriptor(err error) bool {
	_, ok := err.(inconsistentDescriptorError)
	return ok
}

// missingContainerNameError signals a multi-container descriptor without a
// container name.
type missingContainerNameError struct{ endpoint string }

func (e missingContainerNameError) Error() string {
	return "missing container name for multi-container endpoint: " + e.endpoint
}

// ErrMissingContainerName constructs a missingContainerNameError.
func ErrMissingContainerName(endpoint string) error {
	return missingContainerNameError{endpoint: endpoint}
}

// IsMissingContainerName reports whether err indicates an absent container
// name on a multi-container descriptor.
func IsMissingContainerName(err error) bool {
	_, ok := err.(missingContainerNameError)
	return ok
}

// malformedKeyError signals a parameter key that does not follow the path
// layout.
type malformedKeyError struct {
	key string
	msg string
}

func (e malformedKeyError) Error() string { return "malformed parameter key " + e.key + ": " + e.msg }

// ErrMalformedKey constructs a malformedKeyError.
func ErrMalformedKey(key, msg string) error { return malformedKeyError{key: key, msg: msg} }

// IsMalformedKey reports whether err indicates an unparseable parameter key.
func IsMalformedKey(err error) bool {
	_, ok := err.(malformedKeyError)
	return ok
}
