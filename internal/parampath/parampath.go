// Package parampath derives the canonical parameter-store key for an
// endpoint's logical identity, and parses such keys back. Keys look like
//
//	/{dependency group}/{endpoint type}/{endpoint name}
//	/{dependency group}/{endpoint type}/{endpoint name}/{container name}
//
// The four-segment form is used only for multi-container real-time
// endpoints, where invocation has to name a target container. Encoding and
// decoding are strict inverses: segment count alone decides whether a
// container name is present, and every deviation is a hard error rather
// than a best-effort parse.
package parampath

import "strings"

// Key is a slash-delimited parameter-store path.
type Key string

func (k Key) String() string { return string(k) }

// Descriptor is the logical identity of a deployed endpoint within the
// deployment graph.
type Descriptor struct {
	// Group is the dependency group (pipeline stage) namespace.
	Group string
	// EndpointType is async or real-time.
	EndpointType string
	// EndpointName is the hosting platform's endpoint name.
	EndpointName string
	// ContainerName is set only for multi-container real-time endpoints.
	ContainerName string
	// MultiContainer marks a real-time endpoint hosting several containers.
	MultiContainer bool
}

const (
	// TypeAsync is the queued, single-variant endpoint type.
	TypeAsync = "async"
	// TypeRealTime is the synchronous endpoint type.
	TypeRealTime = "real-time"
)

// Encode derives the canonical parameter key for d.
func Encode(d Descriptor) (Key, error) {
	for _, seg := range []struct{ name, v string }{
		{"dependency group", d.Group},
		{"endpoint type", d.EndpointType},
		{"endpoint name", d.EndpointName},
	} {
		if seg.v == "" {
			return "", ErrInconsistentDescriptor("empty " + seg.name)
		}
		if strings.Contains(seg.v, "/") {
			return "", ErrInconsistentDescriptor(seg.name + " contains '/'")
		}
	}
	switch d.EndpointType {
	case TypeAsync:
		// Async endpoints are single-variant by platform constraint; a
		// supplied container name is a configuration defect, not something
		// to drop silently.
		if d.ContainerName != "" {
			return "", ErrInconsistentDescriptor("async endpoint " + d.EndpointName + " carries a container name")
		}
	case TypeRealTime:
		if d.MultiContainer && d.ContainerName == "" {
			return "", ErrMissingContainerName(d.EndpointName)
		}
		if !d.MultiContainer && d.ContainerName != "" {
			return "", ErrInconsistentDescriptor("single-container endpoint " + d.EndpointName + " carries a container name")
		}
		if strings.Contains(d.ContainerName, "/") {
			return "", ErrInconsistentDescriptor("container name contains '/'")
		}
	default:
		return "", ErrInvalidEndpointType(d.EndpointType)
	}

	if d.EndpointType == TypeRealTime && d.MultiContainer {
		return Key("/" + d.Group + "/" + d.EndpointType + "/" + d.EndpointName + "/" + d.ContainerName), nil
	}
	return Key("/" + d.Group + "/" + d.EndpointType + "/" + d.EndpointName), nil
}

// Decode parses a parameter key back into the descriptor it encodes.
// Three non-empty segments mean no container; four mean the last segment is
// the container name.
func Decode(k Key) (Descriptor, error) {
	s := string(k)
	if !strings.HasPrefix(s, "/") {
		return Descriptor{}, ErrMalformedKey(s, "missing leading '/'")
	}
	segs := strings.Split(s[1:], "/")
	for _, seg := range segs {
		if seg == "" {
			return Descriptor{}, ErrMalformedKey(s, "empty path segment")
		}
	}
	if len(segs) < 3 || len(segs) > 4 {
		return Descriptor{}, ErrMalformedKey(s, "expected 3 or 4 segments")
	}

	d := Descriptor{Group: segs[0], EndpointType: segs[1], EndpointName: segs[2]}
	switch d.EndpointType {
	case TypeAsync:
		if len(segs) == 4 {
			return Descriptor{}, ErrMalformedKey(s, "async key with container segment")
		}
	case TypeRealTime:
		if len(segs) == 4 {
			d.ContainerName = segs[3]
			d.MultiContainer = true
		}
	default:
		return Descriptor{}, ErrInvalidEndpointType(d.EndpointType)
	}
	return d, nil
}

// GroupPrefix returns the list prefix covering every key in a dependency
// group's namespace.
func GroupPrefix(group string) string { return "/" + group + "/" }
