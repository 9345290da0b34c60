// Package reconcile computes the difference between the desired deployment
// graph and the parameter keys currently stored for each dependency group.
//
// Only groups present in the desired graph are scanned; keys under a group
// that was removed from the graph entirely are left alone. That mirrors the
// pipeline's scope rule (each run owns exactly the groups it declares) and
// means removing a whole group does not clean up its parameters.
package reconcile

import (
	"context"

	"smdeploy/internal/parampath"
)

// Snapshot is the set of parameter keys stored under one dependency group's
// namespace at the time it was listed. It is consumed by a single Compute
// call and must not be reused across runs.
type Snapshot map[parampath.Key]struct{}

// NewSnapshot builds a Snapshot from listed keys.
func NewSnapshot(keys ...parampath.Key) Snapshot {
	s := make(Snapshot, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Plan is the set of parameter mutations that bring the store in line with
// the desired graph. Keys are independent entries, so the caller may apply
// creates and deletes in any order.
type Plan struct {
	// ToCreate maps each missing key to the endpoint name stored as its value.
	ToCreate map[parampath.Key]string
	// ToDelete holds stored keys no longer present in the desired graph.
	ToDelete map[parampath.Key]struct{}
}

// Empty reports whether the plan contains no mutations.
func (p Plan) Empty() bool { return len(p.ToCreate) == 0 && len(p.ToDelete) == 0 }

// ReadyFunc reports whether the named endpoint is in service and therefore
// safe to publish a parameter for.
type ReadyFunc func(ctx context.Context, endpointName string) (bool, error)

// Compute diffs the desired graph against the per-group snapshots.
//
// A stored key is scheduled for deletion when its group is part of the
// desired graph but the key itself is not expected. An expected key missing
// from its group's snapshot is scheduled for creation, provided its endpoint
// is ready; an endpoint that is not ready fails the whole pass with an
// ErrEndpointNotReady the caller should treat as retryable.
//
// Descriptors take their dependency group from the map key; any Group field
// set on them is overridden.
func Compute(ctx context.Context, desired map[string][]parampath.Descriptor, snapshots map[string]Snapshot, ready ReadyFunc) (Plan, error) {
	plan := Plan{
		ToCreate: make(map[parampath.Key]string),
		ToDelete: make(map[parampath.Key]struct{}),
	}

	expected := make(map[parampath.Key]parampath.Descriptor)
	for group, descs := range desired {
		for _, d := range descs {
			d.Group = group
			key, err := parampath.Encode(d)
			if err != nil {
				return Plan{}, err
			}
			expected[key] = d
		}
	}

	for key, d := range expected {
		if _, ok := snapshots[d.Group][key]; ok {
			continue
		}
		ok, err := ready(ctx, d.EndpointName)
		if err != nil {
			return Plan{}, err
		}
		if !ok {
			return Plan{}, ErrEndpointNotReady(d.EndpointName)
		}
		plan.ToCreate[key] = d.EndpointName
	}

	for group := range desired {
		for key := range snapshots[group] {
			if _, ok := expected[key]; !ok {
				plan.ToDelete[key] = struct{}{}
			}
		}
	}

	return plan, nil
}
