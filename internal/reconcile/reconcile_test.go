package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smdeploy/internal/parampath"
)

func allReady(context.Context, string) (bool, error) { return true, nil }

func TestComputeCreateAndDelete(t *testing.T) {
	desired := map[string][]parampath.Descriptor{
		"groupA": {{EndpointType: parampath.TypeAsync, EndpointName: "ep1"}},
	}
	snapshots := map[string]Snapshot{
		"groupA": NewSnapshot("/groupA/async/old-ep"),
	}

	plan, err := Compute(context.Background(), desired, snapshots, allReady)
	require.NoError(t, err)

	assert.Equal(t, map[parampath.Key]string{"/groupA/async/ep1": "ep1"}, plan.ToCreate)
	assert.Equal(t, map[parampath.Key]struct{}{"/groupA/async/old-ep": {}}, plan.ToDelete)
}

func TestComputeNotReadyFailsPass(t *testing.T) {
	desired := map[string][]parampath.Descriptor{
		"groupA": {{EndpointType: parampath.TypeAsync, EndpointName: "ep1"}},
	}
	notReady := func(context.Context, string) (bool, error) { return false, nil }

	_, err := Compute(context.Background(), desired, map[string]Snapshot{}, notReady)
	require.Error(t, err)
	assert.True(t, IsEndpointNotReady(err))
}

func TestComputeIdempotent(t *testing.T) {
	desired := map[string][]parampath.Descriptor{
		"groupA": {
			{EndpointType: parampath.TypeAsync, EndpointName: "ep1"},
			{EndpointType: parampath.TypeRealTime, EndpointName: "ep2", ContainerName: "tok", MultiContainer: true},
		},
		"groupB": {{EndpointType: parampath.TypeRealTime, EndpointName: "ep3"}},
	}
	snapshots := map[string]Snapshot{
		"groupA": NewSnapshot("/groupA/real-time/stale"),
		"groupB": NewSnapshot(),
	}

	first, err := Compute(context.Background(), desired, snapshots, allReady)
	require.NoError(t, err)
	require.False(t, first.Empty())

	// Apply the first plan to the snapshots and run again.
	for key := range first.ToCreate {
		d, err := parampath.Decode(key)
		require.NoError(t, err)
		snapshots[d.Group][key] = struct{}{}
	}
	for key := range first.ToDelete {
		d, err := parampath.Decode(key)
		require.NoError(t, err)
		delete(snapshots[d.Group], key)
	}

	second, err := Compute(context.Background(), desired, snapshots, allReady)
	require.NoError(t, err)
	assert.True(t, second.Empty(), "second pass should be a no-op, got %+v", second)
}

func TestComputeLeavesForeignGroupsAlone(t *testing.T) {
	desired := map[string][]parampath.Descriptor{
		"groupA": {{EndpointType: parampath.TypeAsync, EndpointName: "ep1"}},
	}
	// groupB was removed from the graph; its snapshot is simply not scanned.
	snapshots := map[string]Snapshot{
		"groupA": NewSnapshot("/groupA/async/ep1"),
		"groupB": NewSnapshot("/groupB/async/left-behind"),
	}

	plan, err := Compute(context.Background(), desired, snapshots, allReady)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestComputeExistingKeySkipsReadinessProbe(t *testing.T) {
	desired := map[string][]parampath.Descriptor{
		"groupA": {{EndpointType: parampath.TypeAsync, EndpointName: "ep1"}},
	}
	snapshots := map[string]Snapshot{
		"groupA": NewSnapshot("/groupA/async/ep1"),
	}
	probed := false
	ready := func(context.Context, string) (bool, error) {
		probed = true
		return false, nil
	}

	plan, err := Compute(context.Background(), desired, snapshots, ready)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
	assert.False(t, probed, "readiness must only gate creations")
}

func TestComputeRejectsBadDescriptor(t *testing.T) {
	desired := map[string][]parampath.Descriptor{
		"groupA": {{EndpointType: "batch", EndpointName: "ep1"}},
	}
	_, err := Compute(context.Background(), desired, map[string]Snapshot{}, allReady)
	require.Error(t, err)
	assert.True(t, parampath.IsInvalidEndpointType(err))
}
