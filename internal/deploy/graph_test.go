package deploy

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smdeploy/internal/reconcile"
	"smdeploy/pkg/types"
)

func newGraphReconciler(hosting *fakeHosting, store *fakeStore) *GraphReconciler {
	return NewGraphReconciler(GraphReconcilerConfig{Store: store, Hosting: hosting, Log: zerolog.Nop()})
}

func TestGraphReconcileCreatesAndDeletes(t *testing.T) {
	hosting := newFakeHosting()
	hosting.statuses["ep1"] = StatusInService
	store := newFakeStore()
	store.params["/groupA/async/old-ep"] = "old-ep"

	ev := types.GraphEvent{ExecutionGraph: map[string][]types.GraphEndpoint{
		"groupA": {{EndpointName: "ep1", EndpointType: types.EndpointTypeAsync}},
	}}

	res, err := newGraphReconciler(hosting, store).Handle(context.Background(), ev)
	require.NoError(t, err)

	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, "ep1", store.params["/groupA/async/ep1"])
	assert.NotContains(t, store.params, "/groupA/async/old-ep")
}

func TestGraphReconcileNotReadyFailsWithoutMutating(t *testing.T) {
	hosting := newFakeHosting()
	hosting.statuses["ep1"] = StatusCreating
	store := newFakeStore()
	store.params["/groupA/async/old-ep"] = "old-ep"

	ev := types.GraphEvent{ExecutionGraph: map[string][]types.GraphEndpoint{
		"groupA": {{EndpointName: "ep1", EndpointType: types.EndpointTypeAsync}},
	}}

	_, err := newGraphReconciler(hosting, store).Handle(context.Background(), ev)
	require.Error(t, err)
	assert.True(t, reconcile.IsEndpointNotReady(err))
	assert.Contains(t, store.params, "/groupA/async/old-ep", "failed pass applies nothing")
}

func TestGraphReconcileSecondRunIsNoOp(t *testing.T) {
	hosting := newFakeHosting()
	hosting.statuses["ep1"] = StatusInService
	hosting.statuses["ep2"] = StatusInService
	store := newFakeStore()
	store.params["/groupA/real-time/stale"] = "stale"

	ev := types.GraphEvent{ExecutionGraph: map[string][]types.GraphEndpoint{
		"groupA": {
			{EndpointName: "ep1", EndpointType: types.EndpointTypeAsync},
			{EndpointName: "ep2", EndpointType: types.EndpointTypeRealTime, MultiContainer: true, ContainerName: "tok"},
		},
	}}

	reconciler := newGraphReconciler(hosting, store)
	first, err := reconciler.Handle(context.Background(), ev)
	require.NoError(t, err)
	require.Equal(t, 2, first.Created)
	require.Equal(t, 1, first.Deleted)

	second, err := reconciler.Handle(context.Background(), ev)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Zero(t, second.Deleted)
}

func TestGraphReconcileIgnoresGroupsOutsideTheGraph(t *testing.T) {
	hosting := newFakeHosting()
	hosting.statuses["ep1"] = StatusInService
	store := newFakeStore()
	store.params["/groupA/async/ep1"] = "ep1"
	store.params["/retired-group/async/forgotten"] = "forgotten"

	ev := types.GraphEvent{ExecutionGraph: map[string][]types.GraphEndpoint{
		"groupA": {{EndpointName: "ep1", EndpointType: types.EndpointTypeAsync}},
	}}

	res, err := newGraphReconciler(hosting, store).Handle(context.Background(), ev)
	require.NoError(t, err)
	assert.Zero(t, res.Deleted)
	assert.Contains(t, store.params, "/retired-group/async/forgotten")
}

func TestGraphReconcileRejectsMalformedGraphEntry(t *testing.T) {
	ev := types.GraphEvent{ExecutionGraph: map[string][]types.GraphEndpoint{
		"groupA": {{EndpointName: "ep1", EndpointType: "batch"}},
	}}

	_, err := newGraphReconciler(newFakeHosting(), newFakeStore()).Handle(context.Background(), ev)
	require.Error(t, err)
}
