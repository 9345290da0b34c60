package deploy

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"smdeploy/internal/parampath"
	"smdeploy/internal/reconcile"
	"smdeploy/pkg/types"
)

// GraphReconciler handles the graph reconciliation step: bring each desired
// dependency group's parameter namespace in line with the deployment graph,
// deleting keys for endpoints that left the graph and creating keys for
// endpoints that joined it.
type GraphReconciler struct {
	store   ParameterStore
	hosting ModelHosting

	log zerolog.Logger
}

// GraphReconcilerConfig wires a GraphReconciler's collaborators.
type GraphReconcilerConfig struct {
	Store   ParameterStore
	Hosting ModelHosting

	Log zerolog.Logger
}

// NewGraphReconciler constructs a GraphReconciler.
func NewGraphReconciler(cfg GraphReconcilerConfig) *GraphReconciler {
	return &GraphReconciler{store: cfg.Store, hosting: cfg.Hosting, log: cfg.Log}
}

// Handle reconciles the desired graph against the parameter store and
// applies the resulting plan.
func (h *GraphReconciler) Handle(ctx context.Context, ev types.GraphEvent) (types.GraphResult, error) {
	desired := make(map[string][]parampath.Descriptor, len(ev.ExecutionGraph))
	for group, endpoints := range ev.ExecutionGraph {
		for _, e := range endpoints {
			desired[group] = append(desired[group], graphDescriptor(e))
		}
	}

	snapshots := make(map[string]reconcile.Snapshot, len(desired))
	for group := range desired {
		keys, err := h.store.List(ctx, parampath.GroupPrefix(group))
		if err != nil {
			return types.GraphResult{}, fmt.Errorf("list parameters for group %s: %w", group, err)
		}
		snapshots[group] = reconcile.NewSnapshot(keys...)
	}

	plan, err := reconcile.Compute(ctx, desired, snapshots, h.endpointReady)
	if err != nil {
		return types.GraphResult{}, err
	}

	for key := range plan.ToDelete {
		if err := h.store.Delete(ctx, key.String()); err != nil {
			return types.GraphResult{}, fmt.Errorf("delete parameter %s: %w", key, err)
		}
		h.log.Info().Stringer("key", key).Msg("deleted parameter no longer in graph")
	}
	for key, endpointName := range plan.ToCreate {
		if err := h.store.Put(ctx, key.String(), endpointName, false); err != nil {
			return types.GraphResult{}, fmt.Errorf("create parameter %s: %w", key, err)
		}
		h.log.Info().Stringer("key", key).Str("endpoint", endpointName).Msg("created parameter for new graph entry")
	}

	return types.GraphResult{
		StatusCode: 200,
		Body:       "model DAG updated",
		Created:    len(plan.ToCreate),
		Deleted:    len(plan.ToDelete),
	}, nil
}

func (h *GraphReconciler) endpointReady(ctx context.Context, endpointName string) (bool, error) {
	status, err := h.hosting.EndpointStatus(ctx, endpointName)
	if err != nil {
		return false, fmt.Errorf("describe endpoint %s: %w", endpointName, err)
	}
	return status == StatusInService, nil
}
