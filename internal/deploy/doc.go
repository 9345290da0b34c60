// Package deploy implements the deployment pipeline's step handlers. Each
// handler takes one structured event, performs a linear sequence of calls
// against the managed services, and either returns the event for the next
// step or fails the attempt so the workflow engine can retry it. It is
// structured into small files by concern:
//
//   - adapter_iface.go: collaborator interfaces over the managed services
//     (parameter store, model hosting, autoscaling, alarms, object store,
//     key resolution) plus their input types.
//   - errors.go: error types and helpers (IsVariantCount, IsUpstreamFailed).
//   - helpers.go: naming helpers (unique names, resource ids, descriptors).
//   - model.go: ModelDeployer, the model deployment step.
//   - endpoint.go: EndpointDeployer, the endpoint config/endpoint step.
//   - scaling.go: ScalingRegistrar, parameter registration and autoscaling.
//   - graph.go: GraphReconciler, desired-graph reconciliation over the
//     reconcile package.
//
// Handlers hold no retry or backoff logic: validation errors are
// configuration defects for an operator, and the retryable not-ready
// condition (reconcile.IsEndpointNotReady) is re-driven by the workflow
// engine, not by this package.
package deploy
