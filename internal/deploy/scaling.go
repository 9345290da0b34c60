package deploy

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"smdeploy/internal/parampath"
	"smdeploy/internal/reconcile"
	"smdeploy/pkg/types"
)

const (
	backlogPerInstanceMetric = "ApproximateBacklogSizePerInstance"
	backlogTargetValue       = 5

	stepScalingCooldownSeconds = 300
	stepScalingAdjustment      = 1
)

// ScalingRegistrar handles the scaling step: publish a parameter for every
// container of a freshly served endpoint and attach autoscaling to its main
// variant. Async endpoints additionally get a step-scaling policy and a
// backlog alarm so they can scale up from zero instances.
type ScalingRegistrar struct {
	hosting ModelHosting
	store   ParameterStore
	scaler  Autoscaler
	alarms  AlarmService

	log zerolog.Logger
}

// ScalingRegistrarConfig wires a ScalingRegistrar's collaborators.
type ScalingRegistrarConfig struct {
	Hosting ModelHosting
	Store   ParameterStore
	Scaler  Autoscaler
	Alarms  AlarmService

	Log zerolog.Logger
}

// NewScalingRegistrar constructs a ScalingRegistrar.
func NewScalingRegistrar(cfg ScalingRegistrarConfig) *ScalingRegistrar {
	return &ScalingRegistrar{
		hosting: cfg.Hosting,
		store:   cfg.Store,
		scaler:  cfg.Scaler,
		alarms:  cfg.Alarms,
		log:     cfg.Log,
	}
}

// Handle registers parameters and autoscaling for the event's endpoint and
// returns the event unchanged.
func (h *ScalingRegistrar) Handle(ctx context.Context, ev types.DeploymentEvent) (types.DeploymentEvent, error) {
	if ev.StatusCode == 500 {
		return ev, ErrUpstreamFailed(ev.StatusCode)
	}
	endpointType, err := normalizeEndpointType(ev.EndpointType)
	if err != nil {
		return ev, err
	}

	for _, c := range ev.Containers {
		if err := h.ensureParameter(ctx, endpointType, ev, c); err != nil {
			return ev, err
		}
	}
	if err := h.registerAutoscaling(ctx, endpointType, ev); err != nil {
		return ev, err
	}
	return ev, nil
}

// ensureParameter publishes the container's parameter key once the endpoint
// serves traffic. An endpoint still coming up fails the attempt so the
// workflow re-invokes after a delay.
func (h *ScalingRegistrar) ensureParameter(ctx context.Context, endpointType string, ev types.DeploymentEvent, c types.Container) error {
	key, err := parampath.Encode(containerDescriptor(endpointType, ev, c))
	if err != nil {
		return err
	}

	presence, err := h.store.Check(ctx, key.String())
	if err != nil {
		return fmt.Errorf("check parameter %s: %w", key, err)
	}
	if presence == PresenceExists {
		h.log.Debug().Stringer("key", key).Msg("parameter already registered")
		return nil
	}

	ready, err := h.endpointInService(ctx, ev.EndpointName)
	if err != nil {
		return err
	}
	if !ready {
		return reconcile.ErrEndpointNotReady(ev.EndpointName)
	}
	if err := h.store.Put(ctx, key.String(), ev.EndpointName, false); err != nil {
		return fmt.Errorf("create parameter %s: %w", key, err)
	}
	h.log.Info().Stringer("key", key).Str("endpoint", ev.EndpointName).Msg("registered endpoint parameter")
	return nil
}

// registerAutoscaling attaches the scalable target and scaling policies to
// the endpoint's first variant. The first variant is the main one; an event
// without variants would have failed the deployment step already, but is
// still rejected here.
func (h *ScalingRegistrar) registerAutoscaling(ctx context.Context, endpointType string, ev types.DeploymentEvent) error {
	ready, err := h.endpointInService(ctx, ev.EndpointName)
	if err != nil {
		return err
	}
	if !ready {
		return reconcile.ErrEndpointNotReady(ev.EndpointName)
	}
	if len(ev.Variants) == 0 {
		return ErrVariantCount(endpointType, 0, "endpoint has no variants")
	}

	resourceID := variantResourceID(ev.EndpointName, ev.Variants[0].Name)
	if err := h.scaler.Register(ctx, resourceID, ev.MinCapacity, ev.MaxCapacity); err != nil {
		return fmt.Errorf("register scalable target %s: %w", resourceID, err)
	}
	h.log.Info().Str("resource_id", resourceID).
		Int32("min", ev.MinCapacity).Int32("max", ev.MaxCapacity).
		Msg("registered scalable target")

	if err := h.upsertTargetTracking(ctx, ev, resourceID); err != nil {
		return err
	}
	if endpointType != parampath.TypeAsync {
		return nil
	}

	// Only async endpoints scale to zero; the step policy plus backlog alarm
	// is what brings them back up from zero instances.
	policyARN, err := h.upsertStepScaling(ctx, ev, resourceID)
	if err != nil {
		return err
	}
	latest, err := h.store.Get(ctx, latestModelParam(ev.ModelName))
	if err != nil {
		return fmt.Errorf("resolve latest model for %s: %w", ev.ModelName, err)
	}
	alarm := AlarmInput{
		Name:         "sagemaker-step-scaling-" + latest,
		EndpointName: ev.EndpointName,
		PolicyARN:    policyARN,
	}
	if err := h.alarms.PutBacklogAlarm(ctx, alarm); err != nil {
		return fmt.Errorf("put backlog alarm %s: %w", alarm.Name, err)
	}
	h.log.Info().Str("alarm", alarm.Name).Str("policy_arn", policyARN).Msg("bound backlog alarm to step policy")
	return nil
}

// upsertTargetTracking replaces the variant's target-tracking policy by
// name. The autoscaling service has no atomic replace, so an existing policy
// of the same name is deleted first.
func (h *ScalingRegistrar) upsertTargetTracking(ctx context.Context, ev types.DeploymentEvent, resourceID string) error {
	policyName := "target-scaling-" + ev.ModelName
	if err := h.deletePolicyByName(ctx, resourceID, policyName); err != nil {
		return err
	}
	arn, err := h.scaler.PutTargetTrackingPolicy(ctx, TargetTrackingInput{
		PolicyName:      policyName,
		ResourceID:      resourceID,
		TargetValue:     backlogTargetValue,
		MetricName:      backlogPerInstanceMetric,
		MetricNamespace: "AWS/SageMaker",
		EndpointName:    ev.EndpointName,
	})
	if err != nil {
		return fmt.Errorf("put target tracking policy %s: %w", policyName, err)
	}
	h.log.Info().Str("policy", policyName).Str("policy_arn", arn).Msg("put target tracking policy")
	return nil
}

// upsertStepScaling replaces the variant's step-scaling policy by name and
// returns the new policy's ARN for the alarm binding.
func (h *ScalingRegistrar) upsertStepScaling(ctx context.Context, ev types.DeploymentEvent, resourceID string) (string, error) {
	policyName := "HasBacklogWithoutCapacity-" + ev.ModelName
	if err := h.deletePolicyByName(ctx, resourceID, policyName); err != nil {
		return "", err
	}
	arn, err := h.scaler.PutStepScalingPolicy(ctx, StepScalingInput{
		PolicyName:      policyName,
		ResourceID:      resourceID,
		CooldownSeconds: stepScalingCooldownSeconds,
		Adjustment:      stepScalingAdjustment,
	})
	if err != nil {
		return "", fmt.Errorf("put step scaling policy %s: %w", policyName, err)
	}
	h.log.Info().Str("policy", policyName).Str("policy_arn", arn).Msg("put step scaling policy")
	return arn, nil
}

func (h *ScalingRegistrar) deletePolicyByName(ctx context.Context, resourceID, policyName string) error {
	policies, err := h.scaler.Policies(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("describe scaling policies for %s: %w", resourceID, err)
	}
	for _, p := range policies {
		if p.Name != policyName {
			continue
		}
		if err := h.scaler.DeletePolicy(ctx, resourceID, policyName); err != nil {
			return fmt.Errorf("delete scaling policy %s: %w", policyName, err)
		}
		h.log.Info().Str("policy", policyName).Msg("deleted existing scaling policy before recreate")
	}
	return nil
}

func (h *ScalingRegistrar) endpointInService(ctx context.Context, name string) (bool, error) {
	status, err := h.hosting.EndpointStatus(ctx, name)
	if err != nil {
		return false, fmt.Errorf("describe endpoint %s: %w", name, err)
	}
	return status == StatusInService, nil
}
