package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"smdeploy/internal/parampath"
	"smdeploy/internal/reconcile"
	"smdeploy/pkg/types"
)

// Async endpoints are single-variant by platform constraint; real-time
// endpoints carry between one and ten variants.
const (
	maxRealTimeVariants = 10
)

// EndpointDeployer handles the endpoint deployment step: build a fresh
// endpoint configuration from the latest deployed models and create the
// endpoint, or update it in place when it already serves traffic.
type EndpointDeployer struct {
	hosting ModelHosting
	store   ParameterStore
	scaler  Autoscaler
	keys    KeyResolver

	outputBucket string
	kmsKey       string

	log zerolog.Logger
	now func() time.Time
}

// EndpointDeployerConfig wires an EndpointDeployer's collaborators and
// settings.
type EndpointDeployerConfig struct {
	Hosting ModelHosting
	Store   ParameterStore
	Scaler  Autoscaler
	Keys    KeyResolver

	// OutputBucket receives async inference results.
	OutputBucket string
	// KMSKey is the key id or alias encrypting endpoint storage volumes.
	KMSKey string

	Log zerolog.Logger
}

// NewEndpointDeployer constructs an EndpointDeployer.
func NewEndpointDeployer(cfg EndpointDeployerConfig) *EndpointDeployer {
	return &EndpointDeployer{
		hosting:      cfg.Hosting,
		store:        cfg.Store,
		scaler:       cfg.Scaler,
		keys:         cfg.Keys,
		outputBucket: cfg.OutputBucket,
		kmsKey:       cfg.KMSKey,
		log:          cfg.Log,
		now:          time.Now,
	}
}

// Handle deploys the event's endpoint and returns the event unchanged for
// the next pipeline step.
func (h *EndpointDeployer) Handle(ctx context.Context, ev types.DeploymentEvent) (types.DeploymentEvent, error) {
	endpointType, err := normalizeEndpointType(ev.EndpointType)
	if err != nil {
		return ev, err
	}

	configName, err := h.createEndpointConfig(ctx, endpointType, ev)
	if err != nil {
		return ev, err
	}
	if err := h.createOrUpdateEndpoint(ctx, ev, configName); err != nil {
		return ev, err
	}
	return ev, nil
}

// createEndpointConfig validates the variant list for the endpoint type,
// resolves each variant's latest deployed model, and creates a uniquely
// named endpoint configuration.
func (h *EndpointDeployer) createEndpointConfig(ctx context.Context, endpointType string, ev types.DeploymentEvent) (string, error) {
	switch endpointType {
	case parampath.TypeAsync:
		if len(ev.Variants) != 1 {
			return "", ErrVariantCount(endpointType, len(ev.Variants), "async endpoints take exactly one variant")
		}
	case parampath.TypeRealTime:
		if len(ev.Variants) < 1 || len(ev.Variants) > maxRealTimeVariants {
			return "", ErrVariantCount(endpointType, len(ev.Variants), "real-time endpoints take 1 to 10 variants")
		}
		if ev.MinCapacity < 1 {
			return "", fmt.Errorf("real-time endpoint %s: min_capacity must be at least 1, got %d", ev.EndpointName, ev.MinCapacity)
		}
	}

	keyID, err := h.keys.ResolveKeyID(ctx, h.kmsKey)
	if err != nil {
		return "", fmt.Errorf("resolve kms key %s: %w", h.kmsKey, err)
	}

	in := EndpointConfigInput{
		Name:     uniqueName(ev.EndpointName, h.now()),
		KMSKeyID: keyID,
	}
	for _, v := range ev.Variants {
		latest, err := h.store.Get(ctx, latestModelParam(v.ModelName))
		if err != nil {
			return "", fmt.Errorf("resolve latest model for %s: %w", v.ModelName, err)
		}
		in.Variants = append(in.Variants, VariantDef{
			Name:          v.Name,
			ModelName:     latest,
			InstanceCount: v.InstanceCount,
			Weight:        v.InstanceWeight,
			InstanceType:  v.InstanceType,
		})
	}
	if endpointType == parampath.TypeAsync {
		if len(ev.Containers) == 0 {
			return "", fmt.Errorf("async endpoint %s: container list is empty", ev.EndpointName)
		}
		in.AsyncOutputPath = fmt.Sprintf("s3://%s/inferred/%s/variants/%s",
			h.outputBucket, ev.Containers[0].Name, ev.Variants[0].Name)
	}

	if err := h.hosting.CreateEndpointConfig(ctx, in); err != nil {
		return "", fmt.Errorf("create endpoint config %s: %w", in.Name, err)
	}
	h.log.Info().Str("endpoint_config", in.Name).Str("endpoint_type", endpointType).Msg("created endpoint config")
	return in.Name, nil
}

// createOrUpdateEndpoint branches on observed endpoint status. An in-service
// endpoint is updated in place after deregistering any scalable targets left
// on its variants; a missing endpoint is created fresh; an endpoint mid
// create/update fails the attempt so the workflow retries later.
func (h *EndpointDeployer) createOrUpdateEndpoint(ctx context.Context, ev types.DeploymentEvent, configName string) error {
	status, err := h.hosting.EndpointStatus(ctx, ev.EndpointName)
	if err != nil {
		return fmt.Errorf("describe endpoint %s: %w", ev.EndpointName, err)
	}
	h.log.Info().Str("endpoint", ev.EndpointName).Str("status", string(status)).Msg("observed endpoint status")

	switch status {
	case StatusInService:
		if err := h.deregisterScalableTargets(ctx, ev); err != nil {
			return err
		}
		if err := h.hosting.UpdateEndpoint(ctx, ev.EndpointName, configName); err != nil {
			return fmt.Errorf("update endpoint %s: %w", ev.EndpointName, err)
		}
		h.log.Info().Str("endpoint", ev.EndpointName).Str("endpoint_config", configName).Msg("updating endpoint")
		return nil
	case StatusDNE:
		nameTag := "SageMaker Endpoint for " + ev.ModelName
		if err := h.hosting.CreateEndpoint(ctx, ev.EndpointName, configName, nameTag); err != nil {
			return fmt.Errorf("create endpoint %s: %w", ev.EndpointName, err)
		}
		h.log.Info().Str("endpoint", ev.EndpointName).Str("endpoint_config", configName).Msg("creating endpoint")
		return nil
	case StatusCreating, StatusUpdating:
		return reconcile.ErrEndpointNotReady(ev.EndpointName)
	default:
		return fmt.Errorf("endpoint %s in unexpected status %s", ev.EndpointName, status)
	}
}

// deregisterScalableTargets removes scalable targets registered on the
// endpoint's first variant before an in-place update; updating an endpoint
// with live autoscaling registrations is rejected by the platform.
func (h *EndpointDeployer) deregisterScalableTargets(ctx context.Context, ev types.DeploymentEvent) error {
	if len(ev.Variants) == 0 {
		return ErrVariantCount(ev.EndpointType, 0, "endpoint has no variants")
	}
	resourceID := variantResourceID(ev.EndpointName, ev.Variants[0].Name)
	targets, err := h.scaler.ScalableTargets(ctx, resourceID)
	if err != nil {
		return fmt.Errorf("describe scalable targets for %s: %w", resourceID, err)
	}
	for _, target := range targets {
		if err := h.scaler.Deregister(ctx, target); err != nil {
			return fmt.Errorf("deregister scalable target %s: %w", target, err)
		}
		h.log.Info().Str("resource_id", target).Msg("deregistered scalable target")
	}
	return nil
}
