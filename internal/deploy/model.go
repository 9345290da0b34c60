package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"smdeploy/pkg/types"
)

// ModelDeployer handles the model deployment step: create a uniquely named
// hosted model, record it as the latest version of its logical model, and
// create or refresh the model card.
type ModelDeployer struct {
	hosting ModelHosting
	store   ParameterStore
	objects ObjectStore

	metadataBucket   string
	kmsKeyARN        string
	executionRoleARN string

	log zerolog.Logger
	now func() time.Time
}

// ModelDeployerConfig wires a ModelDeployer's collaborators and settings.
type ModelDeployerConfig struct {
	Hosting ModelHosting
	Store   ParameterStore
	Objects ObjectStore

	// MetadataBucket holds the model card JSON documents.
	MetadataBucket string
	// KMSKeyARN encrypts newly created model cards.
	KMSKeyARN string
	// ExecutionRoleARN is assumed by the hosted model's containers.
	ExecutionRoleARN string

	Log zerolog.Logger
}

// NewModelDeployer constructs a ModelDeployer.
func NewModelDeployer(cfg ModelDeployerConfig) *ModelDeployer {
	return &ModelDeployer{
		hosting:          cfg.Hosting,
		store:            cfg.Store,
		objects:          cfg.Objects,
		metadataBucket:   cfg.MetadataBucket,
		kmsKeyARN:        cfg.KMSKeyARN,
		executionRoleARN: cfg.ExecutionRoleARN,
		log:              cfg.Log,
		now:              time.Now,
	}
}

// Handle deploys the event's model and returns the event unchanged for the
// next pipeline step.
func (h *ModelDeployer) Handle(ctx context.Context, ev types.DeploymentEvent) (types.DeploymentEvent, error) {
	if _, err := normalizeEndpointType(ev.EndpointType); err != nil {
		return ev, err
	}
	execType := ev.ExecutionType
	if execType == "" {
		execType = types.ExecutionNone
	}

	unique := uniqueName(ev.ModelName, h.now())
	containers := make([]ContainerDef, 0, len(ev.Containers))
	for _, c := range ev.Containers {
		containers = append(containers, ContainerDef{
			Hostname:     c.Name,
			Image:        c.Image,
			ModelDataURL: c.DataSourceURL,
		})
	}

	arn, err := h.hosting.CreateModel(ctx, CreateModelInput{
		Name:          unique,
		RoleARN:       h.executionRoleARN,
		ExecutionType: execType,
		Containers:    containers,
	})
	if err != nil {
		return ev, fmt.Errorf("create model %s: %w", unique, err)
	}
	h.log.Info().Str("model", unique).Str("arn", arn).Msg("created model")

	if err := h.store.Put(ctx, latestModelParam(ev.ModelName), unique, true); err != nil {
		return ev, fmt.Errorf("record latest model for %s: %w", ev.ModelName, err)
	}
	h.log.Info().Str("model", ev.ModelName).Str("latest", unique).Msg("recorded latest model name")

	cardARN, err := h.ensureModelCard(ctx, ev.ModelName, ev.ModelCardKey, unique)
	if err != nil {
		return ev, err
	}
	h.log.Info().Str("model", ev.ModelName).Str("card_arn", cardARN).Msg("model card up to date")

	return ev, nil
}

// ensureModelCard creates the model card on first deployment and rewrites
// its content afterwards. Cards always stay in draft status; approval is a
// human step outside the pipeline.
func (h *ModelDeployer) ensureModelCard(ctx context.Context, modelName, cardKey, uniqueModelName string) (string, error) {
	presence, err := h.hosting.CheckModelCard(ctx, modelName)
	if err != nil {
		return "", fmt.Errorf("check model card %s: %w", modelName, err)
	}

	var card map[string]any
	if err := h.objects.GetJSON(ctx, h.metadataBucket, cardKey, &card); err != nil {
		return "", fmt.Errorf("fetch model card content %s/%s: %w", h.metadataBucket, cardKey, err)
	}
	overview, ok := card["model_overview"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("model card %s: missing model_overview object", cardKey)
	}
	overview["model_name"] = uniqueModelName

	content, err := json.Marshal(card)
	if err != nil {
		return "", fmt.Errorf("marshal model card %s: %w", modelName, err)
	}

	if presence == PresenceExists {
		return h.hosting.UpdateModelCard(ctx, modelName, string(content))
	}
	return h.hosting.CreateModelCard(ctx, modelName, string(content), h.kmsKeyARN)
}
