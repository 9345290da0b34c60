package deploy

import (
	"context"

	"smdeploy/internal/parampath"
)

// Presence is the result of an existence probe against a collaborator.
// Transient failures are reported through the error return instead of being
// folded into a boolean.
type Presence int

const (
	// PresenceAbsent means the probed resource does not exist.
	PresenceAbsent Presence = iota
	// PresenceExists means the probed resource exists.
	PresenceExists
)

// EndpointStatus is the observable lifecycle state of a hosted endpoint.
type EndpointStatus string

const (
	// StatusInService means the endpoint serves traffic and may be updated.
	StatusInService EndpointStatus = "InService"
	// StatusCreating means a create is in flight; the attempt must fail.
	StatusCreating EndpointStatus = "Creating"
	// StatusUpdating means an update is in flight; the attempt must fail.
	StatusUpdating EndpointStatus = "Updating"
	// StatusDNE means the endpoint does not exist and is safe to create.
	StatusDNE EndpointStatus = "DNE"
	// StatusOther covers every remaining platform state (Failed, Deleting,
	// RollingBack, ...).
	StatusOther EndpointStatus = "Other"
)

// ParameterStore is the hierarchical key-value store recording which
// endpoint currently serves which logical role.
type ParameterStore interface {
	// List returns every key stored under prefix, following pagination.
	List(ctx context.Context, prefix string) ([]parampath.Key, error)
	// Get returns the value of a single parameter.
	Get(ctx context.Context, name string) (string, error)
	// Put writes a parameter. With overwrite false an existing parameter is
	// an error.
	Put(ctx context.Context, name, value string, overwrite bool) error
	// Delete removes a parameter.
	Delete(ctx context.Context, name string) error
	// Check probes for a parameter without treating absence as an error.
	Check(ctx context.Context, name string) (Presence, error)
}

// ContainerDef describes one container of a hosted model.
type ContainerDef struct {
	Hostname     string
	Image        string
	ModelDataURL string
}

// CreateModelInput carries everything needed to create a hosted model.
type CreateModelInput struct {
	Name    string
	RoleARN string
	// ExecutionType is Serial, Direct, or None (invoke containers directly).
	ExecutionType string
	Containers    []ContainerDef
}

// VariantDef describes one production variant of an endpoint configuration.
type VariantDef struct {
	Name          string
	ModelName     string
	InstanceCount int32
	Weight        float32
	InstanceType  string
}

// EndpointConfigInput carries everything needed to create an endpoint
// configuration. A non-empty AsyncOutputPath makes it an async inference
// configuration.
type EndpointConfigInput struct {
	Name            string
	KMSKeyID        string
	Variants        []VariantDef
	AsyncOutputPath string
}

// ModelHosting is the managed model-serving control plane.
type ModelHosting interface {
	CreateModel(ctx context.Context, in CreateModelInput) (string, error)
	CreateEndpointConfig(ctx context.Context, in EndpointConfigInput) error
	CreateEndpoint(ctx context.Context, name, configName, nameTag string) error
	UpdateEndpoint(ctx context.Context, name, configName string) error
	// EndpointStatus reports the endpoint's lifecycle state; a missing
	// endpoint is StatusDNE, not an error.
	EndpointStatus(ctx context.Context, name string) (EndpointStatus, error)

	CheckModelCard(ctx context.Context, name string) (Presence, error)
	// CreateModelCard creates a draft model card encrypted with kmsKeyARN
	// and returns its ARN.
	CreateModelCard(ctx context.Context, name, content, kmsKeyARN string) (string, error)
	// UpdateModelCard replaces a draft model card's content and returns its
	// ARN.
	UpdateModelCard(ctx context.Context, name, content string) (string, error)
}

// Policy is a named scaling policy attached to a scalable target.
type Policy struct {
	Name string
	ARN  string
}

// TargetTrackingInput configures a target-tracking scaling policy driven by
// a customized metric on the endpoint.
type TargetTrackingInput struct {
	PolicyName      string
	ResourceID      string
	TargetValue     float64
	MetricName      string
	MetricNamespace string
	EndpointName    string
}

// StepScalingInput configures a change-in-capacity step scaling policy.
type StepScalingInput struct {
	PolicyName      string
	ResourceID      string
	CooldownSeconds int32
	Adjustment      int32
}

// Autoscaler registers scalable targets and scaling policies for endpoint
// variants.
type Autoscaler interface {
	// ScalableTargets returns the resource ids currently registered for
	// resourceID.
	ScalableTargets(ctx context.Context, resourceID string) ([]string, error)
	Register(ctx context.Context, resourceID string, minCapacity, maxCapacity int32) error
	Deregister(ctx context.Context, resourceID string) error
	// Policies lists the scaling policies attached to resourceID.
	Policies(ctx context.Context, resourceID string) ([]Policy, error)
	DeletePolicy(ctx context.Context, resourceID, policyName string) error
	PutTargetTrackingPolicy(ctx context.Context, in TargetTrackingInput) (string, error)
	PutStepScalingPolicy(ctx context.Context, in StepScalingInput) (string, error)
}

// AlarmInput binds a backlog alarm to a scaling policy.
type AlarmInput struct {
	Name         string
	EndpointName string
	PolicyARN    string
}

// AlarmService manages metric alarms that trigger scaling policies.
type AlarmService interface {
	PutBacklogAlarm(ctx context.Context, in AlarmInput) error
}

// ObjectStore fetches objects from the object store.
type ObjectStore interface {
	// GetJSON fetches bucket/key and unmarshals it into into.
	GetJSON(ctx context.Context, bucket, key string, into any) error
	GetBytes(ctx context.Context, bucket, key string) ([]byte, error)
}

// KeyResolver resolves a key alias or id to the canonical key id.
type KeyResolver interface {
	ResolveKeyID(ctx context.Context, aliasOrID string) (string, error)
}
