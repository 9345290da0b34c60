// Package types holds the wire-level payloads exchanged between the
// deployment pipeline's steps. Field names match the state machine's event
// schema, so the same struct round-trips through every handler.
package types

// Endpoint types accepted by the hosting platform.
const (
	EndpointTypeAsync    = "async"
	EndpointTypeRealTime = "real-time"
)

// Inference execution modes for multi-container models. ExecutionNone means
// the containers are invoked directly rather than as a serial pipeline.
const (
	ExecutionNone   = "None"
	ExecutionSerial = "Serial"
	ExecutionDirect = "Direct"
)

// Container describes one model container in the inference pipeline.
type Container struct {
	// Container hostname within the model.
	Name string `json:"container_name" yaml:"container_name" toml:"container_name"`
	// Image URI for the inference container.
	Image string `json:"container_image_url" yaml:"container_image_url" toml:"container_image_url"`
	// Optional S3 URL holding model artifacts.
	DataSourceURL string `json:"s3_data_source_url,omitempty" yaml:"s3_data_source_url,omitempty" toml:"s3_data_source_url,omitempty"`
	// Dependency group this container's endpoint belongs to.
	Dependency string `json:"dependency,omitempty" yaml:"dependency,omitempty" toml:"dependency,omitempty"`
}

// Variant describes one production variant of an endpoint.
type Variant struct {
	Name           string  `json:"variant_name" yaml:"variant_name" toml:"variant_name"`
	ModelName      string  `json:"variant_model_name" yaml:"variant_model_name" toml:"variant_model_name"`
	InstanceCount  int32   `json:"variant_instance_count" yaml:"variant_instance_count" toml:"variant_instance_count"`
	InstanceWeight float32 `json:"variant_instance_weight" yaml:"variant_instance_weight" toml:"variant_instance_weight"`
	InstanceType   string  `json:"variant_instance_type" yaml:"variant_instance_type" toml:"variant_instance_type"`
}

// DeploymentEvent is the event passed through the model/endpoint/scaling
// steps. Each handler reads the fields it needs and returns the event
// unchanged so the state machine can forward it.
type DeploymentEvent struct {
	ModelName    string      `json:"model_name" yaml:"model_name" toml:"model_name"`
	Containers   []Container `json:"container_list" yaml:"container_list" toml:"container_list"`
	ModelCardKey string      `json:"model_card_json_s3_object_key,omitempty" yaml:"model_card_json_s3_object_key,omitempty" toml:"model_card_json_s3_object_key,omitempty"`
	// ExecutionType is None, Serial, or Direct.
	ExecutionType string    `json:"execution_type,omitempty" yaml:"execution_type,omitempty" toml:"execution_type,omitempty"`
	EndpointType  string    `json:"endpoint_type" yaml:"endpoint_type" toml:"endpoint_type"`
	EndpointName  string    `json:"endpoint_name" yaml:"endpoint_name" toml:"endpoint_name"`
	Variants      []Variant `json:"variant_list" yaml:"variant_list" toml:"variant_list"`
	MinCapacity   int32     `json:"min_capacity" yaml:"min_capacity" toml:"min_capacity"`
	MaxCapacity   int32     `json:"max_capacity" yaml:"max_capacity" toml:"max_capacity"`
	// StatusCode is set by the state machine when a previous step failed.
	StatusCode int `json:"statusCode,omitempty" yaml:"statusCode,omitempty" toml:"statusCode,omitempty"`
}

// GraphEndpoint is one endpoint entry in the desired deployment graph.
type GraphEndpoint struct {
	EndpointName   string `json:"endpoint_name" yaml:"endpoint_name" toml:"endpoint_name"`
	EndpointType   string `json:"endpoint_type" yaml:"endpoint_type" toml:"endpoint_type"`
	MultiContainer bool   `json:"multi_container_endpoint,omitempty" yaml:"multi_container_endpoint,omitempty" toml:"multi_container_endpoint,omitempty"`
	ContainerName  string `json:"container_name,omitempty" yaml:"container_name,omitempty" toml:"container_name,omitempty"`
}

// GraphEvent carries the desired deployment graph: dependency group name to
// the endpoints serving that group.
type GraphEvent struct {
	ExecutionGraph map[string][]GraphEndpoint `json:"execution_graph" yaml:"execution_graph" toml:"execution_graph"`
}

// GraphResult is returned by the graph reconciliation step.
type GraphResult struct {
	StatusCode int    `json:"statusCode" yaml:"statusCode" toml:"statusCode"`
	Body       string `json:"body" yaml:"body" toml:"body"`
	Created    int    `json:"created" yaml:"created" toml:"created"`
	Deleted    int    `json:"deleted" yaml:"deleted" toml:"deleted"`
}
