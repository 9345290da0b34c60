// Package config holds the handlers' environment-driven configuration and
// the event file loader used when running handlers locally.
package config

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/vrischmann/envconfig"
)

// ModelDeploy is the model deployment handler's environment.
type ModelDeploy struct {
	LogLevel         string `envconfig:"LOG_LEVEL,default=info"`
	MetadataBucket   string `envconfig:"MODEL_METADATA_BUCKET_NAME"`
	KMSKeyARN        string `envconfig:"KMS_KEY_ARN"`
	ExecutionRoleARN string `envconfig:"SM_EXECUTION_ROLE_ARN"`
}

// EndpointDeploy is the endpoint deployment handler's environment.
type EndpointDeploy struct {
	LogLevel     string `envconfig:"LOG_LEVEL,default=info"`
	OutputBucket string `envconfig:"MODEL_OUTPUT_BUCKET_NAME"`
	KMSKey       string `envconfig:"KMS_KEY_ID"`
}

// Scaling is the scaling handler's environment.
type Scaling struct {
	LogLevel string `envconfig:"LOG_LEVEL,default=info"`
}

// Graph is the graph reconciliation handler's environment.
type Graph struct {
	LogLevel string `envconfig:"LOG_LEVEL,default=info"`
}

// Init fills cfg from the environment.
func Init(cfg any) error { return envconfig.Init(cfg) }

// LoggerLevel maps a level string onto a zerolog level, defaulting to info.
func LoggerLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "error":
		return zerolog.ErrorLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	}
	return zerolog.InfoLevel
}
