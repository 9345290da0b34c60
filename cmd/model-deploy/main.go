// Command model-deploy is the Lambda entrypoint for the model deployment
// step: it creates a timestamped model, records it as the latest version
// and keeps the model card current.
package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"smdeploy/internal/awscloud"
	"smdeploy/internal/config"
	"smdeploy/internal/deploy"
)

func main() {
	var env config.ModelDeploy
	if err := config.Init(&env); err != nil {
		log.Fatal().Err(err).Msg("failed to read handler config")
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().
		Level(config.LoggerLevel(env.LogLevel))

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load aws config")
	}

	h := deploy.NewModelDeployer(deploy.ModelDeployerConfig{
		Hosting:          awscloud.NewHosting(awsCfg),
		Store:            awscloud.NewStore(awsCfg),
		Objects:          awscloud.NewObjects(awsCfg),
		MetadataBucket:   env.MetadataBucket,
		KMSKeyARN:        env.KMSKeyARN,
		ExecutionRoleARN: env.ExecutionRoleARN,
		Log:              logger,
	})
	lambda.Start(h.Handle)
}
