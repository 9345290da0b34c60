// Command endpoint-deploy is the Lambda entrypoint for the endpoint
// deployment step: it builds a fresh endpoint config from the latest
// model versions and creates or updates the endpoint with it.
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
	var env config.EndpointDeploy
	if err := config.Init(&env); err != nil {
		log.Fatal().Err(err).Msg("failed to read handler config")
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().
		Level(config.LoggerLevel(env.LogLevel))

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load aws config")
	}

	h := deploy.NewEndpointDeployer(deploy.EndpointDeployerConfig{
		Hosting:      awscloud.NewHosting(awsCfg),
		Store:        awscloud.NewStore(awsCfg),
		Scaler:       awscloud.NewScaler(awsCfg),
		Keys:         awscloud.NewKeys(awsCfg),
		OutputBucket: env.OutputBucket,
		KMSKey:       env.KMSKey,
		Log:          logger,
	})
	lambda.Start(h.Handle)
}
