// Command endpoint-scaling is the Lambda entrypoint for the scaling and
// parameter registration step: once the endpoint is in service it registers
// the endpoint under its parameter keys and attaches autoscaling.
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
	var env config.Scaling
	if err := config.Init(&env); err != nil {
		log.Fatal().Err(err).Msg("failed to read handler config")
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().
		Level(config.LoggerLevel(env.LogLevel))

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load aws config")
	}

	h := deploy.NewScalingRegistrar(deploy.ScalingRegistrarConfig{
		Hosting: awscloud.NewHosting(awsCfg),
		Store:   awscloud.NewStore(awsCfg),
		Scaler:  awscloud.NewScaler(awsCfg),
		Alarms:  awscloud.NewAlarms(awsCfg),
		Log:     logger,
	})
	lambda.Start(h.Handle)
}
