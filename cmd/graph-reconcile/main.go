// Command graph-reconcile is the Lambda entrypoint for the deployment
// graph step: it diffs the desired execution graph against the registered
// parameter keys and converges the store.
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
	var env config.Graph
	if err := config.Init(&env); err != nil {
		log.Fatal().Err(err).Msg("failed to read handler config")
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().
		Level(config.LoggerLevel(env.LogLevel))

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load aws config")
	}

	h := deploy.NewGraphReconciler(deploy.GraphReconcilerConfig{
		Store:   awscloud.NewStore(awsCfg),
		Hosting: awscloud.NewHosting(awsCfg),
		Log:     logger,
	})
	lambda.Start(h.Handle)
}
