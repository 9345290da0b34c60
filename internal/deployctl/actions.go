package deployctl

import (
	"context"
	"fmt"

	"github.com/avast/retry-go/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"

	"smdeploy/internal/awscloud"
	"smdeploy/internal/config"
	"smdeploy/internal/deploy"
	"smdeploy/internal/reconcile"
)

// withWait runs fn once, or under --wait keeps re-running it while the
// endpoint is still coming up. Any other failure stops immediately.
func (o *options) withWait(ctx context.Context, fn func() error) error {
	if !o.wait {
		return fn()
	}
	return retry.Do(
		func() error { return fn() },
		retry.Context(ctx),
		retry.Attempts(o.waitAttempts),
		retry.Delay(o.waitDelay),
		retry.DelayType(retry.FixedDelay),
		retry.RetryIf(reconcile.IsEndpointNotReady),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			o.log.Info().Uint("attempt", n+1).Err(err).Msg("endpoint not ready yet, retrying")
		}),
	)
}

func fnRunModel(ctx context.Context, log zerolog.Logger, eventPath string) error {
	var env config.ModelDeploy
	if err := config.Init(&env); err != nil {
		return fmt.Errorf("read handler config: %w", err)
	}
	ev, err := config.LoadEvent(eventPath)
	if err != nil {
		return err
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	h := deploy.NewModelDeployer(deploy.ModelDeployerConfig{
		Hosting:          awscloud.NewHosting(awsCfg),
		Store:            awscloud.NewStore(awsCfg),
		Objects:          awscloud.NewObjects(awsCfg),
		MetadataBucket:   env.MetadataBucket,
		KMSKeyARN:        env.KMSKeyARN,
		ExecutionRoleARN: env.ExecutionRoleARN,
		Log:              log,
	})
	out, err := h.Handle(ctx, ev)
	if err != nil {
		return err
	}
	log.Info().Str("model_name", out.ModelName).Msg("model deployed")
	return nil
}

func fnRunEndpoint(ctx context.Context, log zerolog.Logger, eventPath string) error {
	var env config.EndpointDeploy
	if err := config.Init(&env); err != nil {
		return fmt.Errorf("read handler config: %w", err)
	}
	ev, err := config.LoadEvent(eventPath)
	if err != nil {
		return err
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	h := deploy.NewEndpointDeployer(deploy.EndpointDeployerConfig{
		Hosting:      awscloud.NewHosting(awsCfg),
		Store:        awscloud.NewStore(awsCfg),
		Scaler:       awscloud.NewScaler(awsCfg),
		Keys:         awscloud.NewKeys(awsCfg),
		OutputBucket: env.OutputBucket,
		KMSKey:       env.KMSKey,
		Log:          log,
	})
	out, err := h.Handle(ctx, ev)
	if err != nil {
		return err
	}
	log.Info().Str("endpoint_name", out.EndpointName).Msg("endpoint deployment started")
	return nil
}

func fnRunScaling(ctx context.Context, log zerolog.Logger, eventPath string) error {
	ev, err := config.LoadEvent(eventPath)
	if err != nil {
		return err
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	h := deploy.NewScalingRegistrar(deploy.ScalingRegistrarConfig{
		Hosting: awscloud.NewHosting(awsCfg),
		Store:   awscloud.NewStore(awsCfg),
		Scaler:  awscloud.NewScaler(awsCfg),
		Alarms:  awscloud.NewAlarms(awsCfg),
		Log:     log,
	})
	out, err := h.Handle(ctx, ev)
	if err != nil {
		return err
	}
	log.Info().Str("endpoint_name", out.EndpointName).Msg("scaling registered")
	return nil
}

func fnRunGraph(ctx context.Context, log zerolog.Logger, graphPath string) error {
	ev, err := config.LoadGraph(graphPath)
	if err != nil {
		return err
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	h := deploy.NewGraphReconciler(deploy.GraphReconcilerConfig{
		Hosting: awscloud.NewHosting(awsCfg),
		Store:   awscloud.NewStore(awsCfg),
		Log:     log,
	})
	out, err := h.Handle(ctx, ev)
	if err != nil {
		return err
	}
	log.Info().Int("created", out.Created).Int("deleted", out.Deleted).Msg(out.Body)
	return nil
}
