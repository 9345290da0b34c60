package deployctl

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"

	"smdeploy/internal/awscloud"
	"smdeploy/internal/deploy"
	"smdeploy/internal/parampath"
)

// endpointInvoker is the slice of the runtime client the invoke command needs.
type endpointInvoker interface {
	InvokeAsync(ctx context.Context, endpointName, inputLocation string) (string, error)
	InvokeRealtime(ctx context.Context, endpointName, targetContainer string, payload []byte) ([]byte, error)
}

func fnInvoke(ctx context.Context, log zerolog.Logger, prefix, bucket, key string) error {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	store := awscloud.NewStore(awsCfg)
	keys, err := store.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("list parameters under %q: %w", prefix, err)
	}
	if len(keys) == 0 {
		log.Warn().Str("prefix", prefix).Msg("no endpoints registered under prefix")
		return nil
	}
	invoker := awscloud.NewInvoker(awsCfg)
	objects := awscloud.NewObjects(awsCfg)
	for _, k := range keys {
		if err := invokeKey(ctx, log, k, bucket, key, objects, invoker); err != nil {
			return err
		}
	}
	return nil
}

// invokeKey dispatches one registered endpoint: async endpoints get the
// payload by reference, real-time endpoints get the payload bytes inline,
// routed to the registered container when the key names one.
func invokeKey(ctx context.Context, log zerolog.Logger, k parampath.Key, bucket, objectKey string, objects deploy.ObjectStore, invoker endpointInvoker) error {
	d, err := parampath.Decode(k)
	if err != nil {
		return err
	}
	switch d.EndpointType {
	case parampath.TypeAsync:
		out, err := invoker.InvokeAsync(ctx, d.EndpointName, fmt.Sprintf("s3://%s/%s", bucket, objectKey))
		if err != nil {
			return fmt.Errorf("invoke async endpoint %q: %w", d.EndpointName, err)
		}
		log.Info().Str("endpoint_name", d.EndpointName).Str("output_location", out).Msg("async invocation accepted")
	case parampath.TypeRealTime:
		payload, err := objects.GetBytes(ctx, bucket, objectKey)
		if err != nil {
			return fmt.Errorf("read payload s3://%s/%s: %w", bucket, objectKey, err)
		}
		body, err := invoker.InvokeRealtime(ctx, d.EndpointName, d.ContainerName, payload)
		if err != nil {
			return fmt.Errorf("invoke endpoint %q: %w", d.EndpointName, err)
		}
		log.Info().Str("endpoint_name", d.EndpointName).Str("container", d.ContainerName).
			Int("response_bytes", len(body)).Msg("real-time invocation succeeded")
		fmt.Println(string(body))
	}
	return nil
}
