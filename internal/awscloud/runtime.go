package awscloud

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
)

const invocationTimeoutSeconds = 3600

// Invoker calls deployed endpoints through the SageMaker runtime. It backs
// the CLI's invoke command; the pipeline handlers never invoke endpoints.
type Invoker struct {
	client *sagemakerruntime.Client
}

// NewInvoker constructs an Invoker from a shared SDK config.
func NewInvoker(cfg aws.Config) *Invoker {
	return &Invoker{client: sagemakerruntime.NewFromConfig(cfg)}
}

// InvokeAsync queues an async invocation reading input from inputLocation
// and returns the S3 location the result will land at.
func (i *Invoker) InvokeAsync(ctx context.Context, endpointName, inputLocation string) (string, error) {
	out, err := i.client.InvokeEndpointAsync(ctx, &sagemakerruntime.InvokeEndpointAsyncInput{
		EndpointName:             aws.String(endpointName),
		ContentType:              aws.String("application/json"),
		InputLocation:            aws.String(inputLocation),
		InvocationTimeoutSeconds: aws.Int32(invocationTimeoutSeconds),
	})
	if err != nil {
		return "", wrap("sagemaker-runtime invoke endpoint async", err)
	}
	return aws.ToString(out.OutputLocation), nil
}

// InvokeRealtime invokes a real-time endpoint with the given JSON payload.
// targetContainer addresses one container of a multi-container endpoint and
// is omitted when empty.
func (i *Invoker) InvokeRealtime(ctx context.Context, endpointName, targetContainer string, payload []byte) ([]byte, error) {
	input := &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(endpointName),
		ContentType:  aws.String("application/json"),
		Body:         payload,
	}
	if targetContainer != "" {
		input.TargetContainerHostname = aws.String(targetContainer)
	}
	out, err := i.client.InvokeEndpoint(ctx, input)
	if err != nil {
		return nil, wrap("sagemaker-runtime invoke endpoint", err)
	}
	return out.Body, nil
}
