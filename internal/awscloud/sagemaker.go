package awscloud

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemaker"
	smtypes "github.com/aws/aws-sdk-go-v2/service/sagemaker/types"

	"smdeploy/internal/deploy"
	"smdeploy/pkg/types"
)

// Hosting adapts the SageMaker control plane to deploy.ModelHosting.
type Hosting struct {
	client *sagemaker.Client
}

var _ deploy.ModelHosting = (*Hosting)(nil)

// NewHosting constructs a Hosting from a shared SDK config.
func NewHosting(cfg aws.Config) *Hosting {
	return &Hosting{client: sagemaker.NewFromConfig(cfg)}
}

// CreateModel creates the hosted model with network isolation enabled, so
// the containers can make no inbound or outbound network calls.
func (h *Hosting) CreateModel(ctx context.Context, in deploy.CreateModelInput) (string, error) {
	containers := make([]smtypes.ContainerDefinition, 0, len(in.Containers))
	for _, c := range in.Containers {
		def := smtypes.ContainerDefinition{
			ContainerHostname: aws.String(c.Hostname),
			Image:             aws.String(c.Image),
		}
		if c.ModelDataURL != "" {
			def.ModelDataUrl = aws.String(c.ModelDataURL)
		}
		containers = append(containers, def)
	}

	input := &sagemaker.CreateModelInput{
		ModelName:              aws.String(in.Name),
		ExecutionRoleArn:       aws.String(in.RoleARN),
		Containers:             containers,
		EnableNetworkIsolation: aws.Bool(true),
	}
	switch in.ExecutionType {
	case "", types.ExecutionNone:
		// direct invocation, no execution config
	case types.ExecutionSerial:
		input.InferenceExecutionConfig = &smtypes.InferenceExecutionConfig{Mode: smtypes.InferenceExecutionModeSerial}
	case types.ExecutionDirect:
		input.InferenceExecutionConfig = &smtypes.InferenceExecutionConfig{Mode: smtypes.InferenceExecutionModeDirect}
	default:
		return "", fmt.Errorf("unknown execution type %q", in.ExecutionType)
	}

	out, err := h.client.CreateModel(ctx, input)
	if err != nil {
		return "", wrap("sagemaker create model", err)
	}
	return aws.ToString(out.ModelArn), nil
}

func (h *Hosting) CreateEndpointConfig(ctx context.Context, in deploy.EndpointConfigInput) error {
	variants := make([]smtypes.ProductionVariant, 0, len(in.Variants))
	for _, v := range in.Variants {
		variants = append(variants, smtypes.ProductionVariant{
			VariantName:          aws.String(v.Name),
			ModelName:            aws.String(v.ModelName),
			InitialInstanceCount: aws.Int32(v.InstanceCount),
			InitialVariantWeight: aws.Float32(v.Weight),
			InstanceType:         smtypes.ProductionVariantInstanceType(v.InstanceType),
		})
	}
	input := &sagemaker.CreateEndpointConfigInput{
		EndpointConfigName: aws.String(in.Name),
		ProductionVariants: variants,
		KmsKeyId:           aws.String(in.KMSKeyID),
	}
	if in.AsyncOutputPath != "" {
		input.AsyncInferenceConfig = &smtypes.AsyncInferenceConfig{
			OutputConfig: &smtypes.AsyncInferenceOutputConfig{
				S3OutputPath: aws.String(in.AsyncOutputPath),
			},
		}
	}
	_, err := h.client.CreateEndpointConfig(ctx, input)
	return wrap("sagemaker create endpoint config", err)
}

func (h *Hosting) CreateEndpoint(ctx context.Context, name, configName, nameTag string) error {
	_, err := h.client.CreateEndpoint(ctx, &sagemaker.CreateEndpointInput{
		EndpointName:       aws.String(name),
		EndpointConfigName: aws.String(configName),
		Tags: []smtypes.Tag{
			{Key: aws.String("Name"), Value: aws.String(nameTag)},
		},
	})
	return wrap("sagemaker create endpoint", err)
}

func (h *Hosting) UpdateEndpoint(ctx context.Context, name, configName string) error {
	_, err := h.client.UpdateEndpoint(ctx, &sagemaker.UpdateEndpointInput{
		EndpointName:       aws.String(name),
		EndpointConfigName: aws.String(configName),
	})
	return wrap("sagemaker update endpoint", err)
}

// EndpointStatus maps the platform's endpoint states onto the handler-level
// enum. DescribeEndpoint reports a missing endpoint as a validation error;
// that maps to DNE rather than a failure.
func (h *Hosting) EndpointStatus(ctx context.Context, name string) (deploy.EndpointStatus, error) {
	out, err := h.client.DescribeEndpoint(ctx, &sagemaker.DescribeEndpointInput{
		EndpointName: aws.String(name),
	})
	if err != nil {
		if errorCode(err) == "ValidationException" {
			return deploy.StatusDNE, nil
		}
		return "", wrap("sagemaker describe endpoint", err)
	}
	switch out.EndpointStatus {
	case smtypes.EndpointStatusInService:
		return deploy.StatusInService, nil
	case smtypes.EndpointStatusCreating:
		return deploy.StatusCreating, nil
	case smtypes.EndpointStatusUpdating, smtypes.EndpointStatusSystemUpdating:
		return deploy.StatusUpdating, nil
	default:
		return deploy.StatusOther, nil
	}
}

func (h *Hosting) CheckModelCard(ctx context.Context, name string) (deploy.Presence, error) {
	_, err := h.client.DescribeModelCard(ctx, &sagemaker.DescribeModelCardInput{
		ModelCardName: aws.String(name),
	})
	if err != nil {
		var nf *smtypes.ResourceNotFound
		if errors.As(err, &nf) {
			return deploy.PresenceAbsent, nil
		}
		return deploy.PresenceAbsent, wrap("sagemaker describe model card", err)
	}
	return deploy.PresenceExists, nil
}

func (h *Hosting) CreateModelCard(ctx context.Context, name, content, kmsKeyARN string) (string, error) {
	out, err := h.client.CreateModelCard(ctx, &sagemaker.CreateModelCardInput{
		ModelCardName:   aws.String(name),
		Content:         aws.String(content),
		ModelCardStatus: smtypes.ModelCardStatusDraft,
		SecurityConfig:  &smtypes.ModelCardSecurityConfig{KmsKeyId: aws.String(kmsKeyARN)},
	})
	if err != nil {
		return "", wrap("sagemaker create model card", err)
	}
	return aws.ToString(out.ModelCardArn), nil
}

func (h *Hosting) UpdateModelCard(ctx context.Context, name, content string) (string, error) {
	out, err := h.client.UpdateModelCard(ctx, &sagemaker.UpdateModelCardInput{
		ModelCardName:   aws.String(name),
		Content:         aws.String(content),
		ModelCardStatus: smtypes.ModelCardStatusDraft,
	})
	if err != nil {
		return "", wrap("sagemaker update model card", err)
	}
	return aws.ToString(out.ModelCardArn), nil
}
