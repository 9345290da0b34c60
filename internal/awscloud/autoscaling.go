package awscloud

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/applicationautoscaling"
	aastypes "github.com/aws/aws-sdk-go-v2/service/applicationautoscaling/types"

	"smdeploy/internal/deploy"
)

// Scaler adapts Application Auto Scaling to deploy.Autoscaler. All calls
// run in the sagemaker service namespace against the variant desired
// instance count dimension.
type Scaler struct {
	client *applicationautoscaling.Client
}

var _ deploy.Autoscaler = (*Scaler)(nil)

// NewScaler constructs a Scaler from a shared SDK config.
func NewScaler(cfg aws.Config) *Scaler {
	return &Scaler{client: applicationautoscaling.NewFromConfig(cfg)}
}

func (s *Scaler) ScalableTargets(ctx context.Context, resourceID string) ([]string, error) {
	out, err := s.client.DescribeScalableTargets(ctx, &applicationautoscaling.DescribeScalableTargetsInput{
		ServiceNamespace: aastypes.ServiceNamespaceSagemaker,
		ResourceIds:      []string{resourceID},
	})
	if err != nil {
		return nil, wrap("autoscaling describe scalable targets", err)
	}
	ids := make([]string, 0, len(out.ScalableTargets))
	for _, t := range out.ScalableTargets {
		ids = append(ids, aws.ToString(t.ResourceId))
	}
	return ids, nil
}

func (s *Scaler) Register(ctx context.Context, resourceID string, minCapacity, maxCapacity int32) error {
	_, err := s.client.RegisterScalableTarget(ctx, &applicationautoscaling.RegisterScalableTargetInput{
		ServiceNamespace:  aastypes.ServiceNamespaceSagemaker,
		ResourceId:        aws.String(resourceID),
		ScalableDimension: aastypes.ScalableDimensionSageMakerVariantDesiredInstanceCount,
		MinCapacity:       aws.Int32(minCapacity),
		MaxCapacity:       aws.Int32(maxCapacity),
	})
	return wrap("autoscaling register scalable target", err)
}

func (s *Scaler) Deregister(ctx context.Context, resourceID string) error {
	_, err := s.client.DeregisterScalableTarget(ctx, &applicationautoscaling.DeregisterScalableTargetInput{
		ServiceNamespace:  aastypes.ServiceNamespaceSagemaker,
		ResourceId:        aws.String(resourceID),
		ScalableDimension: aastypes.ScalableDimensionSageMakerVariantDesiredInstanceCount,
	})
	return wrap("autoscaling deregister scalable target", err)
}

func (s *Scaler) Policies(ctx context.Context, resourceID string) ([]deploy.Policy, error) {
	out, err := s.client.DescribeScalingPolicies(ctx, &applicationautoscaling.DescribeScalingPoliciesInput{
		ServiceNamespace: aastypes.ServiceNamespaceSagemaker,
		ResourceId:       aws.String(resourceID),
	})
	if err != nil {
		return nil, wrap("autoscaling describe scaling policies", err)
	}
	policies := make([]deploy.Policy, 0, len(out.ScalingPolicies))
	for _, p := range out.ScalingPolicies {
		policies = append(policies, deploy.Policy{
			Name: aws.ToString(p.PolicyName),
			ARN:  aws.ToString(p.PolicyARN),
		})
	}
	return policies, nil
}

func (s *Scaler) DeletePolicy(ctx context.Context, resourceID, policyName string) error {
	_, err := s.client.DeleteScalingPolicy(ctx, &applicationautoscaling.DeleteScalingPolicyInput{
		PolicyName:        aws.String(policyName),
		ServiceNamespace:  aastypes.ServiceNamespaceSagemaker,
		ResourceId:        aws.String(resourceID),
		ScalableDimension: aastypes.ScalableDimensionSageMakerVariantDesiredInstanceCount,
	})
	return wrap("autoscaling delete scaling policy", err)
}

func (s *Scaler) PutTargetTrackingPolicy(ctx context.Context, in deploy.TargetTrackingInput) (string, error) {
	out, err := s.client.PutScalingPolicy(ctx, &applicationautoscaling.PutScalingPolicyInput{
		PolicyName:        aws.String(in.PolicyName),
		ServiceNamespace:  aastypes.ServiceNamespaceSagemaker,
		ResourceId:        aws.String(in.ResourceID),
		ScalableDimension: aastypes.ScalableDimensionSageMakerVariantDesiredInstanceCount,
		PolicyType:        aastypes.PolicyTypeTargetTrackingScaling,
		TargetTrackingScalingPolicyConfiguration: &aastypes.TargetTrackingScalingPolicyConfiguration{
			TargetValue: aws.Float64(in.TargetValue),
			CustomizedMetricSpecification: &aastypes.CustomizedMetricSpecification{
				MetricName: aws.String(in.MetricName),
				Namespace:  aws.String(in.MetricNamespace),
				Statistic:  aastypes.MetricStatisticAverage,
				Dimensions: []aastypes.MetricDimension{
					{Name: aws.String("EndpointName"), Value: aws.String(in.EndpointName)},
				},
			},
		},
	})
	if err != nil {
		return "", wrap("autoscaling put target tracking policy", err)
	}
	return aws.ToString(out.PolicyARN), nil
}

func (s *Scaler) PutStepScalingPolicy(ctx context.Context, in deploy.StepScalingInput) (string, error) {
	out, err := s.client.PutScalingPolicy(ctx, &applicationautoscaling.PutScalingPolicyInput{
		PolicyName:        aws.String(in.PolicyName),
		ServiceNamespace:  aastypes.ServiceNamespaceSagemaker,
		ResourceId:        aws.String(in.ResourceID),
		ScalableDimension: aastypes.ScalableDimensionSageMakerVariantDesiredInstanceCount,
		PolicyType:        aastypes.PolicyTypeStepScaling,
		StepScalingPolicyConfiguration: &aastypes.StepScalingPolicyConfiguration{
			AdjustmentType:        aastypes.AdjustmentTypeChangeInCapacity,
			Cooldown:              aws.Int32(in.CooldownSeconds),
			MetricAggregationType: aastypes.MetricAggregationTypeAverage,
			StepAdjustments: []aastypes.StepAdjustment{
				{MetricIntervalLowerBound: aws.Float64(0), ScalingAdjustment: aws.Int32(in.Adjustment)},
			},
		},
	})
	if err != nil {
		return "", wrap("autoscaling put step scaling policy", err)
	}
	return aws.ToString(out.PolicyARN), nil
}
