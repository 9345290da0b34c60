package awscloud

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"smdeploy/internal/deploy"
)

// Alarms adapts CloudWatch to deploy.AlarmService.
type Alarms struct {
	client *cloudwatch.Client
}

var _ deploy.AlarmService = (*Alarms)(nil)

// NewAlarms constructs an Alarms from a shared SDK config.
func NewAlarms(cfg aws.Config) *Alarms {
	return &Alarms{client: cloudwatch.NewFromConfig(cfg)}
}

// PutBacklogAlarm binds an alarm on HasBacklogWithoutCapacity to the given
// scaling policy. Two one-minute datapoints at or above 1 fire the alarm,
// which is what lets an async endpoint scale up from zero instances.
func (a *Alarms) PutBacklogAlarm(ctx context.Context, in deploy.AlarmInput) error {
	_, err := a.client.PutMetricAlarm(ctx, &cloudwatch.PutMetricAlarmInput{
		AlarmName:          aws.String(in.Name),
		MetricName:         aws.String("HasBacklogWithoutCapacity"),
		Namespace:          aws.String("AWS/SageMaker"),
		Statistic:          cwtypes.StatisticAverage,
		EvaluationPeriods:  aws.Int32(2),
		DatapointsToAlarm:  aws.Int32(2),
		Threshold:          aws.Float64(1),
		ComparisonOperator: cwtypes.ComparisonOperatorGreaterThanOrEqualToThreshold,
		TreatMissingData:   aws.String("missing"),
		Period:             aws.Int32(60),
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String("EndpointName"), Value: aws.String(in.EndpointName)},
		},
		AlarmActions: []string{in.PolicyARN},
	})
	return wrap("cloudwatch put metric alarm", err)
}
