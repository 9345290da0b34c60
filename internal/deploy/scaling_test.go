package deploy

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smdeploy/internal/reconcile"
	"smdeploy/pkg/types"
)

func newScalingRegistrar(hosting *fakeHosting, store *fakeStore, scaler *fakeScaler, alarms *fakeAlarms) *ScalingRegistrar {
	return NewScalingRegistrar(ScalingRegistrarConfig{
		Hosting: hosting,
		Store:   store,
		Scaler:  scaler,
		Alarms:  alarms,
		Log:     zerolog.Nop(),
	})
}

func inServiceHosting(endpoint string) *fakeHosting {
	hosting := newFakeHosting()
	hosting.statuses[endpoint] = StatusInService
	return hosting
}

func TestScalingRejectsFailedUpstreamStep(t *testing.T) {
	ev := asyncEvent()
	ev.StatusCode = 500

	_, err := newScalingRegistrar(newFakeHosting(), newFakeStore(), newFakeScaler(), &fakeAlarms{}).
		Handle(context.Background(), ev)
	require.Error(t, err)
	assert.True(t, IsUpstreamFailed(err))
}

func TestScalingRegistersParameterForServedEndpoint(t *testing.T) {
	store := withLatestModel(newFakeStore())

	_, err := newScalingRegistrar(inServiceHosting("churn-ep"), store, newFakeScaler(), &fakeAlarms{}).
		Handle(context.Background(), asyncEvent())
	require.NoError(t, err)

	assert.Equal(t, "churn-ep", store.params["/stage-a/async/churn-ep"])
}

func TestScalingSkipsExistingParameter(t *testing.T) {
	store := withLatestModel(newFakeStore())
	store.params["/stage-a/async/churn-ep"] = "churn-ep"

	_, err := newScalingRegistrar(inServiceHosting("churn-ep"), store, newFakeScaler(), &fakeAlarms{}).
		Handle(context.Background(), asyncEvent())
	require.NoError(t, err)
	assert.NotContains(t, store.puts, "/stage-a/async/churn-ep")
}

func TestScalingNotInServiceIsRetryable(t *testing.T) {
	hosting := newFakeHosting()
	hosting.statuses["churn-ep"] = StatusCreating

	_, err := newScalingRegistrar(hosting, withLatestModel(newFakeStore()), newFakeScaler(), &fakeAlarms{}).
		Handle(context.Background(), asyncEvent())
	require.Error(t, err)
	assert.True(t, reconcile.IsEndpointNotReady(err))
}

func TestScalingMultiContainerKeysNameTheContainer(t *testing.T) {
	ev := realtimeEvent()
	ev.Containers = []types.Container{
		{Name: "preproc", Image: "img/preproc:1", Dependency: "stage-a"},
		{Name: "scorer", Image: "img/scorer:1", Dependency: "stage-a"},
	}
	store := withLatestModel(newFakeStore())

	_, err := newScalingRegistrar(inServiceHosting("churn-ep"), store, newFakeScaler(), &fakeAlarms{}).
		Handle(context.Background(), ev)
	require.NoError(t, err)

	assert.Equal(t, "churn-ep", store.params["/stage-a/real-time/churn-ep/preproc"])
	assert.Equal(t, "churn-ep", store.params["/stage-a/real-time/churn-ep/scorer"])
}

func TestScalingRegistersTargetAndTargetTrackingPolicy(t *testing.T) {
	scaler := newFakeScaler()

	_, err := newScalingRegistrar(inServiceHosting("churn-ep"), withLatestModel(newFakeStore()), scaler, &fakeAlarms{}).
		Handle(context.Background(), asyncEvent())
	require.NoError(t, err)

	assert.Equal(t, [2]int32{0, 4}, scaler.registered["endpoint/churn-ep/variant/main"])
	require.Len(t, scaler.ttInputs, 1)
	tt := scaler.ttInputs[0]
	assert.Equal(t, "target-scaling-churn", tt.PolicyName)
	assert.Equal(t, float64(backlogTargetValue), tt.TargetValue)
	assert.Equal(t, backlogPerInstanceMetric, tt.MetricName)
	assert.Equal(t, "churn-ep", tt.EndpointName)
}

func TestScalingPolicyUpsertIsReplaceByName(t *testing.T) {
	scaler := newFakeScaler()
	store := withLatestModel(newFakeStore())
	reg := newScalingRegistrar(inServiceHosting("churn-ep"), store, scaler, &fakeAlarms{})

	_, err := reg.Handle(context.Background(), asyncEvent())
	require.NoError(t, err)
	_, err = reg.Handle(context.Background(), asyncEvent())
	require.NoError(t, err)

	var ttCount, stepCount int
	for _, p := range scaler.policies["endpoint/churn-ep/variant/main"] {
		switch p.Name {
		case "target-scaling-churn":
			ttCount++
		case "HasBacklogWithoutCapacity-churn":
			stepCount++
		}
	}
	assert.Equal(t, 1, ttCount, "second upsert must replace, not duplicate")
	assert.Equal(t, 1, stepCount)
	assert.Contains(t, scaler.deleted, "target-scaling-churn", "replace happens via delete-then-recreate")
}

func TestScalingAsyncGetsStepPolicyAndAlarm(t *testing.T) {
	scaler := newFakeScaler()
	alarms := &fakeAlarms{}

	_, err := newScalingRegistrar(inServiceHosting("churn-ep"), withLatestModel(newFakeStore()), scaler, alarms).
		Handle(context.Background(), asyncEvent())
	require.NoError(t, err)

	require.Len(t, scaler.stepInputs, 1)
	step := scaler.stepInputs[0]
	assert.Equal(t, "HasBacklogWithoutCapacity-churn", step.PolicyName)
	assert.Equal(t, int32(stepScalingCooldownSeconds), step.CooldownSeconds)
	assert.Equal(t, int32(stepScalingAdjustment), step.Adjustment)

	require.Len(t, alarms.puts, 1)
	alarm := alarms.puts[0]
	assert.Equal(t, "sagemaker-step-scaling-churn-2024-05-01-12-30-15", alarm.Name,
		"alarm is named after the latest deployed model")
	assert.Equal(t, "arn:policy/HasBacklogWithoutCapacity-churn", alarm.PolicyARN)
	assert.Equal(t, "churn-ep", alarm.EndpointName)
}

func TestScalingRealTimeSkipsStepPolicyAndAlarm(t *testing.T) {
	scaler := newFakeScaler()
	alarms := &fakeAlarms{}

	_, err := newScalingRegistrar(inServiceHosting("churn-ep"), withLatestModel(newFakeStore()), scaler, alarms).
		Handle(context.Background(), realtimeEvent())
	require.NoError(t, err)

	assert.Empty(t, scaler.stepInputs)
	assert.Empty(t, alarms.puts)
}

func TestScalingRejectsEventWithoutVariants(t *testing.T) {
	ev := asyncEvent()
	ev.Variants = nil

	_, err := newScalingRegistrar(inServiceHosting("churn-ep"), withLatestModel(newFakeStore()), newFakeScaler(), &fakeAlarms{}).
		Handle(context.Background(), ev)
	require.Error(t, err)
	assert.True(t, IsVariantCount(err))
}
