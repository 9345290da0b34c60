package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"smdeploy/internal/parampath"
)

// fakeStore is an in-memory ParameterStore.
type fakeStore struct {
	params map[string]string
	puts   []string
	dels   []string
}

func newFakeStore() *fakeStore { return &fakeStore{params: map[string]string{}} }

func (s *fakeStore) List(_ context.Context, prefix string) ([]parampath.Key, error) {
	var keys []parampath.Key
	for name := range s.params {
		if strings.HasPrefix(name, prefix) {
			keys = append(keys, parampath.Key(name))
		}
	}
	return keys, nil
}

func (s *fakeStore) Get(_ context.Context, name string) (string, error) {
	v, ok := s.params[name]
	if !ok {
		return "", fmt.Errorf("parameter %s not found", name)
	}
	return v, nil
}

func (s *fakeStore) Put(_ context.Context, name, value string, overwrite bool) error {
	if _, ok := s.params[name]; ok && !overwrite {
		return fmt.Errorf("parameter %s already exists", name)
	}
	s.params[name] = value
	s.puts = append(s.puts, name)
	return nil
}

func (s *fakeStore) Delete(_ context.Context, name string) error {
	if _, ok := s.params[name]; !ok {
		return fmt.Errorf("parameter %s not found", name)
	}
	delete(s.params, name)
	s.dels = append(s.dels, name)
	return nil
}

func (s *fakeStore) Check(_ context.Context, name string) (Presence, error) {
	if _, ok := s.params[name]; ok {
		return PresenceExists, nil
	}
	return PresenceAbsent, nil
}

type endpointCall struct{ name, configName string }

// fakeHosting is an in-memory ModelHosting.
type fakeHosting struct {
	statuses map[string]EndpointStatus

	models   []CreateModelInput
	configs  []EndpointConfigInput
	created  []endpointCall
	updated  []endpointCall
	tags     []string
	modelErr error

	cards        map[string]string
	createdCards map[string]string
	updatedCards map[string]string
	cardKMSKeys  map[string]string
}

func newFakeHosting() *fakeHosting {
	return &fakeHosting{
		statuses:     map[string]EndpointStatus{},
		cards:        map[string]string{},
		createdCards: map[string]string{},
		updatedCards: map[string]string{},
		cardKMSKeys:  map[string]string{},
	}
}

func (f *fakeHosting) CreateModel(_ context.Context, in CreateModelInput) (string, error) {
	if f.modelErr != nil {
		return "", f.modelErr
	}
	f.models = append(f.models, in)
	return "arn:model/" + in.Name, nil
}

func (f *fakeHosting) CreateEndpointConfig(_ context.Context, in EndpointConfigInput) error {
	f.configs = append(f.configs, in)
	return nil
}

func (f *fakeHosting) CreateEndpoint(_ context.Context, name, configName, nameTag string) error {
	f.created = append(f.created, endpointCall{name: name, configName: configName})
	f.tags = append(f.tags, nameTag)
	return nil
}

func (f *fakeHosting) UpdateEndpoint(_ context.Context, name, configName string) error {
	f.updated = append(f.updated, endpointCall{name: name, configName: configName})
	return nil
}

func (f *fakeHosting) EndpointStatus(_ context.Context, name string) (EndpointStatus, error) {
	if st, ok := f.statuses[name]; ok {
		return st, nil
	}
	return StatusDNE, nil
}

func (f *fakeHosting) CheckModelCard(_ context.Context, name string) (Presence, error) {
	if _, ok := f.cards[name]; ok {
		return PresenceExists, nil
	}
	return PresenceAbsent, nil
}

func (f *fakeHosting) CreateModelCard(_ context.Context, name, content, kmsKeyARN string) (string, error) {
	f.cards[name] = content
	f.createdCards[name] = content
	f.cardKMSKeys[name] = kmsKeyARN
	return "arn:model-card/" + name, nil
}

func (f *fakeHosting) UpdateModelCard(_ context.Context, name, content string) (string, error) {
	f.cards[name] = content
	f.updatedCards[name] = content
	return "arn:model-card/" + name, nil
}

// fakeScaler is an in-memory Autoscaler. Policy ARNs are derived from the
// policy name so alarm bindings can be checked.
type fakeScaler struct {
	registered   map[string][2]int32
	policies     map[string][]Policy
	deregistered []string
	deleted      []string
	ttInputs     []TargetTrackingInput
	stepInputs   []StepScalingInput
}

func newFakeScaler() *fakeScaler {
	return &fakeScaler{registered: map[string][2]int32{}, policies: map[string][]Policy{}}
}

func (f *fakeScaler) ScalableTargets(_ context.Context, resourceID string) ([]string, error) {
	if _, ok := f.registered[resourceID]; ok {
		return []string{resourceID}, nil
	}
	return nil, nil
}

func (f *fakeScaler) Register(_ context.Context, resourceID string, minCapacity, maxCapacity int32) error {
	f.registered[resourceID] = [2]int32{minCapacity, maxCapacity}
	return nil
}

func (f *fakeScaler) Deregister(_ context.Context, resourceID string) error {
	delete(f.registered, resourceID)
	f.deregistered = append(f.deregistered, resourceID)
	return nil
}

func (f *fakeScaler) Policies(_ context.Context, resourceID string) ([]Policy, error) {
	return f.policies[resourceID], nil
}

func (f *fakeScaler) DeletePolicy(_ context.Context, resourceID, policyName string) error {
	kept := f.policies[resourceID][:0]
	for _, p := range f.policies[resourceID] {
		if p.Name != policyName {
			kept = append(kept, p)
		}
	}
	f.policies[resourceID] = kept
	f.deleted = append(f.deleted, policyName)
	return nil
}

func (f *fakeScaler) PutTargetTrackingPolicy(_ context.Context, in TargetTrackingInput) (string, error) {
	f.ttInputs = append(f.ttInputs, in)
	arn := "arn:policy/" + in.PolicyName
	f.policies[in.ResourceID] = append(f.policies[in.ResourceID], Policy{Name: in.PolicyName, ARN: arn})
	return arn, nil
}

func (f *fakeScaler) PutStepScalingPolicy(_ context.Context, in StepScalingInput) (string, error) {
	f.stepInputs = append(f.stepInputs, in)
	arn := "arn:policy/" + in.PolicyName
	f.policies[in.ResourceID] = append(f.policies[in.ResourceID], Policy{Name: in.PolicyName, ARN: arn})
	return arn, nil
}

// fakeAlarms records backlog alarm bindings.
type fakeAlarms struct{ puts []AlarmInput }

func (f *fakeAlarms) PutBacklogAlarm(_ context.Context, in AlarmInput) error {
	f.puts = append(f.puts, in)
	return nil
}

// fakeObjects serves JSON documents by bucket/key.
type fakeObjects struct{ objects map[string][]byte }

func newFakeObjects() *fakeObjects { return &fakeObjects{objects: map[string][]byte{}} }

func (f *fakeObjects) put(bucket, key string, v any) {
	b, _ := json.Marshal(v)
	f.objects[bucket+"/"+key] = b
}

func (f *fakeObjects) GetBytes(_ context.Context, bucket, key string) ([]byte, error) {
	b, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, fmt.Errorf("object %s/%s not found", bucket, key)
	}
	return b, nil
}

func (f *fakeObjects) GetJSON(ctx context.Context, bucket, key string, into any) error {
	b, err := f.GetBytes(ctx, bucket, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, into)
}

// fakeKeys resolves every alias to a fixed key id.
type fakeKeys struct{ keyID string }

func (f *fakeKeys) ResolveKeyID(_ context.Context, _ string) (string, error) {
	return f.keyID, nil
}
