package awscloud

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"

	"smdeploy/internal/deploy"
	"smdeploy/internal/parampath"
)

// Store adapts SSM Parameter Store to deploy.ParameterStore.
type Store struct {
	client *ssm.Client
}

var _ deploy.ParameterStore = (*Store)(nil)

// NewStore constructs a Store from a shared SDK config.
func NewStore(cfg aws.Config) *Store {
	return &Store{client: ssm.NewFromConfig(cfg)}
}

// List returns every parameter name under prefix, walking all pages.
func (s *Store) List(ctx context.Context, prefix string) ([]parampath.Key, error) {
	var keys []parampath.Key
	paginator := ssm.NewGetParametersByPathPaginator(s.client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrap("ssm get parameters by path", err)
		}
		for _, p := range page.Parameters {
			keys = append(keys, parampath.Key(aws.ToString(p.Name)))
		}
	}
	return keys, nil
}

func (s *Store) Get(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", wrap("ssm get parameter", err)
	}
	return aws.ToString(out.Parameter.Value), nil
}

func (s *Store) Put(ctx context.Context, name, value string, overwrite bool) error {
	_, err := s.client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      ssmtypes.ParameterTypeString,
		Overwrite: aws.Bool(overwrite),
	})
	return wrap("ssm put parameter", err)
}

func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteParameter(ctx, &ssm.DeleteParameterInput{
		Name: aws.String(name),
	})
	return wrap("ssm delete parameter", err)
}

// Check probes for a parameter. A missing parameter is an absent result,
// not an error.
func (s *Store) Check(ctx context.Context, name string) (deploy.Presence, error) {
	_, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var nf *ssmtypes.ParameterNotFound
		if errors.As(err, &nf) {
			return deploy.PresenceAbsent, nil
		}
		return deploy.PresenceAbsent, wrap("ssm get parameter", err)
	}
	return deploy.PresenceExists, nil
}
