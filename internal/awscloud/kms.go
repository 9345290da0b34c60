package awscloud

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"

	"smdeploy/internal/deploy"
)

// Keys adapts KMS to deploy.KeyResolver.
type Keys struct {
	client *kms.Client
}

var _ deploy.KeyResolver = (*Keys)(nil)

// NewKeys constructs a Keys from a shared SDK config.
func NewKeys(cfg aws.Config) *Keys {
	return &Keys{client: kms.NewFromConfig(cfg)}
}

// ResolveKeyID resolves a key alias (or id) to the canonical key id the
// hosting platform expects in endpoint configurations.
func (k *Keys) ResolveKeyID(ctx context.Context, aliasOrID string) (string, error) {
	out, err := k.client.DescribeKey(ctx, &kms.DescribeKeyInput{
		KeyId: aws.String(aliasOrID),
	})
	if err != nil {
		return "", wrap("kms describe key", err)
	}
	return aws.ToString(out.KeyMetadata.KeyId), nil
}
