package awscloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"smdeploy/internal/deploy"
)

// Objects adapts S3 to deploy.ObjectStore.
type Objects struct {
	client *s3.Client
}

var _ deploy.ObjectStore = (*Objects)(nil)

// NewObjects constructs an Objects from a shared SDK config.
func NewObjects(cfg aws.Config) *Objects {
	return &Objects{client: s3.NewFromConfig(cfg)}
}

func (o *Objects) GetBytes(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrap("s3 get object", err)
	}
	defer out.Body.Close()
	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, wrap("s3 read object body", err)
	}
	return b, nil
}

func (o *Objects) GetJSON(ctx context.Context, bucket, key string, into any) error {
	b, err := o.GetBytes(ctx, bucket, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, into); err != nil {
		return fmt.Errorf("decode s3 object %s/%s: %w", bucket, key, err)
	}
	return nil
}
