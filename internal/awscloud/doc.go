// Package awscloud implements the deploy package's collaborator interfaces
// on top of the AWS SDK: SageMaker for model hosting, SSM Parameter Store
// for the deployment graph's parameters, Application Auto Scaling and
// CloudWatch for endpoint scaling, S3 for object fetches, KMS for key
// resolution, and SageMaker Runtime for endpoint invocation.
//
// Every adapter is constructed from a shared aws.Config and holds its own
// service client; nothing in this package keeps global state. Existence
// probes map the services' modeled not-found errors to an absent result
// instead of an error; every other failure is wrapped with the failing
// operation and propagates.
package awscloud
