package aws

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// AWSClients bundles all service clients for convenience.
type AWSClients struct {
	DynamoDB   DynamoDBAPI
	SQS        SQSAPI
	CloudWatch CloudWatchAPI
	S3         S3API
}

// ClientOptions controls client construction.
// EndpointOverride points every client at a local emulator such as LocalStack.
type ClientOptions struct {
	Region           string
	EndpointOverride string
}

// NewAWSClients loads AWS config and returns concrete service clients that implement our interfaces.
func NewAWSClients(ctx context.Context, opts ClientOptions) (*AWSClients, error) {
	cfg, err := LoadAWSConfig(ctx, opts.Region)
	if err != nil {
		return nil, err
	}

	var endpoint *string
	if opts.EndpointOverride != "" {
		endpoint = sdkaws.String(opts.EndpointOverride)
	}

	return &AWSClients{
		DynamoDB: dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = endpoint
		}),
		SQS: sqs.NewFromConfig(cfg, func(o *sqs.Options) {
			o.BaseEndpoint = endpoint
		}),
		CloudWatch: cloudwatch.NewFromConfig(cfg, func(o *cloudwatch.Options) {
			o.BaseEndpoint = endpoint
		}),
		S3: s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = endpoint
			// LocalStack serves buckets on the path, not as subdomains.
			o.UsePathStyle = endpoint != nil
		}),
	}, nil
}
