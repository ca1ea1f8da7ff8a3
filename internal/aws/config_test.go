package aws

import (
	"context"
	"testing"
)

func TestLoadAWSConfig_DefaultRegion(t *testing.T) {
	cfg, err := LoadAWSConfig(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Region != DefaultRegion {
		t.Fatalf("expected default region %q, got %s", DefaultRegion, cfg.Region)
	}
}

func TestNewAWSClients_WithEndpointOverride(t *testing.T) {
	clients, err := NewAWSClients(context.Background(), ClientOptions{
		Region:           "eu-west-1",
		EndpointOverride: "http://localhost:4566",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clients.DynamoDB == nil || clients.SQS == nil || clients.CloudWatch == nil || clients.S3 == nil {
		t.Fatalf("expected all clients to be built, got %+v", clients)
	}
}
