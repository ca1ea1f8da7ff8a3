package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/aws"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/config"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/idempotency"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/logging"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/notify"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/users"
)

func main() {
	logging.SetService("worker")

	conf, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	clients, err := aws.NewAWSClients(context.Background(), aws.ClientOptions{Region: conf.AWSRegion, EndpointOverride: conf.EndpointOverride})
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	p := NewProcessor(
		idempotency.NewStore(clients.DynamoDB, conf.Tables.Idempotency, conf.IdempotencyTTL),
		users.NewService(users.NewStore(clients.DynamoDB, conf.Tables.Users)),
		notify.NewMailer(conf.SMTP),
	)

	// RUN_LOCAL=true processes a single event from LOCAL_SQS_BODY.
	if conf.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			log.Fatal("LOCAL_SQS_BODY is required when RUN_LOCAL=true")
		}
		event := lambdaevents.SQSEvent{
			Records: []lambdaevents.SQSMessage{{MessageId: "local-1", Body: testBody}},
		}
		resp, err := p.Handle(context.Background(), event)
		if err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		out, _ := json.Marshal(resp)
		log.Printf("local handler result: %s", out)
		return
	}

	lambda.Start(p.Handle)
}
