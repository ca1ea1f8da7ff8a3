package main

import (
	"context"
	"log"
	"net/http"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/auth"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/aws"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/carts"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/checkout"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/config"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/events"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/handlers"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/idempotency"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/logging"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/metrics"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/orders"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/products"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/refunds"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/reviews"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/users"
	"github.com/Lakshanj2701/ultimate-clothing-store-sub000/internal/validation"
)

func setupRouter(cfg handlers.HandlerConfig, m *metrics.ServerMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.Middleware(), m.Middleware())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	handlers.Register(r, cfg)
	return r
}

// buildPublisher fans events out to SQS and, when brokers are configured, Kafka.
func buildPublisher(conf config.Config, clients *aws.AWSClients) (events.Publisher, func()) {
	var pubs events.Multi
	if conf.EventsQueueURL != "" {
		pubs = append(pubs, events.NewSQSPublisher(aws.NewPublisher(clients.SQS, conf.EventsQueueURL)))
	}
	closer := func() {}
	if brokers := events.Brokers(conf.KafkaBrokers); len(brokers) > 0 {
		kp := events.NewKafkaPublisher(events.NewKafkaWriter(brokers, conf.KafkaTopic))
		pubs = append(pubs, kp)
		closer = func() {
			if err := kp.Close(); err != nil {
				logging.Error("kafka_close", err, logging.Fields{})
			}
		}
	}
	if len(pubs) == 0 {
		return events.Nop{}, closer
	}
	return pubs, closer
}

func main() {
	logging.SetService("api")

	conf, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := conf.ValidateAPI(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()
	clients, err := aws.NewAWSClients(ctx, aws.ClientOptions{Region: conf.AWSRegion, EndpointOverride: conf.EndpointOverride})
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	publisher, closePublisher := buildPublisher(conf, clients)
	defer closePublisher()
	counter := aws.NewMetricsRecorder(clients.CloudWatch, conf.MetricsNamespace)
	files := aws.NewUploader(clients.S3, conf.UploadBucket, conf.AssetBaseURL)

	userSvc := users.NewService(users.NewStore(clients.DynamoDB, conf.Tables.Users))
	tokens := auth.NewTokens(conf.JWTSecret, conf.JWTTTL)
	catalog := products.NewCatalog(products.NewStore(clients.DynamoDB, conf.Tables.Products))
	cartSvc := carts.NewService(carts.NewStore(clients.DynamoDB, conf.Tables.Carts), catalog)
	orderStore := orders.NewStore(clients.DynamoDB, conf.Tables.Orders)

	cfg := handlers.HandlerConfig{
		Users:   userSvc,
		Tokens:  tokens,
		Auth:    auth.NewMiddleware(tokens, userSvc),
		Catalog: catalog,
		Reviews: reviews.NewService(clients.DynamoDB, conf.Tables.Reviews, catalog),
		Carts:   cartSvc,
		Checkout: checkout.NewService(checkout.NewStore(clients.DynamoDB, conf.Tables.Checkouts), checkout.Deps{
			Orders:    orderStore,
			Carts:     cartSvc,
			Files:     files,
			Publisher: publisher,
			Metrics:   counter,
		}),
		Orders:      orders.NewService(orderStore, userSvc),
		Refunds:     refunds.NewService(refunds.NewStore(clients.DynamoDB, conf.Tables.Refunds), orderStore, publisher, counter),
		Idempotency: idempotency.NewStore(clients.DynamoDB, conf.Tables.Idempotency, conf.IdempotencyTTL),
		Files:       files,
		Publisher:   publisher,
		Metrics:     counter,
		Validator:   validation.New(),
	}

	r := setupRouter(cfg, metrics.NewServerMetrics("api"))

	// RUN_LOCAL=true serves plain HTTP for development.
	if conf.RunLocal {
		addr := ":" + conf.Port
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	adapter := ginadapter.New(r)
	lambda.Start(func(ctx context.Context, req lambdaevents.APIGatewayProxyRequest) (lambdaevents.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
