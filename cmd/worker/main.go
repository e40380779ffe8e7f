package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pago-gateway/config"
	"pago-gateway/internal/adapter/messaging/rabbitmq"
	"pago-gateway/internal/adapter/storage/mongodb"
	"pago-gateway/internal/service"
	"pago-gateway/pkg/logger"

	"github.com/joho/godotenv"
)

// The worker consumes intent events: every event is recorded in the audit
// store and settlements are forwarded to the merchant webhook.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("PAGO_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	log.Info().
		Str("exchange", cfg.RabbitMQ.Exchange).
		Str("queue", cfg.RabbitMQ.Queue).
		Msg("Starting Pago worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mc, err := mongodb.Connect(ctx, cfg.Mongo.URI, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.Mongo.Database)

	webhookSvc := service.NewWebhookService(
		service.WebhookConfig{URL: cfg.Webhook.URL},
		service.NewHMACNotificationSigner(cfg.Webhook.Secret, service.DefaultSignatureTolerance),
		mongodb.NewDeliveryRepo(db),
		&http.Client{Timeout: cfg.Webhook.Timeout},
		logger.Component(log, "webhook"),
	)
	processor := service.NewEventProcessor(mongodb.NewAuditRepo(db), webhookSvc, logger.Component(log, "events"))

	conn, ch, err := rabbitmq.Dial(cfg.RabbitMQ.URL, "pago-worker")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
	}
	defer conn.Close()

	consumer := rabbitmq.NewConsumer(ch, rabbitmq.ConsumerConfig{
		Exchange: cfg.RabbitMQ.Exchange,
		Queue:    cfg.RabbitMQ.Queue,
		Tag:      "pago-worker",
	}, processor, logger.Component(log, "consumer"))
	if err := consumer.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up RabbitMQ topology")
	}

	log.Info().Msg("Worker consuming")
	if err := consumer.Run(ctx); err != nil {
		if errors.Is(err, rabbitmq.ErrDeliveriesClosed) {
			log.Error().Err(err).Msg("RabbitMQ channel closed")
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Consumer failed")
	}

	log.Info().Msg("Worker exited")
}
