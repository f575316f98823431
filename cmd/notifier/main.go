package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"truefit-backend-go/internal/config"
	"truefit-backend-go/internal/notify"
	"truefit-backend-go/pkg/mailer"
	"truefit-backend-go/pkg/messagequeue"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := config.NewLogger(os.Getenv("GIN_MODE"))
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	if appConfig.RabbitMQURL == "" {
		zapLogger.Fatal("CRITICAL_ERROR: RABBITMQ_URL is required by the notifier")
	}

	// --- 3. Connect Queue and Mailer ---
	mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{
		URL:    appConfig.RabbitMQURL,
		Logger: zapLogger,
	})
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mq.Close()

	sender, err := mailer.New(mailer.Config{
		Host: appConfig.SMTPHost,
		Port: appConfig.SMTPPort,
		User: appConfig.SMTPUser,
		Pass: appConfig.SMTPPass,
		From: appConfig.MailFrom,
	})
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Invalid SMTP configuration", zap.Error(err))
	}

	// --- 4. Consume Until Signalled ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := notify.NewConsumer(mq, appConfig.EventsQueue, sender, zapLogger)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zapLogger.Error("Notifier stopped", zap.Error(err))
		return
	}
	zapLogger.Info("Notifier exiting gracefully.")
}
