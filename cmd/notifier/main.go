package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"dancewave-backend-go/internal/config"
	"dancewave-backend-go/internal/notify"
	"dancewave-backend-go/pkg/mailer"
	"dancewave-backend-go/pkg/messagequeue"
)

func main() {
	appConfig, err := config.LoadNotifierConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load notifier configuration: %v", err)
	}

	var zapLogger *zap.Logger
	if appConfig.IsRelease() {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	smtpMailer, err := mailer.NewSMTPMailer(mailer.Config{
		Host:     appConfig.SMTPHost,
		Port:     appConfig.SMTPPort,
		Username: appConfig.SMTPUser,
		Password: appConfig.SMTPPass,
		From:     appConfig.MailFrom,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to configure mailer", zap.Error(err))
	}

	mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mq.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier := notify.New(smtpMailer, zapLogger)
	zapLogger.Info("Notifier started", zap.String("queue", appConfig.EventsQueue))
	if err := mq.Consume(ctx, appConfig.EventsQueue, notifier.Handle); err != nil {
		zapLogger.Error("Consumer stopped", zap.Error(err))
	}
	zapLogger.Info("Notifier exiting.")
}
