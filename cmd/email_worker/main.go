package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-identity/config"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
	"github.com/oksasatya/go-ddd-identity/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-identity/pkg/mailer/templates"
)

const (
	sendTimeout = 15 * time.Second
	prefetch    = 16
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, prefetch)
	if err != nil {
		logger.WithError(err).Fatal("rabbitmq consumer")
	}
	defer consumer.Close()

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	err = consumer.Run(ctx, func(ctx context.Context, msg amqp.Delivery) {
		handle(ctx, logger, mg, msg)
	})
	if err != nil {
		logger.WithError(err).Error("consumer stopped")
		return
	}
	logger.Info("shutting down")
}

// handle renders and sends one job. Malformed or unrenderable jobs are
// dropped; a failed send is requeued once.
func handle(ctx context.Context, logger *logrus.Logger, mg *mailer.Mailgun, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		logger.WithError(err).Warn("dropping malformed email job")
		_ = msg.Nack(false, false)
		return
	}
	job.Normalize()
	log := logger.WithFields(logrus.Fields{"template": job.Template, "to": job.To})

	subject, text, html, err := job.Rendered(mailtpl.Render)
	if err != nil {
		log.WithError(err).Error("render failed")
		_ = msg.Nack(false, false)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	id, err := mg.Send(sendCtx, job.To, subject, text, html)
	if err != nil {
		log.WithError(err).Warn("send failed; requeueing")
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}
	_ = msg.Ack(false)
	log.WithField("message_id", id).Info("email sent")
}
