package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/config"
	"github.com/lahjatuna/lahjatuna-api/pkg/helpers"
	"github.com/lahjatuna/lahjatuna-api/pkg/mailer"
	mailtpl "github.com/lahjatuna/lahjatuna-api/pkg/mailer/templates"
)

const consumerTag = "email-worker"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Warn("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch between workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQEmailQueue); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}
	retryQueue, err := helpers.DeclareRetryQueue(ch, cfg.RabbitMQEmailQueue, cfg.EmailRetryDelay)
	if err != nil {
		logger.Fatalf("retry queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, consumerTag, false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	w := &worker{
		sender:   mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		resolver: mailtpl.IPAPIResolver{},
		logger:   logger,
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := w.handle(c, msg.Body)
			cancel()
			attempts := sendAttempts(msg.Headers)
			switch decide(err, attempts, cfg.EmailMaxAttempts) {
			case outcomeAck:
				_ = msg.Ack(false)
			case outcomeDrop:
				logger.WithError(err).WithField("attempts", attempts+1).Error("dropping email job")
				_ = msg.Nack(false, false)
			case outcomeRetry:
				pubErr := ch.PublishWithContext(ctx, "", retryQueue, false, false, retryPublishing(msg))
				if pubErr != nil {
					logger.WithError(pubErr).Warn("retry publish failed, requeueing")
					_ = msg.Nack(false, true)
					continue
				}
				logger.WithError(err).WithFields(logrus.Fields{
					"attempts": attempts + 1,
					"delay":    cfg.EmailRetryDelay.String(),
				}).Warn("email send failed, scheduled for retry")
				_ = msg.Ack(false)
			}
		}
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-ctx.Done()
	logger.Info("shutting down...")
	_ = ch.Cancel(consumerTag, false)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
