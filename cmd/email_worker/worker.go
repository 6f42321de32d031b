package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/lahjatuna/lahjatuna-api/pkg/helpers"
	"github.com/lahjatuna/lahjatuna-api/pkg/mailer"
	mailtpl "github.com/lahjatuna/lahjatuna-api/pkg/mailer/templates"
)

// errPermanent marks jobs that will never succeed and must not be requeued.
var errPermanent = errors.New("permanent email job failure")

// attemptsHeader counts failed sends of a job across trips through the retry queue.
const attemptsHeader = "x-send-attempts"

type outcome int

const (
	outcomeAck outcome = iota
	outcomeDrop
	outcomeRetry
)

// decide maps a handle result onto what happens to the delivery. A job that has
// already failed maxAttempts-1 times is dropped instead of retried; maxAttempts
// of zero retries forever.
func decide(err error, attempts, maxAttempts int) outcome {
	switch {
	case err == nil:
		return outcomeAck
	case errors.Is(err, errPermanent):
		return outcomeDrop
	case maxAttempts > 0 && attempts+1 >= maxAttempts:
		return outcomeDrop
	default:
		return outcomeRetry
	}
}

// sendAttempts reads the attempts header; AMQP may deliver it as any integer width.
func sendAttempts(h amqp.Table) int {
	switch v := h[attemptsHeader].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	case int16:
		return int(v)
	case int8:
		return int(v)
	}
	return 0
}

// retryPublishing copies a failed delivery for the retry queue with the attempt count bumped.
func retryPublishing(d amqp.Delivery) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[attemptsHeader] = int32(sendAttempts(d.Headers) + 1)
	return amqp.Publishing{
		ContentType:  d.ContentType,
		DeliveryMode: amqp.Persistent,
		Timestamp:    d.Timestamp,
		Headers:      headers,
		Body:         d.Body,
	}
}

type worker struct {
	sender   mailer.Sender
	resolver mailtpl.GeoResolver
	logger   *logrus.Logger
}

// handle decodes, renders and sends a single queued email job.
func (w *worker) handle(ctx context.Context, body []byte) error {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: decode: %v", errPermanent, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", errPermanent)
	}

	helpers.EnsureRecipientAndEmail(&job)
	helpers.MapNamedToUniversal(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		mailtpl.Localize(ctx, w.resolver, job.Data)
		t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", errPermanent, job.Template, err)
		}
		text, html = t, h
		if subject == "" {
			subject = helpers.SubjectForUniversal(job.Data)
		}
	}

	if err := w.sender.Send(ctx, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send to %s: %w", job.To, err)
	}
	w.logger.WithFields(logrus.Fields{"to": job.To, "subject": subject}).Info("email sent")
	return nil
}
