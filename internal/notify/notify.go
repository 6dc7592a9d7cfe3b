// Package notify delivers beach alerts to subscribers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/models"
)

type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// SQSSender abstracts the SQS SendMessage operation
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSNotifier queues notifications for the push delivery worker
type SQSNotifier struct {
	client   SQSSender
	queueURL string
}

func NewSQSNotifier(client SQSSender, queueURL string) *SQSNotifier {
	return &SQSNotifier{
		client:   client,
		queueURL: queueURL,
	}
}

// Notify sends the notification as a JSON message. An empty ID is filled in.
func (s *SQSNotifier) Notify(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"audience": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.Audience),
			},
		},
	}

	if _, err := s.client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("sending notification %s: %w", n.ID, err)
	}

	log.Info().
		Str("id", n.ID).
		Str("audience", n.Audience).
		Str("title", n.Title).
		Msg("Notification queued")

	return nil
}

// LogNotifier writes notifications to the log instead of delivering them
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n models.Notification) error {
	log.Info().
		Str("id", n.ID).
		Str("audience", n.Audience).
		Str("title", n.Title).
		Str("body", n.Body).
		Msg("Notification (not delivered)")
	return nil
}
