package notifications

import (
	"context"
	"fmt"
	"time"

	"classbook/internal/shared/config"
	"classbook/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer hands a notification off for delivery
type Producer interface {
	Publish(ctx context.Context, notification *EmailNotification) error
	Close() error
}

// KafkaProducer publishes notifications to the notification topic
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	logger   *logger.Logger
}

// NewSaramaProducerConfig is the producer config used against real brokers
func NewSaramaProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Timeout = 10 * time.Second
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg
}

func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, NewSaramaProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaProducerWith(producer, cfg.NotificationTopic), nil
}

// NewKafkaProducerWith wraps an existing sync producer
func NewKafkaProducerWith(producer sarama.SyncProducer, topic string) *KafkaProducer {
	return &KafkaProducer{producer: producer, topic: topic, logger: logger.GetDefault()}
}

func (kp *KafkaProducer) Publish(ctx context.Context, notification *EmailNotification) error {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now().UTC()

	payload, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.topic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Headers:   createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	kp.logger.Debug("notification published",
		"topic", kp.topic,
		"partition", partition,
		"offset", offset,
		"type", notification.Type,
		"notification_id", notification.ID.String(),
	)
	return nil
}

func (kp *KafkaProducer) Close() error {
	if err := kp.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

func createHeaders(notification *EmailNotification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		{Key: []byte("recipient_id"), Value: []byte(notification.RecipientID.String())},
		{Key: []byte("producer"), Value: []byte("classbook-notifications")},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}
	if notification.BookingID != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("booking_id"),
			Value: []byte(notification.BookingID.String()),
		})
	}
	return headers
}

// DirectProducer delivers in-process when Kafka is disabled
type DirectProducer struct {
	email EmailService
}

func NewDirectProducer(email EmailService) *DirectProducer {
	return &DirectProducer{email: email}
}

func (dp *DirectProducer) Publish(ctx context.Context, notification *EmailNotification) error {
	notification.Status = NotificationStatusSending
	if err := dp.email.SendNotification(ctx, notification); err != nil {
		notification.MarkFailed(err)
		return err
	}
	notification.MarkSent()
	return nil
}

func (dp *DirectProducer) Close() error { return nil }
