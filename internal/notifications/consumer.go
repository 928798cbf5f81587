package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"classbook/internal/shared/config"
	"classbook/pkg/logger"

	"github.com/IBM/sarama"
)

type ConsumerConfig struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{MaxRetries: 3, RetryBackoff: time.Second}
}

// Consumer runs a consumer group that turns notification messages into emails
type Consumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler *ConsumerGroupHandler
	logger  *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewConsumer(cfg config.KafkaConfig, email EmailService) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		group:   group,
		topics:  []string{cfg.NotificationTopic},
		handler: NewConsumerGroupHandler(email, DefaultConsumerConfig()),
		logger:  logger.GetDefault(),
	}, nil
}

// Start launches numWorkers consume loops; they stop when ctx ends or Stop is called
func (c *Consumer) Start(ctx context.Context, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.group.Errors() {
			c.logger.Warn("consumer group error", "error", err)
		}
	}()

	for i := 0; i < numWorkers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.runWorker(ctx, workerID)
		}(i)
	}
	c.logger.Info("notification consumers started", "workers", numWorkers, "topics", c.topics)
}

func (c *Consumer) runWorker(ctx context.Context, workerID int) {
	for {
		if err := c.group.Consume(ctx, c.topics, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			c.logger.Warn("consume failed", "worker", workerID, "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

// ConsumerGroupHandler delivers each claimed message through an EmailService
type ConsumerGroupHandler struct {
	email  EmailService
	config ConsumerConfig
	now    func() time.Time
	logger *logger.Logger
}

func NewConsumerGroupHandler(email EmailService, cfg ConsumerConfig) *ConsumerGroupHandler {
	return &ConsumerGroupHandler{email: email, config: cfg, now: time.Now, logger: logger.GetDefault()}
}

func (h *ConsumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *ConsumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *ConsumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.ProcessMessage(session.Context(), message.Value); err != nil {
				h.logger.Error("notification delivery failed",
					"topic", message.Topic,
					"partition", message.Partition,
					"offset", message.Offset,
					"error", err,
				)
			}
			// failed deliveries are logged and skipped so one bad message cannot stall the partition
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// ProcessMessage decodes one notification and sends it, retrying with backoff
func (h *ConsumerGroupHandler) ProcessMessage(ctx context.Context, payload []byte) error {
	var notification EmailNotification
	if err := json.Unmarshal(payload, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	if notification.IsExpired(h.now()) {
		h.logger.Info("notification expired, skipping", "notification_id", notification.ID.String())
		return nil
	}

	notification.Status = NotificationStatusSending
	if err := h.sendWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}
	notification.MarkSent()
	return nil
}

func (h *ConsumerGroupHandler) sendWithRetry(ctx context.Context, notification *EmailNotification) error {
	var err error
	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {
		if err = h.email.SendNotification(ctx, notification); err == nil {
			return nil
		}
		if attempt == h.config.MaxRetries {
			break
		}
		notification.RetryCount++

		delay := h.config.RetryBackoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", h.config.MaxRetries+1, err)
}
