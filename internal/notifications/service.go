package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classbook/internal/shared/config"
	"classbook/pkg/logger"

	"github.com/google/uuid"
)

// BookingInfo is what a booking email needs to know about the class
type BookingInfo struct {
	BookingID  uuid.UUID
	SlotID     uuid.UUID
	UserID     uuid.UUID
	Email      string
	BookingRef string
	GroupType  string
	Weekday    string
	ClassDate  string
	StartTime  string
	EndTime    string
}

// Service builds notifications and hands them to a Producer. With Kafka
// enabled it also owns the consumer group that delivers them.
type Service struct {
	producer        Producer
	consumer        *Consumer
	numWorkers      int
	confirmationTTL time.Duration
	logger          *logger.Logger
}

func NewService(cfg *config.Config) (*Service, error) {
	email := newEmailService(cfg.Email)

	svc := &Service{
		numWorkers:      cfg.Kafka.NumWorkers,
		confirmationTTL: cfg.Auth.ConfirmationTTL,
		logger:          logger.GetDefault(),
	}

	if !cfg.Kafka.Enabled {
		svc.producer = NewDirectProducer(email)
		return svc, nil
	}

	producer, err := NewKafkaProducer(cfg.Kafka)
	if err != nil {
		return nil, err
	}
	consumer, err := NewConsumer(cfg.Kafka, email)
	if err != nil {
		_ = producer.Close()
		return nil, err
	}
	svc.producer = producer
	svc.consumer = consumer
	return svc, nil
}

// NewServiceWith uses producer and runs no consumer
func NewServiceWith(producer Producer, confirmationTTL time.Duration) *Service {
	return &Service{producer: producer, confirmationTTL: confirmationTTL, logger: logger.GetDefault()}
}

func newEmailService(cfg config.EmailConfig) EmailService {
	if cfg.SMTPHost == "" {
		return NewLogEmailService()
	}
	smtpService, err := NewSMTPEmailService(SMTPConfigFrom(cfg))
	if err != nil {
		logger.GetDefault().Warn("SMTP disabled, logging emails instead", "error", err)
		return NewLogEmailService()
	}
	return smtpService
}

func (s *Service) Start(ctx context.Context) {
	if s.consumer != nil {
		s.consumer.Start(ctx, s.numWorkers)
	}
}

func (s *Service) Stop() error {
	var errs []error
	if s.consumer != nil {
		errs = append(errs, s.consumer.Stop())
	}
	errs = append(errs, s.producer.Close())
	return errors.Join(errs...)
}

func (s *Service) NotifyBookingConfirmed(ctx context.Context, info BookingInfo) error {
	return s.publishBooking(ctx, NotificationTypeBookingConfirmed,
		fmt.Sprintf("Class booked: %s on %s", info.GroupType, info.ClassDate), info)
}

func (s *Service) NotifyBookingCancelled(ctx context.Context, info BookingInfo) error {
	return s.publishBooking(ctx, NotificationTypeBookingCancelled,
		fmt.Sprintf("Booking cancelled: %s on %s", info.GroupType, info.ClassDate), info)
}

func (s *Service) publishBooking(ctx context.Context, notType NotificationType, subject string, info BookingInfo) error {
	notification := NewNotificationBuilder(notType).
		WithRecipient(info.UserID, info.Email).
		WithSubject(subject).
		WithBookingContext(info.BookingID, info.SlotID).
		WithData("booking_ref", info.BookingRef).
		WithData("group_type", info.GroupType).
		WithData("weekday", info.Weekday).
		WithData("class_date", info.ClassDate).
		WithData("start_time", info.StartTime).
		WithData("end_time", info.EndTime).
		Build()
	return s.publish(ctx, notification)
}

// SendSignupConfirmation emails the account confirmation link
func (s *Service) SendSignupConfirmation(ctx context.Context, userID uuid.UUID, email, link string) error {
	builder := NewNotificationBuilder(NotificationTypeSignupConfirmation).
		WithRecipient(userID, email).
		WithSubject("Confirm your Classbook account").
		WithData("link", link)
	if s.confirmationTTL > 0 {
		builder.WithExpiration(time.Now().UTC().Add(s.confirmationTTL))
	}
	return s.publish(ctx, builder.Build())
}

func (s *Service) publish(ctx context.Context, notification *EmailNotification) error {
	if notification.RecipientEmail == "" {
		s.logger.Warn("notification without recipient email dropped", "type", notification.Type)
		return nil
	}
	if err := s.producer.Publish(ctx, notification); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to publish notification", err, map[string]interface{}{
			"type":            string(notification.Type),
			"notification_id": notification.ID.String(),
		})
		return err
	}
	return nil
}
