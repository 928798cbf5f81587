package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBookingConfirmed   NotificationType = "BOOKING_CONFIRMED"
	NotificationTypeBookingCancelled   NotificationType = "BOOKING_CANCELLED"
	NotificationTypeSignupConfirmation NotificationType = "SIGNUP_CONFIRMATION"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSending NotificationStatus = "SENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// EmailNotification is the message carried on the notification topic
type EmailNotification struct {
	ID   uuid.UUID        `json:"id"`
	Type NotificationType `json:"type"`

	RecipientID    uuid.UUID `json:"recipient_id"`
	RecipientEmail string    `json:"recipient_email"`

	Subject      string            `json:"subject"`
	TemplateData map[string]string `json:"template_data"`

	BookingID *uuid.UUID `json:"booking_id,omitempty"`
	SlotID    *uuid.UUID `json:"slot_id,omitempty"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

type NotificationBuilder struct {
	notification *EmailNotification
}

func NewNotificationBuilder(notType NotificationType) *NotificationBuilder {
	now := time.Now().UTC()
	return &NotificationBuilder{
		notification: &EmailNotification{
			ID:           uuid.New(),
			Type:         notType,
			Status:       NotificationStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
			TemplateData: make(map[string]string),
		},
	}
}

func (nb *NotificationBuilder) WithRecipient(userID uuid.UUID, email string) *NotificationBuilder {
	nb.notification.RecipientID = userID
	nb.notification.RecipientEmail = email
	return nb
}

func (nb *NotificationBuilder) WithSubject(subject string) *NotificationBuilder {
	nb.notification.Subject = subject
	return nb
}

func (nb *NotificationBuilder) WithData(key, value string) *NotificationBuilder {
	nb.notification.TemplateData[key] = value
	return nb
}

func (nb *NotificationBuilder) WithBookingContext(bookingID, slotID uuid.UUID) *NotificationBuilder {
	nb.notification.BookingID = &bookingID
	nb.notification.SlotID = &slotID
	return nb
}

func (nb *NotificationBuilder) WithExpiration(expiresAt time.Time) *NotificationBuilder {
	nb.notification.ExpiresAt = &expiresAt
	return nb
}

func (nb *NotificationBuilder) Build() *EmailNotification {
	return nb.notification
}

// GetPartitionKey keeps one recipient's messages ordered on a single partition
func (en *EmailNotification) GetPartitionKey() string {
	return en.RecipientID.String()
}

func (en *EmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(en)
}

func (en *EmailNotification) IsExpired(now time.Time) bool {
	return en.ExpiresAt != nil && now.After(*en.ExpiresAt)
}

func (en *EmailNotification) MarkSent() {
	now := time.Now().UTC()
	en.Status = NotificationStatusSent
	en.SentAt = &now
	en.UpdatedAt = now
}

func (en *EmailNotification) MarkFailed(err error) {
	en.Status = NotificationStatusFailed
	en.UpdatedAt = time.Now().UTC()
	msg := err.Error()
	en.LastError = &msg
}
