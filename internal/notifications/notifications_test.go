package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmail struct {
	mu       sync.Mutex
	failures int
	sent     []*EmailNotification
	calls    int
}

func (r *recordingEmail) SendNotification(_ context.Context, n *EmailNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failures > 0 {
		r.failures--
		return errors.New("smtp unavailable")
	}
	r.sent = append(r.sent, n)
	return nil
}

type recordingProducer struct {
	published []*EmailNotification
	err       error
}

func (p *recordingProducer) Publish(_ context.Context, n *EmailNotification) error {
	p.published = append(p.published, n)
	return p.err
}

func (p *recordingProducer) Close() error { return nil }

func sampleBooking() BookingInfo {
	return BookingInfo{
		BookingID:  uuid.New(),
		SlotID:     uuid.New(),
		UserID:     uuid.New(),
		Email:      "ada@example.com",
		BookingRef: "CLS-20250210-ABCDEF",
		GroupType:  "kids",
		Weekday:    "Monday",
		ClassDate:  "2025-02-10",
		StartTime:  "16:00",
		EndTime:    "17:00",
	}
}

func TestKafkaProducer_Publish(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	info := sampleBooking()

	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got EmailNotification
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Type != NotificationTypeBookingConfirmed || got.RecipientID != info.UserID {
			return errors.New("unexpected notification payload")
		}
		if got.Status != NotificationStatusQueued {
			return errors.New("notification not marked queued")
		}
		return nil
	})

	svc := NewServiceWith(NewKafkaProducerWith(sp, "classbook-notifications"), 0)
	require.NoError(t, svc.NotifyBookingConfirmed(context.Background(), info))
	require.NoError(t, svc.Stop())
}

func TestKafkaProducer_PublishFailure(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(errors.New("broker down"))

	producer := NewKafkaProducerWith(sp, "topic")
	n := NewNotificationBuilder(NotificationTypeBookingCancelled).WithRecipient(uuid.New(), "a@b.co").Build()

	err := producer.Publish(context.Background(), n)
	assert.ErrorContains(t, err, "broker down")
	assert.Equal(t, NotificationStatusFailed, n.Status)
	require.NotNil(t, n.LastError)
	require.NoError(t, producer.Close())
}

func TestService_BookingNotifications(t *testing.T) {
	producer := &recordingProducer{}
	svc := NewServiceWith(producer, 0)
	info := sampleBooking()

	require.NoError(t, svc.NotifyBookingConfirmed(context.Background(), info))
	require.NoError(t, svc.NotifyBookingCancelled(context.Background(), info))
	require.Len(t, producer.published, 2)

	confirmed := producer.published[0]
	assert.Equal(t, "Class booked: kids on 2025-02-10", confirmed.Subject)
	assert.Equal(t, "16:00", confirmed.TemplateData["start_time"])
	assert.Equal(t, info.BookingID, *confirmed.BookingID)
	assert.Equal(t, info.UserID.String(), confirmed.GetPartitionKey())

	assert.Equal(t, NotificationTypeBookingCancelled, producer.published[1].Type)

	info.Email = ""
	require.NoError(t, svc.NotifyBookingConfirmed(context.Background(), info))
	assert.Len(t, producer.published, 2)
}

func TestService_SignupConfirmation(t *testing.T) {
	producer := &recordingProducer{}
	svc := NewServiceWith(producer, time.Hour)

	require.NoError(t, svc.SendSignupConfirmation(context.Background(), uuid.New(), "a@b.co", "http://x/confirm?token=t"))
	require.Len(t, producer.published, 1)
	n := producer.published[0]
	assert.Equal(t, "http://x/confirm?token=t", n.TemplateData["link"])
	require.NotNil(t, n.ExpiresAt)
	assert.False(t, n.IsExpired(time.Now()))
	assert.True(t, n.IsExpired(time.Now().Add(2*time.Hour)))

	producer.err = errors.New("queue full")
	assert.Error(t, svc.SendSignupConfirmation(context.Background(), uuid.New(), "a@b.co", "link"))
}

func TestRenderContent(t *testing.T) {
	info := sampleBooking()
	n := NewNotificationBuilder(NotificationTypeBookingConfirmed).
		WithData("group_type", info.GroupType).
		WithData("weekday", "Monday").
		WithData("class_date", info.ClassDate).
		WithData("start_time", "16:00").
		WithData("end_time", "17:00").
		WithData("booking_ref", "<ref>").
		Build()

	html, text, err := RenderContent(n)
	require.NoError(t, err)
	assert.Contains(t, text, "Your kids class on Monday, 2025-02-10 from 16:00 to 17:00 is booked.")
	assert.Contains(t, text, "<ref>")
	assert.Contains(t, html, "&lt;ref&gt;")

	_, _, err = RenderContent(&EmailNotification{Type: "UNKNOWN"})
	assert.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
	cfg := SMTPConfig{FromEmail: "noreply@classbook.local", FromName: "Classbook"}
	msg := string(BuildMessage(cfg, "a@b.co", "Hello", "<p>hi</p>", "hi", time.Unix(0, 42)))

	assert.True(t, strings.HasPrefix(msg, "From: Classbook <noreply@classbook.local>\r\n"))
	assert.Contains(t, msg, "Subject: Hello\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\r\n\r\nhi\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>hi</p>\r\n")
	assert.True(t, strings.HasSuffix(msg, "--\r\n"))
}

func TestSMTPConfigValidation(t *testing.T) {
	_, err := NewSMTPEmailService(SMTPConfig{Port: 587, FromEmail: "a@b.co"})
	assert.ErrorContains(t, err, "SMTP host is required")

	_, err = NewSMTPEmailService(SMTPConfig{Host: "smtp.local", Port: 587, FromEmail: "a@b.co"})
	assert.NoError(t, err)
}

func encode(t *testing.T, n *EmailNotification) []byte {
	t.Helper()
	b, err := n.ToJSON()
	require.NoError(t, err)
	return b
}

func TestConsumerGroupHandler_ProcessMessage(t *testing.T) {
	cfg := ConsumerConfig{MaxRetries: 2, RetryBackoff: time.Millisecond}
	n := NewNotificationBuilder(NotificationTypeSignupConfirmation).
		WithRecipient(uuid.New(), "a@b.co").
		WithData("link", "http://x").
		Build()

	t.Run("retries until delivered", func(t *testing.T) {
		email := &recordingEmail{failures: 2}
		h := NewConsumerGroupHandler(email, cfg)
		require.NoError(t, h.ProcessMessage(context.Background(), encode(t, n)))
		assert.Equal(t, 3, email.calls)
		require.Len(t, email.sent, 1)
		assert.Equal(t, 2, email.sent[0].RetryCount)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		email := &recordingEmail{failures: 10}
		h := NewConsumerGroupHandler(email, cfg)
		err := h.ProcessMessage(context.Background(), encode(t, n))
		assert.ErrorContains(t, err, "giving up after 3 attempts")
		assert.Equal(t, 3, email.calls)
	})

	t.Run("skips expired", func(t *testing.T) {
		expired := NewNotificationBuilder(NotificationTypeSignupConfirmation).
			WithRecipient(uuid.New(), "a@b.co").
			WithExpiration(time.Now().Add(-time.Minute)).
			Build()
		email := &recordingEmail{}
		h := NewConsumerGroupHandler(email, cfg)
		require.NoError(t, h.ProcessMessage(context.Background(), encode(t, expired)))
		assert.Zero(t, email.calls)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		h := NewConsumerGroupHandler(&recordingEmail{}, cfg)
		assert.Error(t, h.ProcessMessage(context.Background(), []byte("{")))
	})
}

func TestDirectProducer(t *testing.T) {
	email := &recordingEmail{}
	p := NewDirectProducer(email)
	n := NewNotificationBuilder(NotificationTypeBookingConfirmed).WithRecipient(uuid.New(), "a@b.co").Build()

	require.NoError(t, p.Publish(context.Background(), n))
	assert.Equal(t, NotificationStatusSent, n.Status)
	assert.NotNil(t, n.SentAt)

	email.failures = 1
	n2 := NewNotificationBuilder(NotificationTypeBookingConfirmed).WithRecipient(uuid.New(), "a@b.co").Build()
	assert.Error(t, p.Publish(context.Background(), n2))
	assert.Equal(t, NotificationStatusFailed, n2.Status)
}

func TestLogEmailService(t *testing.T) {
	n := NewNotificationBuilder(NotificationTypeSignupConfirmation).WithRecipient(uuid.New(), "a@b.co").WithData("link", "x").Build()
	assert.NoError(t, NewLogEmailService().SendNotification(context.Background(), n))
}
