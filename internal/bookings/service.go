package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"classbook/internal/notifications"
	"classbook/internal/schedule"
	"classbook/internal/shared/constants"
	"classbook/internal/slots"
	"classbook/pkg/cache"
	"classbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrSlotFull         = errors.New("class is fully booked")
	ErrAlreadyBooked    = errors.New("you have already booked this class")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrPastDate         = errors.New("class_date is in the past")
	ErrInvalidStatus    = errors.New("status must be CONFIRMED or CANCELLED")
)

// SlotLookup resolves the slot a booking refers to
type SlotLookup interface {
	GetSlot(ctx context.Context, id uuid.UUID) (*slots.Slot, error)
}

// Notifier is told about booking changes; delivery failures never fail the request
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, info notifications.BookingInfo) error
	NotifyBookingCancelled(ctx context.Context, info notifications.BookingInfo) error
}

// Identity is the authenticated caller
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type Service interface {
	ListBookings(ctx context.Context, userID uuid.UUID, status Status) ([]BookingResponse, error)
	CreateBooking(ctx context.Context, who Identity, req *CreateBookingRequest) (*BookingResponse, error)
	CancelBooking(ctx context.Context, who Identity, bookingID uuid.UUID) error
	Availability(ctx context.Context, query *AvailabilityQuery) (*AvailabilityResponse, error)
	Calendar(ctx context.Context, userID uuid.UUID) (string, error)
}

type service struct {
	repo     Repository
	slots    SlotLookup
	cache    cache.Service
	notifier Notifier
	now      func() time.Time
	logger   *logger.Logger
}

// NewService wires the booking service. notifier may be nil.
func NewService(repo Repository, slotLookup SlotLookup, cacheService cache.Service, notifier Notifier) Service {
	return &service{
		repo:     repo,
		slots:    slotLookup,
		cache:    cacheService,
		notifier: notifier,
		now:      time.Now,
		logger:   logger.GetDefault(),
	}
}

// ListBookings returns the user's bookings; an empty status lists all of them
func (s *service) ListBookings(ctx context.Context, userID uuid.UUID, status Status) ([]BookingResponse, error) {
	if status != "" && !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	bookings, err := s.repo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toResponse(&bookings[i]))
	}
	return out, nil
}

// resolveOccurrence checks the slot exists and the date is a future day on the slot's weekday
func (s *service) resolveOccurrence(ctx context.Context, rawSlotID, rawDate string) (*slots.Slot, schedule.Date, error) {
	slotID, err := uuid.Parse(rawSlotID)
	if err != nil {
		return nil, schedule.Date{}, slots.ErrSlotNotFound
	}
	slot, err := s.slots.GetSlot(ctx, slotID)
	if err != nil {
		return nil, schedule.Date{}, err
	}
	date, err := slot.ClassDate(rawDate)
	if err != nil {
		return nil, schedule.Date{}, err
	}
	return slot, date, nil
}

func (s *service) CreateBooking(ctx context.Context, who Identity, req *CreateBookingRequest) (*BookingResponse, error) {
	slot, date, err := s.resolveOccurrence(ctx, req.SlotID, req.ClassDate)
	if err != nil {
		return nil, err
	}
	if date.Before(schedule.DateOf(s.now().UTC())) {
		return nil, ErrPastDate
	}

	ref, err := generateBookingReference(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	booking := &Booking{
		UserID:     who.UserID,
		SlotID:     slot.ID,
		ClassDate:  date.String(),
		Status:     StatusConfirmed,
		BookingRef: ref,
		PriceCents: slot.PriceCents,
	}
	if err := s.repo.CreateWithCapacityCheck(ctx, booking); err != nil {
		return nil, err
	}
	if booking.Slot == nil {
		booking.Slot = slot
	}

	s.forgetCount(ctx, booking)
	s.logger.LogBookingCreated(ctx, booking.ID.String(), slot.ID.String(), who.UserID.String())
	if s.notifier != nil {
		if err := s.notifier.NotifyBookingConfirmed(ctx, bookingInfo(booking, who.Email)); err != nil {
			s.logger.WithUserID(who.UserID.String()).WithError(err).Warn("booking confirmation not delivered", "booking_id", booking.ID.String())
		}
	}

	resp := toResponse(booking)
	return &resp, nil
}

func (s *service) CancelBooking(ctx context.Context, who Identity, bookingID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	// another user's booking is reported as missing
	if booking.UserID != who.UserID {
		return ErrBookingNotFound
	}
	if !booking.Status.CanBeCancelled() {
		return ErrAlreadyCancelled
	}

	now := s.now().UTC()
	if err := s.repo.Cancel(ctx, bookingID, now); err != nil {
		return err
	}
	booking.Status = StatusCancelled
	booking.CancelledAt = &now

	s.forgetCount(ctx, booking)
	s.logger.LogBookingCancelled(ctx, booking.ID.String(), booking.SlotID.String(), who.UserID.String())
	if s.notifier != nil {
		if err := s.notifier.NotifyBookingCancelled(ctx, bookingInfo(booking, who.Email)); err != nil {
			s.logger.WithUserID(who.UserID.String()).WithError(err).Warn("cancellation notice not delivered", "booking_id", booking.ID.String())
		}
	}
	return nil
}

func (s *service) Availability(ctx context.Context, query *AvailabilityQuery) (*AvailabilityResponse, error) {
	slot, date, err := s.resolveOccurrence(ctx, query.SlotID, query.ClassDate)
	if err != nil {
		return nil, err
	}

	var booked int
	key := constants.BuildBookingCountKey(slot.ID.String(), date.String())
	err = s.cache.GetOrSet(ctx, key, constants.TTL_BOOKING_COUNT, func() (interface{}, error) {
		return s.repo.CountConfirmed(ctx, slot.ID, date.String())
	}, &booked)
	if err != nil {
		return nil, err
	}

	remaining := -1
	if !slot.Unlimited() {
		remaining = max(slot.Capacity-booked, 0)
	}
	return &AvailabilityResponse{
		SlotID:    slot.ID.String(),
		ClassDate: date.String(),
		Capacity:  slot.Capacity,
		Booked:    booked,
		Remaining: remaining,
	}, nil
}

func (s *service) Calendar(ctx context.Context, userID uuid.UUID) (string, error) {
	bookings, err := s.repo.ListByUser(ctx, userID, StatusConfirmed)
	if err != nil {
		return "", err
	}
	return BuildCalendar(bookings, s.now().UTC())
}

func (s *service) forgetCount(ctx context.Context, b *Booking) {
	if err := s.cache.Delete(ctx, constants.BuildBookingCountKey(b.SlotID.String(), b.ClassDate)); err != nil {
		s.logger.Warn("failed to invalidate booking count", "error", err)
	}
}

func bookingInfo(b *Booking, email string) notifications.BookingInfo {
	info := notifications.BookingInfo{
		BookingID:  b.ID,
		SlotID:     b.SlotID,
		UserID:     b.UserID,
		Email:      email,
		BookingRef: b.BookingRef,
		ClassDate:  b.ClassDate,
	}
	if s := b.Slot; s != nil {
		info.GroupType = s.GroupType
		info.Weekday = s.DayOfWeek
		info.StartTime = s.StartTime
		info.EndTime = s.EndTime
	}
	return info
}

// generateBookingReference returns CLS-YYYYMMDD-XXXXXX
func generateBookingReference(now time.Time) (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}
	return fmt.Sprintf("CLS-%s-%s", now.UTC().Format("20060102"), string(randomPart)), nil
}
