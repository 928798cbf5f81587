package planner

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"classbook/internal/gateway"
	"classbook/internal/schedule"
	"classbook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGateway struct {
	mock.Mock
}

func records(args mock.Arguments) []map[string]any {
	if v := args.Get(0); v != nil {
		return v.([]map[string]any)
	}
	return nil
}

func record(args mock.Arguments) map[string]any {
	if v := args.Get(0); v != nil {
		return v.(map[string]any)
	}
	return nil
}

func (m *mockGateway) ListSlots(ctx context.Context) ([]map[string]any, error) {
	args := m.Called(ctx)
	return records(args), args.Error(1)
}

func (m *mockGateway) ListCart(ctx context.Context) ([]map[string]any, error) {
	args := m.Called(ctx)
	return records(args), args.Error(1)
}

func (m *mockGateway) AddToCart(ctx context.Context, req gateway.AddToCartRequest) (map[string]any, error) {
	args := m.Called(ctx, req)
	return record(args), args.Error(1)
}

func (m *mockGateway) RemoveFromCart(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockGateway) ListBookings(ctx context.Context) ([]map[string]any, error) {
	args := m.Called(ctx)
	return records(args), args.Error(1)
}

func (m *mockGateway) CreateBooking(ctx context.Context, req gateway.CreateBookingRequest) (map[string]any, error) {
	args := m.Called(ctx, req)
	return record(args), args.Error(1)
}

func (m *mockGateway) CancelBooking(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// February 2025 starts on a Saturday
var feb2025 = time.Date(2025, time.February, 10, 12, 0, 0, 0, time.UTC)

var rawSlots = []map[string]any{
	{"id": "tue-late", "day_of_week": "tue", "start_time": "18:00", "price_cents": 2000},
	{"id": "tue-early", "dayOfWeek": "Tuesday", "startTime": "09:00", "price": 1500},
	{"id": "fri", "weekday": "Fri", "start_time": "10:00"},
}

type harness struct {
	gw      *mockGateway
	planner *Planner
	clock   *fakeClock
	token   string
	notices []Notice
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{gw: &mockGateway{}, clock: &fakeClock{now: feb2025}, token: "tok"}
	h.planner = New(h.gw, gateway.TokenFunc(func() string { return h.token }),
		WithClock(h.clock.Now),
		WithLogger(logger.Discard()),
		WithNoticeHandler(func(n Notice) { h.notices = append(h.notices, n) }),
	)
	return h
}

func (h *harness) loadSlots(t *testing.T) {
	t.Helper()
	h.gw.On("ListSlots", mock.Anything).Return(rawSlots, nil).Once()
	require.NoError(t, h.planner.LoadSlots(context.Background()))
}

func TestNew_StartsOnClockMonthWithNothingSelected(t *testing.T) {
	h := newHarness(t)
	st := h.planner.Snapshot()

	assert.Equal(t, 2025, st.Year)
	assert.Equal(t, 1, st.Month)
	assert.Len(t, st.Grid, 35)
	assert.Nil(t, st.SelectedDate)
	assert.Empty(t, st.SelectedSlotID)
	assert.Empty(t, st.Cart)
	assert.False(t, st.SlotsLoading)
	_, ok := h.planner.Notice()
	assert.False(t, ok)
}

func TestLoadSlots_AutoSelectsFirstInMonthDayWithSlots(t *testing.T) {
	h := newHarness(t)
	h.loadSlots(t)

	st := h.planner.Snapshot()
	require.NotNil(t, st.SelectedDate)
	assert.Equal(t, schedule.Date{Year: 2025, Month: time.February, Day: 4}, st.SelectedDate.Date)
	assert.Equal(t, "tue-early", st.SelectedSlotID)
	assert.Equal(t, 3, st.TotalSlots)
	assert.Equal(t, "Slots loaded: 3 • For Tuesday: 2", st.StatusLine())
	h.gw.AssertExpectations(t)
}

func TestLoadSlots_KeepsExistingSelection(t *testing.T) {
	h := newHarness(t)
	h.loadSlots(t)
	require.NoError(t, h.planner.SelectDay(7))

	h.loadSlots(t)
	st := h.planner.Snapshot()
	assert.Equal(t, 7, st.SelectedDate.Date.Day)
	assert.Equal(t, "fri", st.SelectedSlotID)
}

func TestLoadSlots_NoQualifyingDayLeavesSelectionEmpty(t *testing.T) {
	h := newHarness(t)
	h.gw.On("ListSlots", mock.Anything).Return([]map[string]any{{"id": "x", "day": "Blursday"}}, nil)

	require.NoError(t, h.planner.LoadSlots(context.Background()))
	assert.Nil(t, h.planner.Snapshot().SelectedDate)
	assert.Empty(t, h.notices)
}

func TestLoadSlots_FailureRaisesNotice(t *testing.T) {
	h := newHarness(t)
	h.gw.On("ListSlots", mock.Anything).Return(nil, &gateway.APIError{StatusCode: 500, Message: "db down"})

	err := h.planner.LoadSlots(context.Background())
	require.Error(t, err)

	n, ok := h.planner.Notice()
	require.True(t, ok)
	assert.Equal(t, "Failed to load class slots: db down", n.Message)
	assert.Equal(t, SeverityError, n.Severity)
	assert.Equal(t, "#f44336", n.Color)
	assert.False(t, h.planner.Snapshot().SlotsLoading)
}

func TestLoadSlots_SameLoadIsNotReentrant(t *testing.T) {
	h := newHarness(t)
	started := make(chan struct{})
	release := make(chan struct{})
	h.gw.On("ListSlots", mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(rawSlots, nil).Once()

	done := make(chan error, 1)
	go func() { done <- h.planner.LoadSlots(context.Background()) }()
	<-started

	assert.True(t, h.planner.Snapshot().SlotsLoading)
	assert.ErrorIs(t, h.planner.LoadSlots(context.Background()), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, h.planner.Snapshot().SlotsLoading)
}

func TestSelectDate(t *testing.T) {
	h := newHarness(t)
	h.loadSlots(t)
	grid := h.planner.Snapshot().Grid

	assert.ErrorIs(t, h.planner.SelectDate(grid[0]), ErrOutOfMonth)

	// Friday Feb 14
	var fri schedule.CalendarCell
	for _, c := range grid {
		if c.InCurrentMonth && c.Date.Day == 14 {
			fri = c
		}
	}
	require.NoError(t, h.planner.SelectDate(fri))
	st := h.planner.Snapshot()
	assert.Equal(t, 14, st.SelectedDate.Date.Day)
	assert.Equal(t, "fri", st.SelectedSlotID)

	assert.ErrorIs(t, h.planner.SelectDay(31), ErrOutOfMonth)
}

func TestSelectDate_UsesGridWeekday(t *testing.T) {
	h := newHarness(t)
	h.loadSlots(t)

	require.NoError(t, h.planner.SelectDay(14))
	require.Equal(t, "fri", h.planner.Snapshot().SelectedSlotID)

	// Feb 4 2025 is a Tuesday; the caller's weekday is ignored
	forged := schedule.CalendarCell{
		Date:           schedule.Date{Year: 2025, Month: time.February, Day: 4},
		Weekday:        "Friday",
		InCurrentMonth: true,
	}
	require.NoError(t, h.planner.SelectDate(forged))
	st := h.planner.Snapshot()
	assert.Equal(t, "Tuesday", st.SelectedDate.Weekday)
	assert.Equal(t, "tue-early", st.SelectedSlotID)

	forged.InCurrentMonth = false
	require.NoError(t, h.planner.SelectDate(forged))
	assert.True(t, h.planner.Snapshot().SelectedDate.InCurrentMonth)
}

func TestSelectDate_RejectsCellFromAnotherMonth(t *testing.T) {
	h := newHarness(t)
	march := schedule.BuildMonth(2025, 2)
	var cell schedule.CalendarCell
	for _, c := range march {
		if c.InCurrentMonth {
			cell = c
			break
		}
	}
	assert.ErrorIs(t, h.planner.SelectDate(cell), ErrOutOfMonth)
}

func TestSelectSlot(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.planner.SelectSlot("tue-late"), ErrNoSelection)

	h.loadSlots(t)
	require.NoError(t, h.planner.SelectSlot("tue-late"))
	assert.Equal(t, "tue-late", h.planner.Snapshot().SelectedSlotID)

	assert.ErrorIs(t, h.planner.SelectSlot("fri"), ErrUnknownSlot)
	assert.Equal(t, "tue-late", h.planner.Snapshot().SelectedSlotID)

	slot, ok := h.planner.Snapshot().SelectedSlot()
	require.True(t, ok)
	assert.Equal(t, "18:00", slot.StartTime)
}

func TestAddToCart_DayWithoutSlotsMakesNoCall(t *testing.T) {
	h := newHarness(t)
	h.loadSlots(t)

	// Wednesday Feb 5 has no slots
	require.NoError(t, h.planner.SelectDay(5))
	before := h.planner.Snapshot()
	assert.Empty(t, before.SelectedSlotID)

	err := h.planner.AddToCart(context.Background())
	assert.ErrorIs(t, err, ErrNoSelection)

	assert.Equal(t, before, h.planner.Snapshot())
	assert.Empty(t, h.notices)
	h.gw.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything)
	h.gw.AssertNotCalled(t, "ListCart", mock.Anything)
}

func TestAddToCart_SignedOut(t *testing.T) {
	h := newHarness(t)
	h.loadSlots(t)
	h.token = ""

	err := h.planner.AddToCart(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
	require.Len(t, h.notices, 1)
	assert.Equal(t, "Please sign in to add to cart.", h.notices[0].Message)
	h.gw.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything)
}

func TestAddToCart_SuccessRefetchesCart(t *testing.T) {
	h := newHarness(t)
	h.loadSlots(t)

	h.gw.On("AddToCart", mock.Anything, gateway.AddToCartRequest{SlotID: "tue-early", ClassDate: "2025-02-04"}).
		Return(map[string]any{"id": "c-1"}, nil).Once()
	h.gw.On("ListCart", mock.Anything).Return([]map[string]any{
		{"id": "c-1", "slotId": "tue-early", "classDate": "2025-02-04", "priceCents": 1500},
	}, nil).Once()

	require.NoError(t, h.planner.AddToCart(context.Background()))

	st := h.planner.Snapshot()
	require.Len(t, st.Cart, 1)
	assert.Equal(t, "tue-early", st.Cart[0].SlotID)
	assert.Equal(t, int64(1500), st.Cart[0].PriceCents)
	assert.False(t, st.CartLoading)

	require.Len(t, h.notices, 1)
	assert.Equal(t, "Class added to cart!", h.notices[0].Message)
	assert.Equal(t, "#4caf50", h.notices[0].Color)
	h.gw.AssertExpectations(t)
}

func TestAddToCart_FailureLeavesCartUntouched(t *testing.T) {
	h := newHarness(t)
	h.loadSlots(t)

	h.gw.On("ListCart", mock.Anything).Return([]map[string]any{{"id": "c-0", "slot_id": "fri", "class_date": "2025-02-07"}}, nil).Once()
	require.NoError(t, h.planner.RefreshCart(context.Background()))
	before := h.planner.Snapshot().Cart

	h.gw.On("AddToCart", mock.Anything, mock.Anything).
		Return(nil, &gateway.APIError{StatusCode: http.StatusConflict, Message: "already in cart"}).Once()

	err := h.planner.AddToCart(context.Background())
	require.Error(t, err)

	assert.Equal(t, before, h.planner.Snapshot().Cart)
	require.Len(t, h.notices, 1)
	assert.Equal(t, "Add to cart failed: already in cart", h.notices[0].Message)
	h.gw.AssertNumberOfCalls(t, "ListCart", 1)
}

func TestAddToCart_UnauthorizedResponse(t *testing.T) {
	h := newHarness(t)
	h.loadSlots(t)
	h.gw.On("AddToCart", mock.Anything, mock.Anything).
		Return(nil, &gateway.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid token"}).Once()

	err := h.planner.AddToCart(context.Background())
	assert.True(t, gateway.IsUnauthorized(err))
	require.Len(t, h.notices, 1)
	assert.Equal(t, "Please sign in: Invalid token", h.notices[0].Message)
}

func TestFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	h := newHarness(t)
	WithLogger(logger.NewWithWriter(&buf, "warn"))(h.planner)
	h.loadSlots(t)
	h.gw.On("AddToCart", mock.Anything, mock.Anything).
		Return(nil, &gateway.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid token"}).Once()

	_ = h.planner.AddToCart(context.Background())
	assert.Contains(t, buf.String(), "planner operation failed")
	assert.Contains(t, buf.String(), "Invalid token")
}

func TestBook_SuccessRefetchesBookings(t *testing.T) {
	h := newHarness(t)
	h.loadSlots(t)
	require.NoError(t, h.planner.SelectDay(14))

	h.gw.On("CreateBooking", mock.Anything, gateway.CreateBookingRequest{SlotID: "fri", ClassDate: "2025-02-14"}).
		Return(map[string]any{"id": "b-1"}, nil).Once()
	h.gw.On("ListBookings", mock.Anything).Return([]map[string]any{
		{"id": "b-1", "slot_id": "fri", "class_date": "2025-02-14", "status": "CONFIRMED"},
		{"id": "b-0", "slot_id": "tue-early", "class_date": "2025-02-04", "status": "CONFIRMED"},
	}, nil).Once()

	require.NoError(t, h.planner.Book(context.Background()))
	st := h.planner.Snapshot()
	require.Len(t, st.Bookings, 2)
	assert.Equal(t, "CONFIRMED", st.Bookings[0].Status)
	assert.Equal(t, "Class booked!", h.notices[0].Message)
	h.gw.AssertExpectations(t)
}

func TestBook_RefetchFailureKeepsPreviousList(t *testing.T) {
	h := newHarness(t)
	h.loadSlots(t)

	h.gw.On("CreateBooking", mock.Anything, mock.Anything).Return(map[string]any{"id": "b-1"}, nil).Once()
	h.gw.On("ListBookings", mock.Anything).Return(nil, errors.New("connection reset")).Once()

	require.Error(t, h.planner.Book(context.Background()))
	assert.Empty(t, h.planner.Snapshot().Bookings)
	require.Len(t, h.notices, 1)
	assert.Equal(t, "Class booked, but bookings could not be refreshed: connection reset", h.notices[0].Message)
}

func TestRemoveFromCart(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.planner.RemoveFromCart(context.Background(), ""), ErrMissingID)

	h.gw.On("RemoveFromCart", mock.Anything, "c-1").Return(nil).Once()
	h.gw.On("ListCart", mock.Anything).Return([]map[string]any{}, nil).Once()

	require.NoError(t, h.planner.RemoveFromCart(context.Background(), "c-1"))
	assert.Empty(t, h.planner.Snapshot().Cart)
	assert.Equal(t, "Removed from cart", h.notices[0].Message)
	h.gw.AssertExpectations(t)
}

func TestCancelBooking_FailureLeavesBookingsUntouched(t *testing.T) {
	h := newHarness(t)
	h.gw.On("ListBookings", mock.Anything).Return([]map[string]any{{"id": "b-1", "status": "CONFIRMED"}}, nil).Once()
	require.NoError(t, h.planner.RefreshBookings(context.Background()))
	before := h.planner.Snapshot().Bookings

	h.gw.On("CancelBooking", mock.Anything, "b-1").
		Return(&gateway.APIError{StatusCode: http.StatusNotFound, Message: "booking not found"}).Once()

	require.Error(t, h.planner.CancelBooking(context.Background(), "b-1"))
	assert.Equal(t, before, h.planner.Snapshot().Bookings)
	require.Len(t, h.notices, 1)
	assert.Equal(t, "Cancel failed: booking not found", h.notices[0].Message)
}

func TestRefresh_SignedOutClearsWithoutCalling(t *testing.T) {
	h := newHarness(t)
	h.token = ""

	require.NoError(t, h.planner.RefreshCart(context.Background()))
	require.NoError(t, h.planner.RefreshBookings(context.Background()))
	h.gw.AssertNotCalled(t, "ListCart", mock.Anything)
	h.gw.AssertNotCalled(t, "ListBookings", mock.Anything)
}

func TestNotice_LatestReplacesAndExpires(t *testing.T) {
	h := newHarness(t)
	h.token = ""

	_ = h.planner.AddToCart(context.Background())
	_ = h.planner.Book(context.Background())

	n, ok := h.planner.Notice()
	require.True(t, ok)
	assert.Equal(t, "Please sign in to book a class.", n.Message)
	assert.Equal(t, feb2025.Add(3*time.Second), n.ExpiresAt)

	h.clock.now = feb2025.Add(2999 * time.Millisecond)
	_, ok = h.planner.Notice()
	assert.True(t, ok)

	h.clock.now = feb2025.Add(3 * time.Second)
	_, ok = h.planner.Notice()
	assert.False(t, ok)
}

func TestDismissNotice(t *testing.T) {
	h := newHarness(t)
	h.token = ""
	_ = h.planner.AddToCart(context.Background())

	h.planner.DismissNotice()
	_, ok := h.planner.Notice()
	assert.False(t, ok)
}

func TestMonthNavigation(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.planner.SetMonth(2024, 11))
	h.planner.NextMonth()
	st := h.planner.Snapshot()
	assert.Equal(t, 2025, st.Year)
	assert.Equal(t, 0, st.Month)

	h.planner.PrevMonth()
	st = h.planner.Snapshot()
	assert.Equal(t, 2024, st.Year)
	assert.Equal(t, 11, st.Month)
	assert.Equal(t, schedule.BuildMonth(2024, 11), st.Grid)

	assert.ErrorIs(t, h.planner.SetMonth(2025, 12), ErrMonthInvalid)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$15.00", FormatPrice(1500))
	assert.Equal(t, "$0.05", FormatPrice(5))
	assert.Equal(t, "—", Placeholder(""))
	assert.Equal(t, "x", Placeholder("x"))
	assert.Equal(t, "Loading class slots…", State{SlotsLoading: true}.StatusLine())
	assert.Equal(t, "Slots loaded: 0 • For : 0", State{}.StatusLine())
}
