package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"classbook/internal/gateway"
	"classbook/internal/schedule"
	"classbook/pkg/logger"
)

var (
	ErrNotSignedIn  = errors.New("please sign in")
	ErrNoSelection  = errors.New("no date or slot selected")
	ErrOutOfMonth   = errors.New("date is outside the displayed month")
	ErrUnknownSlot  = errors.New("slot is not offered on the selected day")
	ErrMissingID    = errors.New("item id is required")
	ErrBusy         = errors.New("operation already in progress")
	ErrMonthInvalid = errors.New("month must be between 0 and 11")
)

// Gateway is the part of the API client the planner drives
type Gateway interface {
	ListSlots(ctx context.Context) ([]map[string]any, error)
	ListCart(ctx context.Context) ([]map[string]any, error)
	AddToCart(ctx context.Context, req gateway.AddToCartRequest) (map[string]any, error)
	RemoveFromCart(ctx context.Context, id string) error
	ListBookings(ctx context.Context) ([]map[string]any, error)
	CreateBooking(ctx context.Context, req gateway.CreateBookingRequest) (map[string]any, error)
	CancelBooking(ctx context.Context, id string) error
}

type operation int

const (
	opLoadSlots operation = iota
	opLoadCart
	opLoadBookings
	opAddToCart
	opRemoveFromCart
	opBook
	opCancelBooking
)

// Planner holds the calendar selection and mirrors the user's cart and
// bookings. All methods are safe for concurrent use; network calls run
// without the lock held.
type Planner struct {
	gw        Gateway
	tokens    gateway.TokenSource
	now       func() time.Time
	noticeTTL time.Duration
	onNotice  func(Notice)
	logger    *logger.Logger

	mu             sync.Mutex
	year, month    int
	grid           []schedule.CalendarCell
	slots          schedule.SlotsByWeekday
	selectedDate   *schedule.CalendarCell
	selectedSlotID string
	cart           []schedule.CartItem
	bookings       []schedule.CartItem
	busy           map[operation]bool
	notice         *Notice
}

type Option func(*Planner)

// WithClock overrides time.Now, used for notice expiry and the initial month
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

func WithNoticeTTL(d time.Duration) Option {
	return func(p *Planner) {
		if d > 0 {
			p.noticeTTL = d
		}
	}
}

// WithNoticeHandler registers a callback invoked once per raised notice.
// It runs under the planner lock and must not call back into the Planner.
func WithNoticeHandler(fn func(Notice)) Option {
	return func(p *Planner) { p.onNotice = fn }
}

func WithLogger(l *logger.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

// New starts on the current month with nothing selected
func New(gw Gateway, tokens gateway.TokenSource, opts ...Option) *Planner {
	if tokens == nil {
		tokens = gateway.StaticToken("")
	}
	p := &Planner{
		gw:        gw,
		tokens:    tokens,
		now:       time.Now,
		noticeTTL: DefaultNoticeTTL,
		logger:    logger.GetDefault(),
		slots:     schedule.SlotsByWeekday{},
		busy:      make(map[operation]bool),
	}
	for _, opt := range opts {
		opt(p)
	}

	today := p.now()
	p.setMonthLocked(today.Year(), int(today.Month())-1)
	return p
}

// SetMonth displays month (0-11) of year. The selection is kept.
func (p *Planner) SetMonth(year, month int) error {
	if month < 0 || month > 11 {
		return ErrMonthInvalid
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setMonthLocked(year, month)
	return nil
}

func (p *Planner) NextMonth() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.month == 11 {
		p.setMonthLocked(p.year+1, 0)
		return
	}
	p.setMonthLocked(p.year, p.month+1)
}

func (p *Planner) PrevMonth() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.month == 0 {
		p.setMonthLocked(p.year-1, 11)
		return
	}
	p.setMonthLocked(p.year, p.month-1)
}

func (p *Planner) setMonthLocked(year, month int) {
	p.year, p.month = year, month
	p.grid = schedule.BuildMonth(year, month)
}

// LoadSlots fetches and regroups every slot. When nothing is selected yet
// the first in-month day that has slots is selected along with its first slot.
func (p *Planner) LoadSlots(ctx context.Context) error {
	if err := p.begin(opLoadSlots); err != nil {
		return err
	}

	raw, err := p.gw.ListSlots(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.busy, opLoadSlots)

	if err != nil {
		p.raiseLocked(SeverityError, "Failed to load class slots: "+gateway.Message(err))
		return err
	}

	p.slots = schedule.NormalizeAndGroup(raw)

	if p.selectedDate == nil {
		p.autoSelectLocked()
	} else if _, ok := p.slots.Find(p.selectedDate.Weekday, p.selectedSlotID); !ok {
		p.selectedSlotID = firstSlotID(p.slots.For(p.selectedDate.Weekday))
	}

	p.logger.Debug("slots loaded", "total", p.slots.Total())
	return nil
}

func (p *Planner) autoSelectLocked() {
	for i := range p.grid {
		cell := p.grid[i]
		if !cell.InCurrentMonth {
			continue
		}
		if slots := p.slots.For(cell.Weekday); len(slots) > 0 {
			p.selectedDate = &cell
			p.selectedSlotID = slots[0].ID
			return
		}
	}
}

// SelectDate selects the displayed grid's in-month cell for cell.Date and
// its first slot, if any. Only the date of cell is read.
func (p *Planner) SelectDate(cell schedule.CalendarCell) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.grid {
		if !p.grid[i].InCurrentMonth || p.grid[i].Date != cell.Date {
			continue
		}
		selected := p.grid[i]
		p.selectedDate = &selected
		p.selectedSlotID = firstSlotID(p.slots.For(selected.Weekday))
		return nil
	}
	return ErrOutOfMonth
}

// SelectDay selects day-of-month in the displayed month
func (p *Planner) SelectDay(day int) error {
	p.mu.Lock()
	var target *schedule.CalendarCell
	for i := range p.grid {
		if p.grid[i].InCurrentMonth && p.grid[i].Date.Day == day {
			c := p.grid[i]
			target = &c
			break
		}
	}
	p.mu.Unlock()

	if target == nil {
		return ErrOutOfMonth
	}
	return p.SelectDate(*target)
}

func (p *Planner) SelectSlot(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.selectedDate == nil {
		return ErrNoSelection
	}
	if _, ok := p.slots.Find(p.selectedDate.Weekday, id); !ok {
		return ErrUnknownSlot
	}
	p.selectedSlotID = id
	return nil
}

// AddToCart puts the selected slot on the selected date into the cart and
// replaces the local cart with the server's copy.
func (p *Planner) AddToCart(ctx context.Context) error {
	slotID, classDate, err := p.prepareReservation(opAddToCart, "Please sign in to add to cart.")
	if err != nil {
		return err
	}

	_, err = p.gw.AddToCart(ctx, gateway.AddToCartRequest{SlotID: slotID, ClassDate: classDate})
	if err != nil {
		p.fail(opAddToCart, "Add to cart failed", err)
		return err
	}

	items, err := p.gw.ListCart(ctx)
	if err != nil {
		p.fail(opAddToCart, "Class added, but the cart could not be refreshed", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.busy, opAddToCart)
	p.cart = schedule.NormalizeCartItems(items)
	p.raiseLocked(SeveritySuccess, "Class added to cart!")
	return nil
}

// Book reserves the selected slot on the selected date and refetches bookings
func (p *Planner) Book(ctx context.Context) error {
	slotID, classDate, err := p.prepareReservation(opBook, "Please sign in to book a class.")
	if err != nil {
		return err
	}

	_, err = p.gw.CreateBooking(ctx, gateway.CreateBookingRequest{SlotID: slotID, ClassDate: classDate})
	if err != nil {
		p.fail(opBook, "Booking failed", err)
		return err
	}

	items, err := p.gw.ListBookings(ctx)
	if err != nil {
		p.fail(opBook, "Class booked, but bookings could not be refreshed", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.busy, opBook)
	p.bookings = schedule.NormalizeCartItems(items)
	p.raiseLocked(SeveritySuccess, "Class booked!")
	return nil
}

func (p *Planner) RemoveFromCart(ctx context.Context, id string) error {
	if err := p.prepareRemoval(opRemoveFromCart, id, "Please sign in to manage your cart."); err != nil {
		return err
	}

	if err := p.gw.RemoveFromCart(ctx, id); err != nil {
		p.fail(opRemoveFromCart, "Remove failed", err)
		return err
	}

	items, err := p.gw.ListCart(ctx)
	if err != nil {
		p.fail(opRemoveFromCart, "Removed, but the cart could not be refreshed", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.busy, opRemoveFromCart)
	p.cart = schedule.NormalizeCartItems(items)
	p.raiseLocked(SeveritySuccess, "Removed from cart")
	return nil
}

func (p *Planner) CancelBooking(ctx context.Context, id string) error {
	if err := p.prepareRemoval(opCancelBooking, id, "Please sign in to manage your bookings."); err != nil {
		return err
	}

	if err := p.gw.CancelBooking(ctx, id); err != nil {
		p.fail(opCancelBooking, "Cancel failed", err)
		return err
	}

	items, err := p.gw.ListBookings(ctx)
	if err != nil {
		p.fail(opCancelBooking, "Cancelled, but bookings could not be refreshed", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.busy, opCancelBooking)
	p.bookings = schedule.NormalizeCartItems(items)
	p.raiseLocked(SeveritySuccess, "Booking cancelled")
	return nil
}

// RefreshCart replaces the local cart with the server's. Signed-out users get an empty cart.
func (p *Planner) RefreshCart(ctx context.Context) error {
	return p.refresh(ctx, opLoadCart, p.gw.ListCart, &p.cart, "Failed to load cart")
}

func (p *Planner) RefreshBookings(ctx context.Context) error {
	return p.refresh(ctx, opLoadBookings, p.gw.ListBookings, &p.bookings, "Failed to load bookings")
}

func (p *Planner) refresh(
	ctx context.Context,
	op operation,
	fetch func(context.Context) ([]map[string]any, error),
	dst *[]schedule.CartItem,
	failure string,
) error {
	if p.tokens.Token() == "" {
		p.mu.Lock()
		*dst = nil
		p.mu.Unlock()
		return nil
	}
	if err := p.begin(op); err != nil {
		return err
	}

	items, err := fetch(ctx)
	if err != nil {
		p.fail(op, failure, err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.busy, op)
	*dst = schedule.NormalizeCartItems(items)
	return nil
}

// prepareReservation checks sign-in and selection, then marks op busy.
// Nothing is mutated and no notice is raised when the selection is incomplete.
func (p *Planner) prepareReservation(op operation, signInMessage string) (string, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tokens.Token() == "" {
		p.raiseLocked(SeverityError, signInMessage)
		return "", "", ErrNotSignedIn
	}
	if p.selectedDate == nil || p.selectedSlotID == "" {
		return "", "", ErrNoSelection
	}
	if p.busy[op] {
		return "", "", ErrBusy
	}
	p.busy[op] = true
	return p.selectedSlotID, p.selectedDate.Date.String(), nil
}

func (p *Planner) prepareRemoval(op operation, id, signInMessage string) error {
	if id == "" {
		return ErrMissingID
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tokens.Token() == "" {
		p.raiseLocked(SeverityError, signInMessage)
		return ErrNotSignedIn
	}
	if p.busy[op] {
		return ErrBusy
	}
	p.busy[op] = true
	return nil
}

func (p *Planner) begin(op operation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.busy[op] {
		return ErrBusy
	}
	p.busy[op] = true
	return nil
}

// fail clears op and raises exactly one error notice; lists are untouched
func (p *Planner) fail(op operation, prefix string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.busy, op)

	p.logger.WithError(err).Warn("planner operation failed", "operation", int(op), "unauthorized", gateway.IsUnauthorized(err))
	if gateway.IsUnauthorized(err) {
		p.raiseLocked(SeverityError, "Please sign in: "+gateway.Message(err))
		return
	}
	p.raiseLocked(SeverityError, fmt.Sprintf("%s: %s", prefix, gateway.Message(err)))
}

func (p *Planner) raiseLocked(severity Severity, message string) {
	n := Notice{
		Message:   message,
		Severity:  severity,
		Color:     severity.Color(),
		ExpiresAt: p.now().Add(p.noticeTTL),
	}
	p.notice = &n
	if p.onNotice != nil {
		p.onNotice(n)
	}
}

// Notice returns the current notice until it expires
func (p *Planner) Notice() (Notice, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.notice == nil || p.notice.Expired(p.now()) {
		p.notice = nil
		return Notice{}, false
	}
	return *p.notice, true
}

func (p *Planner) DismissNotice() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notice = nil
}

func firstSlotID(slots []schedule.Slot) string {
	if len(slots) == 0 {
		return ""
	}
	return slots[0].ID
}
