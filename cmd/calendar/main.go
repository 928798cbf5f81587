package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"classbook/internal/gateway"
	"classbook/internal/planner"
	"classbook/pkg/logger"
)

type session struct {
	planner *planner.Planner
	client  *gateway.Client
	tokens  *gateway.FileTokenStore
	out     io.Writer
	notices int
}

func main() {
	profilePath := flag.String("profile", filepath.Join(configDir(), "profile.yaml"), "path to the YAML profile")
	flag.Parse()

	profile, err := LoadProfile(*profilePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.SetDefault(logger.NewWithWriter(os.Stderr, profile.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := newSession(profile, os.Stdout)
	s.refreshAll(ctx)
	s.show()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return
		}
		if quit := s.exec(ctx, scanner.Text()); quit {
			return
		}
	}
}

func newSession(profile Profile, out io.Writer) *session {
	tokens := gateway.NewFileTokenStore(profile.TokenFile)
	client := gateway.New(profile.BaseURL, tokens, gateway.WithTimeout(profile.Timeout))
	s := &session{client: client, tokens: tokens, out: out}
	s.planner = planner.New(client, tokens,
		planner.WithNoticeTTL(profile.NoticeTTL),
		planner.WithNoticeHandler(func(n planner.Notice) {
			s.notices++
			fmt.Fprintf(out, "[%s] %s\n", n.Severity, n.Message)
		}),
	)
	return s
}

// refreshAll loads slots, and the cart and bookings when signed in.
// Failures surface as planner notices.
func (s *session) refreshAll(ctx context.Context) {
	_ = s.planner.LoadSlots(ctx)
	if s.tokens.Token() == "" {
		return
	}
	_ = s.planner.RefreshCart(ctx)
	_ = s.planner.RefreshBookings(ctx)
}

func (s *session) show() {
	st := s.planner.Snapshot()
	renderMonth(s.out, st)
	renderDay(s.out, st)
}

// exec runs one command line and reports whether to quit
func (s *session) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	noticesBefore := s.notices

	var err error
	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(s.out, helpText)
		return false
	case "show":
		s.show()
		return false
	case "next":
		s.planner.NextMonth()
		s.show()
		return false
	case "prev":
		s.planner.PrevMonth()
		s.show()
		return false
	case "month":
		err = s.setMonth(args)
	case "day":
		err = s.selectDay(args)
	case "slot":
		err = s.selectSlot(args)
	case "add":
		err = s.planner.AddToCart(ctx)
	case "book":
		err = s.planner.Book(ctx)
	case "rm":
		err = s.planner.RemoveFromCart(ctx, arg(args, 0))
	case "cancel":
		err = s.planner.CancelBooking(ctx, arg(args, 0))
	case "cart":
		_ = s.planner.RefreshCart(ctx)
		st := s.planner.Snapshot()
		renderItems(s.out, "Cart", st.Cart, st.CartLoading)
		return false
	case "bookings":
		_ = s.planner.RefreshBookings(ctx)
		st := s.planner.Snapshot()
		renderItems(s.out, "Bookings", st.Bookings, st.BookingsLoading)
		return false
	case "signup":
		err = s.signUp(ctx, args)
	case "signin":
		err = s.signIn(ctx, args)
	case "signout":
		err = s.tokens.Clear()
		if err == nil {
			fmt.Fprintln(s.out, "Signed out.")
		}
	default:
		fmt.Fprintf(s.out, "unknown command %q, try help\n", cmd)
		return false
	}

	if err != nil {
		// failures the planner already reported are not repeated
		if s.notices == noticesBefore {
			fmt.Fprintln(s.out, "error:", gateway.Message(err))
		}
		return false
	}
	if cmd == "day" || cmd == "slot" || cmd == "month" {
		s.show()
	}
	return false
}

func (s *session) setMonth(args []string) error {
	t, err := time.Parse("2006-01", arg(args, 0))
	if err != nil {
		return fmt.Errorf("month wants YYYY-MM")
	}
	return s.planner.SetMonth(t.Year(), int(t.Month())-1)
}

func (s *session) selectDay(args []string) error {
	day, err := strconv.Atoi(arg(args, 0))
	if err != nil {
		return fmt.Errorf("day wants a number")
	}
	return s.planner.SelectDay(day)
}

func (s *session) selectSlot(args []string) error {
	n, err := strconv.Atoi(arg(args, 0))
	st := s.planner.Snapshot()
	if err != nil || n < 1 || n > len(st.DaySlots) {
		return fmt.Errorf("slot wants a number between 1 and %d", len(st.DaySlots))
	}
	return s.planner.SelectSlot(st.DaySlots[n-1].ID)
}

func (s *session) signUp(ctx context.Context, args []string) error {
	res, err := s.client.SignUp(ctx, gateway.Credentials{Email: arg(args, 0), Password: arg(args, 1)})
	if err != nil {
		return err
	}
	if res.Created {
		fmt.Fprintf(s.out, "Account created for %s. Sign in to continue.\n", res.Email)
	} else {
		fmt.Fprintln(s.out, res.Message)
	}
	return nil
}

func (s *session) signIn(ctx context.Context, args []string) error {
	token, err := s.client.SignIn(ctx, gateway.Credentials{Email: arg(args, 0), Password: arg(args, 1)})
	if err != nil {
		return err
	}
	if err := s.tokens.Save(token); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Signed in.")
	s.refreshAll(ctx)
	return nil
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
