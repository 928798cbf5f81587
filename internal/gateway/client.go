package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"classbook/pkg/logger"
)

const DefaultTimeout = 15 * time.Second

// Client talks to the booking API. Every authenticated call reads the
// bearer token from the TokenSource at request time.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	timeout    time.Duration
	logger     *logger.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		timeout:    DefaultTimeout,
		logger:     logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type AddToCartRequest struct {
	SlotID    string `json:"slot_id"`
	ClassDate string `json:"class_date"`
}

type CreateBookingRequest struct {
	SlotID    string `json:"slot_id"`
	ClassDate string `json:"class_date"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// SignUpResult carries either the created user (201) or a pending-confirmation message (200)
type SignUpResult struct {
	UserID  string
	Email   string
	Message string
	Created bool
}

// ListSlots returns raw slot records; callers normalize them
func (c *Client) ListSlots(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.do(ctx, http.MethodGet, "/slots", nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SearchSlots(ctx context.Context, day, group string) ([]map[string]any, error) {
	q := url.Values{}
	if day != "" {
		q.Set("day", day)
	}
	if group != "" {
		q.Set("group", group)
	}
	path := "/slots/search"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	var out []map[string]any
	if err := c.do(ctx, http.MethodGet, path, nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCart(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.do(ctx, http.MethodGet, "/cart", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToCart(ctx context.Context, req AddToCartRequest) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, "/cart", req, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/cart/"+url.PathEscape(id), nil, true, nil)
}

func (c *Client) ListBookings(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any
	if err := c.do(ctx, http.MethodGet, "/bookings", nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, http.MethodPost, "/bookings", req, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelBooking(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(id), nil, true, nil)
}

func (c *Client) SignUp(ctx context.Context, creds Credentials) (*SignUpResult, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}
	var out struct {
		User *struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		Message string `json:"message"`
	}

	status, err := c.doStatus(ctx, http.MethodPost, "/users/signup", creds, false, &out)
	if err != nil {
		return nil, err
	}

	result := &SignUpResult{Message: out.Message, Created: status == http.StatusCreated}
	if out.User != nil {
		result.UserID = out.User.ID
		result.Email = out.User.Email
	}
	return result, nil
}

// SignIn returns the access token issued for the credentials
func (c *Client) SignIn(ctx context.Context, creds Credentials) (string, error) {
	if err := creds.validate(); err != nil {
		return "", err
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/signin", creds, false, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &APIError{StatusCode: http.StatusOK, Message: "sign in response carried no access token"}
	}
	return out.AccessToken, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, auth bool, out any) error {
	_, err := c.doStatus(ctx, method, path, body, auth, out)
	return err
}

func (c *Client) doStatus(ctx context.Context, method, path string, body any, auth bool, out any) (int, error) {
	token := c.tokens.Token()
	if auth && token == "" {
		return 0, ErrNoToken
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.logger.Warn("API request timed out", "method", method, "path", path, "timeout", c.timeout)
			return 0, &APIError{Message: ErrTimeout.Error(), Err: ErrTimeout}
		}
		c.logger.Warn("API request failed", "method", method, "path", path, "error", err)
		return 0, &APIError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}

	c.logger.Debug("API request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, &APIError{
			StatusCode: resp.StatusCode,
			Message:    "unexpected response from server",
			Err:        err,
		}
	}
	return resp.StatusCode, nil
}

// errorMessage pulls the server's {error} text, falling back to the status text
func errorMessage(status int, body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", status)
}
