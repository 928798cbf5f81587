package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"classbook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	return New(srv.URL+"/api", tokens, opts...)
}

func TestListSlots_NoAuthRequired(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/slots", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"s-1","day_of_week":"Monday","price_cents":1500}]`))
	}, nil)

	slots, err := c.ListSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "s-1", slots[0]["id"])
}

func TestTokenIsReadOnEveryRequest(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}, nil)

	token := "first"
	c.tokens = TokenFunc(func() string { return token })

	_, err := c.ListCart(context.Background())
	require.NoError(t, err)
	token = "second"
	_, err = c.ListBookings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer first", "Bearer second"}, seen)
}

func TestAuthenticatedCallWithoutTokenMakesNoRequest(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}, StaticToken(""))

	_, err := c.AddToCart(context.Background(), AddToCartRequest{SlotID: "s-1", ClassDate: "2025-02-04"})
	assert.ErrorIs(t, err, ErrNoToken)
	assert.True(t, IsUnauthorized(err))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestAddToCart_SendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/cart", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body AddToCartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, AddToCartRequest{SlotID: "s-1", ClassDate: "2025-02-04"}, body)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"c-1","slot_id":"s-1","class_date":"2025-02-04"}`))
	}, StaticToken("tok"))

	item, err := c.AddToCart(context.Background(), AddToCartRequest{SlotID: "s-1", ClassDate: "2025-02-04"})
	require.NoError(t, err)
	assert.Equal(t, "c-1", item["id"])
}

func TestErrorBodyIsSurfaced(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"slot is full"}`))
	}, StaticToken("tok"))

	_, err := c.CreateBooking(context.Background(), CreateBookingRequest{SlotID: "s-1", ClassDate: "2025-02-04"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "slot is full", Message(err))
	assert.False(t, IsUnauthorized(err))
}

func TestErrorWithoutBodyFallsBackToStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}, nil)

	_, err := c.ListSlots(context.Background())
	assert.Equal(t, "Bad Gateway", Message(err))
}

func TestUnauthorizedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
	}, StaticToken("stale"))

	err := c.RemoveFromCart(context.Background(), "c-1")
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid token", Message(err))
}

func TestDeletePaths(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}, StaticToken("tok"))

	require.NoError(t, c.RemoveFromCart(context.Background(), "c-1"))
	require.NoError(t, c.CancelBooking(context.Background(), "b-1"))
	assert.Equal(t, []string{"/api/cart/c-1", "/api/bookings/b-1"}, paths)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, nil, WithTimeout(50*time.Millisecond))
	defer close(release)

	_, err := c.ListSlots(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, IsTransport(err))
	assert.Equal(t, "request timed out", Message(err))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := New(srv.URL, nil, WithLogger(logger.Discard()))
	_, err := c.ListSlots(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.NotEmpty(t, Message(err))
}

func TestSignUp(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCreated bool
		wantMessage string
		wantID      string
		wantErr     string
	}{
		{
			name:        "created",
			status:      http.StatusCreated,
			body:        `{"user":{"id":"u-1","email":"a@b.co"}}`,
			wantCreated: true,
			wantID:      "u-1",
		},
		{
			name:        "confirmation pending",
			status:      http.StatusOK,
			body:        `{"message":"Signup initiated. Check your email to confirm."}`,
			wantMessage: "Signup initiated. Check your email to confirm.",
		},
		{
			name:    "rejected",
			status:  http.StatusBadRequest,
			body:    `{"error":"email and password are required"}`,
			wantErr: "email and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/users/signup", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			res, err := c.SignUp(context.Background(), Credentials{Email: "a@b.co", Password: "pw"})
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, Message(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, res.Created)
			assert.Equal(t, tt.wantMessage, res.Message)
			assert.Equal(t, tt.wantID, res.UserID)
		})
	}
}

func TestSignIn(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "right" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"jwt-token"}`))
	}, nil)

	token, err := c.SignIn(context.Background(), Credentials{Email: "a@b.co", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)

	_, err = c.SignIn(context.Background(), Credentials{Email: "a@b.co", Password: "wrong"})
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid login credentials", Message(err))
}

func TestCredentialsCheckedBeforeRequest(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}, nil)

	_, err := c.SignIn(context.Background(), Credentials{})
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.True(t, IsValidation(err))

	_, err = c.SignUp(context.Background(), Credentials{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = c.SignUp(context.Background(), Credentials{Email: "   ", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSearchSlots_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/slots/search", r.URL.Path)
		assert.Equal(t, "Monday", r.URL.Query().Get("day"))
		assert.Equal(t, "Kids", r.URL.Query().Get("group"))
		_, _ = w.Write([]byte(`[]`))
	}, nil)

	_, err := c.SearchSlots(context.Background(), "Monday", "Kids")
	require.NoError(t, err)
}

func TestFileTokenStore(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "nested", "session.json"))

	assert.Equal(t, "", store.Token())
	require.NoError(t, store.Clear())

	require.NoError(t, store.Save("abc"))
	assert.Equal(t, "abc", store.Token())

	require.NoError(t, store.Save("def"))
	assert.Equal(t, "def", store.Token())

	require.NoError(t, store.Clear())
	assert.Equal(t, "", store.Token())
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(&APIError{StatusCode: http.StatusBadRequest, Message: "bad"}))
	assert.True(t, IsValidation(&APIError{StatusCode: http.StatusUnprocessableEntity, Message: "bad"}))
	assert.False(t, IsValidation(&APIError{StatusCode: http.StatusConflict, Message: "dup"}))
	assert.False(t, IsValidation(ErrNoToken))
}
