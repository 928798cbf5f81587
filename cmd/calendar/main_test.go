package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()

	p, err := LoadProfile(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultProfile(), p)

	path := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://classes.example/api\ntimeout: 2s\n"), 0o600))
	p, err = LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://classes.example/api", p.BaseURL)
	assert.Equal(t, 2*time.Second, p.Timeout)
	assert.Equal(t, 3*time.Second, p.NoticeTTL, "unset keys keep defaults")

	require.NoError(t, os.WriteFile(path, []byte("base_url: ''\n"), 0o600))
	_, err = LoadProfile(path)
	assert.ErrorContains(t, err, "base_url is empty")

	require.NoError(t, os.WriteFile(path, []byte("timeout: [oops\n"), 0o600))
	_, err = LoadProfile(path)
	assert.Error(t, err)
}

type fakeAPI struct {
	carts int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/slots":
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "s-1", "day_of_week": "wed", "group_type": "kids", "start_time": "16:00", "end_time": "17:00", "price_cents": 1200, "capacity": 8},
			{"id": "s-2", "day_of_week": "Wednesday", "group_type": "adults", "start_time": "18:30", "end_time": "19:45", "price_cents": 1800},
		})
	case r.Method == http.MethodPost && r.URL.Path == "/api/users/signin":
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	case r.Method == http.MethodPost && r.URL.Path == "/api/cart":
		f.carts++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"c-1"}`))
	case r.Method == http.MethodGet && (r.URL.Path == "/api/cart" || r.URL.Path == "/api/bookings"):
		if f.carts == 0 {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"c-1","slot_id":"s-2","class_date":"2025-02-12","group_type":"adults","start_time":"18:30","end_time":"19:45","price_cents":1800}]`))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	}
}

func TestSession(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	profile := defaultProfile()
	profile.BaseURL = srv.URL + "/api"
	profile.TokenFile = filepath.Join(t.TempDir(), "token.json")

	var out bytes.Buffer
	s := newSession(profile, &out)
	ctx := context.Background()
	s.refreshAll(ctx)

	assert.False(t, s.exec(ctx, "month 2025-02"))
	assert.Contains(t, out.String(), "February 2025")

	out.Reset()
	s.exec(ctx, "day 12")
	assert.Contains(t, out.String(), "[12]")
	assert.Contains(t, out.String(), "Wednesday 2025-02-12")
	assert.Contains(t, out.String(), "*1. 16:00-17:00")

	out.Reset()
	s.exec(ctx, "slot 2")
	assert.Contains(t, out.String(), "*2. 18:30-19:45")
	assert.Contains(t, out.String(), "$18.00")

	out.Reset()
	s.exec(ctx, "add")
	assert.Contains(t, out.String(), "[error] Please sign in to add to cart.")
	assert.Zero(t, api.carts)

	out.Reset()
	s.exec(ctx, "slot 9")
	assert.Contains(t, out.String(), "error: slot wants a number between 1 and 2")

	out.Reset()
	s.exec(ctx, "signin a@b.co hunter22")
	assert.Contains(t, out.String(), "Signed in.")
	assert.Equal(t, "tok", s.tokens.Token())

	s.exec(ctx, "add")
	assert.Equal(t, 1, api.carts)

	out.Reset()
	s.exec(ctx, "cart")
	assert.Contains(t, out.String(), "Cart (1)")
	assert.Contains(t, out.String(), "c-1  2025-02-12 18:30-19:45 adults $18.00")

	out.Reset()
	s.exec(ctx, "frobnicate")
	assert.Contains(t, out.String(), `unknown command "frobnicate"`)

	s.exec(ctx, "signout")
	assert.Empty(t, s.tokens.Token())
	assert.True(t, s.exec(ctx, "quit"))
}
