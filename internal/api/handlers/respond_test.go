package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rohits-web03/evently/internal/api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		services.ErrInvalidInput:       http.StatusBadRequest,
		services.ErrAlreadySubscribed:  http.StatusBadRequest,
		services.ErrSelfSubscription:   http.StatusBadRequest,
		services.ErrNotSubscribed:      http.StatusBadRequest,
		services.ErrEmailTaken:         http.StatusConflict,
		services.ErrInvalidCredentials: http.StatusUnauthorized,
		services.ErrAccountDeactivated: http.StatusForbidden,
		services.ErrNotEventOwner:      http.StatusForbidden,
		services.ErrForeignParticipant: http.StatusForbidden,
		services.ErrUserNotFound:       http.StatusNotFound,
		services.ErrEventNotFound:      http.StatusNotFound,
		services.ErrStorageDisabled:    http.StatusServiceUnavailable,
		fmt.Errorf("query: %w", assert.AnError): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(err), err.Error())
	}

	wrapped := fmt.Errorf("%w: title must not be empty", services.ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, statusFor(wrapped))
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got uint
	var gotErr error
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = pathID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/42", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, uint(42), got)

	for _, bad := range []string{"0", "-1", "abc", "1.5"} {
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/"+bad, nil))
		assert.ErrorIs(t, gotErr, services.ErrInvalidInput, bad)
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	require.NoError(t, decodeJSON(r, &v, false))
	assert.Equal(t, 1, v.A)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"b":1}`))
	assert.Error(t, decodeJSON(r, &v, false))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.Error(t, decodeJSON(r, &v, false))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.NoError(t, decodeJSON(r, &v, true))
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(r))
}
