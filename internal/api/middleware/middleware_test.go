package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rohits-web03/evently/internal/api/services"
	"github.com/rohits-web03/evently/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers map[uint]bool

func (s stubUsers) IsActive(_ context.Context, id uint) (bool, error) {
	if id == 500 {
		return false, errors.New("db down")
	}
	return s[id], nil
}

func echoUserID(w http.ResponseWriter, r *http.Request) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Header().Set("X-User", strconv.FormatUint(uint64(id), 10))
	w.WriteHeader(http.StatusNoContent)
}

func TestAuthenticator(t *testing.T) {
	tokens := services.NewTokenIssuer("k", time.Hour)
	authn := NewAuthenticator(tokens, stubUsers{1: true, 2: false}, logging.Discard())
	h := authn.Require(http.HandlerFunc(echoUserID))

	issue := func(id uint) string {
		tok, _, err := tokens.Issue(id, "u@x.com")
		require.NoError(t, err)
		return tok
	}

	cases := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"no credentials", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + issue(1), "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", "", http.StatusUnauthorized},
		{"active user", "Bearer " + issue(1), "", http.StatusNoContent},
		{"lowercase scheme", "bearer " + issue(1), "", http.StatusNoContent},
		{"cookie", "", issue(1), http.StatusNoContent},
		{"inactive user", "Bearer " + issue(2), "", http.StatusUnauthorized},
		{"lookup failure", "Bearer " + issue(500), "", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "token", Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAuthenticator_PassesPreflight(t *testing.T) {
	authn := NewAuthenticator(services.NewTokenIssuer("k", time.Hour), stubUsers{}, logging.Discard())
	h := authn.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := UserIDFromContext(WithUserID(context.Background(), 9))
	assert.True(t, ok)
	assert.Equal(t, uint(9), id)
}

func TestRestrictOrigins(t *testing.T) {
	h := RestrictOrigins([]string{"https://app.test"}, http.MethodPut, http.MethodDelete)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	cases := []struct {
		method string
		origin string
		want   int
	}{
		{http.MethodGet, "", http.StatusNoContent},
		{http.MethodPost, "https://other.test", http.StatusNoContent},
		{http.MethodPut, "", http.StatusForbidden},
		{http.MethodPut, "https://other.test", http.StatusForbidden},
		{http.MethodPut, "https://app.test", http.StatusNoContent},
		{http.MethodDelete, "https://app.test", http.StatusNoContent},
		{http.MethodDelete, "https://app.test.evil", http.StatusForbidden},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(tc.method, "/", nil)
		if tc.origin != "" {
			r.Header.Set("Origin", tc.origin)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		assert.Equal(t, tc.want, rec.Code, "%s %q", tc.method, tc.origin)
	}
}

func TestRestrictCookieOrigins(t *testing.T) {
	h := RestrictCookieOrigins([]string{"https://app.test"}, http.MethodPost)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	cases := []struct {
		name   string
		method string
		origin string
		cookie bool
		header bool
		want   int
	}{
		{"cookie cross-site post", http.MethodPost, "http://evil.test", true, false, http.StatusForbidden},
		{"cookie post without origin", http.MethodPost, "", true, false, http.StatusForbidden},
		{"cookie trusted post", http.MethodPost, "https://app.test", true, false, http.StatusNoContent},
		{"cookie get", http.MethodGet, "http://evil.test", true, false, http.StatusNoContent},
		{"header post", http.MethodPost, "http://evil.test", true, true, http.StatusNoContent},
		{"anonymous post", http.MethodPost, "http://evil.test", false, false, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(tc.method, "/", nil)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			if tc.cookie {
				r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tok"})
			}
			if tc.header {
				r.Header.Set("Authorization", "Bearer tok")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestLogger_RecordsStatusAndRequestID(t *testing.T) {
	h := Logger(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestLogger_SupportsResponseController(t *testing.T) {
	h := Logger(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, http.NewResponseController(w).Flush())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, rec.Flushed)
}
