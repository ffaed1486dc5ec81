package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getter(url string) func(ctx context.Context) (*http.Request, error) {
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
}

func TestRequester_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	r := NewRequesterWithClient(srv.Client(), 2, time.Millisecond, zerolog.Nop())

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, r.Do(context.Background(), getter(srv.URL), &out, true))
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRequester_GivesUpAsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := NewRequesterWithClient(srv.Client(), 1, time.Millisecond, zerolog.Nop())

	err := r.Do(context.Background(), getter(srv.URL), &struct{}{}, true)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestRequester_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false}`))
	}))
	defer srv.Close()

	r := NewRequesterWithClient(srv.Client(), 3, time.Millisecond, zerolog.Nop())

	err := r.Do(context.Background(), getter(srv.URL), &struct{}{}, true)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRequester_RateLimitIsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"ok":false,"error":"Ratelimit exceed","code":429}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	r := NewRequesterWithClient(srv.Client(), 2, time.Millisecond, zerolog.Nop())

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, r.Do(context.Background(), getter(srv.URL), &out, true))
	assert.True(t, out.OK)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRequester_RateLimitExhaustedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := NewRequesterWithClient(srv.Client(), 1, time.Millisecond, zerolog.Nop())

	err := r.Do(context.Background(), getter(srv.URL), &struct{}{}, true)
	assert.ErrorIs(t, err, ErrUnavailable)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abcd", 2))
	// "é" is two bytes; cutting inside it drops the whole rune.
	assert.Equal(t, "a", truncate("aéb", 2))
	assert.Equal(t, "aé", truncate("aéb", 3))
	assert.True(t, utf8.ValidString(truncate("ошибка сервера", 7)))
}

func TestRequester_NoRetryForNonIdempotentCalls(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewRequesterWithClient(srv.Client(), 3, time.Millisecond, zerolog.Nop())

	err := r.Do(context.Background(), getter(srv.URL), &struct{}{}, false)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRequester_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	r := NewRequesterWithClient(srv.Client(), 0, time.Millisecond, zerolog.Nop())

	err := r.Do(context.Background(), getter(srv.URL), &struct{}{}, true)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorContains(t, err, "decode response")
}
