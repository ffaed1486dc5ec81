package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"payments-worker/config"

	"github.com/rs/zerolog"
)

// ErrUnavailable marks transport failures, unexpected statuses and
// undecodable responses. 4xx responses come back as *StatusError instead.
var ErrUnavailable = errors.New("provider unavailable")

// maxBodyBytes bounds provider responses read into memory.
const maxBodyBytes = 4 << 20

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is a non-retryable 4xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client error (status %d): %s", e.StatusCode, e.Body)
}

// Requester executes JSON requests with bounded exponential-backoff retries.
type Requester struct {
	httpClient HTTPClient
	maxRetries int
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewRequester builds a Requester from the shared http_client config.
func NewRequester(cfg config.HTTPClientConfig, log zerolog.Logger) *Requester {
	return NewRequesterWithClient(&http.Client{Timeout: cfg.Timeout}, cfg.MaxRetries, cfg.RetryDelay, log)
}

// NewRequesterWithClient is NewRequester with an explicit transport.
func NewRequesterWithClient(client HTTPClient, maxRetries int, retryDelay time.Duration, log zerolog.Logger) *Requester {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Requester{
		httpClient: client,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		log:        log,
	}
}

// Do sends the request built by newReq and decodes a 2xx JSON body into out.
// newReq is called once per attempt so request bodies can be replayed.
// Only idempotent calls should pass retry=true.
func (r *Requester) Do(ctx context.Context, newReq func(ctx context.Context) (*http.Request, error), out any, retry bool) error {
	attempts := 1
	if retry {
		attempts += r.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			case <-time.After(r.retryDelay * time.Duration(1<<(attempt-1))):
			}
		}

		err := r.once(ctx, newReq, out)
		if err == nil {
			return nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return err
		}
		lastErr = err
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("provider request failed")
	}
	return lastErr
}

func (r *Requester) once(ctx context.Context, newReq func(ctx context.Context) (*http.Request, error), out any) error {
	req, err := newReq(ctx)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: server error (status %d)", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limited", ErrUnavailable)
	case resp.StatusCode >= 400:
		return &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
