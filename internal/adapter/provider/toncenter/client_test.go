package toncenter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payments-worker/internal/adapter/provider"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTransactions = `{
  "ok": true,
  "result": [
    {
      "utime": 1700000005,
      "transaction_id": {"lt": "47000000000001", "hash": "hash-in"},
      "in_msg": {"source": "EQsender", "destination": "EQtreasury", "value": "1000000000"}
    },
    {
      "utime": 1700000006,
      "transaction_id": {"lt": "47000000000002", "hash": "hash-ext"},
      "in_msg": {"source": "", "destination": "EQtreasury", "value": "0"}
    },
    {
      "utime": 1700000007,
      "transaction_id": {"lt": "47000000000003", "hash": "hash-none"}
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	r := provider.NewRequesterWithClient(srv.Client(), 1, time.Millisecond, zerolog.Nop())
	return NewClient(srv.URL+"/", "secret-key", r)
}

func TestClient_InboundTransfers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getTransactions", r.URL.Path)
		assert.Equal(t, "EQtreasury", r.URL.Query().Get("address"))
		assert.Equal(t, "80", r.URL.Query().Get("limit"))
		assert.Equal(t, "secret-key", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(sampleTransactions))
	})

	transfers, err := c.InboundTransfers(context.Background(), "EQtreasury", 80)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, "hash-in", transfers[0].Hash)
	assert.Equal(t, "EQsender", transfers[0].Source)
	assert.Equal(t, "1000000000", transfers[0].Value)
	assert.Equal(t, int64(1700000005), transfers[0].Utime)
}

func TestClient_InboundTransfers_NotOK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": false, "error": "rate limit exceeded"}`))
	})

	_, err := c.InboundTransfers(context.Background(), "EQtreasury", 80)
	assert.ErrorIs(t, err, provider.ErrUnavailable)
	assert.ErrorContains(t, err, "rate limit exceeded")
}

func TestClient_InboundTransfers_ServerDown(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	})

	_, err := c.InboundTransfers(context.Background(), "EQtreasury", 80)
	assert.ErrorIs(t, err, provider.ErrUnavailable)
}
