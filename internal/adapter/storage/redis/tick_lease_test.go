package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return s, client
}

func TestTickLease_AcquireOnce(t *testing.T) {
	_, client := newTestClient(t)
	a := NewTickLease(client, "worker-a")
	b := NewTickLease(client, "worker-b")
	ctx := context.Background()

	ok, err := a.Acquire(ctx, "withdrawals", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Acquire(ctx, "withdrawals", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "second replica must not get a held lease")

	ok, err = b.Acquire(ctx, "deposits", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "leases are per job")
}

func TestTickLease_ReleaseOnlyByOwner(t *testing.T) {
	s, client := newTestClient(t)
	a := NewTickLease(client, "worker-a")
	b := NewTickLease(client, "worker-b")
	ctx := context.Background()

	ok, err := a.Acquire(ctx, "withdrawals", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, b.Release(ctx, "withdrawals"))
	owner, err := s.Get("payments-worker:tick:withdrawals")
	require.NoError(t, err)
	assert.Equal(t, "worker-a", owner)

	require.NoError(t, a.Release(ctx, "withdrawals"))
	assert.False(t, s.Exists("payments-worker:tick:withdrawals"))

	ok, err = b.Acquire(ctx, "withdrawals", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTickLease_Expires(t *testing.T) {
	s, client := newTestClient(t)
	a := NewTickLease(client, "worker-a")
	b := NewTickLease(client, "worker-b")
	ctx := context.Background()

	ok, err := a.Acquire(ctx, "deposits", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	s.FastForward(2 * time.Second)

	ok, err = b.Acquire(ctx, "deposits", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "a crashed holder must not block the job forever")
}

func TestTickLease_NonPositiveTTLStillExpires(t *testing.T) {
	s, client := newTestClient(t)
	lease := NewTickLease(client, "worker-a")

	ok, err := lease.Acquire(context.Background(), "withdrawals", 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, DefaultLeaseTTL, s.TTL("payments-worker:tick:withdrawals"))

	s.FastForward(DefaultLeaseTTL + time.Second)
	ok, err = NewTickLease(client, "worker-b").Acquire(context.Background(), "withdrawals", -time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "lease of a crashed holder must expire")
}

func TestTickLease_RedisDown(t *testing.T) {
	s, client := newTestClient(t)
	lease := NewTickLease(client, "worker-a")
	s.Close()

	_, err := lease.Acquire(context.Background(), "deposits", time.Second)
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	_, client := newTestClient(t)
	hc := NewHealthCheck(client)

	assert.Equal(t, "redis_lease", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
}
