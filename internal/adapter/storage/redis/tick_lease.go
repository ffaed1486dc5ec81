package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the lease only if this owner still holds it.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// DefaultLeaseTTL bounds a lease when the caller passes no positive TTL, so a
// crashed holder never locks a job on every replica.
const DefaultLeaseTTL = time.Minute

// TickLease implements ports.TickLease using Redis SET NX PX.
// The owner is the worker instance id, so a replica only releases its own lease.
type TickLease struct {
	client *goredis.Client
	prefix string
	owner  string
}

// NewTickLease creates a lease store owned by the given worker instance.
func NewTickLease(client *goredis.Client, owner string) *TickLease {
	return &TickLease{
		client: client,
		prefix: "payments-worker:tick:",
		owner:  owner,
	}
}

// Acquire returns true if this instance now holds the lease for job.
func (l *TickLease) Acquire(ctx context.Context, job string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = DefaultLeaseTTL
	}
	result, err := l.client.SetArgs(ctx, l.prefix+job, l.owner, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis lease acquire: %w", err)
	}
	return result == "OK", nil
}

// Release drops the lease if it is still held by this instance.
func (l *TickLease) Release(ctx context.Context, job string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + job}, l.owner).Err(); err != nil {
		return fmt.Errorf("redis lease release: %w", err)
	}
	return nil
}
