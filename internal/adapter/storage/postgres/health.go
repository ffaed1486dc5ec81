package postgres

import "context"

// HealthCheck reports whether the ledger database is reachable and migrated.
type HealthCheck struct {
	pool Pool
}

func NewHealthCheck(pool Pool) *HealthCheck {
	return &HealthCheck{pool: pool}
}

// Ping touches the ledger table, so an unmigrated database reports unhealthy.
func (h *HealthCheck) Ping(ctx context.Context) error {
	_, err := h.pool.Exec(ctx, "SELECT 1 FROM ledger_entries LIMIT 1")
	return err
}

func (h *HealthCheck) Name() string {
	return "postgresql"
}
