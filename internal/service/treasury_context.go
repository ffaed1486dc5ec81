package service

import (
	"context"
	"errors"
	"sync"

	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"

	"github.com/rs/zerolog"
)

// ErrTreasuryDisabled is returned when no treasury key material is configured.
var ErrTreasuryDisabled = errors.New("treasury wallet not configured")

// TreasuryContext owns the process-wide treasury wallet. It is opened at most
// once; configuration errors are remembered so later ticks stay no-ops
// without retrying or crashing.
type TreasuryContext struct {
	opener ports.TreasuryOpener

	mu     sync.Mutex
	wallet ports.TreasuryWallet
	err    error
	log    zerolog.Logger
}

// NewTreasuryContext creates a context. A nil opener disables payouts.
func NewTreasuryContext(opener ports.TreasuryOpener, log zerolog.Logger) *TreasuryContext {
	return &TreasuryContext{opener: opener, log: log}
}

// Wallet returns the opened treasury wallet, opening it on first use.
// Transient open failures are retried on the next call.
func (t *TreasuryContext) Wallet(ctx context.Context) (ports.TreasuryWallet, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.wallet != nil {
		return t.wallet, nil
	}
	if t.err != nil {
		return nil, t.err
	}
	if t.opener == nil {
		t.err = ErrTreasuryDisabled
		t.log.Warn().Msg("treasury wallet not configured, payouts disabled")
		return nil, t.err
	}

	w, err := t.opener.Open(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrBadTreasuryMnemonic) {
			t.err = err
			t.log.Error().Err(err).Msg("treasury wallet misconfigured, payouts disabled until restart")
			return nil, err
		}
		t.log.Warn().Err(err).Msg("treasury wallet open failed")
		return nil, err
	}

	t.wallet = w
	t.log.Info().Str("address", w.Address()).Msg("treasury wallet ready")
	return w, nil
}

// Disabled reports whether payouts are permanently off for this process.
func (t *TreasuryContext) Disabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err != nil
}
