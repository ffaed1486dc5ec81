package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"

	"github.com/rs/zerolog"
)

// OnChainSettings configures the on-chain reconciler.
type OnChainSettings struct {
	TreasuryAddress string
	PageSize        int
	BatchSize       int
	ClockSkew       time.Duration
}

// OnChainReconciler confirms wallet-transfer deposits by matching them
// against inbound transfers to the treasury.
type OnChainReconciler struct {
	depositRepo ports.DepositRepository
	indexer     ports.ChainIndexer
	canon       ports.AddressCanonicalizer
	settler     *settler
	cfg         OnChainSettings
	log         zerolog.Logger
}

// NewOnChainReconciler creates a new OnChainReconciler.
func NewOnChainReconciler(
	depositRepo ports.DepositRepository,
	ledgerRepo ports.LedgerRepository,
	transactor ports.DBTransactor,
	indexer ports.ChainIndexer,
	canon ports.AddressCanonicalizer,
	cfg OnChainSettings,
	log zerolog.Logger,
) *OnChainReconciler {
	return &OnChainReconciler{
		depositRepo: depositRepo,
		indexer:     indexer,
		canon:       canon,
		settler: &settler{
			depositRepo: depositRepo,
			ledgerRepo:  ledgerRepo,
			transactor:  transactor,
		},
		cfg: cfg,
		log: log,
	}
}

type indexedTransfer struct {
	ports.InboundTransfer
	source string // canonical
}

// Tick runs one reconciliation pass. Indexer failures skip the pass.
func (r *OnChainReconciler) Tick(ctx context.Context) error {
	pending, err := r.depositRepo.ListPending(ctx, domain.DepositMethodTonConnect,
		[]domain.DepositStatus{domain.DepositStatusCreated, domain.DepositStatusSent}, r.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("list pending tonconnect deposits: %w", err)
	}

	candidates := pending[:0]
	for _, d := range pending {
		if d.IsAwaitingChain() && d.Source() != "" {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	raw, err := r.indexer.InboundTransfers(ctx, r.cfg.TreasuryAddress, r.cfg.PageSize)
	if err != nil {
		r.log.Warn().Err(err).Msg("chain indexer unavailable, skipping tick")
		return nil
	}

	transfers := make([]indexedTransfer, 0, len(raw))
	for _, t := range raw {
		transfers = append(transfers, indexedTransfer{InboundTransfer: t, source: r.canon.Canonical(t.Source)})
	}

	used := make(map[string]bool)
	confirmed := 0
	for i := range candidates {
		d := &candidates[i]
		hash, changed, err := r.confirmFirstMatch(ctx, d, transfers, used)
		if err != nil {
			return err
		}
		if hash == "" {
			continue
		}
		if !changed {
			r.log.Debug().Int64("deposit_id", d.ID).Msg("deposit already resolved")
			continue
		}

		confirmed++
		r.log.Info().
			Int64("deposit_id", d.ID).
			Int64("user_id", d.UserID).
			Str("amount", d.Amount.String()).
			Str("tx_hash", hash).
			Msg("deposit confirmed on chain")
	}

	if confirmed > 0 {
		r.log.Debug().Int("confirmed", confirmed).Int("transfers", len(transfers)).Msg("on-chain pass done")
	}
	return nil
}

// confirmFirstMatch confirms d with its first matching transfer and returns
// the transfer hash, or "" when nothing matches. A transfer already credited
// to another deposit, possibly in an earlier tick, is marked used and the
// next match is tried.
func (r *OnChainReconciler) confirmFirstMatch(ctx context.Context, d *domain.Deposit, transfers []indexedTransfer, used map[string]bool) (string, bool, error) {
	for {
		t := r.match(d, transfers, used)
		if t == nil {
			return "", false, nil
		}
		used[t.Hash] = true

		hash := t.Hash
		changed, err := r.settler.confirmDeposit(ctx, d, &hash, "onchain")
		if errors.Is(err, domain.ErrTransferAlreadyCredited) {
			r.log.Debug().
				Int64("deposit_id", d.ID).
				Str("tx_hash", hash).
				Msg("transfer already credited to another deposit, trying next match")
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("confirm deposit %d: %w", d.ID, err)
		}
		return hash, changed, nil
	}
}

// match returns the first unused transfer with the exact amount, the
// submitted sender and a time no earlier than creation minus the skew.
func (r *OnChainReconciler) match(d *domain.Deposit, transfers []indexedTransfer, used map[string]bool) *indexedTransfer {
	amount := d.Amount.String()
	source := r.canon.Canonical(d.Source())
	notBefore := d.CreatedAt.Unix() - int64(r.cfg.ClockSkew/time.Second)

	for i := range transfers {
		t := &transfers[i]
		if used[t.Hash] {
			continue
		}
		if t.Value == amount && t.source == source && t.Utime >= notBefore {
			return t
		}
	}
	return nil
}
