package ton

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"payments-worker/config"
	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"

	"github.com/rs/zerolog"
	tongoconfig "github.com/tonkeeper/tongo/config"
	"github.com/tonkeeper/tongo/liteapi"
	"github.com/tonkeeper/tongo/tlb"
	tongo "github.com/tonkeeper/tongo/ton"
	"github.com/tonkeeper/tongo/wallet"
)

const minMnemonicWords = 12

type seqnoReader interface {
	GetSeqno(ctx context.Context, account tongo.AccountID) (uint32, error)
}

type messageSender interface {
	Send(ctx context.Context, messages ...wallet.Sendable) error
}

// Opener implements ports.TreasuryOpener with a v4r2 wallet over liteservers.
type Opener struct {
	cfg   config.TONConfig
	canon *Canonicalizer
	log   zerolog.Logger
}

// NewOpener creates a treasury opener. Nothing is derived until Open.
func NewOpener(cfg config.TONConfig, log zerolog.Logger) *Opener {
	return &Opener{
		cfg:   cfg,
		canon: NewCanonicalizer(cfg.Testnet),
		log:   log.With().Str("component", "treasury").Logger(),
	}
}

// Open derives the key from the mnemonic, connects to liteservers and
// computes the wallet address. The mnemonic is never logged.
func (o *Opener) Open(ctx context.Context) (ports.TreasuryWallet, error) {
	words := strings.Fields(o.cfg.TreasuryMnemonic)
	if len(words) < minMnemonicWords {
		return nil, domain.ErrBadTreasuryMnemonic
	}

	key, err := wallet.SeedToPrivateKey(strings.Join(words, " "))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadTreasuryMnemonic, err)
	}

	client, err := o.liteClient()
	if err != nil {
		return nil, fmt.Errorf("connect liteservers: %w", err)
	}

	w, err := wallet.New(key, wallet.V4R2, client)
	if err != nil {
		return nil, fmt.Errorf("open treasury wallet: %w", err)
	}

	t := newTreasury(&w, client, w.GetAddress(), o.cfg.Testnet)
	if configured := o.canon.Canonical(o.cfg.TreasuryAddress); configured != t.Address() {
		o.log.Warn().
			Str("configured", configured).
			Str("derived", t.Address()).
			Msg("treasury address mismatch, payouts are sent from the derived address")
	}
	return t, nil
}

func (o *Opener) liteClient() (*liteapi.Client, error) {
	if strings.TrimSpace(o.cfg.LiteServers) != "" {
		servers, err := tongoconfig.ParseLiteServersEnvVar(o.cfg.LiteServers)
		if err != nil {
			return nil, fmt.Errorf("parse lite_servers: %w", err)
		}
		return liteapi.NewClient(liteapi.WithLiteServers(servers))
	}
	if o.cfg.Testnet {
		return liteapi.NewClientWithDefaultTestnet()
	}
	return liteapi.NewClientWithDefaultMainnet()
}

// Treasury implements ports.TreasuryWallet.
type Treasury struct {
	sender  messageSender
	seqnos  seqnoReader
	account tongo.AccountID
	address string
}

func newTreasury(sender messageSender, seqnos seqnoReader, account tongo.AccountID, testnet bool) *Treasury {
	return &Treasury{
		sender:  sender,
		seqnos:  seqnos,
		account: account,
		address: account.ToHuman(true, testnet),
	}
}

// Address returns the derived treasury address in canonical form.
func (t *Treasury) Address() string {
	return t.address
}

// Seqno reads the wallet's current sequence number.
func (t *Treasury) Seqno(ctx context.Context) (uint32, error) {
	seqno, err := t.seqnos.GetSeqno(ctx, t.account)
	if err != nil {
		return 0, fmt.Errorf("get seqno: %w", err)
	}
	return seqno, nil
}

// Transfer sends one non-bounceable transfer. It refuses to send if the
// on-chain seqno moved since the caller read it. No transaction hash is
// known at submission time, so the returned reference is empty.
func (t *Treasury) Transfer(ctx context.Context, seqno uint32, to string, amount *big.Int) (string, error) {
	dest, err := tongo.ParseAccountID(strings.TrimSpace(to))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBadDestination, err)
	}
	if amount == nil || amount.Sign() <= 0 {
		return "", fmt.Errorf("non-positive amount %v", amount)
	}
	if !amount.IsUint64() {
		return "", domain.ErrAmountTooLarge
	}

	current, err := t.Seqno(ctx)
	if err != nil {
		return "", err
	}
	if current != seqno {
		return "", fmt.Errorf("%w: expected %d, got %d", domain.ErrSeqnoChanged, seqno, current)
	}

	err = t.sender.Send(ctx, wallet.SimpleTransfer{
		Amount:     tlb.Grams(amount.Uint64()),
		Address:    dest,
		Bounceable: false,
	})
	if err != nil {
		return "", fmt.Errorf("send transfer: %w", err)
	}
	return "", nil
}
