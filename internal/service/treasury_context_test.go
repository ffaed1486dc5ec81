package service

import (
	"context"
	"fmt"
	"testing"

	"payments-worker/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreasuryContext_OpensOnce(t *testing.T) {
	opener := &fakeOpener{wallet: &fakeWallet{}}
	tc := NewTreasuryContext(opener, zerolog.Nop())

	w1, err := tc.Wallet(context.Background())
	require.NoError(t, err)
	w2, err := tc.Wallet(context.Background())
	require.NoError(t, err)

	assert.Same(t, w1, w2)
	assert.Equal(t, 1, opener.calls)
	assert.False(t, tc.Disabled())
}

func TestTreasuryContext_BadMnemonicIsSticky(t *testing.T) {
	opener := &fakeOpener{err: fmt.Errorf("derive key: %w", domain.ErrBadTreasuryMnemonic)}
	tc := NewTreasuryContext(opener, zerolog.Nop())

	_, err := tc.Wallet(context.Background())
	assert.ErrorIs(t, err, domain.ErrBadTreasuryMnemonic)
	_, err = tc.Wallet(context.Background())
	assert.ErrorIs(t, err, domain.ErrBadTreasuryMnemonic)

	assert.Equal(t, 1, opener.calls)
	assert.True(t, tc.Disabled())
}

func TestTreasuryContext_NotConfigured(t *testing.T) {
	tc := NewTreasuryContext(nil, zerolog.Nop())

	_, err := tc.Wallet(context.Background())
	assert.ErrorIs(t, err, ErrTreasuryDisabled)
	assert.True(t, tc.Disabled())
}
