package ton

import (
	"strings"

	tongo "github.com/tonkeeper/tongo/ton"
)

// Canonicalizer renders addresses in bounceable url-safe form so that raw
// (0:hex), bounceable and non-bounceable spellings of one account compare equal.
type Canonicalizer struct {
	testnet bool
}

// NewCanonicalizer creates a canonicalizer for mainnet or testnet addresses.
func NewCanonicalizer(testnet bool) *Canonicalizer {
	return &Canonicalizer{testnet: testnet}
}

// Canonical returns the canonical form, or the trimmed input if it does not parse.
func (c *Canonicalizer) Canonical(address string) string {
	s := strings.TrimSpace(address)
	id, err := tongo.ParseAccountID(s)
	if err != nil {
		return s
	}
	return id.ToHuman(true, c.testnet)
}

// Valid reports whether address parses as a TON account id.
func Valid(address string) bool {
	_, err := tongo.ParseAccountID(strings.TrimSpace(address))
	return err == nil
}
