package solana

import (
	"fmt"
	"regexp"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Address length bounds for the base58 text form of a 32-byte public key.
const (
	MinAddressLen = 32
	MaxAddressLen = 44
	PublicKeyLen  = 32
)

// AddressPattern matches a base58 (Bitcoin alphabet) address.
var AddressPattern = regexp.MustCompile(`[1-9A-HJ-NP-Za-km-z]{32,44}`)

var addressExact = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// DecodeAddress decodes a base58 address into its 32 public key bytes.
func DecodeAddress(address string) ([]byte, error) {
	if !addressExact.MatchString(address) {
		return nil, fmt.Errorf("address %q: not %d-%d base58 characters", address, MinAddressLen, MaxAddressLen)
	}
	decoded, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("decode address %q: %w", address, err)
	}
	if len(decoded) != PublicKeyLen {
		return nil, fmt.Errorf("address %q: decoded to %d bytes, want %d", address, len(decoded), PublicKeyLen)
	}
	return decoded, nil
}

// IsValidAddress reports whether address decodes to a 32-byte public key.
func IsValidAddress(address string) bool {
	_, err := DecodeAddress(address)
	return err == nil
}

// IsOnCurve reports whether address is a point on the ed25519 curve.
// Wallet keys are on-curve; program derived addresses are not.
func IsOnCurve(address string) bool {
	key, err := DecodeAddress(address)
	if err != nil {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(key)
	return err == nil
}
