// Package wallet verifies personal-message signatures from blockchain
// wallets. The backend only ever needs a yes/no answer, so the capability
// is an interface and the default implementation can be swapped per chain
// (or faked in tests).
package wallet

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/mr-tron/base58"
)

// Verifier answers whether signature is a valid signature of message by the
// wallet identified by address.
type Verifier interface {
	Verify(address, message, signature string) (bool, error)
}

// Ed25519Verifier verifies ed25519 personal-message signatures where the
// address is the base58-encoded public key and the signature is base64.
type Ed25519Verifier struct{}

func NewEd25519Verifier() *Ed25519Verifier {
	return &Ed25519Verifier{}
}

func (v *Ed25519Verifier) Verify(address, message, signature string) (bool, error) {
	if address == "" || message == "" || signature == "" {
		return false, nil
	}

	pubKeyBytes, err := base58.Decode(address)
	if err != nil {
		return false, err
	}
	if len(pubKeyBytes) != ed25519.PublicKeySize {
		return false, fmt.Errorf("ed25519: bad public key length: %d", len(pubKeyBytes))
	}

	sigBytes, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, err
	}

	return ed25519.Verify(pubKeyBytes, []byte(message), sigBytes), nil
}
