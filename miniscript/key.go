package miniscript

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Key is the abstract public key carried by miniscript fragments. The
// context engine only needs to know how a key serializes and whether it
// expands to multiple derivation paths; concrete implementations below cover
// the usual cases.
type Key interface {
	// IsUncompressed reports whether the key serializes to the 65-byte
	// uncompressed form.
	IsUncompressed() bool

	// IsXOnly reports whether the key is a 32-byte x-only key.
	IsXOnly() bool

	// NumDerPaths returns the number of derivation-path alternatives a
	// multipath key expands to, or 0 for a single concrete key.
	NumDerPaths() int

	String() string
}

// PublicKey is a concrete secp256k1 public key with a compressedness flag,
// usable in the ECDSA contexts.
type PublicKey struct {
	pk         *secp256k1.PublicKey
	compressed bool
}

// ParsePublicKey parses a 33-byte compressed or 65-byte uncompressed public
// key.
func ParsePublicKey(serialized []byte) (*PublicKey, error) {
	pk, err := secp256k1.ParsePubKey(serialized)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	return &PublicKey{pk: pk, compressed: len(serialized) == 33}, nil
}

func (k *PublicKey) IsUncompressed() bool { return !k.compressed }

func (k *PublicKey) IsXOnly() bool { return false }

func (k *PublicKey) NumDerPaths() int { return 0 }

func (k *PublicKey) String() string {
	return hex.EncodeToString(k.Serialize())
}

// Serialize returns the key in the form it was parsed from.
func (k *PublicKey) Serialize() []byte {
	if k.compressed {
		return k.pk.SerializeCompressed()
	}
	return k.pk.SerializeUncompressed()
}

// Hash160 returns RIPEMD160(SHA256(key)) of the serialized key, as used by
// the key-hash fragments.
func (k *PublicKey) Hash160() [20]byte {
	var h [20]byte
	copy(h[:], btcutil.Hash160(k.Serialize()))
	return h
}

// XOnlyPublicKey is a 32-byte x-only public key, usable in the Tap context.
type XOnlyPublicKey struct {
	pk *secp256k1.PublicKey
}

// ParseXOnlyPublicKey parses a 32-byte x-only public key.
func ParseXOnlyPublicKey(serialized []byte) (*XOnlyPublicKey, error) {
	pk, err := schnorr.ParsePubKey(serialized)
	if err != nil {
		return nil, fmt.Errorf("invalid x-only public key: %w", err)
	}
	return &XOnlyPublicKey{pk: pk}, nil
}

func (k *XOnlyPublicKey) IsUncompressed() bool { return false }

func (k *XOnlyPublicKey) IsXOnly() bool { return true }

func (k *XOnlyPublicKey) NumDerPaths() int { return 0 }

func (k *XOnlyPublicKey) String() string {
	return hex.EncodeToString(schnorr.SerializePubKey(k.pk))
}

// Serialize returns the 32-byte x-only serialization.
func (k *XOnlyPublicKey) Serialize() []byte {
	return schnorr.SerializePubKey(k.pk)
}

// MultipathKey is a descriptor key expanding to one concrete key per
// derivation path. All multipath keys within one descriptor must expand to
// the same number of alternatives; TopLevelTypeCheck enforces that.
type MultipathKey struct {
	Key

	// DerivationPaths holds the path alternatives, e.g. "0", "1" for the
	// usual receive/change pair.
	DerivationPaths []string
}

func (k MultipathKey) NumDerPaths() int { return len(k.DerivationPaths) }
