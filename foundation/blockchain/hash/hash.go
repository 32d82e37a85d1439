// Package hash provides the digest functions used to seal and verify blocks.
package hash

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Size is the number of hex characters in every digest produced by this
// package.
const Size = 64

// Set of strong hash names that can be configured for a ledger.
const (
	SHA256    = "sha256"
	Keccak256 = "keccak256"
)

// Func represents a function that produces a fixed length hex digest for
// the specified data. The caller decides which function applies to which
// block.
type Func func(data []byte) string

// Weak computes a fast non-cryptographic rolling hash over the bytes of
// the data. Text is hashed as its UTF-8 encoding. It is only used to give
// the genesis block a hash and offers no collision resistance.
func Weak(data []byte) string {
	var acc int32
	for _, b := range data {
		acc = (acc << 5) - acc + int32(b)
	}

	// Widen before taking the absolute value so math.MinInt32 survives.
	v := int64(acc)
	if v < 0 {
		v = -v
	}

	return fmt.Sprintf("%0*x", Size, v)
}

// Strong computes the SHA-256 digest of the data as lowercase hex.
func Strong(data []byte) string {
	sum := sha256.Sum256(data)
	return common.Bytes2Hex(sum[:])
}

// StrongKeccak computes the Keccak-256 digest of the data as lowercase hex.
func StrongKeccak(data []byte) string {
	return common.Bytes2Hex(crypto.Keccak256(data))
}

// Retrieve returns the strong hash function registered under the
// specified name.
func Retrieve(name string) (Func, error) {
	switch strings.ToLower(name) {
	case SHA256, "":
		return Strong, nil
	case Keccak256:
		return StrongKeccak, nil
	}

	return nil, fmt.Errorf("strong hash %q does not exist", name)
}

// IsSolved checks the digest complies with the proof of work rules. The
// first difficulty characters of the digest must all be 0.
func IsSolved(difficulty uint, digest string) bool {
	if len(digest) != Size || difficulty > Size {
		return false
	}

	for i := uint(0); i < difficulty; i++ {
		if digest[i] != '0' {
			return false
		}
	}

	return true
}
