package database

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/hash"
)

// ErrEmptyChain is returned when a chain doesn't contain a genesis block.
var ErrEmptyChain = errors.New("chain has no genesis block")

// InvalidBlockError reports the first block that broke the chain.
type InvalidBlockError struct {
	Index  uint64
	Reason string
}

// Error implements the error interface.
func (ibe *InvalidBlockError) Error() string {
	return fmt.Sprintf("block %d is invalid: %s", ibe.Index, ibe.Reason)
}

// =============================================================================

// ValidateBlock checks the block is correctly sealed with the specified hash
// function and links to the specified previous block.
func (b Block) ValidateBlock(previousBlock Block, fn hash.Func) error {
	if digest := b.Recompute(fn); digest != b.Hash {
		return &InvalidBlockError{
			Index:  b.Header.Number,
			Reason: fmt.Sprintf("stored hash doesn't match contents, got %s, exp %s", b.Hash, digest),
		}
	}

	if b.Header.PrevBlockHash != previousBlock.Hash {
		return &InvalidBlockError{
			Index:  b.Header.Number,
			Reason: fmt.Sprintf("previous hash doesn't match parent block, got %s, exp %s", b.Header.PrevBlockHash, previousBlock.Hash),
		}
	}

	return nil
}

// ValidateChain walks the chain and returns the first problem found. The
// genesis block is trusted as the root and is not re-hashed.
func ValidateChain(chain []Block, fn hash.Func) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}

	for i := 1; i < len(chain); i++ {
		if err := chain[i].ValidateBlock(chain[i-1], fn); err != nil {
			var ibe *InvalidBlockError
			if errors.As(err, &ibe) {
				ibe.Index = uint64(i)
			}
			return err
		}
	}

	return nil
}

// IsValidChain reports whether the chain passes ValidateChain.
func IsValidChain(chain []Block, fn hash.Func) bool {
	return ValidateChain(chain, fn) == nil
}
