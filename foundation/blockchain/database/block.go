package database

import (
	"encoding/json"

	"github.com/ardanlabs/powledger/foundation/blockchain/hash"
	"github.com/shopspring/decimal"
)

// GenesisPrevHash is the previous hash stored in the genesis block, meaning
// the block has no predecessor.
const GenesisPrevHash = "0"

// =============================================================================

// BlockHeader represents the information about a block that is fixed before
// the proof of work starts.
type BlockHeader struct {
	Number        uint64 `json:"index"`         // Position of the block in the chain.
	PrevBlockHash string `json:"previous_hash"` // Hash of the previous block in the chain.
	TimeStamp     int64  `json:"timestamp"`     // Unix milliseconds when the block was assembled.
}

// Candidate represents a block that has not been sealed with a nonce and
// hash yet. It is never modified by the proof of work search.
type Candidate struct {
	Header BlockHeader
	Trans  []Tx
}

// NewCandidate constructs the candidate for the block following the
// specified block. The transactions are copied.
func NewCandidate(prevBlock Block, trans []Tx, timeStamp int64) Candidate {
	return Candidate{
		Header: BlockHeader{
			Number:        prevBlock.Header.Number + 1,
			PrevBlockHash: prevBlock.Hash,
			TimeStamp:     timeStamp,
		},
		Trans: copyTrans(trans),
	}
}

// Payload returns the canonical serialization of the candidate combined
// with the specified nonce. The encoding never includes the block hash.
func (c Candidate) Payload(nonce uint64) []byte {
	trans := c.Trans
	if trans == nil {
		trans = []Tx{}
	}

	// Field order is fixed by the struct so the same block always
	// serializes to the same bytes.
	p := struct {
		Index        uint64 `json:"index"`
		Transactions []Tx   `json:"transactions"`
		PrevHash     string `json:"previous_hash"`
		TimeStamp    int64  `json:"timestamp"`
		Nonce        uint64 `json:"nonce"`
	}{
		Index:        c.Header.Number,
		Transactions: trans,
		PrevHash:     c.Header.PrevBlockHash,
		TimeStamp:    c.Header.TimeStamp,
		Nonce:        nonce,
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil
	}

	return data
}

// Digest computes the hash of the candidate for the specified nonce using
// the specified hash function.
func (c Candidate) Digest(fn hash.Func, nonce uint64) string {
	return fn(c.Payload(nonce))
}

// Seal produces the final block for the nonce and hash found.
func (c Candidate) Seal(nonce uint64, digest string) Block {
	return Block{
		Header: c.Header,
		Trans:  copyTrans(c.Trans),
		Nonce:  nonce,
		Hash:   digest,
	}
}

// =============================================================================

// Block represents a group of transactions batched together and sealed.
type Block struct {
	Header BlockHeader
	Trans  []Tx
	Nonce  uint64
	Hash   string
}

// NewGenesisBlock constructs the root block of a chain. It holds a single
// zero value transaction from the system account to the genesis account and
// is hashed with the weak hash. No proof of work is performed.
func NewGenesisBlock(systemID string, genesisID string, timeStamp int64) Block {
	c := Candidate{
		Header: BlockHeader{
			Number:        0,
			PrevBlockHash: GenesisPrevHash,
			TimeStamp:     timeStamp,
		},
		Trans: []Tx{NewSystemTx(systemID, genesisID, decimal.Zero, timeStamp)},
	}

	return c.Seal(0, c.Digest(hash.Weak, 0))
}

// Candidate returns the unsealed part of the block.
func (b Block) Candidate() Candidate {
	return Candidate{
		Header: b.Header,
		Trans:  b.Trans,
	}
}

// Recompute calculates the hash of the block from its contents using the
// specified hash function. The stored hash is ignored.
func (b Block) Recompute(fn hash.Func) string {
	return b.Candidate().Digest(fn, b.Nonce)
}

// Clone returns a copy of the block that shares no memory with it.
func (b Block) Clone() Block {
	b.Trans = copyTrans(b.Trans)
	return b
}

// =============================================================================

// BlockData represents what is handed to clients and written to exports.
type BlockData struct {
	Index     uint64 `json:"index"`
	Trans     []Tx   `json:"transactions"`
	PrevHash  string `json:"previous_hash"`
	TimeStamp int64  `json:"timestamp"`
	Nonce     uint64 `json:"nonce"`
	Hash      string `json:"hash"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(block Block) BlockData {
	trans := copyTrans(block.Trans)
	if trans == nil {
		trans = []Tx{}
	}

	return BlockData{
		Index:     block.Header.Number,
		Trans:     trans,
		PrevHash:  block.Header.PrevBlockHash,
		TimeStamp: block.Header.TimeStamp,
		Nonce:     block.Nonce,
		Hash:      block.Hash,
	}
}

// =============================================================================

func copyTrans(trans []Tx) []Tx {
	if trans == nil {
		return nil
	}

	cpy := make([]Tx, len(trans))
	copy(cpy, trans)
	return cpy
}
