package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"dns-ledger-sim/models"
)

// Chain is the authority's hash-linked block sequence.
type Chain struct {
	blocks []models.LedgerBlock
}

// NewChain starts a chain holding only the hashed genesis block.
func NewChain() *Chain {
	g := Genesis()
	g.Hash = ComputeHash(g.Index, g.Data.String(), "")
	return &Chain{blocks: []models.LedgerBlock{g}}
}

// ChainFrom wraps stored blocks without re-hashing them.
func ChainFrom(blocks []models.LedgerBlock) *Chain {
	return &Chain{blocks: append([]models.LedgerBlock(nil), blocks...)}
}

// ComputeHash is the hex sha256 of "index:data:prev_hash".
func ComputeHash(index int, data, prevHash string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s:%s", index, data, prevHash)))
	return hex.EncodeToString(sum[:])
}

// Append links a block for rec after the current tip and returns it.
func (c *Chain) Append(rec models.CandidateRecord) models.LedgerBlock {
	last := c.blocks[len(c.blocks)-1]
	b := models.LedgerBlock{
		Index:    len(c.blocks),
		Data:     models.RecordData(rec),
		PrevHash: last.Hash,
	}
	b.Hash = ComputeHash(b.Index, b.Data.String(), b.PrevHash)
	c.blocks = append(c.blocks, b)
	return b
}

// Blocks returns a copy of the chain, genesis first.
func (c *Chain) Blocks() []models.LedgerBlock {
	return append([]models.LedgerBlock(nil), c.blocks...)
}

// Verify checks structure, hashes and prev-hash links.
func (c *Chain) Verify() error {
	if err := Validate(c.blocks); err != nil {
		return err
	}
	for i, b := range c.blocks {
		prev := ""
		if i > 0 {
			prev = c.blocks[i-1].Hash
		}
		if b.PrevHash != prev {
			return fmt.Errorf("%w: block %d prev_hash mismatch", ErrInvalidLedger, i)
		}
		if b.Hash != ComputeHash(b.Index, b.Data.String(), b.PrevHash) {
			return fmt.Errorf("%w: block %d hash mismatch", ErrInvalidLedger, i)
		}
	}
	return nil
}
