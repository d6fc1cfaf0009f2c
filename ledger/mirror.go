package ledger

import (
	"errors"
	"fmt"

	"dns-ledger-sim/models"
)

var ErrInvalidLedger = errors.New("invalid ledger")

// Genesis returns the unhashed index-0 block every ledger starts with.
func Genesis() models.LedgerBlock {
	return models.LedgerBlock{Index: 0, Data: models.GenesisData()}
}

// Mirror is the local read-only copy of the authoritative block sequence.
// It is only ever replaced wholesale.
type Mirror struct {
	blocks []models.LedgerBlock
}

// NewMirror creates a Mirror holding only the genesis block.
func NewMirror() *Mirror {
	return &Mirror{blocks: []models.LedgerBlock{Genesis()}}
}

// Replace swaps in a copy of blocks, discarding the previous sequence.
func (m *Mirror) Replace(blocks []models.LedgerBlock) {
	m.blocks = append([]models.LedgerBlock(nil), blocks...)
}

// Blocks returns a copy of the mirrored ledger.
func (m *Mirror) Blocks() []models.LedgerBlock {
	return append([]models.LedgerBlock(nil), m.blocks...)
}

// Len is the number of mirrored blocks, genesis included.
func (m *Mirror) Len() int {
	return len(m.blocks)
}

// LastIndex is the index of the newest block.
func (m *Mirror) LastIndex() int {
	return len(m.blocks) - 1
}

// Validate checks that blocks start with genesis and have contiguous indices.
func Validate(blocks []models.LedgerBlock) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidLedger)
	}
	if !blocks[0].Data.IsGenesis() {
		return fmt.Errorf("%w: block 0 is not genesis", ErrInvalidLedger)
	}
	for i, b := range blocks {
		if b.Index != i {
			return fmt.Errorf("%w: block at position %d has index %d", ErrInvalidLedger, i, b.Index)
		}
		if i > 0 && b.Data.IsGenesis() {
			return fmt.Errorf("%w: genesis payload at index %d", ErrInvalidLedger, i)
		}
	}
	return nil
}
