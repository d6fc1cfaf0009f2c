package repository

import (
	"dns-ledger-sim/db"
	"dns-ledger-sim/models"
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

const chainPrefix = "chain:"

// BlockEntry is one block destined for one validator's chain
type BlockEntry struct {
	NodeID int
	Block  models.LedgerBlock
}

// It abstracts the storage layer from the authority's voting logic
type ChainRepository interface {
	PutBlocks(entries []BlockEntry) error
	GetChain(nodeID int) ([]models.LedgerBlock, error)
	DeleteAll() error
}

// ChainRepository implementation using LevelDB as the storage backend
type LevelChainRepository struct {
	db *db.LevelDB
}

// NewChainRepository creates and returns a new LevelChainRepository instance
func NewChainRepository(db *db.LevelDB) *LevelChainRepository {
	return &LevelChainRepository{db: db}
}

func nodePrefix(nodeID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", chainPrefix, nodeID))
}

// Zero-padded so that key order matches block order
func blockKey(nodeID, index int) []byte {
	return []byte(fmt.Sprintf("%s%d:%010d", chainPrefix, nodeID, index))
}

// PutBlocks stores all entries in one batch: either every block lands or none does
func (r *LevelChainRepository) PutBlocks(entries []BlockEntry) error {
	batch := new(leveldb.Batch)
	for _, e := range entries {
		data, err := json.Marshal(e.Block)
		if err != nil {
			return err
		}
		batch.Put(blockKey(e.NodeID, e.Block.Index), data)
	}
	return r.db.WriteBatch(batch)
}

// GetChain retrieves a validator's chain ordered by index
func (r *LevelChainRepository) GetChain(nodeID int) ([]models.LedgerBlock, error) {
	iter := r.db.NewPrefixIterator(nodePrefix(nodeID))
	defer iter.Release()

	var blocks []models.LedgerBlock
	for iter.Next() {
		var block models.LedgerBlock
		if err := json.Unmarshal(iter.Value(), &block); err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, iter.Error()
}

// DeleteAll removes every validator's chain
func (r *LevelChainRepository) DeleteAll() error {
	return r.db.DeletePrefix([]byte(chainPrefix))
}
