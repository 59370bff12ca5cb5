package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-staking/internal/storagemgr/kv"
	"github.com/axiomesh/axiom-staking/pkg/loggers"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

var (
	ErrNotFound = errors.New("not found in DB")
)

const receiptsCacheSize = 1024

var _ ChainLedger = (*ChainLedgerImpl)(nil)

type ChainLedgerImpl struct {
	backend   kv.Storage
	chainMeta *types.ChainMeta
	logger    logrus.FieldLogger

	// tx hash -> receipt
	receiptsCache *lru.Cache
}

func newChainLedger(backend kv.Storage) (*ChainLedgerImpl, error) {
	receiptsCache, err := lru.New(receiptsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("init receipts cache failed: %w", err)
	}
	c := &ChainLedgerImpl{
		backend:       backend,
		logger:        loggers.Logger(loggers.Ledger),
		receiptsCache: receiptsCache,
	}

	c.chainMeta, err = c.loadChainMeta()
	if err != nil {
		return nil, fmt.Errorf("load chain meta: %w", err)
	}
	return c, nil
}

func (c *ChainLedgerImpl) loadChainMeta() (*types.ChainMeta, error) {
	meta := &types.ChainMeta{}
	raw := c.backend.Get([]byte(chainMetaKey))
	if raw == nil {
		return meta, nil
	}
	if err := json.Unmarshal(raw, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// GetChainMeta returns a copy of the latest chain meta.
func (c *ChainLedgerImpl) GetChainMeta() *types.ChainMeta {
	meta := *c.chainMeta
	return &meta
}

func (c *ChainLedgerImpl) GetReceipt(txHash ethcommon.Hash) (*types.Receipt, error) {
	if v, ok := c.receiptsCache.Get(txHash); ok {
		return v.(*types.Receipt), nil
	}

	raw := c.backend.Get(compositeKey(receiptKey, txHash.Hex()))
	if raw == nil {
		return nil, ErrNotFound
	}
	receipt := &types.Receipt{}
	if err := json.Unmarshal(raw, receipt); err != nil {
		return nil, fmt.Errorf("unmarshal receipt %s: %w", txHash, err)
	}
	c.receiptsCache.Add(txHash, receipt)
	return receipt, nil
}

func (c *ChainLedgerImpl) PersistExecutionResult(meta *types.ChainMeta, receipts []*types.Receipt) error {
	if meta.Height != c.chainMeta.Height+1 {
		return fmt.Errorf("persist block %d, expect %d", meta.Height, c.chainMeta.Height+1)
	}
	start := time.Now()

	batch := c.backend.NewBatch()
	for _, receipt := range receipts {
		raw, err := json.Marshal(receipt)
		if err != nil {
			return fmt.Errorf("marshal receipt %s: %w", receipt.TxHash, err)
		}
		batch.Put(compositeKey(receiptKey, receipt.TxHash.Hex()), raw)
	}
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal chain meta: %w", err)
	}
	batch.Put([]byte(chainMetaKey), rawMeta)
	batch.Commit()

	for _, receipt := range receipts {
		c.receiptsCache.Add(receipt.TxHash, receipt)
	}
	c.chainMeta = meta
	c.logger.WithFields(logrus.Fields{
		"height":   meta.Height,
		"receipts": len(receipts),
		"elapse":   time.Since(start),
	}).Debug("Persist execution result")
	return nil
}

func (c *ChainLedgerImpl) Close() {
	c.receiptsCache.Purge()
}
