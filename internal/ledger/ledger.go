package ledger

import (
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/axiomesh/axiom-staking/internal/storagemgr"
	"github.com/axiomesh/axiom-staking/internal/storagemgr/kv"
	"github.com/axiomesh/axiom-staking/pkg/repo"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

type Ledger struct {
	ChainLedger ChainLedger
	StateLedger StateLedger

	backend kv.Storage
	path    string
}

// ChainLedger stores the chain meta and the receipts of executed transactions.
type ChainLedger interface {
	GetChainMeta() *types.ChainMeta

	GetReceipt(txHash ethcommon.Hash) (*types.Receipt, error)

	// PersistExecutionResult writes the receipts of a block and advances the chain meta
	PersistExecutionResult(meta *types.ChainMeta, receipts []*types.Receipt) error

	Close()
}

type StateLedger interface {
	StateAccessor

	AddLog(log *types.EvmLog)

	GetLogs() []*types.EvmLog

	// PrepareBlock sets the block context for the following transactions
	PrepareBlock(height uint64, timestamp uint64)

	// Finalise drops the journal of the finished transaction, it can not be reverted anymore
	Finalise()

	// Commit flushes all finalised changes into the backend
	Commit() error

	// Version is the latest committed block height
	Version() uint64

	Close()
}

// StateAccessor manipulates the state data
type StateAccessor interface {
	GetOrCreateAccount(ethcommon.Address) IAccount

	// GetAccount returns nil if the account was never created
	GetAccount(ethcommon.Address) IAccount

	GetState(ethcommon.Address, []byte) (bool, []byte)

	SetState(ethcommon.Address, []byte, []byte)

	GetCommittedState(ethcommon.Address, []byte) []byte

	Snapshot() int

	RevertToSnapshot(int)
}

type IAccount interface {
	fmt.Stringer

	GetAddress() ethcommon.Address

	GetState(key []byte) (bool, []byte)

	GetCommittedState(key []byte) []byte

	SetState(key []byte, value []byte)

	IsEmpty() bool
}

func NewLedgerWithStores(rep *repo.Repo, backend kv.Storage) (*Ledger, error) {
	chainLedger, err := newChainLedger(backend)
	if err != nil {
		return nil, fmt.Errorf("init chain ledger failed: %w", err)
	}
	stateLedger, err := newStateLedger(rep, backend)
	if err != nil {
		return nil, fmt.Errorf("init state ledger failed: %w", err)
	}

	meta := chainLedger.GetChainMeta()
	if stateLedger.Version() != meta.Height {
		return nil, fmt.Errorf("state version %d mismatches chain height %d", stateLedger.Version(), meta.Height)
	}

	return &Ledger{
		ChainLedger: chainLedger,
		StateLedger: stateLedger,
		backend:     backend,
	}, nil
}

func NewMemory(rep *repo.Repo) (*Ledger, error) {
	return NewLedgerWithStores(rep, kv.NewMemory())
}

func NewLedger(rep *repo.Repo) (*Ledger, error) {
	p := storagemgr.GetLedgerComponentPath(rep, storagemgr.Ledger)
	backend, err := storagemgr.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open ledger storage failed: %w", err)
	}
	l, err := NewLedgerWithStores(rep, backend)
	if err != nil {
		_ = storagemgr.Close(p)
		return nil, err
	}
	l.path = p
	return l, nil
}

// PersistExecutionResult commits the state of the block and then its receipts.
func (l *Ledger) PersistExecutionResult(meta *types.ChainMeta, receipts []*types.Receipt) error {
	if err := l.StateLedger.Commit(); err != nil {
		return err
	}
	return l.ChainLedger.PersistExecutionResult(meta, receipts)
}

func (l *Ledger) Close() {
	l.StateLedger.Close()
	l.ChainLedger.Close()
	if l.path != "" {
		_ = storagemgr.Close(l.path)
		return
	}
	_ = l.backend.Close()
}
