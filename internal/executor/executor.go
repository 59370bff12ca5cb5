package executor

import (
	"sync"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/axiomesh/axiom-staking/internal/executor/system"
	sys_common "github.com/axiomesh/axiom-staking/internal/executor/system/common"
	"github.com/axiomesh/axiom-staking/internal/genesis"
	"github.com/axiomesh/axiom-staking/internal/ledger"
	"github.com/axiomesh/axiom-staking/pkg/events"
	"github.com/axiomesh/axiom-staking/pkg/loggers"
	"github.com/axiomesh/axiom-staking/pkg/packer"
	"github.com/axiomesh/axiom-staking/pkg/repo"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

var ErrTimestampRegression = errors.New("block timestamp is smaller than the latest block")

var _ Executor = (*BlockExecutor)(nil)

// BlockExecutor executes every transaction in its own block, one at a time.
type BlockExecutor struct {
	ledger *ledger.Ledger
	logger logrus.FieldLogger
	rep    *repo.Repo
	clock  Clock
	lock   *sync.Mutex

	nvm *system.NativeVM

	blockFeed event.Feed
	logsFeed  event.Feed
}

// New creates executor instance, the genesis block is written if the ledger is empty.
func New(rep *repo.Repo, lg *ledger.Ledger, clock Clock) (*BlockExecutor, error) {
	exec := &BlockExecutor{
		ledger: lg,
		logger: loggers.Logger(loggers.Executor),
		rep:    rep,
		clock:  clock,
		lock:   &sync.Mutex{},
		nvm:    system.New(),
	}

	if lg.ChainLedger.GetChainMeta().Height == 0 {
		if err := exec.initGenesis(); err != nil {
			return nil, errors.Wrap(err, "init genesis")
		}
	}
	return exec, nil
}

func (exec *BlockExecutor) initGenesis() error {
	timestamp := exec.rep.GenesisConfig.Timestamp
	if timestamp == 0 {
		timestamp = exec.clock.Now()
	}

	meta, err := genesis.Initialize(exec.rep.GenesisConfig, exec.nvm, exec.ledger, timestamp)
	if err != nil {
		return err
	}
	exec.logger.WithFields(logrus.Fields{
		"height":    meta.Height,
		"timestamp": meta.Timestamp,
	}).Info("Genesis block persisted")
	return nil
}

// NativeVM exposes the abi helpers of the deployed system contracts.
func (exec *BlockExecutor) NativeVM() *system.NativeVM {
	return exec.nvm
}

func (exec *BlockExecutor) CurrentChainMeta() *types.ChainMeta {
	return exec.ledger.ChainLedger.GetChainMeta()
}

// GenesisConfig returns the genesis config the ledger was initialized with.
func (exec *BlockExecutor) GenesisConfig() (*repo.GenesisConfig, error) {
	return genesis.GetGenesisConfig(exec.ledger)
}

func (exec *BlockExecutor) GetReceipt(txHash ethcommon.Hash) (*types.Receipt, error) {
	return exec.ledger.ChainLedger.GetReceipt(txHash)
}

// SubscribeExecutedEvent registers a subscription of ExecutedEvent.
func (exec *BlockExecutor) SubscribeExecutedEvent(ch chan<- events.ExecutedEvent) event.Subscription {
	return exec.blockFeed.Subscribe(ch)
}

func (exec *BlockExecutor) SubscribeLogsEvent(ch chan<- []*types.EvmLog) event.Subscription {
	return exec.logsFeed.Subscribe(ch)
}

// ApplyTransaction runs tx atomically: a failed tx leaves no state change but still gets a receipt.
// The returned error is only set if the block could not be produced.
func (exec *BlockExecutor) ApplyTransaction(tx *types.Transaction) (*types.Receipt, error) {
	exec.lock.Lock()
	defer exec.lock.Unlock()

	current := time.Now()
	meta := exec.ledger.ChainLedger.GetChainMeta()
	timestamp, err := exec.nextTimestamp(meta)
	if err != nil {
		return nil, err
	}
	height := meta.Height + 1

	tx.Nonce = meta.TxCount
	txHash := tx.Hash()
	stateLedger := exec.ledger.StateLedger
	stateLedger.PrepareBlock(height, timestamp)

	receipt := &types.Receipt{
		TxHash:      txHash,
		BlockNumber: height,
		Timestamp:   timestamp,
		Status:      types.ReceiptSUCCESS,
	}
	snapshot := stateLedger.Snapshot()
	ret, execErr := exec.nvm.Run(sys_common.NewVMContext(stateLedger, height, timestamp, tx.From), tx.To, tx.Data)
	if execErr != nil {
		stateLedger.RevertToSnapshot(snapshot)
		receipt.Status = types.ReceiptFAILED
		receipt.Ret, receipt.RevertReason = revertReason(execErr)
	} else {
		receipt.Ret = ret
		for _, log := range stateLedger.GetLogs() {
			log.TxHash = txHash
			receipt.Logs = append(receipt.Logs, log)
		}
	}
	stateLedger.Finalise()

	newMeta := &types.ChainMeta{
		Height:    height,
		Timestamp: timestamp,
		TxCount:   meta.TxCount + 1,
	}
	if err := exec.ledger.PersistExecutionResult(newMeta, []*types.Receipt{receipt}); err != nil {
		return nil, errors.Wrapf(err, "persist block %d", height)
	}

	applyTxDuration.Observe(time.Since(current).Seconds())
	txCounter.WithLabelValues(receipt.Status.String()).Inc()
	exec.logger.WithFields(logrus.Fields{
		"height":    height,
		"timestamp": timestamp,
		"from":      tx.From,
		"to":        tx.To,
		"hash":      txHash,
		"status":    receipt.Status,
		"reason":    receipt.RevertReason,
		"elapse":    time.Since(current),
	}).Info("Executed transaction")

	exec.blockFeed.Send(events.ExecutedEvent{
		ChainMeta: newMeta,
		Receipts:  []*types.Receipt{receipt},
	})
	if len(receipt.Logs) != 0 {
		exec.logsFeed.Send(receipt.Logs)
	}
	return receipt, nil
}

// Call runs data against the latest state at the current clock time and drops every change.
func (exec *BlockExecutor) Call(from ethcommon.Address, to ethcommon.Address, data []byte) ([]byte, error) {
	exec.lock.Lock()
	defer exec.lock.Unlock()

	meta := exec.ledger.ChainLedger.GetChainMeta()
	timestamp := exec.clock.Now()
	if timestamp < meta.Timestamp {
		timestamp = meta.Timestamp
	}

	stateLedger := exec.ledger.StateLedger
	snapshot := stateLedger.Snapshot()
	defer func() {
		stateLedger.RevertToSnapshot(snapshot)
		stateLedger.Finalise()
	}()
	return exec.nvm.Run(sys_common.NewVMContext(stateLedger, meta.Height, timestamp, from), to, data)
}

func (exec *BlockExecutor) nextTimestamp(meta *types.ChainMeta) (uint64, error) {
	timestamp := exec.clock.Now()
	if timestamp >= meta.Timestamp {
		return timestamp, nil
	}
	if exec.rep.Config.Executor.StrictTimestamp {
		return 0, errors.Wrapf(ErrTimestampRegression, "got %d, latest %d", timestamp, meta.Timestamp)
	}
	exec.logger.WithFields(logrus.Fields{
		"clock":  timestamp,
		"latest": meta.Timestamp,
	}).Warn("Clock moved backwards, reuse the latest block timestamp")
	return meta.Timestamp, nil
}

// revertReason returns the revert data and a readable reason of a failed execution.
func revertReason(err error) ([]byte, string) {
	var revertErr *packer.RevertError
	if errors.As(err, &revertErr) {
		return revertErr.Data, revertErr.Reason
	}
	return nil, err.Error()
}
