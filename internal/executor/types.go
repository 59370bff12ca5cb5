package executor

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"

	"github.com/axiomesh/axiom-staking/pkg/events"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

type Executor interface {
	// ApplyTransaction executes tx in a new block stamped by the clock
	ApplyTransaction(tx *types.Transaction) (*types.Receipt, error)

	// Call executes a read only call against the latest state, all changes are dropped
	Call(from ethcommon.Address, to ethcommon.Address, data []byte) ([]byte, error)

	CurrentChainMeta() *types.ChainMeta

	GetReceipt(txHash ethcommon.Hash) (*types.Receipt, error)

	SubscribeExecutedEvent(chan<- events.ExecutedEvent) event.Subscription

	SubscribeLogsEvent(chan<- []*types.EvmLog) event.Subscription
}
