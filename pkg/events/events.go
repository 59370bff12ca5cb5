package events

import (
	"github.com/axiomesh/axiom-staking/pkg/types"
)

// ExecutedEvent is published after the block of a transaction is persisted.
type ExecutedEvent struct {
	ChainMeta *types.ChainMeta
	Receipts  []*types.Receipt
}
