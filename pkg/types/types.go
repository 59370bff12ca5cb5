package types

import (
	"encoding/json"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

type ReceiptStatus uint8

const (
	ReceiptSUCCESS ReceiptStatus = iota
	ReceiptFAILED
)

func (s ReceiptStatus) String() string {
	if s == ReceiptSUCCESS {
		return "success"
	}
	return "failed"
}

func (s ReceiptStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ReceiptStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "success":
		*s = ReceiptSUCCESS
	case "failed":
		*s = ReceiptFAILED
	default:
		return fmt.Errorf("unknown receipt status: %s", string(text))
	}
	return nil
}

// EvmLog is an event emitted by a system contract, encoded the same way as an evm log.
type EvmLog struct {
	Address     ethcommon.Address `json:"address"`
	Topics      []ethcommon.Hash  `json:"topics"`
	Data        hexutil.Bytes     `json:"data"`
	BlockNumber uint64            `json:"block_number"`
	TxHash      ethcommon.Hash    `json:"tx_hash"`
	Removed     bool              `json:"removed"`
}

// Transaction is a call into a system contract made by From at To.
type Transaction struct {
	From  ethcommon.Address `json:"from"`
	To    ethcommon.Address `json:"to"`
	Data  hexutil.Bytes     `json:"data"`
	Nonce uint64            `json:"nonce"`
}

func (tx *Transaction) Hash() ethcommon.Hash {
	raw, _ := json.Marshal(tx)
	return crypto.Keccak256Hash(raw)
}

type Receipt struct {
	TxHash       ethcommon.Hash `json:"tx_hash"`
	BlockNumber  uint64         `json:"block_number"`
	Timestamp    uint64         `json:"timestamp"`
	Status       ReceiptStatus  `json:"status"`
	Ret          hexutil.Bytes  `json:"ret"`
	RevertReason string         `json:"revert_reason,omitempty"`
	Logs         []*EvmLog      `json:"logs"`
}

// ChainMeta describes the latest committed block.
type ChainMeta struct {
	Height    uint64 `json:"height"`
	Timestamp uint64 `json:"timestamp"`
	TxCount   uint64 `json:"tx_count"`
}
