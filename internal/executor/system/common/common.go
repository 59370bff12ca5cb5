package common

import (
	"bytes"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/axiomesh/axiom-staking/internal/ledger"
	"github.com/axiomesh/axiom-staking/pkg/repo"
)

const (
	// ZeroAddress is a special address, no one has control
	ZeroAddress = "0x0000000000000000000000000000000000000000"

	// system contract address range 0x1000-0xffff, start from 1000, avoid conflicts with precompiled contracts
	// SystemContractStartAddr is the start address of system contract
	SystemContractStartAddr = "0x0000000000000000000000000000000000001000"

	// StakeTokenContractAddr is the token principals deposit
	StakeTokenContractAddr = "0x0000000000000000000000000000000000001001"

	// RewardsTokenContractAddr is the token rewards are paid in
	RewardsTokenContractAddr = "0x0000000000000000000000000000000000001002"

	StakingContractAddr = "0x0000000000000000000000000000000000001003"

	// SystemContractEndAddr is the end address of system contract
	SystemContractEndAddr = "0x000000000000000000000000000000000000ffff"
)

type VMContext struct {
	StateLedger ledger.StateLedger

	BlockNumber uint64

	// unix seconds, the only time source of system contracts
	BlockTimestamp uint64

	From ethcommon.Address

	// set for genesis init, skips permission checks
	CallFromSystem bool
}

func NewVMContext(stateLedger ledger.StateLedger, blockNumber uint64, blockTimestamp uint64, from ethcommon.Address) *VMContext {
	return &VMContext{
		StateLedger:    stateLedger,
		BlockNumber:    blockNumber,
		BlockTimestamp: blockTimestamp,
		From:           from,
	}
}

// SystemContract must be implemented by all system contract
type SystemContract interface {
	GenesisInit(genesis *repo.GenesisConfig) error

	SetContext(ctx *VMContext)
}

// SystemContractConstruct is the type erased build config used to deploy a system contract.
type SystemContractConstruct interface {
	ContractName() string

	ContractAddress() ethcommon.Address

	ContractABI() *abi.ABI

	BuildContract(ctx *VMContext) SystemContract
}

func IsSystemContractAddress(addr ethcommon.Address) bool {
	start := ethcommon.HexToAddress(SystemContractStartAddr)
	end := ethcommon.HexToAddress(SystemContractEndAddr)
	return bytes.Compare(addr.Bytes(), start.Bytes()) >= 0 && bytes.Compare(addr.Bytes(), end.Bytes()) <= 0
}
