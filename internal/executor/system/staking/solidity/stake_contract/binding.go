package stake_contract

import (
	_ "embed"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/axiomesh/axiom-staking/pkg/packer"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

//go:embed StakeContract.abi
var ABI string

type StakeContract interface {
	Stake(amount *big.Int) error

	Unstake() error

	Claim() error

	AddRewards(amount *big.Int) error

	ReclaimRewards() error

	SetStakeTime(time uint64) error

	SetClaimTime(time uint64) error

	SetRewardsTime(time uint64) error

	SetRewardsPercent(mantissa int64, exponent int8) error

	StakeOf(account common.Address) (*big.Int, uint64, uint64, error)

	PendingRewards(account common.Address) (*big.Int, uint64, error)

	RewardsSupply() (*big.Int, error)

	StakeTime() (uint64, error)

	ClaimTime() (uint64, error)

	RewardsTime() (uint64, error)

	RewardsPercent() (int64, int8, error)

	Owner() (common.Address, error)

	StakeToken() (common.Address, error)

	RewardsToken() (common.Address, error)
}

type EventStaked struct {
	Account common.Address
	Amount  *big.Int
}

func (_event *EventStaked) Pack(abi abi.ABI) (log *types.EvmLog, err error) {
	return packer.PackEvent(_event, abi.Events["Staked"])
}

type EventUnstaked struct {
	Account common.Address
	Amount  *big.Int
}

func (_event *EventUnstaked) Pack(abi abi.ABI) (log *types.EvmLog, err error) {
	return packer.PackEvent(_event, abi.Events["Unstaked"])
}

type EventClaimed struct {
	Account   common.Address
	Reward    *big.Int
	Intervals uint64
}

func (_event *EventClaimed) Pack(abi abi.ABI) (log *types.EvmLog, err error) {
	return packer.PackEvent(_event, abi.Events["Claimed"])
}

type EventRewardsAdded struct {
	Amount *big.Int
}

func (_event *EventRewardsAdded) Pack(abi abi.ABI) (log *types.EvmLog, err error) {
	return packer.PackEvent(_event, abi.Events["RewardsAdded"])
}

type EventRewardsReclaimed struct {
	Amount *big.Int
}

func (_event *EventRewardsReclaimed) Pack(abi abi.ABI) (log *types.EvmLog, err error) {
	return packer.PackEvent(_event, abi.Events["RewardsReclaimed"])
}

type EventConfigUpdated struct {
	Name  string
	Value *big.Int
}

func (_event *EventConfigUpdated) Pack(abi abi.ABI) (log *types.EvmLog, err error) {
	return packer.PackEvent(_event, abi.Events["ConfigUpdated"])
}
