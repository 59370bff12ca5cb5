package erc20

import (
	_ "embed"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/axiomesh/axiom-staking/pkg/packer"
	"github.com/axiomesh/axiom-staking/pkg/types"
)

//go:embed ERC20.abi
var ABI string

type ERC20 interface {
	Name() (string, error)

	Symbol() (string, error)

	Decimals() (uint8, error)

	TotalSupply() (*big.Int, error)

	Admin() (common.Address, error)

	BalanceOf(account common.Address) (*big.Int, error)

	Allowance(owner common.Address, spender common.Address) (*big.Int, error)

	Approve(spender common.Address, value *big.Int) (bool, error)

	Transfer(to common.Address, value *big.Int) (bool, error)

	TransferFrom(from common.Address, to common.Address, value *big.Int) (bool, error)

	Mint(to common.Address, value *big.Int) error

	Burn(value *big.Int) error
}

type EventTransfer struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

func (_event *EventTransfer) Pack(abi abi.ABI) (log *types.EvmLog, err error) {
	return packer.PackEvent(_event, abi.Events["Transfer"])
}

type EventApproval struct {
	Owner   common.Address
	Spender common.Address
	Value   *big.Int
}

func (_event *EventApproval) Pack(abi abi.ABI) (log *types.EvmLog, err error) {
	return packer.PackEvent(_event, abi.Events["Approval"])
}
