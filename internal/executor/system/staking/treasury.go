package staking

import (
	"math/big"

	"github.com/axiomesh/axiom-staking/internal/executor/system/common"
	"github.com/axiomesh/axiom-staking/internal/ledger"
)

const rewardsSupplyStorageKey = "rewardsSupply"

// treasury tracks the rewards tokens the contract holds on behalf of the owner.
type treasury struct {
	supply *common.VMSlot[*big.Int]
}

func newTreasury(stateAccount ledger.IAccount) *treasury {
	return &treasury{
		supply: common.NewVMSlot[*big.Int](stateAccount, rewardsSupplyStorageKey),
	}
}

func (t *treasury) balance() (*big.Int, error) {
	supply, err := t.supply.GetOrDefault(func() *big.Int { return big.NewInt(0) })
	if err != nil || supply != nil {
		return supply, err
	}
	return big.NewInt(0), nil
}

func (t *treasury) deposit(amount *big.Int) error {
	supply, err := t.balance()
	if err != nil {
		return err
	}
	return t.supply.Put(new(big.Int).Add(supply, amount))
}

func (t *treasury) withdraw(amount *big.Int) error {
	supply, err := t.balance()
	if err != nil {
		return err
	}
	if supply.Cmp(amount) < 0 {
		return ErrInsufficientRewards
	}
	return t.supply.Put(new(big.Int).Sub(supply, amount))
}

// drain empties the treasury and returns what it held.
func (t *treasury) drain() (*big.Int, error) {
	supply, err := t.balance()
	if err != nil {
		return nil, err
	}
	if err := t.supply.Put(big.NewInt(0)); err != nil {
		return nil, err
	}
	return supply, nil
}
